package main

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"groovia-bot-go/stats"
)

// newRouter builds the HTTP side surface: a liveness probe and a stats dump.
// The bot itself speaks over the chat transport, not HTTP.
func newRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"service": "groovia-bot",
			"help":    "Chat with the bot to search and download songs. /health for liveness, /stats for counters.",
		})
	})

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "ok",
			"uptime": stats.Get().Uptime().String(),
		})
	})

	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats.Get().Snapshot())
	})

	return router
}
