package main

import (
	"net/http"
	"os"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"groovia-bot-go/logcolors"
	"groovia-bot-go/middleware"
)

// startHealthServer serves the HTTP side surface. It blocks, so main runs it
// in its own goroutine.
func startHealthServer() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	router := newRouter()
	loggedRouter := middleware.LoggingMiddleware(router)
	handler := cors.Default().Handler(loggedRouter)

	log.Infof("%s Health server listening on port %s", logcolors.LogServer, port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Errorf("%s Health server stopped: %v", logcolors.LogServer, err)
	}
}
