package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"groovia-bot-go/transport"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text string
		cmd  string
		ok   bool
	}{
		{"/start", "start", true},
		{"/HELP", "help", true},
		{"/stats@GrooviaBot", "stats", true},
		{"/search tum hi ho", "search", true},
		{"plain text", "", false},
		{"/", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		cmd, ok := parseCommand(tt.text)
		if cmd != tt.cmd || ok != tt.ok {
			t.Errorf("parseCommand(%q) = %q, %v; want %q, %v", tt.text, cmd, ok, tt.cmd, tt.ok)
		}
	}
}

func TestConvertGreetsByFirstName(t *testing.T) {
	raw := tgUpdate{Message: &tgMessage{
		MessageID: 1,
		From:      &tgUser{ID: 5, FirstName: "Ana", Username: "ana99"},
		Chat:      tgChat{ID: 5},
		Text:      "hi",
	}}

	update, ok := convert(raw)
	if !ok || update.UserName != "Ana" {
		t.Errorf("Expected first name preferred, got %+v (ok=%v)", update, ok)
	}

	raw.Message.From.FirstName = ""
	update, _ = convert(raw)
	if update.UserName != "ana99" {
		t.Errorf("Expected handle fallback, got %q", update.UserName)
	}
}

func TestSendMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("Bad payload: %v", err)
		}
		if payload["text"] != "hello" {
			t.Errorf("Unexpected text %v", payload["text"])
		}
		w.Write([]byte(`{"ok":true,"result":{"message_id":42}}`))
	}))
	defer server.Close()

	b := New(Options{Token: "t", BaseURL: server.URL})
	id, err := b.Send(context.Background(), 7, transport.Message{
		Text:     "hello",
		Controls: [][]transport.Control{{{Label: "Close", Data: "cl"}}},
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if id != 42 {
		t.Errorf("Expected message id 42, got %d", id)
	}
}

func TestSendAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"Bad Request: message is too long"}`))
	}))
	defer server.Close()

	b := New(Options{Token: "t", BaseURL: server.URL})
	if _, err := b.Send(context.Background(), 7, transport.Message{Text: "x"}); err == nil {
		t.Fatal("Expected error from ok:false response")
	}
}

func TestUpdatesConvertsMessagesAndCallbacks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if offset, _ := payload["offset"].(float64); offset > 0 {
			// Drained; block briefly then return nothing.
			w.Write([]byte(`{"ok":true,"result":[]}`))
			return
		}
		w.Write([]byte(`{"ok":true,"result":[
			{"update_id":1,"message":{"message_id":10,"from":{"id":5,"username":"ana"},"chat":{"id":5},"text":"/start"}},
			{"update_id":2,"callback_query":{"id":"cb1","from":{"id":5},"message":{"message_id":11,"chat":{"id":5}},"data":"s:0:0"}}
		]}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b := New(Options{Token: "t", BaseURL: server.URL})
	updates := b.Updates(ctx)

	first := <-updates
	if first.UserID != 5 || first.Command != "start" || first.IsCallback() {
		t.Errorf("Unexpected first update %+v", first)
	}

	second := <-updates
	if !second.IsCallback() || second.CallbackData != "s:0:0" || second.MessageID != 11 {
		t.Errorf("Unexpected second update %+v", second)
	}

	cancel()
	if _, open := <-updates; open {
		// One buffered send may still race the cancel; the channel must
		// close right after.
		if _, open = <-updates; open {
			t.Error("Expected updates channel closed after cancel")
		}
	}
}
