package titlefinder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestResolveFromResultHeading(t *testing.T) {
	var calls atomic.Int32
	var firstQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			firstQuery.Store(r.URL.Query().Get("q"))
		}
		w.Write([]byte(`<html><body><h3><a href="/x">Tum Hi Ho - Lyrics Video | Aashiqui 2</a></h3></body></html>`))
	}))
	defer server.Close()

	r := NewResolver(ResolverOptions{SearchURL: server.URL})
	got := r.Resolve(context.Background(), "hum tere bin ab reh nahi sakte tere bina kya wajood mera")
	if got != "Tum Hi Ho" {
		t.Fatalf("Resolve = %q, want %q", got, "Tum Hi Ho")
	}

	q, _ := firstQuery.Load().(string)
	if !strings.HasSuffix(q, " lyrics") {
		t.Errorf("Expected first stage query with lyrics qualifier, got %q", q)
	}
	if !strings.HasPrefix(q, "hum tere bin") {
		t.Errorf("Expected raw text in first stage query, got %q", q)
	}
}

func TestResolveAllStagesFailReturnsEmpty(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`<html><body><p>Nothing here matched anything</p></body></html>`))
	}))
	defer server.Close()

	r := NewResolver(ResolverOptions{SearchURL: server.URL})
	if got := r.Resolve(context.Background(), "hum tere bin ab reh nahi sakte"); got != "" {
		t.Fatalf("Expected empty result when no candidate accepted, got %q", got)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected all 3 stages attempted, got %d", calls.Load())
	}
}

func TestResolveStageFailureAdvances(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`<html><body><h3>Channa Mereya</h3></body></html>`))
	}))
	defer server.Close()

	r := NewResolver(ResolverOptions{SearchURL: server.URL})
	if got := r.Resolve(context.Background(), "acha chalta hoon duaon mein yaad rakhna"); got != "Channa Mereya" {
		t.Fatalf("Expected second stage to resolve, got %q", got)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 calls, got %d", calls.Load())
	}
}

func TestResolveDeniedCandidatesSkipped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h3>YouTube Music</h3><h3>Agar Tum Saath Ho</h3></body></html>`))
	}))
	defer server.Close()

	r := NewResolver(ResolverOptions{SearchURL: server.URL})
	if got := r.Resolve(context.Background(), "palkein jhukao na socho zara"); got != "Agar Tum Saath Ho" {
		t.Fatalf("Expected denylisted candidate skipped, got %q", got)
	}
}

func TestFallbackQuery(t *testing.T) {
	got := FallbackQuery("one two three four five six seven eight")
	if got != "one two three four five six" {
		t.Errorf("FallbackQuery = %q", got)
	}
	if got := FallbackQuery("just three words"); got != "just three words" {
		t.Errorf("Expected short input unchanged, got %q", got)
	}
}
