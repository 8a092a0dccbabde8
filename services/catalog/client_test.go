package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"groovia-bot-go/cache"
	"groovia-bot-go/circuitbreaker"
	"groovia-bot-go/stats"
)

func newTestClient(serverURL string) *Client {
	return New(Options{
		BaseURL:        serverURL,
		MaxRetries:     3,
		RequestTimeout: 2 * time.Second,
		Breaker:        circuitbreaker.New(circuitbreaker.Config{Name: "test", Threshold: 100}),
	})
}

func TestSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/result/" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("query"); got != "tum hi ho" {
			t.Errorf("Unexpected query %q", got)
		}
		w.Write([]byte(`[{"id":"a1","song":"Tum Hi Ho","singers":"Arijit Singh","duration":"262"}]`))
	}))
	defer server.Close()

	songs, err := newTestClient(server.URL).Search(context.Background(), "tum hi ho")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(songs) != 1 {
		t.Fatalf("Expected 1 song, got %d", len(songs))
	}
	if songs[0].ID != "a1" || songs[0].Title != "Tum Hi Ho" {
		t.Errorf("Expected normalized song, got %+v", songs[0])
	}
}

func TestSearchEmptyIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "zzz")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRetriesOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`[{"songid":"a1","title":"Song"}]`))
	}))
	defer server.Close()

	songs, err := newTestClient(server.URL).Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("Search error after retry: %v", err)
	}
	if len(songs) != 1 {
		t.Errorf("Expected 1 song after retry, got %d", len(songs))
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 calls, got %d", calls.Load())
	}
}

func TestExhaustedRetriesIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestMalformedPayloadIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "q")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for malformed payload, got %v", err)
	}
}

func TestBreakerOpenShortCircuits(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	breaker := circuitbreaker.New(circuitbreaker.Config{Name: "test", Threshold: 1, Cooldown: time.Hour})
	breaker.RecordFailure() // trips immediately

	c := New(Options{BaseURL: server.URL, MaxRetries: 1, Breaker: breaker})
	_, err := c.Search(context.Background(), "q")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("Expected ErrUnavailable from open breaker, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("Expected no network calls through open breaker, got %d", calls.Load())
	}
}

func TestCacheCountersTrackLookups(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"id":"a1","song":"Tum Hi Ho"}]`))
	}))
	defer server.Close()

	pc, err := cache.NewPersistentCache(filepath.Join(t.TempDir(), "cache.db"), false)
	if err != nil {
		t.Fatalf("NewPersistentCache error: %v", err)
	}
	defer pc.Close()

	c := New(Options{
		BaseURL:    server.URL,
		MaxRetries: 1,
		Breaker:    circuitbreaker.New(circuitbreaker.Config{Name: "test", Threshold: 100}),
		Cache:      pc,
		CacheTTL:   time.Hour,
	})

	// The global counters are shared, so only deltas are meaningful.
	hitsBefore := stats.Get().CacheHits.Load()
	missesBefore := stats.Get().CacheMisses.Load()

	for i := 0; i < 2; i++ {
		if _, err := c.Search(context.Background(), "tum hi ho"); err != nil {
			t.Fatalf("Search error: %v", err)
		}
	}

	if calls.Load() != 1 {
		t.Errorf("Expected second search served from cache, got %d network calls", calls.Load())
	}
	if got := stats.Get().CacheMisses.Load() - missesBefore; got != 1 {
		t.Errorf("Expected 1 recorded cache miss, got %d", got)
	}
	if got := stats.Get().CacheHits.Load() - hitsBefore; got != 1 {
		t.Errorf("Expected 1 recorded cache hit, got %d", got)
	}
}

func TestSongDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/song/" {
			t.Errorf("Unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("lyrics"); got != "true" {
			t.Errorf("Expected lyrics=true, got %q", got)
		}
		w.Write([]byte(`{"songid":"a1","title":"Tum Hi Ho","lyrics":"hum tere bin ab reh nahi sakte"}`))
	}))
	defer server.Close()

	song, err := newTestClient(server.URL).SongDetail(context.Background(), "http://catalog/song/a1", true)
	if err != nil {
		t.Fatalf("SongDetail error: %v", err)
	}
	if song.Lyrics == "" {
		t.Error("Expected lyrics in detail response")
	}
}

func TestAlbum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Aashiqui 2","songs":[{"id":"a1","song":"Tum Hi Ho"},{"id":"a2","song":"Sunn Raha Hai"}]}`))
	}))
	defer server.Close()

	album, err := newTestClient(server.URL).Album(context.Background(), "http://catalog/album/x")
	if err != nil {
		t.Fatalf("Album error: %v", err)
	}
	if album.Title != "Aashiqui 2" || len(album.Songs) != 2 {
		t.Errorf("Unexpected album %+v", album)
	}
	if album.Songs[0].ID != "a1" {
		t.Errorf("Expected normalized album songs, got %+v", album.Songs[0])
	}
}

func TestPlaylist(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"listname":"Romantic Hits","songs":[{"songid":"p1","title":"Raabta"}]}`))
	}))
	defer server.Close()

	pl, err := newTestClient(server.URL).Playlist(context.Background(), "http://catalog/playlist/y")
	if err != nil {
		t.Fatalf("Playlist error: %v", err)
	}
	if pl.Name != "Romantic Hits" || len(pl.Songs) != 1 {
		t.Errorf("Unexpected playlist %+v", pl)
	}
}

func TestDownloadMedia(t *testing.T) {
	payload := []byte{0x49, 0x44, 0x33, 0x04} // looks like an MP3 header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	data, err := newTestClient(server.URL).DownloadMedia(context.Background(), server.URL+"/x_160.mp4")
	if err != nil {
		t.Fatalf("DownloadMedia error: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("Expected media bytes passed through untouched")
	}
}
