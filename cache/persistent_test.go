package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, compression bool) *PersistentCache {
	t.Helper()
	pc, err := NewPersistentCache(filepath.Join(t.TempDir(), "cache.db"), compression)
	if err != nil {
		t.Fatalf("NewPersistentCache error: %v", err)
	}
	t.Cleanup(func() { pc.Close() })
	return pc
}

func TestSetAndGet(t *testing.T) {
	for _, compression := range []bool{false, true} {
		name := "plain"
		if compression {
			name = "compressed"
		}
		t.Run(name, func(t *testing.T) {
			pc := newTestCache(t, compression)

			if err := pc.Set("search:test", `[{"id":"a1"}]`, time.Hour); err != nil {
				t.Fatalf("Set error: %v", err)
			}

			got, ok := pc.Get("search:test")
			if !ok {
				t.Fatal("Expected cache hit")
			}
			if got != `[{"id":"a1"}]` {
				t.Errorf("Expected stored value back, got %q", got)
			}
		})
	}
}

func TestGetMissing(t *testing.T) {
	pc := newTestCache(t, false)

	if _, ok := pc.Get("nope"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestExpiredEntryIsDropped(t *testing.T) {
	pc := newTestCache(t, false)

	if err := pc.Set("short", "value", time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, ok := pc.Get("short"); ok {
		t.Error("Expected expired entry to miss")
	}
}

func TestZeroTTLNeverExpires(t *testing.T) {
	pc := newTestCache(t, false)

	if err := pc.Set("forever", "value", 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, ok := pc.Get("forever"); !ok {
		t.Error("Expected zero-TTL entry to live")
	}
}

func TestDelete(t *testing.T) {
	pc := newTestCache(t, false)

	pc.Set("k", "v", time.Hour)
	if err := pc.Delete("k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, ok := pc.Get("k"); ok {
		t.Error("Expected miss after delete")
	}
}

func TestClear(t *testing.T) {
	pc := newTestCache(t, false)

	pc.Set("a", "1", time.Hour)
	pc.Set("b", "2", time.Hour)
	if err := pc.Clear(); err != nil {
		t.Fatalf("Clear error: %v", err)
	}

	numKeys, _ := pc.Stats()
	if numKeys != 0 {
		t.Errorf("Expected 0 keys after clear, got %d", numKeys)
	}
}

func TestSweepRemovesExpired(t *testing.T) {
	pc := newTestCache(t, false)

	pc.Set("live", "v", time.Hour)
	pc.Set("dead", "v", time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	removed := pc.Sweep()
	if removed != 1 {
		t.Errorf("Expected 1 swept entry, got %d", removed)
	}
	if _, ok := pc.Get("live"); !ok {
		t.Error("Expected live entry to survive sweep")
	}
}

func TestSweeperRunsPeriodically(t *testing.T) {
	pc := newTestCache(t, false)
	pc.Set("dead", "v", time.Nanosecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pc.StartSweeper(ctx, 5*time.Millisecond)

	deadline := time.After(2 * time.Second)
	for {
		if numKeys, _ := pc.Stats(); numKeys == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("Expected sweeper to drop the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	pc, err := NewPersistentCache(path, true)
	if err != nil {
		t.Fatalf("NewPersistentCache error: %v", err)
	}
	pc.Set("persisted", "value", time.Hour)
	pc.Close()

	pc2, err := NewPersistentCache(path, true)
	if err != nil {
		t.Fatalf("Reopen error: %v", err)
	}
	defer pc2.Close()

	got, ok := pc2.Get("persisted")
	if !ok || got != "value" {
		t.Errorf("Expected persisted value after reopen, got %q (hit=%v)", got, ok)
	}
}

func TestCompressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "short string", text: "Hello, world!"},
		{name: "json payload", text: `{"songid":"a1","title":"Tum Hi Ho"}`},
		{name: "empty string", text: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compressed, err := compressString(tt.text)
			if err != nil {
				t.Fatalf("compressString error: %v", err)
			}
			decompressed, err := decompressString(compressed)
			if err != nil {
				t.Fatalf("decompressString error: %v", err)
			}
			if decompressed != tt.text {
				t.Errorf("Expected %q, got %q", tt.text, decompressed)
			}
		})
	}
}

func TestDecompressInvalidInput(t *testing.T) {
	if _, err := decompressString("not_base64!!"); err == nil {
		t.Error("Expected error for invalid base64 input")
	}
}
