package main

import (
	"strings"
	"testing"

	"groovia-bot-go/services/catalog"
)

func TestEscEscapesMarkdownSyntax(t *testing.T) {
	got := esc("Mr. Brightside (Live) - 2004!")
	want := "Mr\\. Brightside \\(Live\\) \\- 2004\\!"
	if got != want {
		t.Errorf("esc = %q, want %q", got, want)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("Expected short string untouched, got %q", got)
	}
	got := truncate("a very long song title indeed", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("Expected 10-rune truncation with ellipsis, got %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{262, "4:22"},
		{59, "0:59"},
		{600, "10:00"},
		{0, ""},
		{-5, ""},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestSafeFileName(t *testing.T) {
	got := safeFileName(`Tum Hi Ho: The "Best" <Mix>/2013`)
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Errorf("Expected hostile characters stripped, got %q", got)
	}
	if !strings.HasSuffix(got, ".mp3") {
		t.Errorf("Expected .mp3 suffix, got %q", got)
	}
	if got := safeFileName("///"); got != "song.mp3" {
		t.Errorf("Expected fallback name for empty title, got %q", got)
	}
}

func TestResultsTextRendersWindowOnly(t *testing.T) {
	songs := []catalog.Song{
		{Title: "One", Artists: "A"},
		{Title: "Two", Artists: "B"},
		{Title: "Three", Artists: "C"},
	}
	got := resultsText("my search", songs, 0, 2, 1, 2)

	if !strings.Contains(got, "One") || !strings.Contains(got, "Two") {
		t.Errorf("Expected window items rendered, got %q", got)
	}
	if strings.Contains(got, "Three") {
		t.Errorf("Expected item past window excluded, got %q", got)
	}
	if !strings.Contains(got, "Page 1/2") {
		t.Errorf("Expected page indicator, got %q", got)
	}
}
