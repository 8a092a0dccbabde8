package main

import (
	"fmt"
	"regexp"
	"strings"

	"groovia-bot-go/services/catalog"
	"groovia-bot-go/store"
)

// markdownEscaper covers every character MarkdownV2 treats as syntax.
var markdownEscaper = strings.NewReplacer(
	"_", "\\_", "*", "\\*", "[", "\\[", "]", "\\]", "(", "\\(", ")", "\\)",
	"~", "\\~", "`", "\\`", ">", "\\>", "#", "\\#", "+", "\\+", "-", "\\-",
	"=", "\\=", "|", "\\|", "{", "\\{", "}", "\\}", ".", "\\.", "!", "\\!",
)

func esc(s string) string {
	return markdownEscaper.Replace(s)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// formatDuration renders seconds as m:ss for captions and audio metadata.
func formatDuration(secs int) string {
	if secs <= 0 {
		return ""
	}
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

var unsafeFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// safeFileName strips filesystem-hostile characters from a title.
func safeFileName(title string) string {
	name := unsafeFileChars.ReplaceAllString(title, "")
	name = strings.TrimSpace(name)
	if name == "" {
		name = "song"
	}
	return truncate(name, 50) + ".mp3"
}

func welcomeText(userName string) string {
	name := "there"
	if userName != "" {
		name = userName
	}
	return fmt.Sprintf(
		"🎵 *Groovia Bot*\n\nHey %s\\!\n\nSend me a song name, a lyrics snippet, or a catalog link and I'll find the music\\.",
		esc(name),
	)
}

func helpText() string {
	return "💡 *Help*\n\n" +
		"• Send a song name to search\n" +
		"• Send a few lines of lyrics and I'll guess the song\n" +
		"• Paste a song, album or playlist link\n" +
		"• Tap a result to download"
}

// resultsText renders the visible window of the active result set.
func resultsText(label string, songs []catalog.Song, start, end, page, totalPages int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎶 *%s*\n\n", esc(truncate(label, 60)))
	for i := start; i < end && i < len(songs); i++ {
		s := songs[i]
		line := truncate(s.Title, 40)
		if s.Artists != "" {
			line += " — " + truncate(s.Artists, 30)
		}
		fmt.Fprintf(&b, "%d\\. %s\n", i+1, esc(line))
	}
	fmt.Fprintf(&b, "\n📄 Page %d/%d", page, totalPages)
	return b.String()
}

func songDetailText(s catalog.Song) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎵 *%s*\n", esc(s.Title))
	if s.Artists != "" {
		fmt.Fprintf(&b, "👤 %s\n", esc(s.Artists))
	}
	if s.Album != "" {
		fmt.Fprintf(&b, "💿 %s\n", esc(s.Album))
	}
	if d := formatDuration(s.DurationSeconds); d != "" {
		fmt.Fprintf(&b, "⏱ %s\n", esc(d))
	}
	if s.Year != "" {
		fmt.Fprintf(&b, "📅 %s\n", esc(s.Year))
	}
	if s.Language != "" {
		fmt.Fprintf(&b, "🗣 %s\n", esc(s.Language))
	}
	return b.String()
}

func lyricsText(title, lyrics string) string {
	// Message-size ceiling; lyrics routinely exceed it.
	return fmt.Sprintf("📝 *%s*\n\n%s", esc(title), esc(truncate(lyrics, 3500)))
}

func shareText(s catalog.Song) string {
	link := s.DetailURL
	if link == "" {
		link = "no link available"
	}
	return fmt.Sprintf("📤 *%s*\n%s\n\n%s", esc(s.Title), esc(s.Artists), esc(link))
}

func collectionLabel(kind store.CollectionKind, name string) string {
	switch kind {
	case store.KindFavorites:
		return "Your Favorites"
	case store.KindHistory:
		return "Recently Played"
	case store.KindAlbum:
		return "Album: " + name
	case store.KindPlaylist:
		return "Playlist: " + name
	case store.KindNamedPlaylist:
		return "Playlist: " + name
	default:
		return name
	}
}

func statsText(snapshot map[string]interface{}) string {
	events, _ := snapshot["events"].(map[string]interface{})
	features, _ := snapshot["features"].(map[string]interface{})
	delivery, _ := snapshot["delivery"].(map[string]interface{})
	server, _ := snapshot["server"].(map[string]interface{})

	return fmt.Sprintf(
		"📊 *Bot Stats*\n\n"+
			"⏱ Uptime: %s\n"+
			"👥 Users: %v\n"+
			"💬 Events: %v\n"+
			"🔍 Searches: %v\n"+
			"📝 Lyrics detections: %v\n"+
			"⬇️ Downloads: %v",
		esc(fmt.Sprintf("%v", server["uptime"])),
		events["unique_users"],
		events["total"],
		features["searches"],
		features["lyrics_detections"],
		delivery["downloads"],
	)
}
