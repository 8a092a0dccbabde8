package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"groovia-bot-go/logcolors"
	"groovia-bot-go/pagination"
	"groovia-bot-go/services/catalog"
	"groovia-bot-go/services/titlefinder"
	"groovia-bot-go/stats"
	"groovia-bot-go/store"
	"groovia-bot-go/token"
	"groovia-bot-go/transport"
)

const (
	// Queries below this length go straight back to the user, never to the
	// catalog.
	minQueryRunes = 2

	// Widest result index a control token may need to carry alongside a
	// playlist name.
	widestResultIndex = 9999
)

var moods = []string{"Romantic", "Sad", "Party", "Chill", "Workout", "Devotional", "Retro", "Focus"}

var moodQueries = map[string]string{
	"Romantic":   "romantic hindi songs",
	"Sad":        "sad songs hindi",
	"Party":      "party hits bollywood",
	"Chill":      "chill lofi hindi",
	"Workout":    "workout motivation songs",
	"Devotional": "devotional bhajan",
	"Retro":      "old hindi classics",
	"Focus":      "instrumental focus music",
}

var artists = []string{
	"Arijit Singh", "Shreya Ghoshal", "A.R. Rahman", "Atif Aslam",
	"Kishore Kumar", "Lata Mangeshkar", "Neha Kakkar", "Diljit Dosanjh",
}

func (b *Bot) handleCommand(ctx context.Context, u transport.Update) {
	log.Infof("%s /%s from %s", logcolors.LogCommand, u.Command, logcolors.User(u.UserID))

	var args string
	if fields := strings.Fields(u.Text); len(fields) > 1 {
		args = strings.Join(fields[1:], " ")
	}

	switch u.Command {
	case "start":
		b.send(ctx, u.ChatID, transport.Message{Text: welcomeText(u.UserName), Controls: mainMenuControls()})
	case "help":
		b.send(ctx, u.ChatID, transport.Message{Text: helpText(), Controls: mainMenuControls()})
	case "menu":
		b.send(ctx, u.ChatID, transport.Message{Text: welcomeText(u.UserName), Controls: mainMenuControls()})
	case "search":
		if len([]rune(args)) < minQueryRunes {
			b.send(ctx, u.ChatID, transport.Message{Text: "🔍 Usage: /search \\<song name\\>"})
			return
		}
		b.searchAndShow(ctx, u, args, args)
	case "favorites":
		b.openFavorites(ctx, u, false)
	case "history":
		b.openHistory(ctx, u, false)
	case "settings":
		b.send(ctx, u.ChatID, transport.Message{Text: "⚙️ *Settings*", Controls: settingsControls()})
	case "stats":
		b.send(ctx, u.ChatID, transport.Message{Text: statsText(stats.Get().Snapshot()), Controls: mainMenuControls()})
	default:
		b.send(ctx, u.ChatID, transport.Message{Text: "🤔 Unknown command\\. Try /help", Controls: mainMenuControls()})
	}
}

func (b *Bot) handleText(ctx context.Context, u transport.Update) {
	text := strings.TrimSpace(u.Text)
	if text == "" {
		return
	}

	if b.store.ConsumeAwaitingPlaylistName(u.UserID) {
		b.createPlaylistFromName(ctx, u, text)
		return
	}

	if link, ok := parseCatalogLink(text); ok {
		b.handleLink(ctx, u, link)
		return
	}

	if len([]rune(text)) < minQueryRunes {
		b.send(ctx, u.ChatID, transport.Message{Text: "🤏 *Too short\\!* Send at least 2 characters\\."})
		return
	}

	query, label := text, text
	if b.conf.FeatureFlags.LyricsDetection && b.detector.LooksLikeLyrics(text) {
		stats.Get().LyricsDetections.Add(1)
		stats.Get().TitleResolutions.Add(1)
		log.Infof("%s Message from %s reads as lyrics", logcolors.LogClassifier, logcolors.User(u.UserID))

		if title := b.resolver.Resolve(ctx, text); title != "" {
			stats.Get().TitleHits.Add(1)
			query, label = title, title
		} else {
			query = titlefinder.FallbackQuery(text)
			label = query
			log.Infof("%s No title resolved, literal search on %q", logcolors.LogFallback, query)
		}
	}

	b.searchAndShow(ctx, u, query, label)
}

func (b *Bot) createPlaylistFromName(ctx context.Context, u transport.Update, name string) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 || len([]rune(name)) > b.conf.Configuration.MaxPlaylistNameLen {
		b.send(ctx, u.ChatID, transport.Message{
			Text: fmt.Sprintf("⚠️ Playlist names need 2\\-%d characters\\. Try again from the playlist menu\\.", b.conf.Configuration.MaxPlaylistNameLen),
		})
		return
	}
	// The name rides inside control tokens later, and the per-song select
	// action is the widest carrier. A name that cannot be encoded there
	// would create a playlist no button can address.
	if _, err := token.Encode(token.Action{Kind: token.KindPlaylistSelect, Index: widestResultIndex, Name: name}); err != nil {
		b.send(ctx, u.ChatID, transport.Message{Text: "⚠️ That name is too long for the playlist buttons\\. Try a shorter one\\."})
		return
	}
	if !b.store.CreatePlaylist(u.UserID, name) {
		b.send(ctx, u.ChatID, transport.Message{Text: "⚠️ You already have a playlist named *" + esc(name) + "*\\."})
		return
	}
	log.Infof("%s %s created playlist %q", logcolors.LogPlaylist, logcolors.User(u.UserID), name)
	names, counts := b.store.PlaylistNames(u.UserID)
	b.send(ctx, u.ChatID, transport.Message{
		Text:     "✅ Playlist *" + esc(name) + "* created\\!",
		Controls: playlistListControls(names, counts),
	})
}

type catalogLink struct {
	kind string // "song", "album" or "playlist"
	url  string
}

// parseCatalogLink pulls a catalog permalink out of a message. Anything
// URL-shaped that is not a catalog link is ignored by the caller.
func parseCatalogLink(text string) (catalogLink, bool) {
	for _, field := range strings.Fields(text) {
		if !strings.Contains(field, "saavn.com") {
			continue
		}
		switch {
		case strings.Contains(field, "/song/"):
			return catalogLink{kind: "song", url: field}, true
		case strings.Contains(field, "/album/"):
			return catalogLink{kind: "album", url: field}, true
		case strings.Contains(field, "/playlist/"), strings.Contains(field, "/featured/"):
			return catalogLink{kind: "playlist", url: field}, true
		}
	}
	return catalogLink{}, false
}

func (b *Bot) handleLink(ctx context.Context, u transport.Update, link catalogLink) {
	log.Infof("%s %s link from %s", logcolors.LogCatalog, link.kind, logcolors.User(u.UserID))

	switch link.kind {
	case "song":
		song, err := b.catalog.SongDetail(ctx, link.url, false)
		if err != nil {
			b.sendCatalogError(ctx, u.ChatID, err)
			return
		}
		b.store.ReplaceActiveResults(u.UserID, []catalog.Song{*song}, song.Title, store.KindSearch)
		b.send(ctx, u.ChatID, transport.Message{
			Text:     songDetailText(*song),
			ImageURL: song.ImageURL,
			Controls: songDetailControls(0, 0, b.store.IsFavorite(u.UserID, song.ID)),
		})

	case "album":
		album, err := b.catalog.Album(ctx, link.url)
		if err != nil {
			b.sendCatalogError(ctx, u.ChatID, err)
			return
		}
		b.store.ReplaceActiveResults(u.UserID, album.Songs, album.Title, store.KindAlbum)
		b.showListing(ctx, u, 0, false)

	case "playlist":
		pl, err := b.catalog.Playlist(ctx, link.url)
		if err != nil {
			b.sendCatalogError(ctx, u.ChatID, err)
			return
		}
		b.store.ReplaceActiveResults(u.UserID, pl.Songs, pl.Name, store.KindPlaylist)
		b.showListing(ctx, u, 0, false)
	}
}

func (b *Bot) searchAndShow(ctx context.Context, u transport.Update, query, label string) {
	stats.Get().Searches.Add(1)
	log.Infof("%s %s searching %q", logcolors.LogSearch, logcolors.User(u.UserID), query)

	songs, err := b.catalog.Search(ctx, query)
	if err != nil {
		b.sendCatalogError(ctx, u.ChatID, err)
		return
	}

	b.store.ReplaceActiveResults(u.UserID, songs, label, store.KindSearch)
	b.showListing(ctx, u, 0, false)
}

func (b *Bot) sendCatalogError(ctx context.Context, chatID int64, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		b.send(ctx, chatID, transport.Message{Text: "😕 *No results\\!* Try different words\\.", Controls: mainMenuControls()})
		return
	}
	b.send(ctx, chatID, transport.Message{Text: "⚠️ The catalog is unavailable right now\\. Try again in a bit\\."})
}

// showListing renders the active result set at the given start offset,
// either as a fresh message or by editing the tapped one.
func (b *Bot) showListing(ctx context.Context, u transport.Update, start int, edit bool) {
	snap, ok := b.store.SessionSnapshot(u.UserID)
	if !ok || len(snap.Results) == 0 {
		if edit {
			b.answer(ctx, u, "Nothing to show — search first")
		}
		return
	}

	win := pagination.Paginate(len(snap.Results), b.conf.Configuration.SongsPerPage, start)
	label := collectionLabel(snap.Kind, snap.QueryLabel)
	msg := transport.Message{
		Text: resultsText(label, snap.Results, win.Start, win.End, win.Page, win.TotalPages),
	}

	switch snap.Kind {
	case store.KindFavorites:
		msg.Controls = favoritesControls(snap.Results, win)
	case store.KindHistory:
		msg.Controls = historyControls(snap.Results, win)
	default:
		msg.Controls = resultsControls(snap.Results, snap.Kind, win)
	}

	if edit {
		b.edit(ctx, u, msg)
		return
	}
	b.send(ctx, u.ChatID, msg)
}

func (b *Bot) openFavorites(ctx context.Context, u transport.Update, edit bool) {
	favs := b.store.Favorites(u.UserID)
	if len(favs) == 0 {
		if edit {
			b.answer(ctx, u, "No favorites yet")
			return
		}
		b.send(ctx, u.ChatID, transport.Message{Text: "💔 *No favorites yet\\!*", Controls: mainMenuControls()})
		return
	}
	b.store.ReplaceActiveResults(u.UserID, favs, "", store.KindFavorites)
	b.showListing(ctx, u, 0, edit)
}

func (b *Bot) openHistory(ctx context.Context, u transport.Update, edit bool) {
	hist := b.store.History(u.UserID)
	if len(hist) == 0 {
		if edit {
			b.answer(ctx, u, "History is empty")
			return
		}
		b.send(ctx, u.ChatID, transport.Message{Text: "🕘 *Nothing played yet\\!*", Controls: mainMenuControls()})
		return
	}
	b.store.ReplaceActiveResults(u.UserID, hist, "", store.KindHistory)
	b.showListing(ctx, u, 0, edit)
}
