package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"groovia-bot-go/logcolors"
	"groovia-bot-go/pagination"
	"groovia-bot-go/services/catalog"
	"groovia-bot-go/store"
	"groovia-bot-go/token"
	"groovia-bot-go/transport"
)

// control encodes an action onto a button. Encoding only fails on oversized
// names, which the name-length limits upstream already prevent; a failure
// here degrades to a no-op button rather than a panic.
func control(label string, a token.Action) transport.Control {
	data, err := token.Encode(a)
	if err != nil {
		log.Errorf("%s Failed to encode control %q: %v", logcolors.LogBot, label, err)
		data, _ = token.Encode(token.Action{Kind: token.KindNoop})
	}
	return transport.Control{Label: label, Data: data}
}

func mainMenuControls() [][]transport.Control {
	return [][]transport.Control{
		{
			control("🔍 Search", token.Action{Kind: token.KindMenuSearch}),
			control("🔥 Trending", token.Action{Kind: token.KindMenuTrending}),
		},
		{
			control("❤️ Favorites", token.Action{Kind: token.KindMenuFavorites}),
			control("🕘 History", token.Action{Kind: token.KindMenuHistory}),
		},
		{
			control("🎭 Moods", token.Action{Kind: token.KindMenuMoods}),
			control("🎤 Artists", token.Action{Kind: token.KindMenuArtists}),
		},
		{
			control("📋 Playlists", token.Action{Kind: token.KindMenuPlaylists}),
			control("⚙️ Settings", token.Action{Kind: token.KindMenuSettings}),
		},
		{
			control("💡 Help", token.Action{Kind: token.KindHelp}),
			control("✖️ Close", token.Action{Kind: token.KindClose}),
		},
	}
}

// resultsControls renders the numbered picks for the visible window plus the
// shared navigation row. Flat searches and nested collections use the same
// window math; only the item action differs.
func resultsControls(songs []catalog.Song, kind store.CollectionKind, win pagination.Window) [][]transport.Control {
	itemKind := token.KindSongDetail
	pageKind := token.KindPage
	if kind == store.KindAlbum || kind == store.KindPlaylist || kind == store.KindNamedPlaylist {
		itemKind = token.KindCollectionItem
		pageKind = token.KindCollectionPage
	}

	var rows [][]transport.Control
	var row []transport.Control
	for i := win.Start; i < win.End && i < len(songs); i++ {
		row = append(row, control(fmt.Sprintf("%d", i+1), token.Action{Kind: itemKind, Index: i}))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []transport.Control
	if win.HasPrev {
		nav = append(nav, control("⬅️", token.Action{Kind: pageKind, Page: win.PrevStart}))
	}
	nav = append(nav, control(fmt.Sprintf("%d/%d", win.Page, win.TotalPages), token.Action{Kind: token.KindNoop}))
	if win.HasNext {
		nav = append(nav, control("➡️", token.Action{Kind: pageKind, Page: win.NextStart}))
	}
	rows = append(rows, nav)

	rows = append(rows, []transport.Control{
		control("⬇️ All", token.Action{Kind: token.KindDownloadAll}),
		control("💾 Save All", token.Action{Kind: token.KindSaveAll}),
		control("🔀 Shuffle", token.Action{Kind: token.KindShuffle}),
	})
	rows = append(rows, []transport.Control{
		control("🏠 Menu", token.Action{Kind: token.KindMenu}),
		control("✖️ Close", token.Action{Kind: token.KindClose}),
	})
	return rows
}

func songDetailControls(index, backStart int, isFavorite bool) [][]transport.Control {
	favorite := control("❤️ Favorite", token.Action{Kind: token.KindFavoriteAdd, Index: index})
	if isFavorite {
		favorite = control("💔 Unfavorite", token.Action{Kind: token.KindFavoriteRemove, Index: index})
	}
	return [][]transport.Control{
		{
			control("⬇️ Download", token.Action{Kind: token.KindDownload, Index: index}),
			control("📝 Lyrics", token.Action{Kind: token.KindLyrics, Index: index}),
		},
		{
			favorite,
			control("📤 Share", token.Action{Kind: token.KindShare, Index: index}),
		},
		{
			control("➕ Playlist", token.Action{Kind: token.KindPlaylistPick, Index: index}),
		},
		{
			control("⬅️ Back", token.Action{Kind: token.KindBack, Page: backStart}),
			control("🏠 Menu", token.Action{Kind: token.KindMenu}),
		},
	}
}

// playlistPickControls lists the user's playlists as targets for one song.
func playlistPickControls(index int, names []string) [][]transport.Control {
	var rows [][]transport.Control
	for _, name := range names {
		rows = append(rows, []transport.Control{
			control("📋 "+truncate(name, 30), token.Action{Kind: token.KindPlaylistSelect, Index: index, Name: name}),
		})
	}
	rows = append(rows, []transport.Control{
		control("🆕 New Playlist", token.Action{Kind: token.KindNewPlaylist}),
		control("⬅️ Back", token.Action{Kind: token.KindSongDetail, Index: index}),
	})
	return rows
}

func playlistListControls(names []string, counts map[string]int) [][]transport.Control {
	var rows [][]transport.Control
	for _, name := range names {
		label := fmt.Sprintf("📋 %s (%d)", truncate(name, 25), counts[name])
		rows = append(rows, []transport.Control{
			control(label, token.Action{Kind: token.KindPlaylistOpen, Name: name}),
		})
	}
	rows = append(rows, []transport.Control{
		control("🆕 New Playlist", token.Action{Kind: token.KindNewPlaylist}),
		control("🏠 Menu", token.Action{Kind: token.KindMenu}),
	})
	return rows
}

func moodControls(moods []string) [][]transport.Control {
	var rows [][]transport.Control
	var row []transport.Control
	for _, mood := range moods {
		row = append(row, control(mood, token.Action{Kind: token.KindMood, Name: mood}))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []transport.Control{control("🏠 Menu", token.Action{Kind: token.KindMenu})})
	return rows
}

func artistControls(artists []string) [][]transport.Control {
	var rows [][]transport.Control
	var row []transport.Control
	for _, artist := range artists {
		row = append(row, control(artist, token.Action{Kind: token.KindArtist, Name: artist}))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []transport.Control{control("🏠 Menu", token.Action{Kind: token.KindMenu})})
	return rows
}

func settingsControls() [][]transport.Control {
	return [][]transport.Control{
		{control("🎚 Audio Quality", token.Action{Kind: token.KindQualityMenu})},
		{control("📊 Stats", token.Action{Kind: token.KindStats})},
		{control("🏠 Menu", token.Action{Kind: token.KindMenu})},
	}
}

func qualityControls(current catalog.QualityTier) [][]transport.Control {
	row := func(tier catalog.QualityTier, label string) []transport.Control {
		if tier == current {
			label = "✅ " + label
		}
		return []transport.Control{control(label, token.Action{Kind: token.KindQuality, Name: string(tier)})}
	}
	return [][]transport.Control{
		row(catalog.QualityLow, "Low · 96kbps"),
		row(catalog.QualityMedium, "Medium · 160kbps"),
		row(catalog.QualityHigh, "High · 320kbps"),
		{control("⬅️ Back", token.Action{Kind: token.KindMenuSettings})},
	}
}

func favoritesControls(songs []catalog.Song, win pagination.Window) [][]transport.Control {
	var rows [][]transport.Control
	var row []transport.Control
	for i := win.Start; i < win.End && i < len(songs); i++ {
		row = append(row, control(fmt.Sprintf("%d", i+1), token.Action{Kind: token.KindFavoriteOpen, Index: i}))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []transport.Control{
		control("🗑 Clear", token.Action{Kind: token.KindClearFavorites}),
		control("🏠 Menu", token.Action{Kind: token.KindMenu}),
	})
	return rows
}

func historyControls(songs []catalog.Song, win pagination.Window) [][]transport.Control {
	var rows [][]transport.Control
	var row []transport.Control
	for i := win.Start; i < win.End && i < len(songs); i++ {
		row = append(row, control(fmt.Sprintf("%d", i+1), token.Action{Kind: token.KindHistoryOpen, Index: i}))
		if len(row) == 5 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, []transport.Control{
		control("🗑 Clear", token.Action{Kind: token.KindClearHistory}),
		control("🏠 Menu", token.Action{Kind: token.KindMenu}),
	})
	return rows
}
