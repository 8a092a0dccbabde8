package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"groovia-bot-go/logcolors"
	"groovia-bot-go/services/catalog"
	"groovia-bot-go/stats"
	"groovia-bot-go/store"
	"groovia-bot-go/token"
	"groovia-bot-go/transport"
)

func (b *Bot) handleCallback(ctx context.Context, u transport.Update) {
	action, err := token.Decode(u.CallbackData)
	if err != nil {
		// Stale or foreign tap; acknowledge and move on.
		log.Debugf("%s Undecodable tap from %s: %q", logcolors.LogCallback, logcolors.User(u.UserID), u.CallbackData)
		b.answer(ctx, u, "")
		return
	}
	log.Debugf("%s %s tapped %q", logcolors.LogCallback, logcolors.User(u.UserID), u.CallbackData)

	switch action.Kind {
	case token.KindNoop:
		b.answer(ctx, u, "")

	case token.KindMenu:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: welcomeText(u.UserName), Controls: mainMenuControls()})

	case token.KindClose:
		b.answer(ctx, u, "")
		if err := b.tr.Delete(ctx, u.ChatID, u.MessageID); err != nil {
			log.Debugf("%s Delete of message %d failed: %v", logcolors.LogBot, u.MessageID, err)
		}

	case token.KindHelp:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: helpText(), Controls: mainMenuControls()})

	case token.KindStats:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: statsText(stats.Get().Snapshot()), Controls: mainMenuControls()})

	case token.KindMenuSearch:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: "🔍 *Search Mode*\n\nSend a song name, lyrics, or a link\\!", Controls: mainMenuControls()})

	case token.KindMenuTrending:
		b.answer(ctx, u, "🔥 Fetching trending tracks…")
		b.searchAndShow(ctx, u, "trending bollywood hits", "Trending Now")

	case token.KindMenuFavorites:
		b.answer(ctx, u, "")
		b.openFavorites(ctx, u, true)

	case token.KindMenuHistory:
		b.answer(ctx, u, "")
		b.openHistory(ctx, u, true)

	case token.KindMenuMoods:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: "🎭 *Pick a mood*", Controls: moodControls(moods)})

	case token.KindMenuArtists:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: "🎤 *Pick an artist*", Controls: artistControls(artists)})

	case token.KindMenuSettings:
		b.answer(ctx, u, "")
		b.edit(ctx, u, transport.Message{Text: "⚙️ *Settings*", Controls: settingsControls()})

	case token.KindMenuPlaylists:
		b.answer(ctx, u, "")
		names, counts := b.store.PlaylistNames(u.UserID)
		b.edit(ctx, u, transport.Message{Text: "📋 *Your Playlists*", Controls: playlistListControls(names, counts)})

	case token.KindSongDetail, token.KindCollectionItem, token.KindFavoriteOpen, token.KindHistoryOpen:
		b.showSongDetail(ctx, u, action.Index)

	case token.KindPage, token.KindCollectionPage, token.KindBack:
		b.answer(ctx, u, "")
		b.showListing(ctx, u, action.Page, true)

	case token.KindDownload:
		b.downloadOne(ctx, u, action.Index)

	case token.KindDownloadAll:
		b.downloadBatch(ctx, u)

	case token.KindLyrics:
		b.showLyrics(ctx, u, action.Index)

	case token.KindShare:
		b.shareSong(ctx, u, action.Index)

	case token.KindFavoriteAdd:
		b.favoriteSong(ctx, u, action.Index, true)

	case token.KindFavoriteRemove:
		b.favoriteSong(ctx, u, action.Index, false)

	case token.KindSaveAll:
		b.saveAllToFavorites(ctx, u)

	case token.KindShuffle:
		if !b.shuffleSession(u.UserID) {
			b.answer(ctx, u, "Nothing to shuffle")
			return
		}
		b.answer(ctx, u, "🔀 Shuffled")
		b.showListing(ctx, u, 0, true)

	case token.KindClearFavorites:
		b.store.ClearFavorites(u.UserID)
		b.answer(ctx, u, "🗑 Favorites cleared")
		b.edit(ctx, u, transport.Message{Text: welcomeText(u.UserName), Controls: mainMenuControls()})

	case token.KindClearHistory:
		b.store.ClearHistory(u.UserID)
		b.answer(ctx, u, "🗑 History cleared")
		b.edit(ctx, u, transport.Message{Text: welcomeText(u.UserName), Controls: mainMenuControls()})

	case token.KindNewPlaylist:
		b.store.SetAwaitingPlaylistName(u.UserID, true)
		b.answer(ctx, u, "")
		b.send(ctx, u.ChatID, transport.Message{Text: "🆕 Send me a name for the new playlist\\."})

	case token.KindPlaylistPick:
		b.answer(ctx, u, "")
		names, _ := b.store.PlaylistNames(u.UserID)
		b.editControls(ctx, u, playlistPickControls(action.Index, names))

	case token.KindPlaylistSelect:
		b.addToPlaylist(ctx, u, action.Index, action.Name)

	case token.KindPlaylistOpen:
		b.openPlaylist(ctx, u, action.Name)

	case token.KindMood:
		query, ok := moodQueries[action.Name]
		if !ok {
			query = action.Name + " songs"
		}
		b.answer(ctx, u, "")
		b.searchAndShow(ctx, u, query, action.Name+" Mix")

	case token.KindArtist:
		b.answer(ctx, u, "")
		b.searchAndShow(ctx, u, action.Name, action.Name)

	case token.KindQualityMenu:
		b.answer(ctx, u, "")
		current := b.store.Quality(u.UserID)
		b.edit(ctx, u, transport.Message{Text: "🎚 *Audio Quality*\n\nCurrent: " + esc(current.Bitrate()), Controls: qualityControls(current)})

	case token.KindQuality:
		tier := catalog.ParseQualityTier(action.Name)
		b.store.SetQuality(u.UserID, tier)
		b.answer(ctx, u, "🎚 Quality set to "+tier.Bitrate())
		b.edit(ctx, u, transport.Message{Text: "🎚 *Audio Quality*\n\nCurrent: " + esc(tier.Bitrate()), Controls: qualityControls(tier)})

	default:
		b.answer(ctx, u, "")
	}
}

func (b *Bot) showSongDetail(ctx context.Context, u transport.Update, index int) {
	song, gen, ok := b.store.SongAt(u.UserID, index)
	if !ok {
		b.answer(ctx, u, "That list has expired — search again")
		return
	}
	b.answer(ctx, u, "")

	// Listings often carry thin records; fetch full detail lazily, off any
	// lock, and merge it back only if the session has not moved on.
	if song.MediaURL == "" && song.DetailURL != "" {
		if full, err := b.catalog.SongDetail(ctx, song.DetailURL, false); err == nil {
			song = *full
			if !b.store.UpdateSongAt(u.UserID, index, gen, song) {
				log.Debugf("%s Discarded stale detail for %s", logcolors.LogSession, logcolors.User(u.UserID))
			}
		}
	}

	backStart := (index / b.conf.Configuration.SongsPerPage) * b.conf.Configuration.SongsPerPage
	b.edit(ctx, u, transport.Message{
		Text:     songDetailText(song),
		Controls: songDetailControls(index, backStart, b.store.IsFavorite(u.UserID, song.ID)),
	})
}

// ensureMedia returns the song with a usable media URL, fetching detail when
// the listed record lacks one. The generation guard keeps a slow fetch from
// polluting a newer session.
func (b *Bot) ensureMedia(ctx context.Context, userID int64, index int, gen uint64, song catalog.Song) (catalog.Song, bool) {
	if song.MediaURL != "" {
		return song, true
	}
	if song.DetailURL == "" {
		return song, false
	}
	full, err := b.catalog.SongDetail(ctx, song.DetailURL, false)
	if err != nil || full.MediaURL == "" {
		return song, false
	}
	b.store.UpdateSongAt(userID, index, gen, *full)
	return *full, true
}

func (b *Bot) deliverSong(ctx context.Context, chatID, userID int64, song catalog.Song) error {
	quality := b.store.Quality(userID)
	mediaURL := catalog.QualityURL(song.MediaURL, quality)

	data, err := b.catalog.DownloadMedia(ctx, mediaURL)
	if err != nil {
		return err
	}

	caption := song.Title
	if song.Artists != "" {
		caption += " — " + song.Artists
	}
	err = b.tr.SendAudio(ctx, chatID, transport.Audio{
		Title:           song.Title,
		Performer:       song.Artists,
		FileName:        safeFileName(song.Title),
		DurationSeconds: song.DurationSeconds,
		ThumbURL:        song.ImageURL,
		Caption:         caption,
		Data:            data,
	})
	if err != nil {
		return err
	}
	b.store.AddHistory(userID, song)
	return nil
}

func (b *Bot) downloadOne(ctx context.Context, u transport.Update, index int) {
	song, gen, ok := b.store.SongAt(u.UserID, index)
	if !ok {
		b.answer(ctx, u, "That list has expired — search again")
		return
	}
	b.answer(ctx, u, "⬇️ Downloading…")

	song, ok = b.ensureMedia(ctx, u.UserID, index, gen, song)
	if !ok {
		stats.Get().DownloadsFailed.Add(1)
		b.send(ctx, u.ChatID, transport.Message{Text: "⚠️ No downloadable audio for *" + esc(song.Title) + "*\\."})
		return
	}

	log.Infof("%s %s downloading %q", logcolors.LogDownload, logcolors.User(u.UserID), song.Title)
	if err := b.deliverSong(ctx, u.ChatID, u.UserID, song); err != nil {
		stats.Get().DownloadsFailed.Add(1)
		log.Warnf("%s Delivery of %q failed: %v", logcolors.LogDownload, song.Title, err)
		b.send(ctx, u.ChatID, transport.Message{Text: "⚠️ Download failed\\. Try again in a bit\\."})
		return
	}
	stats.Get().Downloads.Add(1)
}

// downloadBatch delivers the active result set sequentially with pacing
// between items. Partial success is reported, never treated as failure.
func (b *Bot) downloadBatch(ctx context.Context, u transport.Update) {
	snap, ok := b.store.SessionSnapshot(u.UserID)
	if !ok || len(snap.Results) == 0 {
		b.answer(ctx, u, "Nothing to download — search first")
		return
	}

	songs := snap.Results
	limit := b.conf.Configuration.BatchDownloadLimit
	if limit > 0 && len(songs) > limit {
		songs = songs[:limit]
	}

	jobID := uuid.NewString()[:8]
	stats.Get().BatchJobs.Add(1)
	b.answer(ctx, u, fmt.Sprintf("📦 Downloading %d songs…", len(songs)))
	log.Infof("%s Job %s for %s: %d songs", logcolors.LogBatch, jobID, logcolors.User(u.UserID), len(songs))

	pacing := time.Duration(b.conf.Configuration.BatchPacingMs) * time.Millisecond
	delivered := 0
	for i, song := range songs {
		if i > 0 {
			timer := time.NewTimer(pacing)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}

		current, gen, ok := b.store.SongAt(u.UserID, i)
		if !ok || current.ID != song.ID {
			// The session moved on mid-batch; stop rather than deliver
			// songs the user no longer sees.
			log.Infof("%s Job %s stopped at item %d: session replaced", logcolors.LogBatch, jobID, i)
			break
		}
		current, ok = b.ensureMedia(ctx, u.UserID, i, gen, current)
		if !ok {
			stats.Get().DownloadsFailed.Add(1)
			continue
		}
		if err := b.deliverSong(ctx, u.ChatID, u.UserID, current); err != nil {
			stats.Get().DownloadsFailed.Add(1)
			log.Warnf("%s Job %s item %d failed: %v", logcolors.LogBatch, jobID, i, err)
			continue
		}
		stats.Get().Downloads.Add(1)
		delivered++
	}

	log.Infof("%s Job %s done: %d/%d delivered", logcolors.LogBatch, jobID, delivered, len(songs))
	b.send(ctx, u.ChatID, transport.Message{
		Text: fmt.Sprintf("📦 *Batch done\\!* %d of %d delivered\\.", delivered, len(songs)),
	})
}

func (b *Bot) showLyrics(ctx context.Context, u transport.Update, index int) {
	song, gen, ok := b.store.SongAt(u.UserID, index)
	if !ok {
		b.answer(ctx, u, "That list has expired — search again")
		return
	}
	if song.DetailURL == "" {
		b.answer(ctx, u, "😕 No lyrics for this one")
		return
	}
	b.answer(ctx, u, "📝 Fetching lyrics…")

	full, err := b.catalog.SongDetail(ctx, song.DetailURL, true)
	if err != nil || full.Lyrics == "" {
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			log.Warnf("%s Lyrics fetch for %q failed: %v", logcolors.LogCatalog, song.Title, err)
		}
		b.send(ctx, u.ChatID, transport.Message{Text: "😕 *No lyrics found\\!*"})
		return
	}
	b.store.UpdateSongAt(u.UserID, index, gen, *full)
	b.send(ctx, u.ChatID, transport.Message{Text: lyricsText(full.Title, full.Lyrics)})
}

func (b *Bot) shareSong(ctx context.Context, u transport.Update, index int) {
	song, _, ok := b.store.SongAt(u.UserID, index)
	if !ok {
		b.answer(ctx, u, "That list has expired — search again")
		return
	}
	b.answer(ctx, u, "")
	b.send(ctx, u.ChatID, transport.Message{Text: shareText(song)})
}

func (b *Bot) favoriteSong(ctx context.Context, u transport.Update, index int, add bool) {
	song, _, ok := b.store.SongAt(u.UserID, index)
	if !ok {
		b.answer(ctx, u, "That list has expired — search again")
		return
	}

	if add {
		if b.store.AddFavorite(u.UserID, song) {
			b.answer(ctx, u, "❤️ Added to favorites")
		} else {
			b.answer(ctx, u, "Already in favorites")
		}
	} else {
		if b.store.RemoveFavorite(u.UserID, song.ID) {
			b.answer(ctx, u, "💔 Removed from favorites")
		} else {
			b.answer(ctx, u, "Not in favorites")
		}
	}

	backStart := (index / b.conf.Configuration.SongsPerPage) * b.conf.Configuration.SongsPerPage
	b.editControls(ctx, u, songDetailControls(index, backStart, b.store.IsFavorite(u.UserID, song.ID)))
}

func (b *Bot) saveAllToFavorites(ctx context.Context, u transport.Update) {
	snap, ok := b.store.SessionSnapshot(u.UserID)
	if !ok || len(snap.Results) == 0 {
		b.answer(ctx, u, "Nothing to save — search first")
		return
	}
	added := 0
	for _, song := range snap.Results {
		if b.store.AddFavorite(u.UserID, song) {
			added++
		}
	}
	b.answer(ctx, u, fmt.Sprintf("💾 Saved %d new songs to favorites", added))
}

func (b *Bot) addToPlaylist(ctx context.Context, u transport.Update, index int, name string) {
	song, _, ok := b.store.SongAt(u.UserID, index)
	if !ok {
		b.answer(ctx, u, "That list has expired — search again")
		return
	}

	added, exists := b.store.AddToPlaylist(u.UserID, name, song)
	switch {
	case !exists:
		b.answer(ctx, u, "That playlist no longer exists")
	case !added:
		b.answer(ctx, u, "Already in "+name)
	default:
		log.Infof("%s %s added %q to %q", logcolors.LogPlaylist, logcolors.User(u.UserID), song.Title, name)
		b.answer(ctx, u, "➕ Added to "+name)
	}
}

func (b *Bot) openPlaylist(ctx context.Context, u transport.Update, name string) {
	songs, ok := b.store.Playlist(u.UserID, name)
	if !ok {
		b.answer(ctx, u, "That playlist no longer exists")
		return
	}
	if len(songs) == 0 {
		b.answer(ctx, u, "Playlist is empty — add songs from any result")
		return
	}
	b.answer(ctx, u, "")
	b.store.ReplaceActiveResults(u.UserID, songs, name, store.KindNamedPlaylist)
	b.showListing(ctx, u, 0, true)
}
