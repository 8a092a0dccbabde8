// Package store owns all per-user state: the active result set, favorites,
// history, playlists, and settings. Access is mutually exclusive within one
// user and fully independent across users; one user's slow operation never
// blocks another's. Everything here is memory-resident and lost on restart.
package store

import (
	"math/rand"
	"sync"

	"groovia-bot-go/services/catalog"
)

// CollectionKind tags what the active result set represents. Flat and nested
// listings paginate identically but offer different controls.
type CollectionKind int

const (
	KindSearch CollectionKind = iota
	KindAlbum
	KindPlaylist
	KindFavorites
	KindHistory
	KindNamedPlaylist
)

// Session is a user's current browsing context. It is fully replaced, never
// merged, whenever a new search or collection open occurs.
type Session struct {
	Results    []catalog.Song
	QueryLabel string
	Kind       CollectionKind
	// Generation increases on every replacement. In-flight work that
	// completes against an older generation is discarded, not merged.
	Generation uint64
}

// Settings holds per-user preferences.
type Settings struct {
	Quality catalog.QualityTier
}

type userState struct {
	mu sync.Mutex

	session              Session
	hasSession           bool
	awaitingPlaylistName bool

	favorites     []catalog.Song
	history       []catalog.Song
	playlists     map[string][]catalog.Song
	playlistOrder []string
	settings      Settings
}

// Store is the keyed session store. The outer lock only guards the user map;
// every operation on a user's state runs under that user's own mutex.
type Store struct {
	mu           sync.RWMutex
	users        map[int64]*userState
	historyLimit int
}

// New creates a Store. historyLimit caps each user's history ring.
func New(historyLimit int) *Store {
	if historyLimit <= 0 {
		historyLimit = 100
	}
	return &Store{
		users:        make(map[int64]*userState),
		historyLimit: historyLimit,
	}
}

func (s *Store) user(id int64) *userState {
	s.mu.RLock()
	u, ok := s.users[id]
	s.mu.RUnlock()
	if ok {
		return u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok = s.users[id]; ok {
		return u
	}
	u = &userState{
		playlists: make(map[string][]catalog.Song),
		settings:  Settings{Quality: catalog.DefaultQuality},
	}
	s.users[id] = u
	return u
}

// ReplaceActiveResults swaps in a new active result set and returns the new
// session generation.
func (s *Store) ReplaceActiveResults(userID int64, results []catalog.Song, label string, kind CollectionKind) uint64 {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	gen := u.session.Generation + 1
	u.session = Session{
		Results:    append([]catalog.Song(nil), results...),
		QueryLabel: label,
		Kind:       kind,
		Generation: gen,
	}
	u.hasSession = true
	return gen
}

// SessionSnapshot returns a copy of the user's current session. The second
// return is false when no session exists yet.
func (s *Store) SessionSnapshot(userID int64) (Session, bool) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.hasSession {
		return Session{}, false
	}
	snap := u.session
	snap.Results = append([]catalog.Song(nil), u.session.Results...)
	return snap, true
}

// SongAt returns the song at index in the active session along with the
// session generation. A missing session or out-of-range index reports false;
// call sites treat that as a silent no-op, never an error.
func (s *Store) SongAt(userID int64, index int) (catalog.Song, uint64, bool) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.hasSession || index < 0 || index >= len(u.session.Results) {
		return catalog.Song{}, 0, false
	}
	return u.session.Results[index], u.session.Generation, true
}

// UpdateSongAt merges a lazily fetched detail into the listed item, but only
// if the session generation still matches the one observed at read time.
// Stale updates are discarded.
func (s *Store) UpdateSongAt(userID int64, index int, generation uint64, song catalog.Song) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.hasSession || u.session.Generation != generation {
		return false
	}
	if index < 0 || index >= len(u.session.Results) {
		return false
	}
	u.session.Results[index] = song
	return true
}

// ShuffleActiveResults reorders the active result set in place.
func (s *Store) ShuffleActiveResults(userID int64, rng *rand.Rand) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if !u.hasSession || len(u.session.Results) == 0 {
		return false
	}
	rng.Shuffle(len(u.session.Results), func(i, j int) {
		u.session.Results[i], u.session.Results[j] = u.session.Results[j], u.session.Results[i]
	})
	return true
}

// SetAwaitingPlaylistName marks that the next free-text message names a new
// playlist.
func (s *Store) SetAwaitingPlaylistName(userID int64, awaiting bool) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.awaitingPlaylistName = awaiting
}

// ConsumeAwaitingPlaylistName atomically reads and clears the awaiting flag.
func (s *Store) ConsumeAwaitingPlaylistName(userID int64) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	was := u.awaitingPlaylistName
	u.awaitingPlaylistName = false
	return was
}

// AddFavorite adds a song to favorites. Reports whether it was added (false
// means it was already there).
func (s *Store) AddFavorite(userID int64, song catalog.Song) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	var added bool
	u.favorites, added = AddUnique(u.favorites, song)
	return added
}

// RemoveFavorite removes a song by identity key. Reports whether a removal
// occurred.
func (s *Store) RemoveFavorite(userID int64, id string) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	var removed bool
	u.favorites, removed = RemoveByID(u.favorites, id)
	return removed
}

// IsFavorite reports whether the identity key is in favorites. Used only for
// rendering the detail controls; mutation outcomes come from the primitives.
func (s *Store) IsFavorite(userID int64, id string) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, f := range u.favorites {
		if f.ID == id {
			return true
		}
	}
	return false
}

// Favorites returns a copy of the user's favorites, insertion-ordered.
func (s *Store) Favorites(userID int64) []catalog.Song {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]catalog.Song(nil), u.favorites...)
}

// ClearFavorites empties the favorites list.
func (s *Store) ClearFavorites(userID int64) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.favorites = nil
}

// AddHistory pushes a song to the front of the history ring, deduplicating
// by identity key and truncating at the configured cap.
func (s *Store) AddHistory(userID int64, song catalog.Song) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.history = PushToFront(u.history, song, s.historyLimit)
}

// History returns a copy of the user's history, most recent first.
func (s *Store) History(userID int64) []catalog.Song {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]catalog.Song(nil), u.history...)
}

// ClearHistory empties the history ring.
func (s *Store) ClearHistory(userID int64) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.history = nil
}

// CreatePlaylist creates an empty playlist. Reports false when the name is
// already taken.
func (s *Store) CreatePlaylist(userID int64, name string) bool {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	if _, exists := u.playlists[name]; exists {
		return false
	}
	u.playlists[name] = nil
	u.playlistOrder = append(u.playlistOrder, name)
	return true
}

// AddToPlaylist adds a song to the named playlist. The first return reports
// whether an addition occurred, the second whether the playlist exists.
func (s *Store) AddToPlaylist(userID int64, name string, song catalog.Song) (added, exists bool) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	list, ok := u.playlists[name]
	if !ok {
		return false, false
	}
	list, added = AddUnique(list, song)
	u.playlists[name] = list
	return added, true
}

// Playlist returns a copy of the named playlist's songs.
func (s *Store) Playlist(userID int64, name string) ([]catalog.Song, bool) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	list, ok := u.playlists[name]
	if !ok {
		return nil, false
	}
	return append([]catalog.Song(nil), list...), true
}

// PlaylistNames returns playlist names in creation order, with song counts.
func (s *Store) PlaylistNames(userID int64) ([]string, map[string]int) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()

	names := append([]string(nil), u.playlistOrder...)
	counts := make(map[string]int, len(names))
	for _, n := range names {
		counts[n] = len(u.playlists[n])
	}
	return names, counts
}

// Quality returns the user's download quality tier.
func (s *Store) Quality(userID int64) catalog.QualityTier {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.settings.Quality
}

// SetQuality sets the user's download quality tier.
func (s *Store) SetQuality(userID int64, tier catalog.QualityTier) {
	u := s.user(userID)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.settings.Quality = tier
}
