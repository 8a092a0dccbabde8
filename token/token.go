// Package token encodes and decodes the compact action references carried by
// chat controls. A token must survive a round trip through the transport and
// stay within its 64-byte callback payload ceiling.
package token

import (
	"errors"
	"strconv"
	"strings"
)

// MaxBytes is the hard payload ceiling imposed by the chat transport.
const MaxBytes = 64

const sep = ":"

// ErrMalformed is returned by Decode for any string that does not parse into
// a known action. Callers treat it as a stale or foreign control tap.
var ErrMalformed = errors.New("token: malformed")

// ErrTooLong is returned by Encode when the token would exceed MaxBytes.
var ErrTooLong = errors.New("token: exceeds payload ceiling")

// Kind identifies one action of the closed action union.
type Kind int

const (
	KindUnknown Kind = iota

	KindMenu
	KindClose
	KindNoop
	KindHelp
	KindStats

	KindMenuSearch
	KindMenuTrending
	KindMenuFavorites
	KindMenuHistory
	KindMenuMoods
	KindMenuArtists
	KindMenuSettings
	KindMenuPlaylists

	KindSongDetail     // index
	KindCollectionItem // index
	KindPage           // page
	KindCollectionPage // page
	KindBack           // page

	KindDownload // index
	KindDownloadAll
	KindLyrics // index
	KindShare  // index

	KindFavoriteAdd    // index
	KindFavoriteRemove // index
	KindFavoriteOpen   // index
	KindHistoryOpen    // index
	KindSaveAll
	KindShuffle
	KindClearFavorites
	KindClearHistory

	KindNewPlaylist
	KindPlaylistPick   // index
	KindPlaylistSelect // index + name
	KindPlaylistOpen   // name

	KindMood   // name
	KindArtist // name

	KindQualityMenu
	KindQuality // name
)

// Action is the decoded form of a token. Unused fields stay zero.
type Action struct {
	Kind  Kind
	Index int
	Page  int
	Name  string
}

type spec struct {
	code     string
	hasIndex bool
	hasPage  bool
	hasName  bool
}

// Wire codes are short on purpose: every byte spent here is a byte taken from
// free-form name fields.
var kindSpecs = map[Kind]spec{
	KindMenu:  {code: "m"},
	KindClose: {code: "cl"},
	KindNoop:  {code: "x"},
	KindHelp:  {code: "hl"},
	KindStats: {code: "st"},

	KindMenuSearch:    {code: "ms"},
	KindMenuTrending:  {code: "mt"},
	KindMenuFavorites: {code: "mf"},
	KindMenuHistory:   {code: "mh"},
	KindMenuMoods:     {code: "mm"},
	KindMenuArtists:   {code: "ma"},
	KindMenuSettings:  {code: "mo"},
	KindMenuPlaylists: {code: "mp"},

	KindSongDetail:     {code: "s", hasIndex: true},
	KindCollectionItem: {code: "c", hasIndex: true},
	KindPage:           {code: "p", hasPage: true},
	KindCollectionPage: {code: "pc", hasPage: true},
	KindBack:           {code: "b", hasPage: true},

	KindDownload:    {code: "d", hasIndex: true},
	KindDownloadAll: {code: "da"},
	KindLyrics:      {code: "ly", hasIndex: true},
	KindShare:       {code: "sr", hasIndex: true},

	KindFavoriteAdd:    {code: "f", hasIndex: true},
	KindFavoriteRemove: {code: "uf", hasIndex: true},
	KindFavoriteOpen:   {code: "fo", hasIndex: true},
	KindHistoryOpen:    {code: "ho", hasIndex: true},
	KindSaveAll:        {code: "sa"},
	KindShuffle:        {code: "sh"},
	KindClearFavorites: {code: "cf"},
	KindClearHistory:   {code: "ch"},

	KindNewPlaylist:    {code: "np"},
	KindPlaylistPick:   {code: "pp", hasIndex: true},
	KindPlaylistSelect: {code: "ps", hasIndex: true, hasName: true},
	KindPlaylistOpen:   {code: "po", hasName: true},

	KindMood:   {code: "md", hasName: true},
	KindArtist: {code: "ar", hasName: true},

	KindQualityMenu: {code: "qm"},
	KindQuality:     {code: "q", hasName: true},
}

var codeToKind = func() map[string]Kind {
	m := make(map[string]Kind, len(kindSpecs))
	for k, s := range kindSpecs {
		m[s.code] = k
	}
	return m
}()

// Encode serializes an action into its wire form.
func Encode(a Action) (string, error) {
	s, ok := kindSpecs[a.Kind]
	if !ok {
		return "", ErrMalformed
	}

	parts := []string{s.code}
	if s.hasIndex {
		parts = append(parts, strconv.Itoa(a.Index))
	}
	if s.hasPage {
		parts = append(parts, strconv.Itoa(a.Page))
	}
	if s.hasName {
		// The name is always the last field, so it may legally contain the
		// separator; Decode splits structurally only up to this point.
		parts = append(parts, a.Name)
	}

	out := strings.Join(parts, sep)
	if len(out) > MaxBytes {
		return "", ErrTooLong
	}
	return out, nil
}

// Decode parses a wire token back into an Action. Numeric fields must be
// non-negative; anything that does not parse cleanly is ErrMalformed.
func Decode(s string) (Action, error) {
	if s == "" || len(s) > MaxBytes {
		return Action{}, ErrMalformed
	}

	head, rest, _ := strings.Cut(s, sep)
	kind, ok := codeToKind[head]
	if !ok {
		return Action{}, ErrMalformed
	}
	sp := kindSpecs[kind]

	a := Action{Kind: kind}
	remaining := rest

	if sp.hasIndex {
		field, tail, err := cutField(remaining, sp.hasName || sp.hasPage)
		if err != nil {
			return Action{}, err
		}
		a.Index, err = parseNonNegative(field)
		if err != nil {
			return Action{}, err
		}
		remaining = tail
	}
	if sp.hasPage {
		field, tail, err := cutField(remaining, sp.hasName)
		if err != nil {
			return Action{}, err
		}
		a.Page, err = parseNonNegative(field)
		if err != nil {
			return Action{}, err
		}
		remaining = tail
	}
	if sp.hasName {
		if remaining == "" {
			return Action{}, ErrMalformed
		}
		a.Name = remaining
		remaining = ""
	}

	if remaining != "" {
		return Action{}, ErrMalformed
	}
	return a, nil
}

// cutField takes the next structural field off the front of s. When more
// fields follow, only the first separator occurrence is structural.
func cutField(s string, more bool) (field, tail string, err error) {
	if s == "" {
		return "", "", ErrMalformed
	}
	if !more {
		return s, "", nil
	}
	field, tail, found := strings.Cut(s, sep)
	if !found {
		return "", "", ErrMalformed
	}
	return field, tail, nil
}

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, ErrMalformed
	}
	return n, nil
}
