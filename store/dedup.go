package store

import "groovia-bot-go/services/catalog"

// The three primitives below back favorites, playlists, and history. Every
// user-facing "added" / "already exists" / "removed" outcome derives from
// their boolean returns; nothing else checks membership.

// AddUnique appends song only if no existing element shares its identity
// key. Returns the list and whether an addition occurred.
func AddUnique(list []catalog.Song, song catalog.Song) ([]catalog.Song, bool) {
	for _, s := range list {
		if s.ID == song.ID {
			return list, false
		}
	}
	return append(list, song), true
}

// RemoveByID removes the first (by invariant, only) element with the given
// identity key. Returns the list and whether a removal occurred.
func RemoveByID(list []catalog.Song, id string) ([]catalog.Song, bool) {
	for i, s := range list {
		if s.ID == id {
			return append(list[:i:i], list[i+1:]...), true
		}
	}
	return list, false
}

// PushToFront removes any existing element with the same identity key,
// inserts song at the front, and truncates the ring to max entries.
func PushToFront(ring []catalog.Song, song catalog.Song, max int) []catalog.Song {
	ring, _ = RemoveByID(ring, song.ID)
	ring = append([]catalog.Song{song}, ring...)
	if max > 0 && len(ring) > max {
		ring = ring[:max]
	}
	return ring
}
