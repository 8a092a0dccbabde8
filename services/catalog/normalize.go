package catalog

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// flexString unmarshals a JSON field that the catalog serves sometimes as a
// string and sometimes as a number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// rawSong mirrors a catalog entry as served. The catalog is inconsistent
// about field names across endpoints (id/songid, song/title, media_url/url,
// image/image_url), so this type accepts every variant.
type rawSong struct {
	ID       flexString `json:"id"`
	SongID   flexString `json:"songid"`
	Song     string     `json:"song"`
	Title    string     `json:"title"`
	Singers  string     `json:"singers"`
	Album    string     `json:"album"`
	Duration flexString `json:"duration"`
	Year     flexString `json:"year"`
	Language string     `json:"language"`
	Image    string     `json:"image"`
	ImageURL string     `json:"image_url"`
	MediaURL string     `json:"media_url"`
	URL      string     `json:"url"`
	PermaURL string     `json:"perma_url"`
	Lyrics   string     `json:"lyrics"`
}

// normalize collapses the alternate field names into the canonical Song.
// This runs exactly once, immediately after a catalog response is decoded.
func (r rawSong) normalize() Song {
	id := string(r.SongID)
	if id == "" {
		id = string(r.ID)
	}
	title := r.Title
	if title == "" {
		title = r.Song
	}
	imageURL := r.ImageURL
	if imageURL == "" {
		imageURL = r.Image
	}
	mediaURL := r.MediaURL
	if mediaURL == "" {
		mediaURL = r.URL
	}

	duration, _ := strconv.Atoi(strings.TrimSpace(string(r.Duration)))

	return Song{
		ID:              id,
		Title:           title,
		Artists:         r.Singers,
		Album:           r.Album,
		DurationSeconds: duration,
		Year:            string(r.Year),
		Language:        r.Language,
		ImageURL:        imageURL,
		MediaURL:        mediaURL,
		DetailURL:       r.PermaURL,
		Lyrics:          r.Lyrics,
	}
}

func normalizeAll(raws []rawSong) []Song {
	songs := make([]Song, 0, len(raws))
	for _, r := range raws {
		songs = append(songs, r.normalize())
	}
	return songs
}
