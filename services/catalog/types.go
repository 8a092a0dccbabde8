package catalog

// Song is the canonical, normalized view of a catalog entry. Everything past
// the ingestion boundary works with this shape only; the alternate source
// field names never leak out of this package.
type Song struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Artists         string `json:"artists"`
	Album           string `json:"album"`
	DurationSeconds int    `json:"durationSeconds"`
	Year            string `json:"year,omitempty"`
	Language        string `json:"language,omitempty"`
	ImageURL        string `json:"imageUrl,omitempty"`
	MediaURL        string `json:"mediaUrl,omitempty"`
	DetailURL       string `json:"detailUrl,omitempty"`
	Lyrics          string `json:"lyrics,omitempty"`
}

// Album is a nested collection of songs fetched from an album permalink.
type Album struct {
	Title string `json:"title"`
	Songs []Song `json:"songs"`
}

// Playlist is a nested collection of songs fetched from a playlist permalink.
type Playlist struct {
	Name  string `json:"name"`
	Songs []Song `json:"songs"`
}
