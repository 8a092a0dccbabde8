package titlefinder

import (
	"regexp"
	"strings"
)

var (
	urlInline = regexp.MustCompile(`(?i)https?://\S+|www\.\S+`)

	// Separators between title segments: pipes and bullets anywhere, dashes
	// only when space-delimited so hyphenated words survive.
	segmentSep = regexp.MustCompile(`\s*[|•]+\s*|\s+[-–—]+\s+`)

	noiseSegment = regexp.MustCompile(`(?i)\b(lyrics?|lyrical|official|video|audio|full|hd|feat\.?|ft\.?)\b`)
	noiseParen   = regexp.MustCompile(`(?i)[(\[][^)\]]*\b(lyrics?|lyrical|official|video|audio|full|hd|feat\.?|ft\.?)\b[^)\]]*[)\]]`)

	leadingLyrics  = regexp.MustCompile(`(?i)^lyrics?\b[\s:–-]*`)
	trailingLyrics = regexp.MustCompile(`(?i)[\s:–-]*\blyrics?$`)
	trailingBy     = regexp.MustCompile(`(?i)\s+by\s+[\p{L}\p{N}'. ]+$`)

	spaceRun = regexp.MustCompile(`\s+`)
)

// Words that mark a candidate as platform chrome rather than a title.
var denylist = []string{
	"youtube", "google", "spotify", "genius", "azlyrics", "gaana", "wynk",
	"musixmatch", "shazam", "video", "watch", "download", "search",
	"results", "playlist", "http", "www",
}

// ExtractTitle cleans a raw scraped candidate down to a plausible song title.
// Segments after the first noise-marker segment are dropped wholesale, so
// "Tum Hi Ho - Lyrics Video | Aashiqui 2" reduces to "Tum Hi Ho".
func ExtractTitle(raw string) string {
	s := urlInline.ReplaceAllString(raw, " ")
	s = noiseParen.ReplaceAllString(s, " ")

	if locs := segmentSep.FindAllStringIndex(s, -1); len(locs) > 0 {
		parts := segmentSep.Split(s, -1)
		for i := 1; i < len(parts); i++ {
			if noiseSegment.MatchString(parts[i]) {
				s = s[:locs[i-1][0]]
				break
			}
		}
	}

	s = leadingLyrics.ReplaceAllString(strings.TrimSpace(s), "")
	s = trailingLyrics.ReplaceAllString(s, "")
	s = trailingBy.ReplaceAllString(s, "")
	s = spaceRun.ReplaceAllString(s, " ")
	return strings.Trim(s, " -–—|•:")
}

// acceptable reports whether a cleaned candidate can be returned as a title.
func acceptable(title string) bool {
	n := len([]rune(title))
	if n <= 3 || n >= 80 {
		return false
	}
	lower := strings.ToLower(title)
	for _, word := range denylist {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return true
}
