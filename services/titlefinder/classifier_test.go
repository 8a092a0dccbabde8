package titlefinder

import "testing"

func TestLooksLikeLyrics(t *testing.T) {
	c := NewClassifier(DefaultClassifierConfig())

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"single word", "love", false},
		{"artist name", "Arijit Singh", false},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"url", "https://www.jiosaavn.com/song/tum-hi-ho/abc", false},
		{"bare domain", "www.saavn.com/album/xyz", false},
		{"three words", "tum hi ho", false},
		{"four words but short", "tum hi ho na", false},
		{"short title shape", "Tum Hi Ho Full Song", false},
		{"hindi lyric line", "mera dil tera pyar hai na sanam", true},
		{"english lyric line", "i miss you when the night is cold and i cry", true},
		{"long but no keywords", "quarterly report spreadsheet template format", false},
		{"one keyword group only", "walking down this long dusty road again tonight", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.LooksLikeLyrics(tt.text); got != tt.want {
				t.Errorf("LooksLikeLyrics(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestClassifierZeroConfigUsesDefaults(t *testing.T) {
	c := NewClassifier(ClassifierConfig{})
	if c.LooksLikeLyrics("love") {
		t.Error("Expected single word rejected under default thresholds")
	}
	if !c.LooksLikeLyrics("mera dil tera pyar hai na sanam") {
		t.Error("Expected lyric line accepted under default thresholds")
	}
}
