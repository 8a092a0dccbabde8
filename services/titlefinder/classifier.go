// Package titlefinder turns free text that reads like sung lyrics into a
// searchable song title. The classifier decides whether text is lyrics at
// all; the resolver then runs a bounded sequence of search-engine scrapes to
// guess the title. Both are best-effort: a miss falls back to literal search,
// never to an error.
package titlefinder

import (
	"regexp"
	"strings"
)

// ClassifierConfig holds the scoring thresholds. The values are empirically
// chosen; keeping them in one struct makes the strategy swappable without
// touching call sites.
type ClassifierConfig struct {
	MinWords           int
	MinChars           int
	ShortTitleMaxChars int
	MinKeywordGroups   int
}

// DefaultClassifierConfig returns the production thresholds.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinWords:           4,
		MinChars:           20,
		ShortTitleMaxChars: 25,
		MinKeywordGroups:   2,
	}
}

// Detector decides whether free text reads as sung lyrics rather than a
// literal song-name query.
type Detector interface {
	LooksLikeLyrics(text string) bool
}

// Classifier is the keyword-group implementation of Detector. It is biased
// toward precision: short or title-shaped strings are never classified as
// lyrics even when they contain keywords, because a false positive sends a
// literal title through the slower resolution pipeline.
type Classifier struct {
	cfg    ClassifierConfig
	groups []*regexp.Regexp
}

var (
	urlLike = regexp.MustCompile(`(?i)https?://|www\.|\.com|\.in/|jiosaavn|saavn`)

	// A short run of bare tokens, the shape of a typed song title.
	shortTitleShape = regexp.MustCompile(`^(?i)[\p{L}\p{N}'.&!?-]+(\s+[\p{L}\p{N}'.&!?-]+){0,4}$`)

	wordSplit = regexp.MustCompile(`\s+`)

	// Each group covers one family of function words; matching families are
	// counted, not individual hits, so a single repeated word scores once.
	keywordGroups = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(i|you|me|my|your|we|he|she|they|us)\b`),
		regexp.MustCompile(`(?i)\b(love|heart|night|life|time|cry|tears|soul|baby|forever)\b`),
		regexp.MustCompile(`(?i)\b(main|mera|meri|mere|tera|teri|tere|tu|tum|hum|sanam|sajna)\b`),
		regexp.MustCompile(`(?i)\b(hai|hain|ho|ka|ki|ke|se|na|nahi|kya|dil|pyar|pyaar|ishq|jaan)\b`),
	}
)

// NewClassifier builds a Classifier with the given thresholds. Zero-valued
// fields fall back to the defaults.
func NewClassifier(cfg ClassifierConfig) *Classifier {
	def := DefaultClassifierConfig()
	if cfg.MinWords <= 0 {
		cfg.MinWords = def.MinWords
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = def.MinChars
	}
	if cfg.ShortTitleMaxChars <= 0 {
		cfg.ShortTitleMaxChars = def.ShortTitleMaxChars
	}
	if cfg.MinKeywordGroups <= 0 {
		cfg.MinKeywordGroups = def.MinKeywordGroups
	}
	return &Classifier{cfg: cfg, groups: keywordGroups}
}

// LooksLikeLyrics applies the rejection rules in order; any failing rule
// short-circuits to false. Only text that survives them all and matches
// enough keyword families is classified as lyrics.
func (c *Classifier) LooksLikeLyrics(text string) bool {
	trimmed := strings.TrimSpace(wordSplit.ReplaceAllString(text, " "))
	if trimmed == "" {
		return false
	}
	if urlLike.MatchString(trimmed) {
		return false
	}

	words := wordSplit.Split(trimmed, -1)
	if len(words) < c.cfg.MinWords {
		return false
	}
	if len([]rune(trimmed)) < c.cfg.MinChars {
		return false
	}
	if len(words) == 2 {
		return false
	}
	if len([]rune(trimmed)) <= c.cfg.ShortTitleMaxChars && shortTitleShape.MatchString(trimmed) {
		return false
	}

	matched := 0
	for _, group := range c.groups {
		if group.MatchString(trimmed) {
			matched++
		}
	}
	return matched >= c.cfg.MinKeywordGroups
}
