package titlefinder

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"groovia-bot-go/circuitbreaker"
	"groovia-bot-go/logcolors"
)

const (
	maxQueryChars    = 100
	fallbackTokens   = 6
	maxResponseBytes = 2 << 20

	scrapeUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// ResolverOptions configures a Resolver. SearchURL is the HTML search
// endpoint queried with a `q` parameter.
type ResolverOptions struct {
	SearchURL  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Breaker    *circuitbreaker.CircuitBreaker
}

// Resolver guesses a song title from lyrics text by scraping a public
// search engine. Every stage is allowed to fail; callers treat an empty
// result as "fall back to literal search", never as an error.
type Resolver struct {
	searchURL string
	client    *http.Client
	breaker   *circuitbreaker.CircuitBreaker
}

// NewResolver creates a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	breaker := opts.Breaker
	if breaker == nil {
		breaker = circuitbreaker.New(circuitbreaker.Config{Name: "scrape"})
	}
	return &Resolver{searchURL: opts.SearchURL, client: client, breaker: breaker}
}

// Candidate scans over the raw response, in decreasing order of structure.
// None of these assume a schema; an unexpected page shape just yields no
// candidates.
var (
	resultHeading = regexp.MustCompile(`(?is)<h3[^>]*>(.*?)</h3>`)
	styledBlock   = regexp.MustCompile(`(?is)<(?:b|strong|em)[^>]*>(.*?)</(?:b|strong|em)>`)
	lyricsSpan    = regexp.MustCompile(`(?i)>([^<>]{0,80}lyrics[^<>]{0,80})<`)
	htmlTag       = regexp.MustCompile(`<[^>]*>`)
)

// Resolve runs the stages in fixed order and returns the first accepted
// candidate, or "" when every stage fails.
func (r *Resolver) Resolve(ctx context.Context, text string) string {
	queries := []string{
		truncateChars(text, maxQueryChars) + " lyrics",
		truncateChars(text, maxQueryChars) + " lyrics song name",
		FallbackQuery(text) + " song",
	}

	for stage, query := range queries {
		body, err := r.fetch(ctx, query)
		if err != nil {
			log.Debugf("%s Stage %d fetch failed: %v", logcolors.LogTitleFinder, stage+1, err)
			continue
		}
		for _, raw := range scanCandidates(body) {
			title := ExtractTitle(raw)
			if acceptable(title) {
				log.Debugf("%s Stage %d resolved %q", logcolors.LogTitleFinder, stage+1, title)
				return title
			}
		}
	}
	return ""
}

// FallbackQuery returns the literal-search text used when resolution fails:
// the first few whitespace-delimited tokens of the input.
func FallbackQuery(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) > fallbackTokens {
		tokens = tokens[:fallbackTokens]
	}
	return strings.Join(tokens, " ")
}

func (r *Resolver) fetch(ctx context.Context, query string) (string, error) {
	if !r.breaker.Allow() {
		return "", circuitbreaker.ErrCircuitOpen
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.searchURL+"?q="+url.QueryEscape(query), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.breaker.RecordFailure()
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.breaker.RecordFailure()
		return "", fmt.Errorf("search engine returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", err
	}
	r.breaker.RecordSuccess()
	return string(body), nil
}

// scanCandidates pulls short candidate strings out of the page, most
// structured first.
func scanCandidates(body string) []string {
	var out []string

	for _, m := range resultHeading.FindAllStringSubmatch(body, 10) {
		out = append(out, stripTags(m[1]))
	}
	for _, m := range styledBlock.FindAllStringSubmatch(body, 20) {
		out = append(out, stripTags(m[1]))
	}
	for _, m := range lyricsSpan.FindAllStringSubmatch(body, 20) {
		out = append(out, stripTags(m[1]))
	}

	stripped := stripTags(body)
	for _, line := range strings.Split(stripped, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || len([]rune(line)) > 100 {
			continue
		}
		lower := strings.ToLower(line)
		if strings.Contains(lower, "lyrics") || strings.Contains(lower, "song") || strings.Contains(lower, " by ") {
			out = append(out, line)
		}
	}
	return out
}

func stripTags(s string) string {
	return strings.TrimSpace(html.UnescapeString(htmlTag.ReplaceAllString(s, " ")))
}

func truncateChars(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(string(runes[:n]))
}
