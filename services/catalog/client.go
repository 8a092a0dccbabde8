package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"

	"groovia-bot-go/cache"
	"groovia-bot-go/circuitbreaker"
	"groovia-bot-go/logcolors"
	"groovia-bot-go/stats"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

var (
	// ErrUnavailable means the catalog could not be reached after retries
	// (or the breaker is open). Callers surface "temporarily unavailable".
	ErrUnavailable = errors.New("catalog: temporarily unavailable")

	// ErrNotFound means the catalog answered but had no usable data.
	ErrNotFound = errors.New("catalog: not found")
)

// Options configures a Client. Zero fields get sensible defaults.
type Options struct {
	BaseURL         string
	MaxRetries      int
	RequestTimeout  time.Duration
	DownloadTimeout time.Duration
	Breaker         *circuitbreaker.CircuitBreaker
	Cache           *cache.PersistentCache // optional response cache
	CacheTTL        time.Duration
}

// Client talks to the remote song catalog. All responses pass through the
// normalization boundary before leaving this package.
type Client struct {
	baseURL        string
	maxRetries     int
	httpClient     *http.Client
	downloadClient *http.Client
	breaker        *circuitbreaker.CircuitBreaker
	cache          *cache.PersistentCache
	cacheTTL       time.Duration
}

// New creates a catalog client.
func New(opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 5
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = 5 * time.Minute
	}
	if opts.Breaker == nil {
		opts.Breaker = circuitbreaker.New(circuitbreaker.Config{Name: "catalog"})
	}

	return &Client{
		baseURL:        opts.BaseURL,
		maxRetries:     opts.MaxRetries,
		httpClient:     &http.Client{Timeout: opts.RequestTimeout},
		downloadClient: &http.Client{Timeout: opts.DownloadTimeout},
		breaker:        opts.Breaker,
		cache:          opts.Cache,
		cacheTTL:       opts.CacheTTL,
	}
}

// Search runs a free-text catalog search. An empty result is ErrNotFound.
func (c *Client) Search(ctx context.Context, query string) ([]Song, error) {
	params := url.Values{}
	params.Set("query", query)

	var raws []rawSong
	if err := c.getJSON(ctx, "/result/", params, "search:"+query, &raws); err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, ErrNotFound
	}
	return normalizeAll(raws), nil
}

// SongDetail fetches full detail (optionally with lyrics) for a permalink.
func (c *Client) SongDetail(ctx context.Context, permalink string, wantLyrics bool) (*Song, error) {
	params := url.Values{}
	params.Set("query", permalink)
	params.Set("lyrics", fmt.Sprintf("%t", wantLyrics))

	var raw rawSong
	cacheKey := fmt.Sprintf("song:%s:lyrics=%t", permalink, wantLyrics)
	if err := c.getJSON(ctx, "/song/", params, cacheKey, &raw); err != nil {
		return nil, err
	}
	song := raw.normalize()
	if song.ID == "" && song.Title == "" {
		return nil, ErrNotFound
	}
	return &song, nil
}

// Album fetches an album and its songs by permalink.
func (c *Client) Album(ctx context.Context, permalink string) (*Album, error) {
	params := url.Values{}
	params.Set("query", permalink)

	var raw struct {
		Title string    `json:"title"`
		Name  string    `json:"name"`
		Songs []rawSong `json:"songs"`
	}
	if err := c.getJSON(ctx, "/album/", params, "album:"+permalink, &raw); err != nil {
		return nil, err
	}
	if len(raw.Songs) == 0 {
		return nil, ErrNotFound
	}
	title := raw.Title
	if title == "" {
		title = raw.Name
	}
	return &Album{Title: title, Songs: normalizeAll(raw.Songs)}, nil
}

// Playlist fetches a playlist and its songs by permalink.
func (c *Client) Playlist(ctx context.Context, permalink string) (*Playlist, error) {
	params := url.Values{}
	params.Set("query", permalink)

	var raw struct {
		ListName string    `json:"listname"`
		Name     string    `json:"name"`
		Songs    []rawSong `json:"songs"`
	}
	if err := c.getJSON(ctx, "/playlist/", params, "playlist:"+permalink, &raw); err != nil {
		return nil, err
	}
	if len(raw.Songs) == 0 {
		return nil, ErrNotFound
	}
	name := raw.ListName
	if name == "" {
		name = raw.Name
	}
	return &Playlist{Name: name, Songs: normalizeAll(raw.Songs)}, nil
}

// DownloadMedia fetches raw media bytes. The bytes pass through untouched.
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.downloadClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Warnf("%s Download attempt %d failed: %v", logcolors.LogHTTP, attempt+1, err)
			if err := sleepCtx(ctx, time.Second); err != nil {
				return nil, err
			}
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK && readErr == nil {
			return data, nil
		}
		log.Warnf("%s Download attempt %d returned status %d", logcolors.LogHTTP, attempt+1, resp.StatusCode)
		if err := sleepCtx(ctx, time.Second); err != nil {
			return nil, err
		}
	}
	return nil, ErrUnavailable
}

// getJSON performs a catalog GET with bounded retries, exponential backoff on
// rate limiting, and an optional response cache in front of the network.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, cacheKey string, out interface{}) error {
	if c.cache != nil && cacheKey != "" {
		if cached, ok := c.cache.Get(cacheKey); ok {
			if err := json.Unmarshal([]byte(cached), out); err == nil {
				stats.Get().CacheHits.Add(1)
				log.Debugf("%s Cache hit for %s", logcolors.LogCache, cacheKey)
				return nil
			}
			// Corrupt cached payload, fall through to the network.
			c.cache.Delete(cacheKey)
		}
		stats.Get().CacheMisses.Add(1)
	}

	if !c.breaker.Allow() {
		return ErrUnavailable
	}

	requestURL := c.baseURL + endpoint + "?" + params.Encode()

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			c.breaker.RecordFailure()
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				c.breaker.RecordFailure()
				return ctx.Err()
			}
			log.Warnf("%s %s attempt %d failed: %v", logcolors.LogCatalog, endpoint, attempt+1, err)
			if err := sleepCtx(ctx, time.Second); err != nil {
				return err
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK && readErr == nil:
			c.breaker.RecordSuccess()
			if err := json.Unmarshal(body, out); err != nil {
				// Malformed payload is treated like "not found", never fatal.
				return ErrNotFound
			}
			if c.cache != nil && cacheKey != "" {
				if err := c.cache.Set(cacheKey, string(body), c.cacheTTL); err != nil {
					log.Warnf("%s Failed to cache %s: %v", logcolors.LogCache, cacheKey, err)
				}
			}
			return nil

		case resp.StatusCode == http.StatusTooManyRequests:
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			log.Warnf("%s Rate limited on %s, backing off %v", logcolors.LogCatalog, endpoint, backoff)
			if err := sleepCtx(ctx, backoff); err != nil {
				return err
			}

		case resp.StatusCode >= 500:
			log.Warnf("%s %s returned status %d", logcolors.LogCatalog, endpoint, resp.StatusCode)
			if err := sleepCtx(ctx, time.Second); err != nil {
				return err
			}

		default:
			// Any other 4xx is permanent for this request.
			c.breaker.RecordFailure()
			return fmt.Errorf("catalog returned status %d: %w", resp.StatusCode, ErrNotFound)
		}
	}

	c.breaker.RecordFailure()
	return ErrUnavailable
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
