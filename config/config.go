package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		BotToken        string `envconfig:"BOT_TOKEN" default:""`
		CatalogBaseURL  string `envconfig:"CATALOG_BASE_URL" default:"https://jiosaavanapi.onrender.com"`
		SearchEngineURL string `envconfig:"SEARCH_ENGINE_URL" default:"https://html.duckduckgo.com/html/"`

		SongsPerPage       int `envconfig:"SONGS_PER_PAGE" default:"10"`
		MaxRetries         int `envconfig:"MAX_RETRIES" default:"5"`
		RequestTimeoutSecs int `envconfig:"REQUEST_TIMEOUT_SECS" default:"30"`
		// Media downloads run against a slow origin, so they get their own ceiling.
		DownloadTimeoutSecs int `envconfig:"DOWNLOAD_TIMEOUT_SECS" default:"300"`
		ScrapeTimeoutSecs   int `envconfig:"SCRAPE_TIMEOUT_SECS" default:"10"`

		BatchDownloadLimit int `envconfig:"BATCH_DOWNLOAD_LIMIT" default:"10"`
		BatchPacingMs      int `envconfig:"BATCH_PACING_MS" default:"1500"`
		HistoryLimit       int `envconfig:"HISTORY_LIMIT" default:"100"`
		MaxPlaylistNameLen int `envconfig:"MAX_PLAYLIST_NAME_LEN" default:"50"`

		EventsPerSecond float64 `envconfig:"EVENTS_PER_SECOND" default:"2"`
		EventBurstLimit int     `envconfig:"EVENT_BURST_LIMIT" default:"5"`

		CacheDBPath            string `envconfig:"CACHE_DB_PATH" default:"/tmp/groovia-cache.db"`
		CatalogCacheTTLSecs    int    `envconfig:"CATALOG_CACHE_TTL_SECS" default:"3600"`
		CacheSweepIntervalSecs int    `envconfig:"CACHE_SWEEP_INTERVAL_SECS" default:"600"`
		CircuitBreakerThreshold int   `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`
		CircuitBreakerCooldownSecs int `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"300"`
	}

	FeatureFlags struct {
		CacheCompression bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
		ResponseCache    bool `envconfig:"FF_RESPONSE_CACHE" default:"true"`
		LyricsDetection  bool `envconfig:"FF_LYRICS_DETECTION" default:"true"`
	}
}

// load loads the configuration from the environment.
func load() (Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Warnf("Error loading env config: %v", err)
	}

	cfg := Config{}
	err = envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("Unable to load configuration")
	}

	return c
}

func Get() Config {
	return conf
}
