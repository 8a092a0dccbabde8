package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"groovia-bot-go/cache"
	"groovia-bot-go/circuitbreaker"
	"groovia-bot-go/config"
	"groovia-bot-go/logcolors"
	"groovia-bot-go/middleware"
	"groovia-bot-go/services/catalog"
	"groovia-bot-go/services/titlefinder"
	"groovia-bot-go/store"
	"groovia-bot-go/transport/telegram"
)

var conf = config.Get()

func init() {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel) // Set to DebugLevel for per-event logs
}

func main() {
	if conf.Configuration.BotToken == "" {
		log.Fatalf("%s BOT_TOKEN is not set", logcolors.LogConfig)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var responseCache *cache.PersistentCache
	if conf.FeatureFlags.ResponseCache {
		var err error
		responseCache, err = cache.NewPersistentCache(conf.Configuration.CacheDBPath, conf.FeatureFlags.CacheCompression)
		if err != nil {
			log.Warnf("%s Response cache disabled: %v", logcolors.LogCacheInit, err)
		} else {
			defer responseCache.Close()
			responseCache.StartSweeper(ctx, time.Duration(conf.Configuration.CacheSweepIntervalSecs)*time.Second)
		}
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{
		Name:      "catalog",
		Threshold: conf.Configuration.CircuitBreakerThreshold,
		Cooldown:  time.Duration(conf.Configuration.CircuitBreakerCooldownSecs) * time.Second,
	})

	catalogClient := catalog.New(catalog.Options{
		BaseURL:         conf.Configuration.CatalogBaseURL,
		MaxRetries:      conf.Configuration.MaxRetries,
		RequestTimeout:  time.Duration(conf.Configuration.RequestTimeoutSecs) * time.Second,
		DownloadTimeout: time.Duration(conf.Configuration.DownloadTimeoutSecs) * time.Second,
		Breaker:         breaker,
		Cache:           responseCache,
		CacheTTL:        time.Duration(conf.Configuration.CatalogCacheTTLSecs) * time.Second,
	})

	classifier := titlefinder.NewClassifier(titlefinder.DefaultClassifierConfig())
	resolver := titlefinder.NewResolver(titlefinder.ResolverOptions{
		SearchURL: conf.Configuration.SearchEngineURL,
		Timeout:   time.Duration(conf.Configuration.ScrapeTimeoutSecs) * time.Second,
		Breaker: circuitbreaker.New(circuitbreaker.Config{
			Name:      "scrape",
			Threshold: conf.Configuration.CircuitBreakerThreshold,
			Cooldown:  time.Duration(conf.Configuration.CircuitBreakerCooldownSecs) * time.Second,
		}),
	})

	sessions := store.New(conf.Configuration.HistoryLimit)
	limiter := middleware.NewUserRateLimiter(
		rate.Limit(conf.Configuration.EventsPerSecond),
		conf.Configuration.EventBurstLimit,
	)

	tr := telegram.New(telegram.Options{Token: conf.Configuration.BotToken})

	go startHealthServer()

	bot := NewBot(tr, sessions, catalogClient, classifier, resolver, limiter, conf)
	log.Infof("%s Groovia Bot starting", logcolors.LogBot)
	bot.Run(ctx)
	log.Infof("%s Shutdown complete", logcolors.LogBot)
}
