package main

import (
	"context"
	"math/rand"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"groovia-bot-go/config"
	"groovia-bot-go/logcolors"
	"groovia-bot-go/middleware"
	"groovia-bot-go/services/catalog"
	"groovia-bot-go/services/titlefinder"
	"groovia-bot-go/stats"
	"groovia-bot-go/store"
	"groovia-bot-go/transport"
)

// Bot ties the chat transport to the catalog, session store, and title
// resolution pipeline. One goroutine per inbound event; per-user ordering is
// guaranteed by the store's locks, not by the dispatcher.
type Bot struct {
	tr       transport.Transport
	store    *store.Store
	catalog  *catalog.Client
	detector titlefinder.Detector
	resolver *titlefinder.Resolver
	limiter  *middleware.UserRateLimiter
	conf     config.Config

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewBot wires a Bot from its collaborators.
func NewBot(tr transport.Transport, st *store.Store, cat *catalog.Client, detector titlefinder.Detector, resolver *titlefinder.Resolver, limiter *middleware.UserRateLimiter, conf config.Config) *Bot {
	return &Bot{
		tr:       tr,
		store:    st,
		catalog:  cat,
		detector: detector,
		resolver: resolver,
		limiter:  limiter,
		conf:     conf,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run consumes the update stream until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	log.Infof("%s Update loop started", logcolors.LogBot)
	for update := range b.tr.Updates(ctx) {
		go b.handleEvent(ctx, update)
	}
	log.Infof("%s Update loop stopped", logcolors.LogBot)
}

func (b *Bot) handleEvent(ctx context.Context, u transport.Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("%s Recovered handling event for %s: %v", logcolors.LogBot, logcolors.User(u.UserID), r)
		}
	}()

	stats.Get().RecordEvent(u.UserID)

	if !b.limiter.Allow(u.UserID) {
		stats.Get().RateLimited.Add(1)
		log.Debugf("%s Throttled %s", logcolors.LogRateLimit, logcolors.User(u.UserID))
		if u.IsCallback() {
			b.answer(ctx, u, "⏳ Slow down a little")
		}
		return
	}

	switch {
	case u.IsCallback():
		stats.Get().Callbacks.Add(1)
		b.handleCallback(ctx, u)
	case u.Command != "":
		stats.Get().Commands.Add(1)
		b.handleCommand(ctx, u)
	default:
		stats.Get().Messages.Add(1)
		b.handleText(ctx, u)
	}
}

func (b *Bot) shuffleSession(userID int64) bool {
	b.rngMu.Lock()
	defer b.rngMu.Unlock()
	return b.store.ShuffleActiveResults(userID, b.rng)
}

// Outbound helpers. Send failures are logged and swallowed; a failed
// delivery must never take the event goroutine down.

func (b *Bot) send(ctx context.Context, chatID int64, msg transport.Message) {
	if _, err := b.tr.Send(ctx, chatID, msg); err != nil {
		log.Errorf("%s Send to chat %d failed: %v", logcolors.LogBot, chatID, err)
	}
}

func (b *Bot) edit(ctx context.Context, u transport.Update, msg transport.Message) {
	if err := b.tr.Edit(ctx, u.ChatID, u.MessageID, msg); err != nil {
		log.Debugf("%s Edit of message %d failed: %v", logcolors.LogBot, u.MessageID, err)
	}
}

func (b *Bot) editControls(ctx context.Context, u transport.Update, controls [][]transport.Control) {
	if err := b.tr.EditControls(ctx, u.ChatID, u.MessageID, controls); err != nil {
		log.Debugf("%s Control edit of message %d failed: %v", logcolors.LogBot, u.MessageID, err)
	}
}

func (b *Bot) answer(ctx context.Context, u transport.Update, notice string) {
	if u.CallbackID == "" {
		return
	}
	if err := b.tr.Answer(ctx, u.CallbackID, notice); err != nil {
		log.Debugf("%s Callback answer failed: %v", logcolors.LogBot, err)
	}
}
