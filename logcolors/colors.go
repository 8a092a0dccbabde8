package logcolors

import "strconv"

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"
	Red    = "\033[31m"
	Yellow = "\033[33m"

	// Bright variants for more color variety
	BrightGreen   = "\033[92m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"
	BrightRed     = "\033[91m"
)

// Bot event log prefixes
const (
	LogBot      = Green + "[Bot]" + Reset
	LogCommand  = Green + "[Command]" + Reset
	LogCallback = Purple + "[Callback]" + Reset
	LogSession  = Purple + "[Session]" + Reset
	LogSearch   = Blue + "[Search]" + Reset
	LogDownload = Blue + "[Download]" + Reset
	LogBatch    = Blue + "[Batch]" + Reset
	LogPlaylist = Cyan + "[Playlist]" + Reset
)

// Catalog and title resolution log prefixes
const (
	LogCatalog     = Cyan + "[Catalog]" + Reset
	LogHTTP        = Cyan + "[HTTP]" + Reset
	LogClassifier  = Cyan + "[Classifier]" + Reset
	LogTitleFinder = Blue + "[TitleFinder]" + Reset
	LogFallback    = Cyan + "[Fallback]" + Reset
)

// Cache-related log prefixes
const (
	LogCacheInit = Blue + "[Cache:Init]" + Reset
	LogCache     = Blue + "[Cache]" + Reset
)

// Server/Init log prefixes
const (
	LogServer    = Green + "[Server]" + Reset
	LogConfig    = Cyan + "[Config]" + Reset
	LogStats     = Blue + "[Stats]" + Reset
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogTransport = Purple + "[Transport]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}

// userColors are the colors used for user ids in log messages
var userColors = []string{
	Green, Blue, Purple, Cyan, Red,
	BrightGreen, BrightBlue, BrightMagenta, BrightCyan, BrightRed,
}

// User returns a colored user id for log messages.
// Same user id always gets the same color.
func User(id int64) string {
	n := id
	if n < 0 {
		n = -n
	}
	color := userColors[n%int64(len(userColors))]
	return color + "user:" + strconv.FormatInt(id, 10) + Reset
}
