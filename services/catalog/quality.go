package catalog

import "strings"

// QualityTier is the user-facing download quality setting.
type QualityTier string

const (
	QualityLow    QualityTier = "low"
	QualityMedium QualityTier = "medium"
	QualityHigh   QualityTier = "high"

	// DefaultQuality applies when a user has never picked a tier.
	DefaultQuality = QualityMedium
)

// bitrates maps quality tiers to the bitrate markers embedded in media URLs.
var bitrates = map[QualityTier]string{
	QualityLow:    "96",
	QualityMedium: "160",
	QualityHigh:   "320",
}

// ParseQualityTier returns the tier for s, falling back to the default.
func ParseQualityTier(s string) QualityTier {
	switch QualityTier(s) {
	case QualityLow, QualityMedium, QualityHigh:
		return QualityTier(s)
	}
	return DefaultQuality
}

// Bitrate returns the tier's bitrate label (e.g. "160kbps") for display.
func (q QualityTier) Bitrate() string {
	b, ok := bitrates[q]
	if !ok {
		b = bitrates[DefaultQuality]
	}
	return b + "kbps"
}

// QualityURL rewrites a media URL's bitrate marker to the requested tier.
// URLs without a recognizable marker are returned unchanged.
func QualityURL(mediaURL string, tier QualityTier) string {
	if mediaURL == "" {
		return mediaURL
	}
	want, ok := bitrates[tier]
	if !ok {
		want = bitrates[DefaultQuality]
	}
	for _, have := range []string{"320", "160", "96"} {
		marker := "_" + have + "."
		if strings.Contains(mediaURL, marker) {
			return strings.Replace(mediaURL, marker, "_"+want+".", 1)
		}
	}
	return mediaURL
}
