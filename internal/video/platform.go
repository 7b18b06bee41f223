// Package video implements the recipe extraction pipeline: platform
// detection, video download with fallback, frame sampling, and the
// orchestrator that feeds the AI extractor.
package video

import "strings"

type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformUnknown   Platform = "unknown"
)

// DetectPlatform classifies a URL by case-insensitive host fragment
// matching. No network access.
func DetectPlatform(url string) Platform {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "youtube.com"), strings.Contains(lower, "youtu.be"):
		return PlatformYouTube
	case strings.Contains(lower, "instagram.com"):
		return PlatformInstagram
	case strings.Contains(lower, "tiktok.com"):
		return PlatformTikTok
	default:
		return PlatformUnknown
	}
}
