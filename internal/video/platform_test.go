package video

import "testing"

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.youtube.com/watch?v=abc123", PlatformYouTube},
		{"https://youtu.be/abc123", PlatformYouTube},
		{"https://WWW.YOUTUBE.COM/watch?v=abc", PlatformYouTube},
		{"https://www.instagram.com/reel/xyz/", PlatformInstagram},
		{"https://www.Instagram.Com/p/xyz/", PlatformInstagram},
		{"https://www.tiktok.com/@user/video/123", PlatformTikTok},
		{"https://TikTok.com/@user/video/123", PlatformTikTok},
		{"https://vimeo.com/12345", PlatformUnknown},
		{"https://example.com/video.mp4", PlatformUnknown},
		{"not a url", PlatformUnknown},
		{"", PlatformUnknown},
	}

	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}
