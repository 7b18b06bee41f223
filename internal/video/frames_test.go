package video

import (
	"strings"
	"testing"
)

func TestStride(t *testing.T) {
	tests := []struct {
		name     string
		fps      float64
		interval float64
		want     int
	}{
		{"30fps 2s interval", 30, 2, 60},
		{"corrupt metadata assumes default", 0, 2, 60},
		{"negative rate assumes default", -1, 2, 60},
		{"ntsc rate rounds", 29.97, 2, 60},
		{"high rate", 60, 2, 120},
		{"sub-frame interval clamps to 1", 30, 0.01, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Stride(tt.fps, tt.interval); got != tt.want {
				t.Errorf("Stride(%v, %v) = %d, want %d", tt.fps, tt.interval, got, tt.want)
			}
		})
	}
}

func TestFrameFilter_NeverUpscales(t *testing.T) {
	filter := frameFilter(60)

	if !strings.Contains(filter, "select=not(mod(n\\,60))") {
		t.Errorf("filter missing stride selection: %q", filter)
	}
	if !strings.Contains(filter, "w='min(iw\\,512)'") || !strings.Contains(filter, "h='min(ih\\,512)'") {
		t.Errorf("scale must clamp to the source dimensions: %q", filter)
	}
	if !strings.Contains(filter, "force_original_aspect_ratio=decrease") {
		t.Errorf("filter must preserve aspect ratio: %q", filter)
	}
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997002997},
		{"25", 25},
		{"0/0", 0},
		{"garbage", 0},
		{"", 0},
	}

	for _, tt := range tests {
		if got := parseFrameRate(tt.raw); got != tt.want {
			t.Errorf("parseFrameRate(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
