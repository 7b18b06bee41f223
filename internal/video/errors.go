package video

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedPlatform = errors.New("unsupported video platform")
	ErrUnreadableVideo     = errors.New("video file could not be opened")
	ErrNoFrames            = errors.New("no frames extracted from video")
)

// DownloadError reports that both the primary extractor and the fallback
// scraper failed. Both messages are preserved.
type DownloadError struct {
	Primary  error
	Fallback error
}

func (e *DownloadError) Error() string {
	if e.Fallback == nil {
		return fmt.Sprintf("download failed: %v", e.Primary)
	}
	return fmt.Sprintf("download failed: primary: %v; fallback: %v", e.Primary, e.Fallback)
}
