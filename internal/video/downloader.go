package video

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
)

// Extractor is the primary download path.
type Extractor interface {
	Extract(ctx context.Context, url, destDir, cookieFile string) (*DownloadedVideo, error)
}

// Downloader resolves a URL to a local video file, falling back to the
// scraper service when the primary extractor fails on a known platform.
type Downloader struct {
	extractor    Extractor
	scraper      Scraper // nil disables the fallback path
	cookieBlob   string  // possibly base64-encoded Netscape cookie jar
	allowUnknown bool
	logger       *slog.Logger
}

func NewDownloader(extractor Extractor, scraper Scraper, cookieBlob string, allowUnknown bool, logger *slog.Logger) *Downloader {
	return &Downloader{
		extractor:    extractor,
		scraper:      scraper,
		cookieBlob:   cookieBlob,
		allowUnknown: allowUnknown,
		logger:       logger,
	}
}

// Download writes at most one video file and one cookie file under destDir.
func (d *Downloader) Download(ctx context.Context, url, destDir string) (*DownloadedVideo, error) {
	platform := DetectPlatform(url)
	if platform == PlatformUnknown && !d.allowUnknown {
		return nil, ErrUnsupportedPlatform
	}

	cookieFile, err := d.writeCookieFile(destDir)
	if err != nil && d.logger != nil {
		// A bad cookie blob degrades to an anonymous download attempt.
		d.logger.Warn("cannot materialize cookie file", "error", err)
	}

	video, primaryErr := d.extractor.Extract(ctx, url, destDir, cookieFile)
	if primaryErr == nil {
		return video, nil
	}

	if d.scraper == nil || platform == PlatformUnknown {
		return nil, &DownloadError{Primary: primaryErr}
	}

	if d.logger != nil {
		d.logger.Info("primary extraction failed, trying scraper fallback",
			"platform", platform,
			"error", primaryErr,
		)
	}

	video, fallbackErr := d.scraper.Fetch(ctx, platform, url, destDir)
	if fallbackErr == nil {
		return video, nil
	}

	return nil, &DownloadError{Primary: primaryErr, Fallback: fallbackErr}
}

// writeCookieFile materializes the configured cookie blob into destDir.
// The blob may be base64-encoded; raw text is accepted as-is.
func (d *Downloader) writeCookieFile(destDir string) (string, error) {
	if d.cookieBlob == "" {
		return "", nil
	}

	data := []byte(d.cookieBlob)
	if decoded, err := base64.StdEncoding.DecodeString(d.cookieBlob); err == nil {
		data = decoded
	}

	path := filepath.Join(destDir, "cookies.txt")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}
