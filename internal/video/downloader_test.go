package video

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type fakeExtractor struct {
	video      *DownloadedVideo
	err        error
	calls      int
	cookieFile string
}

func (f *fakeExtractor) Extract(ctx context.Context, url, destDir, cookieFile string) (*DownloadedVideo, error) {
	f.calls++
	f.cookieFile = cookieFile
	return f.video, f.err
}

type fakeScraper struct {
	video    *DownloadedVideo
	err      error
	calls    int
	platform Platform
}

func (f *fakeScraper) Fetch(ctx context.Context, platform Platform, url, destDir string) (*DownloadedVideo, error) {
	f.calls++
	f.platform = platform
	return f.video, f.err
}

func TestDownload_PrimarySucceeds(t *testing.T) {
	extractor := &fakeExtractor{video: &DownloadedVideo{Path: "/tmp/v.mp4", MimeType: "video/mp4"}}
	scraper := &fakeScraper{}
	d := NewDownloader(extractor, scraper, "", false, nil)

	video, err := d.Download(context.Background(), "https://youtube.com/watch?v=1", t.TempDir())
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if video.Path != "/tmp/v.mp4" {
		t.Errorf("Path = %q", video.Path)
	}
	if scraper.calls != 0 {
		t.Errorf("scraper called %d times, want 0", scraper.calls)
	}
}

func TestDownload_UnknownPlatformFailsFast(t *testing.T) {
	extractor := &fakeExtractor{}
	d := NewDownloader(extractor, &fakeScraper{}, "", false, nil)

	_, err := d.Download(context.Background(), "https://vimeo.com/123", t.TempDir())
	if !errors.Is(err, ErrUnsupportedPlatform) {
		t.Fatalf("error = %v, want ErrUnsupportedPlatform", err)
	}
	if extractor.calls != 0 {
		t.Errorf("extractor called %d times, want 0", extractor.calls)
	}
}

func TestDownload_UnknownPlatformAllowed(t *testing.T) {
	extractor := &fakeExtractor{video: &DownloadedVideo{Path: "/tmp/v.mp4"}}
	scraper := &fakeScraper{}
	d := NewDownloader(extractor, scraper, "", true, nil)

	_, err := d.Download(context.Background(), "https://vimeo.com/123", t.TempDir())
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	// Fallback never fires for unknown platforms even when allowed
	extractor.video, extractor.err = nil, errors.New("no extractor for site")
	_, err = d.Download(context.Background(), "https://vimeo.com/123", t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}
	if scraper.calls != 0 {
		t.Errorf("scraper called %d times for unknown platform, want 0", scraper.calls)
	}
}

func TestDownload_FallbackFires(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("HTTP 403")}
	scraper := &fakeScraper{video: &DownloadedVideo{Path: "/tmp/s.mp4", MimeType: "video/mp4"}}
	d := NewDownloader(extractor, scraper, "", false, nil)

	video, err := d.Download(context.Background(), "https://www.tiktok.com/@x/video/123", t.TempDir())
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if video.Path != "/tmp/s.mp4" {
		t.Errorf("Path = %q, want fallback result", video.Path)
	}
	if scraper.calls != 1 {
		t.Errorf("scraper called %d times, want exactly 1", scraper.calls)
	}
	if scraper.platform != PlatformTikTok {
		t.Errorf("scraper platform = %v, want tiktok", scraper.platform)
	}
}

func TestDownload_BothFail_CombinedError(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("primary exploded")}
	scraper := &fakeScraper{err: errors.New("fallback exploded")}
	d := NewDownloader(extractor, scraper, "", false, nil)

	_, err := d.Download(context.Background(), "https://www.tiktok.com/@x/video/123", t.TempDir())
	if err == nil {
		t.Fatal("expected error")
	}

	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("error type = %T, want *DownloadError", err)
	}
	msg := err.Error()
	if !strings.Contains(msg, "primary exploded") || !strings.Contains(msg, "fallback exploded") {
		t.Errorf("combined message missing a side: %q", msg)
	}
}

func TestDownload_NoScraperConfigured(t *testing.T) {
	extractor := &fakeExtractor{err: errors.New("primary exploded")}
	d := NewDownloader(extractor, nil, "", false, nil)

	_, err := d.Download(context.Background(), "https://youtube.com/watch?v=1", t.TempDir())
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("error type = %T, want *DownloadError", err)
	}
	if dlErr.Fallback != nil {
		t.Errorf("Fallback = %v, want nil without scraper", dlErr.Fallback)
	}
}

func TestDownload_CookieFileWritten(t *testing.T) {
	extractor := &fakeExtractor{video: &DownloadedVideo{Path: "/tmp/v.mp4"}}
	// "# Netscape HTTP Cookie File" base64-encoded
	blob := "IyBOZXRzY2FwZSBIVFRQIENvb2tpZSBGaWxl"
	d := NewDownloader(extractor, nil, blob, false, nil)

	destDir := t.TempDir()
	if _, err := d.Download(context.Background(), "https://youtube.com/watch?v=1", destDir); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	if extractor.cookieFile != filepath.Join(destDir, "cookies.txt") {
		t.Fatalf("cookieFile = %q", extractor.cookieFile)
	}
	data, err := os.ReadFile(extractor.cookieFile)
	if err != nil {
		t.Fatalf("reading cookie file: %v", err)
	}
	if string(data) != "# Netscape HTTP Cookie File" {
		t.Errorf("cookie content = %q, want decoded blob", data)
	}
}

func TestDownload_RawCookieBlobAcceptedAsIs(t *testing.T) {
	extractor := &fakeExtractor{video: &DownloadedVideo{Path: "/tmp/v.mp4"}}
	blob := "# Netscape HTTP Cookie File\n.youtube.com\tTRUE\t/\tTRUE\t0\tSID\tx"
	d := NewDownloader(extractor, nil, blob, false, nil)

	destDir := t.TempDir()
	if _, err := d.Download(context.Background(), "https://youtube.com/watch?v=1", destDir); err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	data, err := os.ReadFile(extractor.cookieFile)
	if err != nil {
		t.Fatalf("reading cookie file: %v", err)
	}
	if string(data) != blob {
		t.Errorf("cookie content = %q, want raw blob", data)
	}
}
