package video

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const (
	maxStderrBytes = 8 * 1024 // tail of stderr kept for diagnostics

	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	outputStem = "video"
)

// probeExtensions are tried in order when resolving the file yt-dlp
// actually wrote, since the extractor appends a format-specific extension.
var probeExtensions = []string{".mp4", ".webm", ".mkv", ".mov"}

// DownloadedVideo is a temporary local video file. The orchestrator owns it
// for the duration of one request and deletes its directory afterwards.
type DownloadedVideo struct {
	Path     string
	Size     int64
	MimeType string
}

// YtdlpExtractor downloads videos via the yt-dlp binary.
type YtdlpExtractor struct {
	binPath string // resolved yt-dlp path
	timeout time.Duration
	logger  *slog.Logger
}

func NewYtdlpExtractor(binPath string, timeout time.Duration, logger *slog.Logger) (*YtdlpExtractor, error) {
	resolved, err := exec.LookPath(binPath)
	if err != nil {
		return nil, fmt.Errorf("cannot locate yt-dlp binary %q: %w", binPath, err)
	}
	return &YtdlpExtractor{binPath: resolved, timeout: timeout, logger: logger}, nil
}

// Extract downloads the URL into destDir and returns the resulting file.
// cookieFile is optional; when set it is passed through to yt-dlp.
func (e *YtdlpExtractor) Extract(ctx context.Context, url, destDir, cookieFile string) (*DownloadedVideo, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	outTemplate := filepath.Join(destDir, outputStem+".%(ext)s")
	args := []string{
		"-f", "best[ext=mp4]/best",
		"--no-playlist",
		"--quiet",
		"--no-warnings",
		"--user-agent", browserUserAgent,
		"--retries", "3",
		"--socket-timeout", "30",
		"--geo-bypass",
		"--sleep-interval", "1",
		"--max-sleep-interval", "3",
		"-o", outTemplate,
	}
	if cookieFile != "" {
		args = append(args, "--cookies", cookieFile)
	}
	args = append(args, url)

	cmd := exec.CommandContext(ctx, e.binPath, args...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderrBuf, limit: maxStderrBytes}

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		tail := strings.TrimSpace(stderrBuf.String())
		if e.logger != nil {
			e.logger.Warn("yt-dlp extraction failed",
				"duration_ms", elapsed.Milliseconds(),
				"stderr_tail", tail,
			)
		}
		if tail == "" {
			return nil, fmt.Errorf("yt-dlp: %w", err)
		}
		return nil, fmt.Errorf("yt-dlp: %s", tail)
	}

	path, err := resolveOutputPath(destDir)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat downloaded file: %w", err)
	}

	if e.logger != nil {
		e.logger.Info("video downloaded",
			"size", info.Size(),
			"duration_ms", elapsed.Milliseconds(),
		)
	}

	return &DownloadedVideo{
		Path:     path,
		Size:     info.Size(),
		MimeType: mimeForExtension(filepath.Ext(path)),
	}, nil
}

// resolveOutputPath finds the file yt-dlp wrote: probe common extensions
// first, then scan the directory for anything matching the output stem.
func resolveOutputPath(destDir string) (string, error) {
	for _, ext := range probeExtensions {
		candidate := filepath.Join(destDir, outputStem+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(destDir)
	if err != nil {
		return "", fmt.Errorf("cannot scan download dir: %w", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), outputStem+".") {
			return filepath.Join(destDir, entry.Name()), nil
		}
	}
	return "", fmt.Errorf("yt-dlp reported success but no output file found")
}

func mimeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".mp4":
		return "video/mp4"
	case ".webm":
		return "video/webm"
	case ".mkv":
		return "video/x-matroska"
	case ".mov":
		return "video/quicktime"
	default:
		return "video/mp4"
	}
}

// limitedWriter keeps only the last `limit` bytes written.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		b := lw.w.Bytes()
		lw.w.Reset()
		lw.w.Write(b[len(b)-lw.limit:])
	}
	return n, nil
}
