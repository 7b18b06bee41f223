package video

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultFPS    = 30.0
	MaxFrames     = 30
	MaxDimension  = 512
	jpegQuality   = "3" // ffmpeg qscale, roughly JPEG quality 85
	framesTimeout = 120 * time.Second
)

// FrameSampler extracts a bounded set of downscaled JPEG frames from a
// video file.
type FrameSampler interface {
	Sample(ctx context.Context, videoPath, destDir string, interval float64) ([][]byte, error)
}

// FFmpegSampler shells out to ffprobe/ffmpeg.
type FFmpegSampler struct {
	ffmpegPath  string
	ffprobePath string
	logger      *slog.Logger
}

func NewFFmpegSampler(logger *slog.Logger) (*FFmpegSampler, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffmpeg: %w", err)
	}
	ffprobe, err := exec.LookPath("ffprobe")
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffprobe: %w", err)
	}
	return &FFmpegSampler{ffmpegPath: ffmpeg, ffprobePath: ffprobe, logger: logger}, nil
}

// frameFilter keeps every stride-th frame and bounds both dimensions at
// MaxDimension while preserving aspect ratio. min(iw,...) and min(ih,...)
// keep ffmpeg from upscaling videos already smaller than the bound.
func frameFilter(stride int) string {
	return fmt.Sprintf("select=not(mod(n\\,%d)),scale=w='min(iw\\,%d)':h='min(ih\\,%d)':force_original_aspect_ratio=decrease",
		stride, MaxDimension, MaxDimension)
}

// Stride is the frame-index step between kept frames. A non-positive frame
// rate falls back to the default instead of failing.
func Stride(fps, intervalSeconds float64) int {
	if fps <= 0 {
		fps = DefaultFPS
	}
	stride := int(math.Round(fps * intervalSeconds))
	if stride < 1 {
		stride = 1
	}
	return stride
}

// Sample extracts every stride-th frame as a JPEG no larger than
// MaxDimension on either side, capped at MaxFrames.
func (s *FFmpegSampler) Sample(ctx context.Context, videoPath, destDir string, interval float64) ([][]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, framesTimeout)
	defer cancel()

	fps, err := s.probeFrameRate(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	stride := Stride(fps, interval)

	framesDir := filepath.Join(destDir, "frames")
	if err := os.MkdirAll(framesDir, 0755); err != nil {
		return nil, err
	}

	filter := frameFilter(stride)

	args := []string{
		"-i", videoPath,
		"-vf", filter,
		"-vsync", "0",
		"-frames:v", strconv.Itoa(MaxFrames),
		"-q:v", jpegQuality,
		filepath.Join(framesDir, "frame_%06d.jpg"),
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	var stderrBuf bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderrBuf, limit: maxStderrBytes}

	if err := cmd.Run(); err != nil {
		tail := strings.TrimSpace(stderrBuf.String())
		if s.logger != nil {
			s.logger.Warn("ffmpeg frame extraction failed", "stderr_tail", tail)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnreadableVideo, tail)
	}

	frames, err := readFrames(framesDir)
	if err != nil {
		return nil, err
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	if s.logger != nil {
		s.logger.Info("frames sampled", "count", len(frames), "stride", stride, "fps", fps)
	}
	return frames, nil
}

// probeFrameRate reads the stream's r_frame_rate. An unreadable container is
// fatal; a readable one with broken rate metadata falls back to DefaultFPS.
func (s *FFmpegSampler) probeFrameRate(ctx context.Context, videoPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, s.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		videoPath,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe: %v", ErrUnreadableVideo, err)
	}

	fps := parseFrameRate(strings.TrimSpace(string(out)))
	return fps, nil
}

// parseFrameRate parses ffprobe's "num/den" fraction form. Malformed or
// non-positive values yield 0, which Stride treats as the default rate.
func parseFrameRate(raw string) float64 {
	if raw == "" {
		return 0
	}
	if num, den, ok := strings.Cut(raw, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0
		}
		return n / d
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

func readFrames(framesDir string) ([][]byte, error) {
	entries, err := os.ReadDir(framesDir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".jpg") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	frames := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(framesDir, name))
		if err != nil {
			return nil, err
		}
		frames = append(frames, data)
	}
	return frames, nil
}
