package video

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/nutriai/nutriai-server/internal/ai"
	"github.com/nutriai/nutriai-server/internal/recipe"
)

// Method selects how the AI extractor sees the video.
type Method string

const (
	MethodDirect Method = "direct" // upload the whole video file
	MethodFrames Method = "frames" // send sampled still frames inline
)

// VideoDownloader resolves a URL to a local file inside a caller-owned
// directory.
type VideoDownloader interface {
	Download(ctx context.Context, url, destDir string) (*DownloadedVideo, error)
}

// Pipeline runs one extraction request end to end. All intermediate
// artifacts live in a per-request temp directory that is removed on every
// exit path.
type Pipeline struct {
	tmpBase       string
	downloader    VideoDownloader
	sampler       FrameSampler
	aiClient      ai.Client
	frameInterval float64
	logger        *slog.Logger
}

func NewPipeline(tmpBase string, downloader VideoDownloader, sampler FrameSampler, aiClient ai.Client, frameInterval float64, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		tmpBase:       tmpBase,
		downloader:    downloader,
		sampler:       sampler,
		aiClient:      aiClient,
		frameInterval: frameInterval,
		logger:        logger,
	}
}

// Extract downloads the video, runs the selected AI analysis, and returns
// the parsed draft. The parser never fails; only download, frame sampling,
// and the AI call can end the pipeline early.
func (p *Pipeline) Extract(ctx context.Context, url string, method Method) (recipe.Draft, error) {
	if err := os.MkdirAll(p.tmpBase, 0755); err != nil {
		return recipe.Draft{}, err
	}
	workDir, err := os.MkdirTemp(p.tmpBase, "extract-*")
	if err != nil {
		return recipe.Draft{}, err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil && p.logger != nil {
			p.logger.Warn("cannot remove request workspace", "dir", workDir, "error", err)
		}
	}()

	video, err := p.downloader.Download(ctx, url, workDir)
	if err != nil {
		return recipe.Draft{}, err
	}

	var reply string
	switch method {
	case MethodFrames:
		if p.sampler == nil {
			return recipe.Draft{}, errors.New("frame sampling is not available on this host")
		}
		frames, err := p.sampler.Sample(ctx, video.Path, workDir, p.frameInterval)
		if err != nil {
			return recipe.Draft{}, err
		}
		reply, err = p.aiClient.GenerateFromImages(ctx, recipe.FramesPrompt(len(frames)), frames)
		if err != nil {
			return recipe.Draft{}, err
		}
	default:
		reply, err = p.aiClient.GenerateFromVideoFile(ctx, recipe.VideoPrompt(), video.Path, video.MimeType)
		if err != nil {
			return recipe.Draft{}, err
		}
	}

	return recipe.ParseResponse(reply), nil
}
