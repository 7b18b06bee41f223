package ai

import (
	"context"
	"log/slog"
)

// Client is the surface the rest of the server uses to talk to the
// generative AI backend. All methods return the model's raw text reply.
type Client interface {
	// GenerateText sends a plain text prompt.
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateFromImages sends a prompt plus inline JPEG images.
	GenerateFromImages(ctx context.Context, prompt string, jpegs [][]byte) (string, error)
	// GenerateFromImage sends a prompt plus one inline image of the given
	// MIME type.
	GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)
	// GenerateFromVideoFile uploads a video file, waits for backend
	// processing, then sends the prompt with the uploaded reference.
	GenerateFromVideoFile(ctx context.Context, prompt, path, mimeType string) (string, error)
}

// StubClient returns canned replies. Used when no API key is configured and
// in tests.
type StubClient struct {
	logger *slog.Logger

	// TextReply is returned by every Generate call when Err is nil.
	TextReply string
	Err       error

	TextCalls  int
	ImageCalls int
	VideoCalls int
}

func NewStubClient(logger *slog.Logger) *StubClient {
	return &StubClient{logger: logger}
}

func (c *StubClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	c.TextCalls++
	if c.logger != nil {
		c.logger.Info("ai stub: text generation requested", "prompt_len", len(prompt))
	}
	return c.TextReply, c.Err
}

func (c *StubClient) GenerateFromImages(ctx context.Context, prompt string, jpegs [][]byte) (string, error) {
	c.ImageCalls++
	if c.logger != nil {
		c.logger.Info("ai stub: image generation requested", "images", len(jpegs))
	}
	return c.TextReply, c.Err
}

func (c *StubClient) GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	c.ImageCalls++
	if c.logger != nil {
		c.logger.Info("ai stub: single image generation requested", "mime_type", mimeType)
	}
	return c.TextReply, c.Err
}

func (c *StubClient) GenerateFromVideoFile(ctx context.Context, prompt, path, mimeType string) (string, error) {
	c.VideoCalls++
	if c.logger != nil {
		c.logger.Info("ai stub: video generation requested", "path", path, "mime_type", mimeType)
	}
	return c.TextReply, c.Err
}
