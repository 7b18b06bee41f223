package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"google.golang.org/genai"
)

const (
	processingPollInterval = 2 * time.Second
	processingMaxWait      = 60 * time.Second
)

// fileService is the slice of the SDK's file API the client needs. Narrowed
// to an interface so tests can drive the processing state machine.
type fileService interface {
	Upload(ctx context.Context, path string, config *genai.UploadFileConfig) (*genai.File, error)
	Get(ctx context.Context, name string) (*genai.File, error)
	Delete(ctx context.Context, name string) error
}

// sdkFiles adapts *genai.Client to fileService.
type sdkFiles struct {
	client *genai.Client
}

func (s sdkFiles) Upload(ctx context.Context, path string, config *genai.UploadFileConfig) (*genai.File, error) {
	return s.client.Files.UploadFromPath(ctx, path, config)
}

func (s sdkFiles) Get(ctx context.Context, name string) (*genai.File, error) {
	return s.client.Files.Get(ctx, name, nil)
}

func (s sdkFiles) Delete(ctx context.Context, name string) error {
	_, err := s.client.Files.Delete(ctx, name, nil)
	return err
}

// GeminiClient talks to the Gemini API. Safe for concurrent use; one
// instance is shared across requests.
type GeminiClient struct {
	client *genai.Client
	files  fileService
	model  string
	logger *slog.Logger

	// sleep is replaceable in tests to avoid real delays.
	sleep func(time.Duration)
}

func NewGeminiClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{
		client: client,
		files:  sdkFiles{client: client},
		model:  model,
		logger: logger,
		sleep:  time.Sleep,
	}, nil
}

func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

func (c *GeminiClient) GenerateFromImages(ctx context.Context, prompt string, jpegs [][]byte) (string, error) {
	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range jpegs {
		parts = append(parts, genai.NewPartFromBytes(img, "image/jpeg"))
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

func (c *GeminiClient) GenerateFromImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(image, mimeType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

func (c *GeminiClient) GenerateFromVideoFile(ctx context.Context, prompt, path, mimeType string) (string, error) {
	file, err := c.files.Upload(ctx, path, &genai.UploadFileConfig{
		MIMEType: mimeType,
	})
	if err != nil {
		return "", classify(err)
	}
	defer func() {
		// Uploaded files expire on the backend anyway; deletion is best effort.
		_ = c.files.Delete(context.WithoutCancel(ctx), file.Name)
	}()

	file, err = c.waitForProcessing(ctx, file)
	if err != nil {
		return "", err
	}

	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromURI(file.URI, file.MIMEType),
		genai.NewPartFromText(prompt),
	}, genai.RoleUser)}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", classify(err)
	}
	return resp.Text(), nil
}

// waitForProcessing polls the uploaded file until it leaves the processing
// state. A file still processing after the deadline is used as-is; only an
// explicit FAILED state is fatal.
func (c *GeminiClient) waitForProcessing(ctx context.Context, file *genai.File) (*genai.File, error) {
	waited := time.Duration(0)
	for file.State == genai.FileStateProcessing && waited < processingMaxWait {
		c.sleep(processingPollInterval)
		waited += processingPollInterval

		updated, err := c.files.Get(ctx, file.Name)
		if err != nil {
			return nil, classify(err)
		}
		file = updated
	}

	if file.State == genai.FileStateFailed {
		return nil, &Error{Message: "video processing failed", Retryable: false}
	}
	if file.State == genai.FileStateProcessing && c.logger != nil {
		c.logger.Warn("video still processing after deadline, proceeding", "file", file.Name)
	}
	return file, nil
}

// classify converts SDK errors into the package's tagged Error.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return WrapError(apiErr.Code, apiErr.Message)
	}
	return WrapError(0, err.Error())
}
