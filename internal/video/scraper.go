package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Scraper is the fallback download path: a remote scraping/automation
// service that resolves a platform URL to a direct download link.
type Scraper interface {
	Fetch(ctx context.Context, platform Platform, url, destDir string) (*DownloadedVideo, error)
}

var scraperMimeToExt = map[string]string{
	"video/mp4":        ".mp4",
	"video/webm":       ".webm",
	"video/quicktime":  ".mov",
	"video/x-matroska": ".mkv",
}

const (
	scraperPollInterval = 2 * time.Second
	scraperJobStatusDone   = "completed"
	scraperJobStatusFailed = "failed"
)

// ScraperClient submits a scrape job, polls until it completes, then fetches
// the resolved link.
type ScraperClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxWait    time.Duration
	logger     *slog.Logger

	// sleep is replaceable in tests.
	sleep func(time.Duration)
}

func NewScraperClient(baseURL, token string, maxWait time.Duration, logger *slog.Logger) *ScraperClient {
	return &ScraperClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxWait:    maxWait,
		logger:     logger,
		sleep:      time.Sleep,
	}
}

type scrapeJobRequest struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type scrapeJobResponse struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	DownloadURL string `json:"download_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (c *ScraperClient) Fetch(ctx context.Context, platform Platform, url, destDir string) (*DownloadedVideo, error) {
	job, err := c.submitJob(ctx, platform, url)
	if err != nil {
		return nil, err
	}

	job, err = c.waitForJob(ctx, job)
	if err != nil {
		return nil, err
	}

	return c.downloadLink(ctx, job.DownloadURL, destDir)
}

func (c *ScraperClient) submitJob(ctx context.Context, platform Platform, url string) (*scrapeJobResponse, error) {
	body, err := json.Marshal(scrapeJobRequest{Platform: string(platform), URL: url})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper submit failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scraper submit returned %d: %s", resp.StatusCode, string(b))
	}

	var job scrapeJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("scraper submit response: %w", err)
	}
	return &job, nil
}

func (c *ScraperClient) waitForJob(ctx context.Context, job *scrapeJobResponse) (*scrapeJobResponse, error) {
	waited := time.Duration(0)
	for {
		switch job.Status {
		case scraperJobStatusDone:
			if job.DownloadURL == "" {
				return nil, fmt.Errorf("scraper job %s completed without a download link", job.JobID)
			}
			return job, nil
		case scraperJobStatusFailed:
			return nil, fmt.Errorf("scraper job %s failed: %s", job.JobID, job.Error)
		}

		if waited >= c.maxWait {
			return nil, fmt.Errorf("scraper job %s timed out after %s", job.JobID, c.maxWait)
		}
		c.sleep(scraperPollInterval)
		waited += scraperPollInterval

		updated, err := c.getJob(ctx, job.JobID)
		if err != nil {
			return nil, err
		}
		job = updated
	}
}

func (c *ScraperClient) getJob(ctx context.Context, jobID string) (*scrapeJobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper poll failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper poll returned %d", resp.StatusCode)
	}

	var job scrapeJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("scraper poll response: %w", err)
	}
	return &job, nil
}

// downloadLink fetches the resolved link and persists the bytes locally,
// inferring the extension from the response content type.
func (c *ScraperClient) downloadLink(ctx context.Context, url, destDir string) (*DownloadedVideo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scraper download returned %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := scraperMimeToExt[contentType]
	if !ok {
		ext = ".mp4"
		contentType = "video/mp4"
	}

	path := filepath.Join(destDir, outputStem+ext)
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	size, err := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if err != nil {
		return nil, fmt.Errorf("scraper download write: %w", err)
	}
	if closeErr != nil {
		return nil, closeErr
	}

	if c.logger != nil {
		c.logger.Info("video fetched via scraper fallback", "size", size, "content_type", contentType)
	}

	return &DownloadedVideo{Path: path, Size: size, MimeType: contentType}, nil
}
