package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nutriai/nutriai-server/internal/ai"
	"github.com/nutriai/nutriai-server/internal/foodscan"
	"github.com/nutriai/nutriai-server/internal/nutrition"
	"github.com/nutriai/nutriai-server/internal/video"
)

const maxImageBytes = 10 << 20

func nutritionEstimateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in nutrition.Input
		if r.Body != nil {
			// Body is optional; overrides take precedence over the profile.
			_ = json.NewDecoder(r.Body).Decode(&in)
		}

		profile, err := cfg.Repository.GetProfile(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to load profile", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load profile", "INTERNAL_ERROR")
			return
		}
		if profile != nil {
			if in.Age == 0 {
				in.Age = profile.Age
			}
			if in.Gender == "" {
				in.Gender = profile.Gender
			}
			if in.HeightCm == 0 {
				in.HeightCm = profile.HeightCm
			}
			if in.WeightKg == 0 {
				in.WeightKg = profile.WeightKg
			}
			if in.Goal == "" {
				in.Goal = profile.Goal
			}
			if in.ActivityLevel == "" {
				in.ActivityLevel = profile.ActivityLevel
			}
		}

		if in.Age <= 0 || in.HeightCm <= 0 || in.WeightKg <= 0 {
			WriteError(w, http.StatusBadRequest, "age, height and weight are required", "INVALID_REQUEST")
			return
		}

		targets, fromAI := cfg.Estimator.Estimate(r.Context(), in)
		WriteJSON(w, http.StatusOK, NutritionEstimateResponse{
			Success:   true,
			Nutrition: targets,
			FromAI:    fromAI,
		})
	}
}

func foodAnalysisHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image, mimeType, err := readAnalysisImage(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "INVALID_REQUEST")
			return
		}

		analysis, err := cfg.Analyzer.Analyze(r.Context(), image, mimeType)
		if err != nil {
			var aiErr *ai.Error
			switch {
			case errors.As(err, &aiErr) && aiErr.Retryable:
				WriteError(w, http.StatusTooManyRequests, "AI service is busy, try again shortly", "RATE_LIMITED")
			case errors.Is(err, foodscan.ErrUnparseableReply):
				WriteError(w, http.StatusBadGateway, "AI returned an unusable analysis", "BAD_UPSTREAM")
			default:
				cfg.Logger.Error("food analysis failed", "error", err)
				WriteError(w, http.StatusInternalServerError, "food analysis failed", "INTERNAL_ERROR")
			}
			return
		}

		WriteJSON(w, http.StatusOK, FoodAnalysisResponse{Success: true, Analysis: analysis})
	}
}

// readAnalysisImage accepts either a JSON body with a base64 image payload
// or a multipart form with an "image" file field.
func readAnalysisImage(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageBytes); err != nil {
			return nil, "", errors.New("invalid multipart form")
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			return nil, "", errors.New("image file is required")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
		if err != nil {
			return nil, "", errors.New("failed to read image")
		}
		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/jpeg"
		}
		return data, mimeType, nil
	}

	var req FoodAnalysisRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxImageBytes)).Decode(&req); err != nil {
		return nil, "", errors.New("invalid request body")
	}
	if req.ImageBase64 == "" {
		return nil, "", errors.New("image_base64 is required")
	}
	return foodscan.DecodeImagePayload(req.ImageBase64)
}

func videoRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VideoRecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.URL == "" {
			WriteError(w, http.StatusBadRequest, "url is required", "INVALID_REQUEST")
			return
		}
		if parsed, err := url.Parse(req.URL); err != nil || parsed.Host == "" {
			WriteError(w, http.StatusBadRequest, "url is not a valid absolute URL", "INVALID_REQUEST")
			return
		}

		method := video.MethodDirect
		switch req.Method {
		case "", string(video.MethodDirect):
		case string(video.MethodFrames):
			method = video.MethodFrames
		default:
			WriteError(w, http.StatusBadRequest, "method must be direct or frames", "INVALID_REQUEST")
			return
		}

		draft, err := cfg.Extractor.Extract(r.Context(), req.URL, method)
		if err != nil {
			writeExtractionError(w, cfg, err)
			return
		}

		WriteJSON(w, http.StatusOK, VideoRecipeResponse{Success: true, Recipe: draft})
	}
}

// writeExtractionError maps pipeline failures onto HTTP statuses: anything
// wrong with the video or its source is the caller's problem, AI quota
// exhaustion is retryable, the rest is ours.
func writeExtractionError(w http.ResponseWriter, cfg ServerConfig, err error) {
	var downloadErr *video.DownloadError
	var aiErr *ai.Error

	switch {
	case errors.Is(err, video.ErrUnsupportedPlatform):
		WriteError(w, http.StatusBadRequest, err.Error(), "UNSUPPORTED_PLATFORM")
	case errors.As(err, &downloadErr):
		WriteError(w, http.StatusBadRequest, downloadErr.Error(), "DOWNLOAD_FAILED")
	case errors.Is(err, video.ErrUnreadableVideo):
		WriteError(w, http.StatusBadRequest, err.Error(), "UNREADABLE_VIDEO")
	case errors.Is(err, video.ErrNoFrames):
		WriteError(w, http.StatusBadRequest, err.Error(), "NO_FRAMES")
	case errors.As(err, &aiErr) && aiErr.Retryable:
		WriteError(w, http.StatusTooManyRequests, "AI service is busy, try again shortly", "RATE_LIMITED")
	default:
		cfg.Logger.Error("video recipe extraction failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "video recipe extraction failed", "INTERNAL_ERROR")
	}
}
