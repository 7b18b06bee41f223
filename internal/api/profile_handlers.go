package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nutriai/nutriai-server/internal/store"
)

func getProfileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := cfg.Repository.GetProfile(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to load profile", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load profile", "INTERNAL_ERROR")
			return
		}
		if profile == nil {
			WriteError(w, http.StatusNotFound, "profile not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, profile)
	}
}

func updateProfileHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		if req.Age < 0 || req.Age > 150 {
			WriteError(w, http.StatusBadRequest, "age out of range", "INVALID_REQUEST")
			return
		}
		if req.HeightCm < 0 || req.WeightKg < 0 {
			WriteError(w, http.StatusBadRequest, "height and weight must be non-negative", "INVALID_REQUEST")
			return
		}

		waterTarget := req.WaterTargetMl
		if waterTarget <= 0 {
			waterTarget = 2000
		}

		profile := &store.Profile{
			UserID:        CurrentUserID(r),
			DisplayName:   req.DisplayName,
			Age:           req.Age,
			Gender:        req.Gender,
			HeightCm:      req.HeightCm,
			WeightKg:      req.WeightKg,
			ActivityLevel: req.ActivityLevel,
			Goal:          req.Goal,
			CalorieTarget: req.CalorieTarget,
			ProteinTarget: req.ProteinTarget,
			CarbsTarget:   req.CarbsTarget,
			FatTarget:     req.FatTarget,
			WaterTargetMl: waterTarget,
			UpdatedAt:     time.Now().UTC(),
		}
		if err := cfg.Repository.UpsertProfile(r.Context(), profile); err != nil {
			cfg.Logger.Error("failed to save profile", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to save profile", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, profile)
	}
}

func completeOnboardingHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		updated, err := cfg.Repository.SetOnboardingCompleted(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to complete onboarding", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to complete onboarding", "INTERNAL_ERROR")
			return
		}
		if !updated {
			WriteError(w, http.StatusNotFound, "profile not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
