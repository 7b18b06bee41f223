package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutriai/nutriai-server/internal/store"
)

func createRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.Title == "" {
			WriteError(w, http.StatusBadRequest, "title is required", "INVALID_REQUEST")
			return
		}

		rec := &store.Recipe{
			ID:              store.NewID(),
			UserID:          CurrentUserID(r),
			Title:           req.Title,
			Description:     req.Description,
			Ingredients:     req.Ingredients,
			Instructions:    req.Instructions,
			PrepTimeMinutes: req.PrepTimeMinutes,
			CookTimeMinutes: req.CookTimeMinutes,
			Servings:        req.Servings,
			Calories:        req.Calories,
			Protein:         req.Protein,
			Carbs:           req.Carbs,
			Fat:             req.Fat,
			SourceURL:       req.SourceURL,
			ImageURL:        req.ImageURL,
			CreatedAt:       time.Now().UTC(),
		}
		if err := cfg.Repository.CreateRecipe(r.Context(), rec); err != nil {
			cfg.Logger.Error("failed to create recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to create recipe", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, rec)
	}
}

func getRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := cfg.Repository.GetRecipe(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			cfg.Logger.Error("failed to load recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load recipe", "INTERNAL_ERROR")
			return
		}
		if rec == nil {
			WriteError(w, http.StatusNotFound, "recipe not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, rec)
	}
}

func listRecipesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipes, err := cfg.Repository.ListRecipesByUser(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to list recipes", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list recipes", "INTERNAL_ERROR")
			return
		}
		if recipes == nil {
			recipes = []*store.Recipe{}
		}
		WriteJSON(w, http.StatusOK, RecipesResponse{Recipes: recipes})
	}
}

func deleteRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cfg.Repository.DeleteRecipe(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to delete recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to delete recipe", "INTERNAL_ERROR")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "recipe not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func saveRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipeID := chi.URLParam(r, "id")
		rec, err := cfg.Repository.GetRecipe(r.Context(), recipeID)
		if err != nil {
			cfg.Logger.Error("failed to load recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to save recipe", "INTERNAL_ERROR")
			return
		}
		if rec == nil {
			WriteError(w, http.StatusNotFound, "recipe not found", "NOT_FOUND")
			return
		}

		if err := cfg.Repository.SaveRecipe(r.Context(), CurrentUserID(r), recipeID); err != nil {
			cfg.Logger.Error("failed to save recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to save recipe", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unsaveRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Repository.UnsaveRecipe(r.Context(), CurrentUserID(r), chi.URLParam(r, "id")); err != nil {
			cfg.Logger.Error("failed to unsave recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to unsave recipe", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func checkSavedRecipeHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		saved, err := cfg.Repository.IsRecipeSaved(r.Context(), CurrentUserID(r), chi.URLParam(r, "id"))
		if err != nil {
			cfg.Logger.Error("failed to check saved recipe", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to check saved recipe", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, SavedCheckResponse{Saved: saved})
	}
}

func listSavedRecipesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipes, err := cfg.Repository.ListSavedRecipes(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to list saved recipes", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list saved recipes", "INTERNAL_ERROR")
			return
		}
		if recipes == nil {
			recipes = []*store.Recipe{}
		}
		WriteJSON(w, http.StatusOK, RecipesResponse{Recipes: recipes})
	}
}
