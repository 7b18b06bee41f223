package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutriai/nutriai-server/internal/store"
)

func createGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GroceryItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, "item name is required", "INVALID_REQUEST")
			return
		}

		item, err := addGroceryItem(r, cfg, req)
		if err != nil {
			cfg.Logger.Error("failed to add grocery item", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to add grocery item", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, item)
	}
}

// addGroceryItem merges into an existing unchecked item of the same name
// instead of duplicating it on the list.
func addGroceryItem(r *http.Request, cfg ServerConfig, req GroceryItemRequest) (*store.GroceryItem, error) {
	userID := CurrentUserID(r)

	existing, err := cfg.Repository.FindUncheckedGroceryItemByName(r.Context(), userID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		quantity := existing.Quantity
		if req.Quantity != "" {
			if quantity != "" {
				quantity += " + " + req.Quantity
			} else {
				quantity = req.Quantity
			}
		}
		category := existing.Category
		if category == "" {
			category = req.Category
		}
		if _, err := cfg.Repository.UpdateGroceryItem(r.Context(), existing.ID, userID, existing.Name, quantity, category); err != nil {
			return nil, err
		}
		existing.Quantity = quantity
		existing.Category = category
		return existing, nil
	}

	item := &store.GroceryItem{
		ID:        store.NewID(),
		UserID:    userID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		Category:  req.Category,
		CreatedAt: time.Now().UTC(),
	}
	if err := cfg.Repository.CreateGroceryItem(r.Context(), item); err != nil {
		return nil, err
	}
	return item, nil
}

func bulkCreateGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GroceryBulkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if len(req.Items) == 0 {
			WriteError(w, http.StatusBadRequest, "items are required", "INVALID_REQUEST")
			return
		}
		for _, item := range req.Items {
			if item.Name == "" {
				WriteError(w, http.StatusBadRequest, "every item needs a name", "INVALID_REQUEST")
				return
			}
		}

		var items []*store.GroceryItem
		for _, itemReq := range req.Items {
			item, err := addGroceryItem(r, cfg, itemReq)
			if err != nil {
				cfg.Logger.Error("failed to add grocery item", "error", err)
				WriteError(w, http.StatusInternalServerError, "failed to add grocery items", "INTERNAL_ERROR")
				return
			}
			items = append(items, item)
		}
		WriteJSON(w, http.StatusCreated, GroceryResponse{Items: items})
	}
}

func updateGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GroceryItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, "item name is required", "INVALID_REQUEST")
			return
		}

		updated, err := cfg.Repository.UpdateGroceryItem(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r), req.Name, req.Quantity, req.Category)
		if err != nil {
			cfg.Logger.Error("failed to update grocery item", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to update grocery item", "INTERNAL_ERROR")
			return
		}
		if !updated {
			WriteError(w, http.StatusNotFound, "grocery item not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := cfg.Repository.ListGroceryItems(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to list grocery items", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list grocery items", "INTERNAL_ERROR")
			return
		}
		if items == nil {
			items = []*store.GroceryItem{}
		}
		WriteJSON(w, http.StatusOK, GroceryResponse{Items: items})
	}
}

func checkGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GroceryCheckRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}

		updated, err := cfg.Repository.UpdateGroceryItemChecked(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r), req.Checked)
		if err != nil {
			cfg.Logger.Error("failed to update grocery item", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to update grocery item", "INTERNAL_ERROR")
			return
		}
		if !updated {
			WriteError(w, http.StatusNotFound, "grocery item not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cfg.Repository.DeleteGroceryItem(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to delete grocery item", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to delete grocery item", "INTERNAL_ERROR")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "grocery item not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func clearCheckedGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Repository.DeleteCheckedGroceryItems(r.Context(), CurrentUserID(r)); err != nil {
			cfg.Logger.Error("failed to clear checked items", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to clear checked items", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func clearAllGroceryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Repository.DeleteAllGroceryItems(r.Context(), CurrentUserID(r)); err != nil {
			cfg.Logger.Error("failed to clear grocery list", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to clear grocery list", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
