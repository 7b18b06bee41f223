package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutriai/nutriai-server/internal/store"
)

const defaultPostLimit = 50

func createPostHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.Content == "" {
			WriteError(w, http.StatusBadRequest, "content is required", "INVALID_REQUEST")
			return
		}

		post := &store.Post{
			ID:        store.NewID(),
			UserID:    CurrentUserID(r),
			Content:   req.Content,
			ImageURL:  req.ImageURL,
			RecipeID:  req.RecipeID,
			CreatedAt: time.Now().UTC(),
		}
		if err := cfg.Repository.CreatePost(r.Context(), post); err != nil {
			if store.IsForeignKeyViolation(err) {
				WriteError(w, http.StatusBadRequest, "attached recipe does not exist", "INVALID_REQUEST")
				return
			}
			cfg.Logger.Error("failed to create post", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to create post", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, post)
	}
}

func getPostHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := cfg.Repository.GetPost(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to load post", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load post", "INTERNAL_ERROR")
			return
		}
		if post == nil {
			WriteError(w, http.StatusNotFound, "post not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, post)
	}
}

func listPostsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultPostLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 200 {
				WriteError(w, http.StatusBadRequest, "limit must be 1-200", "INVALID_REQUEST")
				return
			}
			limit = parsed
		}

		viewerID := CurrentUserID(r)
		var posts []*store.Post
		var err error
		switch feed := r.URL.Query().Get("feed"); feed {
		case "", "all":
			posts, err = cfg.Repository.ListPosts(r.Context(), viewerID, limit)
		case "mine":
			posts, err = cfg.Repository.ListPostsByAuthor(r.Context(), viewerID, viewerID, limit)
		case "following":
			posts, err = cfg.Repository.ListFollowingPosts(r.Context(), viewerID, limit)
		default:
			WriteError(w, http.StatusBadRequest, "feed must be all, mine or following", "INVALID_REQUEST")
			return
		}
		if err != nil {
			cfg.Logger.Error("failed to list posts", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list posts", "INTERNAL_ERROR")
			return
		}
		if posts == nil {
			posts = []*store.Post{}
		}
		WriteJSON(w, http.StatusOK, PostsResponse{Posts: posts})
	}
}

func deletePostHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cfg.Repository.DeletePost(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to delete post", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to delete post", "INTERNAL_ERROR")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "post not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func likePostHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Repository.LikePost(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r)); err != nil {
			if store.IsForeignKeyViolation(err) {
				WriteError(w, http.StatusNotFound, "post not found", "NOT_FOUND")
				return
			}
			cfg.Logger.Error("failed to like post", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to like post", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unlikePostHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Repository.UnlikePost(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r)); err != nil {
			cfg.Logger.Error("failed to unlike post", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to unlike post", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func createCommentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.Content == "" {
			WriteError(w, http.StatusBadRequest, "content is required", "INVALID_REQUEST")
			return
		}

		comment := &store.Comment{
			ID:        store.NewID(),
			PostID:    chi.URLParam(r, "id"),
			UserID:    CurrentUserID(r),
			Content:   req.Content,
			CreatedAt: time.Now().UTC(),
		}
		if err := cfg.Repository.CreateComment(r.Context(), comment); err != nil {
			if store.IsForeignKeyViolation(err) {
				WriteError(w, http.StatusNotFound, "post not found", "NOT_FOUND")
				return
			}
			cfg.Logger.Error("failed to create comment", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to create comment", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, comment)
	}
}

func listCommentsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comments, err := cfg.Repository.ListComments(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			cfg.Logger.Error("failed to list comments", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list comments", "INTERNAL_ERROR")
			return
		}
		if comments == nil {
			comments = []*store.Comment{}
		}
		WriteJSON(w, http.StatusOK, CommentsResponse{Comments: comments})
	}
}

func deleteCommentHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cfg.Repository.DeleteComment(r.Context(), chi.URLParam(r, "commentID"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to delete comment", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to delete comment", "INTERNAL_ERROR")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "comment not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func followHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		followeeID := chi.URLParam(r, "id")
		userID := CurrentUserID(r)
		if followeeID == userID {
			WriteError(w, http.StatusBadRequest, "cannot follow yourself", "INVALID_REQUEST")
			return
		}
		if err := cfg.Repository.FollowUser(r.Context(), userID, followeeID); err != nil {
			if store.IsForeignKeyViolation(err) {
				WriteError(w, http.StatusNotFound, "user not found", "NOT_FOUND")
				return
			}
			cfg.Logger.Error("failed to follow user", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to follow user", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func unfollowHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := cfg.Repository.UnfollowUser(r.Context(), CurrentUserID(r), chi.URLParam(r, "id")); err != nil {
			cfg.Logger.Error("failed to unfollow user", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to unfollow user", "INTERNAL_ERROR")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
