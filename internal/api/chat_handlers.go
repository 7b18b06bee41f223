package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutriai/nutriai-server/internal/ai"
	"github.com/nutriai/nutriai-server/internal/chat"
	"github.com/nutriai/nutriai-server/internal/store"
)

const defaultConversationTitle = "New Chat"

func listConversationsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		convs, err := cfg.Repository.ListConversations(r.Context(), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to list conversations", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list conversations", "INTERNAL_ERROR")
			return
		}
		if convs == nil {
			convs = []*store.Conversation{}
		}
		WriteJSON(w, http.StatusOK, ConversationsResponse{Conversations: convs})
	}
}

func createConversationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConversationRequest
		if r.ContentLength > 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
				return
			}
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			title = defaultConversationTitle
		}

		now := time.Now().UTC()
		conv := &store.Conversation{
			ID:        store.NewID(),
			UserID:    CurrentUserID(r),
			Title:     title,
			CreatedAt: now,
			UpdatedAt: now,
			Messages:  []*store.ChatMessage{},
		}
		if err := cfg.Repository.CreateConversation(r.Context(), conv); err != nil {
			cfg.Logger.Error("failed to create conversation", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to create conversation", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, conv)
	}
}

func getConversationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conv, err := cfg.Repository.GetConversation(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to load conversation", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load conversation", "INTERNAL_ERROR")
			return
		}
		if conv == nil {
			WriteError(w, http.StatusNotFound, "conversation not found", "NOT_FOUND")
			return
		}
		if conv.Messages == nil {
			conv.Messages = []*store.ChatMessage{}
		}
		WriteJSON(w, http.StatusOK, conv)
	}
}

func renameConversationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConversationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		title := strings.TrimSpace(req.Title)
		if title == "" {
			WriteError(w, http.StatusBadRequest, "title is required", "INVALID_REQUEST")
			return
		}

		renamed, err := cfg.Repository.RenameConversation(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r), title)
		if err != nil {
			cfg.Logger.Error("failed to rename conversation", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to rename conversation", "INTERNAL_ERROR")
			return
		}
		if !renamed {
			WriteError(w, http.StatusNotFound, "conversation not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func deleteConversationHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cfg.Repository.DeleteConversation(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to delete conversation", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to delete conversation", "INTERNAL_ERROR")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "conversation not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sendChatMessageHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := CurrentUserID(r)
		convID := chi.URLParam(r, "id")

		conv, err := cfg.Repository.GetConversation(r.Context(), convID, userID)
		if err != nil {
			cfg.Logger.Error("failed to load conversation", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load conversation", "INTERNAL_ERROR")
			return
		}
		if conv == nil {
			WriteError(w, http.StatusNotFound, "conversation not found", "NOT_FOUND")
			return
		}

		var req ChatMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		message := strings.TrimSpace(req.Message)
		if message == "" {
			WriteError(w, http.StatusBadRequest, "message is required", "INVALID_REQUEST")
			return
		}

		profile, err := cfg.Repository.GetProfile(r.Context(), userID)
		if err != nil {
			cfg.Logger.Error("failed to load profile for chat", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to send message", "INTERNAL_ERROR")
			return
		}

		reply, err := cfg.Coach.Reply(r.Context(), profile, conv.Messages, message)
		if err != nil {
			writeChatError(w, cfg, err)
			return
		}

		// The exchange is only persisted once the model has answered, so a
		// failed call leaves the transcript unchanged and safe to retry.
		now := time.Now().UTC()
		userMsg := &store.ChatMessage{
			ID:             store.NewID(),
			ConversationID: convID,
			Role:           store.ChatRoleUser,
			Content:        message,
			CreatedAt:      now,
		}
		assistantMsg := &store.ChatMessage{
			ID:             store.NewID(),
			ConversationID: convID,
			Role:           store.ChatRoleAssistant,
			Content:        reply,
			CreatedAt:      now,
		}
		for _, m := range []*store.ChatMessage{userMsg, assistantMsg} {
			if err := cfg.Repository.CreateChatMessage(r.Context(), m); err != nil {
				cfg.Logger.Error("failed to store chat message", "error", err)
				WriteError(w, http.StatusInternalServerError, "failed to send message", "INTERNAL_ERROR")
				return
			}
		}

		// The opening message names the conversation.
		title := ""
		if len(conv.Messages) == 0 {
			title = chat.ConversationTitle(message)
		}
		if err := cfg.Repository.TouchConversation(r.Context(), convID, title); err != nil {
			cfg.Logger.Warn("failed to touch conversation", "error", err, "conversation_id", convID)
		}

		WriteJSON(w, http.StatusOK, ChatMessageResponse{
			UserMessage:      userMsg,
			AssistantMessage: assistantMsg,
		})
	}
}

func writeChatError(w http.ResponseWriter, cfg ServerConfig, err error) {
	var aiErr *ai.Error
	switch {
	case errors.As(err, &aiErr) && aiErr.Retryable:
		WriteError(w, http.StatusTooManyRequests, "AI service is busy, try again shortly", "RATE_LIMITED")
	case errors.Is(err, chat.ErrEmptyReply):
		cfg.Logger.Warn("chat reply was empty")
		WriteError(w, http.StatusBadGateway, "assistant returned no reply", "AI_UNAVAILABLE")
	case errors.As(err, &aiErr):
		cfg.Logger.Error("chat reply failed", "error", err)
		WriteError(w, http.StatusBadGateway, "assistant is unavailable", "AI_UNAVAILABLE")
	default:
		cfg.Logger.Error("chat reply failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "failed to send message", "INTERNAL_ERROR")
	}
}
