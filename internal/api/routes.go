package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutriai/nutriai-server/internal/config"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler(cfg))

		r.Post("/auth/register", registerHandler(cfg))
		r.Post("/auth/login", loginHandler(cfg))
		r.Post("/auth/refresh", refreshHandler(cfg))

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Tokens, cfg.Logger))

			r.Get("/auth/me", meHandler(cfg))
			r.Post("/auth/logout", logoutHandler(cfg))

			r.Get("/profile", getProfileHandler(cfg))
			r.Put("/profile", updateProfileHandler(cfg))
			r.Post("/profile/onboarding", completeOnboardingHandler(cfg))

			r.Get("/meals", listMealsHandler(cfg))
			r.Post("/meals", createMealHandler(cfg))
			r.Get("/meals/history", mealHistoryHandler(cfg))
			r.Get("/meals/{id}", getMealHandler(cfg))
			r.Delete("/meals/{id}", deleteMealHandler(cfg))

			r.Get("/water", getWaterHandler(cfg))
			r.Post("/water", logWaterHandler(cfg))

			r.Get("/recipes", listRecipesHandler(cfg))
			r.Post("/recipes", createRecipeHandler(cfg))
			r.Get("/recipes/{id}", getRecipeHandler(cfg))
			r.Delete("/recipes/{id}", deleteRecipeHandler(cfg))

			r.Get("/saved-recipes", listSavedRecipesHandler(cfg))
			r.Get("/saved-recipes/{id}", checkSavedRecipeHandler(cfg))
			r.Post("/saved-recipes/{id}", saveRecipeHandler(cfg))
			r.Delete("/saved-recipes/{id}", unsaveRecipeHandler(cfg))

			r.Get("/grocery", listGroceryHandler(cfg))
			r.Post("/grocery", createGroceryHandler(cfg))
			r.Post("/grocery/bulk", bulkCreateGroceryHandler(cfg))
			r.Put("/grocery/{id}", updateGroceryHandler(cfg))
			r.Patch("/grocery/{id}", checkGroceryHandler(cfg))
			r.Delete("/grocery/{id}", deleteGroceryHandler(cfg))
			r.Delete("/grocery/checked", clearCheckedGroceryHandler(cfg))
			r.Delete("/grocery", clearAllGroceryHandler(cfg))

			r.Get("/community/posts", listPostsHandler(cfg))
			r.Post("/community/posts", createPostHandler(cfg))
			r.Get("/community/posts/{id}", getPostHandler(cfg))
			r.Delete("/community/posts/{id}", deletePostHandler(cfg))
			r.Post("/community/posts/{id}/like", likePostHandler(cfg))
			r.Delete("/community/posts/{id}/like", unlikePostHandler(cfg))
			r.Get("/community/posts/{id}/comments", listCommentsHandler(cfg))
			r.Post("/community/posts/{id}/comments", createCommentHandler(cfg))
			r.Delete("/community/comments/{commentID}", deleteCommentHandler(cfg))
			r.Post("/community/follow/{id}", followHandler(cfg))
			r.Delete("/community/follow/{id}", unfollowHandler(cfg))

			r.Get("/chat/conversations", listConversationsHandler(cfg))
			r.Post("/chat/conversations", createConversationHandler(cfg))
			r.Get("/chat/conversations/{id}", getConversationHandler(cfg))
			r.Put("/chat/conversations/{id}", renameConversationHandler(cfg))
			r.Delete("/chat/conversations/{id}", deleteConversationHandler(cfg))
			r.Post("/chat/conversations/{id}/messages", sendChatMessageHandler(cfg))

			r.Post("/nutrition-ai/estimate", nutritionEstimateHandler(cfg))
			r.Post("/food-analysis/analyze", foodAnalysisHandler(cfg))
			r.Post("/video-recipe/analyze", videoRecipeHandler(cfg))
		})
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: config.Version,
			UptimeS: uptime,
		})
	}
}
