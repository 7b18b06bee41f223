package api

import (
	"github.com/nutriai/nutriai-server/internal/foodscan"
	"github.com/nutriai/nutriai-server/internal/nutrition"
	"github.com/nutriai/nutriai-server/internal/recipe"
	"github.com/nutriai/nutriai-server/internal/store"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         *store.User `json:"user"`
}

type ProfileRequest struct {
	DisplayName   string  `json:"display_name"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
	CalorieTarget int     `json:"calorie_target"`
	ProteinTarget int     `json:"protein_target"`
	CarbsTarget   int     `json:"carbs_target"`
	FatTarget     int     `json:"fat_target"`
	WaterTargetMl int     `json:"water_target_ml"`
}

type MealRequest struct {
	Name     string            `json:"name"`
	MealType string            `json:"meal_type"`
	LoggedAt string            `json:"logged_at,omitempty"`
	Items    []MealItemRequest `json:"items"`
}

type MealItemRequest struct {
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type MealsResponse struct {
	Meals  []*store.Meal `json:"meals"`
	Totals MealTotals    `json:"totals"`
}

type MealTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type MealHistoryResponse struct {
	Days           []store.DailyTotals `json:"days"`
	Averages       MealTotals          `json:"averages"`
	StreakDays     int                 `json:"streak_days"`
	BestProteinDay string              `json:"best_protein_day,omitempty"`
	CalorieTrend   string              `json:"calorie_trend"` // up, down or flat
}

type WaterRequest struct {
	AmountMl int    `json:"amount_ml"`
	LoggedAt string `json:"logged_at,omitempty"`
}

type WaterResponse struct {
	TotalMl  int `json:"total_ml"`
	TargetMl int `json:"target_ml"`
}

type RecipeRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Ingredients     string  `json:"ingredients"`
	Instructions    string  `json:"instructions"`
	PrepTimeMinutes int     `json:"prep_time_minutes"`
	CookTimeMinutes int     `json:"cook_time_minutes"`
	Servings        int     `json:"servings"`
	Calories        float64 `json:"calories"`
	Protein         float64 `json:"protein"`
	Carbs           float64 `json:"carbs"`
	Fat             float64 `json:"fat"`
	SourceURL       string  `json:"source_url"`
	ImageURL        string  `json:"image_url"`
}

type SavedCheckResponse struct {
	Saved bool `json:"saved"`
}

type RecipesResponse struct {
	Recipes []*store.Recipe `json:"recipes"`
}

type GroceryItemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

type GroceryBulkRequest struct {
	Items []GroceryItemRequest `json:"items"`
}

type GroceryCheckRequest struct {
	Checked bool `json:"checked"`
}

type GroceryResponse struct {
	Items []*store.GroceryItem `json:"items"`
}

type PostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	RecipeID string `json:"recipe_id"`
}

type PostsResponse struct {
	Posts []*store.Post `json:"posts"`
}

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentsResponse struct {
	Comments []*store.Comment `json:"comments"`
}

type ConversationRequest struct {
	Title string `json:"title"`
}

type ConversationsResponse struct {
	Conversations []*store.Conversation `json:"conversations"`
}

type ChatMessageRequest struct {
	Message string `json:"message"`
}

type ChatMessageResponse struct {
	UserMessage      *store.ChatMessage `json:"user_message"`
	AssistantMessage *store.ChatMessage `json:"assistant_message"`
}

type NutritionEstimateResponse struct {
	Success   bool              `json:"success"`
	Nutrition nutrition.Targets `json:"nutrition"`
	FromAI    bool              `json:"from_ai"`
}

type FoodAnalysisRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type FoodAnalysisResponse struct {
	Success  bool               `json:"success"`
	Analysis *foodscan.Analysis `json:"analysis"`
}

type VideoRecipeRequest struct {
	URL    string `json:"url"`
	Method string `json:"method,omitempty"`
}

type VideoRecipeResponse struct {
	Success bool         `json:"success"`
	Recipe  recipe.Draft `json:"recipe"`
}
