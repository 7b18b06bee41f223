// Package store persists NutriAI domain records in SQLite.
package store

import (
	"time"

	"github.com/jaevor/go-nanoid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"

	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	UserID              string    `json:"user_id"`
	DisplayName         string    `json:"display_name"`
	Age                 int       `json:"age,omitempty"`
	Gender              string    `json:"gender,omitempty"`
	HeightCm            float64   `json:"height_cm,omitempty"`
	WeightKg            float64   `json:"weight_kg,omitempty"`
	ActivityLevel       string    `json:"activity_level,omitempty"`
	Goal                string    `json:"goal,omitempty"`
	CalorieTarget       int       `json:"calorie_target,omitempty"`
	ProteinTarget       int       `json:"protein_target,omitempty"`
	CarbsTarget         int       `json:"carbs_target,omitempty"`
	FatTarget           int       `json:"fat_target,omitempty"`
	WaterTargetMl       int       `json:"water_target_ml"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type Meal struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	Name      string     `json:"name"`
	MealType  string     `json:"meal_type"`
	LoggedAt  time.Time  `json:"logged_at"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []FoodItem `json:"items,omitempty"`
}

type FoodItem struct {
	ID       string  `json:"id"`
	MealID   string  `json:"meal_id"`
	Name     string  `json:"name"`
	Quantity string  `json:"quantity"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type WaterLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	AmountMl  int       `json:"amount_ml"`
	LoggedAt  time.Time `json:"logged_at"`
	CreatedAt time.Time `json:"created_at"`
}

type Recipe struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Ingredients     string    `json:"ingredients"`  // JSON array
	Instructions    string    `json:"instructions"` // JSON array
	PrepTimeMinutes int       `json:"prep_time_minutes"`
	CookTimeMinutes int       `json:"cook_time_minutes"`
	Servings        int       `json:"servings"`
	Calories        float64   `json:"calories"`
	Protein         float64   `json:"protein"`
	Carbs           float64   `json:"carbs"`
	Fat             float64   `json:"fat"`
	SourceURL       string    `json:"source_url,omitempty"`
	SourcePlatform  string    `json:"source_platform,omitempty"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type GroceryItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	Category  string    `json:"category"`
	Checked   bool      `json:"checked"`
	CreatedAt time.Time `json:"created_at"`
}

type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"image_url,omitempty"`
	RecipeID  string    `json:"recipe_id,omitempty"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	LikedByMe bool      `json:"liked_by_me"`
	CreatedAt time.Time `json:"created_at"`
}

type Conversation struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Title     string         `json:"title"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Messages  []*ChatMessage `json:"messages,omitempty"`
}

type ChatMessage struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

var newID func() string

func init() {
	gen, err := nanoid.Standard(21)
	if err != nil {
		panic(err)
	}
	newID = gen
}

// NewID returns a 21-character URL-safe unique identifier.
func NewID() string {
	return newID()
}
