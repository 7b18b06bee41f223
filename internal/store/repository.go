package store

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	UpsertProfile(ctx context.Context, profile *Profile) error
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	SetOnboardingCompleted(ctx context.Context, userID string) (bool, error)

	CreateMeal(ctx context.Context, meal *Meal) error
	GetMeal(ctx context.Context, id string) (*Meal, error)
	ListMealsByDate(ctx context.Context, userID string, day time.Time) ([]*Meal, error)
	ListDailyTotals(ctx context.Context, userID string, since time.Time) ([]DailyTotals, error)
	DeleteMeal(ctx context.Context, id, userID string) (bool, error)

	CreateWaterLog(ctx context.Context, log *WaterLog) error
	SumWaterByDate(ctx context.Context, userID string, day time.Time) (int, error)

	CreateRecipe(ctx context.Context, recipe *Recipe) error
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	ListRecipesByUser(ctx context.Context, userID string) ([]*Recipe, error)
	DeleteRecipe(ctx context.Context, id, userID string) (bool, error)

	SaveRecipe(ctx context.Context, userID, recipeID string) error
	UnsaveRecipe(ctx context.Context, userID, recipeID string) error
	IsRecipeSaved(ctx context.Context, userID, recipeID string) (bool, error)
	ListSavedRecipes(ctx context.Context, userID string) ([]*Recipe, error)

	CreateGroceryItem(ctx context.Context, item *GroceryItem) error
	ListGroceryItems(ctx context.Context, userID string) ([]*GroceryItem, error)
	FindUncheckedGroceryItemByName(ctx context.Context, userID, name string) (*GroceryItem, error)
	UpdateGroceryItem(ctx context.Context, id, userID, name, quantity, category string) (bool, error)
	UpdateGroceryItemChecked(ctx context.Context, id, userID string, checked bool) (bool, error)
	DeleteGroceryItem(ctx context.Context, id, userID string) (bool, error)
	DeleteCheckedGroceryItems(ctx context.Context, userID string) error
	DeleteAllGroceryItems(ctx context.Context, userID string) error

	CreateConversation(ctx context.Context, conv *Conversation) error
	ListConversations(ctx context.Context, userID string) ([]*Conversation, error)
	GetConversation(ctx context.Context, id, userID string) (*Conversation, error)
	RenameConversation(ctx context.Context, id, userID, title string) (bool, error)
	DeleteConversation(ctx context.Context, id, userID string) (bool, error)
	ListChatMessages(ctx context.Context, conversationID string) ([]*ChatMessage, error)
	CreateChatMessage(ctx context.Context, msg *ChatMessage) error
	TouchConversation(ctx context.Context, id, title string) error

	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id, viewerID string) (*Post, error)
	ListPosts(ctx context.Context, viewerID string, limit int) ([]*Post, error)
	ListPostsByAuthor(ctx context.Context, authorID, viewerID string, limit int) ([]*Post, error)
	ListFollowingPosts(ctx context.Context, viewerID string, limit int) ([]*Post, error)
	DeletePost(ctx context.Context, id, userID string) (bool, error)
	LikePost(ctx context.Context, postID, userID string) error
	UnlikePost(ctx context.Context, postID, userID string) error
	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID string) ([]*Comment, error)
	DeleteComment(ctx context.Context, id, userID string) (bool, error)
	FollowUser(ctx context.Context, followerID, followeeID string) error
	UnfollowUser(ctx context.Context, followerID, followeeID string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// dayBounds returns the RFC3339 start and end of the calendar day in UTC.
func dayBounds(day time.Time) (string, string) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	return start.Format(time.RFC3339), end.Format(time.RFC3339)
}
