package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/nutriai/nutriai-server/internal/ai"
	"github.com/nutriai/nutriai-server/internal/auth"
	"github.com/nutriai/nutriai-server/internal/chat"
	"github.com/nutriai/nutriai-server/internal/db"
	"github.com/nutriai/nutriai-server/internal/foodscan"
	"github.com/nutriai/nutriai-server/internal/nutrition"
	"github.com/nutriai/nutriai-server/internal/recipe"
	"github.com/nutriai/nutriai-server/internal/store"
	"github.com/nutriai/nutriai-server/internal/video"
)

type fakeExtractor struct {
	draft recipe.Draft
	err   error
	calls int
}

func (f *fakeExtractor) Extract(ctx context.Context, url string, method video.Method) (recipe.Draft, error) {
	f.calls++
	if f.err != nil {
		return recipe.Draft{}, f.err
	}
	return f.draft, nil
}

type testEnv struct {
	router    http.Handler
	repo      store.Repository
	tokens    *auth.TokenIssuer
	extractor *fakeExtractor
	stub      *ai.StubClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	repo := store.NewRepository(database.Conn())
	tokens := auth.NewTokenIssuer("test-secret")
	stub := &ai.StubClient{Err: fmt.Errorf("ai disabled in tests")}
	extractor := &fakeExtractor{}

	router := NewRouter(ServerConfig{
		Port:       0,
		Repository: repo,
		Tokens:     tokens,
		Extractor:  extractor,
		Estimator:  nutrition.NewEstimator(stub, logger),
		Analyzer:   foodscan.NewAnalyzer(stub, logger),
		Coach:      chat.NewCoach(stub, logger),
		Logger:     logger,
		StartTime:  time.Now(),
	})

	return &testEnv{router: router, repo: repo, tokens: tokens, extractor: extractor, stub: stub}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns its access token.
func (e *testEnv) register(t *testing.T, email, username string) (string, *store.User) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    email,
		Username: username,
		Password: "Hunter2hunter2",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding register response: %v", err)
	}
	return resp.AccessToken, resp.User
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"bad email", RegisterRequest{Email: "not-an-email", Username: "alice", Password: "Hunter2hunter2"}},
		{"short username", RegisterRequest{Email: "a@example.com", Username: "ab", Password: "Hunter2hunter2"}},
		{"short password", RegisterRequest{Email: "a@example.com", Username: "alice", Password: "Sh0rt"}},
		{"no uppercase", RegisterRequest{Email: "a@example.com", Username: "alice", Password: "hunter2hunter2"}},
		{"no digit", RegisterRequest{Email: "a@example.com", Username: "alice", Password: "HunterHunterHunter"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/auth/register", "", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    "alice@example.com",
		Username: "alice2",
		Password: "Hunter2hunter2",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", rec.Code)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Email:    "other@example.com",
		Username: "alice",
		Password: "Hunter2hunter2",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if resp.Error != "username already taken" {
		t.Errorf("error = %q, want username message", resp.Error)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "Alice@Example.com",
		Password: "Hunter2hunter2",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", rec.Code, rec.Body.String())
	}
	var tokens TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &tokens); err != nil {
		t.Fatalf("decoding login response: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/auth/refresh", "", RefreshRequest{RefreshToken: tokens.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh returned %d: %s", rec.Code, rec.Body.String())
	}

	// An access token must not be usable for refresh.
	rec = env.do(t, http.MethodPost, "/api/auth/refresh", "", RefreshRequest{RefreshToken: tokens.AccessToken})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for access token used as refresh, got %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/profile"},
		{http.MethodGet, "/api/meals"},
		{http.MethodPost, "/api/video-recipe/analyze"},
	}
	for _, p := range paths {
		rec := env.do(t, p.method, p.path, "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: expected 401, got %d", p.method, p.path, rec.Code)
		}
	}

	rec := env.do(t, http.MethodGet, "/api/profile", "garbage-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for garbage token, got %d", rec.Code)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register(t, "alice@example.com", "alice")

	// Registration seeds a default profile.
	rec := env.do(t, http.MethodGet, "/api/profile", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPut, "/api/profile", token, ProfileRequest{
		DisplayName:   "Alice",
		Age:           30,
		Gender:        "female",
		HeightCm:      170,
		WeightKg:      65,
		ActivityLevel: "moderate",
		Goal:          "maintain",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/profile", token, nil)
	var profile store.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if profile.UserID != user.ID || profile.Age != 30 || profile.WaterTargetMl != 2000 {
		t.Errorf("unexpected profile: %+v", profile)
	}
}

func TestMealsAndTotals(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/meals", token, MealRequest{
		Name:     "Breakfast bowl",
		MealType: "breakfast",
		Items: []MealItemRequest{
			{Name: "Oats", Quantity: "80g", Calories: 300, Protein: 10, Carbs: 54, Fat: 6},
			{Name: "Banana", Quantity: "1", Calories: 105, Protein: 1, Carbs: 27, Fat: 0},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meal returned %d: %s", rec.Code, rec.Body.String())
	}
	var meal store.Meal
	if err := json.Unmarshal(rec.Body.Bytes(), &meal); err != nil {
		t.Fatalf("decoding meal: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/api/meals", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list meals returned %d", rec.Code)
	}
	var resp MealsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding meals: %v", err)
	}
	if len(resp.Meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(resp.Meals))
	}
	if resp.Totals.Calories != 405 || resp.Totals.Protein != 11 {
		t.Errorf("unexpected totals: %+v", resp.Totals)
	}

	rec = env.do(t, http.MethodDelete, "/api/meals/"+meal.ID, token, nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete meal returned %d", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/api/meals/"+meal.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete returned %d, want 404", rec.Code)
	}
}

func TestMealValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/meals", token, MealRequest{Name: "X", MealType: "brunch"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad meal_type, got %d", rec.Code)
	}
}

func TestWaterTracking(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	for _, amount := range []int{250, 500} {
		rec := env.do(t, http.MethodPost, "/api/water", token, WaterRequest{AmountMl: amount})
		if rec.Code != http.StatusCreated {
			t.Fatalf("log water returned %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodGet, "/api/water", token, nil)
	var resp WaterResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding water response: %v", err)
	}
	if resp.TotalMl != 750 {
		t.Errorf("expected 750ml total, got %d", resp.TotalMl)
	}
	if resp.TargetMl != 2000 {
		t.Errorf("expected 2000ml target, got %d", resp.TargetMl)
	}
}

func TestGroceryFlow(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/grocery", token, GroceryItemRequest{Name: "Eggs", Quantity: "12", Category: "dairy"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create grocery item returned %d", rec.Code)
	}
	var item store.GroceryItem
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decoding item: %v", err)
	}

	rec = env.do(t, http.MethodPatch, "/api/grocery/"+item.ID, token, GroceryCheckRequest{Checked: true})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("check item returned %d", rec.Code)
	}

	rec = env.do(t, http.MethodDelete, "/api/grocery/checked", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear checked returned %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/grocery", token, nil)
	var resp GroceryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding grocery list: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty list after clearing, got %d items", len(resp.Items))
	}
}

func TestGroceryMergesDuplicateNames(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	env.do(t, http.MethodPost, "/api/grocery", token, GroceryItemRequest{Name: "Eggs", Quantity: "6"})
	rec := env.do(t, http.MethodPost, "/api/grocery", token, GroceryItemRequest{Name: "eggs", Quantity: "12"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("second add returned %d", rec.Code)
	}

	var listResp GroceryResponse
	rec = env.do(t, http.MethodGet, "/api/grocery", token, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("decoding grocery list: %v", err)
	}
	if len(listResp.Items) != 1 {
		t.Fatalf("expected merged single item, got %d", len(listResp.Items))
	}
	if listResp.Items[0].Quantity != "6 + 12" {
		t.Errorf("expected merged quantity, got %q", listResp.Items[0].Quantity)
	}
}

func TestGroceryBulkAddAndClearAll(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/grocery/bulk", token, GroceryBulkRequest{
		Items: []GroceryItemRequest{
			{Name: "Milk", Quantity: "1L"},
			{Name: "Bread", Quantity: "1"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("bulk add returned %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodDelete, "/api/grocery", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear all returned %d", rec.Code)
	}
	rec = env.do(t, http.MethodGet, "/api/grocery", token, nil)
	var resp GroceryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding grocery list: %v", err)
	}
	if len(resp.Items) != 0 {
		t.Errorf("expected empty list after clear all, got %d", len(resp.Items))
	}
}

func TestCommunityFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "alice@example.com", "alice")
	bobToken, _ := env.register(t, "bob@example.com", "bobby")

	rec := env.do(t, http.MethodPost, "/api/community/posts", aliceToken, PostRequest{Content: "Meal prep Sunday"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create post returned %d: %s", rec.Code, rec.Body.String())
	}
	var post store.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decoding post: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/community/posts/"+post.ID+"/like", bobToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("like returned %d", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/community/posts/"+post.ID+"/comments", bobToken, CommentRequest{Content: "Looks great"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("comment returned %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/community/posts/"+post.ID, bobToken, nil)
	var got store.Post
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding post: %v", err)
	}
	if got.Likes != 1 || got.Comments != 1 || !got.LikedByMe {
		t.Errorf("unexpected post counters: %+v", got)
	}
	if got.Username != "alice" {
		t.Errorf("expected author username alice, got %q", got.Username)
	}

	// Bob cannot delete Alice's post.
	rec = env.do(t, http.MethodDelete, "/api/community/posts/"+post.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user delete returned %d, want 404", rec.Code)
	}
}

func TestMealHistory(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	today := time.Now().UTC().Format(time.RFC3339)
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339)
	for _, m := range []MealRequest{
		{Name: "Dinner", MealType: "dinner", LoggedAt: yesterday,
			Items: []MealItemRequest{{Name: "Steak", Calories: 600, Protein: 50}}},
		{Name: "Lunch", MealType: "lunch", LoggedAt: today,
			Items: []MealItemRequest{{Name: "Salad", Calories: 400, Protein: 20}}},
	} {
		rec := env.do(t, http.MethodPost, "/api/meals", token, m)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create meal returned %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := env.do(t, http.MethodGet, "/api/meals/history?days=7", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history returned %d: %s", rec.Code, rec.Body.String())
	}
	var resp MealHistoryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(resp.Days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(resp.Days))
	}
	if resp.Averages.Calories != 500 {
		t.Errorf("expected 500 avg calories, got %v", resp.Averages.Calories)
	}
	if resp.StreakDays != 2 {
		t.Errorf("expected streak of 2, got %d", resp.StreakDays)
	}
	wantBest := resp.Days[0].Date
	if resp.BestProteinDay != wantBest {
		t.Errorf("expected best protein day %s, got %s", wantBest, resp.BestProteinDay)
	}

	rec = env.do(t, http.MethodGet, "/api/meals/history?days=400", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for out-of-range days, got %d", rec.Code)
	}
}

func TestOnboardingFlag(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/profile/onboarding", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("complete onboarding returned %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/profile", token, nil)
	var profile store.Profile
	if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if !profile.OnboardingCompleted {
		t.Error("expected onboarding_completed to be set")
	}
}

func TestCommunityFeeds(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, aliceUser := env.register(t, "alice@example.com", "alice")
	bobToken, _ := env.register(t, "bob@example.com", "bobby")

	env.do(t, http.MethodPost, "/api/community/posts", aliceToken, PostRequest{Content: "from alice"})
	env.do(t, http.MethodPost, "/api/community/posts", bobToken, PostRequest{Content: "from bob"})

	rec := env.do(t, http.MethodGet, "/api/community/posts?feed=mine", bobToken, nil)
	var mine PostsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &mine); err != nil {
		t.Fatalf("decoding mine feed: %v", err)
	}
	if len(mine.Posts) != 1 || mine.Posts[0].Content != "from bob" {
		t.Errorf("unexpected mine feed: %+v", mine.Posts)
	}

	// Following feed is empty until bob follows alice.
	rec = env.do(t, http.MethodGet, "/api/community/posts?feed=following", bobToken, nil)
	var following PostsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &following); err != nil {
		t.Fatalf("decoding following feed: %v", err)
	}
	if len(following.Posts) != 0 {
		t.Fatalf("expected empty following feed, got %d posts", len(following.Posts))
	}

	env.do(t, http.MethodPost, "/api/community/follow/"+aliceUser.ID, bobToken, nil)
	rec = env.do(t, http.MethodGet, "/api/community/posts?feed=following", bobToken, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &following); err != nil {
		t.Fatalf("decoding following feed: %v", err)
	}
	if len(following.Posts) != 1 || following.Posts[0].Content != "from alice" {
		t.Errorf("unexpected following feed: %+v", following.Posts)
	}

	rec = env.do(t, http.MethodGet, "/api/community/posts?feed=bogus", bobToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown feed, got %d", rec.Code)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	env := newTestEnv(t)
	token, user := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/community/follow/"+user.ID, token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for self-follow, got %d", rec.Code)
	}
}

func TestSavedRecipesFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "alice@example.com", "alice")
	bobToken, _ := env.register(t, "bob@example.com", "bobby")

	rec := env.do(t, http.MethodPost, "/api/recipes", aliceToken, RecipeRequest{Title: "Shakshuka", Servings: 2})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create recipe returned %d: %s", rec.Code, rec.Body.String())
	}
	var created store.Recipe
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding recipe: %v", err)
	}

	rec = env.do(t, http.MethodPost, "/api/saved-recipes/"+created.ID, bobToken, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("save recipe returned %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/saved-recipes", bobToken, nil)
	var saved RecipesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil {
		t.Fatalf("decoding saved recipes: %v", err)
	}
	if len(saved.Recipes) != 1 || saved.Recipes[0].Title != "Shakshuka" {
		t.Errorf("unexpected saved recipes: %+v", saved.Recipes)
	}

	rec = env.do(t, http.MethodGet, "/api/saved-recipes/"+created.ID, bobToken, nil)
	var check SavedCheckResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("decoding saved check: %v", err)
	}
	if !check.Saved {
		t.Error("expected recipe to report as saved")
	}

	rec = env.do(t, http.MethodGet, "/api/saved-recipes/"+created.ID, aliceToken, nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &check); err != nil {
		t.Fatalf("decoding saved check: %v", err)
	}
	if check.Saved {
		t.Error("expected recipe to report as not saved for alice")
	}

	rec = env.do(t, http.MethodPost, "/api/saved-recipes/missing-id", bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("saving missing recipe returned %d, want 404", rec.Code)
	}
}

func TestGetMeal(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.register(t, "alice@example.com", "alice")
	bobToken, _ := env.register(t, "bob@example.com", "bobby")

	rec := env.do(t, http.MethodPost, "/api/meals", aliceToken, MealRequest{
		Name:     "Lunch",
		MealType: "lunch",
		Items:    []MealItemRequest{{Name: "Salad", Calories: 400, Protein: 20}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create meal returned %d: %s", rec.Code, rec.Body.String())
	}
	var created store.Meal
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding meal: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/api/meals/"+created.ID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get meal returned %d: %s", rec.Code, rec.Body.String())
	}
	var got store.Meal
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding meal: %v", err)
	}
	if got.ID != created.ID || len(got.Items) != 1 || got.Items[0].Name != "Salad" {
		t.Errorf("unexpected meal: %+v", got)
	}

	// Bob cannot read Alice's meal.
	rec = env.do(t, http.MethodGet, "/api/meals/"+created.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user get returned %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/meals/missing-id", aliceToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing meal returned %d, want 404", rec.Code)
	}
}

func TestCommunityMissingPostReferences(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "alice@example.com", "alice")

	rec := env.do(t, http.MethodPost, "/api/community/posts/missing-id/like", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("liking missing post returned %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/community/posts/missing-id/comments", token, CommentRequest{Content: "hi"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("commenting on missing post returned %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/community/posts", token, PostRequest{
		Content:  "check this recipe",
		RecipeID: "missing-id",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("post with dangling recipe returned %d, want 400", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/community/follow/missing-id", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("following missing user returned %d, want 404", rec.Code)
	}
}
