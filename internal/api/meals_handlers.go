package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nutriai/nutriai-server/internal/store"
)

func createMealHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req MealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.Name == "" {
			WriteError(w, http.StatusBadRequest, "meal name is required", "INVALID_REQUEST")
			return
		}
		switch req.MealType {
		case store.MealTypeBreakfast, store.MealTypeLunch, store.MealTypeDinner, store.MealTypeSnack:
		default:
			WriteError(w, http.StatusBadRequest, "meal_type must be breakfast, lunch, dinner or snack", "INVALID_REQUEST")
			return
		}

		loggedAt := time.Now().UTC()
		if req.LoggedAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.LoggedAt)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "logged_at must be RFC3339", "INVALID_REQUEST")
				return
			}
			loggedAt = parsed.UTC()
		}

		meal := &store.Meal{
			ID:        store.NewID(),
			UserID:    CurrentUserID(r),
			Name:      req.Name,
			MealType:  req.MealType,
			LoggedAt:  loggedAt,
			CreatedAt: time.Now().UTC(),
		}
		for _, item := range req.Items {
			meal.Items = append(meal.Items, store.FoodItem{
				ID:       store.NewID(),
				MealID:   meal.ID,
				Name:     item.Name,
				Quantity: item.Quantity,
				Calories: item.Calories,
				Protein:  item.Protein,
				Carbs:    item.Carbs,
				Fat:      item.Fat,
			})
		}

		if err := cfg.Repository.CreateMeal(r.Context(), meal); err != nil {
			cfg.Logger.Error("failed to create meal", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to create meal", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, meal)
	}
}

func listMealsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := parseDateParam(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "INVALID_REQUEST")
			return
		}

		meals, err := cfg.Repository.ListMealsByDate(r.Context(), CurrentUserID(r), day)
		if err != nil {
			cfg.Logger.Error("failed to list meals", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to list meals", "INTERNAL_ERROR")
			return
		}

		resp := MealsResponse{Meals: meals}
		if resp.Meals == nil {
			resp.Meals = []*store.Meal{}
		}
		for _, meal := range meals {
			for _, item := range meal.Items {
				resp.Totals.Calories += item.Calories
				resp.Totals.Protein += item.Protein
				resp.Totals.Carbs += item.Carbs
				resp.Totals.Fat += item.Fat
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getMealHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meal, err := cfg.Repository.GetMeal(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			cfg.Logger.Error("failed to load meal", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to load meal", "INTERNAL_ERROR")
			return
		}
		// Another user's meal looks the same as a missing one.
		if meal == nil || meal.UserID != CurrentUserID(r) {
			WriteError(w, http.StatusNotFound, "meal not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, meal)
	}
}

func deleteMealHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := cfg.Repository.DeleteMeal(r.Context(), chi.URLParam(r, "id"), CurrentUserID(r))
		if err != nil {
			cfg.Logger.Error("failed to delete meal", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to delete meal", "INTERNAL_ERROR")
			return
		}
		if !deleted {
			WriteError(w, http.StatusNotFound, "meal not found", "NOT_FOUND")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func mealHistoryHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := 7
		if raw := r.URL.Query().Get("days"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 90 {
				WriteError(w, http.StatusBadRequest, "days must be 1-90", "INVALID_REQUEST")
				return
			}
			days = parsed
		}

		now := time.Now().UTC()
		since := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, -(days - 1))

		totals, err := cfg.Repository.ListDailyTotals(r.Context(), CurrentUserID(r), since)
		if err != nil {
			cfg.Logger.Error("failed to aggregate meal history", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to aggregate meal history", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, buildMealHistory(totals, now))
	}
}

func buildMealHistory(totals []store.DailyTotals, now time.Time) MealHistoryResponse {
	resp := MealHistoryResponse{Days: totals, CalorieTrend: "flat"}
	if resp.Days == nil {
		resp.Days = []store.DailyTotals{}
	}
	if len(totals) == 0 {
		return resp
	}

	var bestProtein float64
	for _, d := range totals {
		resp.Averages.Calories += d.Calories
		resp.Averages.Protein += d.Protein
		resp.Averages.Carbs += d.Carbs
		resp.Averages.Fat += d.Fat
		if d.Protein > bestProtein {
			bestProtein = d.Protein
			resp.BestProteinDay = d.Date
		}
	}
	n := float64(len(totals))
	resp.Averages.Calories /= n
	resp.Averages.Protein /= n
	resp.Averages.Carbs /= n
	resp.Averages.Fat /= n

	resp.StreakDays = streakDays(totals, now)

	if len(totals) >= 2 {
		half := len(totals) / 2
		earlier := avgCalories(totals[:half])
		recent := avgCalories(totals[half:])
		switch {
		case recent > earlier*1.05:
			resp.CalorieTrend = "up"
		case recent < earlier*0.95:
			resp.CalorieTrend = "down"
		}
	}
	return resp
}

// streakDays counts consecutive logged days ending today or yesterday, so
// an unfinished current day does not break an active streak.
func streakDays(totals []store.DailyTotals, now time.Time) int {
	logged := make(map[string]bool, len(totals))
	for _, d := range totals {
		logged[d.Date] = true
	}

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !logged[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for logged[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func avgCalories(totals []store.DailyTotals) float64 {
	if len(totals) == 0 {
		return 0
	}
	var sum float64
	for _, d := range totals {
		sum += d.Calories
	}
	return sum / float64(len(totals))
}

func logWaterHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req WaterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "INVALID_REQUEST")
			return
		}
		if req.AmountMl <= 0 {
			WriteError(w, http.StatusBadRequest, "amount_ml must be positive", "INVALID_REQUEST")
			return
		}

		loggedAt := time.Now().UTC()
		if req.LoggedAt != "" {
			parsed, err := time.Parse(time.RFC3339, req.LoggedAt)
			if err != nil {
				WriteError(w, http.StatusBadRequest, "logged_at must be RFC3339", "INVALID_REQUEST")
				return
			}
			loggedAt = parsed.UTC()
		}

		log := &store.WaterLog{
			ID:        store.NewID(),
			UserID:    CurrentUserID(r),
			AmountMl:  req.AmountMl,
			LoggedAt:  loggedAt,
			CreatedAt: time.Now().UTC(),
		}
		if err := cfg.Repository.CreateWaterLog(r.Context(), log); err != nil {
			cfg.Logger.Error("failed to log water", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to log water", "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusCreated, log)
	}
}

func getWaterHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := parseDateParam(r)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "INVALID_REQUEST")
			return
		}

		userID := CurrentUserID(r)
		total, err := cfg.Repository.SumWaterByDate(r.Context(), userID, day)
		if err != nil {
			cfg.Logger.Error("failed to sum water", "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to sum water", "INTERNAL_ERROR")
			return
		}

		target := 2000
		if profile, err := cfg.Repository.GetProfile(r.Context(), userID); err == nil && profile != nil {
			target = profile.WaterTargetMl
		}
		WriteJSON(w, http.StatusOK, WaterResponse{TotalMl: total, TargetMl: target})
	}
}

// parseDateParam reads the optional ?date=YYYY-MM-DD query parameter,
// defaulting to today in UTC.
func parseDateParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
