package store

import (
	"context"
	"database/sql"
	"time"
)

func (r *SQLiteRepository) CreateMeal(ctx context.Context, m *Meal) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meals (id, user_id, name, meal_type, logged_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, m.ID, m.UserID, m.Name, m.MealType,
		m.LoggedAt.Format(time.RFC3339), m.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return err
	}

	for _, item := range m.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO food_items (id, meal_id, name, quantity, calories, protein, carbs, fat)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, item.ID, m.ID, item.Name, item.Quantity, item.Calories, item.Protein, item.Carbs, item.Fat)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *SQLiteRepository) GetMeal(ctx context.Context, id string) (*Meal, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, meal_type, logged_at, created_at
		FROM meals WHERE id = ?
	`, id)

	var m Meal
	var loggedAt, createdAt string
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.MealType, &loggedAt, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	items, err := r.listFoodItems(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m.Items = items
	return &m, nil
}

func (r *SQLiteRepository) ListMealsByDate(ctx context.Context, userID string, day time.Time) ([]*Meal, error) {
	start, end := dayBounds(day)
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, meal_type, logged_at, created_at
		FROM meals WHERE user_id = ? AND logged_at >= ? AND logged_at < ?
		ORDER BY logged_at ASC
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []*Meal
	for rows.Next() {
		var m Meal
		var loggedAt, createdAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.MealType, &loggedAt, &createdAt); err != nil {
			return nil, err
		}
		m.LoggedAt, _ = time.Parse(time.RFC3339, loggedAt)
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		meals = append(meals, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, m := range meals {
		items, err := r.listFoodItems(ctx, m.ID)
		if err != nil {
			return nil, err
		}
		m.Items = items
	}
	return meals, nil
}

func (r *SQLiteRepository) listFoodItems(ctx context.Context, mealID string) ([]FoodItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, meal_id, name, quantity, calories, protein, carbs, fat
		FROM food_items WHERE meal_id = ?
	`, mealID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []FoodItem
	for rows.Next() {
		var it FoodItem
		if err := rows.Scan(&it.ID, &it.MealID, &it.Name, &it.Quantity, &it.Calories, &it.Protein, &it.Carbs, &it.Fat); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) DeleteMeal(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM meals WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) CreateWaterLog(ctx context.Context, w *WaterLog) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO water_logs (id, user_id, amount_ml, logged_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, w.ID, w.UserID, w.AmountMl,
		w.LoggedAt.Format(time.RFC3339), w.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) SumWaterByDate(ctx context.Context, userID string, day time.Time) (int, error) {
	start, end := dayBounds(day)
	var total sql.NullInt64
	err := r.db.QueryRowContext(ctx, `
		SELECT SUM(amount_ml) FROM water_logs
		WHERE user_id = ? AND logged_at >= ? AND logged_at < ?
	`, userID, start, end).Scan(&total)
	if err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// DailyTotals aggregates one calendar day of logged meals.
type DailyTotals struct {
	Date     string  `json:"date"` // YYYY-MM-DD, UTC
	Meals    int     `json:"meals"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ListDailyTotals returns per-day nutrition sums since the given instant,
// oldest first. Days without meals are absent.
func (r *SQLiteRepository) ListDailyTotals(ctx context.Context, userID string, since time.Time) ([]DailyTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT substr(m.logged_at, 1, 10) AS day,
			COUNT(DISTINCT m.id),
			COALESCE(SUM(f.calories), 0),
			COALESCE(SUM(f.protein), 0),
			COALESCE(SUM(f.carbs), 0),
			COALESCE(SUM(f.fat), 0)
		FROM meals m
		LEFT JOIN food_items f ON f.meal_id = m.id
		WHERE m.user_id = ? AND m.logged_at >= ?
		GROUP BY day
		ORDER BY day ASC
	`, userID, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []DailyTotals
	for rows.Next() {
		var d DailyTotals
		if err := rows.Scan(&d.Date, &d.Meals, &d.Calories, &d.Protein, &d.Carbs, &d.Fat); err != nil {
			return nil, err
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
