package store

import (
	"context"
	"database/sql"
	"time"
)

const recipeColumns = `id, user_id, title, description, ingredients, instructions,
	prep_time_minutes, cook_time_minutes, servings, calories, protein, carbs, fat,
	source_url, source_platform, image_url, created_at`

func (r *SQLiteRepository) CreateRecipe(ctx context.Context, rec *Recipe) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO recipes (`+recipeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.UserID, rec.Title, rec.Description, rec.Ingredients, rec.Instructions,
		rec.PrepTimeMinutes, rec.CookTimeMinutes, rec.Servings,
		rec.Calories, rec.Protein, rec.Carbs, rec.Fat,
		rec.SourceURL, rec.SourcePlatform, rec.ImageURL,
		rec.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetRecipe(ctx context.Context, id string) (*Recipe, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE id = ?`, id)
	return r.scanRecipe(row)
}

func (r *SQLiteRepository) scanRecipe(row *sql.Row) (*Recipe, error) {
	var rec Recipe
	var createdAt string

	err := row.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description,
		&rec.Ingredients, &rec.Instructions,
		&rec.PrepTimeMinutes, &rec.CookTimeMinutes, &rec.Servings,
		&rec.Calories, &rec.Protein, &rec.Carbs, &rec.Fat,
		&rec.SourceURL, &rec.SourcePlatform, &rec.ImageURL, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

func (r *SQLiteRepository) scanRecipes(rows *sql.Rows) ([]*Recipe, error) {
	var recipes []*Recipe
	for rows.Next() {
		var rec Recipe
		var createdAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Description,
			&rec.Ingredients, &rec.Instructions,
			&rec.PrepTimeMinutes, &rec.CookTimeMinutes, &rec.Servings,
			&rec.Calories, &rec.Protein, &rec.Carbs, &rec.Fat,
			&rec.SourceURL, &rec.SourcePlatform, &rec.ImageURL, &createdAt); err != nil {
			return nil, err
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		recipes = append(recipes, &rec)
	}
	return recipes, rows.Err()
}

func (r *SQLiteRepository) ListRecipesByUser(ctx context.Context, userID string) ([]*Recipe, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recipeColumns+` FROM recipes WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRecipes(rows)
}

func (r *SQLiteRepository) DeleteRecipe(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM recipes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) SaveRecipe(ctx context.Context, userID, recipeID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO saved_recipes (user_id, recipe_id) VALUES (?, ?)
		ON CONFLICT(user_id, recipe_id) DO NOTHING
	`, userID, recipeID)
	return err
}

func (r *SQLiteRepository) IsRecipeSaved(ctx context.Context, userID, recipeID string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM saved_recipes WHERE user_id = ? AND recipe_id = ?)
	`, userID, recipeID).Scan(&exists)
	return exists == 1, err
}

func (r *SQLiteRepository) UnsaveRecipe(ctx context.Context, userID, recipeID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM saved_recipes WHERE user_id = ? AND recipe_id = ?", userID, recipeID)
	return err
}

func (r *SQLiteRepository) ListSavedRecipes(ctx context.Context, userID string) ([]*Recipe, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.user_id, r.title, r.description, r.ingredients, r.instructions,
			r.prep_time_minutes, r.cook_time_minutes, r.servings, r.calories, r.protein, r.carbs, r.fat,
			r.source_url, r.source_platform, r.image_url, r.created_at
		FROM recipes r
		JOIN saved_recipes s ON s.recipe_id = r.id
		WHERE s.user_id = ?
		ORDER BY s.saved_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanRecipes(rows)
}
