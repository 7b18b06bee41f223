package store

import (
	"context"
	"database/sql"
	"time"
)

func (r *SQLiteRepository) CreateGroceryItem(ctx context.Context, g *GroceryItem) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO grocery_items (id, user_id, name, quantity, category, checked, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ID, g.UserID, g.Name, g.Quantity, g.Category, boolToInt(g.Checked),
		g.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) ListGroceryItems(ctx context.Context, userID string) ([]*GroceryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, quantity, category, checked, created_at
		FROM grocery_items WHERE user_id = ?
		ORDER BY checked ASC, created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*GroceryItem
	for rows.Next() {
		var g GroceryItem
		var checked int
		var createdAt string
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.Quantity, &g.Category, &checked, &createdAt); err != nil {
			return nil, err
		}
		g.Checked = checked == 1
		g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		items = append(items, &g)
	}
	return items, rows.Err()
}

func (r *SQLiteRepository) UpdateGroceryItemChecked(ctx context.Context, id, userID string, checked bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE grocery_items SET checked = ? WHERE id = ? AND user_id = ?",
		boolToInt(checked), id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) DeleteGroceryItem(ctx context.Context, id, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM grocery_items WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FindUncheckedGroceryItemByName matches case-insensitively so repeated
// adds of "Eggs" and "eggs" merge into one list entry.
func (r *SQLiteRepository) FindUncheckedGroceryItemByName(ctx context.Context, userID, name string) (*GroceryItem, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, quantity, category, checked, created_at
		FROM grocery_items
		WHERE user_id = ? AND checked = 0 AND lower(name) = lower(?)
		LIMIT 1
	`, userID, name)

	var g GroceryItem
	var checked int
	var createdAt string
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &g.Quantity, &g.Category, &checked, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g.Checked = checked == 1
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &g, nil
}

func (r *SQLiteRepository) UpdateGroceryItem(ctx context.Context, id, userID, name, quantity, category string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE grocery_items SET name = ?, quantity = ?, category = ?
		WHERE id = ? AND user_id = ?
	`, name, quantity, category, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *SQLiteRepository) DeleteCheckedGroceryItems(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM grocery_items WHERE user_id = ? AND checked = 1", userID)
	return err
}

func (r *SQLiteRepository) DeleteAllGroceryItems(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM grocery_items WHERE user_id = ?", userID)
	return err
}
