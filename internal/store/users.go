package store

import (
	"context"
	"database/sql"
	"time"
)

func (r *SQLiteRepository) CreateUser(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users WHERE id = ?
	`, id)
	return r.scanUser(row)
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, role, created_at
		FROM users WHERE email = ?
	`, email)
	return r.scanUser(row)
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*User, error) {
	var u User
	var createdAt string

	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &u, nil
}

func (r *SQLiteRepository) UpsertProfile(ctx context.Context, p *Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, display_name, age, gender, height_cm, weight_kg,
			activity_level, goal, calorie_target, protein_target, carbs_target, fat_target,
			water_target_ml, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			display_name = excluded.display_name,
			age = excluded.age,
			gender = excluded.gender,
			height_cm = excluded.height_cm,
			weight_kg = excluded.weight_kg,
			activity_level = excluded.activity_level,
			goal = excluded.goal,
			calorie_target = excluded.calorie_target,
			protein_target = excluded.protein_target,
			carbs_target = excluded.carbs_target,
			fat_target = excluded.fat_target,
			water_target_ml = excluded.water_target_ml,
			updated_at = excluded.updated_at
	`, p.UserID, p.DisplayName, nullInt(p.Age), nullString(p.Gender), nullFloat(p.HeightCm),
		nullFloat(p.WeightKg), nullString(p.ActivityLevel), nullString(p.Goal),
		nullInt(p.CalorieTarget), nullInt(p.ProteinTarget), nullInt(p.CarbsTarget),
		nullInt(p.FatTarget), p.WaterTargetMl, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, display_name, age, gender, height_cm, weight_kg,
			activity_level, goal, calorie_target, protein_target, carbs_target, fat_target,
			water_target_ml, onboarding_completed, updated_at
		FROM profiles WHERE user_id = ?
	`, userID)

	var p Profile
	var age, calTarget, proTarget, carbTarget, fatTarget sql.NullInt64
	var gender, activity, goal sql.NullString
	var height, weight sql.NullFloat64
	var onboarded int
	var updatedAt string

	err := row.Scan(&p.UserID, &p.DisplayName, &age, &gender, &height, &weight,
		&activity, &goal, &calTarget, &proTarget, &carbTarget, &fatTarget,
		&p.WaterTargetMl, &onboarded, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Age = int(age.Int64)
	p.Gender = gender.String
	p.HeightCm = height.Float64
	p.WeightKg = weight.Float64
	p.ActivityLevel = activity.String
	p.Goal = goal.String
	p.CalorieTarget = int(calTarget.Int64)
	p.ProteinTarget = int(proTarget.Int64)
	p.CarbsTarget = int(carbTarget.Int64)
	p.FatTarget = int(fatTarget.Int64)
	p.OnboardingCompleted = onboarded == 1
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// SetOnboardingCompleted marks the profile onboarded. Kept separate from
// UpsertProfile so ordinary profile edits cannot reset the flag.
func (r *SQLiteRepository) SetOnboardingCompleted(ctx context.Context, userID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET onboarding_completed = 1, updated_at = ?
		WHERE user_id = ?
	`, time.Now().UTC().Format(time.RFC3339), userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func nullInt(i int) sql.NullInt64 {
	if i == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(i), Valid: true}
}

func nullFloat(f float64) sql.NullFloat64 {
	if f == 0 {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}
