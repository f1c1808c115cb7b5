package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mixhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Upsert inserts or updates a user's favorite entry for a mix.
func (r *Repo) Upsert(ctx context.Context, item models.FavoriteItem) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO favorites (user_id, mix_url, status, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, mix_url) DO UPDATE SET
			status = excluded.status,
			updated_at = CURRENT_TIMESTAMP
	`, item.UserID, item.MixURL, item.Status)
	if err != nil {
		return fmt.Errorf("upsert favorite: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, userID, mixURL string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = ? AND mix_url = ?
	`, userID, mixURL)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) List(ctx context.Context, userID string, status string, limit, offset int) ([]models.FavoriteItem, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := `user_id = ?`
	args := []any{userID}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, mix_url, status, updated_at
		FROM favorites
		WHERE `+where+`
		ORDER BY updated_at DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]models.FavoriteItem, 0, limit)
	for rows.Next() {
		var it models.FavoriteItem
		var updated time.Time
		if err := rows.Scan(&it.UserID, &it.MixURL, &it.Status, &updated); err != nil {
			return nil, 0, fmt.Errorf("scan favorite row: %w", err)
		}
		it.UpdatedAt = updated
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}

	return out, total, nil
}

func (r *Repo) Get(ctx context.Context, userID, mixURL string) (*models.FavoriteItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT user_id, mix_url, status, updated_at
		FROM favorites
		WHERE user_id = ? AND mix_url = ?
	`, userID, mixURL)

	var it models.FavoriteItem
	var updated time.Time
	if err := row.Scan(&it.UserID, &it.MixURL, &it.Status, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	it.UpdatedAt = updated
	return &it, nil
}
