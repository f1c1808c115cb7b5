package listens

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

// Add appends one listen to the user's history. History is append
// only; re-listening the same mix adds a new row.
func (r *Repo) Add(ctx context.Context, entry models.ListenEntry) error {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO listens (user_id, mix_url, at)
		VALUES (?, ?, ?)
	`, entry.UserID, entry.MixURL, entry.At)
	if err != nil {
		return fmt.Errorf("insert listen: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, userID, mixURL string, limit, offset int) ([]models.ListenEntry, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := `user_id = ?`
	args := []any{userID}
	if mixURL != "" {
		where += ` AND mix_url = ?`
		args = append(args, mixURL)
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM listens WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listens: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, mix_url, at
		FROM listens
		WHERE `+where+`
		ORDER BY at DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listens: %w", err)
	}
	defer rows.Close()

	out := make([]models.ListenEntry, 0, limit)
	for rows.Next() {
		var entry models.ListenEntry
		var at time.Time
		if err := rows.Scan(&entry.UserID, &entry.MixURL, &at); err != nil {
			return nil, 0, fmt.Errorf("scan listen: %w", err)
		}
		entry.At = at
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows listens: %w", err)
	}

	return out, total, nil
}
