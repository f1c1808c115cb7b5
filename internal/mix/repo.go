package mix

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"mixhub/internal/catalog"
	"mixhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q                 string   // keyword search in artists/url
	Categories        []string // any-match
	CompleteOnly      bool     // only mixes carrying the tracklist-complete marker
	IncludeDuplicates bool
	Limit             int
	Offset            int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const mixColumns = `url, date, artists, venue, categories, duplicate, duplicate_of, length, tracklist`

func (r *Repo) GetByURL(ctx context.Context, url string) (*models.Mix, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+mixColumns+`
		FROM mixes
		WHERE url = ?
	`, url)

	m, err := scanMix(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByURL: %w", err)
	}
	return m, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Mix, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Mix, 0, q.Limit)
	for rows.Next() {
		m, err := scanMix(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// AllForStats loads every stored mix with just the fields category
// aggregation needs.
func (r *Repo) AllForStats(ctx context.Context) ([]models.Mix, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT url, categories, duplicate
		FROM mixes
	`)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	defer rows.Close()

	var out []models.Mix
	for rows.Next() {
		var (
			m              models.Mix
			categoriesJSON string
		)
		if err := rows.Scan(&m.URL, &categoriesJSON, &m.Duplicate); err != nil {
			return nil, fmt.Errorf("stats scan: %w", err)
		}
		_ = json.Unmarshal([]byte(categoriesJSON), &m.Categories)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMix(row rowScanner) (*models.Mix, error) {
	var (
		m              models.Mix
		date           sql.NullString
		artistsJSON    string
		venue          sql.NullString
		categoriesJSON string
		duplicateOf    sql.NullString
		length         sql.NullString
		tracklistJSON  string
	)

	if err := row.Scan(
		&m.URL, &date, &artistsJSON, &venue, &categoriesJSON,
		&m.Duplicate, &duplicateOf, &length, &tracklistJSON,
	); err != nil {
		return nil, err
	}

	m.Date = date.String
	m.Venue = venue.String
	m.DuplicateOf = duplicateOf.String
	m.Length = length.String

	_ = json.Unmarshal([]byte(artistsJSON), &m.Artists)
	_ = json.Unmarshal([]byte(categoriesJSON), &m.Categories)
	_ = json.Unmarshal([]byte(tracklistJSON), &m.Tracklist)

	return &m, nil
}

// buildListSQL builds either COUNT(*) or the SELECT list. Category
// filter is "any-match" by LIKE searches inside the stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `
		SELECT ` + mixColumns + `
		FROM mixes
	`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM mixes`
	}

	var where []string
	var args []any

	if !q.IncludeDuplicates {
		where = append(where, "duplicate = 0")
	}

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(artists) LIKE ? OR LOWER(url) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if q.CompleteOnly {
		where = append(where, "categories LIKE ?")
		args = append(args, "%"+catalog.CompleteCategory+"%")
	}

	if len(q.Categories) > 0 {
		var categoryOr []string
		for _, c := range q.Categories {
			c = strings.TrimSpace(c)
			if c == "" {
				continue
			}
			categoryOr = append(categoryOr, "LOWER(categories) LIKE ?")
			args = append(args, `%`+strings.ToLower(c)+`%`)
		}
		if len(categoryOr) > 0 {
			where = append(where, "("+strings.Join(categoryOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY date DESC, url ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
