package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"todo-api/internal/models"
	"todo-api/internal/store"
	"todo-api/pkg/logger"
)

const columns = `id, text, checked, created_at, updated_at`

// Items is the Postgres-backed item store.
type Items struct {
	db    *sql.DB
	table string
}

var _ store.Store = (*Items)(nil)

// NewItems returns a store over db using the given table.
func NewItems(db *sql.DB, table string) *Items {
	return &Items{db: db, table: pq.QuoteIdentifier(table)}
}

// Put inserts a todo or overwrites every column of the existing row.
func (r *Items) Put(ctx context.Context, item models.Item) error {
	_, err := r.db.ExecContext(ctx, putQuery(r.table),
		item.ID, item.Text, item.Checked, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		logger.Error(ctx, "Repository Put failed", "error", err, "id", item.ID)
		return classify(fmt.Errorf("put %s: %w", item.ID, err))
	}
	return nil
}

// ScanAll returns all todos; no ordering is applied.
func (r *Items) ScanAll(ctx context.Context) ([]models.Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM `+r.table)
	if err != nil {
		logger.Error(ctx, "Repository ScanAll failed", "error", err)
		return nil, classify(fmt.Errorf("scan all: %w", err))
	}
	defer rows.Close()

	items := []models.Item{}
	for rows.Next() {
		var it models.Item
		if err := rows.Scan(&it.ID, &it.Text, &it.Checked, &it.CreatedAt, &it.UpdatedAt); err != nil {
			logger.Error(ctx, "Repository scan item failed", "error", err)
			return nil, classify(fmt.Errorf("scan row: %w", err))
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(fmt.Errorf("scan all: %w", err))
	}
	return items, nil
}

// UpdateFields sets text, checked and updated_at on one row and returns it.
func (r *Items) UpdateFields(ctx context.Context, id string, u store.Update) (models.Item, error) {
	q, args := updateQuery(r.table, id, u)
	var it models.Item
	err := r.db.QueryRowContext(ctx, q, args...).
		Scan(&it.ID, &it.Text, &it.Checked, &it.CreatedAt, &it.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		if u.IfUpdatedAt != nil {
			return models.Item{}, r.missOrConflict(ctx, id)
		}
		return models.Item{}, store.ErrNotFound
	}
	if err != nil {
		logger.Error(ctx, "Repository UpdateFields failed", "error", err, "id", id)
		return models.Item{}, classify(fmt.Errorf("update %s: %w", id, err))
	}
	return it, nil
}

// missOrConflict tells a failed precondition apart from a missing row.
func (r *Items) missOrConflict(ctx context.Context, id string) error {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM `+r.table+` WHERE id = $1)`, id).Scan(&exists)
	switch {
	case err != nil:
		return classify(fmt.Errorf("update %s: %w", id, err))
	case exists:
		return store.ErrConditionFailed
	default:
		return store.ErrNotFound
	}
}

func putQuery(table string) string {
	return `INSERT INTO ` + table + ` (` + columns + `) VALUES ($1, $2, $3, $4, $5)
	 ON CONFLICT (id) DO UPDATE SET text = EXCLUDED.text, checked = EXCLUDED.checked,
	 created_at = EXCLUDED.created_at, updated_at = EXCLUDED.updated_at`
}

func updateQuery(table, id string, u store.Update) (string, []any) {
	q := `UPDATE ` + table + ` SET text = $1, checked = $2, updated_at = GREATEST($3, created_at) WHERE id = $4`
	args := []any{u.Text, u.Checked, u.UpdatedAt, id}
	if u.IfUpdatedAt != nil {
		q += ` AND updated_at = $5`
		args = append(args, *u.IfUpdatedAt)
	}
	return q + ` RETURNING ` + columns, args
}
