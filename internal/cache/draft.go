package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Draft is an article composed locally and not yet posted.
type Draft struct {
	ID        string    `json:"id"`
	Board     string    `json:"board"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveDraft inserts or updates a draft. A draft without an ID gets a
// new UUID.
func (c *Cache) SaveDraft(ctx context.Context, d Draft) (Draft, error) {
	now := time.Now().UTC()
	if d.ID == "" {
		d.ID = uuid.New().String()
		d.CreatedAt = now
	}
	d.UpdatedAt = now

	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO drafts (id, board, title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Board, d.Title, d.Body, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return Draft{}, fmt.Errorf("saving draft %s: %w", d.ID, err)
	}

	return d, nil
}

// DeleteDraft removes a draft by id (after posting, or on discard).
func (c *Cache) DeleteDraft(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, "DELETE FROM drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting draft %s: %w", id, err)
	}
	return nil
}

// Drafts returns all drafts, most recently edited first.
func (c *Cache) Drafts(ctx context.Context) ([]Draft, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT * FROM drafts ORDER BY updated_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying drafts: %w", err)
	}
	defer rows.Close()

	var drafts []Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}

	return drafts, rows.Err()
}

// scanDraft scans a draft row from a sqlx.Rows result set.
func scanDraft(rows *sqlx.Rows) (Draft, error) {
	var d Draft
	err := rows.Scan(
		&d.ID, &d.Board, &d.Title, &d.Body, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return Draft{}, fmt.Errorf("scanning draft row: %w", err)
	}
	return d, nil
}
