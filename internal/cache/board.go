package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ndnguyen/agora/internal/model"
)

// UpsertBoards mirrors the board listing (and its follow flags) into
// the local cache.
func (c *Cache) UpsertBoards(ctx context.Context, boards []model.Board) error {
	if len(boards) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO boards (
			slug, name, description, followed, article_count, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing board upsert: %w", err)
	}
	defer stmt.Close()

	for _, b := range boards {
		_, err = stmt.ExecContext(ctx,
			b.Slug, b.Name, b.Description,
			boolToInt(b.Followed), b.ArticleCount, time.Now().UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting board %s: %w", b.Slug, err)
		}
	}

	return tx.Commit()
}

// SetBoardFollowed updates the local follow flag for one board.
func (c *Cache) SetBoardFollowed(ctx context.Context, slug string, followed bool) error {
	_, err := c.db.ExecContext(ctx,
		"UPDATE boards SET followed = ?, updated_at = ? WHERE slug = ?",
		boolToInt(followed), time.Now().UTC(), slug,
	)
	if err != nil {
		return fmt.Errorf("updating board %s: %w", slug, err)
	}
	return nil
}

// Boards returns the cached board listing ordered by name.
func (c *Cache) Boards(ctx context.Context) ([]model.Board, error) {
	rows, err := c.db.QueryxContext(ctx, "SELECT * FROM boards ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying boards: %w", err)
	}
	defer rows.Close()

	var boards []model.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}

	return boards, rows.Err()
}

// FollowedBoards returns only the boards the user follows.
func (c *Cache) FollowedBoards(ctx context.Context) ([]model.Board, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT * FROM boards WHERE followed = 1 ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("querying followed boards: %w", err)
	}
	defer rows.Close()

	var boards []model.Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}

	return boards, rows.Err()
}

// scanBoard scans a board row from a sqlx.Rows result set.
func scanBoard(rows *sqlx.Rows) (model.Board, error) {
	var (
		b         model.Board
		followed  int
		updatedAt time.Time
	)

	err := rows.Scan(
		&b.Slug, &b.Name, &b.Description,
		&followed, &b.ArticleCount, &updatedAt,
	)
	if err != nil {
		return model.Board{}, fmt.Errorf("scanning board row: %w", err)
	}

	b.Followed = followed != 0

	return b, nil
}
