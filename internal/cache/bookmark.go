package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ndnguyen/agora/internal/model"
)

// SaveBookmark stores an article body locally for offline reading.
func (c *Cache) SaveBookmark(ctx context.Context, a model.Article) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bookmarks (
			article_id, board, title, body, author,
			likes, comment_count, created_at, bookmarked_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Board, a.Title, a.Body, a.Author,
		a.Likes, a.CommentCount, a.CreatedAt.UTC(), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving bookmark %d: %w", a.ID, err)
	}
	return nil
}

// DeleteBookmark removes a cached bookmark by article id.
func (c *Cache) DeleteBookmark(ctx context.Context, articleID int64) error {
	_, err := c.db.ExecContext(ctx,
		"DELETE FROM bookmarks WHERE article_id = ?", articleID,
	)
	if err != nil {
		return fmt.Errorf("deleting bookmark %d: %w", articleID, err)
	}
	return nil
}

// Bookmarks returns the cached bookmarks, most recently saved first.
func (c *Cache) Bookmarks(ctx context.Context) ([]model.Article, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT * FROM bookmarks ORDER BY bookmarked_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying bookmarks: %w", err)
	}
	defer rows.Close()

	var articles []model.Article
	for rows.Next() {
		a, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}

	return articles, rows.Err()
}

// Bookmark returns a single cached bookmark, or nil when absent.
func (c *Cache) Bookmark(ctx context.Context, articleID int64) (*model.Article, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT * FROM bookmarks WHERE article_id = ?", articleID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying bookmark %d: %w", articleID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	a, err := scanBookmark(rows)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// scanBookmark scans a bookmark row into a model.Article.
func scanBookmark(rows *sqlx.Rows) (model.Article, error) {
	var (
		a            model.Article
		createdAt    time.Time
		bookmarkedAt time.Time
	)

	err := rows.Scan(
		&a.ID, &a.Board, &a.Title, &a.Body, &a.Author,
		&a.Likes, &a.CommentCount, &createdAt, &bookmarkedAt,
	)
	if err != nil {
		return model.Article{}, fmt.Errorf("scanning bookmark row: %w", err)
	}

	a.CreatedAt = createdAt
	a.Bookmarked = true

	return a, nil
}
