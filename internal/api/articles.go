package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ndnguyen/agora/internal/model"
)

// ArticleRequest is the payload for creating or editing an article.
type ArticleRequest struct {
	Board string `json:"board"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CommentRequest is the payload for posting a comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// Articles fetches one page of the article listing, optionally filtered
// to a single board.
func (c *Client) Articles(ctx context.Context, board string, page int) ([]model.Article, error) {
	path := fmt.Sprintf("/articles?page=%d", page)
	if board != "" {
		path += "&board=" + url.QueryEscape(board)
	}

	var articles []model.Article
	if err := c.get(ctx, path, &articles); err != nil {
		return nil, fmt.Errorf("fetching articles page %d: %w", page, err)
	}
	return articles, nil
}

// Article fetches a single article with its comment thread.
func (c *Client) Article(ctx context.Context, id int64) (*model.ArticleDetail, error) {
	var detail model.ArticleDetail
	if err := c.get(ctx, fmt.Sprintf("/articles/%d", id), &detail); err != nil {
		return nil, fmt.Errorf("fetching article %d: %w", id, err)
	}
	return &detail, nil
}

// CreateArticle posts a new article and returns it as stored.
func (c *Client) CreateArticle(ctx context.Context, req ArticleRequest) (*model.Article, error) {
	var article model.Article
	if err := c.post(ctx, "/articles", req, &article); err != nil {
		return nil, fmt.Errorf("creating article: %w", err)
	}
	return &article, nil
}

// UpdateArticle edits an existing article.
func (c *Client) UpdateArticle(ctx context.Context, id int64, req ArticleRequest) (*model.Article, error) {
	var article model.Article
	if err := c.put(ctx, fmt.Sprintf("/articles/%d", id), req, &article); err != nil {
		return nil, fmt.Errorf("updating article %d: %w", id, err)
	}
	return &article, nil
}

// AddComment posts a reply to an article.
func (c *Client) AddComment(ctx context.Context, articleID int64, req CommentRequest) (*model.Comment, error) {
	var comment model.Comment
	path := fmt.Sprintf("/articles/%d/comments", articleID)
	if err := c.post(ctx, path, req, &comment); err != nil {
		return nil, fmt.Errorf("commenting on article %d: %w", articleID, err)
	}
	return &comment, nil
}

// LikeArticle toggles the signed-in user's like on an article and
// returns the updated like count.
func (c *Client) LikeArticle(ctx context.Context, id int64) (int, error) {
	var result struct {
		Likes int `json:"likes"`
	}
	if err := c.post(ctx, fmt.Sprintf("/articles/%d/like", id), nil, &result); err != nil {
		return 0, fmt.Errorf("liking article %d: %w", id, err)
	}
	return result.Likes, nil
}

// BookmarkArticle adds an article to the user's bookmarks.
func (c *Client) BookmarkArticle(ctx context.Context, id int64) error {
	if err := c.post(ctx, fmt.Sprintf("/articles/%d/bookmark", id), nil, nil); err != nil {
		return fmt.Errorf("bookmarking article %d: %w", id, err)
	}
	return nil
}

// UnbookmarkArticle removes an article from the user's bookmarks.
func (c *Client) UnbookmarkArticle(ctx context.Context, id int64) error {
	if err := c.delete(ctx, fmt.Sprintf("/articles/%d/bookmark", id)); err != nil {
		return fmt.Errorf("removing bookmark on article %d: %w", id, err)
	}
	return nil
}
