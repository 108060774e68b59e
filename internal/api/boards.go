package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ndnguyen/agora/internal/model"
)

// Boards fetches every board visible to the signed-in user.
func (c *Client) Boards(ctx context.Context) ([]model.Board, error) {
	var boards []model.Board
	if err := c.get(ctx, "/boards", &boards); err != nil {
		return nil, fmt.Errorf("fetching boards: %w", err)
	}
	return boards, nil
}

// FollowBoard subscribes the user to a board.
func (c *Client) FollowBoard(ctx context.Context, slug string) error {
	path := "/boards/" + url.PathEscape(slug) + "/follow"
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("following board %s: %w", slug, err)
	}
	return nil
}

// UnfollowBoard unsubscribes the user from a board.
func (c *Client) UnfollowBoard(ctx context.Context, slug string) error {
	path := "/boards/" + url.PathEscape(slug) + "/follow"
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("unfollowing board %s: %w", slug, err)
	}
	return nil
}
