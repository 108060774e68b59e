package api

import (
	"context"
	"fmt"

	"github.com/ndnguyen/agora/internal/model"
)

// UnreadPreview fetches the small recent unread set used by the
// notification panel.
func (c *Client) UnreadPreview(ctx context.Context) ([]model.Notification, error) {
	var notifications []model.Notification
	if err := c.get(ctx, "/notifications/unread/preview", &notifications); err != nil {
		return nil, fmt.Errorf("fetching unread preview: %w", err)
	}
	return notifications, nil
}

// UnreadPage fetches one page of the full notification listing. The
// backend's page size is fixed; a batch smaller than PageSize() means
// there are no further pages.
func (c *Client) UnreadPage(ctx context.Context, page int) ([]model.Notification, error) {
	var notifications []model.Notification
	path := fmt.Sprintf("/notifications/unread/all?page=%d", page)
	if err := c.get(ctx, path, &notifications); err != nil {
		return nil, fmt.Errorf("fetching notification page %d: %w", page, err)
	}
	return notifications, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/notifications/read/%d", id)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("marking notification %d read: %w", id, err)
	}
	return nil
}

// DeleteNotification permanently removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/notifications/delete/%d", id)
	if err := c.delete(ctx, path); err != nil {
		return fmt.Errorf("deleting notification %d: %w", id, err)
	}
	return nil
}
