package api

import (
	"context"
	"fmt"

	"github.com/ndnguyen/agora/internal/model"
)

// PendingReports fetches one page of the moderation queue.
func (c *Client) PendingReports(ctx context.Context, page int) ([]model.Report, error) {
	var reports []model.Report
	path := fmt.Sprintf("/reports?status=pending&page=%d", page)
	if err := c.get(ctx, path, &reports); err != nil {
		return nil, fmt.Errorf("fetching pending reports page %d: %w", page, err)
	}
	return reports, nil
}

// ResolveReport accepts or rejects a report. The transition is only
// valid from pending; resolving an already-resolved report is refused
// locally without a network call.
func (c *Client) ResolveReport(ctx context.Context, report model.Report, accept bool) error {
	if !report.Status.Resolvable() {
		return fmt.Errorf("report %d is already %s", report.ID, report.Status)
	}

	action := "reject"
	if accept {
		action = "accept"
	}
	path := fmt.Sprintf("/reports/%d/%s", report.ID, action)
	if err := c.post(ctx, path, nil, nil); err != nil {
		return fmt.Errorf("resolving report %d: %w", report.ID, err)
	}
	return nil
}
