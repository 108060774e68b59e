package model

import "time"

// ReportStatus is the moderation state of a report. A report starts
// pending and is resolved exactly once, to accepted or rejected.
type ReportStatus string

const (
	ReportPending  ReportStatus = "pending"
	ReportAccepted ReportStatus = "accepted"
	ReportRejected ReportStatus = "rejected"
)

// Resolvable reports whether the status permits an accept/reject
// transition. Only pending reports may be resolved.
func (s ReportStatus) Resolvable() bool {
	return s == ReportPending
}

// Report is a user-filed complaint about an article or comment,
// reviewed through the moderation queue.
type Report struct {
	// ID is the server-assigned report identifier.
	ID int64 `json:"id"`

	// ArticleID is the reported article.
	ArticleID int64 `json:"articleId"`

	// CommentID is the reported comment, or 0 when the report targets
	// the article itself.
	CommentID int64 `json:"commentId,omitempty"`

	// Reporter is the display name of the filing user.
	Reporter string `json:"reporter"`

	// Reason is the reporter's free-text justification.
	Reason string `json:"reason"`

	// Status is the current moderation state.
	Status ReportStatus `json:"status"`

	// CreatedAt is when the report was filed.
	CreatedAt time.Time `json:"createdAt"`
}
