package model

import "time"

// Kind identifies the category of a notification, which selects its
// icon and color treatment in the UI.
type Kind string

const (
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindForum   Kind = "forum"
	KindEdit    Kind = "edit"
)

// Notification represents one alert surfaced to the user about activity
// on the platform (a reply, a mention, a moderation decision, ...).
type Notification struct {
	// ID is the server-assigned identifier, unique and monotonically
	// increasing. It is stable across fetch and push.
	ID int64 `json:"id"`

	// Kind categorizes the notification (use Kind* constants).
	Kind Kind `json:"kind"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Link is an optional deep-link target. Empty means the
	// notification is non-interactive.
	Link string `json:"link,omitempty"`

	// Color is an optional display accent, passed through opaquely.
	Color string `json:"color,omitempty"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"isRead"`

	// CreatedAt is when the notification was generated on the server.
	CreatedAt time.Time `json:"createdAt"`
}

// Before reports whether n sorts ahead of other in the display order:
// newest first by CreatedAt, ties broken by higher ID first.
func (n Notification) Before(other Notification) bool {
	if !n.CreatedAt.Equal(other.CreatedAt) {
		return n.CreatedAt.After(other.CreatedAt)
	}
	return n.ID > other.ID
}
