package notifications

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// Item wraps a model.Notification so it can be used in a bubbles/list.
type Item struct {
	Notification model.Notification
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Notification.Message }

// Title returns the notification message for the list.
func (i Item) Title() string { return i.Notification.Message }

// Description returns a short summary line for the list.
func (i Item) Description() string {
	return fmt.Sprintf("%s | %s",
		i.Notification.Kind, relativeTime(i.Notification.CreatedAt))
}

// kindGlyph returns the one-character marker for a notification kind.
func kindGlyph(kind model.Kind) string {
	switch kind {
	case model.KindWarning:
		return "!"
	case model.KindSuccess:
		return "✓"
	case model.KindError:
		return "✗"
	case model.KindForum:
		return "◆"
	case model.KindEdit:
		return "✎"
	default:
		return "●"
	}
}

// Delegate implements list.ItemDelegate for notification rows.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single notification line: kind glyph, message,
// relative time, with unread rows emphasized and read rows dimmed.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	n := it.Notification
	glyph := theme.KindStyle(string(n.Kind)).Render(kindGlyph(n.Kind))

	msg := n.Message
	if n.Read {
		msg = theme.ReadStyle.Render(msg)
	} else {
		msg = theme.UnreadStyle.Render(msg)
	}

	linkMark := ""
	if n.Link != "" {
		linkMark = theme.HelpStyle.Render(" ↗")
	}

	timeStr := theme.HelpStyle.Render(relativeTime(n.CreatedAt))

	line := fmt.Sprintf("%s %s%s  %s", glyph, msg, linkMark, timeStr)

	if index == m.Index() {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
