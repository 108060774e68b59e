package feed

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// Item wraps a model.Article for the feed list.
type Item struct {
	Article model.Article
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Article.Title }

// Delegate implements list.ItemDelegate for feed rows.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a two-line article row: title marked when bookmarked,
// then board, author, counters and age.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	a := it.Article
	title := a.Title
	if a.Bookmarked {
		title = "★ " + title
	}

	likeMark := "♡"
	if a.Liked {
		likeMark = "♥"
	}

	meta := theme.HelpStyle.Render(fmt.Sprintf("%s · %s · %s %d · %d comments · %s",
		a.Board, a.Author, likeMark, a.Likes, a.CommentCount, relativeTime(a.CreatedAt)))

	if index == m.Index() {
		title = theme.SelectedItemStyle.Render(title)
	} else {
		title = theme.ListItemStyle.Render(title)
	}

	fmt.Fprintf(w, "%s\n  %s", title, meta)
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
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return fmt.Sprintf("%dw ago", int(d.Hours()/24/7))
	}
}
