package notifications

import (
	"fmt"
	"strings"

	"github.com/ndnguyen/agora/internal/notify"
	"github.com/ndnguyen/agora/internal/theme"
)

// panelLimit is the number of rows the compact preview shows.
const panelLimit = 5

// Panel is a compact unread preview rendered alongside other views.
type Panel struct {
	store *notify.Store
	width int
}

// NewPanel creates a compact preview panel backed by the shared store.
func NewPanel(store *notify.Store, width int) Panel {
	return Panel{store: store, width: width}
}

// SetWidth updates the panel width.
func (p *Panel) SetWidth(width int) {
	p.width = width
}

// View renders the compact preview: up to panelLimit newest unread
// notifications plus an overflow line.
func (p Panel) View() string {
	records := p.store.Ordered()

	var lines []string
	shown := 0
	for _, n := range records {
		if n.Read {
			continue
		}
		if shown == panelLimit {
			break
		}
		glyph := theme.KindStyle(string(n.Kind)).Render(kindGlyph(n.Kind))
		msg := theme.UnreadStyle.Render(truncate(n.Message, p.width-12))
		when := theme.HelpStyle.Render(relativeTime(n.CreatedAt))
		lines = append(lines, fmt.Sprintf("%s %s %s", glyph, msg, when))
		shown++
	}

	if len(lines) == 0 {
		lines = append(lines, theme.HelpStyle.Render("No unread notifications."))
	} else if rest := p.store.UnreadCount() - shown; rest > 0 {
		lines = append(lines, theme.HelpStyle.Render(
			fmt.Sprintf("… and %d more (n to view all)", rest)))
	}

	body := strings.Join(lines, "\n")
	return theme.DetailPanelStyle.Width(p.width).Render(body)
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
