package help

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/keys"
	"github.com/ndnguyen/agora/internal/theme"
)

// sectionTitles labels the keymap's help groups, in the same order as
// KeyMap.FullHelp.
var sectionTitles = []string{
	"Navigation",
	"Views",
	"Notifications",
	"Articles & boards",
	"Moderation & misc",
}

// Model is the help overlay: the global keymap rendered as titled
// sections.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the shortcut sections.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorBlue)

	m.help.Width = m.width - 4

	parts := []string{titleStyle.Render("Keyboard Shortcuts")}
	for i, group := range m.keys.FullHelp() {
		title := "Other"
		if i < len(sectionTitles) {
			title = sectionTitles[i]
		}
		parts = append(parts,
			sectionStyle.Render(title),
			m.renderSection(group),
			"")
	}

	parts = append(parts,
		sectionStyle.Render("Essentials"),
		"  "+m.help.ShortHelpView(m.keys.ShortHelp()))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// renderSection draws one group of bindings, one per line, with the
// keys column aligned.
func (m Model) renderSection(group []key.Binding) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	widest := 0
	for _, b := range group {
		if w := lipgloss.Width(b.Help().Key); w > widest {
			widest = w
		}
	}

	lines := make([]string, 0, len(group))
	for _, b := range group {
		h := b.Help()
		pad := widest - lipgloss.Width(h.Key)
		lines = append(lines, "  "+keyStyle.Render(h.Key)+
			lipgloss.NewStyle().Width(pad+2).Render("")+
			theme.HelpStyle.Render(h.Desc))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
