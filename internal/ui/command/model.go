package command

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/theme"
)

// CommandMsg is emitted when the user executes a command.
type CommandMsg string

// palette lists the commands the app understands, in display order.
// Aliases (f, b, w, ...) are accepted by the executor but not offered
// as completions.
var palette = []string{
	"feed",
	"boards",
	"notifications",
	"reports",
	"compose",
	"drafts",
	"refresh",
	"logout",
	"quit",
}

// Model is the command palette: a prompt with prefix completion over
// the known commands.
type Model struct {
	input   textinput.Model
	matches []string
	width   int
	height  int
}

// New creates a new command palette model.
func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "command"
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6

	return Model{
		input:   ti,
		matches: palette,
		width:   width,
		height:  height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			cmd := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			m.matches = palette
			if cmd == "" {
				return m, nil
			}
			return m, func() tea.Msg {
				return CommandMsg(cmd)
			}

		case "tab":
			if len(m.matches) > 0 {
				m.input.SetValue(m.matches[0])
				m.input.CursorEnd()
				m.matches = matchesFor(m.matches[0])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.matches = matchesFor(m.input.Value())
	return m, cmd
}

// matchesFor returns the palette entries the typed prefix selects.
func matchesFor(typed string) []string {
	typed = strings.TrimSpace(typed)
	if typed == "" {
		return palette
	}
	var out []string
	for _, c := range palette {
		if strings.HasPrefix(c, typed) {
			out = append(out, c)
		}
	}
	return out
}

// View renders the prompt with the current completions underneath.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	parts := []string{
		titleStyle.Render("Command"),
		m.input.View(),
	}

	if len(m.matches) > 0 {
		hint := theme.HelpStyle.Render(strings.Join(m.matches, "  "))
		parts = append(parts, "", hint)
	}
	parts = append(parts, "",
		theme.HelpStyle.Render("tab complete | enter run | esc close"))

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	m.matches = palette
	return m.input.Focus()
}
