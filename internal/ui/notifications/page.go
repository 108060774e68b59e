package notifications

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/keys"
	"github.com/ndnguyen/agora/internal/notify"
	"github.com/ndnguyen/agora/internal/sync"
	"github.com/ndnguyen/agora/internal/theme"
)

// OpenLinkMsg is sent when the user activates a notification with a link.
type OpenLinkMsg struct {
	Link string
}

// Model is the full paginated notification list view.
type Model struct {
	list       list.Model
	store      *notify.Store
	controller *sync.Controller
	keys       *keys.KeyMap
	width      int
	height     int
}

// New creates the notification list view backed by the shared store.
func New(store *notify.Store, ctrl *sync.Controller, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Notifications"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	m := Model{
		list:       l,
		store:      store,
		controller: ctrl,
		keys:       k,
		width:      width,
		height:     height,
	}
	m.reload()
	return m
}

// reload rebuilds the list items from the store snapshot, keeping the
// cursor on the same row where possible.
func (m *Model) reload() {
	selected := int64(-1)
	if it, ok := m.list.SelectedItem().(Item); ok {
		selected = it.Notification.ID
	}

	records := m.store.Ordered()
	items := make([]list.Item, len(records))
	idx := m.list.Index()
	for i, n := range records {
		items[i] = Item{Notification: n}
		if n.ID == selected {
			idx = i
		}
	}
	m.list.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

// Update handles messages for the notification list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case sync.NotificationsChangedMsg:
		m.reload()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the notification list.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		cmds := []tea.Cmd{}
		if !it.Notification.Read {
			cmds = append(cmds, m.controller.MarkAsRead(it.Notification.ID))
		}
		if it.Notification.Link != "" {
			link := it.Notification.Link
			cmds = append(cmds, func() tea.Msg {
				return OpenLinkMsg{Link: link}
			})
		}
		m.reload()
		return m, tea.Batch(cmds...)

	case key.Matches(msg, m.keys.MarkRead):
		it, ok := m.list.SelectedItem().(Item)
		if !ok || it.Notification.Read {
			return m, nil
		}
		cmd := m.controller.MarkAsRead(it.Notification.ID)
		m.reload()
		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		return m, m.controller.Delete(it.Notification.ID)

	case key.Matches(msg, m.keys.LoadMore):
		if !m.store.HasMore() {
			return m, nil
		}
		return m, m.controller.LoadMore()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.controller.RefreshPreview()
	}

	// Navigation keys fall through to the list. When the cursor reaches
	// the last row and more pages remain, fetch the next page.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	if m.list.Index() == len(m.list.Items())-1 && m.store.HasMore() {
		return m, tea.Batch(cmd, m.controller.LoadMore())
	}
	return m, cmd
}

// View renders the notification list view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text when no notifications exist.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)
	return style.Render("No unread notifications.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
