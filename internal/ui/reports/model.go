package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/keys"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// ReportsLoadedMsg carries a page of pending reports.
type ReportsLoadedMsg struct {
	Reports []model.Report
	Page    int
	Err     error
}

// ReportResolvedMsg reports the outcome of an accept/reject request.
type ReportResolvedMsg struct {
	ReportID int64
	Accepted bool
	Err      error
}

// Item wraps a model.Report for the list.
type Item struct {
	Report model.Report
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Report.Reason }

// Delegate implements list.ItemDelegate for report rows.
type Delegate struct{}

func (d Delegate) Height() int  { return 2 }
func (d Delegate) Spacing() int { return 0 }

func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a report row: status badge and reason, then target and
// reporter.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	r := it.Report
	badge := theme.ReportStatusStyle(string(r.Status)).Render(string(r.Status))

	target := fmt.Sprintf("article #%d", r.ArticleID)
	if r.CommentID != 0 {
		target = fmt.Sprintf("comment #%d on article #%d", r.CommentID, r.ArticleID)
	}
	meta := theme.HelpStyle.Render(fmt.Sprintf("%s · reported by %s · %s",
		target, r.Reporter, r.CreatedAt.Format("2006-01-02 15:04")))

	reason := r.Reason
	if index == m.Index() {
		reason = theme.SelectedItemStyle.Render(reason)
	} else {
		reason = theme.ListItemStyle.Render(reason)
	}

	fmt.Fprintf(w, "%s %s\n  %s", badge, reason, meta)
}

// Model is the moderation queue view.
type Model struct {
	list    list.Model
	client  *api.Client
	keys    *keys.KeyMap
	page    int
	hasMore bool
	loading bool
	width   int
	height  int
}

// New creates the moderation queue view.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Moderation Queue"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list: l,
		// Init fetches immediately, so the first render shows the
		// loading state instead of an empty queue.
		loading: true,
		client:  client,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the first page of the queue.
func (m Model) Init() tea.Cmd {
	return m.loadPage(0)
}

// loadPage fetches one page of pending reports.
func (m *Model) loadPage(page int) tea.Cmd {
	m.loading = true
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		reports, err := client.PendingReports(ctx, page)
		return ReportsLoadedMsg{Reports: reports, Page: page, Err: err}
	}
}

// Update handles messages for the moderation queue.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReportsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.page = msg.Page
		m.hasMore = len(msg.Reports) >= m.client.PageSize()

		items := m.list.Items()
		if msg.Page == 0 {
			items = items[:0]
		}
		for _, r := range msg.Reports {
			items = append(items, Item{Report: r})
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case ReportResolvedMsg:
		if msg.Err != nil {
			return m, nil
		}
		// A resolved report leaves the pending queue.
		items := m.list.Items()
		kept := items[:0]
		for _, raw := range items {
			it, ok := raw.(Item)
			if ok && it.Report.ID == msg.ReportID {
				continue
			}
			kept = append(kept, raw)
		}
		cmd := m.list.SetItems(kept)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the moderation queue.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Accept):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		return m, m.resolve(it.Report, true)

	case key.Matches(msg, m.keys.Reject):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		return m, m.resolve(it.Report, false)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadPage(0)

	case key.Matches(msg, m.keys.LoadMore):
		if !m.hasMore || m.loading {
			return m, nil
		}
		return m, m.loadPage(m.page + 1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// resolve submits an accept or reject decision for the report.
func (m Model) resolve(r model.Report, accept bool) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := client.ResolveReport(ctx, r, accept)
		return ReportResolvedMsg{ReportID: r.ID, Accepted: accept, Err: err}
	}
}

// View renders the moderation queue.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		if m.loading {
			return style.Render("Loading moderation queue...")
		}
		return style.Render("No pending reports.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
