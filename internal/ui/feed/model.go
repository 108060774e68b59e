package feed

import (
	"context"
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

// ArticlesLoadedMsg is sent when a page of articles has been fetched.
type ArticlesLoadedMsg struct {
	Articles []model.Article
	Page     int
	Err      error
}

// SelectedArticleMsg is sent when the user opens an article.
type SelectedArticleMsg struct {
	ArticleID int64
}

// Model is the article feed view, scoped to a board or to all boards.
type Model struct {
	list    list.Model
	client  *api.Client
	keys    *keys.KeyMap
	board   string
	page    int
	hasMore bool
	loading bool
	width   int
	height  int
}

// New creates the feed view. An empty board shows the combined feed.
func New(client *api.Client, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Feed"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list: l,
		// Init fetches immediately, so the view starts in the
		// loading state rather than flashing an empty feed.
		loading: true,
		client:  client,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the first page.
func (m Model) Init() tea.Cmd {
	return m.loadPage(0)
}

// SetBoard scopes the feed to a single board and reloads from the
// first page.
func (m *Model) SetBoard(slug string) tea.Cmd {
	m.board = slug
	m.page = 0
	if slug == "" {
		m.list.Title = "Feed"
	} else {
		m.list.Title = "Feed: " + slug
	}
	return m.loadPage(0)
}

// Board returns the current board scope, empty for the combined feed.
func (m Model) Board() string { return m.board }

// Update handles messages for the feed view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ArticlesLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.page = msg.Page
		m.hasMore = len(msg.Articles) >= m.client.PageSize()

		items := m.list.Items()
		if msg.Page == 0 {
			items = items[:0]
		}
		for _, a := range msg.Articles {
			items = append(items, Item{Article: a})
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the feed.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		id := it.Article.ID
		return m, func() tea.Msg {
			return SelectedArticleMsg{ArticleID: id}
		}

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
	if m.list.Index() == len(m.list.Items())-1 && m.hasMore && !m.loading {
		return m, tea.Batch(cmd, m.loadPage(m.page+1))
	}
	return m, cmd
}

// loadPage returns a command that fetches one page of the feed.
func (m *Model) loadPage(page int) tea.Cmd {
	m.loading = true
	client := m.client
	board := m.board
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		articles, err := client.Articles(ctx, board, page)
		return ArticlesLoadedMsg{Articles: articles, Page: page, Err: err}
	}
}

// View renders the feed view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		if m.loading {
			return style.Render("Loading feed...")
		}
		return style.Render("No articles yet.\n\nPress w to write the first one.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
