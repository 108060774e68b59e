package boards

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
	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/keys"
	"github.com/ndnguyen/agora/internal/logging"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// BoardsLoadedMsg carries the board list. Cached reports whether the
// data came from the local cache because the backend was unreachable.
type BoardsLoadedMsg struct {
	Boards []model.Board
	Cached bool
	Err    error
}

// FollowToggledMsg reports a follow/unfollow result.
type FollowToggledMsg struct {
	Slug     string
	Followed bool
	Err      error
}

// SelectedBoardMsg asks the parent to open a board's feed.
type SelectedBoardMsg struct {
	Slug string
}

// Item wraps a model.Board for the list.
type Item struct {
	Board model.Board
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Board.Name }

// Delegate implements list.ItemDelegate for board rows.
type Delegate struct{}

func (d Delegate) Height() int  { return 2 }
func (d Delegate) Spacing() int { return 0 }

func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a board row: name with follow marker, then description
// and article count.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}

	b := it.Board
	name := b.Name
	if b.Followed {
		name = "✓ " + name
	}

	meta := theme.HelpStyle.Render(fmt.Sprintf("%s · %d articles",
		b.Description, b.ArticleCount))

	if index == m.Index() {
		name = theme.SelectedItemStyle.Render(name)
	} else {
		name = theme.ListItemStyle.Render(name)
	}

	fmt.Fprintf(w, "%s\n  %s", name, meta)
}

// Model is the board directory view.
type Model struct {
	list    list.Model
	client  *api.Client
	cache   *cache.Cache
	keys    *keys.KeyMap
	cached  bool
	loading bool
	width   int
	height  int
}

// New creates the board directory view.
func New(client *api.Client, c *cache.Cache, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height-2)
	l.Title = "Boards"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list: l,
		// Init fetches immediately, so the first render shows the
		// loading state instead of an empty directory.
		loading: true,
		client:  client,
		cache:   c,
		keys:    k,
		width:   width,
		height:  height,
	}
}

// Init returns a command that loads the board list.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// load fetches boards from the backend, mirroring them into the local
// cache on success and falling back to the cache when offline.
func (m *Model) load() tea.Cmd {
	m.loading = true
	client := m.client
	store := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		boards, err := client.Boards(ctx)
		if err == nil {
			if store != nil {
				if cerr := store.UpsertBoards(ctx, boards); cerr != nil {
					logging.Warn("mirror boards to cache", "error", cerr)
				}
			}
			return BoardsLoadedMsg{Boards: boards}
		}

		if store != nil {
			cached, cerr := store.Boards(ctx)
			if cerr == nil && len(cached) > 0 {
				return BoardsLoadedMsg{Boards: cached, Cached: true}
			}
		}
		return BoardsLoadedMsg{Err: err}
	}
}

// Update handles messages for the board view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BoardsLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.cached = msg.Cached
		items := make([]list.Item, len(msg.Boards))
		for i, b := range msg.Boards {
			items[i] = Item{Board: b}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case FollowToggledMsg:
		if msg.Err != nil {
			return m, nil
		}
		items := m.list.Items()
		for i, raw := range items {
			it, ok := raw.(Item)
			if !ok || it.Board.Slug != msg.Slug {
				continue
			}
			it.Board.Followed = msg.Followed
			items[i] = it
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

// handleKeys processes key input for the board view.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		slug := it.Board.Slug
		return m, func() tea.Msg {
			return SelectedBoardMsg{Slug: slug}
		}

	case key.Matches(msg, m.keys.Follow):
		it, ok := m.list.SelectedItem().(Item)
		if !ok {
			return m, nil
		}
		return m, m.toggleFollow(it.Board)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// toggleFollow flips the follow state remotely and mirrors it into the
// cache.
func (m Model) toggleFollow(b model.Board) tea.Cmd {
	client := m.client
	store := m.cache
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if b.Followed {
			err = client.UnfollowBoard(ctx, b.Slug)
		} else {
			err = client.FollowBoard(ctx, b.Slug)
		}
		if err != nil {
			return FollowToggledMsg{Slug: b.Slug, Followed: b.Followed, Err: err}
		}

		if store != nil {
			if cerr := store.SetBoardFollowed(ctx, b.Slug, !b.Followed); cerr != nil {
				logging.Warn("mirror board follow to cache", "board", b.Slug, "error", cerr)
			}
		}
		return FollowToggledMsg{Slug: b.Slug, Followed: !b.Followed}
	}
}

// View renders the board view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		style := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		if m.loading {
			return style.Render("Loading boards...")
		}
		return style.Render("No boards available.")
	}

	view := m.list.View()
	if m.cached {
		notice := theme.HelpStyle.Render("showing cached boards (offline)")
		return lipgloss.JoinVertical(lipgloss.Left, notice, view)
	}
	return view
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
