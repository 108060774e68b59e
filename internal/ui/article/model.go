package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/keys"
	"github.com/ndnguyen/agora/internal/logging"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// BackMsg signals the parent to navigate back to the feed.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded article and comment thread.
type DetailLoadedMsg struct {
	Detail *model.ArticleDetail
	Err    error
}

// LikeToggledMsg carries the new like count after a like request.
type LikeToggledMsg struct {
	ArticleID int64
	Likes     int
	Err       error
}

// BookmarkToggledMsg reports a bookmark or unbookmark result.
type BookmarkToggledMsg struct {
	ArticleID  int64
	Bookmarked bool
	Err        error
}

// CommentPostedMsg carries a newly posted comment.
type CommentPostedMsg struct {
	Comment *model.Comment
	Err     error
}

// ComposeCommentMsg asks the parent to open the comment form.
type ComposeCommentMsg struct {
	ArticleID int64
}

// EditRequestMsg asks the parent to open the edit form for the current
// article. The parent enforces the ownership rule.
type EditRequestMsg struct {
	Article model.Article
}

// Model is the article detail view with its comment thread.
type Model struct {
	detail   *model.ArticleDetail
	viewport viewport.Model
	client   *api.Client
	cache    *cache.Cache
	keys     *keys.KeyMap
	width    int
	height   int
	loading  bool
}

// New creates the article detail view.
func New(client *api.Client, c *cache.Cache, k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		client:   client,
		cache:    c,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Load returns a command that fetches the article and its comments.
func (m *Model) Load(id int64) tea.Cmd {
	m.loading = true
	m.detail = nil
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		detail, err := client.Article(ctx, id)
		return DetailLoadedMsg{Detail: detail, Err: err}
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.detail = msg.Detail
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case LikeToggledMsg:
		if msg.Err == nil && m.detail != nil && m.detail.ID == msg.ArticleID {
			m.detail.Likes = msg.Likes
			m.detail.Liked = !m.detail.Liked
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case BookmarkToggledMsg:
		if msg.Err == nil && m.detail != nil && m.detail.ID == msg.ArticleID {
			m.detail.Bookmarked = msg.Bookmarked
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case CommentPostedMsg:
		if msg.Err == nil && msg.Comment != nil && m.detail != nil &&
			m.detail.ID == msg.Comment.ArticleID {
			m.detail.Comments = append(m.detail.Comments, *msg.Comment)
			m.detail.CommentCount++
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoBottom()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKeys processes key input for the detail view.
func (m Model) handleKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Like):
		if m.detail == nil {
			return m, nil
		}
		return m, m.toggleLike()

	case key.Matches(msg, m.keys.Bookmark):
		if m.detail == nil {
			return m, nil
		}
		return m, m.toggleBookmark()

	case key.Matches(msg, m.keys.Comment):
		if m.detail == nil {
			return m, nil
		}
		id := m.detail.ID
		return m, func() tea.Msg {
			return ComposeCommentMsg{ArticleID: id}
		}

	case key.Matches(msg, m.keys.Edit):
		if m.detail == nil {
			return m, nil
		}
		a := m.detail.Article
		return m, func() tea.Msg {
			return EditRequestMsg{Article: a}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toggleLike sends a like request for the current article.
func (m Model) toggleLike() tea.Cmd {
	client := m.client
	id := m.detail.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		likes, err := client.LikeArticle(ctx, id)
		return LikeToggledMsg{ArticleID: id, Likes: likes, Err: err}
	}
}

// toggleBookmark flips the bookmark state remotely and mirrors the
// result into the local cache so bookmarks stay browsable offline.
func (m Model) toggleBookmark() tea.Cmd {
	client := m.client
	store := m.cache
	a := m.detail.Article
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var err error
		if a.Bookmarked {
			err = client.UnbookmarkArticle(ctx, a.ID)
		} else {
			err = client.BookmarkArticle(ctx, a.ID)
		}
		if err != nil {
			return BookmarkToggledMsg{ArticleID: a.ID, Bookmarked: a.Bookmarked, Err: err}
		}

		if store != nil {
			if a.Bookmarked {
				if err := store.DeleteBookmark(ctx, a.ID); err != nil {
					logging.Warn("delete cached bookmark", "article", a.ID, "error", err)
				}
			} else {
				saved := a
				saved.Bookmarked = true
				if err := store.SaveBookmark(ctx, saved); err != nil {
					logging.Warn("save cached bookmark", "article", a.ID, "error", err)
				}
			}
		}
		return BookmarkToggledMsg{ArticleID: a.ID, Bookmarked: !a.Bookmarked}
	}
}

// PostComment returns a command that submits a comment on the article.
func (m Model) PostComment(articleID int64, body string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		comment, err := client.AddComment(ctx, articleID, api.CommentRequest{Body: body})
		return CommentPostedMsg{Comment: comment, Err: err}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		return m.centered("Loading article...")
	}
	if m.detail == nil {
		return m.centered("No article selected")
	}
	return m.viewport.View()
}

func (m Model) centered(text string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(text)
}

// renderContent builds the full article content for the viewport.
func (m Model) renderContent() string {
	if m.detail == nil {
		return ""
	}

	d := m.detail
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	title := d.Title
	if d.Bookmarked {
		title = "★ " + title
	}
	sections = append(sections, titleStyle.Render(title))

	likeMark := "♡"
	if d.Liked {
		likeMark = "♥"
	}

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	sections = append(sections, metaStyle.Render(fmt.Sprintf(
		"%s · %s · %s · %s %d",
		d.Board, d.Author, d.CreatedAt.Format("2006-01-02 15:04"),
		likeMark, d.Likes,
	)))

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	bodyStyle := lipgloss.NewStyle().Width(min(m.width-4, 100))
	sections = append(sections, bodyStyle.Render(d.Body))

	sections = append(sections, "", separator, "")
	commentHeader := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	sections = append(sections, commentHeader.Render(
		fmt.Sprintf("Comments (%d)", len(d.Comments))))

	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	for _, c := range d.Comments {
		sections = append(sections, "")
		sections = append(sections, fmt.Sprintf("%s %s",
			authorStyle.Render(c.Author),
			metaStyle.Render(c.CreatedAt.Format("2006-01-02 15:04"))))
		sections = append(sections, bodyStyle.Render(c.Body))
	}
	if len(d.Comments) == 0 {
		sections = append(sections, metaStyle.Render("No comments yet."))
	}

	return strings.Join(sections, "\n")
}

// SetSize updates the viewport dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	if m.detail != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
