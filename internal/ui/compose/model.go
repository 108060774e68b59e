package compose

import (
	"context"
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/logging"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/theme"
)

// ArticlePostedMsg is dispatched when a new article was accepted by the
// backend.
type ArticlePostedMsg struct {
	Article *model.Article
	Err     error
}

// ArticleEditedMsg is dispatched when an edit to an existing article was
// accepted by the backend.
type ArticleEditedMsg struct {
	Article *model.Article
	Err     error
}

// CommentSubmitMsg carries a completed comment back to the parent, which
// owns the posting request.
type CommentSubmitMsg struct {
	ArticleID int64
	Body      string
}

// CancelMsg is dispatched when the user abandons the form. When the
// form held article content, it was saved as a draft first.
type CancelMsg struct {
	DraftSaved bool
}

// mode selects which form the compose view shows.
type mode int

const (
	modeArticle mode = iota
	modeEdit
	modeComment
)

// bindings holds form field values on the heap so huh's Value()
// pointers stay valid across Bubble Tea model copies.
type bindings struct {
	board string
	title string
	body  string
}

// Model is the compose view for new articles and comments.
type Model struct {
	form      *huh.Form
	fb        *bindings
	client    *api.Client
	cache     *cache.Cache
	mode      mode
	draftID   string
	editID    int64
	articleID int64
	boards    []model.Board
	width     int
	height    int
}

// New creates the compose view.
func New(client *api.Client, c *cache.Cache, width, height int) Model {
	return Model{
		fb:     &bindings{},
		client: client,
		cache:  c,
		width:  width,
		height: height,
	}
}

// SetBoards sets the board choices for the article form selector.
func (m *Model) SetBoards(boards []model.Board) {
	m.boards = boards
}

// StartArticle initializes the form for a new article. A non-empty
// board preselects the target board.
func (m *Model) StartArticle(board string) tea.Cmd {
	m.mode = modeArticle
	m.draftID = ""
	m.fb.board = board
	m.fb.title = ""
	m.fb.body = ""
	m.form = m.buildArticleForm()
	return m.form.Init()
}

// StartDraft initializes the article form from a saved draft.
func (m *Model) StartDraft(d cache.Draft) tea.Cmd {
	m.mode = modeArticle
	m.draftID = d.ID
	m.fb.board = d.Board
	m.fb.title = d.Title
	m.fb.body = d.Body
	m.form = m.buildArticleForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing article's content. The
// board is fixed; only title and body are editable.
func (m *Model) StartEdit(a model.Article) tea.Cmd {
	m.mode = modeEdit
	m.draftID = ""
	m.editID = a.ID
	m.fb.board = a.Board
	m.fb.title = a.Title
	m.fb.body = a.Body
	m.form = m.buildEditForm()
	return m.form.Init()
}

// StartComment initializes the form for a comment on the given article.
func (m *Model) StartComment(articleID int64) tea.Cmd {
	m.mode = modeComment
	m.articleID = articleID
	m.fb.body = ""
	m.form = m.buildCommentForm()
	return m.form.Init()
}

// Update handles messages for the compose view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, m.handleCancel()
	}

	return m, cmd
}

// handleSubmit posts the article or hands the comment to the parent.
func (m Model) handleSubmit() tea.Cmd {
	if m.mode == modeComment {
		articleID := m.articleID
		body := m.fb.body
		return func() tea.Msg {
			return CommentSubmitMsg{ArticleID: articleID, Body: body}
		}
	}

	client := m.client
	store := m.cache
	draftID := m.draftID
	req := api.ArticleRequest{
		Board: m.fb.board,
		Title: m.fb.title,
		Body:  m.fb.body,
	}

	if m.mode == modeEdit {
		id := m.editID
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			article, err := client.UpdateArticle(ctx, id, req)
			return ArticleEditedMsg{Article: article, Err: err}
		}
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		article, err := client.CreateArticle(ctx, req)
		if err != nil {
			return ArticlePostedMsg{Err: err}
		}
		if draftID != "" && store != nil {
			if derr := store.DeleteDraft(ctx, draftID); derr != nil {
				logging.Warn("delete posted draft", "draft", draftID, "error", derr)
			}
		}
		return ArticlePostedMsg{Article: article}
	}
}

// handleCancel saves article content as a draft before dismissing.
// Comments and edits are never drafted; an abandoned edit simply leaves
// the published article as it was.
func (m Model) handleCancel() tea.Cmd {
	if m.mode != modeArticle || m.cache == nil ||
		(strings.TrimSpace(m.fb.title) == "" && strings.TrimSpace(m.fb.body) == "") {
		return func() tea.Msg { return CancelMsg{} }
	}

	store := m.cache
	d := cache.Draft{
		ID:    m.draftID,
		Board: m.fb.board,
		Title: m.fb.title,
		Body:  m.fb.body,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := store.SaveDraft(ctx, d); err != nil {
			logging.Warn("save draft", "error", err)
			return CancelMsg{}
		}
		return CancelMsg{DraftSaved: true}
	}
}

// View renders the compose view.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Article"
	switch m.mode {
	case modeEdit:
		titleText = "Edit Article"
	case modeComment:
		titleText = "New Comment"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildArticleForm() *huh.Form {
	boardOpts := make([]huh.Option[string], 0, len(m.boards))
	for _, b := range m.boards {
		boardOpts = append(boardOpts, huh.NewOption(b.Name, b.Slug))
	}
	if len(boardOpts) == 0 && m.fb.board != "" {
		boardOpts = append(boardOpts, huh.NewOption(m.fb.board, m.fb.board))
	}

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Board").
			Options(boardOpts...).
			Value(&m.fb.board),
		huh.NewInput().
			Title("Title").
			Placeholder("Article title").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Body").
			Placeholder("Write your article...").
			Value(&m.fb.body).
			Validate(validateRequired("Body")),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildEditForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Body").
				Value(&m.fb.body).
				Validate(validateRequired("Body")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildCommentForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewText().
				Title("Comment").
				Placeholder("Write your reply...").
				Value(&m.fb.body).
				Validate(validateRequired("Comment")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// validateRequired rejects blank values.
func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(fieldName + " is required")
		}
		return nil
	}
}
