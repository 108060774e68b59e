package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/keys"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/notify"
	appsync "github.com/ndnguyen/agora/internal/sync"
	"github.com/ndnguyen/agora/internal/ui"
	articleview "github.com/ndnguyen/agora/internal/ui/article"
	boardsview "github.com/ndnguyen/agora/internal/ui/boards"
	commandview "github.com/ndnguyen/agora/internal/ui/command"
	composeview "github.com/ndnguyen/agora/internal/ui/compose"
	feedview "github.com/ndnguyen/agora/internal/ui/feed"
	helpview "github.com/ndnguyen/agora/internal/ui/help"
	loginview "github.com/ndnguyen/agora/internal/ui/login"
	notifview "github.com/ndnguyen/agora/internal/ui/notifications"
	reportsview "github.com/ndnguyen/agora/internal/ui/reports"
)

// toastTTL is how long a transient notice stays in the status bar.
const toastTTL = 4 * time.Second

// toastExpiredMsg clears the status bar toast. The sequence number
// guards against an old timer clearing a newer toast.
type toastExpiredMsg struct {
	seq int
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewFeed
	ViewArticle
	ViewBoards
	ViewNotifications
	ViewReports
	ViewCompose
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing, the
// session lifecycle, and the notification subsystem.
type Model struct {
	cfg    *model.AppConfig
	client *api.Client
	cache  *cache.Cache
	store  *notify.Store
	ctrl   *appsync.Controller
	keys   *keys.KeyMap
	layout ui.Layout

	currentView  ViewState
	previousView ViewState
	ready        bool

	session model.Session

	login         loginview.Model
	feed          feedview.Model
	article       articleview.Model
	boards        boardsview.Model
	notifications notifview.Model
	reports       reportsview.Model
	compose       composeview.Model
	commandView   commandview.Model
	helpView      helpview.Model

	toast    string
	toastSeq int

	connState appsync.SessionState
}

// New creates the root application model. The client is
// unauthenticated; sign-in swaps in an authenticated copy.
func New(cfg *model.AppConfig, client *api.Client, c *cache.Cache, ctrl *appsync.Controller) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		cfg:         cfg,
		client:      client,
		cache:       c,
		store:       ctrl.Store(),
		ctrl:        ctrl,
		keys:        k,
		currentView: ViewLogin,
		login:       loginview.New(client, 80, 24),
		commandView: commandview.New(80, 24),
		helpView:    helpview.New(k, 80, 24),
		connState:   appsync.StateIdle,
	}
	m.buildMainViews()
	return m
}

// buildMainViews constructs the views that need an API client. Called
// once at startup and again after sign-in, when the client gains a
// token.
func (m *Model) buildMainViews() {
	w, h := 80, 24
	if m.ready {
		w = m.layout.ContentWidth()
		h = m.layout.ContentHeight()
	}
	m.feed = feedview.New(m.client, m.keys, w, h)
	m.article = articleview.New(m.client, m.cache, m.keys, w, h)
	m.boards = boardsview.New(m.client, m.cache, m.keys, w, h)
	m.notifications = notifview.New(m.store, m.ctrl, m.keys, w, h)
	m.reports = reportsview.New(m.client, m.keys, w, h)
	m.compose = composeview.New(m.client, m.cache, w, h)
}

// Init restores the saved session if one exists, otherwise shows the
// sign-in form.
func (m Model) Init() tea.Cmd {
	if m.session.Valid() {
		return tea.Batch(
			m.ctrl.Start(m.session.Token),
			m.feed.Init(),
			m.boards.Init(),
		)
	}
	return m.login.Init()
}

// SetSession seeds a restored session before the program starts.
func (m *Model) SetSession(s model.Session) {
	if !s.Valid() {
		return
	}
	m.session = s
	m.client = m.client.WithToken(s.Token)
	m.buildMainViews()
	m.currentView = ViewFeed
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.login.SetSize(w, h)
		m.feed.SetSize(w, h)
		m.article.SetSize(w, h)
		m.boards.SetSize(w, h)
		m.notifications.SetSize(w, h)
		m.reports.SetSize(w, h)
		m.compose.SetSize(w, h)
		m.commandView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveView(msg)

	// Session lifecycle.
	case loginview.SignedInMsg:
		return m.handleSignedIn(msg)

	// Notification subsystem. Channel deliveries re-arm the
	// subscription; direct command results do not.
	case appsync.DeliveredMsg:
		next, cmd := m.handleSyncMsg(msg.Msg)
		return next, tea.Batch(cmd, m.ctrl.WaitForNext())

	case appsync.NotificationsChangedMsg, appsync.AlertMsg,
		appsync.SyncErrorMsg, appsync.StateMsg:
		return m.handleSyncMsg(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	// Cross-view navigation.
	case feedview.SelectedArticleMsg:
		m.previousView = m.currentView
		m.currentView = ViewArticle
		return m, m.article.Load(msg.ArticleID)

	case boardsview.SelectedBoardMsg:
		m.currentView = ViewFeed
		return m, m.feed.SetBoard(msg.Slug)

	case articleview.BackMsg:
		m.currentView = m.previousView
		if m.currentView == ViewArticle {
			m.currentView = ViewFeed
		}
		return m, nil

	case articleview.ComposeCommentMsg:
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartComment(msg.ArticleID)

	case articleview.EditRequestMsg:
		if msg.Article.Author != m.session.Username {
			return m.showToast("Only your own articles can be edited.")
		}
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartEdit(msg.Article)

	case notifview.OpenLinkMsg:
		// Notification links point at articles: "/articles/{id}".
		if id, ok := parseArticleLink(msg.Link); ok {
			m.previousView = m.currentView
			m.currentView = ViewArticle
			return m, m.article.Load(id)
		}
		return m.showToast(fmt.Sprintf("Link: %s", msg.Link))

	// Compose outcomes.
	case composeview.ArticlePostedMsg:
		if msg.Err != nil {
			return m.showToast(api.UserMessage(msg.Err, "Could not post the article."))
		}
		m.currentView = ViewFeed
		next, cmd := m.showToast("Article posted.")
		return next, tea.Batch(cmd, m.feed.SetBoard(m.feed.Board()))

	case composeview.ArticleEditedMsg:
		if msg.Err != nil {
			return m.showToast(api.UserMessage(msg.Err, "Could not save the changes."))
		}
		m.currentView = ViewArticle
		next, cmd := m.showToast("Article updated.")
		return next, tea.Batch(cmd, next.article.Load(msg.Article.ID))

	case composeview.CommentSubmitMsg:
		m.currentView = ViewArticle
		return m, m.article.PostComment(msg.ArticleID, msg.Body)

	case composeview.CancelMsg:
		m.currentView = m.previousView
		if msg.DraftSaved {
			return m.showToast("Draft saved.")
		}
		return m, nil

	case articleview.CommentPostedMsg:
		if msg.Err != nil {
			next, cmd := m.showToast(api.UserMessage(msg.Err, "Could not post the comment."))
			return next, cmd
		}
		var cmd tea.Cmd
		m.article, cmd = m.article.Update(msg)
		return m, cmd

	// Fetch results go to their owning view even when another view is
	// active; a failure additionally raises a transient notice.
	case feedview.ArticlesLoadedMsg:
		tcmd := m.toastErr(msg.Err, "Could not load the feed.")
		var cmd tea.Cmd
		m.feed, cmd = m.feed.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case articleview.DetailLoadedMsg:
		tcmd := m.toastErr(msg.Err, "Could not load the article.")
		var cmd tea.Cmd
		m.article, cmd = m.article.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case articleview.LikeToggledMsg:
		tcmd := m.toastErr(msg.Err, "Could not like the article.")
		var cmd tea.Cmd
		m.article, cmd = m.article.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case articleview.BookmarkToggledMsg:
		tcmd := m.toastErr(msg.Err, "Could not update the bookmark.")
		var cmd tea.Cmd
		m.article, cmd = m.article.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case boardsview.FollowToggledMsg:
		tcmd := m.toastErr(msg.Err, "Could not update the follow.")
		var cmd tea.Cmd
		m.boards, cmd = m.boards.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case reportsview.ReportsLoadedMsg:
		tcmd := m.toastErr(msg.Err, "Could not load the moderation queue.")
		var cmd tea.Cmd
		m.reports, cmd = m.reports.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case reportsview.ReportResolvedMsg:
		tcmd := m.toastErr(msg.Err, "Could not resolve the report.")
		var cmd tea.Cmd
		m.reports, cmd = m.reports.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	// Board data doubles as compose form options.
	case boardsview.BoardsLoadedMsg:
		tcmd := m.toastErr(msg.Err, "Could not load the boards.")
		if msg.Err == nil {
			m.compose.SetBoards(msg.Boards)
		}
		var cmd tea.Cmd
		m.boards, cmd = m.boards.Update(msg)
		return m, tea.Batch(tcmd, cmd)

	case draftsLoadedMsg:
		return m.handleDraftsLoaded(msg)

	case commandview.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		return m.handleGlobalKeys(msg)
	}

	return m.updateActiveView(msg)
}

// handleSyncMsg processes one notification-subsystem message.
func (m Model) handleSyncMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case appsync.NotificationsChangedMsg:
		var cmd tea.Cmd
		m.notifications, cmd = m.notifications.Update(msg)
		return m, cmd

	case appsync.AlertMsg:
		return m.showToast(msg.Message)

	case appsync.SyncErrorMsg:
		return m.showToast(msg.Message)

	case appsync.StateMsg:
		m.connState = msg.State
		return m, nil
	}
	return m, nil
}

// handleGlobalKeys processes keys that work across views. Form views
// own the keyboard, so only navigation views are intercepted.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.ctrl.Shutdown()
		return m, tea.Quit
	}

	if msg.String() == "esc" &&
		(m.currentView == ViewHelp || m.currentView == ViewCommand) {
		m.currentView = m.previousView
		return m, nil
	}

	if !m.inNavigationView() {
		return m.updateActiveView(msg)
	}

	switch msg.String() {
	case "q":
		m.ctrl.Shutdown()
		return m, tea.Quit

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus()

	case "f":
		m.currentView = ViewFeed
		return m, nil

	case "b":
		m.currentView = ViewBoards
		return m, nil

	case "n":
		m.currentView = ViewNotifications
		return m, nil

	case "m":
		if !m.session.Moderator {
			return m.showToastModel("Moderation requires moderator rights.")
		}
		m.currentView = ViewReports
		return m, m.reports.Init()

	case "w":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartArticle(m.feed.Board())
	}

	return m.updateActiveView(msg)
}

// inNavigationView reports whether the current view is a browsing view
// rather than a text-entry form.
func (m Model) inNavigationView() bool {
	switch m.currentView {
	case ViewLogin, ViewCompose, ViewCommand:
		return false
	}
	return true
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.login, cmd = m.login.Update(msg)
	case ViewFeed:
		m.feed, cmd = m.feed.Update(msg)
	case ViewArticle:
		m.article, cmd = m.article.Update(msg)
	case ViewBoards:
		m.boards, cmd = m.boards.Update(msg)
	case ViewNotifications:
		m.notifications, cmd = m.notifications.Update(msg)
	case ViewReports:
		m.reports, cmd = m.reports.Update(msg)
	case ViewCompose:
		m.compose, cmd = m.compose.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// showToast sets a transient status bar notice with an expiry timer.
func (m Model) showToast(text string) (Model, tea.Cmd) {
	m.toast = text
	m.toastSeq++
	seq := m.toastSeq
	return m, tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// toastErr raises a transient notice for a failed remote call, using
// the server message when one is present. A nil error is a no-op.
func (m *Model) toastErr(err error, fallback string) tea.Cmd {
	if err == nil {
		return nil
	}
	m.toast = api.UserMessage(err, fallback)
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

// showToastModel is showToast with a tea.Model return for key handlers.
func (m Model) showToastModel(text string) (tea.Model, tea.Cmd) {
	next, cmd := m.showToast(text)
	return next, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Agora", m.store.UnreadCount(), m.connStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints(), m.toast)

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin:
		return m.login.View()
	case ViewFeed:
		return m.feed.View()
	case ViewArticle:
		return m.article.View()
	case ViewBoards:
		return m.boards.View()
	case ViewNotifications:
		return m.notifications.View()
	case ViewReports:
		return m.reports.View()
	case ViewCompose:
		return m.compose.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// connStatus describes the session state for the header.
func (m Model) connStatus() string {
	switch m.connState {
	case appsync.StateInitializing:
		return "connecting"
	case appsync.StateActive:
		return "live"
	case appsync.StateDegraded:
		return "rest-only"
	default:
		if m.session.Valid() {
			return ""
		}
		return "signed out"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin:
		return "enter submit | tab next field"
	case ViewFeed:
		return "enter open | w write | b boards | n notifications | L more | ? help"
	case ViewArticle:
		return "esc back | l like | s bookmark | c comment | e edit | j/k scroll"
	case ViewBoards:
		return "enter open | F follow | R refresh | esc back"
	case ViewNotifications:
		return "enter open | r mark read | d delete | L more | R refresh"
	case ViewReports:
		return "a accept | x reject | L more | R refresh"
	case ViewCompose:
		return "enter submit | esc cancel (drafts are kept)"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewHelp:
		return "? close help"
	default:
		return "q quit | ? help"
	}
}
