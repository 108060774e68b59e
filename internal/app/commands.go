package app

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/cache"
	"github.com/ndnguyen/agora/internal/logging"
)

// draftsLoadedMsg carries locally saved drafts for the drafts command.
type draftsLoadedMsg struct {
	drafts []cache.Draft
	err    error
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch strings.ToLower(cmd) {
	case "feed", "f":
		m.currentView = ViewFeed
		return m, nil

	case "boards", "b":
		m.currentView = ViewBoards
		return m, nil

	case "notifications", "n":
		m.currentView = ViewNotifications
		return m, nil

	case "reports", "moderation", "m":
		if !m.session.Moderator {
			return m.showToastModel("Moderation requires moderator rights.")
		}
		m.currentView = ViewReports
		return m, m.reports.Init()

	case "compose", "write", "w":
		m.previousView = m.currentView
		m.currentView = ViewCompose
		return m, m.compose.StartArticle(m.feed.Board())

	case "drafts":
		return m, m.loadDrafts()

	case "refresh", "sync":
		return m, m.ctrl.RefreshPreview()

	case "logout":
		return m.signOut()

	case "quit", "q":
		m.ctrl.Shutdown()
		return m, tea.Quit

	default:
		return m.showToastModel("Unknown command: " + cmd)
	}
}

// loadDrafts reads saved drafts from the local cache.
func (m Model) loadDrafts() tea.Cmd {
	store := m.cache
	if store == nil {
		return func() tea.Msg {
			return draftsLoadedMsg{}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		drafts, err := store.Drafts(ctx)
		if err != nil {
			logging.Warn("load drafts", "error", err)
		}
		return draftsLoadedMsg{drafts: drafts, err: err}
	}
}

// handleDraftsLoaded opens the most recently edited draft in the
// compose form.
func (m Model) handleDraftsLoaded(msg draftsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m.showToastModel("Could not load drafts.")
	}
	if len(msg.drafts) == 0 {
		return m.showToastModel("No drafts.")
	}

	// Drafts come back newest first.
	m.previousView = m.currentView
	m.currentView = ViewCompose
	return m, m.compose.StartDraft(msg.drafts[0])
}
