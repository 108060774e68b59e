package app

import (
	"context"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/credential"
	"github.com/ndnguyen/agora/internal/logging"
	"github.com/ndnguyen/agora/internal/model"
	loginview "github.com/ndnguyen/agora/internal/ui/login"
)

// handleSignedIn installs the fresh session: token into the keyring,
// authenticated client into the views, notification subsystem started.
func (m Model) handleSignedIn(msg loginview.SignedInMsg) (tea.Model, tea.Cmd) {
	if msg.Session == nil {
		return m, nil
	}

	m.session = *msg.Session
	m.client = m.client.WithToken(m.session.Token)
	m.buildMainViews()
	if m.ready {
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.feed.SetSize(w, h)
		m.article.SetSize(w, h)
		m.boards.SetSize(w, h)
		m.notifications.SetSize(w, h)
		m.reports.SetSize(w, h)
		m.compose.SetSize(w, h)
	}
	m.currentView = ViewFeed

	if err := credential.Set(credential.SessionTokenKey, m.session.Token); err != nil {
		logging.Warn("persist session token", "error", err)
	}

	return m, tea.Batch(
		m.ctrl.Start(m.session.Token),
		m.feed.Init(),
		m.boards.Init(),
	)
}

// signOut tears the session down: remote logout is best-effort, the
// push channel and store are released, and the keyring entry removed.
func (m Model) signOut() (tea.Model, tea.Cmd) {
	client := m.client

	m.ctrl.Shutdown()

	if err := credential.Delete(credential.SessionTokenKey); err != nil {
		logging.Warn("remove session token", "error", err)
	}

	m.session = model.Session{}
	m.client = m.client.WithToken("")
	m.buildMainViews()
	m.currentView = ViewLogin
	m.login = loginview.New(m.client, m.layout.ContentWidth(), m.layout.ContentHeight())

	logoutCmd := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Logout(ctx); err != nil {
			logging.Warn("remote logout", "error", err)
		}
		return nil
	}

	return m, tea.Batch(logoutCmd, m.login.Init())
}

// parseArticleLink extracts an article ID from a notification link of
// the form "/articles/{id}" (with or without a trailing path).
func parseArticleLink(link string) (int64, bool) {
	link = strings.TrimPrefix(link, "/")
	parts := strings.Split(link, "/")
	if len(parts) < 2 || parts[0] != "articles" {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
