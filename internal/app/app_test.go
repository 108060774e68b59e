package app

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/notify"
	"github.com/ndnguyen/agora/internal/push"
	appsync "github.com/ndnguyen/agora/internal/sync"
	articleview "github.com/ndnguyen/agora/internal/ui/article"
	feedview "github.com/ndnguyen/agora/internal/ui/feed"
	reportsview "github.com/ndnguyen/agora/internal/ui/reports"
)

// newTestApp builds a root model against unreachable backends; these
// tests only exercise message routing, not network calls.
func newTestApp(t *testing.T) Model {
	t.Helper()

	client := api.NewClient("http://127.0.0.1:1", "test-token", time.Second, 5)
	pushClient := push.NewClient("ws://127.0.0.1:1", push.Config{
		MaxRetries: 1,
		MaxBackoff: time.Second,
	})
	ctrl := appsync.New(client, pushClient, notify.NewStore(), time.Second)

	return New(&model.AppConfig{}, client, nil, ctrl)
}

func TestFetchFailureRaisesToast(t *testing.T) {
	tests := []struct {
		name string
		msg  interface{}
		want string
	}{
		{
			name: "feed page",
			msg:  feedview.ArticlesLoadedMsg{Err: errors.New("connection refused")},
			want: "Could not load the feed.",
		},
		{
			name: "article detail",
			msg:  articleview.DetailLoadedMsg{Err: errors.New("connection refused")},
			want: "Could not load the article.",
		},
		{
			name: "report queue",
			msg:  reportsview.ReportsLoadedMsg{Err: errors.New("connection refused")},
			want: "Could not load the moderation queue.",
		},
		{
			name: "report resolution",
			msg:  reportsview.ReportResolvedMsg{Err: errors.New("connection refused")},
			want: "Could not resolve the report.",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := newTestApp(t)

			next, _ := m.Update(tc.msg)

			got, ok := next.(Model)
			require.True(t, ok)
			assert.Equal(t, tc.want, got.toast)
		})
	}
}

func TestFetchFailureUsesServerMessage(t *testing.T) {
	m := newTestApp(t)

	next, _ := m.Update(feedview.ArticlesLoadedMsg{
		Err: &api.Error{Status: 500, Code: "INTERNAL", Message: "Board is archived."},
	})

	got, ok := next.(Model)
	require.True(t, ok)
	assert.Equal(t, "Board is archived.", got.toast)
}

func TestFetchSuccessLeavesToastAlone(t *testing.T) {
	m := newTestApp(t)

	next, _ := m.Update(feedview.ArticlesLoadedMsg{Page: 0})

	got, ok := next.(Model)
	require.True(t, ok)
	assert.Empty(t, got.toast)
}

func TestEditRequestRequiresOwnership(t *testing.T) {
	m := newTestApp(t)
	m.session = model.Session{Token: "test-token", Username: "alice"}
	m.currentView = ViewArticle

	next, _ := m.Update(articleview.EditRequestMsg{
		Article: model.Article{ID: 4, Author: "bob"},
	})

	got, ok := next.(Model)
	require.True(t, ok)
	assert.Equal(t, ViewArticle, got.currentView, "a foreign article must not open the editor")
	assert.Equal(t, "Only your own articles can be edited.", got.toast)
}

func TestEditRequestOpensComposeForOwnArticle(t *testing.T) {
	m := newTestApp(t)
	m.session = model.Session{Token: "test-token", Username: "alice"}
	m.currentView = ViewArticle

	next, _ := m.Update(articleview.EditRequestMsg{
		Article: model.Article{ID: 4, Author: "alice", Board: "general", Title: "Mine"},
	})

	got, ok := next.(Model)
	require.True(t, ok)
	assert.Equal(t, ViewCompose, got.currentView)
	assert.Equal(t, ViewArticle, got.previousView)
}
