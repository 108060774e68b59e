package compose

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/tests/testutil"
)

func testClient(srvURL string) *api.Client {
	return api.NewClient(srvURL, "test-token", 5*time.Second, 5)
}

func TestStartEditPrefillsForm(t *testing.T) {
	m := New(testClient("http://127.0.0.1:1"), nil, 80, 24)

	m.StartEdit(model.Article{
		ID:    7,
		Board: "general",
		Title: "Original title",
		Body:  "Original body",
	})

	assert.Equal(t, modeEdit, m.mode)
	assert.Equal(t, int64(7), m.editID)
	assert.Equal(t, "general", m.fb.board)
	assert.Equal(t, "Original title", m.fb.title)
	assert.Equal(t, "Original body", m.fb.body)
	assert.Contains(t, m.View(), "Edit Article")
}

func TestEditSubmitUpdatesArticle(t *testing.T) {
	var gotPath, gotMethod string
	var gotReq api.ArticleRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotReq))

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(map[string]interface{}{
			"result": "ok",
			"data": model.Article{
				ID:    7,
				Board: "general",
				Title: "Edited title",
				Body:  "Edited body",
			},
		})
		require.NoError(t, err)
	}))
	defer srv.Close()

	m := New(testClient(srv.URL), nil, 80, 24)
	m.StartEdit(model.Article{ID: 7, Board: "general", Title: "Old", Body: "Old"})
	m.fb.title = "Edited title"
	m.fb.body = "Edited body"

	msg := m.handleSubmit()()

	edited, ok := msg.(ArticleEditedMsg)
	require.True(t, ok, "expected ArticleEditedMsg, got %T", msg)
	require.NoError(t, edited.Err)
	assert.Equal(t, "Edited title", edited.Article.Title)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/articles/7", gotPath)
	assert.Equal(t, "Edited title", gotReq.Title)
	assert.Equal(t, "Edited body", gotReq.Body)
}

func TestEditCancelDoesNotSaveDraft(t *testing.T) {
	c := testutil.NewTestCache(t)

	m := New(testClient("http://127.0.0.1:1"), c, 80, 24)
	m.StartEdit(model.Article{ID: 3, Board: "general", Title: "T", Body: "B"})

	msg := m.handleCancel()()

	cancel, ok := msg.(CancelMsg)
	require.True(t, ok, "expected CancelMsg, got %T", msg)
	assert.False(t, cancel.DraftSaved)

	drafts, err := c.Drafts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drafts, "abandoned edits must not become drafts")
}

func TestArticleCancelSavesDraft(t *testing.T) {
	c := testutil.NewTestCache(t)

	m := New(testClient("http://127.0.0.1:1"), c, 80, 24)
	m.StartArticle("general")
	m.fb.title = "Half-written"
	m.fb.body = "Some thoughts"

	msg := m.handleCancel()()

	cancel, ok := msg.(CancelMsg)
	require.True(t, ok, "expected CancelMsg, got %T", msg)
	assert.True(t, cancel.DraftSaved)

	drafts, err := c.Drafts(context.Background())
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Half-written", drafts[0].Title)
}
