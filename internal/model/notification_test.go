package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeforeOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	newer := Notification{ID: 1, CreatedAt: base.Add(time.Hour)}
	older := Notification{ID: 2, CreatedAt: base}

	assert.True(t, newer.Before(older))
	assert.False(t, older.Before(newer))
}

func TestBeforeBreaksTiesOnHigherID(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := Notification{ID: 7, CreatedAt: at}
	b := Notification{ID: 3, CreatedAt: at}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
}

func TestNotificationJSONShape(t *testing.T) {
	raw := []byte(`{
		"id": 12,
		"kind": "forum",
		"message": "new reply on your article",
		"link": "/articles/88",
		"isRead": true,
		"createdAt": "2026-03-01T12:00:00Z"
	}`)

	var n Notification
	require.NoError(t, json.Unmarshal(raw, &n))
	assert.Equal(t, int64(12), n.ID)
	assert.Equal(t, KindForum, n.Kind)
	assert.Equal(t, "/articles/88", n.Link)
	assert.True(t, n.Read)
}

func TestReportStatusResolvable(t *testing.T) {
	assert.True(t, ReportPending.Resolvable())
	assert.False(t, ReportAccepted.Resolvable())
	assert.False(t, ReportRejected.Resolvable())
}

func TestSessionValid(t *testing.T) {
	assert.False(t, Session{}.Valid())
	assert.True(t, Session{Token: "tok"}.Valid())
}
