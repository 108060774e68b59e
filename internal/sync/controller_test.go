package sync

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/model"
	"github.com/ndnguyen/agora/internal/notify"
	"github.com/ndnguyen/agora/internal/push"
)

const testPageSize = 2

// writeOK writes a success envelope with the given data payload.
func writeOK(t *testing.T, w http.ResponseWriter, data interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(map[string]interface{}{
		"result": "ok",
		"data":   json.RawMessage(raw),
	})
	require.NoError(t, err)
}

// writeFail writes an error envelope with the given status and message.
func writeFail(t *testing.T, w http.ResponseWriter, status int, code, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(map[string]interface{}{
		"result":    "error",
		"errorCode": code,
		"message":   message,
	})
	require.NoError(t, err)
}

func testNotifications(n int, startID int64) []model.Notification {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]model.Notification, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.Notification{
			ID:        startID + int64(i),
			Kind:      model.KindForum,
			Message:   "new reply",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

// newTestController wires a controller against the given HTTP handler.
// The push endpoint is unreachable; these tests cover the REST path.
func newTestController(t *testing.T, handler http.Handler) (*Controller, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, "test-token", 5*time.Second, testPageSize)
	pushClient := push.NewClient("ws://127.0.0.1:1", push.Config{
		MaxRetries: 1,
		MaxBackoff: time.Second,
	})
	store := notify.NewStore()
	return New(client, pushClient, store, 5*time.Second), srv
}

func TestStartWithEmptyTokenStaysIdle(t *testing.T) {
	ctrl, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))

	cmd := ctrl.Start("")
	assert.Nil(t, cmd)
	assert.Equal(t, StateIdle, ctrl.State())
}

func TestRefreshPreviewReplacesStore(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(2, 10))
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")
	defer ctrl.Shutdown()

	msg := ctrl.RefreshPreview()()

	changed, ok := msg.(NotificationsChangedMsg)
	require.True(t, ok, "expected NotificationsChangedMsg, got %T", msg)
	assert.Equal(t, 2, changed.UnreadCount)
	assert.Equal(t, 2, ctrl.Store().Len())
	assert.Equal(t, StateActive, ctrl.State())
}

func TestRefreshPreviewFailureKeepsStore(t *testing.T) {
	var fail bool
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			writeFail(t, w, http.StatusInternalServerError, "INTERNAL", "Server error.")
			return
		}
		writeOK(t, w, testNotifications(1, 1))
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")
	defer ctrl.Shutdown()

	ctrl.RefreshPreview()()
	require.Equal(t, 1, ctrl.Store().Len())

	fail = true
	msg := ctrl.RefreshPreview()()

	errMsg, ok := msg.(SyncErrorMsg)
	require.True(t, ok, "expected SyncErrorMsg, got %T", msg)
	assert.Equal(t, "Server error.", errMsg.Message)
	assert.Equal(t, 1, ctrl.Store().Len(), "a failed refresh must keep last known contents")
}

func TestFetchPageAppendsAndTracksPaging(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(testPageSize, 10))
	})
	mux.HandleFunc("/notifications/unread/all", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			writeOK(t, w, testNotifications(testPageSize, 20))
		default:
			// Short batch: last page.
			writeOK(t, w, testNotifications(1, 30))
		}
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")
	defer ctrl.Shutdown()

	ctrl.RefreshPreview()()
	require.True(t, ctrl.Store().HasMore())

	msg := ctrl.LoadMore()()
	_, ok := msg.(NotificationsChangedMsg)
	require.True(t, ok, "expected NotificationsChangedMsg, got %T", msg)
	assert.Equal(t, 4, ctrl.Store().Len())
	assert.True(t, ctrl.Store().HasMore())

	ctrl.LoadMore()()
	assert.Equal(t, 5, ctrl.Store().Len())
	assert.False(t, ctrl.Store().HasMore(), "short batch must end pagination")
}

func TestFetchPageAfterResetIsDiscarded(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(testPageSize, 10))
	})
	mux.HandleFunc("/notifications/unread/all", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(testPageSize, 20))
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")

	ctrl.RefreshPreview()()
	cmd := ctrl.FetchPage(1)

	// Logout races the in-flight page fetch.
	ctrl.Shutdown()

	msg := cmd()
	assert.Nil(t, msg, "a page issued before teardown must be dropped silently")
	assert.Equal(t, 0, ctrl.Store().Len())
}

func TestMarkAsReadIsOptimistic(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(1, 7))
	})
	mux.HandleFunc("/notifications/read/7", func(w http.ResponseWriter, r *http.Request) {
		writeFail(t, w, http.StatusInternalServerError, "INTERNAL", "Server error.")
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")
	defer ctrl.Shutdown()

	ctrl.RefreshPreview()()
	cmd := ctrl.MarkAsRead(7)

	// The local flag flips before the server round trip.
	require.Equal(t, 0, ctrl.Store().UnreadCount())

	msg := cmd()
	_, ok := msg.(NotificationsChangedMsg)
	require.True(t, ok, "expected NotificationsChangedMsg, got %T", msg)
	assert.Equal(t, 0, ctrl.Store().UnreadCount(),
		"a failed confirm must not roll the read flag back")
}

func TestDeleteIsRemoteFirst(t *testing.T) {
	var allow bool
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(1, 9))
	})
	mux.HandleFunc("/notifications/delete/9", func(w http.ResponseWriter, r *http.Request) {
		if !allow {
			writeFail(t, w, http.StatusInternalServerError, "INTERNAL", "Server error.")
			return
		}
		writeOK(t, w, nil)
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")
	defer ctrl.Shutdown()

	ctrl.RefreshPreview()()

	msg := ctrl.Delete(9)()
	_, ok := msg.(SyncErrorMsg)
	require.True(t, ok, "expected SyncErrorMsg, got %T", msg)
	assert.Equal(t, 1, ctrl.Store().Len(), "a failed delete must keep the record visible")

	allow = true
	msg = ctrl.Delete(9)()
	changed, ok := msg.(NotificationsChangedMsg)
	require.True(t, ok, "expected NotificationsChangedMsg, got %T", msg)
	assert.Equal(t, 0, changed.UnreadCount)
	assert.Equal(t, 0, ctrl.Store().Len())
}

func TestShutdownResetsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(2, 1))
	})
	ctrl, _ := newTestController(t, mux)
	ctrl.Start("test-token")

	ctrl.RefreshPreview()()
	require.Equal(t, 2, ctrl.Store().Len())

	ctrl.Shutdown()

	assert.Equal(t, StateIdle, ctrl.State())
	assert.Equal(t, 0, ctrl.Store().Len())

	// Restarting with an empty token after logout stays idle.
	assert.Nil(t, ctrl.Start(""))
}

// awaitMsg reads the next UI-bound message off the controller's result
// channel, failing the test if none arrives in time.
func awaitMsg(t *testing.T, ctrl *Controller) tea.Msg {
	t.Helper()
	select {
	case msg := <-ctrl.resultCh:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a controller message")
		return nil
	}
}

func TestInboundNotificationAlertsAndResyncs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(1, 42))
	})
	ctrl, _ := newTestController(t, mux)

	ctrl.handleInbound(push.Event{Event: push.EventNotification, Message: "you have a reply"})

	alert, ok := awaitMsg(t, ctrl).(AlertMsg)
	require.True(t, ok, "expected AlertMsg first")
	assert.Equal(t, "you have a reply", alert.Message)

	changed, ok := awaitMsg(t, ctrl).(NotificationsChangedMsg)
	require.True(t, ok, "expected NotificationsChangedMsg after the resync")
	assert.Equal(t, 1, changed.UnreadCount)
	assert.Equal(t, 1, ctrl.Store().Len(), "the resync must populate the store")
}

func TestInboundNotificationWithoutTextResyncsQuietly(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/notifications/unread/preview", func(w http.ResponseWriter, r *http.Request) {
		writeOK(t, w, testNotifications(2, 7))
	})
	ctrl, _ := newTestController(t, mux)

	ctrl.handleInbound(push.Event{Event: push.EventNotification})

	// No alert without payload text; the first message is the resync.
	changed, ok := awaitMsg(t, ctrl).(NotificationsChangedMsg)
	require.True(t, ok, "expected NotificationsChangedMsg, not an alert")
	assert.Equal(t, 2, changed.UnreadCount)
}

func TestInboundUnknownEventIsIgnored(t *testing.T) {
	ctrl, _ := newTestController(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))

	ctrl.handleInbound(push.Event{Event: "presence", Message: "someone joined"})

	select {
	case msg := <-ctrl.resultCh:
		t.Fatalf("unexpected message for unknown event: %#v", msg)
	case <-time.After(200 * time.Millisecond):
	}
	assert.Equal(t, 0, ctrl.Store().Len(), "unknown events must not touch the store")
}
