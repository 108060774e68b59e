package push

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{}

// pushServer is a WebSocket test backend that feeds frames to clients.
type pushServer struct {
	srv    *httptest.Server
	frames chan []byte

	mu    sync.Mutex
	token string
}

func newPushServer(t *testing.T) *pushServer {
	t.Helper()
	ps := &pushServer{frames: make(chan []byte, 16)}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/notifications/", func(w http.ResponseWriter, r *http.Request) {
		ps.mu.Lock()
		ps.token = r.URL.Query().Get("token")
		ps.mu.Unlock()

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for frame := range ps.frames {
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		}
	})

	ps.srv = httptest.NewServer(mux)
	t.Cleanup(ps.srv.Close)
	return ps
}

func (ps *pushServer) endpoint() string {
	return "ws" + strings.TrimPrefix(ps.srv.URL, "http")
}

func (ps *pushServer) seenToken() string {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.token
}

func waitForEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case e := <-events:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func waitForState(t *testing.T, states <-chan State, want State) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case s := <-states:
			if s == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for state %v", want)
		}
	}
}

func TestConnectWithEmptyTokenStaysIdle(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1", Config{MaxRetries: 1, MaxBackoff: time.Second})
	c.OnStateChange(func(State) {
		t.Error("no state transition expected for an empty token")
	})

	c.Connect("")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, StateIdle, c.State())
}

func TestReceivesDecodedEvents(t *testing.T) {
	ps := newPushServer(t)

	events := make(chan Event, 8)
	c := NewClient(ps.endpoint(), Config{MaxRetries: 1, MaxBackoff: time.Second})
	c.OnEvent(func(e Event) { events <- e })
	defer c.Disconnect()

	c.Connect("session-token")

	ps.frames <- []byte(`{"event":"notification","message":"new reply on your article"}`)

	e := waitForEvent(t, events)
	assert.Equal(t, EventNotification, e.Event)
	assert.Equal(t, "new reply on your article", e.Message)
	assert.JSONEq(t,
		`{"event":"notification","message":"new reply on your article"}`,
		string(e.Raw))

	assert.Equal(t, "session-token", ps.seenToken())
}

func TestMalformedFramesAreSkipped(t *testing.T) {
	ps := newPushServer(t)

	events := make(chan Event, 8)
	c := NewClient(ps.endpoint(), Config{MaxRetries: 1, MaxBackoff: time.Second})
	c.OnEvent(func(e Event) { events <- e })
	defer c.Disconnect()

	c.Connect("session-token")

	ps.frames <- []byte(`{not json`)
	ps.frames <- []byte(`{"event":"notification","message":"still alive"}`)

	e := waitForEvent(t, events)
	assert.Equal(t, "still alive", e.Message,
		"a malformed frame must not terminate the connection")
}

func TestNoEventsAfterDisconnect(t *testing.T) {
	ps := newPushServer(t)

	events := make(chan Event, 8)
	states := make(chan State, 8)
	c := NewClient(ps.endpoint(), Config{MaxRetries: 1, MaxBackoff: time.Second})
	c.OnEvent(func(e Event) { events <- e })
	c.OnStateChange(func(s State) { states <- s })

	c.Connect("session-token")
	waitForState(t, states, StateOpen)

	c.Disconnect()
	require.Equal(t, StateIdle, c.State())

	ps.frames <- []byte(`{"event":"notification","message":"too late"}`)

	select {
	case e := <-events:
		t.Fatalf("unexpected event after Disconnect: %+v", e)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestReconnectBudgetExhaustedEndsInFailed(t *testing.T) {
	states := make(chan State, 8)
	c := NewClient("ws://127.0.0.1:1", Config{MaxRetries: 1, MaxBackoff: time.Second})
	c.OnStateChange(func(s State) { states <- s })
	defer c.Disconnect()

	c.Connect("session-token")

	waitForState(t, states, StateFailed)
	assert.Equal(t, StateFailed, c.State())
}

func TestReconnectAfterFailureReopens(t *testing.T) {
	ps := newPushServer(t)

	states := make(chan State, 8)
	c := NewClient("ws://127.0.0.1:1", Config{MaxRetries: 1, MaxBackoff: time.Second})
	c.OnStateChange(func(s State) { states <- s })
	defer c.Disconnect()

	c.Connect("session-token")
	waitForState(t, states, StateFailed)

	// Point the client at a live server and retry manually.
	c.endpoint = ps.endpoint()
	c.Reconnect("session-token")

	waitForState(t, states, StateOpen)
}
