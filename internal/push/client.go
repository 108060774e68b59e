// Package push maintains the WebSocket channel the backend uses to push
// notification events. The channel is receive-only and an enhancement on
// top of REST: when it is down the app degrades to fetch-only.
package push

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ndnguyen/agora/internal/logging"
)

// EventNotification is the only event name the sync controller acts on.
const EventNotification = "notification"

// Event is one decoded inbound frame. Raw preserves the full payload
// for fields beyond the minimum shape.
type Event struct {
	Event   string `json:"event"`
	Message string `json:"message,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// State is the connection lifecycle state.
type State int

const (
	// StateIdle means no connection has been requested (or the token
	// was empty, so the channel never opens).
	StateIdle State = iota
	StateConnecting
	StateOpen
	// StateClosed means the channel is down but may still reconnect.
	StateClosed
	// StateFailed means every reconnect attempt was exhausted; the
	// channel stays down for the rest of the session.
	StateFailed
)

// Handler receives each decoded inbound event.
type Handler func(Event)

// StateHandler receives connection state transitions.
type StateHandler func(State)

// Config bounds the reconnect policy.
type Config struct {
	// MaxRetries is the number of reconnect attempts after a drop
	// before giving up.
	MaxRetries int

	// MaxBackoff caps the exponential delay between attempts.
	MaxBackoff time.Duration
}

// Client owns one push-channel connection for the lifetime of an
// authenticated session.
type Client struct {
	endpoint string
	cfg      Config

	onEvent Handler
	onState StateHandler

	mu     sync.Mutex
	conn   *websocket.Conn
	state  State
	closed bool
	cancel context.CancelFunc
}

// NewClient creates a push client for the given WebSocket endpoint
// (e.g. wss://forum.example.com). Connect appends the channel path.
func NewClient(endpoint string, cfg Config) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Second
	}
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		cfg:      cfg,
		state:    StateIdle,
	}
}

// Endpoint derives a WebSocket endpoint from an HTTP base URL when the
// config does not name one explicitly.
func Endpoint(baseURL string) string {
	switch {
	case strings.HasPrefix(baseURL, "https://"):
		return "wss://" + strings.TrimPrefix(baseURL, "https://")
	case strings.HasPrefix(baseURL, "http://"):
		return "ws://" + strings.TrimPrefix(baseURL, "http://")
	}
	return baseURL
}

// OnEvent registers the callback invoked once per inbound event.
// Must be called before Connect.
func (c *Client) OnEvent(h Handler) {
	c.onEvent = h
}

// OnStateChange registers the callback invoked on connection state
// transitions. Must be called before Connect.
func (c *Client) OnStateChange(h StateHandler) {
	c.onState = h
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect opens the channel authenticated by token and starts the read
// loop. An empty token is a no-op: the push channel is login-gated and
// the client stays idle.
func (c *Client) Connect(token string) {
	if token == "" {
		return
	}

	c.mu.Lock()
	if c.cancel != nil {
		c.mu.Unlock()
		return
	}
	// A previous session's Disconnect does not bar a new session.
	c.closed = false
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx, token)
}

// Reconnect restarts the dial loop after the retry budget was spent.
// It is a no-op while the channel is idle, healthy, or torn down.
func (c *Client) Reconnect(token string) {
	if token == "" {
		return
	}

	c.mu.Lock()
	if c.closed || c.state != StateFailed {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.run(ctx, token)
}

// Disconnect tears the channel down. After it returns no further event
// callbacks are delivered, even if the socket close has not completed.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closed = true
	c.setStateLocked(StateIdle)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

// run dials, reads until the connection drops, and reconnects with
// bounded exponential backoff until the retry budget is spent.
func (c *Client) run(ctx context.Context, token string) {
	attempts := 0

	for {
		if ctx.Err() != nil {
			return
		}

		c.setState(StateConnecting)
		conn, err := c.dial(ctx, token)
		if err != nil {
			logging.Warn("push: dial failed", "attempt", attempts, "error", err)
			c.setState(StateClosed)
			if !c.waitBackoff(ctx, &attempts) {
				c.setState(StateFailed)
				return
			}
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.conn = conn
		c.setStateLocked(StateOpen)
		c.mu.Unlock()

		attempts = 0
		logging.Info("push: channel open")

		c.readLoop(conn)

		c.mu.Lock()
		wasClosed := c.closed
		c.conn = nil
		if !wasClosed {
			c.setStateLocked(StateClosed)
		}
		c.mu.Unlock()

		if wasClosed {
			return
		}

		logging.Warn("push: channel dropped")
		if !c.waitBackoff(ctx, &attempts) {
			c.setState(StateFailed)
			return
		}
	}
}

// dial opens the WebSocket to the notification endpoint.
func (c *Client) dial(ctx context.Context, token string) (*websocket.Conn, error) {
	u := c.endpoint + "/ws/notifications/?token=" + url.QueryEscape(token)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// readLoop reads frames until the connection errors. Malformed frames
// are logged and skipped; they never terminate the connection.
func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var event Event
		if err := json.Unmarshal(data, &event); err != nil {
			logging.Warn("push: malformed frame", "error", err)
			continue
		}
		event.Raw = data

		c.dispatch(event)
	}
}

// dispatch hands the event to the handler unless Disconnect has already
// run. The closed check and the callback share the mutex so no event is
// delivered into a torn-down session.
func (c *Client) dispatch(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.onEvent == nil {
		return
	}
	c.onEvent(event)
}

// waitBackoff sleeps for the next backoff interval. It returns false
// when the retry budget is exhausted or the context is done.
func (c *Client) waitBackoff(ctx context.Context, attempts *int) bool {
	if *attempts >= c.cfg.MaxRetries {
		logging.Error("push: reconnect attempts exhausted", "attempts", *attempts)
		return false
	}

	backoff := time.Duration(1<<uint(*attempts)) * time.Second
	if backoff > c.cfg.MaxBackoff {
		backoff = c.cfg.MaxBackoff
	}
	*attempts++

	select {
	case <-ctx.Done():
		return false
	case <-time.After(backoff):
		return true
	}
}

// setState records a state transition and notifies the handler.
func (c *Client) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStateLocked(s)
}

func (c *Client) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	if c.onState != nil && !c.closed {
		go c.onState(s)
	}
}
