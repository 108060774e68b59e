// Package sync orchestrates the notification subsystem: it is the only
// component that talks to both the push channel and the REST API, and
// the only writer of the notification store.
package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/logging"
	"github.com/ndnguyen/agora/internal/notify"
	"github.com/ndnguyen/agora/internal/push"
)

// SessionState is the controller's lifecycle state for one session.
type SessionState int

const (
	// StateIdle means no valid token is present.
	StateIdle SessionState = iota
	// StateInitializing means the initial preview fetch is in flight.
	StateInitializing
	// StateActive is the steady state: REST usable, push channel open.
	StateActive
	// StateDegraded means the push channel is down but REST still
	// works; the user does not see this unless they look.
	StateDegraded
)

// NotificationsChangedMsg is sent whenever the store's contents change.
// Surfaces re-read the store rather than carrying copies in messages.
type NotificationsChangedMsg struct {
	UnreadCount int
}

// AlertMsg carries the text of a freshly pushed notification for a
// transient toast.
type AlertMsg struct {
	Message string
}

// SyncErrorMsg is a user-facing repository failure notice.
type SyncErrorMsg struct {
	Message string
}

// StateMsg reports a controller state transition.
type StateMsg struct {
	State SessionState
}

// Controller drives the notification lifecycle: initial fetch, push
// subscription, pagination, mark-read, delete, and teardown.
type Controller struct {
	client *api.Client
	push   *push.Client
	store  *notify.Store

	fetchTimeout time.Duration

	resultCh chan tea.Msg

	mu    gosync.Mutex
	state SessionState
	token string
}

// New creates a controller around the given API client, push client,
// and store. The session token is threaded in through Start rather than
// read from ambient state, so the controller is testable in isolation.
func New(client *api.Client, pushClient *push.Client, store *notify.Store, fetchTimeout time.Duration) *Controller {
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	c := &Controller{
		client:       client,
		push:         pushClient,
		store:        store,
		fetchTimeout: fetchTimeout,
		resultCh:     make(chan tea.Msg, 16),
		state:        StateIdle,
	}
	pushClient.OnEvent(c.handleInbound)
	pushClient.OnStateChange(c.handlePushState)
	return c
}

// Store exposes the read side for display surfaces.
func (c *Controller) Store() *notify.Store {
	return c.store
}

// State returns the current session state.
func (c *Controller) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start begins a session: the initial preview fetch plus the push
// subscription. With an empty token the subsystem stays idle; the
// whole feature is login-gated. Push open success is best-effort and
// never blocks the transition to Active; REST is the path of record.
func (c *Controller) Start(token string) tea.Cmd {
	if token == "" {
		return nil
	}

	c.mu.Lock()
	c.token = token
	c.state = StateInitializing
	c.mu.Unlock()

	c.push.Connect(token)

	return tea.Batch(c.initialFetch(), c.WaitForNext())
}

// Shutdown ends the session: the push channel is released, the store
// cleared, and the controller returns to idle. Events still in flight
// on the socket are not applied after this returns.
func (c *Controller) Shutdown() {
	c.push.Disconnect()
	c.store.Reset()

	c.mu.Lock()
	c.token = ""
	c.state = StateIdle
	c.mu.Unlock()
}

// initialFetch performs the first preview fetch of the session.
func (c *Controller) initialFetch() tea.Cmd {
	return func() tea.Msg {
		msg := c.fetchPreview()
		if _, failed := msg.(SyncErrorMsg); !failed {
			c.setState(StateActive)
		}
		return msg
	}
}

// RefreshPreview re-fetches the unread preview on user demand. A manual
// refresh also re-opens the push channel if its retry budget was spent.
func (c *Controller) RefreshPreview() tea.Cmd {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token == "" {
		return nil
	}

	c.push.Reconnect(token)

	return func() tea.Msg {
		msg := c.fetchPreview()
		if _, failed := msg.(SyncErrorMsg); !failed {
			c.setState(StateActive)
		}
		return msg
	}
}

// fetchPreview fetches the unread preview and replaces the store on
// success. On failure the store keeps its last-known-good contents:
// stale-but-available beats a blanked UI.
func (c *Controller) fetchPreview() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
	defer cancel()

	records, err := c.client.UnreadPreview(ctx)
	if err != nil {
		logging.Error("sync: preview fetch failed", "error", err)
		return SyncErrorMsg{
			Message: api.UserMessage(err, "Could not load notifications."),
		}
	}

	c.store.ReplaceAll(records)
	c.store.SetPaging(1, len(records) >= c.client.PageSize())
	return NotificationsChangedMsg{UnreadCount: c.store.UnreadCount()}
}

// FetchPage loads one page of the full listing. Page zero replaces the
// store; later pages append. The append carries the epoch it was issued
// under, so a page that completes after a reset is discarded instead of
// resurrecting stale rows.
func (c *Controller) FetchPage(page int) tea.Cmd {
	epoch := c.store.Epoch()

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()

		records, err := c.client.UnreadPage(ctx, page)
		if err != nil {
			logging.Error("sync: page fetch failed", "page", page, "error", err)
			return SyncErrorMsg{
				Message: api.UserMessage(err, "Could not load notifications."),
			}
		}

		hasMore := len(records) >= c.client.PageSize()

		if page == 0 {
			c.store.ReplaceAll(records)
			c.store.SetPaging(1, hasMore)
		} else {
			if !c.store.Append(epoch, records) {
				logging.Debug("sync: discarded stale page", "page", page)
				return nil
			}
			c.store.SetPaging(page+1, hasMore)
		}

		return NotificationsChangedMsg{UnreadCount: c.store.UnreadCount()}
	}
}

// LoadMore fetches the next page when the server has one.
func (c *Controller) LoadMore() tea.Cmd {
	if !c.store.HasMore() {
		return nil
	}
	return c.FetchPage(c.store.NextPage())
}

// MarkAsRead applies the read flag locally first, then confirms it with
// the server. A remote failure does not roll the flag back: read
// receipts are low-stakes and the next full refresh reconciles any
// divergence. The asymmetry with Delete is deliberate.
func (c *Controller) MarkAsRead(id int64) tea.Cmd {
	c.store.MarkRead(id)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()

		if err := c.client.MarkNotificationRead(ctx, id); err != nil {
			logging.Warn("sync: mark-read failed, keeping local state",
				"id", id, "error", err)
		}
		return NotificationsChangedMsg{UnreadCount: c.store.UnreadCount()}
	}
}

// Delete removes a notification remote-first: the record only leaves
// the store once the server confirms. Deletion is destructive, so a
// failure keeps the record visible and tells the user.
func (c *Controller) Delete(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), c.fetchTimeout)
		defer cancel()

		if err := c.client.DeleteNotification(ctx, id); err != nil {
			logging.Error("sync: delete failed", "id", id, "error", err)
			return SyncErrorMsg{
				Message: api.UserMessage(err, "Could not delete the notification."),
			}
		}

		c.store.Remove(id)
		return NotificationsChangedMsg{UnreadCount: c.store.UnreadCount()}
	}
}

// DeliveredMsg wraps a push-driven message read off the controller's
// channel. The wrapper lets the UI tell channel deliveries apart from
// ordinary command results, so it re-issues WaitForNext exactly once
// per delivery.
type DeliveredMsg struct {
	Msg tea.Msg
}

// WaitForNext returns a command that waits for the next push-driven
// message. It must be re-issued after each delivery to keep the
// subscription alive.
func (c *Controller) WaitForNext() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-c.resultCh
		if !ok {
			return nil
		}
		return DeliveredMsg{Msg: msg}
	}
}

// handleInbound receives decoded push events. Only "notification"
// events are actionable; everything else is ignored without error. The
// payload is never treated as a full record: the controller surfaces
// the message text and resynchronizes with a preview fetch, trading a
// round trip for correctness.
func (c *Controller) handleInbound(event push.Event) {
	if event.Event != push.EventNotification {
		return
	}

	if event.Message != "" {
		c.send(AlertMsg{Message: event.Message})
	}

	go func() {
		msg := c.fetchPreview()
		if msg != nil {
			c.send(msg)
		}
	}()
}

// handlePushState tracks channel health: a drop while active degrades
// the session to REST-only; a successful reconnect restores it.
func (c *Controller) handlePushState(s push.State) {
	switch s {
	case push.StateOpen:
		c.mu.Lock()
		if c.state == StateDegraded {
			c.state = StateActive
			c.mu.Unlock()
			c.send(StateMsg{State: StateActive})
			return
		}
		c.mu.Unlock()

	case push.StateClosed, push.StateFailed:
		c.mu.Lock()
		if c.state == StateActive {
			c.state = StateDegraded
			c.mu.Unlock()
			c.send(StateMsg{State: StateDegraded})
			return
		}
		c.mu.Unlock()
	}
}

// setState records a transition and notifies the UI.
func (c *Controller) setState(s SessionState) {
	c.mu.Lock()
	if c.state == s {
		c.mu.Unlock()
		return
	}
	c.state = s
	c.mu.Unlock()
	c.send(StateMsg{State: s})
}

// send posts a message to the UI without blocking; if the channel is
// full the message is dropped rather than stalling a network callback.
func (c *Controller) send(msg tea.Msg) {
	select {
	case c.resultCh <- msg:
	default:
	}
}
