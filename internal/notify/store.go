// Package notify holds the in-memory notification state shared by every
// display surface (badge, panel, full page). The store is a pure state
// container: it never performs I/O and every operation is total.
package notify

import (
	"sort"
	"sync"

	"github.com/ndnguyen/agora/internal/model"
)

// Store is the authoritative in-memory set of known notifications and
// their read state. The sync controller is its only writer; display
// surfaces read derived views. State lives only for the session: there
// is no persistence across runs.
type Store struct {
	mu      sync.RWMutex
	records map[int64]model.Notification
	order   []int64

	// epoch increments on every full replacement or reset. Paginated
	// appends issued under an older epoch are discarded, so a stale
	// in-flight page can never land after a reset.
	epoch uint64

	nextPage int
	hasMore  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		records: make(map[int64]model.Notification),
	}
}

// Epoch returns the current generation counter. Callers capture it
// before issuing a paginated fetch and pass it back to Append.
func (s *Store) Epoch() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// ReplaceAll replaces the entire contents with records, re-sorted into
// display order. It advances the epoch, invalidating in-flight appends.
func (s *Store) ReplaceAll(records []model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int64]model.Notification, len(records))
	for _, r := range records {
		s.records[r.ID] = r
	}
	s.rebuildOrderLocked()
	s.epoch++
	s.nextPage = 1
	s.hasMore = false
}

// Append merges records fetched under the given epoch. Records with new
// ids are inserted; an id already present keeps its current read state
// unless the incoming copy is explicitly read, so a merge never
// regresses read to unread. Returns false without mutating when the
// epoch is stale (the store was replaced or reset since the fetch was
// issued).
func (s *Store) Append(epoch uint64, records []model.Notification) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if epoch != s.epoch {
		return false
	}

	for _, r := range records {
		if existing, ok := s.records[r.ID]; ok {
			r.Read = existing.Read || r.Read
		}
		s.records[r.ID] = r
	}
	s.rebuildOrderLocked()
	return true
}

// MarkRead sets the record's read flag. Unknown ids are a no-op: the
// server is the source of truth and a late or duplicate event must not
// fault the UI. A removed id is never resurrected.
func (s *Store) MarkRead(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return
	}
	r.Read = true
	s.records[id] = r
}

// Remove deletes the record. Unknown ids are a no-op.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return
	}
	delete(s.records, id)
	s.rebuildOrderLocked()
}

// Reset empties the store (logout) and advances the epoch.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[int64]model.Notification)
	s.order = nil
	s.epoch++
	s.nextPage = 0
	s.hasMore = false
}

// UnreadCount returns the exact number of unread records. Display
// capping ("5+") belongs to the badge surface.
func (s *Store) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, r := range s.records {
		if !r.Read {
			count++
		}
	}
	return count
}

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ordered returns a snapshot of the records in display order, newest
// first with ties broken by higher id.
func (s *Store) Ordered() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.records[id])
	}
	return out
}

// SetPaging records the pagination cursor: the next page to request and
// whether the server has more pages.
func (s *Store) SetPaging(nextPage int, hasMore bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextPage = nextPage
	s.hasMore = hasMore
}

// NextPage returns the next page index to request.
func (s *Store) NextPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nextPage
}

// HasMore reports whether another page is available.
func (s *Store) HasMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

// rebuildOrderLocked re-sorts the materialized id sequence. Caller must
// hold the write lock. Always called after any merge so out-of-order
// network completions cannot corrupt the display order.
func (s *Store) rebuildOrderLocked() {
	s.order = s.order[:0]
	for id := range s.records {
		s.order = append(s.order, id)
	}
	sort.Slice(s.order, func(i, j int) bool {
		return s.records[s.order[i]].Before(s.records[s.order[j]])
	})
}
