package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnguyen/agora/internal/model"
)

func notif(id int64, createdAt time.Time, read bool) model.Notification {
	return model.Notification{
		ID:        id,
		Kind:      model.KindInfo,
		Message:   "message",
		Read:      read,
		CreatedAt: createdAt,
	}
}

func TestOrderedNewestFirst(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.ReplaceAll([]model.Notification{
		notif(1, base, false),
		notif(3, base.Add(2*time.Hour), false),
		notif(2, base.Add(time.Hour), false),
	})

	got := s.Ordered()
	require.Len(t, got, 3)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, int64(2), got[1].ID)
	assert.Equal(t, int64(1), got[2].ID)
}

func TestOrderedTiesBreakOnID(t *testing.T) {
	s := NewStore()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.ReplaceAll([]model.Notification{
		notif(5, at, false),
		notif(9, at, false),
		notif(7, at, false),
	})

	got := s.Ordered()
	require.Len(t, got, 3)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, int64(7), got[1].ID)
	assert.Equal(t, int64(5), got[2].ID)
}

func TestAppendDeduplicatesByID(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.ReplaceAll([]model.Notification{
		notif(1, base, false),
		notif(2, base.Add(time.Minute), false),
	})

	ok := s.Append(s.Epoch(), []model.Notification{
		notif(2, base.Add(time.Minute), false),
		notif(3, base.Add(2*time.Minute), false),
	})
	require.True(t, ok)
	assert.Equal(t, 3, s.Len())
}

func TestAppendNeverRegressesReadState(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.ReplaceAll([]model.Notification{notif(1, base, false)})
	s.MarkRead(1)

	// A page fetched before the mark-read still carries read=false.
	ok := s.Append(s.Epoch(), []model.Notification{notif(1, base, false)})
	require.True(t, ok)

	got := s.Ordered()
	require.Len(t, got, 1)
	assert.True(t, got[0].Read, "locally applied read flag must survive a stale append")
}

func TestAppendWithStaleEpochIsDiscarded(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.ReplaceAll([]model.Notification{notif(1, base, false)})
	stale := s.Epoch()

	// Session teardown bumps the epoch.
	s.Reset()

	ok := s.Append(stale, []model.Notification{notif(2, base.Add(time.Minute), false)})
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len(), "a page issued before reset must not resurrect rows")
}

func TestReplaceAllBumpsEpoch(t *testing.T) {
	s := NewStore()
	before := s.Epoch()

	s.ReplaceAll(nil)
	assert.Greater(t, s.Epoch(), before)
}

func TestMarkReadUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ReplaceAll([]model.Notification{notif(1, base, false)})

	s.MarkRead(999)

	assert.Equal(t, 1, s.UnreadCount())
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ReplaceAll([]model.Notification{notif(1, base, false)})

	s.Remove(999)

	assert.Equal(t, 1, s.Len())
}

func TestRemoveWinsOverMarkRead(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ReplaceAll([]model.Notification{notif(1, base, false)})

	s.Remove(1)
	s.MarkRead(1)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
}

func TestUnreadCountTracksMutations(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s.ReplaceAll([]model.Notification{
		notif(1, base, false),
		notif(2, base.Add(time.Minute), true),
		notif(3, base.Add(2*time.Minute), false),
	})
	require.Equal(t, 2, s.UnreadCount())

	s.MarkRead(1)
	assert.Equal(t, 1, s.UnreadCount())

	s.Remove(3)
	assert.Equal(t, 0, s.UnreadCount())
}

func TestResetClearsEverything(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ReplaceAll([]model.Notification{notif(1, base, false)})
	s.SetPaging(3, true)

	s.Reset()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.UnreadCount())
	assert.False(t, s.HasMore())
}

func TestOrderedReturnsSnapshot(t *testing.T) {
	s := NewStore()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ReplaceAll([]model.Notification{notif(1, base, false)})

	got := s.Ordered()
	got[0].Message = "mutated"

	fresh := s.Ordered()
	assert.Equal(t, "message", fresh[0].Message)
}
