package reports

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ndnguyen/agora/internal/api"
	"github.com/ndnguyen/agora/internal/keys"
)

func TestFirstRenderShowsLoadingState(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", "test-token", time.Second, 5)
	m := New(client, keys.DefaultKeyMap(), 80, 24)

	assert.Contains(t, m.View(), "Loading moderation queue")
}

func TestFailedLoadClearsLoadingState(t *testing.T) {
	client := api.NewClient("http://127.0.0.1:1", "test-token", time.Second, 5)
	m := New(client, keys.DefaultKeyMap(), 80, 24)

	m, _ = m.Update(ReportsLoadedMsg{Err: errors.New("connection refused")})

	assert.Contains(t, m.View(), "No pending reports")
}
