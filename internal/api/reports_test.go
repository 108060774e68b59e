package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndnguyen/agora/internal/model"
)

func TestResolveReportRefusesNonPending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	client := newTestClient(srv)

	err := client.ResolveReport(context.Background(), model.Report{
		ID:     3,
		Status: model.ReportAccepted,
	}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already accepted")
}

func TestResolveReportPostsAction(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.Method + " " + r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{"result": "ok"})
	}))
	defer srv.Close()

	client := newTestClient(srv)

	err := client.ResolveReport(context.Background(), model.Report{
		ID:     3,
		Status: model.ReportPending,
	}, false)
	require.NoError(t, err)
	assert.Equal(t, "POST /reports/3/reject", gotPath)
}
