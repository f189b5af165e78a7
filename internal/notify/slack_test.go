package notify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/opspulse/pool-watcher/internal/notify"
	"github.com/opspulse/pool-watcher/internal/watcher"
)

func TestSlackNotifier_SendsExpectedPayload(t *testing.T) {
	var gotBody []byte
	var gotHeader http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeader = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	n := notify.NewSlackNotifier(server.URL)
	err := n.Send(context.Background(), watcher.AlertFailover, "Failover detected! From blue to green")
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
	assert.Equal(t, "failover", gotHeader.Get("X-Alert-Type"))
	assert.NotEmpty(t, gotHeader.Get("X-Alert-ID"))

	body := gjson.ParseBytes(gotBody)
	assert.Equal(t, "🚨 Blue/Green Alert: Failover detected! From blue to green", body.Get("text").String())
	assert.Equal(t, "Deployment Monitor", body.Get("username").String())
	assert.Equal(t, ":warning:", body.Get("icon_emoji").String())
	assert.Equal(t, "failover", body.Get("alert_type").String())
}

func TestSlackNotifier_JSONErrorBodySurfacesReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"error":"invalid_token"}`))
	}))
	defer server.Close()

	n := notify.NewSlackNotifier(server.URL)
	err := n.Send(context.Background(), watcher.AlertErrorRate, "elevated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "invalid_token")
}

func TestSlackNotifier_PlainErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusNotFound)
	}))
	defer server.Close()

	n := notify.NewSlackNotifier(server.URL)
	err := n.Send(context.Background(), watcher.AlertInfo, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestSlackNotifier_TransportError(t *testing.T) {
	// Point at a closed server so the dial fails.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	n := notify.NewSlackNotifier(server.URL)
	err := n.Send(context.Background(), watcher.AlertInfo, "hello")
	assert.Error(t, err)
}
