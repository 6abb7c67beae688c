package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	m := New()

	assert.NotNil(t, m.Registry)
	assert.NotNil(t, m.Polls)
	assert.NotNil(t, m.Failures)
	assert.NotNil(t, m.Notifications)
	assert.NotNil(t, m.Cursor)

	// Independent registries must not collide.
	assert.NotPanics(t, func() { New() })
}

func TestRecorderMethods(t *testing.T) {
	m := New()

	m.PollFinished("ok")
	m.PollFinished("ok")
	m.PollFinished("failed")
	m.Failure("endpoint_unavailable", "notify")
	m.Notification("sent")
	m.Notification("skipped")
	m.Notification("skipped")
	m.CursorAdvanced(1000)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Polls.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Failures.WithLabelValues("endpoint_unavailable", "notify")))
	assert.Equal(t, 1000.0, testutil.ToFloat64(m.Cursor))

	s, err := m.Summarize()
	require.NoError(t, err)
	assert.Equal(t, Summary{Polls: 3, Failures: 1, Sent: 1, Skipped: 2, Cursor: 1000}, s)
}

func TestSummarize_Empty(t *testing.T) {
	s, err := New().Summarize()
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
}

func TestHandler(t *testing.T) {
	m := New()
	m.Notification("sent")

	ts := httptest.NewServer(m.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `homework_bot_notifications_total{result="sent"} 1`)
}
