package scheduler

import (
	"errors"
	"testing"

	"homework_status_bot/internal/infra/metrics"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	summary metrics.Summary
	err     error
}

func (f fakeSummarizer) Summarize() (metrics.Summary, error) {
	return f.summary, f.err
}

func TestHeartbeat_Beat(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewHeartbeatScheduler(fakeSummarizer{summary: metrics.Summary{Polls: 4, Sent: 2, Cursor: 1000}}, logrus.NewEntry(logger), "@every 1h")

	s.Beat()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "Heartbeat", entry.Message)
	assert.Equal(t, 4.0, entry.Data["polls"])
	assert.Equal(t, 2.0, entry.Data["sent"])
	assert.Equal(t, int64(1000), entry.Data["from_date"])
}

func TestHeartbeat_BeatError(t *testing.T) {
	logger, hook := test.NewNullLogger()
	s := NewHeartbeatScheduler(fakeSummarizer{err: errors.New("gather failed")}, logrus.NewEntry(logger), "@every 1h")

	s.Beat()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestHeartbeat_StartStop(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewHeartbeatScheduler(metrics.New(), logrus.NewEntry(logger), "@every 1h")

	require.NoError(t, s.Start())
	s.Stop()
}

func TestHeartbeat_InvalidSpec(t *testing.T) {
	logger, _ := test.NewNullLogger()
	s := NewHeartbeatScheduler(metrics.New(), logrus.NewEntry(logger), "not a cron spec")

	assert.Error(t, s.Start())
}
