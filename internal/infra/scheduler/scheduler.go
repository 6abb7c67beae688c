package scheduler

import (
	"fmt"
	"time"

	"homework_status_bot/internal/infra/metrics"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Summarizer provides the loop counters reported by the heartbeat.
type Summarizer interface {
	Summarize() (metrics.Summary, error)
}

// HeartbeatScheduler periodically logs a summary of the polling loop.
type HeartbeatScheduler struct {
	cronEngine *cron.Cron
	source     Summarizer
	logger     *logrus.Entry
	cronSpec   string
	startedAt  time.Time
}

func NewHeartbeatScheduler(source Summarizer, logger *logrus.Entry, cronSpec string) *HeartbeatScheduler {
	return &HeartbeatScheduler{
		cronEngine: cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		source:     source,
		logger:     logger,
		cronSpec:   cronSpec,
	}
}

func (s *HeartbeatScheduler) Start() error {
	s.logger.Info("Starting heartbeat scheduler...")
	s.startedAt = time.Now()

	if _, err := s.cronEngine.AddFunc(s.cronSpec, s.Beat); err != nil {
		return fmt.Errorf("could not add heartbeat cron job %q: %w", s.cronSpec, err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpec).Info("Heartbeat scheduler started.")
	return nil
}

// Beat logs one summary line.
func (s *HeartbeatScheduler) Beat() {
	summary, err := s.source.Summarize()
	if err != nil {
		s.logger.WithError(err).Error("Could not collect heartbeat summary")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"uptime":         time.Since(s.startedAt).Round(time.Second).String(),
		"polls":          summary.Polls,
		"failures":       summary.Failures,
		"sent":           summary.Sent,
		"skipped":        summary.Skipped,
		"delivery_fails": summary.DeliveryFails,
		"from_date":      summary.Cursor,
	}).Info("Heartbeat")
}

func (s *HeartbeatScheduler) Stop() {
	s.logger.Info("Stopping heartbeat scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Heartbeat scheduler gracefully stopped.")
}
