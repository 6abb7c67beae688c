package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
)

const namespace = "homework_bot"

// Metrics holds the collectors describing the polling loop.
// Each instance owns its registry so several can coexist in tests.
type Metrics struct {
	Registry *prometheus.Registry

	Polls         *prometheus.CounterVec
	Failures      *prometheus.CounterVec
	Notifications *prometheus.CounterVec
	Cursor        prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{Registry: prometheus.NewRegistry()}

	m.Polls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "polls_total",
			Help:      "Poll cycles by outcome.",
		},
		[]string{"outcome"},
	)

	m.Failures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures_total",
			Help:      "Cycle failures by kind and disposition.",
		},
		[]string{"kind", "disposition"},
	)

	m.Notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Telegram notifications by result (sent, failed, skipped).",
		},
		[]string{"result"},
	)

	m.Cursor = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "poll_cursor",
			Help:      "Current from_date sent to the API, in Unix seconds.",
		},
	)

	m.Registry.MustRegister(m.Polls, m.Failures, m.Notifications, m.Cursor)
	return m
}

func (m *Metrics) PollFinished(outcome string) {
	m.Polls.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Failure(kind, disposition string) {
	m.Failures.WithLabelValues(kind, disposition).Inc()
}

func (m *Metrics) Notification(result string) {
	m.Notifications.WithLabelValues(result).Inc()
}

func (m *Metrics) CursorAdvanced(cursor int64) {
	m.Cursor.Set(float64(cursor))
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is cancelled.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *logrus.Entry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Warn("Metrics server shutdown failed")
		}
	}()

	logger.WithField("addr", addr).Info("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// Summary is a point-in-time digest of the counters.
type Summary struct {
	Polls         float64
	Failures      float64
	Sent          float64
	Skipped       float64
	DeliveryFails float64
	Cursor        int64
}

// Summarize reads the current values back from the registry.
func (m *Metrics) Summarize() (Summary, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return Summary{}, fmt.Errorf("gathering metrics: %w", err)
	}

	var s Summary
	for _, mf := range families {
		switch mf.GetName() {
		case namespace + "_polls_total":
			s.Polls = sumCounters(mf.GetMetric(), "", "")
		case namespace + "_failures_total":
			s.Failures = sumCounters(mf.GetMetric(), "", "")
		case namespace + "_notifications_total":
			s.Sent = sumCounters(mf.GetMetric(), "result", "sent")
			s.Skipped = sumCounters(mf.GetMetric(), "result", "skipped")
			s.DeliveryFails = sumCounters(mf.GetMetric(), "result", "failed")
		case namespace + "_poll_cursor":
			if ms := mf.GetMetric(); len(ms) > 0 {
				s.Cursor = int64(ms[0].GetGauge().GetValue())
			}
		}
	}
	return s, nil
}

// sumCounters adds up counters, optionally only those where label == value.
func sumCounters(ms []*dto.Metric, label, value string) float64 {
	var total float64
	for _, metric := range ms {
		if label != "" && !hasLabel(metric, label, value) {
			continue
		}
		total += metric.GetCounter().GetValue()
	}
	return total
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
