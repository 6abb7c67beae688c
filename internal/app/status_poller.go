// internal/app/status_poller.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homework_status_bot/internal/domain/homework"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// HomeworkAPI fetches the raw status payload for everything changed since fromDate.
type HomeworkAPI interface {
	HomeworkStatuses(ctx context.Context, fromDate int64) (any, error)
}

// Recorder receives loop events for metrics. Implemented by infra/metrics.
type Recorder interface {
	PollFinished(outcome string)
	Failure(kind, disposition string)
	Notification(result string)
	CursorAdvanced(cursor int64)
}

// Sleeper blocks for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

const (
	dispositionNotify = "notify"
	dispositionSilent = "silent"

	failurePrefix = "Сбой в работе программы: "
)

// PollerConfig is built once at startup and handed to NewStatusPoller.
type PollerConfig struct {
	ChatID   int64
	Interval time.Duration
	Verdicts homework.Verdicts
}

// StatusPoller polls the homework API and forwards status changes to a Telegram chat.
// It is not safe for concurrent use; Run drives it from a single goroutine.
type StatusPoller struct {
	api      HomeworkAPI
	telegram domainTelegram.Client
	cfg      PollerConfig
	logger   *logrus.Entry
	metrics  Recorder
	now      func() time.Time
	sleep    Sleeper

	cursor      int64
	lastMessage string
}

type Option func(*StatusPoller)

func WithClock(now func() time.Time) Option {
	return func(p *StatusPoller) { p.now = now }
}

func WithSleeper(s Sleeper) Option {
	return func(p *StatusPoller) { p.sleep = s }
}

func WithRecorder(r Recorder) Option {
	return func(p *StatusPoller) { p.metrics = r }
}

func NewStatusPoller(cfg PollerConfig, api HomeworkAPI, tc domainTelegram.Client, logger *logrus.Entry, opts ...Option) *StatusPoller {
	p := &StatusPoller{
		api:      api,
		telegram: tc,
		cfg:      cfg,
		logger:   logger,
		metrics:  nopRecorder{},
		now:      time.Now,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.cursor = p.now().Unix()
	return p
}

// Cursor returns the from_date the next poll will use.
func (p *StatusPoller) Cursor() int64 { return p.cursor }

// LastMessage returns the last message handed to Telegram.
func (p *StatusPoller) LastMessage() string { return p.lastMessage }

// Run polls until ctx is cancelled. The interval sleep follows every cycle, failed or not.
func (p *StatusPoller) Run(ctx context.Context) error {
	p.logger.WithFields(logrus.Fields{
		"from_date": p.cursor,
		"interval":  p.cfg.Interval.String(),
		"chat_id":   p.cfg.ChatID,
	}).Info("Homework status poller started")

	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("Homework status poller stopped")
			return err
		}
		if err := p.iterate(ctx); err != nil {
			p.logger.Info("Homework status poller stopped")
			return err
		}
	}
}

func (p *StatusPoller) iterate(ctx context.Context) (err error) {
	defer func() {
		if sleepErr := p.sleep(ctx, p.cfg.Interval); sleepErr != nil {
			err = sleepErr
		}
	}()
	p.Cycle(ctx)
	return nil
}

// Cycle runs one poll-validate-interpret-notify pass without sleeping.
// A panic that escapes failure handling is logged and the cycle ends.
func (p *StatusPoller) Cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.WithField("panic", fmt.Sprint(r)).Error("Unexpected panic while handling cycle failure")
			p.metrics.Failure("unexpected", dispositionSilent)
		}
	}()
	if ctx.Err() != nil {
		return
	}
	if err := p.safePoll(ctx); err != nil {
		p.metrics.PollFinished("failed")
		p.handleFailure(ctx, err)
		return
	}
	p.metrics.PollFinished("ok")
}

// safePoll turns a panic anywhere below into an ordinary error so one bad cycle cannot stop the loop.
func (p *StatusPoller) safePoll(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected panic: %v", r)
		}
	}()
	return p.poll(ctx)
}

func (p *StatusPoller) poll(ctx context.Context) error {
	log := p.logger.WithField("from_date", p.cursor)
	log.Debug("Requesting homework statuses")

	raw, err := p.api.HomeworkStatuses(ctx, p.cursor)
	if err != nil {
		return err
	}

	log.Debug("Checking API response")
	batch, err := homework.CheckResponse(raw)
	if err != nil {
		return err
	}
	p.cursor = batch.CurrentDate
	p.metrics.CursorAdvanced(p.cursor)

	message := homework.NoNewStatuses
	if first, ok := batch.First(); ok {
		log.Debug("Parsing homework status")
		message, err = p.cfg.Verdicts.ParseStatus(first)
		if err != nil {
			return err
		}
	}

	p.deliver(ctx, message)
	return nil
}

// deliver sends message unless it equals the previous one. Delivery errors are logged and dropped;
// the message is remembered either way.
func (p *StatusPoller) deliver(ctx context.Context, message string) {
	if message == p.lastMessage {
		p.logger.Info(message)
		p.metrics.Notification("skipped")
		return
	}

	if err := p.send(ctx, message); err != nil {
		p.logger.WithError(err).Error("Failed to send message to Telegram")
		p.metrics.Notification("failed")
		p.metrics.Failure(failureKind(err), dispositionSilent)
	} else {
		p.logger.WithField("chat_id", p.cfg.ChatID).Debug("Message sent to Telegram")
		p.metrics.Notification("sent")
	}
	p.lastMessage = message
}

// send reports a panicking Telegram client as a delivery failure.
func (p *StatusPoller) send(ctx context.Context, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: unexpected panic: %v", homework.ErrDelivery, r)
		}
	}()
	return p.telegram.SendMessage(ctx, p.cfg.ChatID, message)
}

func (p *StatusPoller) handleFailure(ctx context.Context, err error) {
	kind := failureKind(err)
	log := p.logger.WithError(err).WithFields(logrus.Fields{
		"kind":      kind,
		"from_date": p.cursor,
	})

	var endpointErr *homework.EndpointError
	if errors.As(err, &endpointErr) {
		log = log.WithField("response_body", endpointErr.Body)
	}

	if ctx.Err() != nil {
		log.Info("Cycle interrupted by shutdown")
		return
	}

	if isSilent(err) {
		log.Error("Cycle failed, not notifying")
		p.metrics.Failure(kind, dispositionSilent)
		return
	}

	message := failurePrefix + err.Error()
	log.Error(message)
	p.metrics.Failure(kind, dispositionNotify)
	p.deliver(ctx, message)
}

// isSilent reports failures that must never reach the chat.
func isSilent(err error) bool {
	return errors.Is(err, homework.ErrEmptyResponse) || errors.Is(err, homework.ErrDelivery)
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, homework.ErrEndpointUnavailable):
		return "endpoint_unavailable"
	case errors.Is(err, homework.ErrTransport):
		return "transport"
	case errors.Is(err, homework.ErrMalformedJSON):
		return "malformed_json"
	case errors.Is(err, homework.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, homework.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, homework.ErrMissingField):
		return "missing_field"
	case errors.Is(err, homework.ErrUnknownStatus):
		return "unknown_status"
	case errors.Is(err, homework.ErrDelivery):
		return "delivery"
	default:
		return "unexpected"
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type nopRecorder struct{}

func (nopRecorder) PollFinished(string)    {}
func (nopRecorder) Failure(string, string) {}
func (nopRecorder) Notification(string)    {}
func (nopRecorder) CursorAdvanced(int64)   {}
