package workers

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"
)

//go:generate mockgen -source=notification_relay.go -destination=mocks/mock.go
type NotificationSource interface {
	BRPop(ctx context.Context, timeout time.Duration) (domain.NotificationRequest, error)
}

type NotificationSink interface {
	Send(ctx context.Context, n domain.NotificationRequest) error
}

// NotificationRelay drains the notification queue into the delivery channel
// with a pool of workers.
type NotificationRelay struct {
	source     NotificationSource
	sink       NotificationSink
	logger     *slog.Logger
	poolSize   int
	maxRetries int
	popTimeout time.Duration
	backoff    time.Duration
}

func NewNotificationRelay(source NotificationSource, sink NotificationSink, logger *slog.Logger, poolSize, maxRetries int) *NotificationRelay {
	if poolSize <= 0 {
		poolSize = 1
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &NotificationRelay{
		source:     source,
		sink:       sink,
		logger:     logger,
		poolSize:   poolSize,
		maxRetries: maxRetries,
		popTimeout: 5 * time.Second,
		backoff:    time.Second,
	}
}

// WithTiming overrides the pop timeout and the retry backoff unit.
func (w *NotificationRelay) WithTiming(popTimeout, backoff time.Duration) *NotificationRelay {
	w.popTimeout = popTimeout
	w.backoff = backoff
	return w
}

// Run blocks until ctx is cancelled and every worker has returned.
func (w *NotificationRelay) Run(ctx context.Context) {
	w.logger.Info("notification relay STARTED", slog.Int("workers", w.poolSize))

	var wg sync.WaitGroup
	for i := 0; i < w.poolSize; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.worker(ctx, id)
		}(i)
	}
	wg.Wait()

	w.logger.Info("notification relay STOPPED", slog.String("reason", context.Cause(ctx).Error()))
}

func (w *NotificationRelay) worker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := w.source.BRPop(ctx, w.popTimeout)
		if err != nil {
			if errors.Is(err, e.ErrQueueEmpty) {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("BRPop failed", slog.Int("worker", id), slog.Any("error", err))
			if !sleepCtx(ctx, 500*time.Millisecond) {
				return
			}
			continue
		}

		w.deliver(ctx, n)
	}
}

func (w *NotificationRelay) deliver(ctx context.Context, n domain.NotificationRequest) {
	for attempt := 1; attempt <= w.maxRetries; attempt++ {
		err := w.sink.Send(ctx, n)
		if err == nil {
			return
		}
		if ctx.Err() != nil {
			w.logger.Info("stop retries due to context cancel",
				slog.String("occurrence_id", n.OccurrenceID.String()))
			return
		}

		w.logger.Warn("notification delivery failed",
			slog.Int("attempt", attempt),
			slog.String("occurrence_id", n.OccurrenceID.String()),
			slog.Any("error", err),
		)

		if attempt < w.maxRetries && !sleepCtx(ctx, time.Duration(attempt)*w.backoff) {
			return
		}
	}

	w.logger.Error("notification dropped after retries",
		slog.String("occurrence_id", n.OccurrenceID.String()),
		slog.Int("attempts", w.maxRetries),
	)
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
