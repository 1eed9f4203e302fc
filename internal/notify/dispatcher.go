package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"readyToHelp/internal/domain"
)

const (
	MaxSends        = 5
	DefaultInterval = time.Minute
)

// Channel delivers one notification. Implementations must be safe for
// concurrent use.
type Channel interface {
	Send(ctx context.Context, req domain.NotificationRequest) error
}

// Dispatcher sends notifications once or on a schedule. Repeated sends run
// as tracked goroutines that Close cancels and waits for.
type Dispatcher struct {
	channel Channel
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(channel Channel, logger *slog.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		channel: channel,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
		ctx:     ctx,
		cancel:  cancel,
	}
}

// WithClock replaces the timestamp source.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// NotifyOnce stamps req with the dispatch time and sends it. Failures are
// logged and returned; a cancelled ctx is returned as is.
func (d *Dispatcher) NotifyOnce(ctx context.Context, req domain.NotificationRequest) error {
	const op = "notify.Dispatcher.NotifyOnce"

	if err := ctx.Err(); err != nil {
		return err
	}

	err := d.channel.Send(ctx, req.Stamped(d.now()))
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	d.logger.Error("notification failed",
		slog.String("op", op),
		slog.String("occurrence_id", req.OccurrenceID.String()),
		slog.Any("error", err),
	)
	return err
}

// NotifyRepeated sends req totalSends times, interval apart, starting now.
// totalSends is clamped to [1, MaxSends]; a non-positive interval means
// DefaultInterval. Cancelling ctx or the returned Task skips the remaining
// sends; a send already in flight is allowed to finish.
func (d *Dispatcher) NotifyRepeated(ctx context.Context, req domain.NotificationRequest, totalSends int, interval time.Duration) *Task {
	const op = "notify.Dispatcher.NotifyRepeated"

	sends := clamp(totalSends, 1, MaxSends)
	if interval <= 0 {
		interval = DefaultInterval
	}

	taskCtx, cancel := context.WithCancel(ctx)
	task := &Task{cancel: cancel, done: make(chan struct{})}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		cancel()
		close(task.done)
		return task
	}
	d.wg.Add(1)
	d.mu.Unlock()

	stop := context.AfterFunc(d.ctx, cancel)
	go func() {
		defer d.wg.Done()
		defer close(task.done)
		defer stop()
		defer cancel()

		for i := 1; i <= sends; i++ {
			if i > 1 {
				// The delay starts once the previous send returns, so sends
				// are never closer than interval.
				timer := time.NewTimer(interval)
				select {
				case <-taskCtx.Done():
					timer.Stop()
					d.logger.Info("repeated notification cancelled",
						slog.String("occurrence_id", req.OccurrenceID.String()),
						slog.Int("sent", int(task.sent.Load())),
						slog.Int("planned", sends),
					)
					return
				case <-timer.C:
				}
			}
			if taskCtx.Err() != nil {
				return
			}

			err := d.channel.Send(context.WithoutCancel(taskCtx), req.Stamped(d.now()))
			task.sent.Add(1)
			if err != nil {
				task.failed.Add(1)
				d.logger.Warn("notification attempt failed",
					slog.String("op", op),
					slog.String("occurrence_id", req.OccurrenceID.String()),
					slog.Int("attempt", i),
					slog.Any("error", err),
				)
			}
		}
	}()

	return task
}

// NotifyForMinutes sends req once a minute for minutes minutes, clamped to
// [1, MaxSends].
func (d *Dispatcher) NotifyForMinutes(ctx context.Context, req domain.NotificationRequest, minutes int) *Task {
	return d.NotifyRepeated(ctx, req, clamp(minutes, 1, MaxSends), time.Minute)
}

// Wait blocks until every repeated notification has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Close cancels pending repeated notifications and waits for them until ctx
// expires. Tasks started after Close finish immediately without sending.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.cancel()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Task is a handle on a running repeated notification.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	sent   atomic.Int32
	failed atomic.Int32
}

// Cancel stops future sends. It does not wait.
func (t *Task) Cancel() {
	if t != nil && t.cancel != nil {
		t.cancel()
	}
}

// Done is closed once the task stops sending.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Sent counts send attempts, failed ones included.
func (t *Task) Sent() int { return int(t.sent.Load()) }

func (t *Task) Failed() int { return int(t.failed.Load()) }
