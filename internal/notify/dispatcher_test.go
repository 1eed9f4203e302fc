package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/notify"
	"readyToHelp/pkg/logger"
)

type recorder struct {
	mu   sync.Mutex
	got  []domain.NotificationRequest
	ctxs []context.Context
	err  error
	sent chan struct{}

	entered chan struct{}
	block   chan struct{}
}

func newRecorder(err error) *recorder {
	return &recorder{err: err, sent: make(chan struct{}, 16)}
}

func (r *recorder) Send(ctx context.Context, n domain.NotificationRequest) error {
	if r.block != nil {
		r.entered <- struct{}{}
		<-r.block
	}
	r.mu.Lock()
	r.got = append(r.got, n)
	r.ctxs = append(r.ctxs, ctx)
	r.mu.Unlock()
	r.sent <- struct{}{}
	return r.err
}

func (r *recorder) requests() []domain.NotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.NotificationRequest(nil), r.got...)
}

func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 12, 23, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func sampleRequest() domain.NotificationRequest {
	return domain.NotificationRequest{
		Category:     domain.FireBrigade,
		OccurrenceID: uuid.New(),
		Title:        "Forest fire",
		Message:      "Occurrence confirmed by 3 reports",
	}
}

func waitDone(t *testing.T, task *notify.Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
	}
}

func TestNotifyRepeated_ContinuesAfterFailures(t *testing.T) {
	t.Parallel()

	rec := newRecorder(errors.New("notifier down"))
	d := notify.NewDispatcher(rec, logger.Discard()).WithClock(tickingClock())

	task := d.NotifyRepeated(context.Background(), sampleRequest(), 3, time.Millisecond)
	waitDone(t, task)

	got := rec.requests()
	require.Len(t, got, 3)
	assert.Equal(t, 3, task.Sent())
	assert.Equal(t, 3, task.Failed())
	for i := 1; i < len(got); i++ {
		assert.True(t, got[i].Timestamp.After(got[i-1].Timestamp), "timestamps must increase")
	}
}

func TestNotifyRepeated_ClampsSends(t *testing.T) {
	t.Parallel()

	cases := []struct {
		requested int
		want      int
	}{
		{0, 1},
		{-3, 1},
		{2, 2},
		{10, notify.MaxSends},
	}

	for _, c := range cases {
		rec := newRecorder(nil)
		d := notify.NewDispatcher(rec, logger.Discard())
		task := d.NotifyRepeated(context.Background(), sampleRequest(), c.requested, time.Millisecond)
		waitDone(t, task)
		assert.Lenf(t, rec.requests(), c.want, "requested %d", c.requested)
	}
}

func TestNotifyRepeated_CancelStopsFutureSends(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	d := notify.NewDispatcher(rec, logger.Discard())

	task := d.NotifyRepeated(context.Background(), sampleRequest(), 5, time.Hour)
	<-rec.sent
	task.Cancel()
	waitDone(t, task)

	assert.Len(t, rec.requests(), 1)
}

func TestNotifyRepeated_ContextCancelStopsFutureSends(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	d := notify.NewDispatcher(rec, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	task := d.NotifyRepeated(ctx, sampleRequest(), 5, time.Hour)
	<-rec.sent
	cancel()
	waitDone(t, task)

	assert.Len(t, rec.requests(), 1)
}

func TestNotifyRepeated_InFlightSendIsNotAborted(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	rec.block = make(chan struct{})
	rec.entered = make(chan struct{}, 1)
	d := notify.NewDispatcher(rec, logger.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	task := d.NotifyRepeated(ctx, sampleRequest(), 5, time.Hour)
	<-rec.entered
	cancel()
	close(rec.block)
	waitDone(t, task)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, sendCtx := range rec.ctxs {
		assert.NoError(t, sendCtx.Err(), "send context must outlive cancellation")
	}
	assert.Len(t, rec.got, 1)
}

func TestDispatcher_CloseCancelsPendingTasks(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	d := notify.NewDispatcher(rec, logger.Discard())

	task := d.NotifyRepeated(context.Background(), sampleRequest(), 5, time.Hour)
	<-rec.sent

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	waitDone(t, task)
	assert.Equal(t, 1, task.Sent())
}

type stampingChannel struct {
	mu       sync.Mutex
	arrivals []time.Time
}

func (c *stampingChannel) Send(context.Context, domain.NotificationRequest) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arrivals = append(c.arrivals, time.Now())
	return nil
}

func TestNotifyRepeated_SpacesSendsByInterval(t *testing.T) {
	t.Parallel()

	const interval = 50 * time.Millisecond
	ch := &stampingChannel{}
	d := notify.NewDispatcher(ch, logger.Discard())

	start := time.Now()
	task := d.NotifyRepeated(context.Background(), sampleRequest(), 3, interval)
	waitDone(t, task)

	ch.mu.Lock()
	defer ch.mu.Unlock()
	require.Len(t, ch.arrivals, 3)
	first := ch.arrivals[0].Sub(start)
	assert.Truef(t, first < interval, "first send waited %v", first)
	for i := 1; i < len(ch.arrivals); i++ {
		gap := ch.arrivals[i].Sub(ch.arrivals[i-1])
		assert.Truef(t, gap >= interval, "send %d came %v after the previous one", i+1, gap)
	}
}

func TestDispatcher_NotifyAfterCloseDoesNotSend(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	d := notify.NewDispatcher(rec, logger.Discard())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	task := d.NotifyRepeated(context.Background(), sampleRequest(), 3, time.Millisecond)
	waitDone(t, task)

	assert.Equal(t, 0, task.Sent())
	assert.Empty(t, rec.requests())
	d.Wait()
}

func TestDispatcher_CloseDuringStartsWaitsForAll(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	rec.sent = make(chan struct{}, 64)
	d := notify.NewDispatcher(rec, logger.Discard())

	var wg sync.WaitGroup
	tasks := make([]*notify.Task, 16)
	for i := range tasks {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			tasks[i] = d.NotifyRepeated(context.Background(), sampleRequest(), 2, time.Hour)
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))
	wg.Wait()

	for _, task := range tasks {
		waitDone(t, task)
		assert.LessOrEqual(t, task.Sent(), 1)
	}
}

func TestNotifyForMinutes_FirstSendIsImmediate(t *testing.T) {
	t.Parallel()

	rec := newRecorder(nil)
	d := notify.NewDispatcher(rec, logger.Discard())

	task := d.NotifyForMinutes(context.Background(), sampleRequest(), 0)
	select {
	case <-rec.sent:
	case <-time.After(5 * time.Second):
		t.Fatal("first send did not happen immediately")
	}
	task.Cancel()
	waitDone(t, task)
	assert.Equal(t, 1, task.Sent())
}

func TestNotifyOnce(t *testing.T) {
	t.Parallel()

	t.Run("stamps and sends", func(t *testing.T) {
		rec := newRecorder(nil)
		d := notify.NewDispatcher(rec, logger.Discard()).WithClock(tickingClock())

		req := sampleRequest()
		require.NoError(t, d.NotifyOnce(context.Background(), req))

		got := rec.requests()
		require.Len(t, got, 1)
		assert.False(t, got[0].Timestamp.IsZero())
		assert.Equal(t, req.OccurrenceID, got[0].OccurrenceID)
	})

	t.Run("returns failure", func(t *testing.T) {
		boom := errors.New("boom")
		d := notify.NewDispatcher(newRecorder(boom), logger.Discard())
		assert.ErrorIs(t, d.NotifyOnce(context.Background(), sampleRequest()), boom)
	})

	t.Run("cancelled context is not sent", func(t *testing.T) {
		rec := newRecorder(nil)
		d := notify.NewDispatcher(rec, logger.Discard())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, d.NotifyOnce(ctx, sampleRequest()), context.Canceled)
		assert.Empty(t, rec.requests())
	})
}
