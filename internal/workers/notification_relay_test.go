package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/workers"
	mock_workers "readyToHelp/internal/workers/mocks"
	"readyToHelp/pkg/e"
	"readyToHelp/pkg/logger"
)

func blockUntilDone(ctx context.Context, _ time.Duration) (domain.NotificationRequest, error) {
	<-ctx.Done()
	return domain.NotificationRequest{}, ctx.Err()
}

func runRelay(t *testing.T, ctx context.Context, relay *workers.NotificationRelay) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		relay.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("relay did not stop")
	}
}

func TestNotificationRelay_RetriesUntilDelivered(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mock_workers.NewMockNotificationSource(ctrl)
	sink := mock_workers.NewMockNotificationSink(ctrl)

	n := domain.NotificationRequest{OccurrenceID: uuid.New(), Category: domain.Police}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(n, nil).Times(1)
	source.EXPECT().BRPop(gomock.Any(), gomock.Any()).DoAndReturn(blockUntilDone).AnyTimes()

	var calls atomic.Int32
	sink.EXPECT().Send(gomock.Any(), n).DoAndReturn(func(context.Context, domain.NotificationRequest) error {
		if calls.Add(1) < 3 {
			return errors.New("notifier down")
		}
		cancel()
		return nil
	}).Times(3)

	relay := workers.NewNotificationRelay(source, sink, logger.Discard(), 1, 3).
		WithTiming(10*time.Millisecond, time.Millisecond)
	runRelay(t, ctx, relay)

	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestNotificationRelay_DropsAfterMaxRetries(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mock_workers.NewMockNotificationSource(ctrl)
	sink := mock_workers.NewMockNotificationSink(ctrl)

	n := domain.NotificationRequest{OccurrenceID: uuid.New()}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source.EXPECT().BRPop(gomock.Any(), gomock.Any()).Return(n, nil).Times(1)
	source.EXPECT().BRPop(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, d time.Duration) (domain.NotificationRequest, error) {
		cancel()
		return blockUntilDone(ctx, d)
	}).AnyTimes()

	sink.EXPECT().Send(gomock.Any(), n).Return(errors.New("still down")).Times(2)

	relay := workers.NewNotificationRelay(source, sink, logger.Discard(), 1, 2).
		WithTiming(10*time.Millisecond, time.Millisecond)
	runRelay(t, ctx, relay)
}

func TestNotificationRelay_EmptyQueueKeepsPolling(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mock_workers.NewMockNotificationSource(ctrl)
	sink := mock_workers.NewMockNotificationSink(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var polls atomic.Int32
	source.EXPECT().BRPop(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, time.Duration) (domain.NotificationRequest, error) {
		if polls.Add(1) == 3 {
			cancel()
		}
		return domain.NotificationRequest{}, e.ErrQueueEmpty
	}).MinTimes(3)

	relay := workers.NewNotificationRelay(source, sink, logger.Discard(), 1, 3)
	runRelay(t, ctx, relay)
}
