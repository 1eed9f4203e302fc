package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/notify"
	"readyToHelp/internal/service"
	"readyToHelp/internal/storage/memory"
	"readyToHelp/pkg/logger"
)

// Porto city hall. 0.000449 degrees of latitude is just under 50 m.
const (
	baseLat = 41.149612
	baseLng = -8.610993

	nearDelta = 0.000449
	farDelta  = 0.000460
)

type notifierSpy struct {
	mu      sync.Mutex
	reqs    []domain.NotificationRequest
	minutes []int
}

func (n *notifierSpy) NotifyForMinutes(_ context.Context, req domain.NotificationRequest, minutes int) *notify.Task {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reqs = append(n.reqs, req)
	n.minutes = append(n.minutes, minutes)
	return nil
}

func (n *notifierSpy) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.reqs)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *clock {
	return &clock{t: time.Date(2025, 12, 23, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Millisecond)
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type fixture struct {
	store    *memory.Store
	notifier *notifierSpy
	clock    *clock
	lm       *service.LifecycleManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, service.DefaultLifecycleConfig(), nil)
}

func newFixtureWith(t *testing.T, cfg service.LifecycleConfig, occurrences service.OccurrenceRepository) *fixture {
	t.Helper()

	store := memory.NewStore()
	if occurrences == nil {
		occurrences = store.Occurrences()
	}
	spy := &notifierSpy{}
	clk := newClock()

	lm := service.NewLifecycleManager(service.LifecycleDeps{
		Reports:     store.Reports(),
		Occurrences: occurrences,
		Feedback:    store.Feedback(),
		Entities:    store.Entities(),
		Notifier:    spy,
	}, cfg, logger.Discard()).WithClock(clk.Now)

	return &fixture{store: store, notifier: spy, clock: clk, lm: lm}
}

func (f *fixture) report(t *testing.T, category domain.IncidentCategory, lat, lng float64) *domain.Report {
	t.Helper()
	loc, err := domain.NewCoordinate(lat, lng)
	if err != nil {
		t.Fatalf("coordinate: %v", err)
	}
	return &domain.Report{
		ID:          uuid.New(),
		Title:       "Report",
		Description: "Something happened",
		Category:    category,
		ReporterID:  1,
		Location:    loc,
		CreatedAt:   f.clock.Now(),
	}
}

func (f *fixture) ingest(t *testing.T, category domain.IncidentCategory, lat, lng float64) *service.Ingestion {
	t.Helper()
	res, err := f.lm.IngestReport(context.Background(), f.report(t, category, lat, lng))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	return res
}

func (f *fixture) feedback(occurrenceID uuid.UUID, userID int64, confirmed bool) *domain.Feedback {
	f.store.AddUser(userID)
	return &domain.Feedback{
		ID:           uuid.New(),
		OccurrenceID: occurrenceID,
		UserID:       userID,
		IsConfirmed:  confirmed,
		CreatedAt:    f.clock.Now(),
	}
}

// activate pushes a fresh occurrence to ACTIVE with three nearby reports.
func (f *fixture) activate(t *testing.T) *domain.Occurrence {
	t.Helper()
	var res *service.Ingestion
	for i := 0; i < 3; i++ {
		res = f.ingest(t, domain.ForestFire, baseLat, baseLng)
	}
	if res.Occurrence.Status != domain.StatusActive {
		t.Fatalf("setup: status %s, want ACTIVE", res.Occurrence.Status)
	}
	return res.Occurrence
}

func square(minLng, minLat, maxLng, maxLat float64) orb.Polygon {
	return orb.Polygon{{
		{minLng, minLat}, {maxLng, minLat}, {maxLng, maxLat}, {minLng, maxLat}, {minLng, minLat},
	}}
}
