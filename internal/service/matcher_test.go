package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/service"
	mock_service "readyToHelp/internal/service/mocks"
	"readyToHelp/pkg/e"
	"readyToHelp/pkg/logger"
)

func TestMatcher_WithinRadiusIsDuplicate(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	first := f.ingest(t, domain.Flood, baseLat, baseLng)

	dup, err := f.lm.Matcher().FindDuplicate(context.Background(), f.report(t, domain.Flood, baseLat+nearDelta, baseLng), 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dup == nil || dup.ID != first.Occurrence.ID {
		t.Fatalf("expected duplicate of %s, got %+v", first.Occurrence.ID, dup)
	}
}

func TestMatcher_BeyondRadiusIsNew(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ingest(t, domain.Flood, baseLat, baseLng)

	dup, err := f.lm.Matcher().FindDuplicate(context.Background(), f.report(t, domain.Flood, baseLat+farDelta, baseLng), 50)
	if err != nil || dup != nil {
		t.Fatalf("expected no duplicate, got (%v, %v)", dup, err)
	}
}

func TestMatcher_NonPositiveRadiusMeansDefault(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ingest(t, domain.Flood, baseLat, baseLng)

	for _, radius := range []float64{0, -10} {
		dup, _ := f.lm.Matcher().FindDuplicate(context.Background(), f.report(t, domain.Flood, baseLat+nearDelta, baseLng), radius)
		if dup == nil {
			t.Fatalf("radius %v: expected the 50 m default to match", radius)
		}
		dup, _ = f.lm.Matcher().FindDuplicate(context.Background(), f.report(t, domain.Flood, baseLat+farDelta, baseLng), radius)
		if dup != nil {
			t.Fatalf("radius %v: expected the 50 m default to reject", radius)
		}
	}
}

func TestMatcher_OtherCategoryIsIgnored(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.ingest(t, domain.Flood, baseLat, baseLng)

	dup, err := f.lm.Matcher().FindDuplicate(context.Background(), f.report(t, domain.Landslide, baseLat, baseLng), 50)
	if err != nil || dup != nil {
		t.Fatalf("expected no cross-category match, got (%v, %v)", dup, err)
	}
}

func TestMatcher_PrefersOldest(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	older := f.ingest(t, domain.Flood, baseLat, baseLng)
	// ~100 m north, so it opens its own occurrence
	newer := f.ingest(t, domain.Flood, baseLat+2*nearDelta, baseLng)
	if newer.Occurrence.ID == older.Occurrence.ID {
		t.Fatal("setup: expected two occurrences")
	}

	// this report sits within 50 m of both anchors
	dup, err := f.lm.Matcher().FindDuplicate(context.Background(), f.report(t, domain.Flood, baseLat+nearDelta, baseLng), 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dup == nil || dup.ID != older.Occurrence.ID {
		t.Fatalf("expected oldest occurrence %s, got %+v", older.Occurrence.ID, dup)
	}
}

func TestMatcher_ListFailureIsDependency(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	occs := mock_service.NewMockOccurrenceRepository(ctrl)
	reports := mock_service.NewMockReportRepository(ctrl)
	occs.EXPECT().ListOpenByCategory(gomock.Any(), domain.Flood, gomock.Any()).Return(nil, errors.New("timeout"))

	m := service.NewMatcher(occs, reports, logger.Discard())
	_, err := m.FindDuplicate(context.Background(), &domain.Report{Category: domain.Flood}, 50)
	if !errors.Is(err, e.ErrDependency) {
		t.Fatalf("expected ErrDependency, got %v", err)
	}
}

func TestMatcher_SkipsMissingAnchor(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	loc, _ := domain.NewCoordinate(baseLat, baseLng)
	missing := uuid.New()
	good := uuid.New()
	orphan := &domain.Occurrence{ID: uuid.New(), Category: domain.Flood, Status: domain.StatusWaiting, Anchor: loc, OriginatingReportID: &missing}
	noAnchor := &domain.Occurrence{ID: uuid.New(), Category: domain.Flood, Status: domain.StatusWaiting, Anchor: loc}
	healthy := &domain.Occurrence{ID: uuid.New(), Category: domain.Flood, Status: domain.StatusActive, Anchor: loc, OriginatingReportID: &good}
	healthy.CreatedAt = orphan.CreatedAt.Add(1)

	occs := mock_service.NewMockOccurrenceRepository(ctrl)
	reports := mock_service.NewMockReportRepository(ctrl)
	occs.EXPECT().ListOpenByCategory(gomock.Any(), domain.Flood, gomock.Any()).
		Return([]*domain.Occurrence{healthy, noAnchor, orphan}, nil)
	reports.EXPECT().GetByID(gomock.Any(), missing).Return(nil, e.ErrNotFound)
	reports.EXPECT().GetByID(gomock.Any(), good).Return(&domain.Report{ID: good, Location: loc}, nil)

	m := service.NewMatcher(occs, reports, logger.Discard())
	dup, err := m.FindDuplicate(context.Background(), &domain.Report{Category: domain.Flood, Location: loc}, 50)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if dup == nil || dup.ID != healthy.ID {
		t.Fatalf("expected %s, got %+v", healthy.ID, dup)
	}
}
