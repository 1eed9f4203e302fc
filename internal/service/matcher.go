package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/geo"
	"readyToHelp/pkg/e"
)

const DefaultDedupRadiusMeters = 50.0

// Matcher decides whether a report duplicates an open occurrence.
type Matcher struct {
	occurrences OccurrenceRepository
	reports     ReportRepository
	logger      *slog.Logger
}

func NewMatcher(occurrences OccurrenceRepository, reports ReportRepository, logger *slog.Logger) *Matcher {
	return &Matcher{occurrences: occurrences, reports: reports, logger: logger}
}

// FindDuplicate returns the oldest open occurrence of the report's category
// whose anchor report lies within radiusMeters, or nil. A non-positive radius
// means DefaultDedupRadiusMeters.
func (m *Matcher) FindDuplicate(ctx context.Context, report *domain.Report, radiusMeters float64) (*domain.Occurrence, error) {
	const op = "service.Matcher.FindDuplicate"

	if radiusMeters <= 0 {
		radiusMeters = DefaultDedupRadiusMeters
	}
	area := geo.SearchBound(report.Location, radiusMeters)

	candidates, err := m.occurrences.ListOpenByCategory(ctx, report.Category, area)
	if err != nil {
		m.logger.Error("list open occurrences failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Dependency(op, err)
	}

	slices.SortStableFunc(candidates, func(a, b *domain.Occurrence) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})

	for _, occ := range candidates {
		if occ.Status == domain.StatusClosed || !area.Contains(occ.Anchor.Point()) {
			continue
		}
		if occ.OriginatingReportID == nil {
			continue
		}

		anchor, err := m.reports.GetByID(ctx, *occ.OriginatingReportID)
		if errors.Is(err, e.ErrNotFound) {
			m.logger.Warn("occurrence anchor report missing",
				slog.String("occurrence_id", occ.ID.String()),
			)
			continue
		}
		if err != nil {
			return nil, e.Dependency(op, err)
		}

		if geo.DistanceMeters(report.Location, anchor.Location) <= radiusMeters {
			return occ, nil
		}
	}

	return nil, nil
}
