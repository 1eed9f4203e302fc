package service

import (
	"context"
	"log/slog"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"
)

// Locator finds the organization whose jurisdiction contains a point.
type Locator struct {
	router   *TypeRouter
	entities EntityRepository
	logger   *slog.Logger
}

func NewLocator(router *TypeRouter, entities EntityRepository, logger *slog.Logger) *Locator {
	return &Locator{router: router, entities: entities, logger: logger}
}

// FindResponsibleEntity returns the first entity of the routed organization
// category that strictly contains (lat, lng), or nil when none does.
func (l *Locator) FindResponsibleEntity(ctx context.Context, category domain.IncidentCategory, lat, lng float64) (*domain.ResponsibleEntity, error) {
	const op = "service.Locator.FindResponsibleEntity"

	point, err := domain.NewCoordinate(lat, lng)
	if err != nil {
		return nil, err
	}

	org, err := l.router.ResponsibleCategoryFor(category)
	if err != nil {
		return nil, err
	}

	found, err := l.entities.FindContaining(ctx, org, point.Point())
	if err != nil {
		l.logger.Error("find containing entity failed",
			slog.String("op", op),
			slog.String("category", string(org)),
			slog.Any("error", err),
		)
		return nil, e.Dependency(op, err)
	}

	if len(found) == 0 {
		l.logger.Debug("no responsible entity",
			slog.String("category", string(org)),
			slog.String("point", point.String()),
		)
		return nil, nil
	}
	return found[0], nil
}
