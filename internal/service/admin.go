package service

import (
	"context"

	"readyToHelp/internal/domain"

	"github.com/google/uuid"
)

func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.OccurrenceStatus) (*domain.Occurrence, error) {
	return s.OccurrenceService.ChangeStatus(ctx, id, status)
}
