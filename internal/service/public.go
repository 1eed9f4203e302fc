package service

import (
	"context"

	"readyToHelp/internal/domain"

	"github.com/google/uuid"
)

func (s *Service) CreateReport(ctx context.Context, req domain.CreateReportRequest) (*domain.ReportResult, error) {
	return s.ReportService.CreateReport(ctx, req)
}

func (s *Service) SubmitFeedback(ctx context.Context, req domain.CreateFeedbackRequest) (*domain.Feedback, error) {
	return s.FeedbackService.SubmitFeedback(ctx, req)
}

func (s *Service) GetOccurrence(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	return s.OccurrenceService.GetOccurrence(ctx, id)
}
