package service

import (
	"context"
	"log/slog"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"
	"readyToHelp/pkg/validator"

	"github.com/google/uuid"
)

// IncidentService adapts API requests onto the lifecycle manager.
type IncidentService struct {
	lifecycle   *LifecycleManager
	occurrences OccurrenceRepository
	logger      *slog.Logger
	now         func() time.Time
}

func NewIncidentService(lifecycle *LifecycleManager, occurrences OccurrenceRepository, logger *slog.Logger) *IncidentService {
	return &IncidentService{
		lifecycle:   lifecycle,
		occurrences: occurrences,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *IncidentService) CreateReport(ctx context.Context, req domain.CreateReportRequest) (*domain.ReportResult, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	location, err := domain.NewCoordinate(*req.Lat, *req.Lng)
	if err != nil {
		return nil, err
	}

	report := &domain.Report{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ReporterID:  req.UserID,
		Location:    location,
		CreatedAt:   s.now(),
	}

	res, err := s.lifecycle.IngestReport(ctx, report)
	if err != nil {
		return nil, err
	}

	s.logger.Info("report ingested",
		slog.String("report_id", report.ID.String()),
		slog.String("occurrence_id", res.Occurrence.ID.String()),
		slog.Bool("duplicate", res.Duplicate),
	)

	return &domain.ReportResult{
		ReportID:          report.ID,
		OccurrenceID:      res.Occurrence.ID,
		OccurrenceStatus:  res.Occurrence.Status,
		ReportCount:       res.Occurrence.ReportCount,
		Duplicate:         res.Duplicate,
		ResponsibleEntity: res.Entity.Contact(),
	}, nil
}

func (s *IncidentService) SubmitFeedback(ctx context.Context, req domain.CreateFeedbackRequest) (*domain.Feedback, error) {
	if err := validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	fb := &domain.Feedback{
		ID:           uuid.New(),
		OccurrenceID: req.OccurrenceID,
		UserID:       req.UserID,
		IsConfirmed:  *req.IsConfirmed,
		CreatedAt:    s.now(),
	}
	if err := s.lifecycle.IngestFeedback(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

func (s *IncidentService) GetOccurrence(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	const op = "service.IncidentService.GetOccurrence"

	occ, err := s.occurrences.GetByID(ctx, id)
	if err != nil {
		return nil, e.Dependency(op, err)
	}
	return occ, nil
}

func (s *IncidentService) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.OccurrenceStatus) (*domain.Occurrence, error) {
	if err := validator.ValidateStruct(domain.ChangeStatusRequest{Status: status}); err != nil {
		return nil, err
	}
	return s.lifecycle.ChangeStatus(ctx, id, status)
}
