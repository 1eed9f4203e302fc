package service

import (
	"context"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/notify"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type OccurrenceRepository interface {
	Create(ctx context.Context, occ *domain.Occurrence) error
	// Update stores occ only when the stored version still equals occ.Version
	// and bumps occ.Version on success. A stale version yields e.ErrConflict.
	Update(ctx context.Context, occ *domain.Occurrence) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	// ListOpenByCategory returns non-CLOSED occurrences of the category whose
	// anchor lies in area, oldest first, ties broken by id.
	ListOpenByCategory(ctx context.Context, category domain.IncidentCategory, area orb.Bound) ([]*domain.Occurrence, error)
}

type FeedbackRepository interface {
	Create(ctx context.Context, fb *domain.Feedback) error
	ListByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]*domain.Feedback, error)
	UserExists(ctx context.Context, userID int64) (bool, error)
	OccurrenceExists(ctx context.Context, occurrenceID uuid.UUID) (bool, error)
	HasRecentFeedback(ctx context.Context, userID int64, occurrenceID uuid.UUID, since time.Time) (bool, error)
}

type EntityRepository interface {
	// FindContaining returns entities of the category whose jurisdiction
	// strictly contains p.
	FindContaining(ctx context.Context, category domain.OrganizationCategory, p orb.Point) ([]*domain.ResponsibleEntity, error)
	Upsert(ctx context.Context, entity *domain.ResponsibleEntity) error
}

type Notifier interface {
	NotifyForMinutes(ctx context.Context, req domain.NotificationRequest, minutes int) *notify.Task
}

// Locker serializes work on a key. The returned func releases the lock.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Публичные use-case'ы
type ReportService interface {
	CreateReport(ctx context.Context, req domain.CreateReportRequest) (*domain.ReportResult, error)
}

type FeedbackService interface {
	SubmitFeedback(ctx context.Context, req domain.CreateFeedbackRequest) (*domain.Feedback, error)
}

type OccurrenceService interface {
	GetOccurrence(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.OccurrenceStatus) (*domain.Occurrence, error)
}

type Service struct {
	ReportService     ReportService
	FeedbackService   FeedbackService
	OccurrenceService OccurrenceService
}

func NewService(
	reportService ReportService,
	feedbackService FeedbackService,
	occurrenceService OccurrenceService,
) *Service {
	return &Service{
		ReportService:     reportService,
		FeedbackService:   feedbackService,
		OccurrenceService: occurrenceService,
	}
}
