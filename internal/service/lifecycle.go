package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
)

type LifecycleConfig struct {
	DedupRadiusMeters   float64
	ActivationThreshold int
	ClosureThreshold    int
	NotifyMinutes       int
	FeedbackCooldown    time.Duration
	// MaxAttempts bounds the retries after a version conflict.
	MaxAttempts int
}

func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		DedupRadiusMeters:   DefaultDedupRadiusMeters,
		ActivationThreshold: 3,
		ClosureThreshold:    5,
		NotifyMinutes:       5,
		FeedbackCooldown:    time.Hour,
		MaxAttempts:         5,
	}
}

// Ingestion is the outcome of IngestReport.
type Ingestion struct {
	Report     *domain.Report
	Occurrence *domain.Occurrence
	Entity     *domain.ResponsibleEntity
	Duplicate  bool
}

// LifecycleManager owns every state change of an occurrence.
type LifecycleManager struct {
	reports     ReportRepository
	occurrences OccurrenceRepository
	feedback    FeedbackRepository
	locator     *Locator
	matcher     *Matcher
	router      *TypeRouter
	notifier    Notifier
	locker      Locker
	cfg         LifecycleConfig
	logger      *slog.Logger
	now         func() time.Time
}

type LifecycleDeps struct {
	Reports     ReportRepository
	Occurrences OccurrenceRepository
	Feedback    FeedbackRepository
	Entities    EntityRepository
	Notifier    Notifier
	Locker      Locker
}

func NewLifecycleManager(deps LifecycleDeps, cfg LifecycleConfig, logger *slog.Logger) *LifecycleManager {
	def := DefaultLifecycleConfig()
	if cfg.DedupRadiusMeters <= 0 {
		cfg.DedupRadiusMeters = def.DedupRadiusMeters
	}
	if cfg.ActivationThreshold <= 0 {
		cfg.ActivationThreshold = def.ActivationThreshold
	}
	if cfg.ClosureThreshold <= 0 {
		cfg.ClosureThreshold = def.ClosureThreshold
	}
	if cfg.NotifyMinutes <= 0 {
		cfg.NotifyMinutes = def.NotifyMinutes
	}
	if cfg.FeedbackCooldown <= 0 {
		cfg.FeedbackCooldown = def.FeedbackCooldown
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	locker := deps.Locker
	if locker == nil {
		locker = NewKeyedMutex()
	}

	router := NewTypeRouter()
	return &LifecycleManager{
		reports:     deps.Reports,
		occurrences: deps.Occurrences,
		feedback:    deps.Feedback,
		locator:     NewLocator(router, deps.Entities, logger),
		matcher:     NewMatcher(deps.Occurrences, deps.Reports, logger),
		router:      router,
		notifier:    deps.Notifier,
		locker:      locker,
		cfg:         cfg,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the time source. Tests only.
func (m *LifecycleManager) WithClock(now func() time.Time) *LifecycleManager {
	m.now = now
	return m
}

func (m *LifecycleManager) Locator() *Locator { return m.locator }
func (m *LifecycleManager) Matcher() *Matcher { return m.matcher }

var errOccurrenceClosed = errors.New("occurrence closed")

func categoryKey(c domain.IncidentCategory) string { return "dedup:" + string(c) }
func occurrenceKey(id uuid.UUID) string            { return "occurrence:" + id.String() }

// IngestReport attaches the report to a nearby open occurrence of the same
// category or opens a new WAITING one. Dedup decisions for one category are
// serialized so concurrent reports for a new spot end up on one occurrence.
func (m *LifecycleManager) IngestReport(ctx context.Context, report *domain.Report) (*Ingestion, error) {
	const op = "service.LifecycleManager.IngestReport"

	if report == nil {
		return nil, e.Validation("report", "is required")
	}
	if !report.Category.Valid() {
		return nil, e.Validation("category", fmt.Sprintf("%q is unknown", report.Category))
	}
	if err := domain.CheckBounds(report.Location.Lat, report.Location.Lng); err != nil {
		return nil, err
	}

	entity, err := m.locator.FindResponsibleEntity(ctx, report.Category, report.Location.Lat, report.Location.Lng)
	if err != nil {
		return nil, err
	}

	unlock, err := m.locker.Lock(ctx, categoryKey(report.Category))
	if err != nil {
		return nil, err
	}
	defer unlock()

	dup, err := m.matcher.FindDuplicate(ctx, report, m.cfg.DedupRadiusMeters)
	if err != nil {
		return nil, err
	}

	if err := m.reports.Create(ctx, report); err != nil {
		m.logger.Error("persist report failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Dependency(op, err)
	}

	res, err := m.place(ctx, report, entity, dup)
	if err != nil {
		m.discardReport(ctx, report.ID)
		return nil, err
	}
	return res, nil
}

// place attaches a stored report to dup, or opens a new occurrence when there
// is no duplicate or it was closed in the meantime.
func (m *LifecycleManager) place(ctx context.Context, report *domain.Report, entity *domain.ResponsibleEntity, dup *domain.Occurrence) (*Ingestion, error) {
	if dup != nil {
		occ, err := m.attach(ctx, dup.ID, report, entity)
		switch {
		case err == nil:
			return &Ingestion{Report: report, Occurrence: occ, Entity: entity, Duplicate: true}, nil
		case errors.Is(err, errOccurrenceClosed):
			m.logger.Info("matched occurrence closed meanwhile, opening a new one",
				slog.String("occurrence_id", dup.ID.String()),
			)
		default:
			return nil, err
		}
	}

	occ, err := m.open(ctx, report, entity)
	if err != nil {
		return nil, err
	}
	return &Ingestion{Report: report, Occurrence: occ, Entity: entity}, nil
}

// discardReport removes a report that never reached an occurrence. The delete
// ignores cancellation of ctx.
func (m *LifecycleManager) discardReport(ctx context.Context, id uuid.UUID) {
	const op = "service.LifecycleManager.discardReport"

	if err := m.reports.Delete(context.WithoutCancel(ctx), id); err != nil {
		m.logger.Error("orphaned report left behind",
			slog.String("op", op),
			slog.String("report_id", id.String()),
			slog.Any("error", err),
		)
	}
}

func (m *LifecycleManager) open(ctx context.Context, report *domain.Report, entity *domain.ResponsibleEntity) (*domain.Occurrence, error) {
	const op = "service.LifecycleManager.open"

	reportID := report.ID
	occ := &domain.Occurrence{
		ID:                  uuid.New(),
		Title:               report.Title,
		Description:         report.Description,
		Category:            report.Category,
		Status:              domain.StatusWaiting,
		Anchor:              report.Location,
		CreatedAt:           m.now(),
		ReportCount:         1,
		OriginatingReportID: &reportID,
	}
	if entity != nil {
		entityID := entity.ID
		occ.ResponsibleEntityID = &entityID
	}
	activated := occ.ReportCount >= m.cfg.ActivationThreshold
	if activated {
		occ.Status = domain.StatusActive
	}
	occ.Reprioritize()

	if err := m.occurrences.Create(ctx, occ); err != nil {
		m.logger.Error("create occurrence failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.Dependency(op, err)
	}

	m.logger.Info("occurrence opened",
		slog.String("occurrence_id", occ.ID.String()),
		slog.String("category", string(occ.Category)),
		slog.String("status", string(occ.Status)),
	)

	if activated {
		m.dispatch(ctx, occ, entity, "New occurrence reported")
	}
	return occ, nil
}

func (m *LifecycleManager) attach(ctx context.Context, id uuid.UUID, report *domain.Report, entity *domain.ResponsibleEntity) (*domain.Occurrence, error) {
	unlock, err := m.locker.Lock(ctx, occurrenceKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var activated bool
	occ, _, err := m.update(ctx, id, func(occ *domain.Occurrence) (bool, error) {
		activated = false
		if occ.Status == domain.StatusClosed {
			return false, errOccurrenceClosed
		}
		occ.ReportCount++
		if occ.Status == domain.StatusWaiting && occ.ReportCount >= m.cfg.ActivationThreshold {
			occ.Status = domain.StatusActive
			activated = true
		}
		occ.Reprioritize()
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("report attached",
		slog.String("occurrence_id", occ.ID.String()),
		slog.String("report_id", report.ID.String()),
		slog.Int("report_count", occ.ReportCount),
	)

	if activated {
		if entity != nil && (occ.ResponsibleEntityID == nil || *occ.ResponsibleEntityID != entity.ID) {
			entity = nil
		}
		m.dispatch(ctx, occ, entity, fmt.Sprintf("Occurrence confirmed by %d reports", occ.ReportCount))
	}
	return occ, nil
}

// IngestFeedback records a confirmation or denial and closes the occurrence
// once enough users deny it.
func (m *LifecycleManager) IngestFeedback(ctx context.Context, fb *domain.Feedback) error {
	const op = "service.LifecycleManager.IngestFeedback"

	if fb == nil {
		return e.Validation("feedback", "is required")
	}

	ok, err := m.feedback.UserExists(ctx, fb.UserID)
	if err != nil {
		return e.Dependency(op, err)
	}
	if !ok {
		return e.InvalidState("user %d does not exist", fb.UserID)
	}
	ok, err = m.feedback.OccurrenceExists(ctx, fb.OccurrenceID)
	if err != nil {
		return e.Dependency(op, err)
	}
	if !ok {
		return e.InvalidState("occurrence %s does not exist", fb.OccurrenceID)
	}

	unlock, err := m.locker.Lock(ctx, occurrenceKey(fb.OccurrenceID))
	if err != nil {
		return err
	}
	defer unlock()

	occ, err := m.occurrences.GetByID(ctx, fb.OccurrenceID)
	if err != nil {
		return e.Dependency(op, err)
	}
	if occ.Status == domain.StatusWaiting {
		return e.InvalidState("occurrence %s is still waiting for confirmation", occ.ID)
	}

	recent, err := m.feedback.HasRecentFeedback(ctx, fb.UserID, fb.OccurrenceID, m.now().Add(-m.cfg.FeedbackCooldown))
	if err != nil {
		return e.Dependency(op, err)
	}
	if recent {
		return fmt.Errorf("%w: user %d already gave feedback on %s", e.ErrConflict, fb.UserID, fb.OccurrenceID)
	}

	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = m.now()
	}
	if err := m.feedback.Create(ctx, fb); err != nil {
		m.logger.Error("persist feedback failed", slog.String("op", op), slog.Any("error", err))
		return e.Dependency(op, err)
	}
	if fb.IsConfirmed {
		return nil
	}

	all, err := m.feedback.ListByOccurrence(ctx, fb.OccurrenceID)
	if err != nil {
		return e.Dependency(op, err)
	}
	negatives := 0
	for _, f := range all {
		if !f.IsConfirmed {
			negatives++
		}
	}
	if negatives < m.cfg.ClosureThreshold {
		return nil
	}

	closed, changed, err := m.update(ctx, fb.OccurrenceID, func(occ *domain.Occurrence) (bool, error) {
		if occ.Ended() {
			return false, nil
		}
		now := m.now()
		occ.Status = domain.StatusClosed
		occ.EndedAt = &now
		return true, nil
	})
	if err != nil {
		m.logger.Error("close occurrence failed", slog.String("op", op), slog.Any("error", err))
		return err
	}
	if changed {
		m.logger.Info("occurrence closed by feedback",
			slog.String("occurrence_id", closed.ID.String()),
			slog.Int("negative_feedback", negatives),
		)
	}
	return nil
}

var operatorTransitions = map[domain.OccurrenceStatus][]domain.OccurrenceStatus{
	domain.StatusWaiting:    {domain.StatusActive},
	domain.StatusActive:     {domain.StatusInProgress},
	domain.StatusInProgress: {domain.StatusResolved},
	domain.StatusResolved:   {domain.StatusClosed},
}

func canTransition(from, to domain.OccurrenceStatus) bool {
	for _, allowed := range operatorTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ChangeStatus applies an operator transition. Setting the current status
// again is a no-op.
func (m *LifecycleManager) ChangeStatus(ctx context.Context, id uuid.UUID, status domain.OccurrenceStatus) (*domain.Occurrence, error) {
	if !status.Valid() {
		return nil, e.Validation("status", fmt.Sprintf("%q is unknown", status))
	}

	unlock, err := m.locker.Lock(ctx, occurrenceKey(id))
	if err != nil {
		return nil, err
	}
	defer unlock()

	var activated bool
	occ, _, err := m.update(ctx, id, func(occ *domain.Occurrence) (bool, error) {
		activated = false
		if occ.Status == status {
			return false, nil
		}
		if !canTransition(occ.Status, status) {
			return false, e.InvalidState("cannot move occurrence from %s to %s", occ.Status, status)
		}
		occ.Status = status
		if status == domain.StatusClosed && occ.EndedAt == nil {
			now := m.now()
			occ.EndedAt = &now
		}
		activated = status == domain.StatusActive
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	if activated {
		m.dispatch(ctx, occ, nil, "Occurrence activated by operator")
	}
	return occ, nil
}

// update reloads the occurrence, applies fn and stores it with a version
// check, retrying on conflict. fn returning false skips the write.
func (m *LifecycleManager) update(ctx context.Context, id uuid.UUID, fn func(*domain.Occurrence) (bool, error)) (*domain.Occurrence, bool, error) {
	const op = "service.LifecycleManager.update"

	for attempt := 1; attempt <= m.cfg.MaxAttempts; attempt++ {
		occ, err := m.occurrences.GetByID(ctx, id)
		if err != nil {
			return nil, false, e.Dependency(op, err)
		}

		changed, err := fn(occ)
		if err != nil {
			return nil, false, err
		}
		if !changed {
			return occ, false, nil
		}

		err = m.occurrences.Update(ctx, occ)
		if errors.Is(err, e.ErrConflict) {
			m.logger.Warn("occurrence version conflict, retrying",
				slog.String("occurrence_id", id.String()),
				slog.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return nil, false, e.Dependency(op, err)
		}
		return occ, true, nil
	}

	return nil, false, fmt.Errorf("%s: %w: occurrence %s kept changing", op, e.ErrConflict, id)
}

func (m *LifecycleManager) dispatch(ctx context.Context, occ *domain.Occurrence, entity *domain.ResponsibleEntity, message string) {
	if m.notifier == nil {
		return
	}

	org, err := m.router.ResponsibleCategoryFor(occ.Category)
	if err != nil {
		m.logger.Error("notification skipped", slog.Any("error", err))
		return
	}

	req := domain.NotificationRequest{
		Category:     org,
		OccurrenceID: occ.ID,
		Title:        occ.Title,
		Location:     occ.Anchor,
		Message:      message,
	}
	if occ.ResponsibleEntityID != nil {
		entityID := *occ.ResponsibleEntityID
		req.EntityID = &entityID
	}
	if entity != nil {
		req.EntityName = entity.Name
	}

	m.notifier.NotifyForMinutes(context.WithoutCancel(ctx), req, m.cfg.NotifyMinutes)
}
