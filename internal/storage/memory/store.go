// Package memory keeps every repository in process. It backs
// STORAGE_DRIVER=memory and the lifecycle tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/geo"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

type Store struct {
	mu          sync.RWMutex
	users       map[int64]struct{}
	reports     map[uuid.UUID]*domain.Report
	occurrences map[uuid.UUID]*domain.Occurrence
	feedback    map[uuid.UUID][]*domain.Feedback
	entities    map[uuid.UUID]*domain.ResponsibleEntity
	entityOrder []uuid.UUID
}

func NewStore() *Store {
	return &Store{
		users:       make(map[int64]struct{}),
		reports:     make(map[uuid.UUID]*domain.Report),
		occurrences: make(map[uuid.UUID]*domain.Occurrence),
		feedback:    make(map[uuid.UUID][]*domain.Feedback),
		entities:    make(map[uuid.UUID]*domain.ResponsibleEntity),
	}
}

func (s *Store) Reports() *Reports         { return &Reports{s} }
func (s *Store) Occurrences() *Occurrences { return &Occurrences{s} }
func (s *Store) Feedback() *Feedback       { return &Feedback{s} }
func (s *Store) Entities() *Entities       { return &Entities{s} }

// AddUser registers a user id. Reporters are registered on their first report.
func (s *Store) AddUser(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = struct{}{}
}

type Reports struct{ s *Store }

func (r *Reports) Create(ctx context.Context, report *domain.Report) error {
	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, "memory.Reports.Create", err)
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reports[report.ID]; ok {
		return fmt.Errorf("memory.Reports.Create: %w: report %s exists", e.ErrConflict, report.ID)
	}
	cp := *report
	r.s.reports[report.ID] = &cp
	r.s.users[report.ReporterID] = struct{}{}
	return nil
}

func (r *Reports) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rep, ok := r.s.reports[id]
	if !ok {
		return nil, fmt.Errorf("memory.Reports.GetByID: %w", e.ErrNotFound)
	}
	cp := *rep
	return &cp, nil
}

func (r *Reports) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.reports[id]; !ok {
		return fmt.Errorf("memory.Reports.Delete: %w", e.ErrNotFound)
	}
	delete(r.s.reports, id)
	return nil
}

type Occurrences struct{ s *Store }

func (o *Occurrences) Create(ctx context.Context, occ *domain.Occurrence) error {
	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, "memory.Occurrences.Create", err)
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	if _, ok := o.s.occurrences[occ.ID]; ok {
		return fmt.Errorf("memory.Occurrences.Create: %w: occurrence %s exists", e.ErrConflict, occ.ID)
	}
	occ.Version = 1
	o.s.occurrences[occ.ID] = occ.Clone()
	return nil
}

func (o *Occurrences) Update(ctx context.Context, occ *domain.Occurrence) error {
	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, "memory.Occurrences.Update", err)
	}
	o.s.mu.Lock()
	defer o.s.mu.Unlock()

	cur, ok := o.s.occurrences[occ.ID]
	if !ok {
		return fmt.Errorf("memory.Occurrences.Update: %w", e.ErrNotFound)
	}
	if cur.Version != occ.Version {
		return fmt.Errorf("memory.Occurrences.Update: %w: version %d, stored %d", e.ErrConflict, occ.Version, cur.Version)
	}
	occ.Version++
	o.s.occurrences[occ.ID] = occ.Clone()
	return nil
}

func (o *Occurrences) GetByID(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	occ, ok := o.s.occurrences[id]
	if !ok {
		return nil, fmt.Errorf("memory.Occurrences.GetByID: %w", e.ErrNotFound)
	}
	return occ.Clone(), nil
}

func (o *Occurrences) ListOpenByCategory(ctx context.Context, category domain.IncidentCategory, area orb.Bound) ([]*domain.Occurrence, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, "memory.Occurrences.ListOpenByCategory", err)
	}
	o.s.mu.RLock()
	defer o.s.mu.RUnlock()

	var out []*domain.Occurrence
	for _, occ := range o.s.occurrences {
		if occ.Category != category || occ.Status == domain.StatusClosed {
			continue
		}
		if !area.Contains(occ.Anchor.Point()) {
			continue
		}
		out = append(out, occ.Clone())
	}
	slices.SortFunc(out, func(a, b *domain.Occurrence) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return out, nil
}

type Feedback struct{ s *Store }

func (f *Feedback) Create(ctx context.Context, fb *domain.Feedback) error {
	if err := ctx.Err(); err != nil {
		return e.WrapError(ctx, "memory.Feedback.Create", err)
	}
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, ok := f.s.occurrences[fb.OccurrenceID]; !ok {
		return fmt.Errorf("memory.Feedback.Create: %w: unknown occurrence %s", e.ErrValidation, fb.OccurrenceID)
	}
	if _, ok := f.s.users[fb.UserID]; !ok {
		return fmt.Errorf("memory.Feedback.Create: %w: unknown user %d", e.ErrValidation, fb.UserID)
	}
	cp := *fb
	f.s.feedback[fb.OccurrenceID] = append(f.s.feedback[fb.OccurrenceID], &cp)
	return nil
}

func (f *Feedback) ListByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]*domain.Feedback, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	list := f.s.feedback[occurrenceID]
	out := make([]*domain.Feedback, 0, len(list))
	for _, fb := range list {
		cp := *fb
		out = append(out, &cp)
	}
	return out, nil
}

func (f *Feedback) UserExists(ctx context.Context, userID int64) (bool, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	_, ok := f.s.users[userID]
	return ok, nil
}

func (f *Feedback) OccurrenceExists(ctx context.Context, occurrenceID uuid.UUID) (bool, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()
	_, ok := f.s.occurrences[occurrenceID]
	return ok, nil
}

func (f *Feedback) HasRecentFeedback(ctx context.Context, userID int64, occurrenceID uuid.UUID, since time.Time) (bool, error) {
	f.s.mu.RLock()
	defer f.s.mu.RUnlock()

	for _, fb := range f.s.feedback[occurrenceID] {
		if fb.UserID == userID && !fb.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

type Entities struct{ s *Store }

// FindContaining scans entities in insertion order.
func (en *Entities) FindContaining(ctx context.Context, category domain.OrganizationCategory, p orb.Point) ([]*domain.ResponsibleEntity, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.WrapError(ctx, "memory.Entities.FindContaining", err)
	}
	en.s.mu.RLock()
	defer en.s.mu.RUnlock()

	var out []*domain.ResponsibleEntity
	for _, id := range en.s.entityOrder {
		ent := en.s.entities[id]
		if ent.Category != category || ent.Jurisdiction == nil {
			continue
		}
		if geo.Contains(ent.Jurisdiction, p) {
			cp := *ent
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (en *Entities) Upsert(ctx context.Context, entity *domain.ResponsibleEntity) error {
	en.s.mu.Lock()
	defer en.s.mu.Unlock()

	if entity.ID == uuid.Nil {
		entity.ID = uuid.New()
	}
	if _, ok := en.s.entities[entity.ID]; !ok {
		en.s.entityOrder = append(en.s.entityOrder, entity.ID)
	}
	cp := *entity
	en.s.entities[entity.ID] = &cp
	return nil
}
