//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/geo"
	"readyToHelp/pkg/e"
	"readyToHelp/pkg/logger"
)

var (
	testPG *Postgres
	tc     testcontainers.Container
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	user := "postgres"
	pass := "postgres"
	db := "postgres"

	req := testcontainers.ContainerRequest{
		Image:        "postgis/postgis:16-3.4-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     user,
			"POSTGRES_PASSWORD": pass,
			"POSTGRES_DB":       db,
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections"),
		).WithDeadline(90 * time.Second),
	}

	var err error
	tc, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Println("cannot start container:", err)
		os.Exit(1)
	}

	host, _ := tc.Host(ctx)
	mappedPort, _ := tc.MappedPort(ctx, "5432/tcp")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, pass, host, mappedPort.Port(), db)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Println("pgxpool.New:", err)
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := pool.Ping(ctx); err != nil {
		fmt.Println("pool.Ping:", err)
		pool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}

	if err := Migrate(ctx, pool); err != nil {
		fmt.Println("Migrate:", err)
		pool.Close()
		_ = tc.Terminate(ctx)
		os.Exit(1)
	}
	testPG = &Postgres{Pool: pool, logger: logger.Discard()}

	code := m.Run()

	pool.Close()
	_ = tc.Terminate(ctx)
	os.Exit(code)
}

func truncateAll(t *testing.T) {
	t.Helper()
	_, err := testPG.Pool.Exec(context.Background(),
		`TRUNCATE TABLE feedback, occurrences, reports, responsible_entities, users`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

var base = domain.Coordinate{Lat: 41.149612, Lng: -8.610993}

func newReport(t *testing.T, cat domain.IncidentCategory, at domain.Coordinate, created time.Time) *domain.Report {
	t.Helper()
	rep := &domain.Report{
		ID:          uuid.New(),
		Title:       "smoke",
		Description: "smoke over the hill",
		Category:    cat,
		ReporterID:  7,
		Location:    at,
		CreatedAt:   created,
	}
	if err := testPG.Reports().Create(context.Background(), rep); err != nil {
		t.Fatalf("Reports.Create: %v", err)
	}
	return rep
}

func newOccurrence(t *testing.T, rep *domain.Report, status domain.OccurrenceStatus) *domain.Occurrence {
	t.Helper()
	id := rep.ID
	occ := &domain.Occurrence{
		ID:                    uuid.New(),
		Title:                 rep.Title,
		Description:           rep.Description,
		Category:              rep.Category,
		Status:                status,
		Priority:              domain.PriorityHigh,
		ProximityRadiusMeters: 50,
		Anchor:                rep.Location,
		CreatedAt:             rep.CreatedAt,
		ReportCount:           1,
		OriginatingReportID:   &id,
	}
	if err := testPG.Occurrences().Create(context.Background(), occ); err != nil {
		t.Fatalf("Occurrences.Create: %v", err)
	}
	return occ
}

func TestReports_CreateRegistersReporter(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()

	rep := newReport(t, domain.ForestFire, base, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))

	got, err := testPG.Reports().GetByID(ctx, rep.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Location != rep.Location {
		t.Fatalf("location mismatch got=%v want=%v", got.Location, rep.Location)
	}
	if got.Category != domain.ForestFire || got.ReporterID != 7 {
		t.Fatalf("unexpected report: %+v", got)
	}

	ok, err := testPG.Feedback().UserExists(ctx, 7)
	if err != nil || !ok {
		t.Fatalf("expected reporter registered, ok=%v err=%v", ok, err)
	}

	// A second report by the same user must not trip the users primary key.
	newReport(t, domain.ForestFire, base, time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC))

	if _, err := testPG.Reports().GetByID(ctx, uuid.New()); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReports_Delete(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()

	rep := newReport(t, domain.Flood, base, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC))
	if err := testPG.Reports().Delete(ctx, rep.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := testPG.Reports().GetByID(ctx, rep.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := testPG.Reports().Delete(ctx, rep.ID); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestOccurrences_UpdateRejectsStaleVersion(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()

	occ := newOccurrence(t, newReport(t, domain.Flood, base, time.Now().UTC()), domain.StatusWaiting)
	if occ.Version != 1 {
		t.Fatalf("expected version 1, got %d", occ.Version)
	}

	first, err := testPG.Occurrences().GetByID(ctx, occ.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	second := first.Clone()

	first.ReportCount = 2
	if err := testPG.Occurrences().Update(ctx, first); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if first.Version != 2 {
		t.Fatalf("expected version 2, got %d", first.Version)
	}

	second.Status = domain.StatusActive
	if err := testPG.Occurrences().Update(ctx, second); !errors.Is(err, e.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	got, err := testPG.Occurrences().GetByID(ctx, occ.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ReportCount != 2 || got.Status != domain.StatusWaiting {
		t.Fatalf("stale write leaked: %+v", got)
	}

	missing := got.Clone()
	missing.ID = uuid.New()
	if err := testPG.Occurrences().Update(ctx, missing); !errors.Is(err, e.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOccurrences_ListOpenByCategory(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()

	t0 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	older := newOccurrence(t, newReport(t, domain.Flood, base, t0), domain.StatusActive)
	newer := newOccurrence(t, newReport(t, domain.Flood, domain.Coordinate{Lat: base.Lat + 0.0001, Lng: base.Lng}, t0.Add(time.Minute)), domain.StatusWaiting)

	newOccurrence(t, newReport(t, domain.Flood, base, t0.Add(2*time.Minute)), domain.StatusClosed)
	newOccurrence(t, newReport(t, domain.Crime, base, t0), domain.StatusActive)
	newOccurrence(t, newReport(t, domain.Flood, domain.Coordinate{Lat: base.Lat + 1, Lng: base.Lng}, t0), domain.StatusActive)

	got, err := testPG.Occurrences().ListOpenByCategory(ctx, domain.Flood, geo.SearchBound(base, 50))
	if err != nil {
		t.Fatalf("ListOpenByCategory: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if got[0].ID != older.ID || got[1].ID != newer.ID {
		t.Fatalf("expected oldest first, got %v then %v", got[0].ID, got[1].ID)
	}
}

func TestEntities_FindContainingExcludesBoundary(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()

	square := orb.Polygon{{{-9, 41}, {-8, 41}, {-8, 42}, {-9, 42}, {-9, 41}}}
	ent := &domain.ResponsibleEntity{
		Name:         "Porto Fire Brigade",
		Category:     domain.FireBrigade,
		Email:        "ops@fire.example",
		Jurisdiction: square,
	}
	if err := testPG.Entities().Upsert(ctx, ent); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if ent.ID == uuid.Nil {
		t.Fatalf("expected ID assigned")
	}

	inside, err := testPG.Entities().FindContaining(ctx, domain.FireBrigade, orb.Point{-8.5, 41.5})
	if err != nil {
		t.Fatalf("FindContaining: %v", err)
	}
	if len(inside) != 1 || inside[0].ID != ent.ID {
		t.Fatalf("expected entity inside, got %+v", inside)
	}
	if _, ok := inside[0].Jurisdiction.(orb.MultiPolygon); !ok {
		t.Fatalf("expected multipolygon jurisdiction, got %T", inside[0].Jurisdiction)
	}

	edge, err := testPG.Entities().FindContaining(ctx, domain.FireBrigade, orb.Point{-8, 41.5})
	if err != nil {
		t.Fatalf("FindContaining: %v", err)
	}
	if len(edge) != 0 {
		t.Fatalf("boundary point must not match, got %d", len(edge))
	}

	other, err := testPG.Entities().FindContaining(ctx, domain.Police, orb.Point{-8.5, 41.5})
	if err != nil {
		t.Fatalf("FindContaining: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("category filter ignored, got %d", len(other))
	}

	ent.Phone = "112"
	if err := testPG.Entities().Upsert(ctx, ent); err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	again, _ := testPG.Entities().FindContaining(ctx, domain.FireBrigade, orb.Point{-8.5, 41.5})
	if len(again) != 1 || again[0].Phone != "112" {
		t.Fatalf("upsert did not update in place: %+v", again)
	}
}

func TestFeedback_RecentAndList(t *testing.T) {
	truncateAll(t)
	ctx := context.Background()

	occ := newOccurrence(t, newReport(t, domain.Flood, base, time.Now().UTC()), domain.StatusActive)
	at := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	fb := &domain.Feedback{ID: uuid.New(), OccurrenceID: occ.ID, UserID: 7, IsConfirmed: false, CreatedAt: at}
	if err := testPG.Feedback().Create(ctx, fb); err != nil {
		t.Fatalf("Create: %v", err)
	}

	recent, err := testPG.Feedback().HasRecentFeedback(ctx, 7, occ.ID, at.Add(-time.Hour))
	if err != nil || !recent {
		t.Fatalf("expected recent feedback, got %v err=%v", recent, err)
	}
	recent, err = testPG.Feedback().HasRecentFeedback(ctx, 7, occ.ID, at.Add(time.Second))
	if err != nil || recent {
		t.Fatalf("expected no recent feedback, got %v err=%v", recent, err)
	}

	list, err := testPG.Feedback().ListByOccurrence(ctx, occ.ID)
	if err != nil {
		t.Fatalf("ListByOccurrence: %v", err)
	}
	if len(list) != 1 || list[0].IsConfirmed {
		t.Fatalf("unexpected feedback list: %+v", list)
	}

	exists, err := testPG.Feedback().OccurrenceExists(ctx, uuid.New())
	if err != nil || exists {
		t.Fatalf("expected unknown occurrence, got %v err=%v", exists, err)
	}

	unknownUser := &domain.Feedback{ID: uuid.New(), OccurrenceID: occ.ID, UserID: 999, CreatedAt: at}
	if err := testPG.Feedback().Create(ctx, unknownUser); !errors.Is(err, e.ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown user, got %v", err)
	}
}
