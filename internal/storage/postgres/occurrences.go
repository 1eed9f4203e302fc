package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb"
)

type Occurrences struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewOccurrences(pool *pgxpool.Pool, logger *slog.Logger) *Occurrences {
	return &Occurrences{pool: pool, logger: logger}
}

const occurrenceColumns = `
	id, title, description, category, status, priority, proximity_radius_m,
	ST_Y(anchor), ST_X(anchor), created_at, ended_at, report_count,
	originating_report_id, responsible_entity_id, version
`

func scanOccurrence(row pgx.Row) (*domain.Occurrence, error) {
	var o domain.Occurrence
	err := row.Scan(
		&o.ID,
		&o.Title,
		&o.Description,
		&o.Category,
		&o.Status,
		&o.Priority,
		&o.ProximityRadiusMeters,
		&o.Anchor.Lat,
		&o.Anchor.Lng,
		&o.CreatedAt,
		&o.EndedAt,
		&o.ReportCount,
		&o.OriginatingReportID,
		&o.ResponsibleEntityID,
		&o.Version,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *Occurrences) Create(ctx context.Context, occ *domain.Occurrence) error {
	const op = "postgres.Occurrences.Create"

	query := `
		INSERT INTO occurrences (
			id, title, description, category, status, priority, proximity_radius_m,
			anchor, created_at, ended_at, report_count,
			originating_report_id, responsible_entity_id, version
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, ST_SetSRID(ST_MakePoint($8, $9), 4326), $10, $11, $12, $13, $14, 1)
	`

	_, err := r.pool.Exec(ctx, query,
		occ.ID,
		occ.Title,
		occ.Description,
		occ.Category,
		occ.Status,
		occ.Priority,
		occ.ProximityRadiusMeters,
		occ.Anchor.Lng,
		occ.Anchor.Lat,
		occ.CreatedAt,
		occ.EndedAt,
		occ.ReportCount,
		occ.OriginatingReportID,
		occ.ResponsibleEntityID,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	occ.Version = 1
	return nil
}

// Update locks the row, checks the version and writes the mutable columns.
func (r *Occurrences) Update(ctx context.Context, occ *domain.Occurrence) (err error) {
	const op = "postgres.Occurrences.Update"

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return e.WrapError(ctx, op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else if cerr := tx.Commit(ctx); cerr != nil {
			err = e.WrapError(ctx, op, cerr)
		}
	}()

	var stored int64
	if err = tx.QueryRow(ctx, `SELECT version FROM occurrences WHERE id = $1 FOR UPDATE`, occ.ID).Scan(&stored); err != nil {
		return e.WrapError(ctx, op, err)
	}
	if stored != occ.Version {
		err = fmt.Errorf("%s: %w: version %d, stored %d", op, e.ErrConflict, occ.Version, stored)
		return err
	}

	query := `
		UPDATE occurrences
		SET status = $2,
		    priority = $3,
		    proximity_radius_m = $4,
		    ended_at = $5,
		    report_count = $6,
		    responsible_entity_id = $7,
		    version = version + 1
		WHERE id = $1
	`
	_, err = tx.Exec(ctx, query,
		occ.ID,
		occ.Status,
		occ.Priority,
		occ.ProximityRadiusMeters,
		occ.EndedAt,
		occ.ReportCount,
		occ.ResponsibleEntityID,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	occ.Version = stored + 1
	return nil
}

func (r *Occurrences) GetByID(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error) {
	const op = "postgres.Occurrences.GetByID"

	occ, err := scanOccurrence(r.pool.QueryRow(ctx, `SELECT `+occurrenceColumns+` FROM occurrences WHERE id = $1`, id))
	if err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return occ, nil
}

func (r *Occurrences) ListOpenByCategory(ctx context.Context, category domain.IncidentCategory, area orb.Bound) ([]*domain.Occurrence, error) {
	const op = "postgres.Occurrences.ListOpenByCategory"

	query := `SELECT ` + occurrenceColumns + `
		FROM occurrences
		WHERE category = $1
		  AND status <> 'CLOSED'
		  AND anchor && ST_MakeEnvelope($2, $3, $4, $5, 4326)
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, category, area.Min.Lon(), area.Min.Lat(), area.Max.Lon(), area.Max.Lat())
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var out []*domain.Occurrence
	for rows.Next() {
		occ, err := scanOccurrence(rows)
		if err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, occ)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}
