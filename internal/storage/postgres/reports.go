package postgres

import (
	"context"
	"log/slog"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Reports struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewReports(pool *pgxpool.Pool, logger *slog.Logger) *Reports {
	return &Reports{pool: pool, logger: logger}
}

// Create stores the report and registers its reporter as a user.
func (r *Reports) Create(ctx context.Context, report *domain.Report) (err error) {
	const op = "postgres.Reports.Create"

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

	if _, err = tx.Exec(ctx, `INSERT INTO users (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, report.ReporterID); err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}

	query := `
		INSERT INTO reports (id, user_id, title, description, category, location, created_at)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326), $8)
	`
	_, err = tx.Exec(ctx, query,
		report.ID,
		report.ReporterID,
		report.Title,
		report.Description,
		report.Category,
		report.Location.Lng,
		report.Location.Lat,
		report.CreatedAt,
	)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *Reports) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const op = "postgres.Reports.GetByID"

	query := `
		SELECT id, user_id, title, description, category, ST_Y(location), ST_X(location), created_at
		FROM reports
		WHERE id = $1
	`

	var rep domain.Report
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&rep.ID,
		&rep.ReporterID,
		&rep.Title,
		&rep.Description,
		&rep.Category,
		&rep.Location.Lat,
		&rep.Location.Lng,
		&rep.CreatedAt,
	)
	if err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return &rep, nil
}

func (r *Reports) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.Reports.Delete"

	tag, err := r.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	if tag.RowsAffected() == 0 {
		return e.WrapError(ctx, op, pgx.ErrNoRows)
	}
	return nil
}
