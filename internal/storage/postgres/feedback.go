package postgres

import (
	"context"
	"log/slog"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/pkg/e"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Feedback struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewFeedback(pool *pgxpool.Pool, logger *slog.Logger) *Feedback {
	return &Feedback{pool: pool, logger: logger}
}

func (r *Feedback) Create(ctx context.Context, fb *domain.Feedback) error {
	const op = "postgres.Feedback.Create"

	query := `
		INSERT INTO feedback (id, occurrence_id, user_id, is_confirmed, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query, fb.ID, fb.OccurrenceID, fb.UserID, fb.IsConfirmed, fb.CreatedAt)
	if err != nil {
		r.logger.Error("db exec failed", slog.String("op", op), slog.Any("error", err))
		return e.WrapError(ctx, op, err)
	}
	return nil
}

func (r *Feedback) ListByOccurrence(ctx context.Context, occurrenceID uuid.UUID) ([]*domain.Feedback, error) {
	const op = "postgres.Feedback.ListByOccurrence"

	query := `
		SELECT id, occurrence_id, user_id, is_confirmed, created_at
		FROM feedback
		WHERE occurrence_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, occurrenceID)
	if err != nil {
		r.logger.Error("db query failed", slog.String("op", op), slog.Any("error", err))
		return nil, e.WrapError(ctx, op, err)
	}
	defer rows.Close()

	var out []*domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		if err := rows.Scan(&fb.ID, &fb.OccurrenceID, &fb.UserID, &fb.IsConfirmed, &fb.CreatedAt); err != nil {
			return nil, e.WrapError(ctx, op, err)
		}
		out = append(out, &fb)
	}
	if err := rows.Err(); err != nil {
		return nil, e.WrapError(ctx, op, err)
	}
	return out, nil
}

func (r *Feedback) UserExists(ctx context.Context, userID int64) (bool, error) {
	const op = "postgres.Feedback.UserExists"

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return false, e.WrapError(ctx, op, err)
	}
	return exists, nil
}

func (r *Feedback) OccurrenceExists(ctx context.Context, occurrenceID uuid.UUID) (bool, error) {
	const op = "postgres.Feedback.OccurrenceExists"

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM occurrences WHERE id = $1)`, occurrenceID).Scan(&exists); err != nil {
		return false, e.WrapError(ctx, op, err)
	}
	return exists, nil
}

func (r *Feedback) HasRecentFeedback(ctx context.Context, userID int64, occurrenceID uuid.UUID, since time.Time) (bool, error) {
	const op = "postgres.Feedback.HasRecentFeedback"

	query := `
		SELECT EXISTS (
			SELECT 1 FROM feedback
			WHERE user_id = $1 AND occurrence_id = $2 AND created_at >= $3
		)
	`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, occurrenceID, since).Scan(&exists); err != nil {
		return false, e.WrapError(ctx, op, err)
	}
	return exists, nil
}
