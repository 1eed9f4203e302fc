package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrValidation       = errors.New("validation failed")
	ErrOutOfRange       = errors.New("coordinate out of range")
	ErrUnmappedCategory = errors.New("unmapped category")
	ErrInvalidState     = errors.New("invalid state")
	ErrDependency       = errors.New("dependency failure")
	ErrDeadline         = errors.New("deadline exceeded")
	ErrCanceled         = errors.New("context canceled")
	ErrQueueEmpty       = errors.New("notification queue is empty")
	ErrLockNotAcquired  = errors.New("lock not acquired")
)

// Validation builds an ErrValidation carrying the offending field.
func Validation(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, reason)
}

// InvalidState builds an ErrInvalidState with a human readable reason.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// WrapError maps storage and context failures onto the package sentinels.
// The original error stays in the chain so callers can still inspect it.
func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, ErrDeadline, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w: %w", op, ErrCanceled, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w: %w", op, ErrConflict, err)
		case "23503", "23514":
			return fmt.Errorf("%s: %w: %w", op, ErrValidation, err)
		default:
			return fmt.Errorf("%s: pg error %s: %w: %w", op, pgErr.Code, ErrDependency, err)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}

// Dependency wraps an arbitrary collaborator failure unless it already
// carries one of the domain sentinels.
func Dependency(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrDependency, ErrNotFound, ErrConflict, ErrValidation, ErrOutOfRange,
		ErrInvalidState, ErrUnmappedCategory, ErrDeadline, ErrCanceled,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, ErrDependency, err)
}
