package domain

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	ID           uuid.UUID `json:"id"`
	OccurrenceID uuid.UUID `json:"occurrence_id"`
	UserID       int64     `json:"user_id"`
	IsConfirmed  bool      `json:"is_confirmed"`
	CreatedAt    time.Time `json:"created_at"`
}
