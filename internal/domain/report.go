package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is a single citizen submission. It is never mutated after creation.
type Report struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Category    IncidentCategory `json:"category"`
	ReporterID  int64            `json:"reporter_id"`
	Location    Coordinate       `json:"location"`
	CreatedAt   time.Time        `json:"created_at"`
}
