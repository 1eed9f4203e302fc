package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationRequest is the alert sent to a responsible entity. Dispatchers
// rebuild it with a fresh Timestamp for every send.
type NotificationRequest struct {
	EntityID     *uuid.UUID           `json:"entity_id,omitempty"`
	EntityName   string               `json:"entity_name,omitempty"`
	Category     OrganizationCategory `json:"category"`
	OccurrenceID uuid.UUID            `json:"occurrence_id"`
	Title        string               `json:"title"`
	Location     Coordinate           `json:"location"`
	Message      string               `json:"message"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Stamped returns a copy carrying the given dispatch time.
func (n NotificationRequest) Stamped(at time.Time) NotificationRequest {
	out := n
	if n.EntityID != nil {
		id := *n.EntityID
		out.EntityID = &id
	}
	out.Timestamp = at
	return out
}
