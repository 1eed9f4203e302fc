package domain

import (
	"time"

	"github.com/google/uuid"
)

type OccurrenceStatus string

const (
	StatusWaiting    OccurrenceStatus = "WAITING"
	StatusActive     OccurrenceStatus = "ACTIVE"
	StatusInProgress OccurrenceStatus = "IN_PROGRESS"
	StatusResolved   OccurrenceStatus = "RESOLVED"
	StatusClosed     OccurrenceStatus = "CLOSED"
)

func (s OccurrenceStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusActive, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Terminal is true for CLOSED: nothing may match or reopen it.
func (s OccurrenceStatus) Terminal() bool { return s == StatusClosed }

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Occurrence aggregates every report of one real-world incident.
type Occurrence struct {
	ID                    uuid.UUID        `json:"id"`
	Title                 string           `json:"title"`
	Description           string           `json:"description"`
	Category              IncidentCategory `json:"category"`
	Status                OccurrenceStatus `json:"status"`
	Priority              Priority         `json:"priority"`
	ProximityRadiusMeters float64          `json:"proximity_radius_m"`
	Anchor                Coordinate       `json:"anchor"`
	CreatedAt             time.Time        `json:"created_at"`
	EndedAt               *time.Time       `json:"ended_at,omitempty"`
	ReportCount           int              `json:"report_count"`
	OriginatingReportID   *uuid.UUID       `json:"originating_report_id,omitempty"`
	ResponsibleEntityID   *uuid.UUID       `json:"responsible_entity_id,omitempty"`
	// Version is bumped by every successful store update.
	Version int64 `json:"-"`
}

func (o *Occurrence) Ended() bool { return o.EndedAt != nil }

// Clone returns a deep copy so callers can mutate without touching shared state.
func (o *Occurrence) Clone() *Occurrence {
	if o == nil {
		return nil
	}
	c := *o
	if o.EndedAt != nil {
		t := *o.EndedAt
		c.EndedAt = &t
	}
	if o.OriginatingReportID != nil {
		id := *o.OriginatingReportID
		c.OriginatingReportID = &id
	}
	if o.ResponsibleEntityID != nil {
		id := *o.ResponsibleEntityID
		c.ResponsibleEntityID = &id
	}
	return &c
}
