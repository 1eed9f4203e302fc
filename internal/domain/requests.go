package domain

import "github.com/google/uuid"

type CreateReportRequest struct {
	Title       string           `json:"title" validate:"required,notblank,max=200"`
	Description string           `json:"description" validate:"required,notblank,max=4000"`
	Category    IncidentCategory `json:"category" validate:"required,category"`
	UserID      int64            `json:"user_id" validate:"required,gt=0"`
	Lat         *float64         `json:"lat" validate:"required,lat"`
	Lng         *float64         `json:"lng" validate:"required,lng"`
}

type ReportResult struct {
	ReportID          uuid.UUID        `json:"report_id"`
	OccurrenceID      uuid.UUID        `json:"occurrence_id"`
	OccurrenceStatus  OccurrenceStatus `json:"occurrence_status"`
	ReportCount       int              `json:"report_count"`
	Duplicate         bool             `json:"duplicate"`
	ResponsibleEntity *EntityContact   `json:"responsible_entity,omitempty"`
}

type CreateFeedbackRequest struct {
	OccurrenceID uuid.UUID `json:"occurrence_id" validate:"required"`
	UserID       int64     `json:"user_id" validate:"required,gt=0"`
	IsConfirmed  *bool     `json:"is_confirmed" validate:"required"`
}

type ChangeStatusRequest struct {
	Status OccurrenceStatus `json:"status" validate:"required,oneof=ACTIVE IN_PROGRESS RESOLVED CLOSED"`
}
