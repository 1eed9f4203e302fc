package public

import (
	"log/slog"
	"net/http"
	"time"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/render"

	"github.com/google/uuid"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)
	if render.StatusFor(err) >= http.StatusInternalServerError {
		l.Error("handler error",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
	} else {
		l.Info("request rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	h.render.Error(w, err)
}

// OccurrenceView is the public shape of an occurrence.
type OccurrenceView struct {
	ID                  uuid.UUID               `json:"id"`
	Title               string                  `json:"title"`
	Description         string                  `json:"description"`
	Category            domain.IncidentCategory `json:"category"`
	Status              domain.OccurrenceStatus `json:"status"`
	Priority            domain.Priority         `json:"priority"`
	Lat                 float64                 `json:"lat"`
	Lng                 float64                 `json:"lng"`
	ProximityRadiusM    float64                 `json:"proximity_radius_m"`
	ReportCount         int                     `json:"report_count"`
	CreatedAt           time.Time               `json:"created_at"`
	EndedAt             *time.Time              `json:"ended_at,omitempty"`
	ResponsibleEntityID *uuid.UUID              `json:"responsible_entity_id,omitempty"`
}

func NewOccurrenceView(o *domain.Occurrence) OccurrenceView {
	return OccurrenceView{
		ID:                  o.ID,
		Title:               o.Title,
		Description:         o.Description,
		Category:            o.Category,
		Status:              o.Status,
		Priority:            o.Priority,
		Lat:                 o.Anchor.Lat,
		Lng:                 o.Anchor.Lng,
		ProximityRadiusM:    o.ProximityRadiusMeters,
		ReportCount:         o.ReportCount,
		CreatedAt:           o.CreatedAt,
		EndedAt:             o.EndedAt,
		ResponsibleEntityID: o.ResponsibleEntityID,
	}
}
