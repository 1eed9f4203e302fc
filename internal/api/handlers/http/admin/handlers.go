package admin

import (
	"context"
	"log/slog"
	"net/http"

	"readyToHelp/internal/api/handlers/http/public"
	"readyToHelp/internal/domain"
	"readyToHelp/internal/middleware"
	"readyToHelp/internal/render"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id uuid.UUID, status domain.OccurrenceStatus) (*domain.Occurrence, error)
}

type Handler struct {
	logger      *slog.Logger
	render      *render.Renderer
	Occurrences StatusChanger
}

func NewHandler(logger *slog.Logger, occurrences StatusChanger) *Handler {
	return &Handler{
		logger:      logger,
		render:      render.NewRenderer(logger),
		Occurrences: occurrences,
	}
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	reqID := chimw.GetReqID(r.Context())
	if reqID == "" {
		return h.logger
	}
	return h.logger.With(slog.String("request_id", reqID))
}

func (h *Handler) AdminOccurrenceStatus(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("AdminOccurrenceStatus", slog.String("remote", r.RemoteAddr))

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.render.JSON(w, http.StatusBadRequest, render.ErrorBody{Error: "invalid id"})
		return
	}

	var req domain.ChangeStatusRequest
	if err := middleware.BindJSON(w, r, &req); err != nil {
		l.Warn("invalid status request", slog.Any("error", err))
		h.render.Error(w, err)
		return
	}

	occ, err := h.Occurrences.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("occurrence status changed",
		slog.String("id", occ.ID.String()),
		slog.String("status", string(occ.Status)),
	)
	h.render.JSON(w, http.StatusOK, public.NewOccurrenceView(occ))
}
