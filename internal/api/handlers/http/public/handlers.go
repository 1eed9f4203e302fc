package public

import (
	"context"
	"log/slog"
	"net/http"

	"readyToHelp/internal/domain"
	"readyToHelp/internal/middleware"
	"readyToHelp/internal/render"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

//go:generate mockgen -source=handlers.go -destination=mocks/mock.go
type ReportCreator interface {
	CreateReport(ctx context.Context, req domain.CreateReportRequest) (*domain.ReportResult, error)
}

type FeedbackSubmitter interface {
	SubmitFeedback(ctx context.Context, req domain.CreateFeedbackRequest) (*domain.Feedback, error)
}

type OccurrenceGetter interface {
	GetOccurrence(ctx context.Context, id uuid.UUID) (*domain.Occurrence, error)
}

type Handler struct {
	logger      *slog.Logger
	render      *render.Renderer
	Reports     ReportCreator
	Feedback    FeedbackSubmitter
	Occurrences OccurrenceGetter
}

func NewHandler(logger *slog.Logger, reports ReportCreator, feedback FeedbackSubmitter, occurrences OccurrenceGetter) *Handler {
	return &Handler{
		logger:      logger,
		render:      render.NewRenderer(logger),
		Reports:     reports,
		Feedback:    feedback,
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

func (h *Handler) PublicReportCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("PublicReportCreate", slog.String("remote", r.RemoteAddr))

	var req domain.CreateReportRequest
	if err := middleware.BindJSON(w, r, &req); err != nil {
		l.Warn("invalid report request", slog.Any("error", err))
		h.render.Error(w, err)
		return
	}

	res, err := h.Reports.CreateReport(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	l.Info("report created",
		slog.String("report_id", res.ReportID.String()),
		slog.String("occurrence_id", res.OccurrenceID.String()),
		slog.Bool("duplicate", res.Duplicate),
	)
	h.render.JSON(w, http.StatusCreated, res)
}

func (h *Handler) PublicFeedbackCreate(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)
	l.Debug("PublicFeedbackCreate", slog.String("remote", r.RemoteAddr))

	var req domain.CreateFeedbackRequest
	if err := middleware.BindJSON(w, r, &req); err != nil {
		l.Warn("invalid feedback request", slog.Any("error", err))
		h.render.Error(w, err)
		return
	}

	fb, err := h.Feedback.SubmitFeedback(r.Context(), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render.JSON(w, http.StatusCreated, fb)
}

func (h *Handler) PublicOccurrenceGet(w http.ResponseWriter, r *http.Request) {
	l := h.log(r)

	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		l.Warn("invalid id", slog.String("id", idStr), slog.String("error", err.Error()))
		h.render.JSON(w, http.StatusBadRequest, render.ErrorBody{Error: "invalid id"})
		return
	}

	occ, err := h.Occurrences.GetOccurrence(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	h.render.JSON(w, http.StatusOK, NewOccurrenceView(occ))
}
