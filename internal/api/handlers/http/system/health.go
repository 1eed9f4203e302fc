package system

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"readyToHelp/internal/render"
)

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	logger  *slog.Logger
	render  *render.Renderer
	checks  map[string]Check
	timeout time.Duration
}

func NewHandler(logger *slog.Logger, checks map[string]Check) *Handler {
	return &Handler{
		logger:  logger,
		render:  render.NewRenderer(logger),
		checks:  checks,
		timeout: 2 * time.Second,
	}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) SystemHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "ok"}
	code := http.StatusOK
	for _, name := range names {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(names))
		}
		if err := h.checks[name](ctx); err != nil {
			h.logger.Warn("health check failed", slog.String("check", name), slog.Any("error", err))
			resp.Checks[name] = "down"
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "up"
	}

	h.render.JSON(w, code, resp)
}
