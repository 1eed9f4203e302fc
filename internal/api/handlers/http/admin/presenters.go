package admin

import (
	"log/slog"
	"net/http"

	"readyToHelp/internal/render"
)

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	l := h.log(r)

	level := slog.LevelInfo
	if render.StatusFor(err) >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	l.Log(r.Context(), level, "handler error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err),
	)

	h.render.Error(w, err)
}
