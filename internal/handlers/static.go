package handlers

import (
	"log/slog"
	"net/http"
)

func (h *Handler) HandleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderHome(w, h.catalog); err != nil {
		h.writeError(w, "Failed to render home page: "+err.Error(), http.StatusInternalServerError)
	}
}

// HandleStatic serves the embedded stylesheet and scripts
func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}

func (h *Handler) HandleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Unable to write healthcheck", "err", err)
	}
}
