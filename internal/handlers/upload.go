package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/bodyfit-ai/bodyfit/internal/session"
	"github.com/bodyfit-ai/bodyfit/internal/views"
)

func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r)
	snap := sess.Snapshot()

	data := views.UploadData{
		Session:  snap,
		Rejected: h.cfg.RejectFeedback && r.URL.Query().Get("rejected") == "1",
	}
	if snap.Image != nil && snap.Image.PreviewID != "" {
		data.PreviewURL = "/upload/preview/" + snap.Image.PreviewID
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderUpload(w, h.catalog, data); err != nil {
		h.writeError(w, "Failed to render upload page: "+err.Error(), http.StatusInternalServerError)
	}
}

// HandleSelect accepts the file picker form and drops. Drops may carry
// several files; only the first is considered.
func (h *Handler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	limit := h.cfg.MaxUploadBytes()
	if r.ContentLength > limit {
		h.writeError(w, fmt.Sprintf("File too large (max %dMB)", h.cfg.MaxUploadMB), http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, fmt.Sprintf("File too large (max %dMB)", h.cfg.MaxUploadMB), http.StatusRequestEntityTooLarge)
			return
		}
		h.writeError(w, "Failed to read upload: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			slog.Error("Unable to remove multipart temp files", "err", err)
		}
	}()

	headers := r.MultipartForm.File["file"]
	sess := h.currentSession(w, r)

	var err error
	switch r.FormValue("source") {
	case "drop":
		var files []session.File
		files, err = readFiles(headers)
		if err == nil {
			err = sess.Drop(files)
		}
	default:
		if len(headers) == 0 {
			h.redirectToUpload(w, r)
			return
		}
		var f session.File
		f, err = readFile(headers[0])
		if err == nil {
			err = sess.Select(f)
		}
	}

	switch {
	case err == nil:
		h.redirectToUpload(w, r)
	case errors.Is(err, session.ErrUnsupportedMediaType):
		slog.Debug("Ignoring non-image file", "session_id", sess.ID(), "err", err)
		if h.cfg.RejectFeedback {
			http.Redirect(w, r, "/upload?rejected=1", http.StatusSeeOther)
			return
		}
		h.redirectToUpload(w, r)
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrClosed):
		slog.Debug("Ignoring image selection", "session_id", sess.ID(), "err", err)
		h.redirectToUpload(w, r)
	default:
		h.writeError(w, "Failed to read file: "+err.Error(), http.StatusBadRequest)
	}
}

func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r)
	if err := sess.Analyze(); err != nil {
		slog.Debug("Ignoring analyze request", "session_id", sess.ID(), "phase", sess.Phase(), "err", err)
	}
	h.redirectToUpload(w, r)
}

func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r)
	sess.Reset()
	h.redirectToUpload(w, r)
}

// HandlePreview serves the caller's current image back to them. Handles of
// other sessions and of released images are not found.
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	snap := sess.Snapshot()
	if snap.Image == nil || snap.Image.PreviewID != id {
		h.writeError(w, "Preview not found", http.StatusNotFound)
		return
	}
	blob, found := h.previews.Get(id)
	if !found {
		h.writeError(w, "Preview not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", blob.MediaType)
	w.Header().Set("Cache-Control", "private, no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	if _, err := w.Write(blob.Data); err != nil {
		slog.Error("Unable to write preview", "session_id", sess.ID(), "err", err)
	}
}

func readFiles(headers []*multipart.FileHeader) ([]session.File, error) {
	files := make([]session.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readFile(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// readFile keeps the bytes of image files only; the session never needs
// the contents of anything else.
func readFile(fh *multipart.FileHeader) (session.File, error) {
	f := session.File{
		Name:      fh.Filename,
		Size:      fh.Size,
		MediaType: fh.Header.Get("Content-Type"),
	}
	if !models.IsImageMediaType(f.MediaType) {
		return f, nil
	}

	file, err := fh.Open()
	if err != nil {
		return f, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	f.Data, err = io.ReadAll(file)
	if err != nil {
		return f, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
	}
	return f, nil
}
