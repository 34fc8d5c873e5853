package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bodyfit-ai/bodyfit/internal/config"
	"github.com/bodyfit-ai/bodyfit/internal/content"
	"github.com/bodyfit-ai/bodyfit/internal/preview"
	"github.com/bodyfit-ai/bodyfit/internal/session"
	"github.com/bodyfit-ai/bodyfit/internal/storage"
	"github.com/bodyfit-ai/bodyfit/internal/views"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const sessionCookie = "bodyfit_session"

type Handler struct {
	cfg          config.Config
	catalog      *content.Catalog
	sessionStore *storage.SessionStore
	previews     *preview.Store
	renderer     *views.Renderer
	static       http.Handler
	upgrader     websocket.Upgrader
}

func New(cfg config.Config, catalog *content.Catalog, sessionStore *storage.SessionStore, previews *preview.Store) (*Handler, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}
	return &Handler{
		cfg:          cfg,
		catalog:      catalog,
		sessionStore: sessionStore,
		previews:     previews,
		renderer:     renderer,
		static:       http.StripPrefix("/static/", http.FileServerFS(views.StaticFS())),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}, nil
}

// Routes registers every endpoint on a new mux
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleHome)
	mux.HandleFunc("GET /upload", h.HandleUpload)
	mux.HandleFunc("POST /upload/select", h.HandleSelect)
	mux.HandleFunc("POST /upload/analyze", h.HandleAnalyze)
	mux.HandleFunc("POST /upload/reset", h.HandleReset)
	mux.HandleFunc("GET /upload/preview/{id}", h.HandlePreview)
	mux.HandleFunc("GET /upload/events", h.HandleEvents)
	mux.HandleFunc("GET /api/session", h.HandleSession)
	mux.HandleFunc("GET /static/", h.HandleStatic)
	mux.HandleFunc("GET /healthcheck", h.HandleHealthcheck)
	return mux
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) redirectToUpload(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/upload", http.StatusSeeOther)
}

// Session helpers
func sessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// currentSession returns the visitor's session, starting a new one and
// setting the cookie when the request carries none.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) *session.Session {
	id, ok := sessionID(r)
	if !ok {
		id = uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	sess, created := h.sessionStore.GetOrCreate(id)
	if created {
		slog.Info("Session created", "session_id", id)
	}
	return sess
}

func (h *Handler) getSessionOrError(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id, ok := sessionID(r)
	if !ok {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	sess, exists := h.sessionStore.Get(id)
	if !exists {
		h.writeError(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
