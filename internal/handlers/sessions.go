package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bodyfit-ai/bodyfit/internal/models"
	"github.com/bodyfit-ai/bodyfit/internal/session"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"
)

const (
	writeWait    = 10 * time.Second
	maxEventSize = 512
)

// clientEvent is a message sent by the upload page over the event socket
type clientEvent struct {
	Type  string `json:"type"`
	Event string `json:"event"`
}

func (h *Handler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r)
	h.writeJSON(w, sess.Snapshot())
}

// HandleEvents streams session snapshots to the upload page and receives
// its drag events. The socket is closed when the session is.
func (h *Handler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.getSessionOrError(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "session_id", sess.ID(), "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxEventSize)

	updates, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	slog.Debug("Event stream opened", "session_id", sess.ID())

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		// closing the socket unblocks the reader
		defer conn.Close()
		return pushSnapshots(ctx, conn, updates)
	})
	g.Go(func() error {
		return readEvents(conn, sess)
	})

	err = g.Wait()
	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) && !errors.Is(err, context.Canceled) {
		slog.Debug("Event stream ended", "session_id", sess.ID(), "err", err)
	}
}

func pushSnapshots(ctx context.Context, conn *websocket.Conn, updates <-chan models.SessionView) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case view, ok := <-updates:
			if !ok {
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed")
				return conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(view); err != nil {
				return err
			}
		}
	}
}

func readEvents(conn *websocket.Conn, sess *session.Session) error {
	for {
		var ev clientEvent
		if err := conn.ReadJSON(&ev); err != nil {
			return err
		}
		if ev.Type != "drag" {
			slog.Debug("Ignoring client event", "session_id", sess.ID(), "type", ev.Type)
			continue
		}
		drag, err := session.ParseDragEvent(ev.Event)
		if err != nil {
			slog.Debug("Ignoring drag event", "session_id", sess.ID(), "err", err)
			continue
		}
		sess.Drag(drag)
	}
}
