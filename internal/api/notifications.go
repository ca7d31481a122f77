package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/notify"
)

// NotificationsHandler handles the caller's notification list.
type NotificationsHandler struct {
	Notifications *notify.Registry
	Logger        *slog.Logger
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unread_count"`
}

func (h *NotificationsHandler) center(r *http.Request) *notify.Center {
	claims := GetClaims(r.Context())
	if claims == nil {
		return nil
	}
	return h.Notifications.Open(claims.ID)
}

// List handles GET /api/notifications.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	c := h.center(r)
	if c == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	jsonResponse(w, http.StatusOK, notificationsResponse{
		Notifications: c.Store.List(),
		UnreadCount:   c.Store.UnreadCount(),
	})
}

// MarkRead handles PUT /api/notifications/{id}/read.
func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	c := h.center(r)
	if c == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if !c.Store.MarkRead(r.PathValue("id")) {
		jsonError(w, http.StatusNotFound, "notification not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "marked as read"})
}

// MarkAllRead handles PUT /api/notifications/read.
func (h *NotificationsHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	c := h.center(r)
	if c == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	c.Store.MarkAllRead()
	jsonResponse(w, http.StatusOK, map[string]string{"message": "all marked as read"})
}

// Remove handles DELETE /api/notifications/{id}.
func (h *NotificationsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	c := h.center(r)
	if c == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	if !c.Store.Remove(r.PathValue("id")) {
		jsonError(w, http.StatusNotFound, "notification not found")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "notification removed"})
}

// Clear handles DELETE /api/notifications.
func (h *NotificationsHandler) Clear(w http.ResponseWriter, r *http.Request) {
	c := h.center(r)
	if c == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	c.Store.Clear()
	jsonResponse(w, http.StatusOK, map[string]string{"message": "notifications cleared"})
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// streamMessage is one frame on the notification stream.
type streamMessage struct {
	Type         string              `json:"type"`
	Notification *model.Notification `json:"notification,omitempty"`
	UnreadCount  int                 `json:"unread_count"`
}

// Stream handles GET /api/notifications/stream. Every notification added to
// the caller's list is pushed over a websocket until either side closes it
// or the session logs out.
func (h *NotificationsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	c := h.center(r)
	if c == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	feed, cancel := c.Store.Subscribe()
	done := make(chan struct{})
	go h.readPump(conn, done)
	h.writePump(conn, c.Store, feed, done)
	cancel()
}

// readPump discards client frames and keeps the read deadline fresh. It
// closes done when the connection ends.
func (h *NotificationsHandler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Logger.Debug("websocket closed", "error", err)
			}
			return
		}
	}
}

func (h *NotificationsHandler) writePump(conn *websocket.Conn, s *notify.Store, feed <-chan model.Notification, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(streamMessage{Type: "hello", UnreadCount: s.UnreadCount()}); err != nil {
		return
	}

	for {
		select {
		case n, ok := <-feed:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			msg := streamMessage{Type: "notification", Notification: &n, UnreadCount: s.UnreadCount()}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			return
		}
	}
}
