package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/lostfound/internal/events"
	"github.com/erazemk/lostfound/internal/notify"
	"github.com/erazemk/lostfound/internal/repo"
	"github.com/erazemk/lostfound/internal/session"
)

// Deps are the services the API is built on.
type Deps struct {
	Items         *repo.Items
	Sessions      *session.Service
	Notifications *notify.Registry
	Bus           events.Bus
	MaxImageBytes int64
	Logger        *slog.Logger
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Bus == nil {
		d.Bus = events.Noop{}
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{Sessions: d.Sessions, Notifications: d.Notifications}
	itemsHandler := &ItemsHandler{
		Items:         d.Items,
		Notifications: d.Notifications,
		Bus:           d.Bus,
		MaxImageBytes: d.MaxImageBytes,
		Logger:        d.Logger,
	}
	notificationsHandler := &NotificationsHandler{Notifications: d.Notifications, Logger: d.Logger}

	authMW := AuthMiddleware(d.Sessions)

	// Public: account creation and login.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	// Items.
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Delete)))
	mux.Handle("POST /api/items/{id}/comments", authMW(http.HandlerFunc(itemsHandler.AddComment)))
	mux.Handle("PUT /api/items/{id}/tracking", authMW(http.HandlerFunc(itemsHandler.SetTracking)))
	mux.Handle("PUT /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))
	mux.Handle("GET /api/stats", authMW(http.HandlerFunc(itemsHandler.Stats)))

	// Notifications of the calling session.
	mux.Handle("GET /api/notifications", authMW(http.HandlerFunc(notificationsHandler.List)))
	mux.Handle("PUT /api/notifications/read", authMW(http.HandlerFunc(notificationsHandler.MarkAllRead)))
	mux.Handle("PUT /api/notifications/{id}/read", authMW(http.HandlerFunc(notificationsHandler.MarkRead)))
	mux.Handle("DELETE /api/notifications", authMW(http.HandlerFunc(notificationsHandler.Clear)))
	mux.Handle("DELETE /api/notifications/{id}", authMW(http.HandlerFunc(notificationsHandler.Remove)))
	mux.Handle("GET /api/notifications/stream", authMW(http.HandlerFunc(notificationsHandler.Stream)))

	return mux
}
