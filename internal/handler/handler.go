package handler

import (
	"github.com/gorilla/mux"

	"homewire/internal/config"
	"homewire/internal/storage"
)

// Handler holds application dependencies
type Handler struct {
	Store  *storage.Store
	Config config.Config
	Chat   *Hub
	Notify *Hub
}

// New creates a new Handler with the given dependencies
func New(store *storage.Store, cfg config.Config) *Handler {
	return &Handler{
		Store:  store,
		Config: cfg,
		Chat:   NewHub(),
		Notify: NewHub(),
	}
}

// SetupRouter configures and returns the HTTP router
func (h *Handler) SetupRouter() *mux.Router {
	r := mux.NewRouter()

	// REST API (notification fallback path)
	r.HandleFunc("/notifications", h.GetNotifications).Methods("GET")
	r.HandleFunc("/notifications", h.CreateNotification).Methods("POST")
	r.HandleFunc("/notifications/{id}/", h.MarkNotificationRead).Methods("PUT")

	// WebSocket: one address per channel key
	r.HandleFunc("/ws/chat/{room}/", h.HandleChat).Methods("GET")
	r.HandleFunc("/ws/notifications/{user}/", h.HandleNotifications).Methods("GET")

	return r
}
