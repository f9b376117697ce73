package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"homewire/internal/storage"
)

// GetNotifications handles GET /notifications?user_id=
// Returns the user's unread notifications, newest first, capped at the
// visible limit. This is the fallback path used while the push channel is
// down; ids match what the stream delivers, so the client dedups overlap.
func (h *Handler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		log.Printf("[GET /notifications] ❌ Bad Request: missing user_id")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "user_id is required"})
		return
	}

	ns, err := h.Store.UnreadNotifications(userID, h.Config.NotificationCap)
	if err != nil {
		log.Printf("[GET /notifications] ❌ Database error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
		return
	}

	log.Printf("[GET /notifications] ✅ Returned %d notifications for user %s", len(ns), userID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ns)
}

// MarkNotificationRead handles PUT /notifications/{id}/
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Store.MarkNotificationRead(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("[PUT /notifications/%s] ❌ Not Found", id)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "Notification not found"})
			return
		}
		log.Printf("[PUT /notifications/%s] ❌ Database error: %v", id, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Database error"})
		return
	}

	log.Printf("[PUT /notifications/%s] ✅ Marked read", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

// createNotificationRequest is the POST /notifications body.
type createNotificationRequest struct {
	UserID           string `json:"user_id"`
	Message          string `json:"message"`
	NotificationType string `json:"notification_type"`
	OrderID          string `json:"order_id"`
}

// CreateNotification handles POST /notifications
// Persists a notification and pushes it to the recipient's open stream, if
// any. Order services call this when an order changes state.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req createNotificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("[POST /notifications] ❌ Bad Request: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid request body"})
		return
	}
	if req.UserID == "" || req.Message == "" {
		log.Printf("[POST /notifications] ❌ Bad Request: missing user_id or message")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "user_id and message are required"})
		return
	}

	n, err := h.Store.SaveNotification(req.UserID, req.NotificationType, req.OrderID, req.Message)
	if err != nil {
		log.Printf("[POST /notifications] ❌ Database error: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Failed to create notification"})
		return
	}

	// Push to the recipient's stream; a bare notification object, no
	// type discriminator.
	h.Notify.Broadcast(req.UserID, n)

	log.Printf("[POST /notifications] ✅ Created notification %s for user %s", n.ID, req.UserID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(n)
}
