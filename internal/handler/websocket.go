package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"homewire/internal/model"
)

// createUpgrader creates a WebSocket upgrader with the given allowed origins
func createUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowedMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		allowedMap[origin] = true
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				// Non-browser clients send no Origin header.
				return true
			}
			return allowedMap[origin]
		},
	}
}

// HandleChat handles GET /ws/chat/{room}/
//
// The new member first receives the room's full history as a chat_history
// snapshot. Every frame it sends afterwards is persisted, stamped with a
// server id and timestamp, and broadcast to the whole room, the sender
// included: the sender's own message only appears through that round trip.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	room := mux.Vars(r)["room"]

	upgrader := createUpgrader(h.Config.AllowedOrigins)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[chat/%s] upgrade error: %v", room, err)
		return
	}
	defer conn.Close()

	h.Chat.Join(room, conn)
	defer h.Chat.Leave(room, conn)

	history, err := h.Store.History(room)
	if err != nil {
		log.Printf("[chat/%s] history load failed: %v", room, err)
		history = []model.ChatMessage{}
	}
	if err := h.Chat.Send(conn, model.ChatHistory{Type: model.TypeChatHistory, Messages: history}); err != nil {
		log.Printf("[chat/%s] history sync failed: %v", room, err)
		return
	}
	log.Printf("[chat/%s] member joined (%d connected)", room, h.Chat.Count(room))

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[chat/%s] member left: %v", room, err)
			return
		}

		var in model.ChatSend
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Printf("[chat/%s] dropping malformed frame: %v", room, err)
			continue
		}
		if in.MessageType != model.MessageTypeText && in.MessageType != model.MessageTypeImage {
			log.Printf("[chat/%s] dropping frame with unknown message_type %q", room, in.MessageType)
			continue
		}

		content := in.Message
		if in.MessageType == model.MessageTypeImage {
			content = stripDataURL(in.Image)
		}
		senderType := model.SenderTypeProvider
		if in.IsClient {
			senderType = model.SenderTypeClient
		}

		msg, err := h.Store.SaveMessage(room, in.Sender, senderType, in.MessageType, content)
		if err != nil {
			log.Printf("[chat/%s] persist failed: %v", room, err)
			continue
		}
		h.Chat.Broadcast(room, msg)
	}
}

// stripDataURL removes the "data:image/...;base64," prefix clients attach
// to uploaded images; only the base64 body is stored and relayed.
func stripDataURL(s string) string {
	if i := strings.Index(s, "base64,"); i >= 0 {
		return s[i+len("base64,"):]
	}
	return s
}

// HandleNotifications handles GET /ws/notifications/{user}/
//
// Greets the stream with connection_established, then pushes bare
// notification objects as they are published. The only inbound frame is
// mark_read; no response is sent for it because the client already updated
// its UI.
func (h *Handler) HandleNotifications(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]

	upgrader := createUpgrader(h.Config.AllowedOrigins)
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[notifications/%s] upgrade error: %v", user, err)
		return
	}
	defer conn.Close()

	h.Notify.Join(user, conn)
	defer h.Notify.Leave(user, conn)

	if err := h.Notify.Send(conn, model.Control{
		Type:    model.ControlConnectionEstablished,
		Message: "Connected to notification stream",
	}); err != nil {
		log.Printf("[notifications/%s] greeting failed: %v", user, err)
		return
	}
	log.Printf("[notifications/%s] stream opened", user)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			log.Printf("[notifications/%s] stream closed: %v", user, err)
			return
		}

		var in model.MarkRead
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Printf("[notifications/%s] dropping malformed frame: %v", user, err)
			continue
		}
		if in.Type != model.ControlMarkRead || in.NotificationID == "" {
			log.Printf("[notifications/%s] dropping frame with type %q", user, in.Type)
			continue
		}
		if err := h.Store.MarkNotificationRead(in.NotificationID); err != nil {
			log.Printf("[notifications/%s] mark read %s failed: %v", user, in.NotificationID, err)
		}
	}
}
