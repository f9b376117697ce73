package model

// Notification is pushed to a user's notification stream as a bare object
// (no type discriminator) and returned by the REST fallback endpoint.
type Notification struct {
	ID               string `json:"id"`
	Message          string `json:"message"`
	NotificationType string `json:"notification_type,omitempty"`
	OrderID          string `json:"order_id,omitempty"`
	CreatedAt        string `json:"created_at"`
	IsRead           bool   `json:"is_read"`
}

// Control frame types on the notification stream.
const (
	ControlConnectionEstablished = "connection_established"
	ControlMarkRead              = "mark_read"
)

// Control is a typed frame that carries no payload beyond its discriminator.
type Control struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// MarkRead is the outbound dismiss frame.
type MarkRead struct {
	Type           string `json:"type"`
	NotificationID string `json:"notification_id"`
}
