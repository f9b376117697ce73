package model

// Message kinds and sender roles as they appear on the chat wire.
const (
	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"

	SenderTypeClient   = "CLIENT"
	SenderTypeProvider = "PROVIDER"
)

// TimestampLayout is the wall-clock format the server stamps on chat
// messages ("10:00 AM").
const TimestampLayout = "03:04 PM"

// ChatMessage is one chat entry, both inside history frames and as a live
// event. Live events are bare ChatMessage objects with no type discriminator.
type ChatMessage struct {
	ID          string `json:"id"`
	MessageType string `json:"message_type"`
	Message     string `json:"message,omitempty"`
	ImageData   string `json:"image_data,omitempty"`
	Sender      string `json:"sender"`
	SenderType  string `json:"sender_type"`
	Timestamp   string `json:"timestamp"`

	// SentByMe is derived locally from the viewer's role, never sent.
	SentByMe bool `json:"-"`
}

// TypeChatHistory discriminates the one-time full-backlog frame.
const TypeChatHistory = "chat_history"

// ChatHistory is the snapshot frame sent once per connection.
type ChatHistory struct {
	Type     string        `json:"type"`
	Messages []ChatMessage `json:"messages"`
}

// ChatSend is the outbound chat frame. For images, Image carries a base64
// data URL as produced by the client; the server strips the prefix before
// storing.
type ChatSend struct {
	MessageType string `json:"message_type"`
	Message     string `json:"message,omitempty"`
	Image       string `json:"image,omitempty"`
	Sender      string `json:"sender"`
	IsClient    bool   `json:"is_client"`
}
