// Package protocol classifies and decodes inbound frames for a single
// channel. The wire has no uniform envelope: history snapshots and control
// frames carry a "type" field, live chat events are bare message objects
// identified by "message_type", and notifications are bare objects with
// neither.
package protocol

import (
	"encoding/json"
	"fmt"

	"homewire/internal/model"
)

// FrameKind identifies the shape of an inbound frame.
type FrameKind int

const (
	FrameUnknown FrameKind = iota
	FrameChatHistory
	FrameChatMessage
	FrameControl
	FrameNotification
)

func (k FrameKind) String() string {
	switch k {
	case FrameChatHistory:
		return "chat_history"
	case FrameChatMessage:
		return "chat_message"
	case FrameControl:
		return "control"
	case FrameNotification:
		return "notification"
	}
	return "unknown"
}

// probe reads just enough of a frame to tell its kind.
type probe struct {
	Type        string `json:"type"`
	MessageType string `json:"message_type"`
	ID          string `json:"id"`
}

// Classify inspects a raw frame and reports its kind. Malformed payloads
// classify as FrameUnknown; the caller drops them.
func Classify(raw []byte) FrameKind {
	var p probe
	if err := json.Unmarshal(raw, &p); err != nil {
		return FrameUnknown
	}
	switch {
	case p.Type == model.TypeChatHistory:
		return FrameChatHistory
	case p.Type != "":
		return FrameControl
	case p.MessageType != "":
		return FrameChatMessage
	case p.ID != "":
		return FrameNotification
	}
	return FrameUnknown
}

// DecodeHistory decodes a chat_history snapshot frame.
func DecodeHistory(raw []byte) ([]model.ChatMessage, error) {
	var h model.ChatHistory
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return h.Messages, nil
}

// DecodeChatMessage decodes a live chat event.
func DecodeChatMessage(raw []byte) (model.ChatMessage, error) {
	var m model.ChatMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return model.ChatMessage{}, fmt.Errorf("decode chat message: %w", err)
	}
	return m, nil
}

// DecodeControl decodes a control frame.
func DecodeControl(raw []byte) (model.Control, error) {
	var c model.Control
	if err := json.Unmarshal(raw, &c); err != nil {
		return model.Control{}, fmt.Errorf("decode control frame: %w", err)
	}
	return c, nil
}

// DecodeNotification decodes a bare notification object.
func DecodeNotification(raw []byte) (model.Notification, error) {
	var n model.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return model.Notification{}, fmt.Errorf("decode notification: %w", err)
	}
	return n, nil
}
