// Package storage persists chat history and notifications in MariaDB.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"homewire/internal/model"
)

// ErrNotFound is returned when the targeted row does not exist.
var ErrNotFound = errors.New("storage: not found")

// Store wraps the database handle with the queries the realtime layer needs.
type Store struct {
	db *sql.DB
}

// New creates a Store on an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables if they do not exist yet.
func (s *Store) EnsureSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id CHAR(36) PRIMARY KEY,
			room_id VARCHAR(64) NOT NULL,
			sender CHAR(36) NOT NULL,
			sender_type VARCHAR(10) NOT NULL,
			message_type VARCHAR(5) NOT NULL,
			message TEXT,
			image_data MEDIUMTEXT,
			created_at DATETIME NOT NULL,
			INDEX idx_room_time (room_id, created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id CHAR(36) PRIMARY KEY,
			recipient CHAR(36) NOT NULL,
			notification_type VARCHAR(20) NOT NULL,
			order_id VARCHAR(64),
			message TEXT NOT NULL,
			is_read TINYINT(1) NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			INDEX idx_recipient_time (recipient, created_at)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// SaveMessage persists one chat message, assigning its server id and
// timestamp, and returns the message as it goes out on the wire.
func (s *Store) SaveMessage(roomID, sender, senderType, messageType, content string) (model.ChatMessage, error) {
	msg := model.ChatMessage{
		ID:          uuid.NewString(),
		MessageType: messageType,
		Sender:      sender,
		SenderType:  senderType,
	}

	var message, imageData string
	if messageType == model.MessageTypeImage {
		imageData = content
		msg.ImageData = content
	} else {
		message = content
		msg.Message = content
	}

	now := time.Now()
	msg.Timestamp = now.Format(model.TimestampLayout)

	_, err := s.db.Exec(
		"INSERT INTO chat_messages (id, room_id, sender, sender_type, message_type, message, image_data, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		msg.ID, roomID, sender, senderType, messageType, message, imageData, now,
	)
	if err != nil {
		return model.ChatMessage{}, fmt.Errorf("save message: %w", err)
	}
	return msg, nil
}

// History returns a room's messages in chronological order.
func (s *Store) History(roomID string) ([]model.ChatMessage, error) {
	rows, err := s.db.Query(
		"SELECT id, sender, sender_type, message_type, message, image_data, created_at FROM chat_messages WHERE room_id = ? ORDER BY created_at",
		roomID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var msgs []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		var message, imageData sql.NullString
		var createdAt time.Time
		if err := rows.Scan(&m.ID, &m.Sender, &m.SenderType, &m.MessageType, &message, &imageData, &createdAt); err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		m.Message = message.String
		m.ImageData = imageData.String
		m.Timestamp = createdAt.Format(model.TimestampLayout)
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if msgs == nil {
		msgs = []model.ChatMessage{}
	}
	return msgs, nil
}

// SaveNotification persists one notification, assigning its id and creation
// time, and returns it wire-shaped.
func (s *Store) SaveNotification(recipient, notificationType, orderID, message string) (model.Notification, error) {
	now := time.Now()
	n := model.Notification{
		ID:               uuid.NewString(),
		Message:          message,
		NotificationType: notificationType,
		OrderID:          orderID,
		CreatedAt:        now.Format(time.RFC3339),
	}

	_, err := s.db.Exec(
		"INSERT INTO notifications (id, recipient, notification_type, order_id, message, is_read, created_at) VALUES (?, ?, ?, ?, ?, 0, ?)",
		n.ID, recipient, notificationType, orderID, message, now,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("save notification: %w", err)
	}
	return n, nil
}

// UnreadNotifications returns a user's newest unread notifications, most
// recent first, at most limit of them.
func (s *Store) UnreadNotifications(recipient string, limit int) ([]model.Notification, error) {
	rows, err := s.db.Query(
		"SELECT id, notification_type, order_id, message, created_at FROM notifications WHERE recipient = ? AND is_read = 0 ORDER BY created_at DESC LIMIT ?",
		recipient, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	defer rows.Close()

	var ns []model.Notification
	for rows.Next() {
		var n model.Notification
		var orderID sql.NullString
		var createdAt time.Time
		if err := rows.Scan(&n.ID, &n.NotificationType, &orderID, &n.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("load notifications: %w", err)
		}
		n.OrderID = orderID.String
		n.CreatedAt = createdAt.Format(time.RFC3339)
		ns = append(ns, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	if ns == nil {
		ns = []model.Notification{}
	}
	return ns, nil
}

// MarkNotificationRead flags one notification as read. Returns ErrNotFound
// when the id is unknown; marking an already-read notification succeeds.
func (s *Store) MarkNotificationRead(id string) error {
	var exists bool
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM notifications WHERE id = ?)", id).Scan(&exists); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	if _, err := s.db.Exec("UPDATE notifications SET is_read = 1 WHERE id = ?", id); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}
