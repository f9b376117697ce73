package realtime

import (
	"sync"

	"homewire/internal/model"
)

// Store is the ordered, append-only view of one chat channel's content.
// It trusts arrival order and never re-sorts: history arrives chronological
// from the server, and live messages append after it. Duplicate server ids
// are rejected, which makes reconnect replay and an overlapping fallback
// poller safe.
type Store struct {
	viewerRole string

	mu       sync.Mutex
	messages []model.ChatMessage
	seen     map[string]bool
}

// NewStore creates a store for a viewer with the given role
// (model.SenderTypeClient or model.SenderTypeProvider). The role decides
// SentByMe on every stored message.
func NewStore(viewerRole string) *Store {
	return &Store{
		viewerRole: viewerRole,
		seen:       make(map[string]bool),
	}
}

// ReplaceHistory swaps the entire content for the server's snapshot.
// Called once per connection, on receipt of the history-sync frame.
func (s *Store) ReplaceHistory(msgs []model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]model.ChatMessage, 0, len(msgs))
	s.seen = make(map[string]bool, len(msgs))
	for _, m := range msgs {
		m.SentByMe = m.SenderType == s.viewerRole
		s.messages = append(s.messages, m)
		if m.ID != "" {
			s.seen[m.ID] = true
		}
	}
}

// Append inserts a live message at the end. A message whose server id is
// already present is rejected; the return value reports whether the message
// was stored.
func (s *Store) Append(m model.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID != "" && s.seen[m.ID] {
		return false
	}
	m.SentByMe = m.SenderType == s.viewerRole
	s.messages = append(s.messages, m)
	if m.ID != "" {
		s.seen[m.ID] = true
	}
	return true
}

// Clear drops everything. Invoked when the channel closes so nothing leaks
// across channels.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
	s.seen = make(map[string]bool)
}

// Messages returns a copy of the current content in arrival order.
func (s *Store) Messages() []model.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.messages)
}
