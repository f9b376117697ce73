package realtime

import (
	"fmt"
	"testing"

	"homewire/internal/model"
)

func textMessage(id, msg, senderType, ts string) model.ChatMessage {
	return model.ChatMessage{
		ID:          id,
		MessageType: model.MessageTypeText,
		Message:     msg,
		Sender:      "u1",
		SenderType:  senderType,
		Timestamp:   ts,
	}
}

// TestStoreAppendDeduplicates ensures the store length equals the number of
// distinct ids regardless of how often a message is delivered.
func TestStoreAppendDeduplicates(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	ids := []string{"a", "b", "a", "c", "b", "a"}
	for _, id := range ids {
		s.Append(textMessage(id, "msg "+id, model.SenderTypeClient, "10:00 AM"))
	}

	if s.Len() != 3 {
		t.Errorf("Expected 3 distinct messages, got %d", s.Len())
	}
}

// TestStoreDuplicateLiveEventAfterHistory covers the reconnect-replay case:
// a live event carrying an id already present in history must be rejected.
func TestStoreDuplicateLiveEventAfterHistory(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	s.ReplaceHistory([]model.ChatMessage{
		textMessage("m1", "hi", model.SenderTypeClient, "10:00 AM"),
	})

	if ok := s.Append(textMessage("m1", "hi", model.SenderTypeClient, "10:00 AM")); ok {
		t.Error("Expected duplicate append to be rejected")
	}
	if s.Len() != 1 {
		t.Errorf("Expected store length 1, got %d", s.Len())
	}
}

// TestStoreReplaceHistoryReplaces verifies a second snapshot fully replaces
// the first, never producing a union.
func TestStoreReplaceHistoryReplaces(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	a := []model.ChatMessage{
		textMessage("a1", "old 1", model.SenderTypeClient, "09:00 AM"),
		textMessage("a2", "old 2", model.SenderTypeProvider, "09:05 AM"),
	}
	b := []model.ChatMessage{
		textMessage("b1", "new", model.SenderTypeClient, "10:00 AM"),
	}

	s.ReplaceHistory(a)
	s.ReplaceHistory(b)

	got := s.Messages()
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("Expected exactly the second snapshot, got %+v", got)
	}

	// Ids from the discarded snapshot are no longer known.
	if ok := s.Append(textMessage("a1", "old 1", model.SenderTypeClient, "09:00 AM")); !ok {
		t.Error("Expected id from discarded snapshot to be appendable again")
	}
}

// TestStoreAppendKeepsArrivalOrder verifies the store never re-sorts, even
// when timestamps arrive inverted.
func TestStoreAppendKeepsArrivalOrder(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	s.Append(textMessage("2", "second", model.SenderTypeClient, "11:00 AM"))
	s.Append(textMessage("1", "first", model.SenderTypeClient, "10:00 AM"))

	got := s.Messages()
	if len(got) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(got))
	}
	if got[0].ID != "2" || got[1].ID != "1" {
		t.Errorf("Expected arrival order [2 1], got [%s %s]", got[0].ID, got[1].ID)
	}
}

// TestStoreComputesSentByMe checks the viewer-role derivation on both the
// history and live paths.
func TestStoreComputesSentByMe(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	s.ReplaceHistory([]model.ChatMessage{
		textMessage("m1", "hi", model.SenderTypeClient, "10:00 AM"),
		textMessage("m2", "hello", model.SenderTypeProvider, "10:01 AM"),
	})
	s.Append(textMessage("m3", "anyone there?", model.SenderTypeClient, "10:02 AM"))

	got := s.Messages()
	want := []bool{true, false, true}
	for i, m := range got {
		if m.SentByMe != want[i] {
			t.Errorf("Message %s: SentByMe = %v, want %v", m.ID, m.SentByMe, want[i])
		}
	}

	// The same history viewed by the provider flips the flags.
	p := NewStore(model.SenderTypeProvider)
	p.ReplaceHistory([]model.ChatMessage{
		textMessage("m1", "hi", model.SenderTypeClient, "10:00 AM"),
	})
	if p.Messages()[0].SentByMe {
		t.Error("Client message must not be SentByMe for the provider viewer")
	}
}

func TestStoreClear(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	s.ReplaceHistory([]model.ChatMessage{
		textMessage("m1", "hi", model.SenderTypeClient, "10:00 AM"),
	})
	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Expected empty store after Clear, got %d messages", s.Len())
	}
	// Cleared ids are forgotten: a fresh channel open may replay them.
	if ok := s.Append(textMessage("m1", "hi", model.SenderTypeClient, "10:00 AM")); !ok {
		t.Error("Expected append after Clear to succeed")
	}
}

// TestStoreAppendWithoutID keeps messages lacking a server id (the minimal
// chat variant) appendable; dedup only applies to assigned ids.
func TestStoreAppendWithoutID(t *testing.T) {
	s := NewStore(model.SenderTypeClient)

	for i := 0; i < 3; i++ {
		if ok := s.Append(textMessage("", fmt.Sprintf("msg %d", i), model.SenderTypeClient, "10:00 AM")); !ok {
			t.Fatalf("Append %d without id rejected", i)
		}
	}
	if s.Len() != 3 {
		t.Errorf("Expected 3 messages, got %d", s.Len())
	}
}
