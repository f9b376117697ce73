package realtime

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"homewire/internal/model"
)

type fakeSender struct {
	healthy bool
	err     error
	sent    []any
}

func (f *fakeSender) Healthy() bool { return f.healthy }

func (f *fakeSender) Send(v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, v)
	return nil
}

func notification(id, msg string) model.Notification {
	return model.Notification{ID: id, Message: msg, CreatedAt: "2026-08-30T10:00:00Z"}
}

// TestTrackerCapMostRecentFirst pushes more notifications than the cap and
// expects exactly cap visible, newest first.
func TestTrackerCapMostRecentFirst(t *testing.T) {
	tr := NewTracker(3, nil)

	for i := 1; i <= 5; i++ {
		tr.Push(notification(fmt.Sprintf("n%d", i), fmt.Sprintf("notification %d", i)))
	}

	got := tr.Visible()
	if len(got) != 3 {
		t.Fatalf("Expected 3 visible notifications, got %d", len(got))
	}
	for i, wantID := range []string{"n5", "n4", "n3"} {
		if got[i].ID != wantID {
			t.Errorf("Position %d: expected %s, got %s", i, wantID, got[i].ID)
		}
	}
}

func TestTrackerPushDeduplicates(t *testing.T) {
	tr := NewTracker(5, nil)

	tr.Push(notification("n1", "once"))
	tr.Push(notification("n1", "again"))

	if got := tr.Visible(); len(got) != 1 {
		t.Errorf("Expected 1 visible notification, got %d", len(got))
	}
}

// TestTrackerDismissOptimistic verifies the connected path: the mark_read
// frame goes out and the entry disappears immediately, before any server
// confirmation.
func TestTrackerDismissOptimistic(t *testing.T) {
	sender := &fakeSender{healthy: true}
	tr := NewTracker(5, nil)
	tr.Bind(sender)

	tr.Push(notification("n1", "new order"))
	tr.Dismiss("n1")

	if got := tr.Visible(); len(got) != 0 {
		t.Errorf("Expected empty visible set after dismiss, got %d entries", len(got))
	}
	if len(sender.sent) != 1 {
		t.Fatalf("Expected 1 frame sent, got %d", len(sender.sent))
	}
	mr, ok := sender.sent[0].(model.MarkRead)
	if !ok {
		t.Fatalf("Expected a MarkRead frame, got %T", sender.sent[0])
	}
	if mr.Type != model.ControlMarkRead || mr.NotificationID != "n1" {
		t.Errorf("Unexpected mark_read frame: %+v", mr)
	}
}

// TestTrackerDismissFallback verifies the disconnected path: the REST PUT
// is issued and the entry removed on success only.
func TestTrackerDismissFallback(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("Expected PUT, got %s", r.Method)
		}
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	fb := NewFallback(strings.TrimPrefix(srv.URL, "http://"))
	tr := NewTracker(5, fb)
	tr.Bind(&fakeSender{healthy: false})

	tr.Push(notification("n1", "new order"))
	tr.Dismiss("n1")

	if gotPath != "/notifications/n1/" {
		t.Errorf("Expected PUT /notifications/n1/, got %q", gotPath)
	}
	if got := tr.Visible(); len(got) != 0 {
		t.Errorf("Expected empty visible set after fallback dismiss, got %d entries", len(got))
	}
}

// TestTrackerDismissFallbackFailure leaves the notification in place so the
// user can retry.
func TestTrackerDismissFallbackFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fb := NewFallback(strings.TrimPrefix(srv.URL, "http://"))
	tr := NewTracker(5, fb)
	tr.Bind(&fakeSender{healthy: false})

	tr.Push(notification("n1", "new order"))
	tr.Dismiss("n1")

	got := tr.Visible()
	if len(got) != 1 || got[0].ID != "n1" {
		t.Errorf("Expected notification to survive failed dismiss, got %+v", got)
	}
}

// TestTrackerDismissUnboundUsesFallback covers dismiss before the channel
// handle has been bound at all.
func TestTrackerDismissUnboundUsesFallback(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		fmt.Fprint(w, `{"status":"success"}`)
	}))
	defer srv.Close()

	tr := NewTracker(5, NewFallback(strings.TrimPrefix(srv.URL, "http://")))
	tr.Push(notification("n1", "new order"))
	tr.Dismiss("n1")

	if hits != 1 {
		t.Errorf("Expected 1 fallback request, got %d", hits)
	}
	if len(tr.Visible()) != 0 {
		t.Error("Expected notification removed after fallback success")
	}
}

func TestTrackerReplaceRespectsCap(t *testing.T) {
	tr := NewTracker(2, nil)

	tr.Replace([]model.Notification{
		notification("n3", "third"),
		notification("n2", "second"),
		notification("n1", "first"),
	})

	got := tr.Visible()
	if len(got) != 2 {
		t.Fatalf("Expected 2 visible notifications, got %d", len(got))
	}
	if got[0].ID != "n3" || got[1].ID != "n2" {
		t.Errorf("Expected [n3 n2], got [%s %s]", got[0].ID, got[1].ID)
	}
}
