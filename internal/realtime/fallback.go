package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"homewire/internal/model"
)

// Fallback is the request/response substitute for the push channel: the
// same notification data over plain HTTP. An external poller drives
// Notifications on an interval while the channel is unhealthy; the store
// and tracker dedup by id, so the two paths may overlap safely.
type Fallback struct {
	baseURL string
	client  *http.Client
}

// NewFallback creates a fallback client against the given host:port.
func NewFallback(host string) *Fallback {
	return &Fallback{
		baseURL: "http://" + host,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Notifications fetches the visible unread notifications for a user,
// newest first.
func (f *Fallback) Notifications(userID string) ([]model.Notification, error) {
	u := fmt.Sprintf("%s/notifications?user_id=%s", f.baseURL, url.QueryEscape(userID))
	resp, err := f.client.Get(u)
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch notifications: unexpected status %d", resp.StatusCode)
	}

	var ns []model.Notification
	if err := json.NewDecoder(resp.Body).Decode(&ns); err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	return ns, nil
}

// MarkRead marks one notification read over HTTP. Used when the push
// channel is down.
func (f *Fallback) MarkRead(id string) error {
	u := fmt.Sprintf("%s/notifications/%s/", f.baseURL, url.PathEscape(id))
	req, err := http.NewRequest(http.MethodPut, u, nil)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mark read: unexpected status %d", resp.StatusCode)
	}
	return nil
}
