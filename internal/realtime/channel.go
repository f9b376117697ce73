// Package realtime maintains the persistent connections behind the chat
// modals and the notification menu: one websocket per open channel, with
// history replay on connect, fixed-delay reconnection and an in-memory,
// deduplicated view of each channel's content.
package realtime

import (
	"fmt"
	"net/url"
)

// ChannelKind distinguishes the two stream flavors.
type ChannelKind int

const (
	ChannelChat ChannelKind = iota
	ChannelNotifications
)

func (k ChannelKind) String() string {
	if k == ChannelNotifications {
		return "notifications"
	}
	return "chat"
}

// Channel identifies one logical stream: a chat room (keyed by order id) or
// a user's notification feed (keyed by user id).
type Channel struct {
	Kind ChannelKind
	Key  string
}

// URL builds the websocket address for this channel on the given host:port.
func (c Channel) URL(host string) string {
	u := url.URL{
		Scheme: "ws",
		Host:   host,
		Path:   fmt.Sprintf("/ws/%s/%s/", c.Kind, c.Key),
	}
	return u.String()
}

func (c Channel) String() string {
	return fmt.Sprintf("%s/%s", c.Kind, c.Key)
}
