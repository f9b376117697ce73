package realtime

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"homewire/internal/model"
	"homewire/internal/protocol"
)

// State is the observable lifecycle state of a channel's connection.
type State int

const (
	StateConnecting State = iota
	StateOpen
	StateClosing
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	}
	return "closed"
}

// ErrNotOpen is returned by Send while the connection is down. Frames are
// never queued; the caller must not assume delivery until the server echoes
// the message back.
var ErrNotOpen = errors.New("realtime: connection not open")

// Subscriber receives inbound traffic for one channel. Callbacks run on the
// handle's dispatch goroutine in receipt order; nil entries are skipped.
type Subscriber struct {
	// Ready fires each time the transport (re)opens, before any frame is
	// dispatched. The server pushes the history snapshot right after.
	Ready func()

	History      func([]model.ChatMessage)
	Message      func(model.ChatMessage)
	Notification func(model.Notification)
	Control      func(model.Control)
}

// Config configures a Manager. Host is the only required value.
type Config struct {
	// Host is the server's host:port.
	Host string

	// ReconnectDelay is the fixed wait between reconnect attempts.
	// Defaults to 3s. Backoff is deliberately constant: a flaky network
	// should keep probing at the same cadence for as long as the channel
	// stays open.
	ReconnectDelay time.Duration
}

// Manager owns one live connection per open channel.
type Manager struct {
	host           string
	reconnectDelay time.Duration
	dialer         *websocket.Dialer

	mu      sync.Mutex
	handles map[Channel]*Handle
}

// NewManager creates a Manager. No connection is made until Open.
func NewManager(cfg Config) *Manager {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 3 * time.Second
	}
	return &Manager{
		host:           cfg.Host,
		reconnectDelay: cfg.ReconnectDelay,
		dialer:         websocket.DefaultDialer,
		handles:        make(map[Channel]*Handle),
	}
}

// Open establishes (or returns) the connection for a channel. At most one
// handle is live per channel; opening a channel that is already open is a
// no-op that returns the existing handle. Dialing happens asynchronously;
// sub.Ready fires once the transport is up.
func (m *Manager) Open(ch Channel, sub Subscriber) *Handle {
	m.mu.Lock()
	if h, ok := m.handles[ch]; ok {
		m.mu.Unlock()
		return h
	}
	h := &Handle{
		channel: ch,
		mgr:     m,
		sub:     sub,
		state:   StateConnecting,
	}
	m.handles[ch] = h
	m.mu.Unlock()

	go h.dial()
	return h
}

func (m *Manager) remove(ch Channel, h *Handle) {
	m.mu.Lock()
	if m.handles[ch] == h {
		delete(m.handles, ch)
	}
	m.mu.Unlock()
}

// Handle is the caller's grip on one channel's connection.
type Handle struct {
	channel Channel
	mgr     *Manager
	sub     Subscriber

	mu     sync.Mutex
	state  State
	closed bool // explicit Close; terminal
	conn   *websocket.Conn
	retry  *time.Timer
	gen    int // transport generation; stale readers drop their frames
}

// Channel returns the channel this handle serves.
func (h *Handle) Channel() Channel { return h.channel }

// State returns the current connection state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Healthy reports whether the push channel is usable right now. A fallback
// poller takes over fetching while this is false.
func (h *Handle) Healthy() bool { return h.State() == StateOpen }

// Send writes one frame. While the connection is not open this is a logged
// no-op returning ErrNotOpen: nothing is queued.
func (h *Handle) Send(v any) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state != StateOpen || h.conn == nil {
		log.Printf("[%s] send dropped: connection %s", h.channel, h.state)
		return ErrNotOpen
	}
	if err := h.conn.WriteJSON(v); err != nil {
		log.Printf("[%s] send failed: %v", h.channel, err)
		return err
	}
	return nil
}

// Close tears the connection down and cancels any pending reconnect.
// Idempotent. After Close returns, no further frames are dispatched and the
// channel can be reopened through the Manager.
func (h *Handle) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.state = StateClosing
	if h.retry != nil {
		h.retry.Stop()
		h.retry = nil
	}
	conn := h.conn
	h.conn = nil
	h.gen++ // in-flight frames from the old transport go stale
	h.state = StateClosed
	h.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	h.mgr.remove(h.channel, h)
	log.Printf("[%s] closed", h.channel)
}

// dial attempts to establish the transport. Runs on its own goroutine and
// on the retry timer.
func (h *Handle) dial() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.state = StateConnecting
	h.retry = nil
	target := h.channel.URL(h.mgr.host)
	h.mu.Unlock()

	conn, _, err := h.mgr.dialer.Dial(target, nil)
	if err != nil {
		log.Printf("[%s] dial %s failed: %v", h.channel, target, err)
		h.scheduleRetry()
		return
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.conn = conn
	h.gen++
	gen := h.gen
	h.state = StateOpen
	h.mu.Unlock()

	log.Printf("[%s] connected", h.channel)
	if h.sub.Ready != nil {
		h.sub.Ready()
	}
	go h.readLoop(conn, gen)
}

// scheduleRetry arms the fixed-delay reconnect timer. At most one timer is
// pending at a time, and never after an explicit Close.
func (h *Handle) scheduleRetry() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || h.retry != nil {
		return
	}
	h.state = StateConnecting
	h.retry = time.AfterFunc(h.mgr.reconnectDelay, h.dial)
}

func (h *Handle) readLoop(conn *websocket.Conn, gen int) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			h.transportClosed(conn, gen, err)
			return
		}
		h.dispatch(gen, raw)
	}
}

// transportClosed handles an unexpected drop of the underlying socket.
func (h *Handle) transportClosed(conn *websocket.Conn, gen int, err error) {
	conn.Close()

	h.mu.Lock()
	if h.closed || h.gen != gen {
		// Expected: the handle was closed or already redialed.
		h.mu.Unlock()
		return
	}
	h.conn = nil
	h.state = StateClosed
	h.mu.Unlock()

	log.Printf("[%s] connection lost: %v", h.channel, err)
	h.scheduleRetry()
}

// dispatch routes one inbound frame to the subscriber. Unknown frame types
// and malformed payloads are dropped with a log; they never take the
// connection down.
func (h *Handle) dispatch(gen int, raw []byte) {
	h.mu.Lock()
	stale := h.closed || h.gen != gen
	h.mu.Unlock()
	if stale {
		return
	}

	switch kind := protocol.Classify(raw); kind {
	case protocol.FrameChatHistory:
		msgs, err := protocol.DecodeHistory(raw)
		if err != nil {
			log.Printf("[%s] dropping frame: %v", h.channel, err)
			return
		}
		if h.sub.History != nil {
			h.sub.History(msgs)
		}
	case protocol.FrameChatMessage:
		msg, err := protocol.DecodeChatMessage(raw)
		if err != nil {
			log.Printf("[%s] dropping frame: %v", h.channel, err)
			return
		}
		if h.sub.Message != nil {
			h.sub.Message(msg)
		}
	case protocol.FrameControl:
		c, err := protocol.DecodeControl(raw)
		if err != nil {
			log.Printf("[%s] dropping frame: %v", h.channel, err)
			return
		}
		if h.sub.Control != nil {
			h.sub.Control(c)
		}
	case protocol.FrameNotification:
		n, err := protocol.DecodeNotification(raw)
		if err != nil {
			log.Printf("[%s] dropping frame: %v", h.channel, err)
			return
		}
		if h.sub.Notification != nil {
			h.sub.Notification(n)
		}
	default:
		log.Printf("[%s] dropping unrecognized frame", h.channel)
	}
}
