// Package realtime maintains the persistent printer-notification channel for
// one restaurant: an authenticated WebSocket that heartbeats, delivers print
// commands and reconnects with a bounded retry budget.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/romeuwb/pedelogo-78-sub001/internal/domain"
)

type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateError        State = "error"
)

var (
	ErrChannelUnavailable = errors.New("printer channel unavailable")
	ErrRetriesExhausted   = errors.New("reconnect attempts exhausted")
)

// Envelope is the JSON message exchanged on the channel. CorrelationID pairs
// a response with the print request that caused it.
type Envelope struct {
	Type          string          `json:"type"` // auth|heartbeat|print|status|config|response
	RestaurantID  int64           `json:"restaurant_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data,omitempty"`
	Timestamp     time.Time       `json:"timestamp,omitempty"`
}

type PrintResult struct {
	JobID   int64  `json:"job_id,omitempty"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type authPayload struct {
	APIKey string `json:"api_key"`
}

// StatusListener observes every connection state change. err is non-nil for
// transport errors and for the terminal retries-exhausted notification.
type StatusListener func(state State, err error)

type Config struct {
	URL               string
	APIKey            string
	RestaurantID      int64
	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration
	MaxReconnects     int
}

func (c *Config) defaults() {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 30 * time.Second
	}
	if c.ReconnectDelay <= 0 {
		c.ReconnectDelay = 5 * time.Second
	}
	if c.MaxReconnects <= 0 {
		c.MaxReconnects = 5
	}
}

// Client owns the connection. All lifecycle state lives on the instance so a
// teardown path can Disconnect without leaking timers.
type Client struct {
	cfg    Config
	dialer *websocket.Dialer

	mu             sync.Mutex
	conn           *websocket.Conn
	state          State
	attempts       int
	closed         bool
	reconnectTimer *time.Timer
	stopHeartbeat  chan struct{}
	pending        map[string]chan PrintResult

	corr     uint64
	onState  StatusListener
	lastBeat atomic.Int64 // unix nanos of the last heartbeat sent
}

func New(cfg Config, onState StatusListener) *Client {
	cfg.defaults()
	if onState == nil {
		onState = func(State, error) {}
	}
	return &Client{
		cfg:     cfg,
		dialer:  websocket.DefaultDialer,
		state:   StateDisconnected,
		pending: map[string]chan PrintResult{},
		onState: onState,
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// LastHeartbeat returns when the client last sent a liveness ping, zero time
// if none was sent yet.
func (c *Client) LastHeartbeat() time.Time {
	n := c.lastBeat.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Connect dials, authenticates and starts the read and heartbeat loops. A
// successful connect resets the retry budget. Calling Connect manually also
// revives a client that exhausted its automatic reconnects.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrChannelUnavailable
	}
	if c.state == StateConnected || c.state == StateConnecting {
		c.mu.Unlock()
		return nil
	}
	c.setStateLocked(StateConnecting, nil)
	c.mu.Unlock()

	url := fmt.Sprintf("%s?restaurantId=%d&apiKey=%s", c.cfg.URL, c.cfg.RestaurantID, c.cfg.APIKey)
	conn, _, err := c.dialer.DialContext(ctx, url, nil)
	if err != nil {
		c.handleFailure(err)
		return err
	}

	auth, _ := json.Marshal(authPayload{APIKey: c.cfg.APIKey})
	env := Envelope{Type: "auth", RestaurantID: c.cfg.RestaurantID, Data: auth, Timestamp: time.Now()}
	if err := conn.WriteJSON(env); err != nil {
		conn.Close()
		c.handleFailure(err)
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrChannelUnavailable
	}
	c.conn = conn
	c.attempts = 0
	c.stopHeartbeat = make(chan struct{})
	c.setStateLocked(StateConnected, nil)
	stop := c.stopHeartbeat
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.heartbeatLoop(conn, stop)
	return nil
}

// Disconnect is idempotent, clears the heartbeat ticker and any pending
// reconnect timer, and is safe from a teardown path.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.closed = true
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
	if c.stopHeartbeat != nil {
		close(c.stopHeartbeat)
		c.stopHeartbeat = nil
	}
	conn := c.conn
	c.conn = nil
	c.failPendingLocked(PrintResult{Success: false, Message: "channel closed"})
	c.setStateLocked(StateDisconnected, nil)
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

// SendPrintJob sends a print command and waits for the correlated response.
// Sending while not connected fails immediately; nothing is queued.
func (c *Client) SendPrintJob(ctx context.Context, job *domain.PrintJob) (PrintResult, error) {
	payload, err := json.Marshal(job)
	if err != nil {
		return PrintResult{}, err
	}

	id := strconv.FormatUint(atomic.AddUint64(&c.corr, 1), 10)
	ch := make(chan PrintResult, 1)

	c.mu.Lock()
	if c.state != StateConnected || c.conn == nil {
		c.mu.Unlock()
		return PrintResult{}, ErrChannelUnavailable
	}
	c.pending[id] = ch
	conn := c.conn
	env := Envelope{
		Type:          "print",
		RestaurantID:  c.cfg.RestaurantID,
		CorrelationID: id,
		Data:          payload,
		Timestamp:     time.Now(),
	}
	err = conn.WriteJSON(env)
	c.mu.Unlock()

	if err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return PrintResult{}, err
	}

	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return PrintResult{}, ctx.Err()
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			c.connectionLost(conn, err)
			return
		}
		switch env.Type {
		case "response":
			var res PrintResult
			if env.Data != nil {
				_ = json.Unmarshal(env.Data, &res)
			}
			c.mu.Lock()
			if ch, ok := c.pending[env.CorrelationID]; ok {
				delete(c.pending, env.CorrelationID)
				ch <- res
			}
			c.mu.Unlock()
		case "heartbeat":
			// server-side liveness ping, acknowledged silently
		case "status":
			// the push backend's self-reported condition drives the
			// displayed connection status; the socket lifecycle is untouched
			var st struct {
				Status  string `json:"status"`
				Message string `json:"message,omitempty"`
			}
			if env.Data != nil {
				_ = json.Unmarshal(env.Data, &st)
			}
			switch s := State(st.Status); s {
			case StateConnected, StateDisconnected, StateError:
				var serr error
				if st.Message != "" {
					serr = errors.New(st.Message)
				}
				c.onState(s, serr)
			}
		case "config":
			// server-pushed printer settings, applied by the desktop agent
		}
	}
}

func (c *Client) heartbeatLoop(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			env := Envelope{Type: "heartbeat", RestaurantID: c.cfg.RestaurantID, Timestamp: time.Now()}
			c.mu.Lock()
			if c.conn != conn {
				c.mu.Unlock()
				return
			}
			err := conn.WriteJSON(env)
			c.mu.Unlock()
			if err != nil {
				return
			}
			c.lastBeat.Store(time.Now().UnixNano())
		}
	}
}

// connectionLost handles a transport error or close on an established
// connection and schedules a reconnect.
func (c *Client) connectionLost(conn *websocket.Conn, err error) {
	c.mu.Lock()
	if c.conn != conn {
		// stale loop from a previous connection
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if c.stopHeartbeat != nil {
		close(c.stopHeartbeat)
		c.stopHeartbeat = nil
	}
	c.failPendingLocked(PrintResult{Success: false, Message: "connection lost"})
	if c.closed {
		c.setStateLocked(StateDisconnected, nil)
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.setStateLocked(StateError, err)
	c.mu.Unlock()
	conn.Close()
	c.scheduleReconnect()
}

// handleFailure handles a failed connect attempt.
func (c *Client) handleFailure(err error) {
	c.mu.Lock()
	if c.closed {
		c.setStateLocked(StateDisconnected, nil)
		c.mu.Unlock()
		return
	}
	c.setStateLocked(StateError, err)
	c.mu.Unlock()
	c.scheduleReconnect()
}

func (c *Client) scheduleReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || c.reconnectTimer != nil {
		return
	}
	c.attempts++
	if c.attempts > c.cfg.MaxReconnects {
		// terminal until a manual Connect
		c.setStateLocked(StateError, ErrRetriesExhausted)
		return
	}
	c.reconnectTimer = time.AfterFunc(c.cfg.ReconnectDelay, func() {
		c.mu.Lock()
		c.reconnectTimer = nil
		closed := c.closed
		c.setStateLocked(StateDisconnected, nil)
		c.mu.Unlock()
		if !closed {
			_ = c.Connect(context.Background())
		}
	})
}

func (c *Client) failPendingLocked(res PrintResult) {
	for id, ch := range c.pending {
		delete(c.pending, id)
		ch <- res
	}
}

func (c *Client) setStateLocked(s State, err error) {
	if c.state == s && err == nil {
		return
	}
	c.state = s
	go c.onState(s, err)
}
