// Package socketio is a minimal Socket.IO v4 client over the Engine.IO
// websocket transport. It speaks only the default namespace and does not
// use acknowledgements.
package socketio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var ErrNotConnected = errors.New("not connected to server")

// Pseudo events raised by the client itself.
const (
	EventConnect      = "connect"
	EventDisconnect   = "disconnect"
	EventConnectError = "connect_error"
)

const (
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultWriteTimeout     = 5 * time.Second
)

type Client struct {
	endpoint *url.URL
	dialer   *websocket.Dialer

	handshakeTimeout time.Duration
	writeTimeout     time.Duration

	mu        sync.Mutex
	username  string
	conn      *websocket.Conn
	connected bool
	handlers  map[string]map[uint64]func(json.RawMessage)
	nextID    uint64

	writeMu sync.Mutex
}

// NewClient creates a client for the server at baseURL. http and https URLs
// are mapped to ws and wss.
func NewClient(baseURL string, opts ...ClientOpt) (*Client, error) {
	u, err := endpointURL(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		endpoint:         u,
		dialer:           &websocket.Dialer{},
		handshakeTimeout: DefaultHandshakeTimeout,
		writeTimeout:     DefaultWriteTimeout,
		handlers:         map[string]map[uint64]func(json.RawMessage){},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func endpointURL(baseURL string) (*url.URL, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing socket url: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return nil, fmt.Errorf("unsupported socket url scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("socket url %q has no host", baseURL)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/socket.io/"
	return u, nil
}

// SetUsername sets the identity sent with the next handshake.
func (c *Client) SetUsername(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = name
}

// Connect dials the server and completes the Socket.IO handshake.
func (c *Client) Connect(ctx context.Context) error {
	if c.Connected() {
		return nil
	}

	conn, hs, err := c.dial(ctx)
	if err != nil {
		c.dispatch(EventConnectError, errorPayload(err.Error()))
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readLoop(conn, hs)

	slog.DebugContext(ctx, "socket connected", "url", c.endpoint.Host)
	c.dispatch(EventConnect, nil)
	return nil
}

// Reconnect drops any current connection and connects again.
func (c *Client) Reconnect(ctx context.Context) error {
	c.drop()
	return c.Connect(ctx)
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, handshake, error) {
	ctx, cancel := context.WithTimeout(ctx, c.handshakeTimeout)
	defer cancel()

	conn, _, err := c.dialer.DialContext(ctx, c.url(), nil)
	if err != nil {
		return nil, handshake{}, fmt.Errorf("dialing socket: %w", err)
	}

	hs, err := c.handshake(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, handshake{}, err
	}
	return conn, hs, nil
}

func (c *Client) url() string {
	c.mu.Lock()
	username := c.username
	c.mu.Unlock()

	u := *c.endpoint
	q := u.Query()
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	q.Set("username", username)
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) handshake(ctx context.Context, conn *websocket.Conn) (handshake, error) {
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
		defer conn.SetWriteDeadline(time.Time{})
	}

	var hs handshake
	p, err := readPacket(conn)
	if err != nil {
		return hs, fmt.Errorf("reading open packet: %w", err)
	}
	if p.kind != kindOpen {
		return hs, fmt.Errorf("expected open packet")
	}
	if err := json.Unmarshal(p.payload, &hs); err != nil {
		return hs, fmt.Errorf("decoding open packet: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, connectFrame); err != nil {
		return hs, fmt.Errorf("sending connect: %w", err)
	}

	for {
		p, err := readPacket(conn)
		if err != nil {
			return hs, fmt.Errorf("awaiting connect: %w", err)
		}
		switch p.kind {
		case kindConnect:
			extendDeadline(conn, hs)
			return hs, nil
		case kindConnectError:
			return hs, fmt.Errorf("server refused connection: %s", errorMessage(p.payload))
		case kindPing:
			if err := conn.WriteMessage(websocket.TextMessage, pongFrame); err != nil {
				return hs, fmt.Errorf("sending pong: %w", err)
			}
		}
	}
}

func extendDeadline(conn *websocket.Conn, hs handshake) {
	if hs.keepAlive() <= 0 {
		conn.SetReadDeadline(time.Time{})
		return
	}
	conn.SetReadDeadline(time.Now().Add(hs.keepAlive()))
}

func readPacket(conn *websocket.Conn) (packet, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return packet{}, err
	}
	return decodePacket(data)
}

func (c *Client) readLoop(conn *websocket.Conn, hs handshake) {
	reason := "transport close"
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		extendDeadline(conn, hs)

		p, err := decodePacket(data)
		if err != nil {
			slog.Warn("dropping socket frame", "error", err)
			continue
		}

		switch p.kind {
		case kindPing:
			if err := c.write(conn, pongFrame); err != nil {
				slog.Warn("sending pong", "error", err)
			}
		case kindEvent:
			c.dispatch(p.name, p.payload)
		case kindConnectError:
			c.dispatch(EventConnectError, p.payload)
		case kindDisconnect:
			reason = "io server disconnect"
		case kindClose:
			reason = "transport close"
		}
		if p.kind == kindDisconnect || p.kind == kindClose {
			break
		}
	}

	if c.release(conn) {
		reasonJSON, _ := json.Marshal(reason)
		c.dispatch(EventDisconnect, reasonJSON)
	}
}

// release clears conn if it is still the current connection and reports
// whether it was.
func (c *Client) release(conn *websocket.Conn) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	conn.Close()
	if c.conn != conn {
		return false
	}
	c.conn = nil
	c.connected = false
	return true
}

// drop closes the current connection without raising a disconnect event.
func (c *Client) drop() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		_ = c.write(conn, disconnectFrame)
		conn.Close()
	}
}

// Close disconnects from the server.
func (c *Client) Close() {
	c.mu.Lock()
	wasConnected := c.conn != nil
	c.mu.Unlock()

	c.drop()
	if wasConnected {
		reason, _ := json.Marshal("io client disconnect")
		c.dispatch(EventDisconnect, reason)
	}
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// On registers a handler for the named event. Handlers run on the read
// goroutine. The returned function removes exactly this handler.
func (c *Client) On(name string, handler func(json.RawMessage)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	if c.handlers[name] == nil {
		c.handlers[name] = map[uint64]func(json.RawMessage){}
	}
	c.handlers[name][id] = handler

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[name], id)
	}
}

// Emit sends a named event with a JSON-encodable payload.
func (c *Client) Emit(ctx context.Context, name string, payload any) error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}

	frame, err := encodeEvent(name, payload)
	if err != nil {
		return err
	}

	if err := c.writeContext(ctx, conn, frame); err != nil {
		return fmt.Errorf("emitting %s: %w", name, err)
	}
	return nil
}

func (c *Client) write(conn *websocket.Conn, frame []byte) error {
	return c.writeContext(context.Background(), conn, frame)
}

func (c *Client) writeContext(ctx context.Context, conn *websocket.Conn, frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(c.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	conn.SetWriteDeadline(deadline)
	return conn.WriteMessage(websocket.TextMessage, frame)
}

func (c *Client) dispatch(name string, payload json.RawMessage) {
	c.mu.Lock()
	hs := make([]func(json.RawMessage), 0, len(c.handlers[name]))
	for _, h := range c.handlers[name] {
		hs = append(hs, h)
	}
	c.mu.Unlock()

	for _, h := range hs {
		h(payload)
	}
}

func errorPayload(msg string) json.RawMessage {
	b, _ := json.Marshal(map[string]string{"message": msg})
	return b
}

func errorMessage(raw json.RawMessage) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		return "unknown error"
	}
	return body.Message
}
