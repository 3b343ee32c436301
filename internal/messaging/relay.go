package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-crisis/internal/session"
)

const (
	DefaultSubjectPrefix = "crisis.rooms"
	DefaultReconnectWait = 2 * time.Second
)

// Frame is one relay message: the log entries a room gained since the last
// frame, plus the round state they were added in.
type Frame struct {
	RoomID      string               `json:"room_id"`
	RoomName    string               `json:"room_name,omitempty"`
	Phase       string               `json:"phase"`
	CrisisScore int                  `json:"crisis_score"`
	Round       int                  `json:"round"`
	Players     int                  `json:"players"`
	Offset      int                  `json:"offset"`
	Entries     []session.Entry      `json:"entries,omitempty"`
	Results     *session.GameResults `json:"results,omitempty"`
}

// Subject is the subject a room's frames are published on.
func Subject(prefix, roomID string) string {
	return fmt.Sprintf("%s.%s", prefix, roomID)
}

type published struct {
	entries int
	phase   session.Phase
	results bool
}

// Relay publishes session snapshots to NATS. It is a session.Observer and
// drops snapshots while it has no connection.
type Relay struct {
	url           string
	prefix        string
	name          string
	reconnectWait time.Duration

	mu    sync.Mutex
	conn  *nats.Conn
	rooms map[string]published
}

func NewRelay(url string, opts ...RelayOpt) *Relay {
	r := &Relay{
		url:           url,
		prefix:        DefaultSubjectPrefix,
		name:          "crisis-relay",
		reconnectWait: DefaultReconnectWait,
		rooms:         map[string]published{},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start connects to the broker and holds the connection until ctx is done.
// The broker may come up after the relay; the connection keeps retrying.
func (r *Relay) Start(ctx context.Context) error {
	conn, err := nats.Connect(r.url,
		nats.Name(r.name),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(r.reconnectWait),
	)
	if err != nil {
		return fmt.Errorf("connecting relay to %s: %w", r.url, err)
	}

	r.mu.Lock()
	r.conn = conn
	r.mu.Unlock()

	slog.InfoContext(ctx, "relay started", "url", r.url, "prefix", r.prefix)

	<-ctx.Done()

	r.mu.Lock()
	r.conn = nil
	r.mu.Unlock()

	if err := conn.Drain(); err != nil {
		slog.Warn("draining relay connection", "error", err)
		conn.Close()
	}
	return nil
}

// Observe publishes the part of s not yet relayed. Snapshots that add no
// log entries and change neither phase nor results are skipped.
func (r *Relay) Observe(s session.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.conn == nil {
		return
	}

	room := s.Params.RoomID
	last := r.rooms[room]
	if last.entries > len(s.Log) {
		last = published{}
	}

	frame, ok := frameFor(s, last)
	if !ok {
		return
	}

	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("encoding relay frame", "room", room, "error", err)
		return
	}
	if err := r.conn.Publish(Subject(r.prefix, room), data); err != nil {
		slog.Warn("publishing relay frame", "room", room, "error", err)
		return
	}

	r.rooms[room] = published{entries: len(s.Log), phase: s.Phase, results: s.Results != nil}
}

// frameFor builds the frame carrying what s adds over last. It reports
// false when there is nothing new.
func frameFor(s session.Snapshot, last published) (Frame, bool) {
	entries := s.Log[last.entries:]
	if len(entries) == 0 && s.Phase == last.phase && (s.Results != nil) == last.results {
		return Frame{}, false
	}

	return Frame{
		RoomID:      s.Params.RoomID,
		RoomName:    s.Params.RoomName,
		Phase:       s.Phase.String(),
		CrisisScore: s.CrisisScore,
		Round:       s.Round,
		Players:     s.CurrentPlayers,
		Offset:      last.entries,
		Entries:     entries,
		Results:     s.Results,
	}, true
}
