package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"

	"github.com/pixil98/go-crisis/internal/display"
	"github.com/pixil98/go-crisis/internal/session"
)

// Watcher prints relayed frames for one room, or every room when no room
// is given.
type Watcher struct {
	url    string
	roomID string
	prefix string
	out    io.Writer
	width  int

	mu    sync.Mutex
	phase map[string]string
}

func NewWatcher(url, roomID string, out io.Writer, opts ...WatcherOpt) *Watcher {
	w := &Watcher{
		url:    url,
		roomID: roomID,
		prefix: DefaultSubjectPrefix,
		out:    out,
		width:  display.DefaultWidth,
		phase:  map[string]string{},
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

func (w *Watcher) subject() string {
	if w.roomID == "" {
		return Subject(w.prefix, "*")
	}
	return Subject(w.prefix, w.roomID)
}

func (w *Watcher) Start(ctx context.Context) error {
	conn, err := nats.Connect(w.url,
		nats.Name("crisis-watch"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return fmt.Errorf("connecting watcher to %s: %w", w.url, err)
	}
	defer conn.Close()

	subject := w.subject()
	sub, err := conn.Subscribe(subject, func(msg *nats.Msg) {
		var f Frame
		if err := json.Unmarshal(msg.Data, &f); err != nil {
			slog.Warn("ignoring relay frame", "subject", msg.Subject, "error", err)
			return
		}
		w.print(f)
	})
	if err != nil {
		return fmt.Errorf("subscribing to %s: %w", subject, err)
	}

	slog.InfoContext(ctx, "watching rooms", "subject", subject)

	<-ctx.Done()
	if err := sub.Unsubscribe(); err != nil {
		slog.Warn("unsubscribing watcher", "error", err)
	}
	return nil
}

func (w *Watcher) print(f Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := io.WriteString(w.out, w.render(f)); err != nil {
		slog.Error("writing frame", "room", f.RoomID, "error", err)
	}
}

// render formats a frame. Phase changes get a status line; entries are
// wrapped under an origin marker.
func (w *Watcher) render(f Frame) string {
	var b strings.Builder

	if w.phase[f.RoomID] != f.Phase {
		w.phase[f.RoomID] = f.Phase
		room := f.RoomID
		if f.RoomName != "" {
			room = fmt.Sprintf("%s (%s)", f.RoomName, f.RoomID)
		}
		fmt.Fprintf(&b, "── %s: %s, %d players, crisis %s\n",
			room, strings.ReplaceAll(f.Phase, "_", " "), f.Players, display.ScoreBar(f.CrisisScore))
	}

	for _, e := range f.Entries {
		b.WriteString(display.Hanging(marker(e.Origin), e.Text, w.width))
		b.WriteString("\n")
	}

	if f.Results != nil {
		for _, p := range f.Results.Players {
			fmt.Fprintf(&b, "  #%d %s %d\n", p.Rank, p.Username, p.TotalScore)
		}
	}

	return b.String()
}

func marker(o session.Origin) string {
	switch o {
	case session.OriginAI:
		return "AI │ "
	case session.OriginPlayer:
		return " > │ "
	default:
		return "   │ "
	}
}
