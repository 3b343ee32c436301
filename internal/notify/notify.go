// Package notify delivers short-lived toasts to whatever surface is showing
// them, coalescing bursts of "player joined" notices.
package notify

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultJoinWindow is the minimum gap between two join toasts.
const DefaultJoinWindow = 3 * time.Second

type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

type Toast struct {
	Level   Level
	Message string
}

// Sink shows a toast. It may be called from any goroutine.
type Sink func(Toast)

type Notifier struct {
	sink Sink

	mu      sync.Mutex
	limiter *rate.Limiter
	pending []string
	flush   *time.Timer
	closed  bool
}

func NewNotifier(sink Sink, opts ...NotifierOpt) *Notifier {
	n := &Notifier{
		sink:    sink,
		limiter: rate.NewLimiter(rate.Every(DefaultJoinWindow), 1),
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

func (n *Notifier) Toast(level Level, msg string) {
	if msg == "" {
		return
	}
	n.sink(Toast{Level: level, Message: msg})
}

// Joined records that a player joined the room. Notices arriving within the
// join window are batched into a single toast.
func (n *Notifier) Joined(username string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	n.pending = append(n.pending, username)
	if n.flush != nil {
		return
	}

	if n.limiter.Allow() {
		n.flushLocked()
		return
	}

	r := n.limiter.Reserve()
	n.flush = time.AfterFunc(r.Delay(), func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		n.flush = nil
		if !n.closed {
			n.flushLocked()
		}
	})
}

// Close drops pending notices and stops the flush timer.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.closed = true
	n.pending = nil
	if n.flush != nil {
		n.flush.Stop()
		n.flush = nil
	}
}

func (n *Notifier) flushLocked() {
	if len(n.pending) == 0 {
		return
	}

	var msg string
	if len(n.pending) == 1 {
		msg = fmt.Sprintf("%s joined the game", n.pending[0])
	} else {
		msg = fmt.Sprintf("%d players joined the game", len(n.pending))
	}
	n.pending = nil

	n.sink(Toast{Level: LevelInfo, Message: msg})
}
