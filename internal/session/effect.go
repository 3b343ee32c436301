package session

import (
	"time"

	"github.com/pixil98/go-crisis/internal/notify"
)

// Effect is a side effect requested by the Machine and carried out by the
// Controller.
type Effect interface {
	effect()
}

// Emit sends an outbound socket event.
type Emit struct {
	Event   string
	Payload any
}

type Toast struct {
	Level   notify.Level
	Message string
}

// PlayerJoined feeds the join notice coalescer.
type PlayerJoined struct {
	Username string
}

type StartTimer struct{}

type StopTimer struct{}

// ScheduleReveal asks for RevealDone to be called after the delay.
type ScheduleReveal struct {
	After time.Duration
}

// Reconnect re-establishes the socket.
type Reconnect struct{}

func (Emit) effect()           {}
func (Toast) effect()          {}
func (PlayerJoined) effect()   {}
func (StartTimer) effect()     {}
func (StopTimer) effect()      {}
func (ScheduleReveal) effect() {}
func (Reconnect) effect()      {}
