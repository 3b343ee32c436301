package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/notify"
)

const DefaultTickInterval = time.Second

// Transport is the socket connection a session runs over.
type Transport interface {
	// On registers a handler for a named event and returns a function that
	// removes exactly that handler.
	On(name string, handler func(json.RawMessage)) (off func())
	Emit(ctx context.Context, name string, payload any) error
	Connected() bool
	Reconnect(ctx context.Context) error
}

// Observer receives a snapshot after every state change. Observe is called
// from the controller goroutine and must not call back into the controller
// synchronously.
type Observer interface {
	Observe(Snapshot)
}

type ObserverFunc func(Snapshot)

func (f ObserverFunc) Observe(s Snapshot) { f(s) }

type Notifier interface {
	Toast(level notify.Level, msg string)
	Joined(username string)
}

type action struct {
	apply func() []Effect
	done  chan struct{}
}

// Controller runs a Machine against a live transport. All state changes
// happen on the goroutine running Start: socket events, user actions, timer
// ticks and reveal completions are serialized through one select loop.
type Controller struct {
	transport Transport
	machine   *Machine
	notifier  Notifier
	observers []Observer

	timing       Timing
	tickInterval time.Duration

	inbox   chan event.Event
	actions chan action
	ready   chan struct{}
	done    chan struct{}
}

func NewController(t Transport, p Params, opts ...ControllerOpt) *Controller {
	c := &Controller{
		transport:    t,
		timing:       DefaultTiming(),
		tickInterval: DefaultTickInterval,
		inbox:        make(chan event.Event, 16),
		actions:      make(chan action),
		ready:        make(chan struct{}),
		done:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.machine = NewMachine(p, c.timing)
	return c
}

// Start runs the session until ctx is cancelled. It may only be called once.
func (c *Controller) Start(ctx context.Context) error {
	defer close(c.done)

	offs := make([]func(), 0, len(event.RoomEvents))
	for _, name := range event.RoomEvents {
		offs = append(offs, c.transport.On(name, c.handler(ctx, name)))
	}
	defer func() {
		for _, off := range offs {
			off()
		}
	}()
	close(c.ready)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	var reveal *time.Timer
	var revealC <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		if reveal != nil {
			reveal.Stop()
		}
	}()

	apply := func(fx []Effect) {
		for _, f := range fx {
			switch e := f.(type) {
			case StartTimer:
				if ticker == nil {
					ticker = time.NewTicker(c.tickInterval)
				} else {
					ticker.Reset(c.tickInterval)
				}
				tickC = ticker.C
			case StopTimer:
				if ticker != nil {
					ticker.Stop()
				}
				tickC = nil
			case ScheduleReveal:
				if reveal == nil {
					reveal = time.NewTimer(e.After)
				} else {
					reveal.Reset(e.After)
				}
				revealC = reveal.C
			default:
				c.perform(ctx, f)
			}
		}
		c.publish()
	}

	apply(c.machine.Mount(c.transport.Connected()))

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-c.inbox:
			apply(c.machine.HandleEvent(ev))
		case a := <-c.actions:
			apply(a.apply())
			close(a.done)
		case <-tickC:
			apply(c.machine.Tick())
		case <-revealC:
			revealC = nil
			apply(c.machine.RevealDone())
		}
	}
}

// Ready is closed once the controller is listening for room events.
func (c *Controller) Ready() <-chan struct{} {
	return c.ready
}

// Done is closed when Start has returned.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

// Submit sends the player's decision for the current round.
func (c *Controller) Submit(text string) {
	c.do(func() []Effect { return c.machine.SubmitDecision(text) })
}

// StartGame asks the server to start the game. Only the room admin can.
func (c *Controller) StartGame() {
	c.do(func() []Effect { return c.machine.StartGame() })
}

func (c *Controller) Retry() {
	c.do(func() []Effect { return c.machine.Retry() })
}

// Leave tells the room the player is leaving and waits until the leave
// event has been handed to the transport.
func (c *Controller) Leave(ctx context.Context) {
	select {
	case <-c.do(func() []Effect { return c.machine.Leave() }):
	case <-ctx.Done():
	case <-c.done:
	}
}

func (c *Controller) do(f func() []Effect) <-chan struct{} {
	a := action{apply: f, done: make(chan struct{})}
	go func() {
		select {
		case c.actions <- a:
		case <-c.done:
		}
	}()
	return a.done
}

func (c *Controller) handler(ctx context.Context, name string) func(json.RawMessage) {
	return func(raw json.RawMessage) {
		ev, err := event.Decode(name, raw)
		if err != nil {
			slog.WarnContext(ctx, "ignoring session event", "event", name, "error", err)
			return
		}
		c.deliver(ctx, ev)
	}
}

func (c *Controller) deliver(ctx context.Context, ev event.Event) {
	select {
	case c.inbox <- ev:
	case <-ctx.Done():
	case <-c.done:
	}
}

func (c *Controller) perform(ctx context.Context, f Effect) {
	switch e := f.(type) {
	case Emit:
		if err := c.transport.Emit(ctx, e.Event, e.Payload); err != nil {
			slog.ErrorContext(ctx, "emitting session event", "event", e.Event, "error", err)
			c.toast(notify.LevelError, "Not connected to server")
		}
	case Toast:
		c.toast(e.Level, e.Message)
	case PlayerJoined:
		if c.notifier != nil {
			c.notifier.Joined(e.Username)
		}
	case Reconnect:
		go func() {
			err := c.transport.Reconnect(ctx)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}
			slog.WarnContext(ctx, "reconnecting", "error", err)
			c.deliver(ctx, event.ConnectError{Message: err.Error()})
		}()
	}
}

func (c *Controller) toast(level notify.Level, msg string) {
	if c.notifier == nil {
		slog.Info("session notice", "level", level, "message", msg)
		return
	}
	c.notifier.Toast(level, msg)
}

func (c *Controller) publish() {
	if len(c.observers) == 0 {
		return
	}
	s := c.machine.Snapshot()
	for _, o := range c.observers {
		o.Observe(s)
	}
}
