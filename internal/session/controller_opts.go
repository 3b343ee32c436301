package session

import "time"

type ControllerOpt func(*Controller)

func WithTiming(t Timing) ControllerOpt {
	return func(c *Controller) {
		c.timing = t
	}
}

// WithTickInterval sets the wall-clock length of one countdown second.
func WithTickInterval(d time.Duration) ControllerOpt {
	return func(c *Controller) {
		c.tickInterval = d
	}
}

func WithNotifier(n Notifier) ControllerOpt {
	return func(c *Controller) {
		c.notifier = n
	}
}

func WithObserver(o Observer) ControllerOpt {
	return func(c *Controller) {
		c.observers = append(c.observers, o)
	}
}
