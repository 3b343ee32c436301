package notify

import (
	"time"

	"golang.org/x/time/rate"
)

type NotifierOpt func(*Notifier)

// WithJoinWindow sets the minimum gap between two join toasts
func WithJoinWindow(d time.Duration) NotifierOpt {
	return func(n *Notifier) {
		n.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}
