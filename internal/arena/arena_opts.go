package arena

import "time"

type BoardOpt func(*Board)

// WithUpdateHandler sets the callback run after every refresh
func WithUpdateHandler(f func(View)) BoardOpt {
	return func(b *Board) {
		b.onUpdate = f
	}
}

func withClock(now func() time.Time) BoardOpt {
	return func(b *Board) {
		b.now = now
	}
}
