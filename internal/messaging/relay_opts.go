package messaging

import "time"

type RelayOpt func(*Relay)

// WithSubjectPrefix sets the subject prefix frames are published under
func WithSubjectPrefix(prefix string) RelayOpt {
	return func(r *Relay) {
		r.prefix = prefix
	}
}

// WithClientName sets the connection name reported to the broker
func WithClientName(name string) RelayOpt {
	return func(r *Relay) {
		r.name = name
	}
}

func WithReconnectWait(d time.Duration) RelayOpt {
	return func(r *Relay) {
		r.reconnectWait = d
	}
}
