package api

import (
	"net/http"
	"time"
)

type ClientOpt func(*Client)

func WithHTTPClient(h *http.Client) ClientOpt {
	return func(c *Client) {
		c.http = h
	}
}

func WithRequestTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHealthTTL sets how long a successful health check is trusted.
func WithHealthTTL(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.healthTTL = d
	}
}

func withClock(now func() time.Time) ClientOpt {
	return func(c *Client) {
		c.now = now
	}
}
