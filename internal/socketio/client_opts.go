package socketio

import (
	"time"

	"github.com/gorilla/websocket"
)

type ClientOpt func(*Client)

func WithUsername(name string) ClientOpt {
	return func(c *Client) {
		c.username = name
	}
}

func WithDialer(d *websocket.Dialer) ClientOpt {
	return func(c *Client) {
		c.dialer = d
	}
}

func WithHandshakeTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.handshakeTimeout = d
	}
}

func WithWriteTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		c.writeTimeout = d
	}
}
