package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-crisis/internal/messaging"
)

// RelayConfig publishes room sessions for crisis-watch. With Embedded set
// the client also runs the broker itself.
type RelayConfig struct {
	Enabled       bool        `json:"enabled"`
	URL           string      `json:"url"`
	SubjectPrefix string      `json:"subject_prefix"`
	Embedded      *NatsConfig `json:"embedded,omitempty"`
}

func (c *RelayConfig) validate() error {
	if !c.Enabled {
		return nil
	}

	el := errors.NewErrorList()
	if c.URL == "" && c.Embedded == nil {
		el.Add(fmt.Errorf("relay: url or embedded is required"))
	}
	if c.Embedded != nil {
		el.Add(c.Embedded.validate())
		if c.URL == "" && c.Embedded.Port == -1 {
			el.Add(fmt.Errorf("relay: url is required with a random embedded port"))
		}
	}
	return el.Err()
}

func (c *RelayConfig) BuildRelay(url string) *messaging.Relay {
	var opts []messaging.RelayOpt
	if c.SubjectPrefix != "" {
		opts = append(opts, messaging.WithSubjectPrefix(c.SubjectPrefix))
	}
	return messaging.NewRelay(url, opts...)
}

type NatsConfig struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	StartTimeout string `json:"start_timeout"`
}

func (n *NatsConfig) validate() error {
	el := errors.NewErrorList()

	if n.StartTimeout != "" {
		_, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			el.Add(fmt.Errorf("parsing start_timeout: %w", err))
		}
	}
	if n.Port < -1 || n.Port > 65535 {
		el.Add(fmt.Errorf("port must be between -1 and 65535"))
	}

	return el.Err()
}

func (n *NatsConfig) buildNatsServer() (*messaging.NatsServer, error) {
	var opts []messaging.NatsServerOpt
	if n.StartTimeout != "" {
		d, err := time.ParseDuration(n.StartTimeout)
		if err != nil {
			return nil, fmt.Errorf("parsing start_timeout: %w", err)
		}
		opts = append(opts, messaging.WithStartTimeout(d))
	}
	if n.Host != "" {
		opts = append(opts, messaging.WithHost(n.Host))
	}
	if n.Port != 0 {
		opts = append(opts, messaging.WithPort(n.Port))
	}

	s, err := messaging.NewNatsServer(opts...)
	if err != nil {
		return nil, err
	}

	return s, nil
}
