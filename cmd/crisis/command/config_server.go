package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-crisis/internal/api"
	"github.com/pixil98/go-crisis/internal/socketio"
)

const (
	DefaultServerURL = "http://127.0.0.1:5000"

	envSocketURL = "CRISIS_SOCKET_URL"
	envAPIURL    = "CRISIS_API_URL"
)

type ServerConfig struct {
	SocketURL      string `json:"socket_url"`
	APIURL         string `json:"api_url"`
	RequestTimeout string `json:"request_timeout"`
	HealthTTL      string `json:"health_ttl"`
}

func (c *ServerConfig) validate() error {
	el := errors.NewErrorList()

	_, err := parseDuration("request_timeout", c.RequestTimeout, api.DefaultRequestTimeout)
	el.Add(err)
	_, err = parseDuration("health_ttl", c.HealthTTL, api.DefaultHealthTTL)
	el.Add(err)

	return el.Err()
}

// socketURL resolves the socket address: environment, then config, then
// the default. The API lives on the same server unless configured apart.
func (c *ServerConfig) socketURL() string {
	if v := os.Getenv(envSocketURL); v != "" {
		return v
	}
	if c.SocketURL != "" {
		return c.SocketURL
	}
	return DefaultServerURL
}

func (c *ServerConfig) apiURL() string {
	if v := os.Getenv(envAPIURL); v != "" {
		return v
	}
	if c.APIURL != "" {
		return c.APIURL
	}
	return c.socketURL()
}

func (c *ServerConfig) BuildAPIClient() (*api.Client, error) {
	timeout, err := parseDuration("request_timeout", c.RequestTimeout, api.DefaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	ttl, err := parseDuration("health_ttl", c.HealthTTL, api.DefaultHealthTTL)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(c.apiURL(), api.WithRequestTimeout(timeout), api.WithHealthTTL(ttl))
	if err != nil {
		return nil, fmt.Errorf("creating api client: %w", err)
	}
	return client, nil
}

func (c *ServerConfig) BuildSocket() (*socketio.Client, error) {
	client, err := socketio.NewClient(c.socketURL())
	if err != nil {
		return nil, fmt.Errorf("creating socket client: %w", err)
	}
	return client, nil
}
