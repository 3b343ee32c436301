package command

import (
	"time"

	"github.com/pixil98/go-crisis/internal/driver"
)

type LobbyConfig struct {
	// RefreshInterval is how often the world arena is refreshed.
	RefreshInterval string `json:"refresh_interval"`
}

func (c *LobbyConfig) validate() error {
	_, err := parseDuration("refresh_interval", c.RefreshInterval, driver.DefaultTickLength)
	return err
}

func (c *LobbyConfig) refreshInterval() time.Duration {
	d, _ := parseDuration("refresh_interval", c.RefreshInterval, driver.DefaultTickLength)
	return d
}
