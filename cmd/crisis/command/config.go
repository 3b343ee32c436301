package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-crisis/internal/ui"
)

const DefaultLogFile = "crisis.log"

type Config struct {
	Server  ServerConfig  `json:"server"`
	Session SessionConfig `json:"session"`
	Storage StorageConfig `json:"storage"`
	Relay   RelayConfig   `json:"relay"`
	Lobby   LobbyConfig   `json:"lobby"`
	LogFile string        `json:"log_file"`

	// ToastDuration is how long a notice stays in the status bar.
	ToastDuration string `json:"toast_duration"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Server.validate())
	el.Add(c.Session.validate())
	el.Add(c.Storage.validate())
	el.Add(c.Relay.validate())
	el.Add(c.Lobby.validate())

	_, err := parseDuration("toast_duration", c.ToastDuration, ui.DefaultToastDuration)
	el.Add(err)

	return el.Err()
}

// parseDuration parses an optional duration setting. An empty value gives
// def.
func parseDuration(name, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", name)
	}
	return d, nil
}
