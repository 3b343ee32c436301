package command

import (
	"fmt"
	"regexp"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/go-errors"
)

var roomIDPattern = regexp.MustCompile(`^\d+$`)

type Config struct {
	URL           string `json:"url"`
	Room          string `json:"room"`
	SubjectPrefix string `json:"subject_prefix"`
	Width         int    `json:"width"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	if c.Room != "" && !roomIDPattern.MatchString(c.Room) {
		el.Add(fmt.Errorf("room must be numeric"))
	}
	if c.Width < 0 {
		el.Add(fmt.Errorf("width must not be negative"))
	}

	return el.Err()
}

func (c *Config) url() string {
	if c.URL == "" {
		return nats.DefaultURL
	}
	return c.URL
}
