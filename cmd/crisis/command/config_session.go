package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-crisis/internal/session"
)

type SessionConfig struct {
	TickInterval   string `json:"tick_interval"`
	RoundSeconds   int    `json:"round_seconds"`
	WarningSeconds int    `json:"warning_seconds"`
	TypingPerChar  string `json:"typing_per_char"`
	MinTyping      string `json:"min_typing"`
}

func (c *SessionConfig) validate() error {
	el := errors.NewErrorList()

	_, err := parseDuration("tick_interval", c.TickInterval, session.DefaultTickInterval)
	el.Add(err)
	_, err = parseDuration("typing_per_char", c.TypingPerChar, session.DefaultTypingPerChar)
	el.Add(err)
	_, err = parseDuration("min_typing", c.MinTyping, session.DefaultMinTyping)
	el.Add(err)

	if c.RoundSeconds < 0 {
		el.Add(fmt.Errorf("round_seconds must not be negative"))
	}
	if c.WarningSeconds < 0 {
		el.Add(fmt.Errorf("warning_seconds must not be negative"))
	}
	if c.RoundSeconds > 0 && c.WarningSeconds >= c.RoundSeconds {
		el.Add(fmt.Errorf("warning_seconds must be less than round_seconds"))
	}

	return el.Err()
}

func (c *SessionConfig) tickInterval() time.Duration {
	d, _ := parseDuration("tick_interval", c.TickInterval, session.DefaultTickInterval)
	return d
}

func (c *SessionConfig) timing() session.Timing {
	t := session.DefaultTiming()
	if c.RoundSeconds > 0 {
		t.RoundSeconds = c.RoundSeconds
	}
	if c.WarningSeconds > 0 {
		t.WarningSeconds = c.WarningSeconds
	}
	t.TypingPerChar, _ = parseDuration("typing_per_char", c.TypingPerChar, session.DefaultTypingPerChar)
	t.MinTyping, _ = parseDuration("min_typing", c.MinTyping, session.DefaultMinTyping)
	return t
}
