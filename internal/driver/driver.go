// Package driver runs background refreshes on a fixed tick.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
)

const (
	DefaultTickLength = time.Second * 30
)

// Manager is refreshed once per tick.
type Manager interface {
	Tick(context.Context) error
}

// Driver ticks its managers until stopped. A failing manager is logged and
// retried on the next tick; it does not stop the others.
type Driver struct {
	tickLength time.Duration
	managers   []Manager
}

func NewDriver(managers []Manager, opts ...DriverOpt) *Driver {
	d := &Driver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Start ticks once immediately, then every tick length.
func (d *Driver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()

	for {
		if err := d.Tick(ctx); err != nil {
			slog.WarnContext(ctx, "refresh failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Tick runs every manager once and returns their combined errors.
func (d *Driver) Tick(ctx context.Context) error {
	el := errors.NewErrorList()
	for i, m := range d.managers {
		if err := m.Tick(ctx); err != nil {
			el.Add(fmt.Errorf("manager %d: %w", i, err))
		}
	}
	return el.Err()
}
