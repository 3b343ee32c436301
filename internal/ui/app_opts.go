package ui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pixil98/go-crisis/internal/arena"
	"github.com/pixil98/go-crisis/internal/session"
)

type AppOpt func(*App)

// WithBoard sets the world arena board shown on the arena screen
func WithBoard(b *arena.Board) AppOpt {
	return func(a *App) {
		a.board = b
	}
}

// WithRelay adds an observer that receives every room snapshot
func WithRelay(o session.Observer) AppOpt {
	return func(a *App) {
		a.relay = o
	}
}

func WithTiming(t session.Timing) AppOpt {
	return func(a *App) {
		a.timing = t
	}
}

func WithTickInterval(d time.Duration) AppOpt {
	return func(a *App) {
		a.tickInterval = d
	}
}

func WithToastDuration(d time.Duration) AppOpt {
	return func(a *App) {
		a.toastDuration = d
	}
}

// WithQuit sets the function called when the player exits the UI
func WithQuit(f func()) AppOpt {
	return func(a *App) {
		a.quit = f
	}
}

// WithScreen draws on s instead of the terminal
func WithScreen(s tcell.Screen) AppOpt {
	return func(a *App) {
		a.app.SetScreen(s)
	}
}
