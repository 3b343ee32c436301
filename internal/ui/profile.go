package ui

import (
	"errors"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/api"
)

const profileLeaders = 5

type profileView struct {
	app  *App
	root *tview.TextView
}

func newProfileView(a *App) *profileView {
	v := &profileView{
		app:  a,
		root: tview.NewTextView().SetDynamicColors(true),
	}
	v.root.SetDoneFunc(func(tcell.Key) { a.show(pageHome) })
	v.root.SetBorder(true).SetTitle(" Profile · Esc back ")
	return v
}

// load fetches the player's stats in the background.
func (v *profileView) load() {
	name := v.app.username()
	v.root.SetText("Loading...")

	go func() {
		user, err := v.app.stats.UserStats(v.app.ctx, name)
		if err != nil && !errors.Is(err, api.ErrNotFound) {
			v.app.fail(err, "Unable to load your profile")
		}
		sys, err := v.app.stats.Stats(v.app.ctx)
		if err != nil {
			slog.Warn("fetching system stats", "error", err)
		}
		top, err := v.app.stats.Leaderboard(v.app.ctx, profileLeaders)
		if err != nil {
			slog.Warn("fetching leaderboard", "error", err)
		}

		text := profileText(name, user, sys) + leaderboardText(name, top)
		v.app.queue(func() { v.root.SetText(text) })
	}()
}
