package ui

import (
	"fmt"

	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/account"
)

type homeView struct {
	root *tview.List
}

func newHomeView(a *App) *homeView {
	v := &homeView{root: tview.NewList()}

	v.root.
		AddItem("Quick Create", "Open a room with default settings", 'q', func() {
			go func() {
				if _, err := a.currentLobby().QuickCreate(a.ctx); err != nil {
					a.fail(err, "Unable to create a room")
				}
			}()
		}).
		AddItem("Create Room", "Pick a name, theme and player count", 'c', func() {
			a.create.reset()
			a.show(pageCreate)
		}).
		AddItem("Join Room", "Browse rooms or enter a room code", 'j', func() {
			a.show(pageJoin)
		}).
		AddItem("Random Room", "Join any room with a free seat", 'r', func() {
			go func() {
				if err := a.currentLobby().JoinRandom(a.ctx); err != nil {
					a.fail(err, "Unable to join a room")
				}
			}()
		}).
		AddItem("World Arena", "Global rankings", 'w', func() {
			a.show(pageArena)
		}).
		AddItem("Profile", "Your stats", 'p', func() {
			a.show(pageProfile)
		}).
		AddItem("Logout", "", 'l', func() {
			a.confirm("Log out?", pageHome, func() { go a.doLogout() })
		}).
		AddItem("Exit", "", 'x', a.exit)

	v.root.SetBorder(true).SetTitle(" 🚨 Crisis ")
	return v
}

func (v *homeView) setUser(p *account.Profile) {
	title := fmt.Sprintf(" 🚨 Crisis · %s ", p.Username)
	if p.Offline {
		title = fmt.Sprintf(" 🚨 Crisis · %s (offline) ", p.Username)
	}
	v.root.SetTitle(title)
}
