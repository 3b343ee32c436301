package ui

import (
	"strconv"

	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/lobby"
	"github.com/pixil98/go-crisis/internal/notify"
)

var playerCounts = func() []string {
	var out []string
	for n := lobby.MinPlayers; n <= lobby.MaxPlayers; n++ {
		out = append(out, strconv.Itoa(n))
	}
	return out
}()

type createView struct {
	root    *tview.Form
	name    *tview.InputField
	theme   *tview.DropDown
	players *tview.DropDown
}

func newCreateView(a *App) *createView {
	themes := make([]string, len(lobby.Themes))
	for i, t := range lobby.Themes {
		themes[i] = themeLabel(t)
	}

	v := &createView{
		name: tview.NewInputField().
			SetLabel("Room name").
			SetFieldWidth(32),
		theme: tview.NewDropDown().
			SetLabel("Theme").
			SetOptions(themes, nil),
		players: tview.NewDropDown().
			SetLabel("Players").
			SetOptions(playerCounts, nil),
	}

	v.root = tview.NewForm().
		AddFormItem(v.name).
		AddFormItem(v.theme).
		AddFormItem(v.players).
		AddButton("Create", func() {
			req := v.request()
			go func() {
				id, err := a.currentLobby().CreateRoom(a.ctx, req)
				if err != nil {
					a.fail(err, "Unable to create the room")
					return
				}
				a.notifier.Toast(notify.LevelInfo, "Creating room "+id+"...")
			}()
		}).
		AddButton("Back", func() { a.show(pageHome) })
	v.root.SetCancelFunc(func() { a.show(pageHome) })
	v.root.SetBorder(true).SetTitle(" Create Room ")

	v.reset()
	return v
}

func (v *createView) reset() {
	v.name.SetText("")
	v.theme.SetCurrentOption(0)
	v.players.SetCurrentOption(len(playerCounts) - 1)
}

func (v *createView) request() lobby.CreateRequest {
	ti, _ := v.theme.GetCurrentOption()
	_, count := v.players.GetCurrentOption()
	players, _ := strconv.Atoi(count)

	req := lobby.CreateRequest{Name: v.name.GetText(), MaxPlayers: players}
	if ti >= 0 && ti < len(lobby.Themes) {
		req.Theme = lobby.Themes[ti]
	}
	return req
}
