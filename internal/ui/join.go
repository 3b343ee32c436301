package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/notify"
)

type joinView struct {
	app *App

	root   *tview.Flex
	search *tview.InputField
	table  *tview.Table
	form   *tview.Form
	code   *tview.InputField

	shown []event.Room
}

func newJoinView(a *App) *joinView {
	v := &joinView{
		app: a,
		search: tview.NewInputField().
			SetLabel("Search ").
			SetPlaceholder("room code, name or host"),
		table: tview.NewTable().
			SetFixed(1, 0).
			SetSelectable(true, false),
		code: tview.NewInputField().
			SetLabel("Room code").
			SetFieldWidth(38),
	}

	v.search.SetChangedFunc(func(string) { v.render() })
	v.search.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEscape:
			a.show(pageHome)
		default:
			a.app.SetFocus(v.table)
		}
	})

	v.table.SetSelectedFunc(func(row, _ int) {
		if r, ok := v.roomAt(row); ok {
			v.joinRoom(r.RoomID)
		}
	})
	v.table.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEscape:
			a.show(pageHome)
		case tcell.KeyBacktab:
			a.app.SetFocus(v.search)
		default:
			a.app.SetFocus(v.form)
		}
	})
	v.table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Rune() != 'd' {
			return ev
		}
		row, _ := v.table.GetSelection()
		if r, ok := v.roomAt(row); ok {
			v.deleteRoom(r)
		}
		return nil
	})

	v.form = tview.NewForm().
		AddFormItem(v.code).
		AddButton("Join", func() { v.joinRoom(v.code.GetText()) }).
		AddButton("Random", func() {
			go func() {
				if err := a.currentLobby().JoinRandom(a.ctx); err != nil {
					a.fail(err, "Unable to join a room")
				}
			}()
		}).
		AddButton("Refresh", v.refresh).
		AddButton("Back", func() { a.show(pageHome) })
	v.form.SetCancelFunc(func() { a.show(pageHome) })

	help := tview.NewTextView().
		SetDynamicColors(true).
		SetText("[gray]Enter joins the selected room · d deletes a room you host · Tab moves on[-]")

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.search, 1, 0, true).
		AddItem(v.table, 0, 1, false).
		AddItem(help, 1, 0, false).
		AddItem(v.form, 5, 0, false)
	v.root.SetBorder(true).SetTitle(" Join Room ")

	v.render()
	return v
}

// refresh asks the server for the room list.
func (v *joinView) refresh() {
	l := v.app.currentLobby()
	if l == nil {
		return
	}
	go func() {
		if err := l.RequestRooms(v.app.ctx); err != nil {
			v.app.fail(err, "Unable to load rooms")
		}
	}()
}

// setRooms is called by the lobby off the UI goroutine.
func (v *joinView) setRooms([]event.Room) {
	v.app.queue(v.render)
}

func (v *joinView) render() {
	v.table.Clear()
	for col, title := range roomColumns {
		v.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	v.shown = nil
	l := v.app.currentLobby()
	if l == nil {
		return
	}

	v.shown = l.Filter(v.search.GetText())
	for i, r := range v.shown {
		for col, text := range roomRow(r, l.Deleting(r.RoomID)) {
			v.table.SetCell(i+1, col, tview.NewTableCell(tview.Escape(text)).SetExpansion(1))
		}
	}
	if len(v.shown) == 0 {
		v.table.SetCell(1, 0, tview.NewTableCell("No rooms yet").SetSelectable(false))
	}
}

func (v *joinView) roomAt(row int) (event.Room, bool) {
	if row < 1 || row > len(v.shown) {
		return event.Room{}, false
	}
	return v.shown[row-1], true
}

func (v *joinView) joinRoom(code string) {
	l := v.app.currentLobby()
	go func() {
		if err := l.JoinRoom(v.app.ctx, code); err != nil {
			v.app.fail(err, "Cannot join the room")
		}
	}()
}

func (v *joinView) deleteRoom(r event.Room) {
	me := v.app.username()
	if r.Host != me {
		v.app.notifier.Toast(notify.LevelWarning, "Only the host can delete the room")
		return
	}

	v.app.confirm("Delete room "+r.RoomID+"?", pageJoin, func() {
		l := v.app.currentLobby()
		go func() {
			if err := l.DeleteRoom(v.app.ctx, r.RoomID); err != nil {
				v.app.fail(err, "Unable to delete the room")
			}
			v.app.queue(v.render)
		}()
	})
}
