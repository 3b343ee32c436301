package ui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/arena"
)

type arenaView struct {
	app *App

	root   *tview.Flex
	table  *tview.Table
	footer *tview.TextView
}

func newArenaView(a *App) *arenaView {
	v := &arenaView{
		app:    a,
		table:  tview.NewTable().SetFixed(1, 0).SetSelectable(true, false),
		footer: tview.NewTextView().SetDynamicColors(true),
	}

	v.table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		switch {
		case ev.Key() == tcell.KeyEscape:
			a.show(pageHome)
			return nil
		case ev.Rune() == 'r':
			v.refresh()
			return nil
		}
		return ev
	})

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.table, 0, 1, true).
		AddItem(v.footer, 1, 0, false)
	v.root.SetBorder(true).SetTitle(" 🌍 World Arena · r refresh · Esc back ")

	v.render(arena.View{})
	return v
}

// refresh shows the board as it is and fetches a fresh copy.
func (v *arenaView) refresh() {
	b := v.app.board
	if b == nil {
		v.footer.SetText("[gray]Rankings unavailable[-]")
		return
	}
	v.render(b.View())

	go func() {
		if err := b.Tick(v.app.ctx); err != nil {
			v.app.fail(err, "Unable to refresh rankings")
		}
	}()
}

// Updated is the board's update handler. It runs off the UI goroutine.
func (v *arenaView) Updated(view arena.View) {
	v.app.queue(func() { v.render(view) })
}

func (v *arenaView) render(view arena.View) {
	v.table.Clear()
	for col, title := range arenaColumns {
		v.table.SetCell(0, col, tview.NewTableCell(title).
			SetTextColor(tcell.ColorYellow).
			SetSelectable(false))
	}

	me := v.app.username()
	for i, s := range view.Standings {
		for col, text := range arenaRow(s) {
			cell := tview.NewTableCell(tview.Escape(text)).SetExpansion(1)
			if s.Username == me {
				cell.SetTextColor(tcell.ColorGreen)
			}
			v.table.SetCell(i+1, col, cell)
		}
	}
	if len(view.Standings) == 0 && !view.Refreshed.IsZero() {
		v.table.SetCell(1, 0, tview.NewTableCell("No players ranked yet").SetSelectable(false))
	}

	v.footer.SetText("[gray]" + tview.Escape(arenaFooter(view)) + "[-]")
}
