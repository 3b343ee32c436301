package ui

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/display"
	"github.com/pixil98/go-crisis/internal/session"
)

// roomView renders a room session. It observes the session controller and
// coalesces redraws: at most one draw is queued at a time and it renders
// the latest snapshot.
type roomView struct {
	app *App

	root    *tview.Flex
	header  *tview.TextView
	log     *tview.TextView
	input   *tview.InputField
	start   *tview.Button
	share   *tview.Button
	retry   *tview.Button
	leave   *tview.Button
	focused []tview.Primitive

	mu     sync.Mutex
	ctrl   *session.Controller
	snap   session.Snapshot
	queued atomic.Bool

	// UI goroutine only.
	rendered     int
	resultsShown bool
}

func newRoomView(a *App) *roomView {
	v := &roomView{
		app:    a,
		header: tview.NewTextView().SetDynamicColors(true),
		log: tview.NewTextView().
			SetDynamicColors(true).
			SetScrollable(true).
			SetWordWrap(true),
		input: tview.NewInputField().
			SetLabel("> ").
			SetPlaceholder("Type your decision and press Enter"),
	}

	v.input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			text := v.input.GetText()
			if c := v.controller(); c != nil {
				c.Submit(text)
			}
			v.input.SetText("")
		case tcell.KeyTab, tcell.KeyEscape:
			v.cycle(v.input, false)
		case tcell.KeyBacktab:
			v.cycle(v.input, true)
		}
	})

	v.start = v.button("Start Game", func() {
		if c := v.controller(); c != nil {
			c.StartGame()
		}
	})
	v.share = v.button("Share", v.showShare)
	v.retry = v.button("Retry", func() {
		if c := v.controller(); c != nil {
			c.Retry()
		}
	})
	v.leave = v.button("Leave", func() {
		a.confirm("Leave the room?", pageRoom, a.leaveRoom)
	})
	v.focused = []tview.Primitive{v.input, v.start, v.share, v.retry, v.leave}

	buttons := tview.NewFlex().
		AddItem(v.start, 0, 1, false).
		AddItem(v.share, 0, 1, false).
		AddItem(v.retry, 0, 1, false).
		AddItem(v.leave, 0, 1, false)

	v.log.SetBorder(true)

	v.root = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(v.header, 3, 0, false).
		AddItem(v.log, 0, 1, false).
		AddItem(v.input, 1, 0, true).
		AddItem(buttons, 1, 0, false)

	return v
}

func (v *roomView) button(label string, selected func()) *tview.Button {
	b := tview.NewButton(label).SetSelectedFunc(selected)
	b.SetExitFunc(func(key tcell.Key) {
		v.cycle(b, key == tcell.KeyBacktab)
	})
	return b
}

// cycle moves focus to the next control after from, or the previous one.
func (v *roomView) cycle(from tview.Primitive, back bool) {
	for i, p := range v.focused {
		if p != from {
			continue
		}
		step := 1
		if back {
			step = len(v.focused) - 1
		}
		v.app.app.SetFocus(v.focused[(i+step)%len(v.focused)])
		return
	}
}

func (v *roomView) controller() *session.Controller {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.ctrl
}

// reset points the view at a new session. It may be called from any
// goroutine.
func (v *roomView) reset(p session.Params, c *session.Controller) {
	v.mu.Lock()
	v.ctrl = c
	v.snap = session.Snapshot{Params: p}
	v.mu.Unlock()

	v.app.queue(func() {
		v.rendered = 0
		v.resultsShown = false
		v.log.Clear()
		v.input.SetText("")
		v.draw()
	})
}

// Observe is called on the session goroutine.
func (v *roomView) Observe(s session.Snapshot) {
	v.mu.Lock()
	v.snap = s
	v.mu.Unlock()

	if v.queued.CompareAndSwap(false, true) {
		v.app.queue(func() {
			v.queued.Store(false)
			v.draw()
		})
	}
}

func (v *roomView) draw() {
	v.mu.Lock()
	s := v.snap
	v.mu.Unlock()

	v.header.SetText(headerText(s))

	if len(s.Log) < v.rendered {
		v.log.Clear()
		v.rendered = 0
	}
	for _, e := range s.Log[v.rendered:] {
		if v.rendered > 0 {
			fmt.Fprint(v.log, "\n\n")
		}
		fmt.Fprint(v.log, entryText(e))
		v.rendered++
	}
	v.log.ScrollToEnd()

	v.input.SetDisabled(!s.CanSubmit)
	v.start.SetDisabled(!s.CanStart)
	v.retry.SetDisabled(s.Conn.Status != session.ConnError && s.Conn.Status != session.ConnDisconnected)

	if s.Results != nil && !v.resultsShown {
		v.resultsShown = true
		v.showResults(s)
	}
}

func (v *roomView) showResults(s session.Snapshot) {
	m := tview.NewModal().
		SetText(resultsText(s.Results, s.Params.Username)).
		AddButtons([]string{"Exit Room", "View Log"}).
		SetDoneFunc(func(i int, _ string) {
			if i == 0 {
				v.app.leaveRoom()
				return
			}
			v.app.closeModal(pageResults, pageRoom)
		})
	v.app.modal(pageResults, m)
}

func (v *roomView) showShare() {
	v.mu.Lock()
	room := v.snap.Params.RoomID
	v.mu.Unlock()

	code, err := display.QR(room)
	if err != nil {
		v.app.fail(err, "Unable to render the room code")
		return
	}

	text := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetText(code + "\nRoom code: " + room + "\n\nShare this code with your friends · Esc closes")
	text.SetBorder(true).SetTitle(" Share Room ")
	text.SetDoneFunc(func(tcell.Key) { v.app.closeModal(pageShare, pageRoom) })

	v.app.modal(pageShare, center(text, 60, 36))
}

// center places p in the middle of the screen at the given size.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
