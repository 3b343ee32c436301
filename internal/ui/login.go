package ui

import (
	"github.com/rivo/tview"
)

const labelUsername = "Username"

type loginView struct {
	root  *tview.Form
	input *tview.InputField
}

func newLoginView(a *App) *loginView {
	v := &loginView{
		input: tview.NewInputField().
			SetLabel(labelUsername).
			SetFieldWidth(24).
			SetPlaceholder("enter a username"),
	}

	v.root = tview.NewForm().
		AddFormItem(v.input).
		AddButton("Login", func() {
			name := v.input.GetText()
			go a.doLogin(name)
		}).
		AddButton("Exit", a.exit)
	v.root.SetBorder(true).SetTitle(" 🚨 Crisis ")

	return v
}

func (v *loginView) reset() {
	v.input.SetText("")
}
