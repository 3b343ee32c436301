package session

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

var templateFuncs = sprig.TxtFuncMap()

// The server appends its own (shorter) deadline to decision prompts. The
// client runs its own countdown, so the clause is dropped before display.
var decisionClause = regexp.MustCompile(`\s*⏰ Decision time! You have \d+ seconds to respond\.?`)

// StripDecisionClause removes the server's deadline clause from a prompt.
func StripDecisionClause(prompt string) string {
	return strings.TrimSpace(decisionClause.ReplaceAllString(prompt, ""))
}

var (
	introTmpl = template.Must(template.New("intro").Funcs(templateFuncs).Parse(
		"🎮 Let's go! Here's what's happening:\n\n{{ .Scenario | trim }}\n\nYou're the: {{ .Role }}\n\n{{ .Prompt }}"))
	roundDoneTmpl = template.Must(template.New("round").Funcs(templateFuncs).Parse(
		"Round {{ .Round }} completed!"))
	crisisTmpl = template.Must(template.New("crisis").Funcs(templateFuncs).Parse(
		"Crisis Score: {{ .Score }}/100"))
	finalCrisisTmpl = template.Must(template.New("final").Funcs(templateFuncs).Parse(
		"Final Crisis Score: {{ .Score }}"))
	timeoutTmpl = template.Must(template.New("timeout").Funcs(templateFuncs).Parse(
		"Processing round with {{ .Count }} timeout(s)..."))
	submittedTmpl = template.Must(template.New("submitted").Funcs(templateFuncs).Parse(
		"{{ .Username }} submitted their decision"))
	warningTmpl = template.Must(template.New("warning").Funcs(templateFuncs).Parse(
		"⚠️ {{ .Seconds }} seconds remaining! Submit your decision quickly!"))
	leftTmpl = template.Must(template.New("left").Funcs(templateFuncs).Parse(
		"{{ .Username | default \"User\" }} has left the room."))
)

const (
	greeting        = "Hey! 👋"
	defaultIntro    = "Ready to play? Let's go! 🎮"
	defaultRole     = "Player"
	defaultSummary  = "Game completed successfully!"
	timesUpMessage  = "⏰ Time's up! Moving to next round..."
	gameOverMessage = "🏁 Game Over!"
	continueMessage = "AI will continue the game with available responses."
)

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		// Templates and their data types are fixed at build time.
		panic(fmt.Sprintf("rendering %s: %v", t.Name(), err))
	}
	return buf.String()
}

func introText(scenario, role, prompt string) string {
	return render(introTmpl, struct{ Scenario, Role, Prompt string }{scenario, role, prompt})
}

func roundDoneText(round int) string {
	return render(roundDoneTmpl, struct{ Round int }{round})
}

func crisisText(score int) string {
	return render(crisisTmpl, struct{ Score int }{score})
}

func finalCrisisText(score int) string {
	return render(finalCrisisTmpl, struct{ Score int }{score})
}

func timeoutText(count int) string {
	return render(timeoutTmpl, struct{ Count int }{count})
}

func warningText(seconds int) string {
	return render(warningTmpl, struct{ Seconds int }{seconds})
}

func submittedText(username string) string {
	return render(submittedTmpl, struct{ Username string }{username})
}

// LeaveMessage is the notice broadcast to the room when a player leaves.
func LeaveMessage(username string) string {
	return render(leftTmpl, struct{ Username string }{username})
}
