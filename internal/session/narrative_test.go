package session

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestStripDecisionClause(t *testing.T) {
	tests := map[string]struct {
		prompt string
		exp    string
	}{
		"trailing clause": {
			prompt: "The river is rising. What do you do?\n\n⏰ Decision time! You have 30 seconds to respond.",
			exp:    "The river is rising. What do you do?",
		},
		"clause without period": {
			prompt: "Choose wisely. ⏰ Decision time! You have 120 seconds to respond",
			exp:    "Choose wisely.",
		},
		"no clause": {
			prompt: "  What next?  ",
			exp:    "What next?",
		},
		"only clause": {
			prompt: "⏰ Decision time! You have 60 seconds to respond.",
			exp:    "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "prompt", StripDecisionClause(tt.prompt), tt.exp)
		})
	}
}

func TestNarrativeTemplates(t *testing.T) {
	tests := map[string]struct {
		got string
		exp string
	}{
		"intro": {
			got: introText("  A storm hits.\n", "Mayor", "Evacuate?"),
			exp: "🎮 Let's go! Here's what's happening:\n\nA storm hits.\n\nYou're the: Mayor\n\nEvacuate?",
		},
		"round done":   {got: roundDoneText(2), exp: "Round 2 completed!"},
		"crisis":       {got: crisisText(71), exp: "Crisis Score: 71/100"},
		"final crisis": {got: finalCrisisText(12), exp: "Final Crisis Score: 12"},
		"timeouts":     {got: timeoutText(2), exp: "Processing round with 2 timeout(s)..."},
		"warning":      {got: warningText(30), exp: "⚠️ 30 seconds remaining! Submit your decision quickly!"},
		"submitted":    {got: submittedText("bob"), exp: "bob submitted their decision"},
		"leave":        {got: LeaveMessage("amy"), exp: "amy has left the room."},
		"leave anon":   {got: LeaveMessage(""), exp: "User has left the room."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "text", tt.got, tt.exp)
		})
	}
}
