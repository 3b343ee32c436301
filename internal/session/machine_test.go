package session

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/notify"
	"github.com/pixil98/go-testutil"
)

func testTiming() Timing {
	return Timing{
		RoundSeconds:   120,
		WarningSeconds: 30,
		TypingPerChar:  8 * time.Millisecond,
		MinTyping:      500 * time.Millisecond,
	}
}

func intPtr(i int) *int { return &i }

func effectsOf[T Effect](fx []Effect) []T {
	var out []T
	for _, f := range fx {
		if v, ok := f.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func newAdmin(maxPlayers int) *Machine {
	m := NewMachine(Params{RoomID: "42", Username: "amy", IsAdmin: true, MaxPlayers: maxPlayers}, testTiming())
	m.Mount(true)
	return m
}

func newPlayer() *Machine {
	m := NewMachine(Params{RoomID: "42", Username: "bob", MaxPlayers: 2}, testTiming())
	m.Mount(true)
	return m
}

// revealAll completes every pending reveal.
func revealAll(m *Machine) []Effect {
	var fx []Effect
	for m.inflight != nil {
		fx = append(fx, m.RevealDone()...)
	}
	return fx
}

func startedGame(t *testing.T) *Machine {
	t.Helper()
	m := newPlayer()
	m.HandleEvent(event.GameStarted{
		Roles:             map[string]event.Role{"bob": {RoleName: "Medic"}},
		Scenario:          "A bus crashed.",
		NextDecisionPoint: "Who do you treat first?",
		CrisisScore:       intPtr(55),
	})
	revealAll(m)
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseInRound)
	return m
}

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(Params{Username: "amy", Theme: event.Theme{IntroMsg: "Welcome to the office!"}}, testTiming())

	s := m.Snapshot()
	testutil.AssertEqual(t, "phase", s.Phase, PhaseConnecting)
	testutil.AssertEqual(t, "conn", s.Conn.Status, ConnConnecting)
	testutil.AssertEqual(t, "crisis", s.CrisisScore, 50)
	testutil.AssertEqual(t, "remaining", s.Remaining, 120)
	testutil.AssertEqual(t, "players", s.CurrentPlayers, 1)
	testutil.AssertEqual(t, "capacity", s.Params.MaxPlayers, 4)

	exp := []Entry{
		{Text: "Hey! 👋", Origin: OriginAI},
		{Text: "Welcome to the office!", Origin: OriginAI},
	}
	if diff := cmp.Diff(exp, s.Log); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_ConnectResolvesWaitingPhase(t *testing.T) {
	tests := map[string]struct {
		admin    bool
		expPhase Phase
	}{
		"admin waits for players": {admin: true, expPhase: PhaseWaitingForPlayers},
		"player waits for admin":  {admin: false, expPhase: PhaseWaitingForAdmin},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := NewMachine(Params{Username: "amy", IsAdmin: tt.admin}, testTiming())
			m.Mount(false)
			testutil.AssertEqual(t, "phase after mount", m.Phase(), PhaseConnecting)

			m.HandleEvent(event.Connect{})
			testutil.AssertEqual(t, "phase", m.Phase(), tt.expPhase)
			testutil.AssertEqual(t, "conn", m.Snapshot().Conn.Status, ConnConnected)
		})
	}
}

func TestMachine_AdminStartControlEnablesWhenRoomFull(t *testing.T) {
	m := newAdmin(2)

	s := m.Snapshot()
	testutil.AssertEqual(t, "phase", s.Phase, PhaseWaitingForPlayers)
	testutil.AssertEqual(t, "can start alone", s.CanStart, false)

	fx := m.HandleEvent(event.GameRoom{Message: "'bob' joined the game."})
	testutil.AssertEqual(t, "join notices", len(effectsOf[PlayerJoined](fx)), 1)

	s = m.Snapshot()
	testutil.AssertEqual(t, "players", s.CurrentPlayers, 2)
	testutil.AssertEqual(t, "can start", s.CanStart, true)

	// Redundant pushes are coalesced.
	fx = m.HandleEvent(event.GameRoom{Message: "'bob' joined the game."})
	testutil.AssertEqual(t, "duplicate join notices", len(fx), 0)
	testutil.AssertEqual(t, "players after duplicate", m.Snapshot().CurrentPlayers, 2)
}

func TestMachine_StartGame(t *testing.T) {
	m := newAdmin(2)
	m.HandleEvent(event.GameRoom{Message: "'bob' joined the game."})

	fx := m.StartGame()
	emits := effectsOf[Emit](fx)
	testutil.AssertEqual(t, "emits", len(emits), 1)
	testutil.AssertEqual(t, "event", emits[0].Event, event.NameStartGame)
	if diff := cmp.Diff(event.StartGame{RoomID: "42", Username: "amy"}, emits[0].Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}

	// Still waiting until the server confirms.
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseWaitingForPlayers)
	testutil.AssertEqual(t, "second start", len(m.StartGame()), 0)

	// A refusal re-enables the control.
	m.HandleEvent(event.Notification{Message: "Need at least 2 players to start game"})
	testutil.AssertEqual(t, "can start after refusal", m.Snapshot().CanStart, true)
}

func TestMachine_StartGameRejected(t *testing.T) {
	tests := map[string]struct {
		machine func() *Machine
	}{
		"non admin": {
			machine: func() *Machine {
				m := newPlayer()
				m.HandleEvent(event.GameRoom{Message: "'amy' joined the game."})
				return m
			},
		},
		"room not full": {
			machine: func() *Machine { return newAdmin(3) },
		},
		"not connected": {
			machine: func() *Machine {
				return NewMachine(Params{Username: "amy", IsAdmin: true, MaxPlayers: 1}, testTiming())
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := tt.machine()
			testutil.AssertEqual(t, "effects", len(m.StartGame()), 0)
		})
	}
}

func TestMachine_GameStartedStripsClauseAndSetsScore(t *testing.T) {
	m := newPlayer()

	fx := m.HandleEvent(event.GameStarted{
		Roles:             map[string]event.Role{"bob": {RoleName: "Fire Chief"}},
		Scenario:          "A warehouse is burning.",
		NextDecisionPoint: "Where do you send the crews?\n\n⏰ Decision time! You have 30 seconds to respond.",
		CrisisScore:       intPtr(50),
	})

	testutil.AssertEqual(t, "phase", m.Phase(), PhaseBriefing)
	testutil.AssertEqual(t, "crisis", m.Snapshot().CrisisScore, 50)
	testutil.AssertEqual(t, "round", m.Snapshot().Round, 1)
	testutil.AssertEqual(t, "typing", m.Snapshot().IsTyping, true)
	testutil.AssertEqual(t, "reveals scheduled", len(effectsOf[ScheduleReveal](fx)), 1)
	testutil.AssertEqual(t, "timer started early", len(effectsOf[StartTimer](fx)), 0)

	fx = m.RevealDone()
	testutil.AssertEqual(t, "timer started", len(effectsOf[StartTimer](fx)), 1)

	s := m.Snapshot()
	last := s.Log[len(s.Log)-1]
	testutil.AssertEqual(t, "origin", last.Origin, OriginAI)
	if strings.Contains(last.Text, "Decision time") {
		t.Errorf("decision clause not stripped: %q", last.Text)
	}
	if !strings.HasSuffix(last.Text, "You're the: Fire Chief\n\nWhere do you send the crews?") {
		t.Errorf("unexpected intro: %q", last.Text)
	}
	testutil.AssertEqual(t, "can submit", s.CanSubmit, true)
	testutil.AssertEqual(t, "remaining", s.Remaining, 120)
}

func TestMachine_GameStartedDefaults(t *testing.T) {
	m := newPlayer()
	m.HandleEvent(event.GameStarted{Scenario: "Quiet night.", NextDecisionPoint: "Patrol?"})
	revealAll(m)

	s := m.Snapshot()
	testutil.AssertEqual(t, "crisis", s.CrisisScore, 50)
	if !strings.Contains(s.Log[len(s.Log)-1].Text, "You're the: Player") {
		t.Errorf("expected default role, got %q", s.Log[len(s.Log)-1].Text)
	}

	// A repeated start is ignored.
	fx := m.HandleEvent(event.GameStarted{Scenario: "Again", NextDecisionPoint: "?"})
	testutil.AssertEqual(t, "duplicate effects", len(fx), 0)
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseInRound)
}

func TestMachine_RevealDelayScalesWithLength(t *testing.T) {
	tests := map[string]struct {
		text string
		exp  time.Duration
	}{
		"short text uses floor": {text: "Hi", exp: 500 * time.Millisecond},
		"long text scales":      {text: strings.Repeat("a", 100), exp: 800 * time.Millisecond},
		"runes not bytes":       {text: strings.Repeat("é", 100), exp: 800 * time.Millisecond},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "delay", testTiming().typingDelay(tt.text), tt.exp)
		})
	}
}

func TestMachine_SubmitDecision(t *testing.T) {
	m := startedGame(t)

	fx := m.SubmitDecision("   ")
	testutil.AssertEqual(t, "warnings", len(effectsOf[Toast](fx)), 1)
	testutil.AssertEqual(t, "emits on empty", len(effectsOf[Emit](fx)), 0)
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseInRound)

	m.Tick()
	m.Tick()
	fx = m.SubmitDecision("Treat the driver")

	emits := effectsOf[Emit](fx)
	testutil.AssertEqual(t, "emits", len(emits), 1)
	if diff := cmp.Diff(event.SubmitDecision{RoomID: "42", Username: "bob", Decision: "Treat the driver"}, emits[0].Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "timer stopped", len(effectsOf[StopTimer](fx)), 1)

	s := m.Snapshot()
	testutil.AssertEqual(t, "phase", s.Phase, PhaseAwaitingResults)
	testutil.AssertEqual(t, "can submit", s.CanSubmit, false)
	testutil.AssertEqual(t, "waiting", s.IsWaiting, true)
	testutil.AssertEqual(t, "remaining reset", s.Remaining, 120)
	testutil.AssertEqual(t, "last entry", s.Log[len(s.Log)-1], Entry{Text: "Treat the driver", Origin: OriginPlayer})

	// Guard: no longer submittable.
	testutil.AssertEqual(t, "second submit", len(m.SubmitDecision("again")), 0)
}

func TestMachine_SubmitDecisionGuard(t *testing.T) {
	tests := map[string]struct {
		machine func(t *testing.T) *Machine
	}{
		"waiting for admin": {
			machine: func(*testing.T) *Machine { return newPlayer() },
		},
		"briefing": {
			machine: func(*testing.T) *Machine {
				m := newPlayer()
				m.HandleEvent(event.GameStarted{Scenario: "s", NextDecisionPoint: "p"})
				return m
			},
		},
		"disconnected mid round": {
			machine: func(t *testing.T) *Machine {
				m := startedGame(t)
				m.HandleEvent(event.Disconnect{})
				return m
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := tt.machine(t)
			before := m.Snapshot()
			fx := m.SubmitDecision("my plan")
			testutil.AssertEqual(t, "effects", len(fx), 0)
			if diff := cmp.Diff(before, m.Snapshot()); diff != "" {
				t.Errorf("state changed (-before +after):\n%s", diff)
			}
		})
	}
}

func TestMachine_TimerCountsDownOncePerTick(t *testing.T) {
	m := startedGame(t)

	for i := 1; i <= 50; i++ {
		m.Tick()
		testutil.AssertEqual(t, "remaining", m.Snapshot().Remaining, 120-i)
	}
}

func TestMachine_WarningShownOnce(t *testing.T) {
	m := startedGame(t)

	warnings := func() int {
		n := 0
		for _, e := range m.Snapshot().Log {
			if strings.HasPrefix(e.Text, "⚠️") {
				n++
			}
		}
		return n
	}

	for m.Snapshot().Remaining > 31 {
		m.Tick()
	}
	testutil.AssertEqual(t, "warnings before 30", warnings(), 0)

	m.Tick()
	testutil.AssertEqual(t, "remaining", m.Snapshot().Remaining, 30)
	testutil.AssertEqual(t, "warnings at 30", warnings(), 1)

	for i := 0; i < 20; i++ {
		m.Tick()
	}
	testutil.AssertEqual(t, "warnings after 30", warnings(), 1)
}

func TestMachine_TimerExpirySubmitsOnce(t *testing.T) {
	m := startedGame(t)

	var submits []Emit
	for i := 0; i < 200; i++ {
		for _, e := range effectsOf[Emit](m.Tick()) {
			if e.Event == event.NameSubmitDecision {
				submits = append(submits, e)
			}
		}
		if m.Snapshot().Remaining < 0 {
			t.Fatalf("remaining went negative after %d ticks", i+1)
		}
	}

	testutil.AssertEqual(t, "submits", len(submits), 1)
	testutil.AssertEqual(t, "decision", submits[0].Payload.(event.SubmitDecision).Decision, TimeoutDecision)

	s := m.Snapshot()
	testutil.AssertEqual(t, "phase", s.Phase, PhaseAwaitingResults)
	testutil.AssertEqual(t, "remaining", s.Remaining, 120)
	testutil.AssertEqual(t, "times up logged", s.Log[len(s.Log)-2].Text, "⏰ Time's up! Moving to next round...")
}

func TestMachine_RoundFlow(t *testing.T) {
	m := startedGame(t)
	m.SubmitDecision("Treat the driver")

	m.HandleEvent(event.PlayerDecisionSubmitted{Username: "bob", RemainingPlayers: 1})
	m.HandleEvent(event.PlayerDecisionSubmitted{Username: "bob", RemainingPlayers: 1})
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseAwaitingResults)

	m.HandleEvent(event.PlayerDecisionSubmitted{Username: "amy", RemainingPlayers: 0})
	testutil.AssertEqual(t, "phase after last", m.Phase(), PhaseAnalyzing)
	testutil.AssertEqual(t, "analyzing", m.Snapshot().IsAnalyzing, true)

	m.HandleEvent(event.AIAnalysisStarted{Message: "🤖 AI is analyzing"})
	m.HandleEvent(event.AIAnalysisStarted{Message: "🤖 AI is analyzing"})
	m.HandleEvent(event.AIAnalysisCompleted{Message: "✅ AI analysis complete!"})
	testutil.AssertEqual(t, "phase after analysis", m.Phase(), PhaseBriefing)

	before := len(m.Snapshot().Log)
	m.HandleEvent(event.RoundCompleted{
		Round:             1,
		CrisisScore:       42,
		StoryContinuation: "The driver survives.",
		NextDecisionPoint: "The press arrives. Statement?\n\n⏰ Decision time! You have 30 seconds to respond.",
	})
	testutil.AssertEqual(t, "crisis", m.Snapshot().CrisisScore, 42)
	testutil.AssertEqual(t, "round", m.Snapshot().Round, 2)

	// Duplicate delivery is ignored.
	fx := m.HandleEvent(event.RoundCompleted{Round: 1, CrisisScore: 99, StoryContinuation: "x", NextDecisionPoint: "y"})
	testutil.AssertEqual(t, "duplicate effects", len(fx), 0)

	revealAll(m)
	s := m.Snapshot()
	testutil.AssertEqual(t, "phase", s.Phase, PhaseInRound)

	var got []string
	for _, e := range s.Log[before:] {
		got = append(got, e.Text)
	}
	exp := []string{
		"Round 1 completed!",
		"Crisis Score: 42/100",
		"The driver survives.",
		"The press arrives. Statement?",
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("reveal order mismatch (-want +got):\n%s", diff)
	}
}

func TestMachine_AtMostOneReveal(t *testing.T) {
	m := startedGame(t)
	m.SubmitDecision("go")
	m.HandleEvent(event.AIAnalysisStarted{Message: "thinking"})
	m.HandleEvent(event.AIAnalysisCompleted{Message: "done"})

	fx := m.HandleEvent(event.RoundCompleted{Round: 1, CrisisScore: 30, StoryContinuation: "s", NextDecisionPoint: "n"})
	testutil.AssertEqual(t, "reveals", len(effectsOf[ScheduleReveal](fx)), 1)

	for i := 0; i < 3; i++ {
		fx = m.RevealDone()
		testutil.AssertEqual(t, "next reveal", len(effectsOf[ScheduleReveal](fx)), 1)
		testutil.AssertEqual(t, "timer", len(effectsOf[StartTimer](fx)), 0)
	}

	fx = m.RevealDone()
	testutil.AssertEqual(t, "final reveal", len(effectsOf[ScheduleReveal](fx)), 0)
	testutil.AssertEqual(t, "timer", len(effectsOf[StartTimer](fx)), 1)

	// A stray completion does nothing.
	testutil.AssertEqual(t, "stray", len(m.RevealDone()), 0)
}

func TestMachine_GameEndedMidRound(t *testing.T) {
	m := startedGame(t)
	m.Tick()

	fx := m.HandleEvent(event.GameEnded{
		PlayerScores: map[string]event.PlayerScore{
			"carl": {TotalScore: 10, Rank: 3},
			"bob":  {TotalScore: 30, Rank: 1, RoundScores: []event.RoundScore{{Round: 1, TotalRoundScore: 30}}},
			"amy":  {TotalScore: 20, Rank: 2},
		},
		FinalCrisisScore: 18,
		GameSummary:      "The city held.",
	})
	testutil.AssertEqual(t, "timer stopped", len(effectsOf[StopTimer](fx)), 1)

	s := m.Snapshot()
	testutil.AssertEqual(t, "phase", s.Phase, PhaseGameEnded)
	testutil.AssertEqual(t, "can submit", s.CanSubmit, false)
	testutil.AssertEqual(t, "analyzing", s.IsAnalyzing, false)
	if s.Results == nil {
		t.Fatal("expected results")
	}

	var order []string
	for _, p := range s.Results.Players {
		order = append(order, p.Username)
	}
	if diff := cmp.Diff([]string{"bob", "amy", "carl"}, order); diff != "" {
		t.Errorf("rank order mismatch (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "final score", s.Results.FinalCrisisScore, 18)

	tail := s.Log[len(s.Log)-3:]
	exp := []Entry{
		{Text: "🏁 Game Over!", Origin: OriginSystem},
		{Text: "Final Crisis Score: 18", Origin: OriginSystem},
		{Text: "The city held.", Origin: OriginSystem},
	}
	if diff := cmp.Diff(exp, tail); diff != "" {
		t.Errorf("log tail mismatch (-want +got):\n%s", diff)
	}

	// Terminal: further gameplay events change nothing.
	m.HandleEvent(event.RoundCompleted{Round: 5, CrisisScore: 1, StoryContinuation: "s", NextDecisionPoint: "n"})
	m.HandleEvent(event.GameEnded{GameSummary: "again"})
	m.Tick()
	testutil.AssertEqual(t, "phase after", m.Phase(), PhaseGameEnded)
	testutil.AssertEqual(t, "summary", m.Snapshot().Results.Summary, "The city held.")
}

func TestMachine_GameEndedDefaultSummary(t *testing.T) {
	m := startedGame(t)
	m.HandleEvent(event.GameEnded{})

	s := m.Snapshot()
	testutil.AssertEqual(t, "summary", s.Results.Summary, "Game completed successfully!")
	testutil.AssertEqual(t, "players", len(s.Results.Players), 0)
}

func TestMachine_DisconnectResumes(t *testing.T) {
	m := startedGame(t)
	for i := 0; i < 10; i++ {
		m.Tick()
	}

	fx := m.HandleEvent(event.Disconnect{Reason: "transport close"})
	testutil.AssertEqual(t, "timer stopped", len(effectsOf[StopTimer](fx)), 1)
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseDisconnected)

	m.Tick()
	testutil.AssertEqual(t, "remaining frozen", m.Snapshot().Remaining, 110)

	fx = m.Retry()
	testutil.AssertEqual(t, "reconnects", len(effectsOf[Reconnect](fx)), 1)
	testutil.AssertEqual(t, "conn", m.Snapshot().Conn.Status, ConnConnecting)

	fx = m.HandleEvent(event.Connect{})
	testutil.AssertEqual(t, "timer restarted", len(effectsOf[StartTimer](fx)), 1)
	testutil.AssertEqual(t, "phase", m.Phase(), PhaseInRound)
	testutil.AssertEqual(t, "remaining kept", m.Snapshot().Remaining, 110)
}

func TestMachine_ConnectErrorAndRetry(t *testing.T) {
	m := NewMachine(Params{Username: "amy"}, testTiming())

	fx := m.HandleEvent(event.ConnectError{Message: "Failed to connect to server"})
	toasts := effectsOf[Toast](fx)
	testutil.AssertEqual(t, "toasts", len(toasts), 1)
	testutil.AssertEqual(t, "level", toasts[0].Level, notify.LevelError)

	s := m.Snapshot()
	testutil.AssertEqual(t, "conn", s.Conn, Connection{Status: ConnError, Err: "Failed to connect to server"})

	testutil.AssertEqual(t, "reconnects", len(effectsOf[Reconnect](m.Retry())), 1)
	testutil.AssertEqual(t, "retry while connecting", len(m.Retry()), 0)
}

func TestMachine_LeaveOnce(t *testing.T) {
	m := startedGame(t)

	fx := m.Leave()
	emits := effectsOf[Emit](fx)
	testutil.AssertEqual(t, "emits", len(emits), 1)
	if diff := cmp.Diff(event.Leave{Username: "bob", Room: "42", Message: "bob has left the room."}, emits[0].Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
	testutil.AssertEqual(t, "timer stopped", len(effectsOf[StopTimer](fx)), 1)
	testutil.AssertEqual(t, "second leave", len(m.Leave()), 0)
}

func TestMachine_NotificationLeftRoom(t *testing.T) {
	m := newAdmin(3)
	m.HandleEvent(event.GameRoom{Message: "'bob' joined the game."})
	m.HandleEvent(event.GameRoom{Message: "'carl' joined the game."})
	testutil.AssertEqual(t, "players", m.Snapshot().CurrentPlayers, 3)

	fx := m.HandleEvent(event.Notification{Message: "bob has left the room."})
	testutil.AssertEqual(t, "toasts", len(effectsOf[Toast](fx)), 1)
	testutil.AssertEqual(t, "players", m.Snapshot().CurrentPlayers, 2)

	s := m.Snapshot()
	testutil.AssertEqual(t, "logged", s.Log[len(s.Log)-1].Text, "bob has left the room.")

	m.HandleEvent(event.Notification{Message: "Room is ready"})
	testutil.AssertEqual(t, "unrelated not logged", len(m.Snapshot().Log), len(s.Log))
}

func TestMachine_TimeoutNotification(t *testing.T) {
	m := startedGame(t)
	m.SubmitDecision("go")
	before := len(m.Snapshot().Log)

	m.HandleEvent(event.TimeoutNotification{Message: "⏰ Time's up! 1 player(s) didn't respond in time.", TimeoutCount: 1})

	var got []string
	for _, e := range m.Snapshot().Log[before:] {
		got = append(got, e.Text)
	}
	exp := []string{
		"⏰ Time's up! 1 player(s) didn't respond in time.",
		"Processing round with 1 timeout(s)...",
		"AI will continue the game with available responses.",
	}
	if diff := cmp.Diff(exp, got); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}
}

// Replays a long mixed sequence and checks the log only ever grows and
// never rewrites earlier entries.
func TestMachine_LogIsAppendOnly(t *testing.T) {
	m := newAdmin(2)
	inputs := []func() []Effect{
		func() []Effect { return m.HandleEvent(event.GameRoom{Message: "'bob' joined the game."}) },
		func() []Effect { return m.HandleEvent(event.RoomJoined{Message: "Successfully joined room 42"}) },
		func() []Effect { return m.StartGame() },
		func() []Effect { return m.HandleEvent(event.GameStarting{Message: "🚀 Game is starting..."}) },
		func() []Effect { return m.HandleEvent(event.GameStarting{Message: "🚀 Game is starting..."}) },
		func() []Effect {
			return m.HandleEvent(event.GameStarted{Scenario: "s", NextDecisionPoint: "p", CrisisScore: intPtr(60)})
		},
		func() []Effect { return m.SubmitDecision("too early") },
		func() []Effect { return m.RevealDone() },
		func() []Effect { return m.Tick() },
		func() []Effect { return m.HandleEvent(event.Disconnect{}) },
		func() []Effect { return m.HandleEvent(event.Connect{}) },
		func() []Effect { return m.SubmitDecision("plan") },
		func() []Effect { return m.HandleEvent(event.PlayerDecisionSubmitted{Username: "amy", RemainingPlayers: 1}) },
		func() []Effect { return m.HandleEvent(event.TimeoutNotification{Message: "late", TimeoutCount: 1}) },
		func() []Effect { return m.HandleEvent(event.AIAnalysisStarted{Message: "thinking"}) },
		func() []Effect { return m.HandleEvent(event.RoundCompleted{Round: 1, CrisisScore: 40, StoryContinuation: "s", NextDecisionPoint: "n"}) },
		func() []Effect { return m.RevealDone() },
		func() []Effect { return m.HandleEvent(event.GameEnded{GameSummary: "end"}) },
		func() []Effect { return m.RevealDone() },
		func() []Effect { return m.RevealDone() },
		func() []Effect { return m.RevealDone() },
		func() []Effect { return m.Leave() },
	}

	prev := m.Snapshot().Log
	for i, in := range inputs {
		in()
		cur := m.Snapshot().Log
		if len(cur) < len(prev) {
			t.Fatalf("step %d: log shrank from %d to %d", i, len(prev), len(cur))
		}
		if diff := cmp.Diff(prev, cur[:len(prev)]); diff != "" {
			t.Fatalf("step %d: earlier entries changed (-before +after):\n%s", i, diff)
		}
		prev = cur
	}

	testutil.AssertEqual(t, "phase", m.Phase(), PhaseGameEnded)
}
