package session

import (
	"cmp"
	"regexp"
	"slices"
	"strings"

	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/notify"
)

const (
	defaultCrisisScore = 50
	defaultMaxPlayers  = 4
)

var (
	joinedPattern = regexp.MustCompile(`'([^']+)'`)
	leftPattern   = regexp.MustCompile(`^'?(.+?)'? has left the room`)
)

// Machine is the room session state machine. It owns all session state,
// performs no I/O and reads no clock: every method mutates the state and
// returns the effects the caller must carry out. It is not safe for
// concurrent use.
type Machine struct {
	timing Timing
	params Params

	phase  Phase
	resume Phase
	conn   Connection
	round  RoundState
	roster []string
	log    []Entry

	queue    []QueueItem
	inflight *QueueItem

	timerRunning      bool
	joinAcked         bool
	starting          bool
	startRequested    bool
	analysisAnnounced bool
	left              bool
	lastCompleted     int
	submitted         map[string]bool
	results           *GameResults

	fx []Effect
}

func NewMachine(p Params, t Timing) *Machine {
	if p.MaxPlayers <= 0 {
		p.MaxPlayers = defaultMaxPlayers
	}

	m := &Machine{
		timing: t,
		params: p,
		phase:  PhaseConnecting,
		conn:   Connection{Status: ConnConnecting},
		round: RoundState{
			CrisisScore: defaultCrisisScore,
			Remaining:   t.RoundSeconds,
		},
		submitted: map[string]bool{},
	}
	if p.Username != "" {
		m.roster = []string{p.Username}
	}

	intro := p.Theme.IntroMsg
	if intro == "" {
		intro = defaultIntro
	}
	m.appendLog(greeting, OriginAI)
	m.appendLog(intro, OriginAI)

	return m
}

func (m *Machine) Phase() Phase {
	return m.phase
}

// Mount is called once the session is attached to its transport. Rooms are
// usually entered over an already connected socket, in which case no
// connect event will follow.
func (m *Machine) Mount(connected bool) []Effect {
	return m.step(func() {
		if connected {
			m.onConnected()
		}
	})
}

// HandleEvent applies one inbound server event. Events that do not make
// sense in the current phase, and repeats of events already applied, leave
// the state unchanged.
func (m *Machine) HandleEvent(ev event.Event) []Effect {
	return m.step(func() {
		switch e := ev.(type) {
		case event.Connect:
			m.onConnected()
		case event.Disconnect:
			m.onDisconnected()
		case event.ConnectError:
			m.conn = Connection{Status: ConnError, Err: e.Message}
			m.toast(notify.LevelError, e.Message)
		case event.GameRoom:
			m.onPlayerJoined(e)
		case event.RoomJoined:
			if !m.joinAcked {
				m.joinAcked = true
				m.toast(notify.LevelSuccess, e.Message)
			}
		case event.EnteredGame:
			if m.phase == PhaseConnecting {
				m.onConnected()
			}
		case event.GameStarting:
			if m.phase.waiting() && !m.starting {
				m.starting = true
				m.appendLog(e.Message, OriginSystem)
			}
		case event.GameStarted:
			m.onGameStarted(e)
		case event.RoundCompleted:
			m.onRoundCompleted(e)
		case event.DecisionTimerStarted:
			if m.phase != PhaseInRound {
				m.round.WarningShown = false
			}
		case event.PlayerDecisionSubmitted:
			m.onDecisionSubmitted(e)
		case event.AIAnalysisStarted:
			m.onAnalysisStarted(e)
		case event.AIAnalysisCompleted:
			if m.phase == PhaseAnalyzing {
				m.phase = PhaseBriefing
				m.appendLog(e.Message, OriginSystem)
			}
		case event.TimeoutNotification:
			if m.phase.InGame() {
				m.appendLog(e.Message, OriginSystem)
				m.appendLog(timeoutText(e.TimeoutCount), OriginSystem)
				m.appendLog(continueMessage, OriginSystem)
			}
		case event.GameEnded:
			m.onGameEnded(e)
		case event.Notification:
			m.onNotification(e)
		}
	})
}

// SubmitDecision sends the player's decision for the current round. It does
// nothing unless the round is open for submissions.
func (m *Machine) SubmitDecision(text string) []Effect {
	return m.step(func() {
		if m.phase != PhaseInRound {
			return
		}
		text = strings.TrimSpace(text)
		if text == "" {
			m.toast(notify.LevelWarning, "Please enter your decision")
			return
		}
		m.submit(text)
	})
}

// Tick advances the round countdown by one second.
func (m *Machine) Tick() []Effect {
	return m.step(func() {
		if m.phase != PhaseInRound {
			return
		}

		if m.round.Remaining > 0 {
			m.round.Remaining--
		}

		if m.round.Remaining == m.timing.WarningSeconds && !m.round.WarningShown {
			m.round.WarningShown = true
			m.appendLog(warningText(m.timing.WarningSeconds), OriginSystem)
		}

		if m.round.Remaining == 0 {
			m.appendLog(timesUpMessage, OriginSystem)
			m.submit(TimeoutDecision)
		}
	})
}

// RevealDone completes the reveal of the item currently typing.
func (m *Machine) RevealDone() []Effect {
	return m.step(func() {
		if m.inflight == nil {
			return
		}
		item := *m.inflight
		m.inflight = nil

		m.appendLog(item.Text, OriginAI)
		if item.StartsRoundTimer {
			m.enterRound()
		}
	})
}

// StartGame asks the server to start the game. The phase only changes once
// the server confirms with game_started.
func (m *Machine) StartGame() []Effect {
	return m.step(func() {
		if !m.canStart() {
			return
		}
		m.startRequested = true
		m.emit(event.NameStartGame, event.StartGame{
			RoomID:   m.params.RoomID,
			Username: m.params.Username,
		})
	})
}

// Leave notifies the room that the player is leaving.
func (m *Machine) Leave() []Effect {
	return m.step(func() {
		if m.left {
			return
		}
		m.left = true
		m.stopTimer()
		m.emit(event.NameLeave, event.Leave{
			Username: m.params.Username,
			Room:     m.params.RoomID,
			Message:  LeaveMessage(m.params.Username),
		})
	})
}

// Retry re-establishes a failed or dropped connection.
func (m *Machine) Retry() []Effect {
	return m.step(func() {
		if m.conn.Status != ConnError && m.conn.Status != ConnDisconnected {
			return
		}
		m.conn = Connection{Status: ConnConnecting}
		m.fx = append(m.fx, Reconnect{})
	})
}

func (m *Machine) Snapshot() Snapshot {
	s := Snapshot{
		Params:         m.params,
		Phase:          m.phase,
		Conn:           m.conn,
		CrisisScore:    m.round.CrisisScore,
		Round:          m.round.Number,
		Remaining:      m.round.Remaining,
		TimerRunning:   m.timerRunning,
		CanSubmit:      m.phase == PhaseInRound,
		CanStart:       m.canStart(),
		IsAnalyzing:    m.phase == PhaseAnalyzing,
		IsWaiting:      m.phase.waiting() || m.phase == PhaseAwaitingResults,
		IsTyping:       m.inflight != nil,
		CurrentPlayers: len(m.roster),
		Log:            slices.Clone(m.log),
	}
	if m.results != nil {
		r := *m.results
		r.Players = slices.Clone(r.Players)
		s.Results = &r
	}
	return s
}

func (m *Machine) step(f func()) []Effect {
	f()
	m.drain()
	fx := m.fx
	m.fx = nil
	return fx
}

// drain moves queued items into the log in order. AI-authored items are
// revealed one at a time: the next item is not taken until RevealDone.
func (m *Machine) drain() {
	for m.inflight == nil && len(m.queue) > 0 {
		item := m.queue[0]
		m.queue = m.queue[1:]

		if item.FromAI {
			m.inflight = &item
			m.fx = append(m.fx, ScheduleReveal{After: m.timing.typingDelay(item.Text)})
			return
		}

		m.appendLog(item.Text, OriginSystem)
		if item.StartsRoundTimer {
			m.enterRound()
		}
	}
}

func (m *Machine) enqueue(items ...QueueItem) {
	for _, it := range items {
		if strings.TrimSpace(it.Text) == "" {
			continue
		}
		m.queue = append(m.queue, it)
	}
}

// disarmQueue stops any pending reveal from opening a round.
func (m *Machine) disarmQueue() {
	for i := range m.queue {
		m.queue[i].StartsRoundTimer = false
	}
	if m.inflight != nil {
		m.inflight.StartsRoundTimer = false
	}
}

func (m *Machine) enterRound() {
	switch m.phase {
	case PhaseBriefing:
		m.phase = PhaseInRound
		m.resetRoundClock()
		m.startTimer()
	case PhaseDisconnected:
		if m.resume == PhaseBriefing {
			m.resume = PhaseInRound
			m.resetRoundClock()
		}
	}
}

func (m *Machine) resetRoundClock() {
	m.round.Remaining = m.timing.RoundSeconds
	m.round.WarningShown = false
}

func (m *Machine) submit(decision string) {
	m.appendLog(decision, OriginPlayer)
	m.emit(event.NameSubmitDecision, event.SubmitDecision{
		RoomID:   m.params.RoomID,
		Username: m.params.Username,
		Decision: decision,
	})
	m.round.Remaining = m.timing.RoundSeconds
	m.stopTimer()
	m.phase = PhaseAwaitingResults
}

func (m *Machine) onConnected() {
	m.conn = Connection{Status: ConnConnected}

	switch m.phase {
	case PhaseConnecting:
		if m.params.IsAdmin {
			m.phase = PhaseWaitingForPlayers
		} else {
			m.phase = PhaseWaitingForAdmin
		}
	case PhaseDisconnected:
		m.phase = m.resume
		if m.phase == PhaseInRound {
			m.startTimer()
		}
	}
}

func (m *Machine) onDisconnected() {
	m.conn = Connection{Status: ConnDisconnected}

	if m.phase == PhaseDisconnected || m.phase == PhaseGameEnded || m.phase == PhaseConnecting {
		return
	}
	m.resume = m.phase
	m.stopTimer()
	m.phase = PhaseDisconnected
}

func (m *Machine) onPlayerJoined(e event.GameRoom) {
	match := joinedPattern.FindStringSubmatch(e.Message)
	if match == nil {
		return
	}
	name := match[1]
	if slices.Contains(m.roster, name) {
		return
	}
	m.roster = append(m.roster, name)
	m.fx = append(m.fx, PlayerJoined{Username: name})
}

func (m *Machine) onGameStarted(e event.GameStarted) {
	if !m.phase.waiting() {
		return
	}

	m.starting = true
	m.round.Number = 1
	m.round.CrisisScore = defaultCrisisScore
	if e.CrisisScore != nil {
		m.round.CrisisScore = *e.CrisisScore
	}

	role := defaultRole
	if r, ok := e.Roles[m.params.Username]; ok && r.RoleName != "" {
		role = r.RoleName
	}

	m.phase = PhaseBriefing
	m.enqueue(QueueItem{
		Text:             introText(e.Scenario, role, StripDecisionClause(e.NextDecisionPoint)),
		FromAI:           true,
		StartsRoundTimer: true,
	})
}

func (m *Machine) onRoundCompleted(e event.RoundCompleted) {
	if !m.phase.InGame() || e.Round <= m.lastCompleted {
		return
	}

	m.stopTimer()
	m.disarmQueue()
	m.lastCompleted = e.Round
	m.round.Number = e.Round + 1
	m.round.CrisisScore = e.CrisisScore
	m.submitted = map[string]bool{}
	m.analysisAnnounced = false
	m.phase = PhaseBriefing

	m.enqueue(
		QueueItem{Text: roundDoneText(e.Round), FromAI: true},
		QueueItem{Text: crisisText(e.CrisisScore), FromAI: true},
		QueueItem{Text: e.StoryContinuation, FromAI: true},
		QueueItem{Text: StripDecisionClause(e.NextDecisionPoint), FromAI: true, StartsRoundTimer: true},
	)
}

func (m *Machine) onDecisionSubmitted(e event.PlayerDecisionSubmitted) {
	if !m.phase.InGame() || m.submitted[e.Username] {
		return
	}
	m.submitted[e.Username] = true
	m.appendLog(submittedText(e.Username), OriginSystem)

	if e.RemainingPlayers == 0 && m.phase == PhaseAwaitingResults {
		m.phase = PhaseAnalyzing
	}
}

func (m *Machine) onAnalysisStarted(e event.AIAnalysisStarted) {
	switch m.phase {
	case PhaseInRound, PhaseAwaitingResults, PhaseAnalyzing:
	default:
		return
	}
	if m.analysisAnnounced {
		return
	}
	m.analysisAnnounced = true
	m.stopTimer()
	m.phase = PhaseAnalyzing
	m.appendLog(e.Message, OriginSystem)
}

func (m *Machine) onGameEnded(e event.GameEnded) {
	if m.results != nil || !m.phase.InGame() {
		return
	}

	m.stopTimer()
	m.disarmQueue()
	m.phase = PhaseGameEnded
	m.results = buildResults(e)

	m.appendLog(gameOverMessage, OriginSystem)
	m.appendLog(finalCrisisText(m.results.FinalCrisisScore), OriginSystem)
	m.appendLog(m.results.Summary, OriginSystem)
}

func (m *Machine) onNotification(e event.Notification) {
	m.toast(notify.LevelInfo, e.Message)

	// A refused start comes back as a plain notification.
	if m.phase == PhaseWaitingForPlayers && m.startRequested && !m.starting {
		m.startRequested = false
	}

	if !strings.Contains(e.Message, "left the room") {
		return
	}
	m.appendLog(e.Message, OriginSystem)
	if match := leftPattern.FindStringSubmatch(e.Message); match != nil {
		m.roster = slices.DeleteFunc(m.roster, func(name string) bool {
			return name == match[1] && name != m.params.Username
		})
	}
}

func (m *Machine) canStart() bool {
	return m.params.IsAdmin &&
		m.phase == PhaseWaitingForPlayers &&
		!m.startRequested &&
		len(m.roster) >= m.params.MaxPlayers
}

func (m *Machine) startTimer() {
	if m.timerRunning {
		return
	}
	m.timerRunning = true
	m.fx = append(m.fx, StartTimer{})
}

func (m *Machine) stopTimer() {
	if !m.timerRunning {
		return
	}
	m.timerRunning = false
	m.fx = append(m.fx, StopTimer{})
}

func (m *Machine) emit(name string, payload any) {
	m.fx = append(m.fx, Emit{Event: name, Payload: payload})
}

func (m *Machine) toast(level notify.Level, msg string) {
	if msg == "" {
		return
	}
	m.fx = append(m.fx, Toast{Level: level, Message: msg})
}

func (m *Machine) appendLog(text string, origin Origin) {
	if strings.TrimSpace(text) == "" {
		return
	}
	m.log = append(m.log, Entry{Text: text, Origin: origin})
}

func buildResults(e event.GameEnded) *GameResults {
	players := make([]PlayerResult, 0, len(e.PlayerScores))
	for name, s := range e.PlayerScores {
		rank := s.Rank
		if rank == 0 {
			rank = 1
		}
		players = append(players, PlayerResult{
			Username:    name,
			TotalScore:  s.TotalScore,
			Rank:        rank,
			RoundScores: s.RoundScores,
		})
	}
	slices.SortFunc(players, func(a, b PlayerResult) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		return strings.Compare(a.Username, b.Username)
	})

	summary := e.GameSummary
	if strings.TrimSpace(summary) == "" {
		summary = defaultSummary
	}

	return &GameResults{
		Players:          players,
		FinalCrisisScore: e.FinalCrisisScore,
		Summary:          summary,
	}
}
