package session

// Phase is the room lifecycle state. Gameplay flags shown by the UI are
// derived from it so contradictory combinations cannot occur.
type Phase int

const (
	PhaseConnecting Phase = iota
	PhaseWaitingForPlayers
	PhaseWaitingForAdmin
	// PhaseBriefing covers the gap between a round opening on the server and
	// its decision point finishing its reveal. The round timer is not running.
	PhaseBriefing
	PhaseInRound
	PhaseAwaitingResults
	PhaseAnalyzing
	PhaseGameEnded
	PhaseDisconnected
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseWaitingForPlayers:
		return "waiting_for_players"
	case PhaseWaitingForAdmin:
		return "waiting_for_admin"
	case PhaseBriefing:
		return "briefing"
	case PhaseInRound:
		return "in_round"
	case PhaseAwaitingResults:
		return "awaiting_results"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseGameEnded:
		return "game_ended"
	case PhaseDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// InGame reports whether a game is running and not yet over.
func (p Phase) InGame() bool {
	switch p {
	case PhaseBriefing, PhaseInRound, PhaseAwaitingResults, PhaseAnalyzing:
		return true
	}
	return false
}

func (p Phase) waiting() bool {
	return p == PhaseWaitingForPlayers || p == PhaseWaitingForAdmin
}

type ConnStatus int

const (
	ConnConnecting ConnStatus = iota
	ConnConnected
	ConnDisconnected
	ConnError
)

func (s ConnStatus) String() string {
	switch s {
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnDisconnected:
		return "disconnected"
	case ConnError:
		return "error"
	default:
		return "unknown"
	}
}

// Connection is the socket's state as last reported. Err is set only with
// ConnError.
type Connection struct {
	Status ConnStatus `json:"status"`
	Err    string     `json:"error,omitempty"`
}
