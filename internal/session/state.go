package session

import (
	"time"

	"github.com/pixil98/go-crisis/internal/event"
)

const (
	DefaultRoundSeconds   = 120
	DefaultWarningSeconds = 30
	DefaultTypingPerChar  = 8 * time.Millisecond
	DefaultMinTyping      = 500 * time.Millisecond

	// TimeoutDecision is submitted on the player's behalf when the round
	// timer runs out.
	TimeoutDecision = "No response provided - timeout"
)

// Timing holds the round timer and reveal pacing parameters.
type Timing struct {
	RoundSeconds   int
	WarningSeconds int
	TypingPerChar  time.Duration
	MinTyping      time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		RoundSeconds:   DefaultRoundSeconds,
		WarningSeconds: DefaultWarningSeconds,
		TypingPerChar:  DefaultTypingPerChar,
		MinTyping:      DefaultMinTyping,
	}
}

// typingDelay is how long an AI-authored text spends "typing" before it is
// appended to the log.
func (t Timing) typingDelay(text string) time.Duration {
	d := time.Duration(len([]rune(text))) * t.TypingPerChar
	if d < t.MinTyping {
		return t.MinTyping
	}
	return d
}

// Params identify one room session. They come from the lobby when the
// server confirms entry into a room.
type Params struct {
	RoomID     string      `json:"room_id"`
	RoomName   string      `json:"room_name,omitempty"`
	Username   string      `json:"username"`
	IsAdmin    bool        `json:"is_admin"`
	MaxPlayers int         `json:"max_players"`
	Theme      event.Theme `json:"theme"`
}

type Origin string

const (
	OriginAI     Origin = "ai"
	OriginPlayer Origin = "player"
	OriginSystem Origin = "system"
)

// Entry is one line of the conversation log.
type Entry struct {
	Text   string `json:"text"`
	Origin Origin `json:"origin"`
}

// QueueItem is a pending narrative reveal.
type QueueItem struct {
	Text             string
	FromAI           bool
	StartsRoundTimer bool
}

type RoundState struct {
	CrisisScore  int
	Number       int
	Remaining    int
	WarningShown bool
}

type PlayerResult struct {
	Username    string             `json:"username"`
	TotalScore  int                `json:"total_score"`
	Rank        int                `json:"rank"`
	RoundScores []event.RoundScore `json:"round_scores"`
}

// GameResults is the terminal snapshot of a finished game.
type GameResults struct {
	Players          []PlayerResult `json:"players"`
	FinalCrisisScore int            `json:"final_crisis_score"`
	Summary          string         `json:"summary"`
}

// Snapshot is a read-only view of the session handed to observers.
type Snapshot struct {
	Params         Params       `json:"params"`
	Phase          Phase        `json:"phase"`
	Conn           Connection   `json:"connection"`
	CrisisScore    int          `json:"crisis_score"`
	Round          int          `json:"round"`
	Remaining      int          `json:"remaining"`
	TimerRunning   bool         `json:"timer_running"`
	CanSubmit      bool         `json:"can_submit"`
	CanStart       bool         `json:"can_start"`
	IsAnalyzing    bool         `json:"is_analyzing"`
	IsWaiting      bool         `json:"is_waiting"`
	IsTyping       bool         `json:"is_typing"`
	CurrentPlayers int          `json:"current_players"`
	Log            []Entry      `json:"log"`
	Results        *GameResults `json:"results,omitempty"`
}
