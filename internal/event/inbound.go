package event

import (
	"encoding/json"
	"fmt"
)

type Connect struct{}

type Disconnect struct {
	Reason string
}

type ConnectError struct {
	Message string `json:"message"`
}

type GameRoom struct {
	Message string `json:"message"`
}

type RoomJoined struct {
	Message string `json:"message"`
}

type EnteredGame struct {
	RoomID string `json:"room_id"`
}

type NavigateToRoom struct {
	Room       string `json:"room"`
	RoomName   string `json:"room_name"`
	RoomTheme  Theme  `json:"room_theme"`
	MaxPlayers int    `json:"room_players"`
	Option     string `json:"option"`
}

type AvailableRooms struct {
	Rooms []Room `json:"rooms"`
}

type RoomDeleted struct {
	Message string `json:"message"`
	RoomID  string `json:"room_id"`
}

type GameStarting struct {
	Message string `json:"message"`
}

type GameStarted struct {
	Roles             map[string]Role `json:"roles"`
	NextDecisionPoint string          `json:"next_decision_point"`
	Scenario          string          `json:"scenario"`
	// CrisisScore is nil when the server omitted it.
	CrisisScore *int `json:"crisis_score"`
}

type RoundCompleted struct {
	Round             int    `json:"round"`
	CrisisScore       int    `json:"crisis_score"`
	StoryContinuation string `json:"story_continuation"`
	NextDecisionPoint string `json:"next_decision_point"`
}

type DecisionTimerStarted struct {
	TimeLimit int    `json:"time_limit"`
	Message   string `json:"message"`
}

type GameEnded struct {
	PlayerScores     map[string]PlayerScore `json:"player_scores"`
	FinalCrisisScore int                    `json:"final_crisis_score"`
	GameSummary      string                 `json:"game_summary"`
}

type PlayerDecisionSubmitted struct {
	Username         string `json:"username"`
	RemainingPlayers int    `json:"remaining_players"`
}

type AIAnalysisStarted struct {
	Message string `json:"message"`
}

type AIAnalysisCompleted struct {
	Message string `json:"message"`
}

type TimeoutNotification struct {
	Message      string `json:"message"`
	TimeoutCount int    `json:"timeout_count"`
}

type Notification struct {
	Message string `json:"message"`
}

func (Connect) Name() string                 { return NameConnect }
func (Disconnect) Name() string              { return NameDisconnect }
func (ConnectError) Name() string            { return NameConnectError }
func (GameRoom) Name() string                { return NameGameRoom }
func (RoomJoined) Name() string              { return NameRoomJoined }
func (EnteredGame) Name() string             { return NameEnteredGame }
func (NavigateToRoom) Name() string          { return NameNavigateToRoom }
func (AvailableRooms) Name() string          { return NameAvailableRooms }
func (RoomDeleted) Name() string             { return NameRoomDeleted }
func (GameStarting) Name() string            { return NameGameStarting }
func (GameStarted) Name() string             { return NameGameStarted }
func (RoundCompleted) Name() string          { return NameRoundCompleted }
func (DecisionTimerStarted) Name() string    { return NameDecisionTimerStarted }
func (GameEnded) Name() string               { return NameGameEnded }
func (PlayerDecisionSubmitted) Name() string { return NamePlayerDecisionSubmitted }
func (AIAnalysisStarted) Name() string       { return NameAIAnalysisStarted }
func (AIAnalysisCompleted) Name() string     { return NameAIAnalysisCompleted }
func (TimeoutNotification) Name() string     { return NameTimeoutNotification }
func (Notification) Name() string            { return NameNotification }

// Role is a player's assigned part in the scenario.
type Role struct {
	RoleName    string `json:"role_name"`
	Description string `json:"description,omitempty"`
}

// RoundScore is one round of a player's score breakdown.
type RoundScore struct {
	Round               int `json:"round"`
	Creativity          int `json:"creativity"`
	HelpingNature       int `json:"helping_nature"`
	TeamStrategy        int `json:"team_strategy"`
	RoleAppropriateness int `json:"role_appropriateness"`
	TotalRoundScore     int `json:"total_round_score"`
}

type PlayerScore struct {
	TotalScore  int          `json:"total_score"`
	Rank        int          `json:"rank"`
	RoundScores []RoundScore `json:"round_scores"`
}

// Theme describes a room's scenario setting.
type Theme struct {
	ID       int    `json:"id,omitempty"`
	Name     string `json:"name"`
	Emoji    string `json:"emoji,omitempty"`
	IntroMsg string `json:"intro_msg,omitempty"`
}

// UnmarshalJSON accepts either a theme object or a bare theme name.
func (t *Theme) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*t = Theme{Name: name}
		return nil
	}

	type plain Theme
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decoding theme: %w", err)
	}
	*t = Theme(p)
	return nil
}

// Room is an entry of the server's room listing.
type Room struct {
	RoomID     string `json:"room_id"`
	RoomSize   int    `json:"room_size"`
	MaxPlayers int    `json:"max_players"`
	RoomName   string `json:"room_name"`
	Theme      Theme  `json:"theme"`
	Host       string `json:"host"`
}
