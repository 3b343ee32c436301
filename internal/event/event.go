// Package event defines the closed set of messages exchanged with the game
// server over the socket connection. Inbound payloads are decoded and
// validated here so nothing loosely typed reaches the session state.
package event

import "errors"

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrMalformed    = errors.New("malformed event payload")
)

// Inbound event names.
const (
	NameConnect                 = "connect"
	NameDisconnect              = "disconnect"
	NameConnectError            = "connect_error"
	NameGameRoom                = "game-room"
	NameRoomJoined              = "room-joined"
	NameEnteredGame             = "entered-game"
	NameNavigateToRoom          = "navigate-to-room"
	NameAvailableRooms          = "available-rooms"
	NameRoomDeleted             = "room_deleted"
	NameGameStarting            = "game_starting"
	NameGameStarted             = "game_started"
	NameRoundCompleted          = "round_completed"
	NameDecisionTimerStarted    = "decision_timer_started"
	NameGameEnded               = "game_ended"
	NamePlayerDecisionSubmitted = "player_decision_submitted"
	NameAIAnalysisStarted       = "ai_analysis_started"
	NameAIAnalysisCompleted     = "ai_analysis_completed"
	NameTimeoutNotification     = "timeout_notification"
	NameNotification            = "notification"
)

// Outbound event names.
const (
	NameJoin           = "join"
	NameStartGame      = "start_game"
	NameSubmitDecision = "submit_decision"
	NameLeave          = "leave"
	NameRooms          = "rooms"
	NameDeleteRoom     = "delete-room"
)

// RoomEvents lists the inbound events a room session listens to.
var RoomEvents = []string{
	NameConnect,
	NameDisconnect,
	NameConnectError,
	NameGameRoom,
	NameRoomJoined,
	NameEnteredGame,
	NameGameStarting,
	NameGameStarted,
	NameRoundCompleted,
	NameDecisionTimerStarted,
	NameGameEnded,
	NamePlayerDecisionSubmitted,
	NameAIAnalysisStarted,
	NameAIAnalysisCompleted,
	NameTimeoutNotification,
	NameNotification,
}

// LobbyEvents lists the inbound events the lobby listens to.
var LobbyEvents = []string{
	NameAvailableRooms,
	NameRoomDeleted,
	NameNavigateToRoom,
	NameEnteredGame,
	NameNotification,
}

// Event is implemented by every inbound variant.
type Event interface {
	Name() string
}
