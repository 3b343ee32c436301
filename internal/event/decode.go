package event

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode turns a named event with its raw JSON payload into one of the
// inbound variants. Unknown names yield ErrUnknownEvent, payloads that fail
// to decode or lack required fields yield ErrMalformed.
func Decode(name string, raw json.RawMessage) (Event, error) {
	switch name {
	case NameConnect:
		return Connect{}, nil
	case NameDisconnect:
		var reason string
		_ = json.Unmarshal(raw, &reason)
		return Disconnect{Reason: reason}, nil
	case NameConnectError:
		ev, err := decodeInto[ConnectError](name, raw)
		if err != nil {
			return nil, err
		}
		if ev.Message == "" {
			ev.Message = "Failed to connect to server"
		}
		return ev, nil
	case NameGameRoom:
		return requireMessage[GameRoom](name, raw, func(e GameRoom) string { return e.Message })
	case NameRoomJoined:
		return decode[RoomJoined](name, raw)
	case NameEnteredGame:
		return decode[EnteredGame](name, raw)
	case NameNavigateToRoom:
		ev, err := decodeInto[NavigateToRoom](name, raw)
		if err != nil {
			return nil, err
		}
		if ev.Room == "" {
			return nil, fmt.Errorf("%w: %s: room is required", ErrMalformed, name)
		}
		return ev, nil
	case NameAvailableRooms:
		return decode[AvailableRooms](name, raw)
	case NameRoomDeleted:
		return decode[RoomDeleted](name, raw)
	case NameGameStarting:
		return decode[GameStarting](name, raw)
	case NameGameStarted:
		ev, err := decodeInto[GameStarted](name, raw)
		if err != nil {
			return nil, err
		}
		if ev.Scenario == "" && ev.NextDecisionPoint == "" {
			return nil, fmt.Errorf("%w: %s: scenario or next_decision_point is required", ErrMalformed, name)
		}
		return ev, nil
	case NameRoundCompleted:
		ev, err := decodeInto[RoundCompleted](name, raw)
		if err != nil {
			return nil, err
		}
		if ev.Round < 1 {
			return nil, fmt.Errorf("%w: %s: round must be positive", ErrMalformed, name)
		}
		return ev, nil
	case NameDecisionTimerStarted:
		return decode[DecisionTimerStarted](name, raw)
	case NameGameEnded:
		return decode[GameEnded](name, raw)
	case NamePlayerDecisionSubmitted:
		return requireMessage[PlayerDecisionSubmitted](name, raw, func(e PlayerDecisionSubmitted) string { return e.Username })
	case NameAIAnalysisStarted:
		return decode[AIAnalysisStarted](name, raw)
	case NameAIAnalysisCompleted:
		return decode[AIAnalysisCompleted](name, raw)
	case NameTimeoutNotification:
		return decode[TimeoutNotification](name, raw)
	case NameNotification:
		return requireMessage[Notification](name, raw, func(e Notification) string { return e.Message })
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

func decodeInto[T Event](name string, raw json.RawMessage) (T, error) {
	var ev T
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ev, fmt.Errorf("%w: %s: empty payload", ErrMalformed, name)
	}
	if raw[0] != '{' {
		return ev, fmt.Errorf("%w: %s: payload is not an object", ErrMalformed, name)
	}
	if err := json.Unmarshal(raw, &ev); err != nil {
		return ev, fmt.Errorf("%w: %s: %v", ErrMalformed, name, err)
	}
	return ev, nil
}

func decode[T Event](name string, raw json.RawMessage) (Event, error) {
	ev, err := decodeInto[T](name, raw)
	if err != nil {
		return nil, err
	}
	return ev, nil
}

func requireMessage[T Event](name string, raw json.RawMessage, field func(T) string) (Event, error) {
	ev, err := decodeInto[T](name, raw)
	if err != nil {
		return nil, err
	}
	if field(ev) == "" {
		return nil, fmt.Errorf("%w: %s: required field missing", ErrMalformed, name)
	}
	return ev, nil
}
