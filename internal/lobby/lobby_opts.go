package lobby

import (
	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/session"
)

type LobbyOpt func(*Lobby)

func WithNotifier(n Notifier) LobbyOpt {
	return func(l *Lobby) {
		l.notifier = n
	}
}

// WithEntryHandler sets the callback run once the server has placed the
// player in a room.
func WithEntryHandler(f func(session.Params)) LobbyOpt {
	return func(l *Lobby) {
		l.onEnter = f
	}
}

func WithRoomsHandler(f func([]event.Room)) LobbyOpt {
	return func(l *Lobby) {
		l.onRooms = f
	}
}

// WithRoomLister sets a fallback source for the room list, used while the
// socket is down.
func WithRoomLister(r RoomLister) LobbyOpt {
	return func(l *Lobby) {
		l.lister = r
	}
}

func withRoomIDs(numeric, quick func() string) LobbyOpt {
	return func(l *Lobby) {
		l.roomID = numeric
		l.quickRoomID = quick
	}
}
