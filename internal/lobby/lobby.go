// Package lobby creates, finds and joins rooms, and hands the confirmed
// room over to a session.
package lobby

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/notify"
	"github.com/pixil98/go-crisis/internal/session"
)

var ErrInvalidRoom = errors.New("invalid room")

const (
	MinPlayers = 2
	MaxPlayers = 4
)

// Transport is the part of the socket the lobby needs.
type Transport interface {
	On(name string, handler func(json.RawMessage)) (off func())
	Emit(ctx context.Context, name string, payload any) error
}

type RoomLister interface {
	Rooms(ctx context.Context) ([]event.Room, error)
}

type Notifier interface {
	Toast(level notify.Level, msg string)
}

// CreateRequest describes a themed room.
type CreateRequest struct {
	Name       string
	Theme      event.Theme
	MaxPlayers int
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return notify.NewUserError("Please enter a room name", ErrInvalidRoom)
	}
	if r.MaxPlayers < MinPlayers || r.MaxPlayers > MaxPlayers {
		return notify.NewUserError(fmt.Sprintf("Player count must be between %d and %d", MinPlayers, MaxPlayers), ErrInvalidRoom)
	}
	return nil
}

type Lobby struct {
	transport Transport
	username  string
	notifier  Notifier
	onEnter   func(session.Params)
	onRooms   func([]event.Room)
	lister    RoomLister

	roomID      func() string
	quickRoomID func() string

	mu       sync.Mutex
	rooms    []event.Room
	deleting map[string]bool
	pending  *event.NavigateToRoom
}

func NewLobby(t Transport, username string, opts ...LobbyOpt) *Lobby {
	l := &Lobby{
		transport:   t,
		username:    username,
		roomID:      numericRoomID,
		quickRoomID: uuid.NewString,
		deleting:    map[string]bool{},
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// numericRoomID returns a random five digit room code.
func numericRoomID() string {
	return strconv.Itoa(10000 + rand.IntN(90000))
}

// Watch listens for lobby events until ctx is cancelled.
func (l *Lobby) Watch(ctx context.Context) error {
	handlers := map[string]func(event.Event){
		event.NameAvailableRooms: l.onAvailableRooms,
		event.NameRoomDeleted:    l.onRoomDeleted,
		event.NameNavigateToRoom: l.onNavigate,
		event.NameEnteredGame:    l.onEnteredGame,
		event.NameNotification:   l.onNotification,
	}

	offs := make([]func(), 0, len(event.LobbyEvents))
	for _, name := range event.LobbyEvents {
		h := handlers[name]
		offs = append(offs, l.transport.On(name, func(raw json.RawMessage) {
			ev, err := event.Decode(name, raw)
			if err != nil {
				slog.WarnContext(ctx, "ignoring lobby event", "event", name, "error", err)
				return
			}
			h(ev)
		}))
	}

	<-ctx.Done()
	for _, off := range offs {
		off()
	}
	return nil
}

// CreateRoom asks the server for a new themed room and returns its code.
func (l *Lobby) CreateRoom(ctx context.Context, req CreateRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	id := l.roomID()
	theme := req.Theme
	return id, l.emit(ctx, event.NameJoin, event.Join{
		Username:   l.username,
		Room:       id,
		Option:     event.JoinCreate,
		RoomName:   strings.TrimSpace(req.Name),
		RoomTheme:  &theme,
		MaxPlayers: req.MaxPlayers,
	})
}

// QuickCreate creates an unnamed room with default settings.
func (l *Lobby) QuickCreate(ctx context.Context) (string, error) {
	id := l.quickRoomID()
	return id, l.emit(ctx, event.NameJoin, event.Join{
		Username: l.username,
		Room:     id,
		Option:   event.JoinCreate,
	})
}

func (l *Lobby) JoinRoom(ctx context.Context, roomID string) error {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" {
		return notify.NewUserError("Please enter a room code", ErrInvalidRoom)
	}
	return l.emit(ctx, event.NameJoin, event.Join{
		Username: l.username,
		Room:     roomID,
		Option:   event.JoinJoin,
	})
}

// JoinRandom asks the server to seat the player in any room with space.
func (l *Lobby) JoinRandom(ctx context.Context) error {
	return l.emit(ctx, event.NameJoin, event.Join{
		Username: l.username,
		Option:   event.JoinRandom,
	})
}

// RequestRooms asks the server for the room list. The reply arrives as an
// available-rooms event. If the socket cannot send and a RoomLister is
// set, the list is fetched over REST instead.
func (l *Lobby) RequestRooms(ctx context.Context) error {
	err := l.emit(ctx, event.NameRooms, event.Rooms{})
	if err == nil || l.lister == nil {
		return err
	}

	rooms, listErr := l.lister.Rooms(ctx)
	if listErr != nil {
		return fmt.Errorf("%w; listing rooms: %w", err, listErr)
	}
	slog.InfoContext(ctx, "listed rooms over http", "username", l.username, "rooms", len(rooms))
	l.onAvailableRooms(event.AvailableRooms{Rooms: rooms})
	return nil
}

// DeleteRoom asks the server to delete a room. Only its host may.
func (l *Lobby) DeleteRoom(ctx context.Context, roomID string) error {
	l.mu.Lock()
	l.deleting[roomID] = true
	l.mu.Unlock()

	err := l.emit(ctx, event.NameDeleteRoom, event.DeleteRoom{Room: roomID})
	if err != nil {
		l.mu.Lock()
		delete(l.deleting, roomID)
		l.mu.Unlock()
	}
	return err
}

func (l *Lobby) Deleting(roomID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deleting[roomID]
}

func (l *Lobby) Rooms() []event.Room {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.rooms)
}

// Filter returns the known rooms whose code, name or host contains query,
// ignoring case.
func (l *Lobby) Filter(query string) []event.Room {
	return FilterRooms(l.Rooms(), query)
}

func FilterRooms(rooms []event.Room, query string) []event.Room {
	fold := cases.Fold()
	q := fold.String(strings.TrimSpace(query))
	if q == "" {
		return rooms
	}

	out := make([]event.Room, 0, len(rooms))
	for _, r := range rooms {
		for _, field := range []string{r.RoomID, r.RoomName, r.Host} {
			if strings.Contains(fold.String(field), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func (l *Lobby) emit(ctx context.Context, name string, payload any) error {
	if err := l.transport.Emit(ctx, name, payload); err != nil {
		slog.ErrorContext(ctx, "emitting lobby event", "event", name, "username", l.username, "error", err)
		return fmt.Errorf("sending %s: %w", name, err)
	}
	return nil
}

func (l *Lobby) onAvailableRooms(ev event.Event) {
	rooms := ev.(event.AvailableRooms).Rooms

	l.mu.Lock()
	l.rooms = slices.Clone(rooms)
	l.mu.Unlock()

	if l.onRooms != nil {
		l.onRooms(rooms)
	}
}

func (l *Lobby) onRoomDeleted(ev event.Event) {
	e := ev.(event.RoomDeleted)

	l.mu.Lock()
	if e.RoomID != "" {
		l.rooms = slices.DeleteFunc(l.rooms, func(r event.Room) bool { return r.RoomID == e.RoomID })
		delete(l.deleting, e.RoomID)
	}
	rooms := slices.Clone(l.rooms)
	l.mu.Unlock()

	l.toast(notify.LevelWarning, e.Message)
	if e.RoomID != "" && l.onRooms != nil {
		l.onRooms(rooms)
	}
}

func (l *Lobby) onNavigate(ev event.Event) {
	e := ev.(event.NavigateToRoom)
	l.mu.Lock()
	l.pending = &e
	l.mu.Unlock()
}

// onEnteredGame completes room entry. The room details come from the
// navigate-to-room that precedes it; without one, only the code is known.
func (l *Lobby) onEnteredGame(ev event.Event) {
	e := ev.(event.EnteredGame)

	l.mu.Lock()
	nav := l.pending
	l.pending = nil
	l.mu.Unlock()

	p := session.Params{RoomID: e.RoomID, Username: l.username}
	if nav != nil && nav.Room == e.RoomID {
		p.RoomName = nav.RoomName
		p.IsAdmin = nav.Option == event.JoinCreate
		p.MaxPlayers = nav.MaxPlayers
		p.Theme = nav.RoomTheme
		if p.Theme.IntroMsg == "" {
			if t, ok := ThemeByName(p.Theme.Name); ok {
				p.Theme = t
			}
		}
	}

	slog.Info("entering room", "room", p.RoomID, "username", l.username, "admin", p.IsAdmin)
	if l.onEnter != nil {
		l.onEnter(p)
	}
}

// onNotification surfaces server replies to lobby requests. Any reply about
// deletion settles every pending delete.
func (l *Lobby) onNotification(ev event.Event) {
	msg := ev.(event.Notification).Message

	if strings.Contains(strings.ToLower(msg), "delete") {
		l.mu.Lock()
		clear(l.deleting)
		l.mu.Unlock()
	}

	level := notify.LevelInfo
	if strings.Contains(msg, "successfully") {
		level = notify.LevelSuccess
	}
	l.toast(level, msg)
}

func (l *Lobby) toast(level notify.Level, msg string) {
	if l.notifier == nil || msg == "" {
		return
	}
	l.notifier.Toast(level, msg)
}
