// Package ui is the terminal front end: login, lobby screens, the room and
// the world arena.
package ui

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rivo/tview"

	"github.com/pixil98/go-crisis/internal/account"
	"github.com/pixil98/go-crisis/internal/api"
	"github.com/pixil98/go-crisis/internal/arena"
	"github.com/pixil98/go-crisis/internal/event"
	"github.com/pixil98/go-crisis/internal/lobby"
	"github.com/pixil98/go-crisis/internal/notify"
	"github.com/pixil98/go-crisis/internal/session"
)

const (
	pageLogin   = "login"
	pageHome    = "home"
	pageCreate  = "create"
	pageJoin    = "join"
	pageArena   = "arena"
	pageProfile = "profile"
	pageRoom    = "room"
	pageResults = "results"
	pageShare   = "share"
	pageConfirm = "confirm"

	DefaultToastDuration = 4 * time.Second
	leaveTimeout         = 2 * time.Second
)

// Socket is the server connection shared by the lobby and the room.
type Socket interface {
	On(name string, handler func(json.RawMessage)) (off func())
	Emit(ctx context.Context, name string, payload any) error
	Connected() bool
	Connect(ctx context.Context) error
	Reconnect(ctx context.Context) error
	SetUsername(name string)
	Close()
}

type Accounts interface {
	Current() (*account.Profile, bool)
	Login(ctx context.Context, username string) (*account.Profile, error)
	Logout(ctx context.Context) error
}

// Stats is the REST side of the server.
type Stats interface {
	UserStats(ctx context.Context, username string) (*api.UserStats, error)
	Stats(ctx context.Context) (*api.SystemStats, error)
	Leaderboard(ctx context.Context, limit int) ([]api.LeaderboardEntry, error)
	Rooms(ctx context.Context) ([]event.Room, error)
}

type activeRoom struct {
	ctrl   *session.Controller
	cancel context.CancelFunc
}

type App struct {
	app    *tview.Application
	pages  *tview.Pages
	status *tview.TextView

	accounts Accounts
	stats    Stats
	socket   Socket
	board    *arena.Board
	relay    session.Observer
	notifier *notify.Notifier
	quit     func()

	timing        session.Timing
	tickInterval  time.Duration
	toastDuration time.Duration

	login   *loginView
	home    *homeView
	create  *createView
	join    *joinView
	arena   *arenaView
	profile *profileView
	room    *roomView

	ctx context.Context

	mu          sync.Mutex
	user        *account.Profile
	lobby       *lobby.Lobby
	lobbyCancel context.CancelFunc
	active      *activeRoom
	toastGen    int
}

func NewApp(accounts Accounts, stats Stats, socket Socket, opts ...AppOpt) *App {
	a := &App{
		app:           tview.NewApplication(),
		accounts:      accounts,
		stats:         stats,
		socket:        socket,
		quit:          func() {},
		timing:        session.DefaultTiming(),
		tickInterval:  session.DefaultTickInterval,
		toastDuration: DefaultToastDuration,
		ctx:           context.Background(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.notifier = notify.NewNotifier(a.showToast)
	a.build()

	return a
}

func (a *App) build() {
	a.status = tview.NewTextView().SetDynamicColors(true)

	a.login = newLoginView(a)
	a.home = newHomeView(a)
	a.create = newCreateView(a)
	a.join = newJoinView(a)
	a.arena = newArenaView(a)
	a.profile = newProfileView(a)
	a.room = newRoomView(a)

	a.pages = tview.NewPages().
		AddPage(pageLogin, a.login.root, true, true).
		AddPage(pageHome, a.home.root, true, false).
		AddPage(pageCreate, a.create.root, true, false).
		AddPage(pageJoin, a.join.root, true, false).
		AddPage(pageArena, a.arena.root, true, false).
		AddPage(pageProfile, a.profile.root, true, false).
		AddPage(pageRoom, a.room.root, true, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.status, 1, 0, false)

	a.app.SetRoot(root, true)
}

// Start runs the terminal UI until ctx is cancelled or the player exits.
func (a *App) Start(ctx context.Context) error {
	a.ctx = ctx

	if p, ok := a.accounts.Current(); ok {
		a.signedIn(p)
	} else {
		a.show(pageLogin)
	}

	errCh := make(chan error, 1)
	go func() { errCh <- a.app.Run() }()

	var err error
	select {
	case <-ctx.Done():
		a.app.Stop()
		err = <-errCh
	case err = <-errCh:
		a.quit()
	}

	a.teardown()
	return err
}

func (a *App) exit() {
	a.app.Stop()
}

func (a *App) teardown() {
	a.mu.Lock()
	r := a.active
	a.active = nil
	a.mu.Unlock()

	if r != nil {
		ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
		r.ctrl.Leave(ctx)
		cancel()
		r.cancel()
	}

	a.stopLobby()
	a.notifier.Close()
	a.socket.Close()
}

// queue runs f on the UI goroutine and redraws.
func (a *App) queue(f func()) {
	a.app.QueueUpdateDraw(f)
}

// show switches to a page. Call it only on the UI goroutine.
func (a *App) show(page string) {
	a.pages.SwitchToPage(page)
	switch page {
	case pageLogin:
		a.app.SetFocus(a.login.root)
	case pageHome:
		a.app.SetFocus(a.home.root)
	case pageCreate:
		a.app.SetFocus(a.create.root)
	case pageJoin:
		a.join.refresh()
		a.app.SetFocus(a.join.search)
	case pageArena:
		a.arena.refresh()
		a.app.SetFocus(a.arena.table)
	case pageProfile:
		a.profile.load()
		a.app.SetFocus(a.profile.root)
	case pageRoom:
		a.app.SetFocus(a.room.input)
	}
}

func (a *App) showToast(t notify.Toast) {
	a.mu.Lock()
	a.toastGen++
	gen := a.toastGen
	a.mu.Unlock()

	a.queue(func() { a.status.SetText(toastText(t)) })

	time.AfterFunc(a.toastDuration, func() {
		a.mu.Lock()
		current := a.toastGen == gen
		a.mu.Unlock()
		if current {
			a.queue(func() { a.status.Clear() })
		}
	})
}

// fail reports err as a toast. User errors carry their own message; other
// failures are logged and shown as fallback.
func (a *App) fail(err error, fallback string) {
	var ue *notify.UserError
	if errors.As(err, &ue) {
		a.notifier.Toast(notify.LevelWarning, ue.Message)
		return
	}
	slog.Error(fallback, "error", err)
	a.notifier.Toast(notify.LevelError, fallback)
}

func (a *App) username() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.user == nil {
		return ""
	}
	return a.user.Username
}

func (a *App) currentLobby() *lobby.Lobby {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lobby
}

// doLogin runs off the UI goroutine.
func (a *App) doLogin(name string) {
	p, err := a.accounts.Login(a.ctx, name)
	if err != nil {
		a.fail(err, "Login failed. Please try again.")
		return
	}
	a.signedIn(p)
}

func (a *App) signedIn(p *account.Profile) {
	l := lobby.NewLobby(a.socket, p.Username,
		lobby.WithNotifier(a.notifier),
		lobby.WithEntryHandler(a.enterRoom),
		lobby.WithRoomsHandler(a.join.setRooms),
		lobby.WithRoomLister(a.stats),
	)

	a.mu.Lock()
	a.user = p
	a.lobby = l
	a.mu.Unlock()

	a.socket.SetUsername(p.Username)
	a.watchLobby()

	go func() {
		if err := a.socket.Connect(a.ctx); err != nil {
			slog.Warn("connecting to game server", "username", p.Username, "error", err)
			a.notifier.Toast(notify.LevelError, "Unable to reach the game server")
		}
	}()

	if p.Offline {
		a.notifier.Toast(notify.LevelWarning, "Offline mode: the game server is unavailable")
	} else if p.Returning {
		a.notifier.Toast(notify.LevelSuccess, "Welcome back, "+p.Username+"!")
	}

	a.queue(func() {
		a.home.setUser(p)
		a.show(pageHome)
	})
}

func (a *App) doLogout() {
	a.stopLobby()
	a.socket.Close()
	if err := a.accounts.Logout(a.ctx); err != nil {
		slog.Warn("clearing cached profile", "error", err)
	}

	a.mu.Lock()
	a.user = nil
	a.lobby = nil
	a.mu.Unlock()

	a.queue(func() {
		a.login.reset()
		a.show(pageLogin)
	})
}

func (a *App) watchLobby() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lobby == nil || a.lobbyCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(a.ctx)
	a.lobbyCancel = cancel
	go a.lobby.Watch(ctx)
}

func (a *App) stopLobby() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.lobbyCancel != nil {
		a.lobbyCancel()
		a.lobbyCancel = nil
	}
}

// enterRoom starts a session for the room the server placed the player in.
// It runs on the socket's read goroutine and returns once the session is
// listening, so no room event is missed.
func (a *App) enterRoom(p session.Params) {
	a.mu.Lock()
	if a.active != nil {
		a.mu.Unlock()
		slog.Warn("already in a room", "room", p.RoomID)
		return
	}

	opts := []session.ControllerOpt{
		session.WithTiming(a.timing),
		session.WithTickInterval(a.tickInterval),
		session.WithNotifier(a.notifier),
		session.WithObserver(a.room),
	}
	if a.relay != nil {
		opts = append(opts, session.WithObserver(a.relay))
	}

	ctrl := session.NewController(a.socket, p, opts...)
	ctx, cancel := context.WithCancel(a.ctx)
	a.active = &activeRoom{ctrl: ctrl, cancel: cancel}
	a.mu.Unlock()

	a.stopLobby()
	a.room.reset(p, ctrl)

	go func() {
		if err := ctrl.Start(ctx); err != nil {
			slog.Error("room session", "room", p.RoomID, "error", err)
		}
	}()

	select {
	case <-ctrl.Ready():
	case <-ctx.Done():
		return
	}

	a.queue(func() { a.show(pageRoom) })
}

// leaveRoom tells the room the player left, stops the session and returns
// to the home screen.
func (a *App) leaveRoom() {
	a.mu.Lock()
	r := a.active
	a.active = nil
	a.mu.Unlock()

	if r == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(a.ctx, leaveTimeout)
		r.ctrl.Leave(ctx)
		cancel()
		r.cancel()
		<-r.ctrl.Done()

		a.watchLobby()
		a.queue(func() {
			a.pages.RemovePage(pageResults)
			a.pages.RemovePage(pageShare)
			a.show(pageHome)
		})
	}()
}

// modal shows an overlay page on top of the current one.
func (a *App) modal(name string, p tview.Primitive) {
	a.pages.AddPage(name, p, true, true)
	a.app.SetFocus(p)
}

func (a *App) closeModal(name, back string) {
	a.pages.RemovePage(name)
	a.show(back)
}

// confirm asks a yes/no question and runs yes on confirmation.
func (a *App) confirm(text, back string, yes func()) {
	m := tview.NewModal().
		SetText(text).
		AddButtons([]string{"Yes", "No"}).
		SetDoneFunc(func(i int, _ string) {
			a.closeModal(pageConfirm, back)
			if i == 0 {
				yes()
			}
		})
	a.modal(pageConfirm, m)
}

// ArenaUpdated redraws the world arena with a refreshed board. It may be
// called from any goroutine.
func (a *App) ArenaUpdated(v arena.View) {
	a.arena.Updated(v)
}
