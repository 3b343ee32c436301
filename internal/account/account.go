// Package account signs the player in and out and remembers who they are
// between runs.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goerrors "github.com/pixil98/go-errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pixil98/go-crisis/internal/api"
	"github.com/pixil98/go-crisis/internal/notify"
	"github.com/pixil98/go-crisis/internal/storage"
)

var ErrEmptyUsername = errors.New("username is required")

// profileID is the single asset the cached profile is stored under.
const profileID = "profile"

type Profile struct {
	Username  string    `json:"username"`
	Offline   bool      `json:"offline"`
	Returning bool      `json:"returning"`
	LoginAt   time.Time `json:"login_at"`
}

func (p *Profile) Validate() error {
	el := goerrors.NewErrorList()
	if p.Username == "" {
		el.Add(ErrEmptyUsername)
	}
	if p.Username != NormalizeUsername(p.Username) {
		el.Add(fmt.Errorf("username %q is not normalized", p.Username))
	}
	return el.Err()
}

// Authenticator is the server side of login and logout.
type Authenticator interface {
	Login(ctx context.Context, username string) (*api.LoginResult, error)
	Logout(ctx context.Context, username string) *api.LogoutResult
}

type Manager struct {
	auth  Authenticator
	store storage.Storer[*Profile]
	now   func() time.Time
}

func NewManager(auth Authenticator, store storage.Storer[*Profile]) *Manager {
	return &Manager{
		auth:  auth,
		store: store,
		now:   time.Now,
	}
}

// NormalizeUsername trims and lower-cases a username.
func NormalizeUsername(name string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(name))
}

// Current returns the cached profile from a previous login, if any.
func (m *Manager) Current() (*Profile, bool) {
	return m.store.Get(profileID)
}

// Login signs the player in and caches the profile. An unreachable server
// still yields an offline profile.
func (m *Manager) Login(ctx context.Context, username string) (*Profile, error) {
	username = NormalizeUsername(username)
	if username == "" {
		return nil, notify.NewUserError("Please enter a username", ErrEmptyUsername)
	}

	res, err := m.auth.Login(ctx, username)
	if err != nil {
		slog.WarnContext(ctx, "login failed", "username", username, "error", err)
		return nil, notify.NewUserError("Login failed. Please try again.", err)
	}

	p := &Profile{
		Username:  username,
		Offline:   res.Offline,
		Returning: res.IsExist,
		LoginAt:   m.now(),
	}
	if err := m.store.Save(profileID, p); err != nil {
		return nil, fmt.Errorf("caching profile: %w", err)
	}

	slog.InfoContext(ctx, "logged in", "username", username, "offline", p.Offline)
	return p, nil
}

// Logout signs the player out. The cached profile is always cleared, even
// when the server cannot be told.
func (m *Manager) Logout(ctx context.Context) error {
	p, ok := m.Current()
	if !ok {
		return nil
	}

	res := m.auth.Logout(ctx, p.Username)
	slog.InfoContext(ctx, "logged out", "username", p.Username, "offline", res.Offline)

	if err := m.store.Delete(profileID); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}
	return nil
}
