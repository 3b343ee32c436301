// Package api is the client for the game server's REST endpoints.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-crisis/internal/event"
)

var ErrNotFound = errors.New("not found")

const (
	DefaultRequestTimeout   = 10 * time.Second
	DefaultHealthTTL        = 30 * time.Second
	DefaultLeaderboardLimit = 10
)

// StatusError is a non-2xx reply.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server replied %d", e.Code)
	}
	return fmt.Sprintf("server replied %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	healthTTL time.Duration
	now       func() time.Time

	mu          sync.Mutex
	online      bool
	lastHealthy time.Time
}

func NewClient(baseURL string, opts ...ClientOpt) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported api url scheme %q", u.Scheme)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultRequestTimeout},
		healthTTL: DefaultHealthTTL,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

type LoginResult struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	IsExist  bool   `json:"is_exist"`
	Username string `json:"username"`
	Offline  bool   `json:"offline,omitempty"`
}

type LogoutResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Offline bool   `json:"offline,omitempty"`
}

type UserStats struct {
	Username     string   `json:"username"`
	TotalScore   float64  `json:"total_score"`
	TotalGames   int      `json:"total_games"`
	AverageScore float64  `json:"average_score"`
	GamesWon     int      `json:"games_won"`
	LastPlayed   *string  `json:"last_played"`
	Achievements []string `json:"achievements"`
	LastActive   *string  `json:"lastActive"`
}

type LeaderboardEntry struct {
	Username     string  `json:"username"`
	TotalScore   float64 `json:"total_score"`
	AverageScore float64 `json:"average_score"`
	GamesWon     int     `json:"games_won"`
}

type SystemStats struct {
	TotalUsers  int    `json:"total_users"`
	TotalRooms  int    `json:"total_rooms"`
	ActiveGames int    `json:"active_games"`
	Timestamp   string `json:"timestamp"`
}

type Health struct {
	Success   bool              `json:"success"`
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func offlineLogin(username string) *LoginResult {
	return &LoginResult{
		Success:  true,
		Message:  "Login successful (offline mode)",
		Username: username,
		Offline:  true,
	}
}

// Login registers or signs in username. When the server is unreachable or
// failing, the login still succeeds in offline mode.
func (c *Client) Login(ctx context.Context, username string) (*LoginResult, error) {
	if !c.healthy(ctx) {
		return offlineLogin(username), nil
	}

	var res LoginResult
	err := c.do(ctx, http.MethodPost, "/login", map[string]string{"username": username}, &res)
	if err != nil {
		if unavailable(err) {
			slog.WarnContext(ctx, "login falling back to offline mode", "username", username, "error", err)
			return offlineLogin(username), nil
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if res.Username == "" {
		res.Username = username
	}
	return &res, nil
}

// Logout never fails: the player is always signed out locally.
func (c *Client) Logout(ctx context.Context, username string) *LogoutResult {
	offline := &LogoutResult{Success: true, Message: "Logout successful (offline mode)", Offline: true}
	if !c.healthy(ctx) {
		return offline
	}

	var res LogoutResult
	err := c.do(ctx, http.MethodPost, "/logout", map[string]string{"username": username}, &res)
	switch {
	case err == nil:
		return &res
	case unavailable(err) || errors.Is(err, ErrNotFound):
		return offline
	default:
		slog.WarnContext(ctx, "logout request failed", "username", username, "error", err)
		return &LogoutResult{Success: true, Message: "Logout completed"}
	}
}

func (c *Client) UserStats(ctx context.Context, username string) (*UserStats, error) {
	var res struct {
		UserStats *UserStats `json:"user_stats"`
	}
	if err := c.get(ctx, "/api/user/"+url.PathEscape(username), &res); err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", username, err)
	}
	if res.UserStats == nil {
		return nil, fmt.Errorf("fetching user %s: %w", username, ErrNotFound)
	}
	return res.UserStats, nil
}

func (c *Client) Rankings(ctx context.Context) ([]UserStats, error) {
	var res struct {
		Data []UserStats `json:"data"`
	}
	if err := c.get(ctx, "/api/rankings", &res); err != nil {
		return nil, fmt.Errorf("fetching rankings: %w", err)
	}
	return res.Data, nil
}

// Leaderboard returns the top players. Limits outside 1..100 fall back to
// the default.
func (c *Client) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = DefaultLeaderboardLimit
	}
	var res struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.get(ctx, "/api/leaderboard?limit="+strconv.Itoa(limit), &res); err != nil {
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}
	return res.Leaderboard, nil
}

func (c *Client) Rooms(ctx context.Context) ([]event.Room, error) {
	var res struct {
		Rooms []event.Room `json:"rooms"`
	}
	if err := c.get(ctx, "/api/rooms", &res); err != nil {
		return nil, fmt.Errorf("fetching rooms: %w", err)
	}
	return res.Rooms, nil
}

func (c *Client) RoomInfo(ctx context.Context, roomID string) (*event.Room, error) {
	var res struct {
		RoomInfo *event.Room `json:"room_info"`
	}
	if err := c.get(ctx, "/api/rooms/"+url.PathEscape(roomID), &res); err != nil {
		return nil, fmt.Errorf("fetching room %s: %w", roomID, err)
	}
	if res.RoomInfo == nil {
		return nil, fmt.Errorf("fetching room %s: %w", roomID, ErrNotFound)
	}
	return res.RoomInfo, nil
}

func (c *Client) Stats(ctx context.Context) (*SystemStats, error) {
	var res struct {
		Stats SystemStats `json:"stats"`
	}
	if err := c.get(ctx, "/api/stats", &res); err != nil {
		return nil, fmt.Errorf("fetching stats: %w", err)
	}
	return &res.Stats, nil
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var res Health
	if err := c.get(ctx, "/api/health", &res); err != nil {
		return nil, fmt.Errorf("checking health: %w", err)
	}
	return &res, nil
}

// healthy reports whether the server answered its health check. A positive
// answer is reused for the health TTL; a negative one is always re-checked.
func (c *Client) healthy(ctx context.Context) bool {
	c.mu.Lock()
	if c.online && c.now().Sub(c.lastHealthy) < c.healthTTL {
		c.mu.Unlock()
		return true
	}
	c.mu.Unlock()

	_, err := c.Health(ctx)
	online := err == nil
	if !online {
		slog.DebugContext(ctx, "api server offline", "error", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.online = online
	c.lastHealthy = c.now()
	return online
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// envelope is the common reply wrapper. Replies carrying success=false are
// treated as failures even with a 2xx status.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("building request path: %w", err)
	}
	u := *c.baseURL
	u.Path += ref.Path
	u.RawQuery = ref.RawQuery

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	_ = json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Message: env.Error}
	}
	if env.Success != nil && !*env.Success {
		return &StatusError{Code: resp.StatusCode, Message: env.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// unavailable reports whether err means the server could not serve the
// request at all, as opposed to rejecting it.
func unavailable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return true
}
