// Package arena keeps the world arena, the global rankings board, up to
// date.
package arena

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pixil98/go-errors"

	"github.com/pixil98/go-crisis/internal/api"
)

// Source is the part of the REST API the board reads.
type Source interface {
	Rankings(ctx context.Context) ([]api.UserStats, error)
	Stats(ctx context.Context) (*api.SystemStats, error)
}

// Standing is one ranked row of the board.
type Standing struct {
	Rank         int
	Username     string
	TotalScore   float64
	TotalGames   int
	AverageScore float64
	GamesWon     int
}

// View is the board as of its last refresh.
type View struct {
	Standings []Standing
	Stats     *api.SystemStats
	Refreshed time.Time
}

// Board is a driver.Manager that refreshes rankings and system stats on
// every tick and notifies a listener with the new view.
type Board struct {
	source   Source
	onUpdate func(View)
	now      func() time.Time

	mu   sync.Mutex
	view View
}

func NewBoard(src Source, opts ...BoardOpt) *Board {
	b := &Board{
		source: src,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Tick refreshes the board. A half that fails keeps its previous value.
func (b *Board) Tick(ctx context.Context) error {
	el := errors.NewErrorList()

	rankings, err := b.source.Rankings(ctx)
	el.Add(err)
	stats, err := b.source.Stats(ctx)
	el.Add(err)

	b.mu.Lock()
	if rankings != nil {
		b.view.Standings = Rank(rankings)
	}
	if stats != nil {
		b.view.Stats = stats
	}
	b.view.Refreshed = b.now()
	view := b.snapshot()
	b.mu.Unlock()

	if b.onUpdate != nil {
		b.onUpdate(view)
	}

	if err := el.Err(); err != nil {
		return fmt.Errorf("refreshing world arena: %w", err)
	}
	return nil
}

// View returns the board as of its last refresh.
func (b *Board) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshot()
}

func (b *Board) snapshot() View {
	v := b.view
	v.Standings = slices.Clone(v.Standings)
	return v
}

// Rank orders players by total score, highest first, ties broken by
// username, and numbers them from one.
func Rank(players []api.UserStats) []Standing {
	sorted := slices.Clone(players)
	slices.SortStableFunc(sorted, func(a, b api.UserStats) int {
		if c := cmp.Compare(b.TotalScore, a.TotalScore); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})

	out := make([]Standing, len(sorted))
	for i, p := range sorted {
		out[i] = Standing{
			Rank:         i + 1,
			Username:     p.Username,
			TotalScore:   p.TotalScore,
			TotalGames:   p.TotalGames,
			AverageScore: p.AverageScore,
			GamesWon:     p.GamesWon,
		}
	}
	return out
}
