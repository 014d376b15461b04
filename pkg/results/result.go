// Package results keeps the outcome of every finished game. Stores are fed
// by a Recorder listening for game finished events.
package results

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tecu23/duel-server/pkg/chess"
	"github.com/tecu23/duel-server/pkg/registry"
)

// DefaultLimit is used when Recent is asked for a non-positive number of results
const DefaultLimit = 20

var ErrUnknownBackend = errors.New("unknown results backend")

// Participant names one side of a finished game
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Result is one finished game as relayed. Moves were never validated.
type Result struct {
	ID        uuid.UUID             `json:"id"`
	Room      string                `json:"room"`
	White     Participant           `json:"white"`
	Black     Participant           `json:"black"`
	WinnerID  string                `json:"winner_id"`
	Moves     []registry.MoveRecord `json:"moves"`
	StartedAt time.Time             `json:"started_at"`
	EndedAt   time.Time             `json:"ended_at"`
}

// Winner returns the side of the reporting player
func (r Result) Winner() chess.Side {
	if r.WinnerID == r.Black.ID {
		return chess.Black
	}

	return chess.White
}

// FromGame converts a registry snapshot into a stored result
func FromGame(g *registry.FinishedGame) Result {
	return Result{
		ID:        uuid.New(),
		Room:      g.RoomName,
		White:     Participant{ID: g.White.ID, Username: g.White.Username},
		Black:     Participant{ID: g.Black.ID, Username: g.Black.Username},
		WinnerID:  g.WinnerID,
		Moves:     g.Moves,
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
	}
}

// Store persists results
type Store interface {
	SaveResult(ctx context.Context, r Result) error
	Recent(ctx context.Context, limit int) ([]Result, error)
	Close() error
}

// Backend names a Store implementation
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendRedis    Backend = "redis"
	BackendPostgres Backend = "postgres"
)

// Options selects and configures a store
type Options struct {
	Backend     Backend
	RedisURL    string
	DatabaseURL string
	MaxKept     int
}

// Open connects the configured backend
func Open(ctx context.Context, opts Options) (Store, error) {
	switch Backend(strings.ToLower(string(opts.Backend))) {
	case "", BackendMemory:
		return NewMemoryStore(opts.MaxKept), nil
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisURL, opts.MaxKept)
	case BackendPostgres:
		return NewPostgresStore(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}

	return limit
}
