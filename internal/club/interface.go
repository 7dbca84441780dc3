package club

import (
	"context"
	"errors"
)

var (
	// ErrPlayerNotFound is returned when an operation references an unknown player id.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrStorageUnavailable wraps any failure of the underlying database.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ClubStore defines the interface for interacting with the roster and match history.
type ClubStore interface {
	AddPlayer(ctx context.Context, player *Player) error
	UpdatePlayer(ctx context.Context, player *Player) error
	UpdatePlayerImage(ctx context.Context, playerID, image string) error
	DeletePlayer(ctx context.Context, playerID string) error
	GetPlayer(ctx context.Context, playerID string) (*Player, error)
	GetAllPlayers(ctx context.Context) ([]Player, error)
	GetPlayers(ctx context.Context, playerIDs []string) ([]Player, error)
	GetPlayerStats(ctx context.Context) ([]PlayerStats, error)
	// RecordMatch stores the match and applies the statistic update for every
	// player on both rosters in a single transaction.
	RecordMatch(ctx context.Context, match *Match) error
	GetAllMatches(ctx context.Context) ([]Match, error)
}
