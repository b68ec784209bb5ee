// Package store provides the game catalog and member library storage interface
// and its SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/what-should-we-play/internal/catalog"
	"github.com/rcliao/what-should-we-play/internal/model"
)

// ErrNotFound is returned when a player, game, group or channel does not exist.
var ErrNotFound = errors.New("not found")

// PlayerParams identifies a player. Name defaults to ID.
type PlayerParams struct {
	ID   string
	Name string
}

// ListParams holds parameters for adding or removing games on one of a
// player's lists.
type ListParams struct {
	PlayerID   string
	PlayerName string
	Games      []string
}

// MemberStore exposes the per-player sets the matcher reads.
type MemberStore interface {
	// LibraryOf returns the names of the games a player owns.
	LibraryOf(ctx context.Context, playerID string) ([]string, error)

	// BanListOf returns the names of the games a player refuses to play.
	BanListOf(ctx context.Context, playerID string) ([]string, error)
}

// Store defines the catalog and library storage interface.
type Store interface {
	MemberStore

	// EnsurePlayer creates the player if missing and refreshes the display name.
	EnsurePlayer(ctx context.Context, p PlayerParams) (*model.Player, error)

	// AddGames adds games to a player's library, creating catalog records as needed.
	// Returns the number of games newly added.
	AddGames(ctx context.Context, p ListParams) (int, error)

	// RemoveGames removes games from a library. Unknown names are ignored.
	RemoveGames(ctx context.Context, p ListParams) (int, error)

	// AddBans adds games to a player's ban list, creating catalog records as needed.
	AddBans(ctx context.Context, p ListParams) (int, error)

	// RemoveBans removes games from a ban list. Unknown names are ignored.
	RemoveBans(ctx context.Context, p ListParams) (int, error)

	// SetPlayerCount records a game's player count, creating the game if missing.
	SetPlayerCount(ctx context.Context, name string, count int) (*model.Game, error)

	// Catalog loads a read-only snapshot of every game record.
	Catalog(ctx context.Context) (*catalog.Snapshot, error)

	// Close closes the store.
	Close() error
}

var (
	_ Store       = (*SQLiteStore)(nil)
	_ MemberStore = (*SQLiteStore)(nil)
)
