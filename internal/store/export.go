package store

import (
	"context"
	"fmt"

	"github.com/rcliao/what-should-we-play/internal/model"
)

// Export is a portable snapshot of the catalog and every player's lists.
type Export struct {
	Games     []model.Game    `json:"games"`
	Libraries []model.Library `json:"libraries"`
}

// ExportAll returns every game and the libraries of every player, or of one
// player when playerID is set.
func (s *SQLiteStore) ExportAll(ctx context.Context, playerID string) (*Export, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	query := `SELECT id, name FROM players ORDER BY id`
	var args []interface{}
	if playerID != "" {
		query = `SELECT id, name FROM players WHERE id = ?`
		args = append(args, playerID)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	var libs []model.Library
	for rows.Next() {
		var l model.Library
		if err := rows.Scan(&l.PlayerID, &l.Name); err != nil {
			rows.Close()
			return nil, err
		}
		libs = append(libs, l)
	}
	rows.Close()

	for i := range libs {
		if libs[i].Games, err = s.LibraryOf(ctx, libs[i].PlayerID); err != nil {
			return nil, err
		}
		if libs[i].Bans, err = s.BanListOf(ctx, libs[i].PlayerID); err != nil {
			return nil, err
		}
	}

	if games == nil {
		games = []model.Game{}
	}
	if libs == nil {
		libs = []model.Library{}
	}
	return &Export{Games: games, Libraries: libs}, nil
}

// Import merges an export into the store. Player counts are applied to games
// that carry one; libraries and bans are added, never removed. Returns the
// number of library and ban entries added.
func (s *SQLiteStore) Import(ctx context.Context, e *Export) (int, error) {
	for _, g := range e.Games {
		if g.MaxPlayers == nil || *g.MaxPlayers <= 0 {
			continue
		}
		if _, err := s.SetPlayerCount(ctx, g.Name, *g.MaxPlayers); err != nil {
			return 0, fmt.Errorf("import %q: %w", g.Name, err)
		}
	}

	imported := 0
	for _, l := range e.Libraries {
		n, err := s.AddGames(ctx, ListParams{PlayerID: l.PlayerID, PlayerName: l.Name, Games: l.Games})
		if err != nil {
			return imported, err
		}
		imported += n
		n, err = s.AddBans(ctx, ListParams{PlayerID: l.PlayerID, PlayerName: l.Name, Games: l.Bans})
		if err != nil {
			return imported, err
		}
		imported += n
	}
	return imported, nil
}
