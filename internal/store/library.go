package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// list tables share one shape: (player_id, game_id, created_at).
const (
	libraryTable = "player_games"
	banTable     = "player_bans"
)

func (s *SQLiteStore) LibraryOf(ctx context.Context, playerID string) ([]string, error) {
	return s.namesIn(ctx, libraryTable, playerID)
}

func (s *SQLiteStore) BanListOf(ctx context.Context, playerID string) ([]string, error) {
	return s.namesIn(ctx, banTable, playerID)
}

func (s *SQLiteStore) AddGames(ctx context.Context, p ListParams) (int, error) {
	return s.addTo(ctx, libraryTable, p)
}

func (s *SQLiteStore) RemoveGames(ctx context.Context, p ListParams) (int, error) {
	return s.removeFrom(ctx, libraryTable, p)
}

func (s *SQLiteStore) AddBans(ctx context.Context, p ListParams) (int, error) {
	return s.addTo(ctx, banTable, p)
}

func (s *SQLiteStore) RemoveBans(ctx context.Context, p ListParams) (int, error) {
	return s.removeFrom(ctx, banTable, p)
}

func (s *SQLiteStore) namesIn(ctx context.Context, table, playerID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT g.name FROM %s l
		INNER JOIN games g ON g.id = l.game_id
		WHERE l.player_id = ?
		ORDER BY g.name`, table), playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *SQLiteStore) addTo(ctx context.Context, table string, p ListParams) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if err := s.ensurePlayer(ctx, tx, PlayerParams{ID: p.PlayerID, Name: p.PlayerName}); err != nil {
		return 0, err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	added := 0
	for _, name := range p.Games {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		gameID, err := s.ensureGame(ctx, tx, name)
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx, fmt.Sprintf(
			`INSERT OR IGNORE INTO %s (player_id, game_id, created_at) VALUES (?, ?, ?)`, table),
			p.PlayerID, gameID, now)
		if err != nil {
			return 0, fmt.Errorf("add %q: %w", name, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *SQLiteStore) removeFrom(ctx context.Context, table string, p ListParams) (int, error) {
	removed := 0
	for _, name := range p.Games {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		res, err := s.db.ExecContext(ctx, fmt.Sprintf(
			`DELETE FROM %s WHERE player_id = ? AND game_id IN (SELECT id FROM games WHERE name = ?)`, table),
			p.PlayerID, name)
		if err != nil {
			return removed, fmt.Errorf("remove %q: %w", name, err)
		}
		n, _ := res.RowsAffected()
		removed += int(n)
	}
	return removed, nil
}
