package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/what-should-we-play/internal/model"
)

// AppListParams holds parameters for linking owned Steam apps to a player.
type AppListParams struct {
	PlayerID   string
	PlayerName string
	AppIDs     []int
}

// UpsertSteamApps stores app metadata. Apps with a blank name or an appid that
// is already known are skipped. Returns the number of apps inserted.
func (s *SQLiteStore) UpsertSteamApps(ctx context.Context, apps []model.SteamApp) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO steam_apps (appid, name) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, a := range apps {
		if strings.TrimSpace(a.Name) == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, a.AppID, a.Name)
		if err != nil {
			return 0, fmt.Errorf("insert app %d: %w", a.AppID, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// GetSteamApp returns app metadata by appid, with the linked game id if any.
func (s *SQLiteStore) GetSteamApp(ctx context.Context, appID int) (*model.SteamApp, error) {
	var a model.SteamApp
	var gameID sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT a.appid, a.name, g.id FROM steam_apps a
		LEFT JOIN games g ON g.steam_appid = a.appid
		WHERE a.appid = ?`, appID).Scan(&a.AppID, &a.Name, &gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("steam app %d: %w", appID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	a.GameID = gameID.String
	return &a, nil
}

// AddGamesByAppID adds the games behind owned Steam apps to a player's library.
// A game is found by its linked appid first, then by name; a game found by name
// is linked to the app if it has no link yet. Unknown appids are skipped.
func (s *SQLiteStore) AddGamesByAppID(ctx context.Context, p AppListParams) (int, error) {
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
	for _, appID := range p.AppIDs {
		var name string
		err := tx.QueryRowContext(ctx, `SELECT name FROM steam_apps WHERE appid = ?`, appID).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return 0, err
		}

		gameID, err := s.gameForApp(ctx, tx, appID, name)
		if err != nil {
			return 0, err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO player_games (player_id, game_id, created_at) VALUES (?, ?, ?)`,
			p.PlayerID, gameID, now)
		if err != nil {
			return 0, fmt.Errorf("add app %d: %w", appID, err)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (s *SQLiteStore) gameForApp(ctx context.Context, tx *sql.Tx, appID int, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM games WHERE steam_appid = ?`, appID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	err = tx.QueryRowContext(ctx, `SELECT id FROM games WHERE name = ?`, name).Scan(&id)
	switch {
	case err == nil:
		_, err = tx.ExecContext(ctx,
			`UPDATE games SET steam_appid = ? WHERE id = ? AND steam_appid IS NULL`, appID, id)
		return id, err
	case !errors.Is(err, sql.ErrNoRows):
		return "", err
	}

	id = s.newID()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO games (id, name, steam_appid, created_at) VALUES (?, ?, ?, ?)`,
		id, name, appID, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("insert game: %w", err)
	}
	return id, nil
}
