package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/what-should-we-play/internal/catalog"
	"github.com/rcliao/what-should-we-play/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS games (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		max_players INTEGER,
		steam_appid INTEGER,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_games_steam ON games(steam_appid);

	CREATE TABLE IF NOT EXISTS players (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		online     INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS player_games (
		player_id  TEXT NOT NULL REFERENCES players(id),
		game_id    TEXT NOT NULL REFERENCES games(id),
		created_at TEXT NOT NULL,
		PRIMARY KEY (player_id, game_id)
	);
	CREATE INDEX IF NOT EXISTS idx_player_games_game ON player_games(game_id);

	CREATE TABLE IF NOT EXISTS player_bans (
		player_id  TEXT NOT NULL REFERENCES players(id),
		game_id    TEXT NOT NULL REFERENCES games(id),
		created_at TEXT NOT NULL,
		PRIMARY KEY (player_id, game_id)
	);
	CREATE INDEX IF NOT EXISTS idx_player_bans_game ON player_bans(game_id);

	CREATE TABLE IF NOT EXISTS guilds (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL UNIQUE,
		ignore_bans INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS group_members (
		group_id  TEXT NOT NULL REFERENCES guilds(id),
		player_id TEXT NOT NULL REFERENCES players(id),
		PRIMARY KEY (group_id, player_id)
	);

	CREATE TABLE IF NOT EXISTS channels (
		group_id TEXT NOT NULL REFERENCES guilds(id),
		name     TEXT NOT NULL,
		PRIMARY KEY (group_id, name)
	);

	CREATE TABLE IF NOT EXISTS channel_members (
		group_id  TEXT NOT NULL,
		channel   TEXT NOT NULL,
		player_id TEXT NOT NULL REFERENCES players(id),
		PRIMARY KEY (group_id, player_id),
		FOREIGN KEY (group_id, channel) REFERENCES channels(group_id, name)
	);

	CREATE TABLE IF NOT EXISTS steam_apps (
		appid INTEGER PRIMARY KEY,
		name  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_steam_apps_name ON steam_apps(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) EnsurePlayer(ctx context.Context, p PlayerParams) (*model.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.ensurePlayer(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetPlayer(ctx, p.ID)
}

func (s *SQLiteStore) ensurePlayer(ctx context.Context, tx *sql.Tx, p PlayerParams) error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("player id is required")
	}
	name := p.Name
	if name == "" {
		name = p.ID
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO players (id, name, online, created_at) VALUES (?, ?, 1, ?)
		 ON CONFLICT(id) DO UPDATE SET name = CASE WHEN ? != '' THEN excluded.name ELSE players.name END`,
		p.ID, name, time.Now().UTC().Format(time.RFC3339), p.Name)
	if err != nil {
		return fmt.Errorf("upsert player: %w", err)
	}
	return nil
}

// GetPlayer returns a player by id.
func (s *SQLiteStore) GetPlayer(ctx context.Context, id string) (*model.Player, error) {
	p, err := scanPlayer(s.db.QueryRowContext(ctx,
		`SELECT id, name, online, created_at FROM players WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetPresence marks a player online or offline. Offline players never
// contribute to a suggestion.
func (s *SQLiteStore) SetPresence(ctx context.Context, p PlayerParams, online bool) (*model.Player, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := s.ensurePlayer(ctx, tx, p); err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE players SET online = ? WHERE id = ?`, online, p.ID); err != nil {
		return nil, fmt.Errorf("set presence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetPlayer(ctx, p.ID)
}

// ensureGame returns the id of the named game, creating it when missing. A new
// game is linked to Steam metadata only when exactly one app carries its name.
func (s *SQLiteStore) ensureGame(ctx context.Context, tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT id FROM games WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}

	var appID sql.NullInt64
	rows, err := tx.QueryContext(ctx, `SELECT appid FROM steam_apps WHERE name = ? LIMIT 2`, name)
	if err != nil {
		return "", err
	}
	var ids []int64
	for rows.Next() {
		var a int64
		if err := rows.Scan(&a); err != nil {
			rows.Close()
			return "", err
		}
		ids = append(ids, a)
	}
	rows.Close()
	if len(ids) == 1 {
		appID = sql.NullInt64{Int64: ids[0], Valid: true}
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

func (s *SQLiteStore) SetPlayerCount(ctx context.Context, name string, count int) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("game name is required")
	}
	if count <= 0 {
		return nil, fmt.Errorf("player count must be positive, got %d", count)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	id, err := s.ensureGame(ctx, tx, name)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE games SET max_players = ? WHERE id = ?`, count, id); err != nil {
		return nil, fmt.Errorf("set player count: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.GetGame(ctx, name)
}

// GetGame returns a game by exact name.
func (s *SQLiteStore) GetGame(ctx context.Context, name string) (*model.Game, error) {
	g, err := scanGame(s.db.QueryRowContext(ctx,
		`SELECT id, name, max_players, steam_appid, created_at FROM games WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("game %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGames returns every game record ordered by name.
func (s *SQLiteStore) ListGames(ctx context.Context) ([]model.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, max_players, steam_appid, created_at FROM games ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

func (s *SQLiteStore) Catalog(ctx context.Context) (*catalog.Snapshot, error) {
	games, err := s.ListGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return catalog.NewSnapshot(games), nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(row scanner) (model.Game, error) {
	var g model.Game
	var maxPlayers, appID sql.NullInt64
	var createdAt string

	if err := row.Scan(&g.ID, &g.Name, &maxPlayers, &appID, &createdAt); err != nil {
		return g, err
	}

	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if maxPlayers.Valid {
		n := int(maxPlayers.Int64)
		g.MaxPlayers = &n
	}
	if appID.Valid {
		n := int(appID.Int64)
		g.SteamAppID = &n
	}
	return g, nil
}

func scanPlayer(row scanner) (model.Player, error) {
	var p model.Player
	var createdAt string
	if err := row.Scan(&p.ID, &p.Name, &p.Online, &createdAt); err != nil {
		return p, err
	}
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return p, nil
}
