package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath        string      `json:"db_path"`
	DBSizeBytes   int64       `json:"db_size_bytes"`
	Games         int         `json:"games"`
	GamesWithSize int         `json:"games_with_player_count"`
	Players       int         `json:"players"`
	OnlinePlayers int         `json:"online_players"`
	Groups        int         `json:"groups"`
	Channels      int         `json:"channels"`
	SteamApps     int         `json:"steam_apps"`
	TopGames      []GameStats `json:"top_games"`
}

// GameStats holds per-game counts.
type GameStats struct {
	Name    string `json:"name"`
	Owners  int    `json:"owners"`
	Banners int    `json:"banners"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath, TopGames: []GameStats{}}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&st.Games)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games WHERE max_players IS NOT NULL`).Scan(&st.GamesWithSize)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&st.Players)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM players WHERE online = 1`).Scan(&st.OnlinePlayers)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guilds`).Scan(&st.Groups)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM channels`).Scan(&st.Channels)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM steam_apps`).Scan(&st.SteamApps)

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.name,
		       (SELECT COUNT(*) FROM player_games pg WHERE pg.game_id = g.id) AS owners,
		       (SELECT COUNT(*) FROM player_bans pb WHERE pb.game_id = g.id) AS banners
		FROM games g
		ORDER BY owners DESC, g.name
		LIMIT 10`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var gs GameStats
		rows.Scan(&gs.Name, &gs.Owners, &gs.Banners)
		st.TopGames = append(st.TopGames, gs)
	}

	return st, nil
}
