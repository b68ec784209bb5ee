package store

import (
	"context"

	"github.com/rcliao/what-should-we-play/internal/model"
)

// SearchParams holds parameters for searching the catalog.
type SearchParams struct {
	Query string
	Limit int
}

// SearchResult wraps a game with how many players own and ban it.
type SearchResult struct {
	model.Game
	Owners  int `json:"owners"`
	Banners int `json:"banners"`
}

// Search finds games whose name contains the query, case-insensitively.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.max_players, g.steam_appid, g.created_at,
		       (SELECT COUNT(*) FROM player_games pg WHERE pg.game_id = g.id),
		       (SELECT COUNT(*) FROM player_bans pb WHERE pb.game_id = g.id)
		FROM games g
		WHERE g.name LIKE ?
		ORDER BY 6 DESC, g.name
		LIMIT ?`, "%"+p.Query+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		g, err := scanGame(scanWith(rows, &r.Owners, &r.Banners))
		if err != nil {
			return nil, err
		}
		r.Game = g
		results = append(results, r)
	}
	return results, rows.Err()
}

// scanWith appends extra destinations after the ones scanGame asks for.
type extraScanner struct {
	row   scanner
	extra []interface{}
}

func scanWith(row scanner, extra ...interface{}) scanner {
	return extraScanner{row: row, extra: extra}
}

func (e extraScanner) Scan(dest ...interface{}) error {
	return e.row.Scan(append(dest, e.extra...)...)
}
