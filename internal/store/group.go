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

// CreateGroup creates a group, or returns the existing one with that name.
func (s *SQLiteStore) CreateGroup(ctx context.Context, name string) (*model.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("group name is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO guilds (id, name, ignore_bans, created_at) VALUES (?, ?, 0, ?)`,
		s.newID(), name, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert group: %w", err)
	}
	return s.GetGroup(ctx, name)
}

// GetGroup returns a group by name.
func (s *SQLiteStore) GetGroup(ctx context.Context, name string) (*model.Group, error) {
	var g model.Group
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, ignore_bans, created_at FROM guilds WHERE name = ?`, name).
		Scan(&g.ID, &g.Name, &g.IgnoreBans, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &g, nil
}

// SetIgnoreBans stores the group's default for ignoring ban lists.
func (s *SQLiteStore) SetIgnoreBans(ctx context.Context, group string, ignore bool) (*model.Group, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE guilds SET ignore_bans = ? WHERE name = ?`, ignore, group)
	if err != nil {
		return nil, fmt.Errorf("set ignore bans: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("group %q: %w", group, ErrNotFound)
	}
	return s.GetGroup(ctx, group)
}

// JoinGroup adds a player to a group.
func (s *SQLiteStore) JoinGroup(ctx context.Context, group string, p PlayerParams) error {
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.ensurePlayer(ctx, tx, p); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO group_members (group_id, player_id) VALUES (?, ?)`, g.ID, p.ID); err != nil {
		return fmt.Errorf("join group: %w", err)
	}
	return tx.Commit()
}

// LeaveGroup removes a player from a group and from any of its channels.
func (s *SQLiteStore) LeaveGroup(ctx context.Context, group, playerID string) error {
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM channel_members WHERE group_id = ? AND player_id = ?`, g.ID, playerID); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE group_id = ? AND player_id = ?`, g.ID, playerID)
	return err
}

// GroupMembers returns every member of a group, online or not.
func (s *SQLiteStore) GroupMembers(ctx context.Context, group string) ([]model.Player, error) {
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.online, p.created_at FROM players p
		INNER JOIN group_members m ON m.player_id = p.id
		WHERE m.group_id = ?
		ORDER BY p.name`, g.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []model.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CreateChannel adds a named channel to a group. Creating an existing channel is a no-op.
func (s *SQLiteStore) CreateChannel(ctx context.Context, group, name string) (*model.Channel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("channel name is required")
	}
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO channels (group_id, name) VALUES (?, ?)`, g.ID, name); err != nil {
		return nil, fmt.Errorf("insert channel: %w", err)
	}
	return &model.Channel{GroupID: g.ID, Name: name, Members: []string{}}, nil
}

// JoinChannel moves a player into a channel, joining the group if needed. A
// player is in at most one channel per group.
func (s *SQLiteStore) JoinChannel(ctx context.Context, group, channel string, p PlayerParams) error {
	if err := s.JoinGroup(ctx, group, p); err != nil {
		return err
	}
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return err
	}

	var exists int
	err = s.db.QueryRowContext(ctx,
		`SELECT 1 FROM channels WHERE group_id = ? AND name = ?`, g.ID, channel).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("channel %q: %w", channel, ErrNotFound)
	}
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO channel_members (group_id, channel, player_id) VALUES (?, ?, ?)
		 ON CONFLICT(group_id, player_id) DO UPDATE SET channel = excluded.channel`,
		g.ID, channel, p.ID)
	if err != nil {
		return fmt.Errorf("join channel: %w", err)
	}
	return nil
}

// LeaveChannel removes a player from whichever channel of the group they are in.
func (s *SQLiteStore) LeaveChannel(ctx context.Context, group, playerID string) error {
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`DELETE FROM channel_members WHERE group_id = ? AND player_id = ?`, g.ID, playerID)
	return err
}

// Channels returns a group's channels with their member ids.
func (s *SQLiteStore) Channels(ctx context.Context, group string) ([]model.Channel, error) {
	g, err := s.GetGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, cm.player_id FROM channels c
		LEFT JOIN channel_members cm ON cm.group_id = c.group_id AND cm.channel = c.name
		WHERE c.group_id = ?
		ORDER BY c.name, cm.player_id`, g.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []model.Channel
	for rows.Next() {
		var name string
		var player sql.NullString
		if err := rows.Scan(&name, &player); err != nil {
			return nil, err
		}
		if len(channels) == 0 || channels[len(channels)-1].Name != name {
			channels = append(channels, model.Channel{GroupID: g.ID, Name: name, Members: []string{}})
		}
		if player.Valid {
			last := &channels[len(channels)-1]
			last.Members = append(last.Members, player.String)
		}
	}
	return channels, rows.Err()
}
