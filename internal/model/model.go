// Package model defines the records shared by the store and the command layer.
package model

import "time"

// Game is a canonical catalog entry.
type Game struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	MaxPlayers *int      `json:"max_players,omitempty"`
	SteamAppID *int      `json:"steam_app_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Player is a group member with a personal library and ban list.
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Online    bool      `json:"online"`
	CreatedAt time.Time `json:"created_at"`
}

// Group is a set of players who look for games together (a guild).
type Group struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IgnoreBans bool      `json:"ignore_bans"`
	CreatedAt  time.Time `json:"created_at"`
}

// Channel is a named subgroup of a Group, such as a voice channel.
type Channel struct {
	GroupID string   `json:"group_id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

// SteamApp is catalog metadata from the Steam app list. Names are not unique.
type SteamApp struct {
	AppID  int    `json:"appid"`
	Name   string `json:"name"`
	GameID string `json:"game_id,omitempty"`
}

// Library is a portable snapshot of one player's games and bans, used by export and import.
type Library struct {
	PlayerID string   `json:"player_id"`
	Name     string   `json:"name"`
	Games    []string `json:"games"`
	Bans     []string `json:"bans,omitempty"`
}
