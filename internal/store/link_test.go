package store

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rcliao/what-should-we-play/internal/model"
)

func TestUpsertSteamApps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.UpsertSteamApps(ctx, []model.SteamApp{
		{AppID: 10, Name: "Counter-Strike"},
		{AppID: 20, Name: ""},
		{AppID: 10, Name: "Counter-Strike"},
		{AppID: 30, Name: "Half-Life"},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 apps, got %d", n)
	}

	n, _ = s.UpsertSteamApps(ctx, []model.SteamApp{{AppID: 30, Name: "Half-Life"}, {AppID: 40, Name: "Portal"}})
	if n != 1 {
		t.Errorf("expected only the new app, got %d", n)
	}

	if _, err := s.GetSteamApp(ctx, 20); !errors.Is(err, ErrNotFound) {
		t.Errorf("blank names are skipped, got %v", err)
	}
}

func TestAddGamesByAppID(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.UpsertSteamApps(ctx, []model.SteamApp{
		{AppID: 10, Name: "Counter-Strike"},
		{AppID: 30, Name: "Half-Life"},
	})
	// Half-Life already exists in the catalog without a link.
	s.AddGames(ctx, ListParams{PlayerID: "u2", Games: []string{"Half-Life"}})

	n, err := s.AddGamesByAppID(ctx, AppListParams{PlayerID: "u1", PlayerName: "alice", AppIDs: []int{10, 30, 999}})
	if err != nil {
		t.Fatalf("add by appid: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 games, got %d", n)
	}

	lib, _ := s.LibraryOf(ctx, "u1")
	if !reflect.DeepEqual(lib, []string{"Counter-Strike", "Half-Life"}) {
		t.Errorf("unexpected library %v", lib)
	}

	g, err := s.GetGame(ctx, "Half-Life")
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if g.SteamAppID == nil || *g.SteamAppID != 30 {
		t.Errorf("expected existing game linked to 30, got %v", g.SteamAppID)
	}

	app, err := s.GetSteamApp(ctx, 10)
	if err != nil {
		t.Fatalf("get app: %v", err)
	}
	if app.GameID == "" {
		t.Error("expected app linked to a game")
	}
}

func TestNewGameLinksUniqueSteamName(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.UpsertSteamApps(ctx, []model.SteamApp{
		{AppID: 1, Name: "Portal"},
		{AppID: 2, Name: "Doom"},
		{AppID: 3, Name: "Doom"},
	})
	s.AddGames(ctx, ListParams{PlayerID: "u1", Games: []string{"Portal", "Doom"}})

	portal, _ := s.GetGame(ctx, "Portal")
	if portal.SteamAppID == nil || *portal.SteamAppID != 1 {
		t.Errorf("expected Portal linked to 1, got %v", portal.SteamAppID)
	}
	doom, _ := s.GetGame(ctx, "Doom")
	if doom.SteamAppID != nil {
		t.Errorf("ambiguous Steam names stay unlinked, got %d", *doom.SteamAppID)
	}
}
