package store

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAddAndLibraryOf(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	n, err := s.AddGames(ctx, ListParams{PlayerID: "u1", PlayerName: "alice", Games: []string{"Halo", " Portal ", "", "Halo"}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 added, got %d", n)
	}

	lib, err := s.LibraryOf(ctx, "u1")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if !reflect.DeepEqual(lib, []string{"Halo", "Portal"}) {
		t.Errorf("unexpected library %v", lib)
	}

	p, err := s.GetPlayer(ctx, "u1")
	if err != nil {
		t.Fatalf("get player: %v", err)
	}
	if p.Name != "alice" || !p.Online {
		t.Errorf("unexpected player %+v", p)
	}

	// Adding again is idempotent.
	n, _ = s.AddGames(ctx, ListParams{PlayerID: "u1", Games: []string{"Halo"}})
	if n != 0 {
		t.Errorf("expected 0 added, got %d", n)
	}
	p, _ = s.GetPlayer(ctx, "u1")
	if p.Name != "alice" {
		t.Errorf("empty name should keep %q, got %q", "alice", p.Name)
	}
}

func TestRemoveGames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddGames(ctx, ListParams{PlayerID: "u1", Games: []string{"Halo", "Portal"}})
	n, err := s.RemoveGames(ctx, ListParams{PlayerID: "u1", Games: []string{"Halo", "Unknown"}})
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}

	lib, _ := s.LibraryOf(ctx, "u1")
	if !reflect.DeepEqual(lib, []string{"Portal"}) {
		t.Errorf("unexpected library %v", lib)
	}

	// The catalog keeps the record.
	if _, err := s.GetGame(ctx, "Halo"); err != nil {
		t.Errorf("game should survive removal: %v", err)
	}
}

func TestBans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddBans(ctx, ListParams{PlayerID: "u1", Games: []string{"Dota 2", "League"}})
	s.RemoveBans(ctx, ListParams{PlayerID: "u1", Games: []string{"League"}})

	bans, err := s.BanListOf(ctx, "u1")
	if err != nil {
		t.Fatalf("bans: %v", err)
	}
	if !reflect.DeepEqual(bans, []string{"Dota 2"}) {
		t.Errorf("unexpected bans %v", bans)
	}

	lib, _ := s.LibraryOf(ctx, "u1")
	if len(lib) != 0 {
		t.Errorf("bans must not touch the library, got %v", lib)
	}
}

func TestLibraryOfUnknownPlayer(t *testing.T) {
	s := newTestStore(t)
	lib, err := s.LibraryOf(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("library: %v", err)
	}
	if lib == nil || len(lib) != 0 {
		t.Errorf("expected empty non-nil library, got %#v", lib)
	}
}

func TestSetPlayerCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	g, err := s.SetPlayerCount(ctx, "Among Us", 10)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if g.MaxPlayers == nil || *g.MaxPlayers != 10 {
		t.Errorf("expected 10 players, got %v", g.MaxPlayers)
	}

	g, _ = s.SetPlayerCount(ctx, "Among Us", 15)
	if *g.MaxPlayers != 15 {
		t.Errorf("expected update to 15, got %d", *g.MaxPlayers)
	}

	if _, err := s.SetPlayerCount(ctx, "Among Us", 0); err == nil {
		t.Error("expected error for zero count")
	}
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.AddGames(ctx, ListParams{PlayerID: "u1", Games: []string{"Halo", "Doom"}})
	s.SetPlayerCount(ctx, "Halo", 16)

	snap, err := s.Catalog(ctx)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !reflect.DeepEqual(snap.AllNames(), []string{"Doom", "Halo"}) {
		t.Errorf("unexpected names %v", snap.AllNames())
	}
	if n, ok := snap.PlayerCountHint("Halo"); !ok || n != 16 {
		t.Errorf("expected hint 16, got %d %v", n, ok)
	}
	if _, ok := snap.PlayerCountHint("Doom"); ok {
		t.Error("Doom has no recorded count")
	}
}

func TestGetNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.GetGame(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetPlayer(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetGroup(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetPresence(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	p, err := s.SetPresence(ctx, PlayerParams{ID: "u1", Name: "alice"}, false)
	if err != nil {
		t.Fatalf("presence: %v", err)
	}
	if p.Online {
		t.Error("expected offline")
	}
	p, _ = s.SetPresence(ctx, PlayerParams{ID: "u1"}, true)
	if !p.Online || p.Name != "alice" {
		t.Errorf("unexpected player %+v", p)
	}
}

func TestEnsurePlayerRequiresID(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.EnsurePlayer(context.Background(), PlayerParams{ID: " "}); err == nil {
		t.Error("expected error for blank id")
	}
}
