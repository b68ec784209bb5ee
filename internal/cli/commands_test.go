package cli

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/rcliao/what-should-we-play/internal/browse"
	"github.com/rcliao/what-should-we-play/internal/match"
	"github.com/rcliao/what-should-we-play/internal/store"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// seedFriends builds a group of three with libraries {A,B,C}, {B,C,D} and {B,C}.
func seedFriends(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.CreateGroup(ctx, "friends"); err != nil {
		t.Fatalf("create group: %v", err)
	}
	libs := map[string][]string{
		"u1": {"A", "B", "C"},
		"u2": {"B", "C", "D"},
		"u3": {"B", "C"},
	}
	for id, games := range libs {
		if err := s.JoinGroup(ctx, "friends", store.PlayerParams{ID: id}); err != nil {
			t.Fatalf("join group: %v", err)
		}
		if _, err := s.AddGames(ctx, store.ListParams{PlayerID: id, Games: games}); err != nil {
			t.Fatalf("add games: %v", err)
		}
	}
}

func sorted(games []string) []string {
	out := append([]string(nil), games...)
	sort.Strings(out)
	return out
}

func TestSuggestExplicitCount(t *testing.T) {
	s := newTestStore(t)
	seedFriends(t, s)

	res, err := suggest(context.Background(), s, suggestParams{Group: "friends", Target: "4", Cap: 5})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !reflect.DeepEqual(sorted(res.Games), []string{"B", "C"}) {
		t.Errorf("expected B and C, got %v", res.Games)
	}
	if res.PlayerCount != 4 || res.Cap != 5 || res.Target != "4" {
		t.Errorf("unexpected suggestion %+v", res)
	}
}

func TestSuggestBans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFriends(t, s)
	s.AddBans(ctx, store.ListParams{PlayerID: "u1", Games: []string{"C"}})

	res, _ := suggest(ctx, s, suggestParams{Group: "friends", Cap: 5})
	if !reflect.DeepEqual(res.Games, []string{"B"}) {
		t.Errorf("expected the ban to drop C, got %v", res.Games)
	}
	if res.PlayerCount != 3 {
		t.Errorf("whole group should count 3 players, got %d", res.PlayerCount)
	}

	if _, err := s.SetIgnoreBans(ctx, "friends", true); err != nil {
		t.Fatalf("set ignore bans: %v", err)
	}
	res, _ = suggest(ctx, s, suggestParams{Group: "friends", Cap: 5})
	if !res.IgnoreBans || !reflect.DeepEqual(sorted(res.Games), []string{"B", "C"}) {
		t.Errorf("group default should ignore bans, got %+v", res)
	}

	honour := false
	res, _ = suggest(ctx, s, suggestParams{Group: "friends", Cap: 5, IgnoreBans: &honour})
	if res.IgnoreBans || !reflect.DeepEqual(res.Games, []string{"B"}) {
		t.Errorf("request flag should override the group default, got %+v", res)
	}
}

func TestSuggestChannelWithoutGames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFriends(t, s)

	s.CreateChannel(ctx, "friends", "Duo")
	s.JoinChannel(ctx, "friends", "Duo", store.PlayerParams{ID: "u1"})
	s.JoinChannel(ctx, "friends", "Duo", store.PlayerParams{ID: "u2"})
	s.SetPlayerCount(ctx, "B", 1)
	s.SetPlayerCount(ctx, "C", 1)

	res, err := suggest(ctx, s, suggestParams{Group: "friends", Target: "Duo", Cap: 5})
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if len(res.Games) != 0 {
		t.Errorf("expected no games, got %v", res.Games)
	}
	if got := res.Message(); got != "No compatible games for player count of 2" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestSuggestUnknownChannel(t *testing.T) {
	s := newTestStore(t)
	seedFriends(t, s)

	_, err := suggest(context.Background(), s, suggestParams{Group: "friends", Target: "Lobby", Cap: 5})
	if !errors.Is(err, match.ErrInvalidChannelSelection) {
		t.Errorf("expected ErrInvalidChannelSelection, got %v", err)
	}
}

func TestSuggestOfflineMembersDoNotCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedFriends(t, s)
	s.SetPresence(ctx, store.PlayerParams{ID: "u3"}, false)

	res, _ := suggest(ctx, s, suggestParams{Group: "friends", Cap: 5, Ignore: []string{"u2"}})
	if !reflect.DeepEqual(sorted(res.Games), []string{"A", "B", "C"}) || res.PlayerCount != 1 {
		t.Errorf("expected only u1's library, got %+v", res)
	}
}

func TestUpdateListResolvesNames(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddGames(ctx, store.ListParams{PlayerID: "u2", Games: []string{"Halo", "Street Fighter", "Strike"}})

	view, err := s.Catalog(ctx)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	var prompts bytes.Buffer
	r := newResolver(ctx, view, "u1", newLineReader(strings.NewReader("2\n")), &prompts)

	add := listOps[0]
	res, err := updateList(ctx, s, add, store.PlayerParams{ID: "u1"}, []string{"halo", "str", "Brand New"}, r)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if res.Unresolved != nil {
		t.Errorf("unexpected unresolved inputs: %v", res.Unresolved)
	}
	if res.Count != 3 {
		t.Errorf("expected 3 games added, got %d", res.Count)
	}

	lib, _ := s.LibraryOf(ctx, "u1")
	if !reflect.DeepEqual(lib, []string{"Brand New", "Halo", "Strike"}) {
		t.Errorf("unexpected library %v", lib)
	}
}

func TestUpdateListRemovesAsTyped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddGames(ctx, store.ListParams{PlayerID: "u1", Games: []string{"Halo", "Doom"}})

	remove := listOps[1]
	res, err := updateList(ctx, s, remove, store.PlayerParams{ID: "u1"}, []string{"Halo"}, nil)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if res.Count != 1 {
		t.Errorf("expected 1 game removed, got %d", res.Count)
	}
	lib, _ := s.LibraryOf(ctx, "u1")
	if !reflect.DeepEqual(lib, []string{"Doom"}) {
		t.Errorf("unexpected library %v", lib)
	}
}

func TestListOtherPlayersBans(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.AddGames(ctx, store.ListParams{PlayerID: "bob", Games: []string{"Halo"}})
	s.AddBans(ctx, store.ListParams{PlayerID: "bob", Games: []string{"Dota 2"}})

	b, err := openBrowser(ctx, s, "alice", "bob")
	if err != nil {
		t.Fatalf("open browser: %v", err)
	}
	v, err := renderOnce(b, "alice", 1, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if v.Mode != browse.Secondary || !strings.HasPrefix(v.Rows[0], "Dota 2") {
		t.Errorf("expected bob's bans, got %+v", v)
	}
}
