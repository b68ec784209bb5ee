package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/logging"
	"github.com/rcliao/what-should-we-play/internal/resolve"
	"github.com/rcliao/what-should-we-play/internal/store"
)

type listOp struct {
	use, short string
	// resolve runs names through the catalog resolver before storing them.
	resolve bool
	apply   func(ctx context.Context, s *store.SQLiteStore, p store.ListParams) (int, error)
	verb    string
}

var listOps = []listOp{
	{
		use: "add [games]", short: "Add comma-separated games to your library", resolve: true, verb: "added",
		apply: func(ctx context.Context, s *store.SQLiteStore, p store.ListParams) (int, error) {
			return s.AddGames(ctx, p)
		},
	},
	{
		use: "remove [games]", short: "Remove comma-separated games from your library", verb: "removed",
		apply: func(ctx context.Context, s *store.SQLiteStore, p store.ListParams) (int, error) {
			return s.RemoveGames(ctx, p)
		},
	},
	{
		use: "ban [games]", short: "Ban comma-separated games from your suggestions", resolve: true, verb: "banned",
		apply: func(ctx context.Context, s *store.SQLiteStore, p store.ListParams) (int, error) {
			return s.AddBans(ctx, p)
		},
	},
	{
		use: "unban [games]", short: "Lift bans on comma-separated games", verb: "unbanned",
		apply: func(ctx context.Context, s *store.SQLiteStore, p store.ListParams) (int, error) {
			return s.RemoveBans(ctx, p)
		},
	},
}

func init() {
	for _, op := range listOps {
		op := op
		cmd := &cobra.Command{
			Use:   op.use,
			Short: op.short,
			Args:  cobra.MinimumNArgs(1),
			Run:   func(cmd *cobra.Command, args []string) { runListOp(cmd, args, op) },
		}
		RootCmd.AddCommand(cmd)
	}
}

// listResult reports one list update.
type listResult struct {
	Games []string
	Count int
	// Unresolved joins the errors of inputs that could not be resolved. The
	// other inputs are still applied.
	Unresolved error
}

// updateList runs games through r when the operation resolves names, then
// applies the operation. A nil r stores names as typed.
func updateList(ctx context.Context, s *store.SQLiteStore, op listOp, player store.PlayerParams, games []string, r *resolve.Resolver) (*listResult, error) {
	res := &listResult{Games: games}
	if op.resolve && r != nil {
		res.Games, res.Unresolved = r.ResolveMany(ctx, player.ID, games)
	}
	if len(res.Games) == 0 {
		return res, nil
	}
	n, err := op.apply(ctx, s, store.ListParams{PlayerID: player.ID, PlayerName: player.Name, Games: res.Games})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.verb, err)
	}
	res.Count = n
	return res, nil
}

func runListOp(cmd *cobra.Command, args []string, op listOp) {
	games := splitGames(args)
	if len(games) == 0 {
		exitErr(op.verb, fmt.Errorf("no games given"))
	}
	player := requireActor()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	var r *resolve.Resolver
	if op.resolve {
		view, err := s.Catalog(ctx)
		if err != nil {
			exitErr("load catalog", err)
		}
		r = newResolver(ctx, view, player.ID, stdinLineReader(), cmd.ErrOrStderr())
	}

	res, err := updateList(ctx, s, op, player, games, r)
	if err != nil {
		exitErr(op.verb, err)
	}
	if res.Unresolved != nil {
		logging.Ctx(ctx).Warn().Err(res.Unresolved).Msg("some games were not resolved")
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", res.Unresolved)
	}

	if textOutput() {
		fmt.Printf("%s %d: %s\n", op.verb, res.Count, strings.Join(res.Games, ", "))
		return
	}
	printJSON(map[string]interface{}{"ok": true, op.verb: res.Count, "games": res.Games})
}
