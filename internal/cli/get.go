package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "get [player]",
		Short: "Show a player with their games and bans",
		Args:  cobra.MaximumNArgs(1),
		Run:   runGet,
	}

	cmd.Flags().String("game", "", "Show a catalog game instead of a player")

	RootCmd.AddCommand(cmd)
}

func runGet(cmd *cobra.Command, args []string) {
	game, _ := cmd.Flags().GetString("game")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	if game != "" {
		g, err := s.GetGame(ctx, game)
		if err != nil {
			exitErr("get game", err)
		}
		printJSON(g)
		return
	}

	id := requireActor().ID
	if len(args) > 0 {
		id = args[0]
	}
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		exitErr("get player", err)
	}
	games, err := s.LibraryOf(ctx, id)
	if err != nil {
		exitErr("load library", err)
	}
	bans, err := s.BanListOf(ctx, id)
	if err != nil {
		exitErr("load bans", err)
	}

	printJSON(map[string]interface{}{
		"player": p,
		"games":  games,
		"bans":   bans,
	})
}
