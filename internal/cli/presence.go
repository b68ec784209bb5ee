package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/logging"
	"github.com/rcliao/what-should-we-play/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:       "presence online|offline",
		Short:     "Set whether you count toward suggestions",
		Long:      "Only online players contribute their library and bans to a suggestion.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"online", "offline"},
		Run:       runPresence,
	}

	cmd.Flags().String("playing", "", "Game you started playing; it is added to your library")

	RootCmd.AddCommand(cmd)
}

func runPresence(cmd *cobra.Command, args []string) {
	playing, _ := cmd.Flags().GetString("playing")

	var online bool
	switch args[0] {
	case "online":
		online = true
	case "offline":
	default:
		exitErr("presence", fmt.Errorf("expected online or offline, got %q", args[0]))
	}

	player := requireActor()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	p, err := s.SetPresence(ctx, player, online)
	if err != nil {
		exitErr("set presence", err)
	}

	if playing != "" {
		if _, err := s.AddGames(ctx, store.ListParams{PlayerID: player.ID, Games: []string{playing}}); err != nil {
			exitErr("add playing game", err)
		}
		logging.Ctx(ctx).Info().Str("player", player.ID).Str("game", playing).Msg("started playing, added to library")
	}

	printJSON(p)
}
