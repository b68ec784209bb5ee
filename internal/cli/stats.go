package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show catalog and database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if !textOutput() {
		printJSON(st)
		return
	}
	fmt.Printf("%d games (%d with a player count), %d players (%d online), %d groups, %d channels, %d steam apps\n",
		st.Games, st.GamesWithSize, st.Players, st.OnlinePlayers, st.Groups, st.Channels, st.SteamApps)
	for _, g := range st.TopGames {
		fmt.Printf("  %-40s owners %d  bans %d\n", g.Name, g.Owners, g.Banners)
	}
}
