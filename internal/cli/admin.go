package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var errPlayerCount = errors.New(`expected "<game> players: N" or --players N`)

func init() {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Catalog and group settings",
	}

	setCmd := &cobra.Command{
		Use:   "set [game]",
		Short: "Set the player count for a game",
		Long:  "Set the player count for a game, creating it if missing.\nAccepts `admin set Halo --players 16` or `admin set \"Halo players: 16\"`.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runAdminSet,
	}
	setCmd.Flags().Int("players", 0, "Player count")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List every game in the catalog",
		Run:   runAdminList,
	}

	ignoreCmd := &cobra.Command{
		Use:   "ignore-bans [group] [true|false]",
		Short: "Set whether suggestions in a group ignore ban lists by default",
		Args:  cobra.ExactArgs(2),
		Run:   runAdminIgnoreBans,
	}

	adminCmd.AddCommand(setCmd, listCmd, ignoreCmd)
	RootCmd.AddCommand(adminCmd)
}

// parsePlayerCount parses "<game> players: N". The flag name is case-insensitive.
func parsePlayerCount(s string) (string, int, error) {
	i := strings.LastIndex(strings.ToLower(s), "players:")
	if i < 0 {
		return "", 0, errPlayerCount
	}
	game := strings.TrimSpace(s[:i])
	n, err := strconv.Atoi(strings.TrimSpace(s[i+len("players:"):]))
	if err != nil || game == "" {
		return "", 0, errPlayerCount
	}
	return game, n, nil
}

func runAdminSet(cmd *cobra.Command, args []string) {
	raw := strings.Join(args, " ")
	game, players := strings.TrimSpace(raw), 0
	if cmd.Flags().Changed("players") {
		players, _ = cmd.Flags().GetInt("players")
	} else {
		var err error
		if game, players, err = parsePlayerCount(raw); err != nil {
			exitErr("admin set", err)
		}
	}
	if players < 1 {
		exitErr("admin set", fmt.Errorf("player count must be at least 1, got %d", players))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	g, err := s.SetPlayerCount(cmd.Context(), game, players)
	if err != nil {
		exitErr("set player count", err)
	}
	printJSON(g)
}

func runAdminList(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	view, err := s.Catalog(cmd.Context())
	if err != nil {
		exitErr("load catalog", err)
	}
	names := view.AllNames()
	if textOutput() {
		fmt.Printf("Games (%d): %s\n", view.Len(), strings.Join(names, ", "))
		return
	}
	printJSON(names)
}

func runAdminIgnoreBans(cmd *cobra.Command, args []string) {
	ignore, err := strconv.ParseBool(args[1])
	if err != nil {
		exitErr("ignore-bans", fmt.Errorf("expected true or false, got %q", args[1]))
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	g, err := s.SetIgnoreBans(cmd.Context(), args[0], ignore)
	if err != nil {
		exitErr("ignore-bans", err)
	}
	printJSON(g)
}
