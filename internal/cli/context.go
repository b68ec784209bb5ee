package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Show who counts toward a suggestion right now",
		Long:  "Show the online, non-ignored members of a group and of each of its channels.",
		Run:   runRoster,
	}

	cmd.Flags().StringP("group", "g", "default", "Group to inspect")

	RootCmd.AddCommand(cmd)
}

func runRoster(cmd *cobra.Command, args []string) {
	group, _ := cmd.Flags().GetString("group")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	r, err := s.Roster(ctx, store.RosterParams{Group: group, Ignore: cfg.Suggest.IgnoreMembers})
	if err != nil {
		exitErr("roster", err)
	}
	channels, err := s.Channels(ctx, group)
	if err != nil {
		exitErr("channels", err)
	}

	subgroups := make(map[string][]string, len(channels))
	for _, c := range channels {
		members, _ := r.Subgroup(c.Name)
		subgroups[c.Name] = members
	}

	printJSON(map[string]interface{}{
		"group":       group,
		"ignore_bans": r.IgnoreBans,
		"members":     r.Members(),
		"channels":    subgroups,
	})
}
