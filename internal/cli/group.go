package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Group management",
	}
	groupCmd.AddCommand(
		&cobra.Command{Use: "create [name]", Short: "Create a group", Args: cobra.ExactArgs(1), Run: runGroupCreate},
		&cobra.Command{Use: "join [name]", Short: "Join a group", Args: cobra.ExactArgs(1), Run: runGroupJoin},
		&cobra.Command{Use: "leave [name]", Short: "Leave a group", Args: cobra.ExactArgs(1), Run: runGroupLeave},
		&cobra.Command{Use: "members [name]", Short: "List the members of a group", Args: cobra.ExactArgs(1), Run: runGroupMembers},
	)

	channelCmd := &cobra.Command{
		Use:   "channel",
		Short: "Channel management (voice channels of a group)",
	}
	channelCmd.PersistentFlags().StringP("group", "g", "default", "Group the channel belongs to")
	channelCmd.AddCommand(
		&cobra.Command{Use: "create [name]", Short: "Create a channel", Args: cobra.ExactArgs(1), Run: runChannelCreate},
		&cobra.Command{Use: "join [name]", Short: "Move into a channel", Args: cobra.ExactArgs(1), Run: runChannelJoin},
		&cobra.Command{Use: "leave", Short: "Leave your channel", Args: cobra.NoArgs, Run: runChannelLeave},
		&cobra.Command{Use: "list", Short: "List channels and who is in them", Args: cobra.NoArgs, Run: runChannelList},
	)

	RootCmd.AddCommand(groupCmd, channelCmd)
}

func runGroupCreate(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	g, err := s.CreateGroup(cmd.Context(), args[0])
	if err != nil {
		exitErr("create group", err)
	}
	printJSON(g)
}

func runGroupJoin(cmd *cobra.Command, args []string) {
	player := requireActor()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.JoinGroup(cmd.Context(), args[0], player); err != nil {
		exitErr("join group", err)
	}
	fmt.Printf(`{"ok":true,"group":%q,"player":%q}`+"\n", args[0], player.ID)
}

func runGroupLeave(cmd *cobra.Command, args []string) {
	player := requireActor()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.LeaveGroup(cmd.Context(), args[0], player.ID); err != nil {
		exitErr("leave group", err)
	}
	fmt.Printf(`{"ok":true,"group":%q,"player":%q}`+"\n", args[0], player.ID)
}

func runGroupMembers(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	members, err := s.GroupMembers(cmd.Context(), args[0])
	if err != nil {
		exitErr("group members", err)
	}
	printJSON(members)
}

func runChannelCreate(cmd *cobra.Command, args []string) {
	group, _ := cmd.Flags().GetString("group")
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c, err := s.CreateChannel(cmd.Context(), group, args[0])
	if err != nil {
		exitErr("create channel", err)
	}
	printJSON(c)
}

func runChannelJoin(cmd *cobra.Command, args []string) {
	group, _ := cmd.Flags().GetString("group")
	player := requireActor()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.JoinChannel(cmd.Context(), group, args[0], player); err != nil {
		exitErr("join channel", err)
	}
	fmt.Printf(`{"ok":true,"group":%q,"channel":%q,"player":%q}`+"\n", group, args[0], player.ID)
}

func runChannelLeave(cmd *cobra.Command, args []string) {
	group, _ := cmd.Flags().GetString("group")
	player := requireActor()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.LeaveChannel(cmd.Context(), group, player.ID); err != nil {
		exitErr("leave channel", err)
	}
	fmt.Printf(`{"ok":true,"group":%q,"player":%q}`+"\n", group, player.ID)
}

func runChannelList(cmd *cobra.Command, args []string) {
	group, _ := cmd.Flags().GetString("group")
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	channels, err := s.Channels(cmd.Context(), group)
	if err != nil {
		exitErr("list channels", err)
	}
	printJSON(channels)
}
