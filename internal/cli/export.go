package cli

import (
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog and libraries as JSON",
		Long:  "Export every game and every player's games and bans. Limit to one player with --only.",
		Run:   runExport,
	}

	cmd.Flags().String("only", "", "Only export this player's library")

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	only, _ := cmd.Flags().GetString("only")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	exp, err := s.ExportAll(cmd.Context(), only)
	if err != nil {
		exitErr("export", err)
	}

	printJSON(exp)
}
