package cli

import (
	"github.com/spf13/cobra"
)

type resolution struct {
	Input   string `json:"input"`
	Name    string `json:"name,omitempty"`
	Outcome string `json:"outcome"`
	Stage   string `json:"stage"`
	Error   string `json:"error,omitempty"`
}

func init() {
	cmd := &cobra.Command{
		Use:   "resolve [games]",
		Short: "Resolve comma-separated names against the catalog",
		Long: "Resolve each name: exact, then case-insensitive, then prefix or suffix.\n" +
			"Ambiguous names prompt for a choice on the terminal.",
		Args: cobra.MinimumNArgs(1),
		Run:  runResolve,
	}

	RootCmd.AddCommand(cmd)
}

func runResolve(cmd *cobra.Command, args []string) {
	player := requireActor()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	ctx := cmd.Context()
	view, err := s.Catalog(ctx)
	if err != nil {
		exitErr("load catalog", err)
	}
	r := newResolver(ctx, view, player.ID, stdinLineReader(), cmd.ErrOrStderr())

	out := []resolution{}
	for _, in := range splitGames(args) {
		res, err := r.ResolveOne(ctx, player.ID, in)
		row := resolution{Input: in, Name: res.Name, Outcome: res.Outcome.String(), Stage: res.Stage.String()}
		if err != nil {
			row.Error = err.Error()
		}
		out = append(out, row)
	}
	printJSON(out)
}
