package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/logging"
	"github.com/rcliao/what-should-we-play/internal/match"
	"github.com/rcliao/what-should-we-play/internal/metrics"
	"github.com/rcliao/what-should-we-play/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "suggest [* | count | channel]",
		Short: "Suggest games the group can play together",
		Long: "Suggest up to suggest.cap games every online member owns and nobody banned.\n" +
			"With no argument or \"*\" the whole group counts; a number requires room for that\n" +
			"many players; anything else names a channel of the group.",
		Args: cobra.MaximumNArgs(1),
		Run:  runSuggest,
	}

	cmd.Flags().StringP("group", "g", "default", "Group to suggest for")
	cmd.Flags().Bool("ignore-bans", false, "Ignore ban lists (default: the group's setting)")

	RootCmd.AddCommand(cmd)
}

// suggestParams holds one suggest request.
type suggestParams struct {
	Group  string
	Target string
	// IgnoreBans overrides the group default when set.
	IgnoreBans *bool
	Cap        int
	Ignore     []string
}

// suggestion is the answer to one suggest request.
type suggestion struct {
	Group       string   `json:"group"`
	Target      string   `json:"target"`
	PlayerCount int      `json:"player_count"`
	IgnoreBans  bool     `json:"ignore_bans"`
	Cap         int      `json:"cap"`
	Games       []string `json:"games"`
}

// Message is the line shown when no game fits.
func (r *suggestion) Message() string {
	return fmt.Sprintf("No compatible games for player count of %d", r.PlayerCount)
}

// suggest resolves the target against the group's roster and runs the
// matcher over the libraries and bans of everyone in scope.
func suggest(ctx context.Context, s *store.SQLiteStore, p suggestParams) (*suggestion, error) {
	target, err := match.ParseTarget(p.Target)
	if err != nil {
		metrics.Suggestions.WithLabelValues("invalid_target").Inc()
		return nil, err
	}

	roster, err := s.Roster(ctx, store.RosterParams{Group: p.Group, Ignore: p.Ignore})
	if err != nil {
		return nil, fmt.Errorf("load group: %w", err)
	}
	scope, err := target.Scope(roster)
	if err != nil {
		if errors.Is(err, match.ErrInvalidChannelSelection) {
			metrics.Suggestions.WithLabelValues("invalid_target").Inc()
		}
		return nil, err
	}

	ignoreBans := roster.IgnoreBans
	if p.IgnoreBans != nil {
		ignoreBans = *p.IgnoreBans
	}

	libraries := make([]match.Set, 0, len(scope.Members))
	bans := make([]match.Set, 0, len(scope.Members))
	for _, id := range scope.Members {
		lib, err := s.LibraryOf(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load library: %w", err)
		}
		libraries = append(libraries, match.NewSet(lib...))
		if ignoreBans {
			continue
		}
		banned, err := s.BanListOf(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("load bans: %w", err)
		}
		bans = append(bans, match.NewSet(banned...))
	}

	view, err := s.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	sampler := match.NewSampler(p.Cap, nil)
	suggester := match.NewSuggester(view, sampler, logging.Ctx(ctx).With().Str("component", "match").Logger())
	games := suggester.Suggest(libraries, match.Request{
		Requested:  scope.Requested,
		Bans:       match.Union(bans...),
		IgnoreBans: ignoreBans,
	})

	playerCount := len(scope.Members)
	if n, ok := scope.Requested.Value(); ok {
		playerCount = n
	}

	return &suggestion{
		Group:       p.Group,
		Target:      target.String(),
		PlayerCount: playerCount,
		IgnoreBans:  ignoreBans,
		Cap:         sampler.Cap(),
		Games:       games,
	}, nil
}

func runSuggest(cmd *cobra.Command, args []string) {
	p := suggestParams{Cap: cfg.Suggest.Cap, Ignore: cfg.Suggest.IgnoreMembers}
	p.Group, _ = cmd.Flags().GetString("group")
	if len(args) > 0 {
		p.Target = args[0]
	}
	if cmd.Flags().Changed("ignore-bans") {
		ignore, _ := cmd.Flags().GetBool("ignore-bans")
		p.IgnoreBans = &ignore
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	res, err := suggest(cmd.Context(), s, p)
	if err != nil {
		exitErr("suggest", err)
	}

	if len(res.Games) == 0 {
		fmt.Println(res.Message())
		return
	}
	if textOutput() {
		fmt.Println(strings.Join(res.Games, "\n"))
		return
	}
	printJSON(res)
}
