package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/browse"
	"github.com/rcliao/what-should-we-play/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Page through your games and bans",
		Long: "Page through a player's games and bans. Without --page or --bans the list is\n" +
			"interactive: n next, p previous, a number jumps, g games, b bans, q quits.",
		Run: runList,
	}

	cmd.Flags().Int("page", 0, "Render a single page and exit")
	cmd.Flags().Bool("bans", false, "Show the ban list")
	cmd.Flags().String("owner", "", "Player whose lists to show (default: the acting player)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	page, _ := cmd.Flags().GetInt("page")
	bans, _ := cmd.Flags().GetBool("bans")
	owner, _ := cmd.Flags().GetString("owner")

	player := requireActor()
	if owner == "" {
		owner = player.ID
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	b, err := openBrowser(cmd.Context(), s, player.ID, owner)
	s.Close()
	if err != nil {
		exitErr("list", err)
	}

	if page > 0 || bans {
		v, err := renderOnce(b, player.ID, page, bans)
		if err != nil {
			exitErr("list", err)
		}
		showView(cmd.OutOrStdout(), v)
		return
	}

	browseLoop(b, player.ID, os.Stdin, cmd.OutOrStdout())
}

// openBrowser loads owner's games and bans into a browser driven by viewer.
// The viewer may page through anyone's lists.
func openBrowser(ctx context.Context, s *store.SQLiteStore, viewer, owner string) (*browse.Browser, error) {
	games, err := s.LibraryOf(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	banned, err := s.BanListOf(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("load bans: %w", err)
	}
	return browse.New(viewer, games, banned,
		browse.WithPageSize(cfg.Browse.PageSize),
		browse.WithWidth(cfg.Browse.Width),
	), nil
}

// renderOnce shows the bans when asked, then jumps to page when it is set.
func renderOnce(b *browse.Browser, actor string, page int, bans bool) (browse.View, error) {
	v := b.Render()
	var err error
	if bans {
		if v, err = b.SwitchMode(actor, browse.Secondary); err != nil {
			return v, err
		}
	}
	if page > 0 {
		return b.JumpTo(actor, strconv.Itoa(page))
	}
	return v, nil
}

// browseLoop drives b from line commands until q or end of input.
func browseLoop(b *browse.Browser, actor string, in io.Reader, out io.Writer) {
	showView(out, b.Render())
	for line := range newLineReader(in).C() {
		var (
			v   browse.View
			err error
		)
		cmd := strings.ToLower(strings.TrimSpace(line))
		switch cmd {
		case "q", "quit":
			return
		case "n", "next":
			v, err = b.Next(actor)
		case "p", "prev", "previous":
			v, err = b.Previous(actor)
		default:
			if m, ok := browse.ParseMode(cmd); ok {
				v, err = b.SwitchMode(actor, m)
			} else if cmd == "g" {
				v, err = b.SwitchMode(actor, browse.Primary)
			} else if cmd == "b" {
				v, err = b.SwitchMode(actor, browse.Secondary)
			} else {
				v, err = b.JumpTo(actor, cmd)
			}
		}
		if err != nil {
			fmt.Fprintln(out, err)
		}
		showView(out, v)
	}
}

func showView(out io.Writer, v browse.View) {
	if !textOutput() {
		b, _ := jsonMarshalIndent(v)
		fmt.Fprintln(out, string(b))
		return
	}
	fmt.Fprintf(out, "%s, page %d\n", strings.ToUpper(v.Mode.String()[:1])+v.Mode.String()[1:], v.Page)
	for _, row := range v.Rows {
		fmt.Fprintf(out, "| %s |\n", row)
	}
	var nav []string
	if v.CanGoPrevious {
		nav = append(nav, "p previous")
	}
	if v.CanGoNext {
		nav = append(nav, "n next")
	}
	nav = append(nav, "g games", "b bans", "q quit")
	fmt.Fprintln(out, strings.Join(nav, "  "))
}
