// Package cli implements the wswp CLI commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/config"
	"github.com/rcliao/what-should-we-play/internal/logging"
	"github.com/rcliao/what-should-we-play/internal/metrics"
	"github.com/rcliao/what-should-we-play/internal/store"
)

var (
	dbPath     string
	configPath string
	playerFlag string
	nameFlag   string
	formatFlag string

	cfg = config.Defaults()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "wswp",
	Short: "What should we play?",
	Long: "Suggests games every member of a group owns and nobody has banned.\n" +
		"Libraries, bans, groups and channels live in a local SQLite database.",
	SilenceUsage:      true,
	PersistentPreRun:  setup,
	PersistentPostRun: teardown,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $WSWP_DB or ~/.wswp/wswp.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $WSWP_CONFIG or ./wswp.yaml)")
	RootCmd.PersistentFlags().StringVarP(&playerFlag, "player", "p", "", "Acting player id (default: $USER)")
	RootCmd.PersistentFlags().StringVar(&nameFlag, "name", "", "Display name for the acting player")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func setup(cmd *cobra.Command, _ []string) {
	loaded, err := config.Load(configPath)
	if err != nil {
		exitErr("load config", err)
	}
	cfg = loaded
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	ctx := logging.ContextWithNewCorrelationID(cmd.Context())
	cmd.SetContext(ctx)
	logging.Ctx(ctx).Debug().Str("command", cmd.CommandPath()).Str("db", cfg.Database.Path).Msg("start")
}

func teardown(cmd *cobra.Command, _ []string) {
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
		logging.Ctx(cmd.Context()).Warn().Err(err).Str("path", cfg.Metrics.Textfile).Msg("write metrics textfile")
	}
}

func getDBPath() string {
	return cfg.Database.Path
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// actor is the player the command acts for.
func actor() store.PlayerParams {
	id := playerFlag
	if id == "" {
		id = os.Getenv("USER")
	}
	return store.PlayerParams{ID: id, Name: nameFlag}
}

func requireActor() store.PlayerParams {
	p := actor()
	if p.ID == "" {
		exitErr("player", fmt.Errorf("no player id: pass --player or set $USER"))
	}
	return p
}

// splitGames is the comma-separated game list converter. Blank entries are dropped.
func splitGames(args []string) []string {
	var games []string
	for _, part := range strings.Split(strings.Join(args, " "), ",") {
		if g := strings.TrimSpace(part); g != "" {
			games = append(games, g)
		}
	}
	return games
}

func jsonMarshalIndent(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func printJSON(v interface{}) {
	b, _ := jsonMarshalIndent(v)
	fmt.Println(string(b))
}

func textOutput() bool {
	return formatFlag == "text"
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
