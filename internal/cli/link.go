package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rcliao/what-should-we-play/internal/logging"
	"github.com/rcliao/what-should-we-play/internal/model"
	"github.com/rcliao/what-should-we-play/internal/steam"
	"github.com/rcliao/what-should-we-play/internal/store"
)

func init() {
	steamCmd := &cobra.Command{
		Use:   "steam",
		Short: "Import games and metadata from Steam",
	}

	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Download the Steam app list into the local metadata table",
		Run:   runSteamSync,
	}

	linkCmd := &cobra.Command{
		Use:   "link [steamid|vanity]",
		Short: "Add the games a Steam account owns to your library",
		Args:  cobra.ExactArgs(1),
		Run:   runSteamLink,
	}
	linkCmd.Flags().Bool("multiplayer-only", false, "Only add games whose store page lists a multi-player category")

	detailsCmd := &cobra.Command{
		Use:   "details [appid]",
		Short: "Show store details for an app",
		Args:  cobra.ExactArgs(1),
		Run:   runSteamDetails,
	}

	steamCmd.AddCommand(syncCmd, linkCmd, detailsCmd)
	RootCmd.AddCommand(steamCmd)
}

func newSteamClient() *steam.Client {
	return steam.NewClient(steam.Config{
		APIKey:            cfg.Steam.APIKey,
		APIURL:            cfg.Steam.APIURL,
		StoreURL:          cfg.Steam.StoreURL,
		RequestsPerSecond: cfg.Steam.RequestsPerSecond,
		Timeout:           cfg.Steam.Timeout,
	}, *logging.With("steam"))
}

func runSteamSync(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	apps, err := newSteamClient().AppList(ctx)
	if err != nil {
		exitErr("steam app list", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	added, err := s.UpsertSteamApps(ctx, apps)
	if err != nil {
		exitErr("store app list", err)
	}
	fmt.Printf(`{"ok":true,"apps":%d,"added":%d}`+"\n", len(apps), added)
}

func runSteamLink(cmd *cobra.Command, args []string) {
	multiplayerOnly, _ := cmd.Flags().GetBool("multiplayer-only")
	player := requireActor()
	ctx := cmd.Context()
	log := logging.Ctx(ctx)
	client := newSteamClient()

	steamID, err := client.ResolveID(ctx, args[0])
	if err != nil {
		exitErr("resolve steam id", err)
	}
	owned, err := client.OwnedGames(ctx, steamID)
	if err != nil {
		exitErr("owned games", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	var known []model.SteamApp
	appIDs := make([]int, 0, len(owned))
	for _, g := range owned {
		app := model.SteamApp{AppID: g.AppID, Name: g.Name}
		_, err := s.GetSteamApp(ctx, g.AppID)
		needDetails := multiplayerOnly || (errors.Is(err, store.ErrNotFound) && app.Name == "")
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			exitErr("lookup app", err)
		}

		if needDetails {
			d, err := client.AppDetails(ctx, g.AppID)
			if err != nil {
				log.Warn().Err(err).Int("appid", g.AppID).Msg("skipping app without details")
				continue
			}
			if multiplayerOnly && !d.IsMultiplayer() {
				continue
			}
			if app.Name == "" {
				app.Name = d.Name
			}
		}
		known = append(known, app)
		appIDs = append(appIDs, g.AppID)
	}

	if _, err := s.UpsertSteamApps(ctx, known); err != nil {
		exitErr("store apps", err)
	}
	added, err := s.AddGamesByAppID(ctx, store.AppListParams{PlayerID: player.ID, PlayerName: player.Name, AppIDs: appIDs})
	if err != nil {
		exitErr("link games", err)
	}
	fmt.Printf(`{"ok":true,"steamid":%q,"owned":%d,"added":%d}`+"\n", steamID, len(owned), added)
}

func runSteamDetails(cmd *cobra.Command, args []string) {
	appID, err := strconv.Atoi(args[0])
	if err != nil {
		exitErr("steam details", fmt.Errorf("appid must be a number, got %q", args[0]))
	}
	d, err := newSteamClient().AppDetails(cmd.Context(), appID)
	if err != nil {
		exitErr("steam details", err)
	}
	printJSON(map[string]interface{}{
		"appid":       d.AppID,
		"name":        d.Name,
		"type":        d.Type,
		"categories":  d.Categories,
		"multiplayer": d.IsMultiplayer(),
	})
}
