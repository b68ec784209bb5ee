// Package steam is a small Steam Web API client for importing owned games and
// app metadata into the catalog.
//
// Every request goes through a token-bucket limiter and a circuit breaker, so a
// bulk link or sync never hammers an API that is already failing.
package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/rcliao/what-should-we-play/internal/metrics"
	"github.com/rcliao/what-should-we-play/internal/model"
)

const (
	DefaultAPIURL   = "https://api.steampowered.com"
	DefaultStoreURL = "https://store.steampowered.com"

	maxErrorBodySize = 4 * 1024
)

var (
	// ErrNotFound is returned when a vanity name or app does not exist.
	ErrNotFound = errors.New("steam: not found")
	// ErrNoAPIKey is returned by endpoints that need a key when none is configured.
	ErrNoAPIKey = errors.New("steam: api key is not configured")
)

// Config holds client settings.
type Config struct {
	APIKey            string
	APIURL            string
	StoreURL          string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// OwnedGame is one entry of a player's owned games.
type OwnedGame struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"`
}

// Category is a store category such as "Multi-player".
type Category struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

// AppDetails is the subset of store app details the catalog uses.
type AppDetails struct {
	AppID      int        `json:"steam_appid"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Categories []Category `json:"categories"`
}

// Client talks to the Steam Web API and store API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
	logger  zerolog.Logger
}

// NewClient returns a client. Zero values in cfg fall back to the public
// endpoints, 5 requests per second and a 10 second timeout.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.StoreURL == "" {
		cfg.StoreURL = DefaultStoreURL
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	const name = "steam-api"
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cb:      cb,
		logger:  logger,
	}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// get fetches u and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, endpoint, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("steam %s: %w", endpoint, err)
	}

	start := time.Now()
	status := "error"
	defer func() {
		metrics.SteamRequests.WithLabelValues(endpoint, status).Inc()
		metrics.SteamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	body, err := c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
		if err != nil {
			return nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		status = strconv.Itoa(resp.StatusCode)
		if resp.StatusCode != http.StatusOK {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
			return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
		}
		return io.ReadAll(resp.Body)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		status = "rejected"
	}
	if err != nil {
		return nil, fmt.Errorf("steam %s: %w", endpoint, err)
	}

	c.logger.Debug().Str("endpoint", endpoint).Dur("took", time.Since(start)).Int("bytes", len(body)).Msg("steam request")
	return body, nil
}

func (c *Client) apiURL(path string, q url.Values) string {
	return c.cfg.APIURL + path + "?" + q.Encode()
}

// OwnedGames lists the games a Steam account owns. A private profile yields an
// empty list.
func (c *Client) OwnedGames(ctx context.Context, steamID string) ([]OwnedGame, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	q := url.Values{
		"key":             {c.cfg.APIKey},
		"steamid":         {steamID},
		"include_appinfo": {"1"},
		"format":          {"json"},
	}
	body, err := c.get(ctx, "owned_games", c.apiURL("/IPlayerService/GetOwnedGames/v0001/", q))
	if err != nil {
		return nil, err
	}

	var out struct {
		Response struct {
			Games []OwnedGame `json:"games"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode owned games: %w", err)
	}
	if out.Response.Games == nil {
		return []OwnedGame{}, nil
	}
	return out.Response.Games, nil
}

// ResolveVanity maps a custom profile name to a 64-bit Steam ID.
func (c *Client) ResolveVanity(ctx context.Context, vanity string) (string, error) {
	if c.cfg.APIKey == "" {
		return "", ErrNoAPIKey
	}
	q := url.Values{"key": {c.cfg.APIKey}, "vanityurl": {vanity}}
	body, err := c.get(ctx, "resolve_vanity", c.apiURL("/ISteamUser/ResolveVanityURL/v0001/", q))
	if err != nil {
		return "", err
	}

	var out struct {
		Response struct {
			SteamID string `json:"steamid"`
			Success int    `json:"success"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode vanity: %w", err)
	}
	if out.Response.Success != 1 || out.Response.SteamID == "" {
		return "", fmt.Errorf("vanity %q: %w", vanity, ErrNotFound)
	}
	return out.Response.SteamID, nil
}

// ResolveID accepts either a 17 digit Steam ID or a vanity name.
func (c *Client) ResolveID(ctx context.Context, idOrVanity string) (string, error) {
	if IsSteamID(idOrVanity) {
		return idOrVanity, nil
	}
	return c.ResolveVanity(ctx, idOrVanity)
}

// IsSteamID reports whether s looks like a 64-bit Steam ID.
func IsSteamID(s string) bool {
	if len(s) != 17 {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

// AppList returns every public app. Names may repeat across appids and may be blank.
func (c *Client) AppList(ctx context.Context) ([]model.SteamApp, error) {
	body, err := c.get(ctx, "app_list", c.apiURL("/ISteamApps/GetAppList/v2/", url.Values{}))
	if err != nil {
		return nil, err
	}

	var out struct {
		AppList struct {
			Apps []model.SteamApp `json:"apps"`
		} `json:"applist"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode app list: %w", err)
	}
	return out.AppList.Apps, nil
}

// AppDetails fetches store details for one app.
func (c *Client) AppDetails(ctx context.Context, appID int) (*AppDetails, error) {
	id := strconv.Itoa(appID)
	u := c.cfg.StoreURL + "/api/appdetails?" + url.Values{"appids": {id}}.Encode()
	body, err := c.get(ctx, "app_details", u)
	if err != nil {
		return nil, err
	}

	var out map[string]struct {
		Success bool       `json:"success"`
		Data    AppDetails `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode app details: %w", err)
	}
	entry, ok := out[id]
	if !ok || !entry.Success {
		return nil, fmt.Errorf("app %d: %w", appID, ErrNotFound)
	}
	if entry.Data.AppID == 0 {
		entry.Data.AppID = appID
	}
	return &entry.Data, nil
}

// IsMultiplayer reports whether the app lists a multi-player category.
func (d *AppDetails) IsMultiplayer() bool {
	for _, c := range d.Categories {
		switch c.ID {
		case 1, 9, 36, 38, 49:
			return true
		}
	}
	return false
}
