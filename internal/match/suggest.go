package match

import (
	"github.com/rs/zerolog"

	"github.com/rcliao/what-should-we-play/internal/metrics"
)

// Request carries the per-call constraints of one suggestion.
type Request struct {
	Requested  Count
	Bans       Set
	IgnoreBans bool
}

// Suggester runs intersect, filter and sample over one catalog view.
type Suggester struct {
	hints   CountHints
	sampler *Sampler
	logger  zerolog.Logger
}

// NewSuggester binds a catalog view to a shared sampler.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewSuggester(hints CountHints, sampler *Sampler, logger zerolog.Logger) *Suggester {
	if sampler == nil {
		sampler = NewSampler(DefaultCap, nil)
	}
	return &Suggester{hints: hints, sampler: sampler, logger: logger}
}

// Suggest returns at most the sampler's cap of games every library shares that
// pass the request's count and ban checks. An empty result is a valid answer.
func (s *Suggester) Suggest(libraries []Set, req Request) []string {
	candidates := Intersect(libraries...)
	filtered := Filter(candidates, s.hints, FilterParams{
		Requested:  req.Requested,
		GroupSize:  len(libraries),
		Bans:       req.Bans,
		IgnoreBans: req.IgnoreBans,
	})
	picked := s.sampler.Sample(filtered)

	s.logger.Debug().
		Int("libraries", len(libraries)).
		Int("candidates", len(candidates)).
		Int("filtered", len(filtered)).
		Int("picked", len(picked)).
		Str("requested", req.Requested.String()).
		Bool("ignore_bans", req.IgnoreBans).
		Msg("suggestion computed")

	outcome := "games"
	if len(picked) == 0 {
		outcome = "empty"
	}
	metrics.Suggestions.WithLabelValues(outcome).Inc()
	return picked
}
