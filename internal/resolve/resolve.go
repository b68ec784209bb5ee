// Package resolve maps typed game names onto canonical catalog names.
//
// Stages run in order and the first match wins: exact, case-insensitive exact,
// then case-insensitive prefix or suffix. Anything that is still ambiguous is
// handed to a Disambiguator. Input nothing matches is kept as a new game name.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rcliao/what-should-we-play/internal/catalog"
	"github.com/rcliao/what-should-we-play/internal/metrics"
	"github.com/rcliao/what-should-we-play/internal/session"
)

// DefaultMaxCandidates is the most choices a disambiguation prompt will offer.
const DefaultMaxCandidates = 25

// ErrTooManyCandidates is matched by every *TooManyCandidatesError.
var ErrTooManyCandidates = errors.New("too many matching games")

// TooManyCandidatesError reports an input that matched more games than a prompt can show.
type TooManyCandidatesError struct {
	Input string
	Count int
	Limit int
}

func (e *TooManyCandidatesError) Error() string {
	return fmt.Sprintf("%q matches %d games (limit %d), be more specific", e.Input, e.Count, e.Limit)
}

func (e *TooManyCandidatesError) Is(target error) bool { return target == ErrTooManyCandidates }

// Disambiguator asks requester to pick one of candidates for input.
type Disambiguator interface {
	Disambiguate(ctx context.Context, requester, input string, candidates []string) (session.Outcome, error)
}

// Outcome is how a single input was resolved.
type Outcome int

const (
	// OutcomeMatched is a canonical catalog name.
	OutcomeMatched Outcome = iota
	// OutcomeNew is the trimmed input, kept as a new game name.
	OutcomeNew
	// OutcomeUnresolved means the input must be dropped.
	OutcomeUnresolved
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeNew:
		return "new"
	case OutcomeUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Stage is the resolution step that produced a result.
type Stage int

const (
	// StageNone means no catalog step applied: empty input or a new name.
	StageNone Stage = iota
	// StageExact matched the trimmed input verbatim.
	StageExact
	// StageCaseInsensitive matched ignoring case.
	StageCaseInsensitive
	// StagePartial matched a prefix or suffix of catalog names.
	StagePartial
)

func (s Stage) String() string {
	switch s {
	case StageExact:
		return "exact"
	case StageCaseInsensitive:
		return "case_insensitive"
	case StagePartial:
		return "partial"
	default:
		return "none"
	}
}

// Result is the resolution of one input.
type Result struct {
	Input   string
	Name    string
	Outcome Outcome
	Stage   Stage
}

// OK reports whether Name should be used.
func (r Result) OK() bool { return r.Outcome != OutcomeUnresolved }

// Resolver resolves names against one catalog view.
type Resolver struct {
	view          catalog.View
	disambiguator Disambiguator
	maxCandidates int
	logger        zerolog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxCandidates overrides DefaultMaxCandidates.
func WithMaxCandidates(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxCandidates = n
		}
	}
}

// WithLogger sets the resolver's logger.
//
//nolint:gocritic // zerolog.Logger is passed by value
func WithLogger(l zerolog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New returns a resolver over view. d may be nil, in which case every ambiguous
// input is unresolved.
func New(view catalog.View, d Disambiguator, opts ...Option) *Resolver {
	r := &Resolver{
		view:          view,
		disambiguator: d,
		maxCandidates: DefaultMaxCandidates,
		logger:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveOne resolves input on behalf of requester. It may block while a
// disambiguation session is open.
func (r *Resolver) ResolveOne(ctx context.Context, requester, input string) (Result, error) {
	res, err := r.resolve(ctx, requester, input)
	outcome := res.Outcome.String()
	if errors.Is(err, ErrTooManyCandidates) {
		outcome = "too_many_candidates"
	} else if err != nil {
		outcome = "error"
	}
	metrics.Resolutions.WithLabelValues(res.Stage.String(), outcome).Inc()
	return res, err
}

func (r *Resolver) resolve(ctx context.Context, requester, input string) (Result, error) {
	trimmed := strings.TrimSpace(input)
	res := Result{Input: trimmed, Outcome: OutcomeUnresolved}
	if trimmed == "" {
		return res, nil
	}

	if _, ok := r.view.RecordFor(trimmed); ok {
		res.Name, res.Outcome, res.Stage = trimmed, OutcomeMatched, StageExact
		return res, nil
	}

	lower := strings.ToLower(trimmed)
	var folded, partial []string
	for _, name := range r.view.AllNames() {
		l := strings.ToLower(name)
		if l == lower {
			folded = append(folded, name)
		}
		if strings.HasPrefix(l, lower) || strings.HasSuffix(l, lower) {
			partial = append(partial, name)
		}
	}
	folded = dedupe(folded)

	switch {
	case len(folded) == 1:
		res.Name, res.Outcome, res.Stage = folded[0], OutcomeMatched, StageCaseInsensitive
		return res, nil
	case len(folded) > 1:
		res.Stage = StageCaseInsensitive
		return r.disambiguate(ctx, requester, res, folded)
	}

	if partial = dedupe(partial); len(partial) > 0 {
		res.Stage = StagePartial
		return r.disambiguate(ctx, requester, res, partial)
	}

	res.Name, res.Outcome = trimmed, OutcomeNew
	return res, nil
}

func (r *Resolver) disambiguate(ctx context.Context, requester string, res Result, candidates []string) (Result, error) {
	if len(candidates) > r.maxCandidates {
		return res, &TooManyCandidatesError{Input: res.Input, Count: len(candidates), Limit: r.maxCandidates}
	}
	if r.disambiguator == nil {
		return res, nil
	}

	r.logger.Debug().
		Str("input", res.Input).
		Str("stage", res.Stage.String()).
		Strs("candidates", candidates).
		Msg("disambiguating")

	out, err := r.disambiguator.Disambiguate(ctx, requester, res.Input, candidates)
	if err != nil {
		return res, fmt.Errorf("disambiguate %q: %w", res.Input, err)
	}

	switch out.State {
	case session.Resolved:
		res.Name, res.Outcome = out.Selection, OutcomeMatched
	case session.AddAsNew:
		res.Name, res.Outcome = res.Input, OutcomeNew
	}
	return res, nil
}

// ResolveMany resolves each input in order and returns the usable names.
// Unresolved inputs are dropped. Errors for individual inputs never stop the
// others and are returned joined.
func (r *Resolver) ResolveMany(ctx context.Context, requester string, inputs []string) ([]string, error) {
	var names []string
	var errs []error
	for _, in := range inputs {
		res, err := r.ResolveOne(ctx, requester, in)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if res.OK() {
			names = append(names, res.Name)
		}
	}
	return names, errors.Join(errs...)
}

func dedupe(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
