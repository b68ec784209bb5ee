package resolve

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/what-should-we-play/internal/catalog"
	"github.com/rcliao/what-should-we-play/internal/model"
	"github.com/rcliao/what-should-we-play/internal/session"
)

func snapshot(names ...string) *catalog.Snapshot {
	games := make([]model.Game, len(names))
	for i, n := range names {
		games[i] = model.Game{ID: n, Name: n}
	}
	return catalog.NewSnapshot(games)
}

// scripted answers every prompt with a fixed outcome and records what it was shown.
type scripted struct {
	outcome session.Outcome
	err     error
	calls   [][]string
}

func (s *scripted) Disambiguate(_ context.Context, _, _ string, candidates []string) (session.Outcome, error) {
	s.calls = append(s.calls, candidates)
	return s.outcome, s.err
}

func TestResolveOne_Exact(t *testing.T) {
	d := &scripted{}
	r := New(snapshot("Halo", "halo 2"), d)

	res, err := r.ResolveOne(context.Background(), "alice", "  Halo ")
	require.NoError(t, err)
	assert.Equal(t, Result{Input: "Halo", Name: "Halo", Outcome: OutcomeMatched, Stage: StageExact}, res)
	assert.Empty(t, d.calls)
}

func TestResolveOne_DuplicateNamesCollapse(t *testing.T) {
	view := catalog.NewSnapshot([]model.Game{{ID: "1", Name: "Doom"}, {ID: "2", Name: "Doom"}})
	d := &scripted{}

	res, err := New(view, d).ResolveOne(context.Background(), "alice", "Doom")
	require.NoError(t, err)
	assert.Equal(t, "Doom", res.Name)
	assert.Empty(t, d.calls)
}

func TestResolveOne_CaseInsensitiveUnique(t *testing.T) {
	d := &scripted{}
	res, err := New(snapshot("Halo"), d).ResolveOne(context.Background(), "alice", "halo")
	require.NoError(t, err)
	assert.Equal(t, "Halo", res.Name)
	assert.Equal(t, StageCaseInsensitive, res.Stage)
	assert.Empty(t, d.calls, "no session for a unique case-insensitive match")
}

func TestResolveOne_CaseInsensitiveAmbiguous(t *testing.T) {
	d := &scripted{outcome: session.Outcome{State: session.Resolved, Selection: "DOOM"}}
	res, err := New(snapshot("Doom", "DOOM", "Doom Eternal"), d).ResolveOne(context.Background(), "alice", "doom")
	require.NoError(t, err)

	require.Len(t, d.calls, 1)
	assert.ElementsMatch(t, []string{"Doom", "DOOM"}, d.calls[0])
	assert.Equal(t, "DOOM", res.Name)
	assert.Equal(t, StageCaseInsensitive, res.Stage)
}

func TestResolveOne_PrefixSuffix(t *testing.T) {
	d := &scripted{outcome: session.Outcome{State: session.Resolved, Selection: "Strike"}}
	r := New(snapshot("Street Fighter", "Strike", "Astray"), d)

	res, err := r.ResolveOne(context.Background(), "alice", "Str")
	require.NoError(t, err)

	require.Len(t, d.calls, 1)
	assert.ElementsMatch(t, []string{"Street Fighter", "Strike"}, d.calls[0])
	assert.Equal(t, Result{Input: "Str", Name: "Strike", Outcome: OutcomeMatched, Stage: StagePartial}, res)
}

func TestResolveOne_SinglePartialStillAsks(t *testing.T) {
	d := &scripted{outcome: session.Outcome{State: session.Declined}}
	res, err := New(snapshot("Rocket League"), d).ResolveOne(context.Background(), "alice", "league")
	require.NoError(t, err)

	require.Len(t, d.calls, 1)
	assert.Equal(t, []string{"Rocket League"}, d.calls[0])
	assert.False(t, res.OK())
}

func TestResolveOne_SessionOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome session.Outcome
		want    Result
	}{
		{"add as new", session.Outcome{State: session.AddAsNew}, Result{Input: "Str", Name: "Str", Outcome: OutcomeNew, Stage: StagePartial}},
		{"declined", session.Outcome{State: session.Declined}, Result{Input: "Str", Outcome: OutcomeUnresolved, Stage: StagePartial}},
		{"timed out", session.Outcome{State: session.TimedOut}, Result{Input: "Str", Outcome: OutcomeUnresolved, Stage: StagePartial}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(snapshot("Street Fighter", "Strike"), &scripted{outcome: tt.outcome})
			res, err := r.ResolveOne(context.Background(), "alice", "Str")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res)
		})
	}
}

func TestResolveOne_NoMatchIsNew(t *testing.T) {
	d := &scripted{}
	res, err := New(snapshot("Halo"), d).ResolveOne(context.Background(), "alice", " Outer Wilds ")
	require.NoError(t, err)
	assert.Equal(t, Result{Input: "Outer Wilds", Name: "Outer Wilds", Outcome: OutcomeNew}, res)
	assert.Empty(t, d.calls)
}

func TestResolveOne_EmptyInput(t *testing.T) {
	res, err := New(snapshot("Halo"), nil).ResolveOne(context.Background(), "alice", "   ")
	require.NoError(t, err)
	assert.False(t, res.OK())
}

// casings returns n distinct spellings of word that differ only in case.
func casings(word string, n int) []string {
	var out []string
	for mask := 0; len(out) < n; mask++ {
		b := []byte(strings.ToLower(word))
		for i := range b {
			if mask&(1<<i) != 0 {
				b[i] = b[i] - 'a' + 'A'
			}
		}
		out = append(out, string(b))
	}
	return out
}

func TestResolveOne_TooManyCandidates(t *testing.T) {
	d := &scripted{}
	r := New(snapshot(casings("quake", 30)...), d)

	// "QUAKE" is not one of the 30 spellings, so every one of them is a case-insensitive hit.
	_, err := r.ResolveOne(context.Background(), "alice", "QUAKE")
	assert.ErrorIs(t, err, ErrTooManyCandidates)

	var tooMany *TooManyCandidatesError
	require.True(t, errors.As(err, &tooMany))
	assert.Equal(t, 30, tooMany.Count)
	assert.Equal(t, DefaultMaxCandidates, tooMany.Limit)
	assert.Empty(t, d.calls, "no session is opened")
}

func TestResolveOne_MaxCandidatesOption(t *testing.T) {
	r := New(snapshot("Street Fighter", "Strike"), &scripted{}, WithMaxCandidates(1))
	_, err := r.ResolveOne(context.Background(), "alice", "Str")
	assert.ErrorIs(t, err, ErrTooManyCandidates)
}

func TestResolveMany(t *testing.T) {
	d := &scripted{outcome: session.Outcome{State: session.Declined}}
	r := New(snapshot(append(casings("quake", 30), "Halo", "Street Fighter", "Strike")...), d)

	names, err := r.ResolveMany(context.Background(), "alice", []string{"halo", "Str", "Portal", "quak"})

	assert.Equal(t, []string{"Halo", "Portal"}, names)
	assert.ErrorIs(t, err, ErrTooManyCandidates)
}

func TestResolveMany_DisambiguatorError(t *testing.T) {
	boom := errors.New("boom")
	r := New(snapshot("Street Fighter", "Strike", "Halo"), &scripted{err: boom})

	names, err := r.ResolveMany(context.Background(), "alice", []string{"Str", "Halo"})
	assert.Equal(t, []string{"Halo"}, names)
	assert.ErrorIs(t, err, boom)
}

func TestResolveOne_ThroughCoordinator(t *testing.T) {
	var c *session.Coordinator
	c = session.NewCoordinator(session.PresenterFunc(func(_ context.Context, s *session.Session) error {
		go func() { _ = c.Interact(s.ID, "alice", session.Choice{Action: session.ActionSelect, Name: "Strike"}) }()
		return nil
	}), 0, zerolog.Nop())

	res, err := New(snapshot("Street Fighter", "Strike", "Astray"), c).ResolveOne(context.Background(), "alice", "Str")
	require.NoError(t, err)
	assert.Equal(t, "Strike", res.Name)
}
