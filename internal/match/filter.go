package match

import (
	"sort"
	"strconv"
)

// Count is a requested player count: either a concrete number or Unbounded.
type Count struct {
	n       int
	bounded bool
}

// Unbounded requests no player-count constraint.
var Unbounded = Count{}

// Exactly requests games that support at least n players.
func Exactly(n int) Count { return Count{n: n, bounded: true} }

// IsUnbounded reports whether c is the Unbounded sentinel.
func (c Count) IsUnbounded() bool { return !c.bounded }

// Value returns the concrete count and false for Unbounded.
func (c Count) Value() (int, bool) { return c.n, c.bounded }

func (c Count) String() string {
	if !c.bounded {
		return "*"
	}
	return strconv.Itoa(c.n)
}

// CountHints is the part of the catalog the filter reads.
type CountHints interface {
	PlayerCountHint(name string) (int, bool)
}

// FilterParams are request-scoped; nothing here is shared between requests.
type FilterParams struct {
	Requested Count
	// GroupSize substitutes for a missing catalog count when Requested is Unbounded.
	GroupSize  int
	Bans       Set
	IgnoreBans bool
}

// Filter keeps the candidates that fit the requested count and are not banned.
// A game without a recorded count defaults to the requested count (or the group
// size when unbounded), so it never fails the count check. The result is sorted.
func Filter(candidates Set, hints CountHints, p FilterParams) []string {
	requested, bounded := p.Requested.Value()
	fallback := p.GroupSize
	if bounded {
		fallback = requested
	}

	out := make([]string, 0, len(candidates))
	for name := range candidates {
		count, ok := 0, false
		if hints != nil {
			count, ok = hints.PlayerCountHint(name)
		}
		if !ok {
			count = fallback
		}

		countOK := !bounded || count >= requested
		banOK := p.IgnoreBans || !p.Bans.Has(name)
		if countOK && banOK {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
