package match

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidChannelSelection means a suggest target named neither a channel nor a count.
var ErrInvalidChannelSelection = errors.New("selected channel is not a voice channel or spelled incorrectly")

// GroupView is what a Target needs to know about the requesting group.
type GroupView interface {
	// Members returns the ids of members who contribute to suggestions.
	Members() []string

	// Subgroup returns the contributing members of a named channel.
	Subgroup(name string) ([]string, bool)
}

// Scope is the outcome of resolving a Target: whose libraries to intersect and
// which player count to request.
type Scope struct {
	Members   []string
	Requested Count
}

// Target selects who a suggestion is for. The variants are WholeGroup,
// ExplicitCount and NamedSubgroup.
type Target interface {
	Scope(g GroupView) (Scope, error)
	String() string
}

// WholeGroup suggests for every contributing member with no count constraint.
type WholeGroup struct{}

func (WholeGroup) Scope(g GroupView) (Scope, error) {
	return Scope{Members: g.Members(), Requested: Unbounded}, nil
}

func (WholeGroup) String() string { return "*" }

// ExplicitCount suggests for every contributing member, requiring room for N players.
type ExplicitCount struct{ N int }

func (t ExplicitCount) Scope(g GroupView) (Scope, error) {
	return Scope{Members: g.Members(), Requested: Exactly(t.N)}, nil
}

func (t ExplicitCount) String() string { return strconv.Itoa(t.N) }

// NamedSubgroup suggests for the members of one channel, sized to that channel.
type NamedSubgroup struct{ Name string }

func (t NamedSubgroup) Scope(g GroupView) (Scope, error) {
	members, ok := g.Subgroup(t.Name)
	if !ok {
		return Scope{}, fmt.Errorf("%w: %q", ErrInvalidChannelSelection, t.Name)
	}
	return Scope{Members: members, Requested: Exactly(len(members))}, nil
}

func (t NamedSubgroup) String() string { return t.Name }

// ParseTarget maps command input to a Target: empty or "*" is the whole group,
// digits are a player count, anything else names a channel.
func ParseTarget(arg string) (Target, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" || arg == "*" {
		return WholeGroup{}, nil
	}
	if isDigits(arg) {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: player count %q must be a positive number", ErrInvalidChannelSelection, arg)
		}
		return ExplicitCount{N: n}, nil
	}
	return NamedSubgroup{Name: arg}, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
