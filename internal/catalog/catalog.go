// Package catalog provides a read-only, in-memory view over canonical game records.
package catalog

import (
	"sort"

	"github.com/rcliao/what-should-we-play/internal/model"
)

// View is the read-only accessor the matching and resolution code queries.
type View interface {
	// RecordFor returns the first record with exactly this name.
	RecordFor(name string) (model.Game, bool)

	// AllNames returns every distinct catalog name in sorted order.
	AllNames() []string

	// PlayerCountHint returns the recorded maximum player count, if any.
	PlayerCountHint(name string) (int, bool)
}

// Snapshot is a View built from records loaded once per request.
// Several records may share a display name; lookups return the first one.
type Snapshot struct {
	byName map[string]model.Game
	names  []string
}

var _ View = (*Snapshot)(nil)

// NewSnapshot indexes games by name. Records are kept in input order, so the first
// record for a duplicated name wins.
func NewSnapshot(games []model.Game) *Snapshot {
	s := &Snapshot{byName: make(map[string]model.Game, len(games))}
	for _, g := range games {
		if _, ok := s.byName[g.Name]; ok {
			continue
		}
		s.byName[g.Name] = g
		s.names = append(s.names, g.Name)
	}
	sort.Strings(s.names)
	return s
}

func (s *Snapshot) RecordFor(name string) (model.Game, bool) {
	g, ok := s.byName[name]
	return g, ok
}

func (s *Snapshot) AllNames() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// PlayerCountHint treats a missing record, a nil count and a non-positive count as unset.
func (s *Snapshot) PlayerCountHint(name string) (int, bool) {
	g, ok := s.byName[name]
	if !ok || g.MaxPlayers == nil || *g.MaxPlayers <= 0 {
		return 0, false
	}
	return *g.MaxPlayers, true
}

// Len reports the number of distinct names.
func (s *Snapshot) Len() int { return len(s.names) }
