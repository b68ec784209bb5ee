package store

import (
	"context"
	"slices"
)

// RosterParams selects who may contribute to a suggestion.
type RosterParams struct {
	Group string
	// Ignore lists player ids that never count, such as bots.
	Ignore []string
}

// Roster is the presence-filtered membership of a group at one moment: online
// members not on the ignore list, overall and per channel.
type Roster struct {
	IgnoreBans bool

	members  []string
	channels map[string][]string
}

// Members returns the online, non-ignored members of the group.
func (r *Roster) Members() []string { return r.members }

// Subgroup returns the online, non-ignored members of a channel. The bool is
// false when the group has no channel with that name.
func (r *Roster) Subgroup(name string) ([]string, bool) {
	m, ok := r.channels[name]
	return m, ok
}

// Roster loads the suggestion context for a group.
func (s *SQLiteStore) Roster(ctx context.Context, p RosterParams) (*Roster, error) {
	g, err := s.GetGroup(ctx, p.Group)
	if err != nil {
		return nil, err
	}
	players, err := s.GroupMembers(ctx, p.Group)
	if err != nil {
		return nil, err
	}
	channels, err := s.Channels(ctx, p.Group)
	if err != nil {
		return nil, err
	}

	active := make(map[string]bool, len(players))
	r := &Roster{
		IgnoreBans: g.IgnoreBans,
		members:    []string{},
		channels:   make(map[string][]string, len(channels)),
	}
	for _, pl := range players {
		if !pl.Online || slices.Contains(p.Ignore, pl.ID) {
			continue
		}
		active[pl.ID] = true
		r.members = append(r.members, pl.ID)
	}
	for _, c := range channels {
		in := []string{}
		for _, id := range c.Members {
			if active[id] {
				in = append(in, id)
			}
		}
		r.channels[c.Name] = in
	}
	return r, nil
}
