// Package match answers "what can we all play": it intersects member libraries,
// filters the shared games by player count and bans, and samples a short list.
//
// Everything here is synchronous and works on data the caller already loaded.
package match

import "sort"

// Set is an unordered set of game names.
type Set map[string]struct{}

// NewSet builds a Set from names. Duplicates collapse.
func NewSet(names ...string) Set {
	s := make(Set, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set. A nil set is empty.
func (s Set) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in lexical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Intersect returns the games present in every library. With no libraries the
// result is empty: no members means no shared games.
func Intersect(libraries ...Set) Set {
	if len(libraries) == 0 {
		return Set{}
	}

	// Walk the smallest library; the result can only shrink from there.
	smallest := 0
	for i, lib := range libraries {
		if len(lib) < len(libraries[smallest]) {
			smallest = i
		}
	}

	out := Set{}
	for name := range libraries[smallest] {
		shared := true
		for i, lib := range libraries {
			if i == smallest {
				continue
			}
			if !lib.Has(name) {
				shared = false
				break
			}
		}
		if shared {
			out[name] = struct{}{}
		}
	}
	return out
}

// Union merges sets, e.g. every contributing member's ban list.
func Union(sets ...Set) Set {
	out := Set{}
	for _, s := range sets {
		for n := range s {
			out[n] = struct{}{}
		}
	}
	return out
}
