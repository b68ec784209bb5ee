package match

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultCap is how many suggestions are shown at once.
const DefaultCap = 5

// Sampler bounds a suggestion list to a fixed cap. It is safe for concurrent use.
type Sampler struct {
	cap int

	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a sampler drawing from rng. A nil rng is seeded from the clock
// and a non-positive cap falls back to DefaultCap.
func NewSampler(limit int, rng *rand.Rand) *Sampler {
	if limit <= 0 {
		limit = DefaultCap
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not security sensitive
	}
	return &Sampler{cap: limit, rng: rng}
}

// Cap returns the presentation cap.
func (s *Sampler) Cap() int { return s.cap }

// Sample returns games unchanged when they fit under the cap, otherwise a uniform
// sample of exactly cap distinct games. The input slice is never modified.
func (s *Sampler) Sample(games []string) []string {
	out := make([]string, len(games))
	copy(out, games)
	if len(out) <= s.cap {
		return out
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Partial Fisher-Yates: after i steps out[:i] is a uniform draw without replacement.
	for i := 0; i < s.cap; i++ {
		j := i + s.rng.Intn(len(out)-i)
		out[i], out[j] = out[j], out[i]
	}
	return out[:s.cap]
}
