// Package playback orders catalog videos for the player.
//
// A Sequencer yields an endless stream of ids: each cycle is an independent
// uniform shuffle of the whole list, so every id plays exactly once per
// cycle and a new order starts as soon as the previous one is exhausted.
// The player page runs the same algorithm in the browser; this package backs
// the CLI preview.
package playback

import (
	"math/rand/v2"
	"slices"
	"sync"
)

// Sequencer produces shuffled cycles over a list of ids. It is safe for
// concurrent use.
type Sequencer struct {
	mu    sync.Mutex
	rng   *rand.Rand
	ids   []string
	order []string
	pos   int
	cycle int
}

// New returns a Sequencer over ids. A nil rng uses a randomly seeded source.
func New(ids []string, rng *rand.Rand) *Sequencer {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s := &Sequencer{rng: rng}
	s.Reload(ids)
	return s
}

// Next returns the next id. It reports false only when the list is empty.
func (s *Sequencer) Next() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.ids) == 0 {
		return "", false
	}
	if s.pos >= len(s.order) {
		s.reshuffle()
	}
	id := s.order[s.pos]
	s.pos++
	return id, true
}

// Reload replaces the list and starts a new cycle.
func (s *Sequencer) Reload(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ids = slices.Clone(ids)
	s.order = nil
	s.pos = 0
	s.cycle = 0
}

// Cycle returns the number of shuffles performed since the last Reload.
func (s *Sequencer) Cycle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cycle
}

// Len returns the number of ids in one cycle.
func (s *Sequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

func (s *Sequencer) reshuffle() {
	s.order = slices.Clone(s.ids)
	Shuffle(s.order, s.rng)
	s.pos = 0
	s.cycle++
}

// Shuffle permutes ids in place with a Fisher-Yates shuffle: for i from the
// last index down to 1, swap ids[i] with a uniformly chosen ids[j], j in [0, i].
func Shuffle(ids []string, rng *rand.Rand) {
	for i := len(ids) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}
