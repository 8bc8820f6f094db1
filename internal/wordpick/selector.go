// Package wordpick draws target words from a pool with a shuffle bag: no
// word repeats until the whole pool has been used, and the same word is
// never drawn twice in a row unless the pool has one member.
package wordpick

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Selection is the result of one draw.
type Selection struct {
	Word string
	// Reshuffled is true when the bag was refilled for this draw.
	Reshuffled bool
	// Remaining is the number of words left in the bag after the draw.
	Remaining int
}

// Empty reports whether the pool had nothing to draw from.
func (s Selection) Empty() bool { return s.Word == "" }

// Selector draws words using per-scope shuffle bags.
type Selector struct {
	bags   BagRepository
	logger zerolog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Selector.
type Option func(*Selector)

// WithRand sets the random source, mainly for deterministic tests.
func WithRand(rng *rand.Rand) Option {
	return func(s *Selector) { s.rng = rng }
}

// WithLogger sets the logger used for repository failures.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Selector) { s.logger = l }
}

// NewSelector returns a Selector backed by bags. A nil repository keeps
// state in memory.
func NewSelector(bags BagRepository, opts ...Option) *Selector {
	if bags == nil {
		bags = NewMemoryBags()
	}
	now := uint64(time.Now().UnixNano())
	s := &Selector{
		bags:   bags,
		logger: zerolog.Nop(),
		rng:    rand.New(rand.NewPCG(now, now>>1|1)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Next draws one word from pool for scope. An empty pool yields an empty
// Selection. Repository failures are logged; a failed load starts a fresh
// bag and a failed save still returns the drawn word.
func (s *Selector) Next(ctx context.Context, pool []string, scope Scope) Selection {
	words := dedupe(pool)
	if len(words) == 0 {
		return Selection{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.bags.LoadBag(ctx, scope)
	if err != nil {
		s.logger.Warn().Err(err).Str("scope", scope.String()).Msg("load shuffle bag")
		state = BagState{}
	}

	queue := keepInPool(state.Queue, words)
	reshuffled := false
	if len(queue) == 0 {
		queue = s.shuffle(words)
		reshuffled = true
	}
	if n := len(queue); n > 1 && queue[n-1] == state.Last {
		queue[0], queue[n-1] = queue[n-1], queue[0]
	}

	pick := queue[len(queue)-1]
	queue = queue[:len(queue)-1]

	if err := s.bags.SaveBag(ctx, scope, BagState{Queue: queue, Last: pick}); err != nil {
		s.logger.Warn().Err(err).Str("scope", scope.String()).Msg("save shuffle bag")
	}

	s.logger.Debug().
		Str("scope", scope.String()).
		Bool("reshuffled", reshuffled).
		Int("remaining", len(queue)).
		Msg("word drawn")

	return Selection{Word: pick, Reshuffled: reshuffled, Remaining: len(queue)}
}

// shuffle returns a Fisher-Yates shuffled copy of words.
func (s *Selector) shuffle(words []string) []string {
	out := append([]string(nil), words...)
	for i := len(out) - 1; i > 0; i-- {
		j := s.rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func dedupe(words []string) []string {
	seen := make(map[string]bool, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// keepInPool drops queued words that are no longer in the pool, and any
// duplicates a stale queue may carry.
func keepInPool(queue, pool []string) []string {
	in := make(map[string]bool, len(pool))
	for _, w := range pool {
		in[w] = true
	}
	out := make([]string, 0, len(queue))
	for _, w := range queue {
		if in[w] {
			out = append(out, w)
			delete(in, w)
		}
	}
	return out
}
