// Package tracker holds the working set of opportunities currently
// being watched. The set is replaced wholesale each analysis cycle.
package tracker

import (
	"log/slog"
	"sync"

	"github.com/tradewatch/fxwatch/internal/service/recommendation"
)

type Set struct {
	mu        sync.RWMutex
	opps      []recommendation.Opportunity
	keepStale bool
}

type Option func(s *Set)

// WithKeepStale keeps the previous cycle's opportunities when a new
// cycle extracts nothing. The default discards them, matching the
// policy that a cycle with no extractable setups means no setups.
func WithKeepStale() Option {
	return func(s *Set) {
		s.keepStale = true
	}
}

func NewSet(opts ...Option) *Set {
	s := &Set{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Replace swaps in the opportunities extracted by the latest cycle and
// returns the number now tracked.
func (s *Set) Replace(opps []recommendation.Opportunity) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(opps) == 0 {
		if s.keepStale && len(s.opps) > 0 {
			slog.Warn("no opportunities extracted, keeping previous set", "tracked", len(s.opps))
			return len(s.opps)
		}
		if len(s.opps) > 0 {
			slog.Warn("no opportunities extracted, discarding previous set", "discarded", len(s.opps))
		}
		s.opps = nil
		return 0
	}

	s.opps = opps
	return len(s.opps)
}

// Snapshot returns a copy of the tracked opportunities.
func (s *Set) Snapshot() []recommendation.Opportunity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]recommendation.Opportunity, len(s.opps))
	copy(out, s.opps)
	return out
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.opps)
}
