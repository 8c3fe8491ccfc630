package branch

import "sync"

// sequencer numbers requests in issuance order and remembers, per key, the newest
// request whose result reached the store. A late result is dropped only when a
// newer one for the same key was applied; a newer request that failed blocks
// nothing.
type sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied map[string]uint64
}

func newSequencer() *sequencer {
	return &sequencer{applied: make(map[string]uint64)}
}

func (s *sequencer) next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// applyIfNewer runs apply when no request issued after seq has been applied for
// key. No other result can be applied while apply runs.
func (s *sequencer) applyIfNewer(key string, seq uint64, apply func()) bool {
	return s.applySnapshot(key, seq, func(func(string) bool) { apply() })
}

// applySnapshot is applyIfNewer for results covering several keys. newer reports
// whether key already holds a result issued after seq.
func (s *sequencer) applySnapshot(key string, seq uint64, apply func(newer func(key string) bool)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.applied[key] >= seq {
		return false
	}
	s.applied[key] = seq
	apply(func(k string) bool { return s.applied[k] > seq })
	return true
}
