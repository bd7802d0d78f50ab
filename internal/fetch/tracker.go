package fetch

import "sync"

// Tracker hands out a generation number per dependency key. A fetch records
// the generation it was dispatched with; when the response arrives it is
// applied only if that generation is still current. A superseded fetch (the
// user changed shop again before the first response landed) is silently
// dropped instead of overwriting newer state.
type Tracker struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func NewTracker() *Tracker {
	return &Tracker{gens: make(map[string]uint64)}
}

// Begin marks a new fetch for key and returns its generation. Any earlier
// in-flight fetch for the same key becomes stale.
func (t *Tracker) Begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[key]++
	return t.gens[key]
}

// Current reports whether gen is still the latest generation for key.
func (t *Tracker) Current(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[key] == gen
}
