package app

import "sync"

// SubmissionGuard allows at most one in-flight submission per key.
type SubmissionGuard struct {
	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewSubmissionGuard creates an empty guard.
func NewSubmissionGuard() *SubmissionGuard {
	return &SubmissionGuard{inflight: make(map[string]struct{})}
}

// TryAcquire claims key. It returns false when key is already claimed; on
// success the returned release func must be called exactly once.
func (g *SubmissionGuard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inflight[key]; busy {
		return nil, false
	}

	g.inflight[key] = struct{}{}

	var once sync.Once

	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inflight, key)
			g.mu.Unlock()
		})
	}, true
}
