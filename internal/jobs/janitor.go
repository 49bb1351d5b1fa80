package jobs

import (
	"context"
	"time"
)

func (m *implManager) Start(ctx context.Context) {
	if m.ttl <= 0 {
		return
	}

	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.evict(); n > 0 {
				m.logger.Debug(ctx, "Evicted %d finished jobs", n)
			}
		}
	}
}

// evict drops finished jobs older than the TTL and returns how many went.
func (m *implManager) evict() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, j := range m.jobs {
		if j.snap.State.Terminal() && j.snap.FinishedAt.Before(cutoff) {
			delete(m.jobs, id)
			n++
		}
	}
	return n
}
