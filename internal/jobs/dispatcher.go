package jobs

// dispatch hands queued jobs to free slots, oldest first.
func (m *implManager) dispatch() {
	for {
		// Acquire semaphore slot (blocks if max concurrent reached)
		select {
		case m.semaphore <- struct{}{}:
		case <-m.stop:
			return
		}

		j := m.next()
		for j == nil {
			select {
			case <-m.wake:
			case <-m.stop:
				<-m.semaphore
				return
			}
			j = m.next()
		}

		go m.run(j)
	}
}

// next pops the oldest queued job and marks it running.
func (m *implManager) next() *job {
	m.mu.Lock()
	defer m.mu.Unlock()

	front := m.pending.Front()
	if front == nil {
		return nil
	}

	j := m.pending.Remove(front).(*job)
	j.elem = nil
	j.snap.State = StateRunning
	j.snap.StartedAt = m.now()
	return j
}

// signal wakes the dispatcher without blocking the submitter.
func (m *implManager) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}
