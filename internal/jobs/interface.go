package jobs

import "context"

// Manager runs submissions in the background and keeps their latest state in memory.
type Manager interface {
	// Submit queues t and returns its job ID immediately.
	Submit(t Task) string
	Get(id string) (Snapshot, bool)
	// Cancel stops a queued or running job. It returns false for unknown or finished jobs.
	Cancel(id string) bool
	// Wait blocks until the job is terminal or ctx is done.
	Wait(ctx context.Context, id string) (Snapshot, error)
	// Start runs the janitor that evicts old finished jobs until ctx is done.
	Start(ctx context.Context)
	// Shutdown cancels every unfinished job and waits for them to return.
	Shutdown(ctx context.Context) error
}
