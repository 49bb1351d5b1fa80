package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meetnote/internal/logger"
	"github.com/nguyentantai21042004/meetnote/internal/processor"
)

func (m *implManager) Submit(t Task) string {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(logger.WithJobID(context.Background(), id))

	j := &job{
		snap: Snapshot{
			ID:        id,
			Name:      t.Name,
			State:     StateQueued,
			CreatedAt: m.now(),
		},
		task:   t,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	m.wg.Add(1)

	m.mu.Lock()
	m.jobs[id] = j
	closed := m.closed
	if closed {
		j.cancelled = true
	} else {
		j.elem = m.pending.PushBack(j)
	}
	m.mu.Unlock()

	if closed {
		m.logger.Warn(ctx, "Rejected %s: shutting down", t.Name)
		m.finishQueued(j)
		return id
	}

	m.logger.Info(ctx, "Queued %s", t.Name)
	m.signal()

	return id
}

// run executes a job the dispatcher has moved to running. The slot it holds
// is released once the job is finished.
func (m *implManager) run(j *job) {
	defer func() { <-m.semaphore }()

	ctx := j.ctx
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	// cancelled between leaving the queue and starting
	if ctx.Err() != nil {
		err := &processor.ProcessingError{Step: "queue", Err: ctx.Err()}
		m.finish(j, processor.Failed(err), err)
		return
	}

	res, err := m.call(ctx, j.task)
	m.finish(j, res, err)
}

// call runs the task and turns a panic into an error so the job still finishes.
func (m *implManager) call(ctx context.Context, t Task) (res processor.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &processor.ProcessingError{Step: "job", Err: fmt.Errorf("panic: %v", r)}
			res = processor.Failed(err)
		}
	}()
	return t.Run(ctx)
}

// finishQueued ends a job that never reached the front of the queue.
func (m *implManager) finishQueued(j *job) {
	err := &processor.ProcessingError{Step: "queue", Err: context.Canceled}
	m.finish(j, processor.Failed(err), err)
}

// finish records the terminal state, then releases the job's files and wakes
// waiters. A job only counts as cancelled when a cancel was requested and the
// task actually stopped because of it.
func (m *implManager) finish(j *job, res processor.Result, err error) {
	m.mu.Lock()
	state := StateDone
	if j.cancelled && processor.IsCancelled(err) {
		state = StateCancelled
	}
	j.snap.State = state
	j.snap.Result = res
	if err != nil {
		j.snap.Err = err.Error()
	}
	j.snap.FinishedAt = m.now()
	elapsed := j.snap.FinishedAt.Sub(j.snap.CreatedAt)
	m.mu.Unlock()

	j.cancel()

	// waiters must not see a finished job whose files are still on disk
	if j.task.Release != nil {
		j.task.Release()
	}
	close(j.done)

	switch {
	case state == StateCancelled:
		m.logger.Info(j.ctx, "Cancelled after %s", elapsed.Round(time.Millisecond))
	case err != nil:
		m.logger.Error(j.ctx, "Finished with error after %s: %v", elapsed.Round(time.Millisecond), err)
	default:
		m.logger.Info(j.ctx, "Finished after %s: outcome=%s", elapsed.Round(time.Millisecond), res.Outcome)
	}

	m.wg.Done()
}

func (m *implManager) Get(id string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	j, ok := m.jobs[id]
	if !ok {
		return Snapshot{}, false
	}
	return j.snap, true
}

func (m *implManager) Cancel(id string) bool {
	m.mu.Lock()
	j, ok := m.jobs[id]
	if !ok || j.snap.State.Terminal() {
		m.mu.Unlock()
		return false
	}
	j.cancelled = true
	queued := j.elem != nil
	if queued {
		m.pending.Remove(j.elem)
		j.elem = nil
	}
	m.mu.Unlock()

	j.cancel()
	if queued {
		m.finishQueued(j)
	}
	return true
}

func (m *implManager) Wait(ctx context.Context, id string) (Snapshot, error) {
	m.mu.Lock()
	j, ok := m.jobs[id]
	m.mu.Unlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}

	select {
	case <-j.done:
		m.mu.Lock()
		defer m.mu.Unlock()
		return j.snap, nil
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (m *implManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	var ids []string
	for id, j := range m.jobs {
		if !j.snap.State.Terminal() {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	for _, id := range ids {
		m.Cancel(id)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	defer m.stopOnce.Do(func() { close(m.stop) })

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("wait for jobs: %w", ctx.Err())
	}
}
