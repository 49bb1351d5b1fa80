package jobs

import (
	"container/list"
	"context"
	"errors"
	"time"

	"github.com/nguyentantai21042004/meetnote/internal/processor"
)

var ErrNotFound = errors.New("job not found")

type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateDone      State = "done"
	StateCancelled State = "cancelled"
)

// Terminal reports whether the job will not change state again.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCancelled
}

// Task is one unit of background work.
type Task struct {
	// Name is only used for logging.
	Name string
	Run  func(ctx context.Context) (processor.Result, error)
	// Release runs once the job is terminal, whether or not Run was called.
	Release func()
}

// Snapshot is a copy of a job's state at one point in time.
type Snapshot struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	State      State            `json:"state"`
	Result     processor.Result `json:"result"`
	Err        string           `json:"error,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	StartedAt  time.Time        `json:"started_at,omitempty"`
	FinishedAt time.Time        `json:"finished_at,omitempty"`
}

type job struct {
	snap      Snapshot
	task      Task
	ctx       context.Context
	cancel    context.CancelFunc
	cancelled bool
	// elem is the job's place in the pending queue while it is queued
	elem *list.Element
	done chan struct{}
}
