package jobs

import (
	"container/list"
	"sync"
	"time"

	"github.com/nguyentantai21042004/meetnote/internal/logger"
)

type implManager struct {
	mu        sync.Mutex
	wg        sync.WaitGroup
	jobs      map[string]*job
	pending   *list.List // queued jobs, oldest first
	closed    bool
	wake      chan struct{}
	stop      chan struct{}
	stopOnce  sync.Once
	semaphore chan struct{}
	timeout   time.Duration
	ttl       time.Duration
	logger    logger.Logger
	now       func() time.Time
}

// New creates a Manager that runs at most maxConcurrent jobs at once in
// submission order, stops each running job after timeout and forgets
// finished jobs after ttl.
func New(maxConcurrent int, timeout, ttl time.Duration, log logger.Logger) Manager {
	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	m := &implManager{
		jobs:      make(map[string]*job),
		pending:   list.New(),
		wake:      make(chan struct{}, 1),
		stop:      make(chan struct{}),
		semaphore: make(chan struct{}, maxConcurrent),
		timeout:   timeout,
		ttl:       ttl,
		logger:    log,
		now:       time.Now,
	}

	go m.dispatch()
	return m
}
