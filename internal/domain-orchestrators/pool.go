// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ochairo/jfintegrity/internal/domain/entities"
	"github.com/ochairo/jfintegrity/internal/domain/interfaces"
)

// DefaultWorkers is the pool size used when none is given
const DefaultWorkers = entities.DefaultThreads

// ErrPoolClosed is returned by Submit after Close
var ErrPoolClosed = errors.New("pool is closed")

// Operation is the per-artifact unit of work a Pool runs
type Operation interface {
	// Name identifies the operation in logs
	Name() string

	// Process performs one remote round-trip for path and classifies the result
	Process(ctx context.Context, path string) entities.Category

	// FailureCategory is recorded when Process panics
	FailureCategory() entities.Category
}

// Pool is a fixed set of workers consuming artifact paths from one queue.
// Submit, Wait and Close are meant to be called from a single coordinating goroutine.
type Pool struct {
	ctx    context.Context
	op     Operation
	logger interfaces.Logger

	jobs    chan string
	workers *errgroup.Group
	pending sync.WaitGroup

	mu       sync.Mutex
	outcomes []entities.Outcome
	closed   bool

	closeOnce sync.Once
	closeErr  error
}

// NewPool starts workers goroutines (DefaultWorkers when workers < 1) running op
func NewPool(ctx context.Context, workers int, op Operation, logger interfaces.Logger) *Pool {
	if workers < 1 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	p := &Pool{
		ctx:      ctx,
		op:       op,
		logger:   logger,
		jobs:     make(chan string, workers),
		workers:  &errgroup.Group{},
		outcomes: make([]entities.Outcome, 0),
	}

	for id := 0; id < workers; id++ {
		id := id
		p.workers.Go(func() error {
			p.work(id)
			return nil
		})
	}

	logger.Debug("worker pool started", interfaces.F("workers", workers), interfaces.F("operation", op.Name()))
	return p
}

func (p *Pool) work(id int) {
	for path := range p.jobs {
		p.handle(id, path)
	}
}

// handle records exactly one outcome for path before releasing the barrier
func (p *Pool) handle(id int, path string) {
	defer p.pending.Done()

	category := p.process(id, path)

	p.mu.Lock()
	p.outcomes = append(p.outcomes, entities.Outcome{Path: path, Category: category})
	p.mu.Unlock()
}

func (p *Pool) process(id int, path string) (category entities.Category) {
	defer func() {
		if r := recover(); r != nil {
			category = p.op.FailureCategory()
			p.logger.Error("operation panicked", interfaces.F("worker", id), interfaces.F("path", path),
				interfaces.F("operation", p.op.Name()), interfaces.F("panic", fmt.Sprint(r)))
		}
	}()
	return p.op.Process(p.ctx, path)
}

// Submit enqueues path, blocking while the queue is full
func (p *Pool) Submit(path string) error {
	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return ErrPoolClosed
	}

	p.pending.Add(1)
	p.jobs <- path
	return nil
}

// Wait blocks until every submitted path has a recorded outcome
func (p *Pool) Wait() {
	p.pending.Wait()
}

// Close stops accepting work and joins the workers once the queue drains
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()

		close(p.jobs)
		p.closeErr = p.workers.Wait()
	})
	return p.closeErr
}

// Outcomes returns a copy of the outcomes recorded so far
func (p *Pool) Outcomes() []entities.Outcome {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]entities.Outcome, len(p.outcomes))
	copy(out, p.outcomes)
	return out
}
