package importer

import (
	"log"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// PoolConfig sizes the worker pool. Workers start at Core and grow toward Max
// only while the queue holding QueueCapacity tasks is full.
type PoolConfig struct {
	Core          int
	Max           int
	QueueCapacity int
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{Core: 4, Max: 8, QueueCapacity: 16}
}

func (c PoolConfig) normalized() PoolConfig {
	if c.Core <= 0 {
		c.Core = 1
	}
	if c.Max < c.Core {
		c.Max = c.Core
	}
	if c.QueueCapacity < 0 {
		c.QueueCapacity = 0
	}
	return c
}

// Pool runs submitted tasks on a bounded set of workers. Submit blocks when
// all workers are busy and the queue is full; nothing is dropped.
type Pool struct {
	g     errgroup.Group
	tasks chan func()
	width atomic.Int32
}

func NewPool(cfg PoolConfig) *Pool {
	cfg = cfg.normalized()
	p := &Pool{tasks: make(chan func(), cfg.QueueCapacity)}
	p.g.SetLimit(cfg.Max)
	for i := 0; i < cfg.Core; i++ {
		p.g.Go(p.worker)
		p.width.Add(1)
	}
	return p
}

// Submit queues task. If the queue is full another worker is started, up to
// Max; after that the caller waits for room.
func (p *Pool) Submit(task func()) {
	select {
	case p.tasks <- task:
		return
	default:
	}
	if p.g.TryGo(p.worker) {
		p.width.Add(1)
	}
	p.tasks <- task
}

// Wait closes the pool to new tasks and blocks until every queued task ran.
func (p *Pool) Wait() {
	close(p.tasks)
	_ = p.g.Wait()
}

// Width is the number of workers started so far.
func (p *Pool) Width() int { return int(p.width.Load()) }

func (p *Pool) worker() error {
	for task := range p.tasks {
		run(task)
	}
	return nil
}

func run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("importer: task panic: %v", r)
		}
	}()
	task()
}
