package render

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"pagevault/pkg/log"
)

const (
	defaultWorkers = 2
	defaultQueue   = 64
	defaultTimeout = 30 * time.Second
)

// PoolOptions sizes a Pool. Zero values take defaults.
type PoolOptions struct {
	Workers int
	Queue   int
	Timeout time.Duration
}

// Pool runs rasterization jobs on a fixed set of workers.
type Pool struct {
	rasterizer  Rasterizer
	workers     int
	timeout     time.Duration
	queue       chan Request
	completions chan Completion

	mu      sync.RWMutex
	started bool
	closed  bool
	group   *errgroup.Group
	cancel  context.CancelFunc
}

// NewPool creates a pool. Call Start before requests are processed.
func NewPool(rasterizer Rasterizer, opts PoolOptions) *Pool {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Queue <= 0 {
		opts.Queue = defaultQueue
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}

	return &Pool{
		rasterizer:  rasterizer,
		workers:     opts.Workers,
		timeout:     opts.Timeout,
		queue:       make(chan Request, opts.Queue),
		completions: make(chan Completion, opts.Queue),
	}
}

// Completions is closed after Close once every worker has exited.
func (p *Pool) Completions() <-chan Completion {
	return p.completions
}

// Start launches the workers. Cancelling ctx stops them.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.closed {
		return
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.group, ctx = errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		p.group.Go(func() error {
			p.work(ctx)
			return nil
		})
	}

	log.Debug().Int("workers", p.workers).Dur("timeout", p.timeout).Msg("Render pool started")
}

// RequestRender enqueues req without waiting for it to run.
func (p *Pool) RequestRender(req Request) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPoolClosed
	}

	select {
	case p.queue <- req:
		return nil
	default:
		log.Warn().Str("source_id", req.SourceID).Int("page", req.Page).Msg("Render queue full, request dropped")
		return ErrQueueFull
	}
}

// Close stops accepting requests, drains the queue and waits for workers.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	started := p.started
	p.mu.Unlock()

	var err error
	if started {
		err = p.group.Wait()
		p.cancel()
	}
	close(p.completions)
	return err
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req, ok := <-p.queue:
			if !ok {
				return
			}
			completion := p.render(ctx, req)
			select {
			case p.completions <- completion:
			case <-ctx.Done():
				return
			}
		}
	}
}

type result struct {
	data []byte
	ext  string
	err  error
}

// render bounds one job by the pool timeout even if the rasterizer ignores ctx.
func (p *Pool) render(ctx context.Context, req Request) Completion {
	jobCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		data, ext, err := p.rasterizer.Rasterize(jobCtx, req)
		done <- result{data: data, ext: ext, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil && errors.Is(jobCtx.Err(), context.DeadlineExceeded) {
			res.err = RenderTimeoutError{SourceID: req.SourceID, Page: req.Page, After: p.timeout}
		}
		if res.err != nil {
			log.Error().Err(res.err).Str("source_id", req.SourceID).Int("page", req.Page).Msg("Render failed")
		}
		return Completion{Request: req, Data: res.data, Ext: res.ext, Err: res.err}
	case <-jobCtx.Done():
		err := jobCtx.Err()
		if errors.Is(err, context.DeadlineExceeded) {
			err = RenderTimeoutError{SourceID: req.SourceID, Page: req.Page, After: p.timeout}
		}
		log.Error().Err(err).Str("source_id", req.SourceID).Int("page", req.Page).Msg("Render abandoned")
		return Completion{Request: req, Err: err}
	}
}
