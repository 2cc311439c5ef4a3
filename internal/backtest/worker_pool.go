package backtest

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/vqminh/etf-meanrev/pkg/config"
	"github.com/vqminh/etf-meanrev/pkg/types"
)

// WorkerPool runs many backtests in parallel, one goroutine per worker.
// Each worker builds its own engine per job, so nothing is shared between
// concurrent runs except the read-only bar slice.
type WorkerPool struct {
	workerCount int
	jobQueue    chan SweepJob
	resultQueue chan SweepResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// SweepJob is one configuration to backtest over a shared bar series.
type SweepJob struct {
	ID     string
	Config config.StrategyConfig
	Bars   []types.Bar
}

// SweepResult is the outcome of one sweep job.
type SweepResult struct {
	ID       string
	Config   config.StrategyConfig
	Result   *Result
	Duration time.Duration
	Err      error
}

// NewWorkerPool creates a pool. A non-positive workerCount defaults to the
// number of CPUs.
func NewWorkerPool(workerCount, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan SweepJob, jobBufferSize),
		resultQueue: make(chan SweepResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop drains the pool gracefully: no new jobs, workers finish what they
// hold, then the result channel closes.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues a job. It fails only when the pool is shutting down.
func (wp *WorkerPool) Submit(job SweepJob) error {
	// Checked first so a stopped pool errors instead of sending on the
	// closed queue.
	select {
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	default:
	}

	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results returns the channel completed jobs arrive on.
func (wp *WorkerPool) Results() <-chan SweepResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.process(job)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) process(job SweepJob) SweepResult {
	start := time.Now()

	out := SweepResult{ID: job.ID, Config: job.Config}

	if err := job.Config.Validate(); err != nil {
		out.Err = err
		out.Duration = time.Since(start)
		return out
	}

	// The vector engine is the sweep workhorse; parity with the reference
	// engine is enforced separately.
	out.Result, out.Err = NewVectorEngine(job.Config).Run(job.Bars)
	out.Duration = time.Since(start)
	return out
}

// RunSweep fans a batch of configurations over the pool and collects every
// result. Job IDs are positional so a caller can map results back to its
// input order.
func RunSweep(workerCount int, configs []config.StrategyConfig, bars []types.Bar) []SweepResult {
	pool := NewWorkerPool(workerCount, len(configs))
	pool.Start()

	go func() {
		for i, cfg := range configs {
			job := SweepJob{
				ID:     fmt.Sprintf("sweep_%04d", i),
				Config: cfg,
				Bars:   bars,
			}
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	results := make([]SweepResult, 0, len(configs))
	for i := 0; i < len(configs); i++ {
		results = append(results, <-pool.Results())
	}
	pool.Stop()

	return results
}
