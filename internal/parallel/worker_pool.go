// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"sync"
	"time"

	"statement-scan/internal/fusion"
	"statement-scan/internal/observability"
)

// ProcessFunc runs the full pipeline for one statement file. Supplied by
// the caller so the pool stays independent of pipeline construction.
type ProcessFunc func(ctx context.Context, path string) (*fusion.FusionResult, error)

// WorkerPool processes statement files in parallel. Documents are
// independent, so the only coordination is result collection.
type WorkerPool struct {
	workers  int
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	observer *observability.StandardObserver
	process  ProcessFunc
}

// Job represents one statement file to process.
type Job struct {
	JobID string
	Path  string
}

// Result represents processing results for one file.
type Result struct {
	JobID    string
	Path     string
	Fusion   *fusion.FusionResult
	Error    error
	Duration time.Duration
}

// jobTimeout bounds a single document run.
const jobTimeout = 5 * time.Minute

// NewWorkerPool creates a pool of workers running the given process
// function.
func NewWorkerPool(workers int, process ProcessFunc, observer *observability.StandardObserver) *WorkerPool {
	ctx, cancel := context.WithCancel(context.Background())
	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      ctx,
		cancel:   cancel,
		observer: observer,
		process:  process,
	}
}

// Start initializes worker goroutines.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Close signals that no more jobs will be submitted.
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Stop waits for in-flight jobs and shuts the pool down.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
	wp.cancel()
}

// Submit adds a job to the queue.
func (wp *WorkerPool) Submit(job *Job) {
	select {
	case wp.jobs <- job:
	case <-wp.ctx.Done():
	}
}

// Results returns the results channel.
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs from the queue.
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		result := wp.processJob(job, id)

		select {
		case wp.results <- result:
		case <-wp.ctx.Done():
			return
		}
	}
}

// processJob executes a single job under the per-document timeout.
func (wp *WorkerPool) processJob(job *Job, workerID int) *Result {
	start := time.Now()

	var finishTiming func(bool, map[string]interface{})
	if wp.observer != nil {
		finishTiming = wp.observer.StartTiming("worker_pool", "process_job", job.Path)
	}

	jobCtx, cancel := context.WithTimeout(wp.ctx, jobTimeout)
	defer cancel()

	fused, err := wp.process(jobCtx, job.Path)
	duration := time.Since(start)

	if finishTiming != nil {
		recordCount := 0
		if fused != nil {
			recordCount = fused.RecordCount
		}
		finishTiming(err == nil, map[string]interface{}{
			"worker_id":    workerID,
			"record_count": recordCount,
			"duration_ms":  duration.Milliseconds(),
		})
	}

	return &Result{
		JobID:    job.JobID,
		Path:     job.Path,
		Fusion:   fused,
		Error:    err,
		Duration: duration,
	}
}
