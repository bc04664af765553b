package review

import (
	"context"
	"log"
	"sync"

	"github.com/jalajpachoulydell/smart-code-review/internal/backend"
)

// DefaultConcurrencyCap bounds parallel backend calls when the caller
// does not configure a cap.
const DefaultConcurrencyCap = 8

// Task pairs a backend id with the request it should receive.
type Task struct {
	BackendID string
	Request   backend.Request
}

// Options selects the execution mode for a run.
type Options struct {
	// Parallel runs tasks concurrently under ConcurrencyCap instead
	// of one at a time in list order.
	Parallel bool
	// ConcurrencyCap bounds in-flight tasks in parallel mode.
	// Zero or negative means DefaultConcurrencyCap.
	ConcurrencyCap int
}

// Run executes one task per backend and returns only after every
// task has settled. A task failure is recorded under its backend id
// and never stops the others; there is no early exit and no retry.
// The orchestrator imposes no deadline of its own; cancellation is
// the invoker's concern (its HTTP timeout, or ctx from the caller).
//
// Results come back in task order regardless of completion order, so
// downstream consumers can rely on the caller-supplied backend order.
func Run(ctx context.Context, tasks []Task, invoke backend.Invoker, opts Options) Outcome {
	results := make([]TaskResult, len(tasks))

	// Each worker writes only its own index, so the slice needs no
	// lock; the WaitGroup join publishes the writes.
	runOne := func(i int) {
		t := tasks[i]
		out, err := invoke(ctx, t.BackendID, t.Request)
		if err != nil {
			results[i] = TaskResult{
				BackendID: t.BackendID,
				Status:    TaskFailed,
				Error:     err.Error(),
			}
			log.Printf("review: backend %s failed: %v", t.BackendID, err)
			return
		}
		results[i] = TaskResult{
			BackendID: t.BackendID,
			Output:    out,
			Status:    TaskDone,
		}
	}

	if opts.Parallel && len(tasks) > 1 {
		limit := opts.ConcurrencyCap
		if limit <= 0 {
			limit = DefaultConcurrencyCap
		}
		if limit > len(tasks) {
			limit = len(tasks)
		}
		sem := make(chan struct{}, limit)
		var wg sync.WaitGroup
		for i := range tasks {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				runOne(i)
			}(i)
		}
		wg.Wait()
	} else {
		for i := range tasks {
			runOne(i)
		}
	}

	outcome := Outcome{
		Results: results,
		Errors:  make(map[string]string),
	}
	for _, r := range results {
		if r.Status == TaskFailed {
			outcome.Errors[r.BackendID] = r.Error
		}
	}
	return outcome
}
