// Package review provides the multi-backend fan-out: one task per
// configured backend, sequential or bounded-parallel execution with
// per-backend failure isolation, and synthesis of the successful
// outputs into one artifact.
package review

// Terminal task states. A task settles in exactly one of these; both
// are terminal and there are no retries. The pending and running
// phases are internal to Run and never observable in results.
const (
	TaskDone   = "done"
	TaskFailed = "failed"
)

// TaskResult holds the outcome of one backend task.
type TaskResult struct {
	BackendID string
	// Output is the backend's text, or "" when the task failed.
	Output string
	// Status is TaskDone or TaskFailed.
	Status string
	Error  string
}

// Outcome is the settled state of a whole orchestration run.
type Outcome struct {
	// Results holds exactly one entry per configured backend, in the
	// caller-supplied backend order (never completion order).
	Results []TaskResult
	// Errors maps backend id to failure message for failed tasks
	// only. Errors and the empty-output Results entries are
	// complementary: together they cover every backend exactly once.
	Errors map[string]string
}

// SuccessCount returns how many tasks finished done.
func (o Outcome) SuccessCount() int {
	n := 0
	for _, r := range o.Results {
		if r.Status == TaskDone {
			n++
		}
	}
	return n
}

// Result returns the output recorded for a backend id, or "" if the
// backend failed or is unknown.
func (o Outcome) Result(backendID string) string {
	for _, r := range o.Results {
		if r.BackendID == backendID {
			return r.Output
		}
	}
	return ""
}
