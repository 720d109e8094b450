package tasks

import (
	"context"
	"time"

	"github.com/tokengate/tokengate/internal/logging"
)

// TaskFunc is the unit of work. It receives a logger whose output is both
// written to the process log and retained for the admin API.
type TaskFunc func(ctx context.Context, logger logging.InternalLogger) error

// TaskStatus is the queryable state of a registered task.
type TaskStatus struct {
	Name       string    `json:"name,omitempty"`
	Running    bool      `json:"running,omitempty"`
	LastRun    time.Time `json:"last_run"`
	LastResult string    `json:"last_result,omitempty"`
	NextRun    time.Time `json:"next_run"`
}

// LogEntry is a single captured log line of a task run.
type LogEntry struct {
	Time    time.Time `json:"time"`
	Level   string    `json:"level,omitempty"`
	Message string    `json:"message,omitempty"`
}
