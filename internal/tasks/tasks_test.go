package tasks

import (
	"context"
	"errors"
	"testing"

	"github.com/tokengate/tokengate/internal/logging"
)

func TestRunCapturesLogsAndResult(t *testing.T) {
	task := &RunnableTask{
		Name: "test",
		Handler: func(ctx context.Context, logger logging.InternalLogger) error {
			logger.Info("doing work on %d items", 3)
			return nil
		},
	}

	task.Run()

	status := task.Status()
	if status.Running {
		t.Error("task still marked running after Run returned")
	}
	if status.LastResult != "success" {
		t.Errorf("LastResult = %q, want 'success'", status.LastResult)
	}
	if status.LastRun.IsZero() {
		t.Error("LastRun not recorded")
	}

	logs := task.GetLogs()
	found := false
	for _, entry := range logs {
		if entry.Message == "doing work on 3 items" {
			found = true
		}
	}
	if !found {
		t.Errorf("handler log line not captured, got %v", logs)
	}
}

func TestRunRecordsFailure(t *testing.T) {
	task := &RunnableTask{
		Name: "failing",
		Handler: func(ctx context.Context, logger logging.InternalLogger) error {
			return errors.New("boom")
		},
	}

	task.Run()

	if got := task.Status().LastResult; got != "failed: boom" {
		t.Errorf("LastResult = %q, want 'failed: boom'", got)
	}
}

func TestManagerTriggerUnknownTask(t *testing.T) {
	m := NewManager()

	err := m.Trigger("nope")
	var notFound TaskNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Trigger() error = %v, want TaskNotFoundError", err)
	}
	if notFound.Name != "nope" {
		t.Errorf("Name = %q", notFound.Name)
	}
}

func TestManagerListStatus(t *testing.T) {
	m := NewManager()
	// interval 0 keeps the scheduler off
	m.Register("a", 0, func(ctx context.Context, logger logging.InternalLogger) error {
		return nil
	})

	statuses := m.ListStatus()
	if len(statuses) != 1 || statuses[0].Name != "a" {
		t.Errorf("ListStatus() = %v, want single task 'a'", statuses)
	}
	if !statuses[0].NextRun.IsZero() {
		t.Error("on-demand task should have no scheduled next run")
	}
}

type fakeDeleter struct {
	deleted int64
	err     error
}

func (f *fakeDeleter) DeleteExpired(_ context.Context) (int64, error) {
	return f.deleted, f.err
}

func TestTokenCleanupTask(t *testing.T) {
	task := &RunnableTask{
		Name:    TokenCleanupTaskName,
		Handler: NewTokenCleanupTask(&fakeDeleter{deleted: 2}),
	}
	task.Run()
	if got := task.Status().LastResult; got != "success" {
		t.Errorf("LastResult = %q, want 'success'", got)
	}

	failing := &RunnableTask{
		Name:    TokenCleanupTaskName,
		Handler: NewTokenCleanupTask(&fakeDeleter{err: errors.New("store unavailable")}),
	}
	failing.Run()
	if got := failing.Status().LastResult; got == "success" {
		t.Error("store fault should surface as a failed run")
	}
}

func TestAppendLogBounded(t *testing.T) {
	task := &RunnableTask{Name: "bounded"}
	for i := 0; i < MaxLogsPerTask+5; i++ {
		task.AppendLog("info", "line")
	}
	if got := len(task.GetLogs()); got != MaxLogsPerTask {
		t.Errorf("log buffer length = %d, want %d", got, MaxLogsPerTask)
	}
}
