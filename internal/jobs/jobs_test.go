package jobs_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	dbfs "github.com/jobdeck/jobdeck/db"
	"github.com/jobdeck/jobdeck/internal/db"
	"github.com/jobdeck/jobdeck/internal/jobs"
)

func setupQueue(t *testing.T) (*jobs.Repository, func()) {
	t.Helper()
	ctx := context.Background()
	d, err := db.New(ctx, ":memory:")
	if err != nil {
		t.Fatalf("db.New: %v", err)
	}
	if err := db.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		d.Close()
		t.Fatalf("migrate: %v", err)
	}
	return jobs.NewRepository(d), func() { d.Close() }
}

func TestEnqueueAndProcess(t *testing.T) {
	repo, cleanup := setupQueue(t)
	defer cleanup()
	ctx := context.Background()

	handled := make(chan struct{}, 1)
	handlers := map[string]jobs.Handler{
		"test": func(ctx context.Context, j *jobs.Job) error {
			handled <- struct{}{}
			return nil
		},
	}
	pool := jobs.NewWorkerPool(repo, handlers, nil, 1)
	pool.Start(ctx)
	defer pool.Stop()

	if _, err := pool.Enqueue(ctx, "test", map[string]string{"foo": "bar"}, 10, 3); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	select {
	case <-handled:
		// ok
	case <-time.After(3 * time.Second):
		t.Fatalf("handler was not called")
	}
}

func TestFailedJobMovesToDeadLetter(t *testing.T) {
	repo, cleanup := setupQueue(t)
	defer cleanup()
	ctx := context.Background()

	id, err := repo.Enqueue(ctx, &jobs.Job{Type: "broken", Payload: []byte(`{}`), MaxAttempts: 1})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	j, err := repo.FetchNext(ctx)
	if err != nil || j == nil {
		t.Fatalf("fetch: %v %#v", err, j)
	}
	if j.ID != id {
		t.Fatalf("expected job %d, got %d", id, j.ID)
	}

	// simulate the worker exhausting attempts
	j.Attempts++
	j.LastError = fmt.Errorf("handler exploded").Error()
	j.Status = "failed"
	if err := repo.MoveToDeadLetter(ctx, j); err != nil {
		t.Fatalf("move to dead letter: %v", err)
	}

	if next, err := repo.FetchNext(ctx); err != nil || next != nil {
		t.Fatalf("expected empty queue after dead-letter, got %v %#v", err, next)
	}
}

func TestRetryScheduling(t *testing.T) {
	repo, cleanup := setupQueue(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := repo.Enqueue(ctx, &jobs.Job{Type: "retryable", MaxAttempts: 3}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	j, err := repo.FetchNext(ctx)
	if err != nil || j == nil {
		t.Fatalf("fetch: %v", err)
	}

	// a retry scheduled in the future is not fetchable
	j.Attempts = 1
	j.Status = "retry"
	future := time.Now().Add(time.Hour)
	j.NextTryAt = &future
	if err := repo.UpdateJob(ctx, j); err != nil {
		t.Fatalf("update: %v", err)
	}

	if next, err := repo.FetchNext(ctx); err != nil || next != nil {
		t.Fatalf("expected no fetchable job, got %v %#v", err, next)
	}

	// once the retry time passes it becomes fetchable again
	past := time.Now().Add(-time.Minute)
	j.NextTryAt = &past
	if err := repo.UpdateJob(ctx, j); err != nil {
		t.Fatalf("update: %v", err)
	}
	next, err := repo.FetchNext(ctx)
	if err != nil || next == nil {
		t.Fatalf("expected fetchable retry, got %v %#v", err, next)
	}
	if next.Attempts != 1 || next.Status != "retry" {
		t.Fatalf("unexpected job state: %#v", next)
	}
}

func TestBackoffDuration(t *testing.T) {
	if jobs.BackoffDuration(0) != time.Second {
		t.Fatalf("attempt 0 should back off one second")
	}
	if jobs.BackoffDuration(3) != 8*time.Second {
		t.Fatalf("expected exponential backoff, got %v", jobs.BackoffDuration(3))
	}
	if jobs.BackoffDuration(30) != 5*time.Minute {
		t.Fatalf("expected capped backoff, got %v", jobs.BackoffDuration(30))
	}
}
