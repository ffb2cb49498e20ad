package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"funcplane/internal/store"
)

func TestSaveAndListFunctions_PreservesOrder(t *testing.T) {
	r := New()
	ctx := context.Background()

	titles := []string{"first", "second", "third"}
	for _, title := range titles {
		if err := r.SaveFunction(ctx, &store.Function{Title: title}); err != nil {
			t.Fatalf("SaveFunction failed: %v", err)
		}
	}

	fns, err := r.ListFunctions(ctx)
	if err != nil {
		t.Fatalf("ListFunctions failed: %v", err)
	}
	if len(fns) != 3 {
		t.Fatalf("expected 3 functions, got %d", len(fns))
	}
	for i, title := range titles {
		if fns[i].Title != title {
			t.Errorf("position %d: expected %s, got %s", i, title, fns[i].Title)
		}
	}
}

func TestGetFunctionByTitle_LastWriteWins(t *testing.T) {
	r := New()
	ctx := context.Background()

	r.SaveFunction(ctx, &store.Function{Title: "dup", Entrypoint: "old.py"})
	r.SaveFunction(ctx, &store.Function{Title: "dup", Entrypoint: "new.py"})

	fn, err := r.GetFunctionByTitle(ctx, "dup")
	if err != nil {
		t.Fatalf("GetFunctionByTitle failed: %v", err)
	}
	if fn.Entrypoint != "new.py" {
		t.Errorf("expected most recent record, got entrypoint %s", fn.Entrypoint)
	}

	// The list still holds both records.
	fns, _ := r.ListFunctions(ctx)
	if len(fns) != 2 {
		t.Errorf("expected append-only list of 2, got %d", len(fns))
	}
}

func TestGetFunctionByTitle_NotFound(t *testing.T) {
	r := New()

	_, err := r.GetFunctionByTitle(context.Background(), "missing")
	if !errors.Is(err, store.ErrFunctionNotFound) {
		t.Errorf("expected ErrFunctionNotFound, got %v", err)
	}
}

func TestSaveAndGetJob(t *testing.T) {
	r := New()
	ctx := context.Background()

	job := &store.Job{ID: "job-1", Status: "SUCCEEDED", Result: "42", Logs: "hello\n"}
	if err := r.SaveJob(ctx, job); err != nil {
		t.Fatalf("SaveJob failed: %v", err)
	}

	got, err := r.GetJobByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("GetJobByID failed: %v", err)
	}
	if got.Status != "SUCCEEDED" || got.Result != "42" || got.Logs != "hello\n" {
		t.Errorf("unexpected job record: %+v", got)
	}
}

func TestGetJobByID_NotFound(t *testing.T) {
	r := New()

	_, err := r.GetJobByID(context.Background(), "nope")
	if !errors.Is(err, store.ErrJobNotFound) {
		t.Errorf("expected ErrJobNotFound, got %v", err)
	}
}

func TestListJobs_InsertionOrderExactlyOnce(t *testing.T) {
	r := New()
	ctx := context.Background()

	ids := []string{"a", "b", "c"}
	for _, id := range ids {
		r.SaveJob(ctx, &store.Job{ID: id})
	}

	jobs, err := r.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("expected 3 jobs, got %d", len(jobs))
	}
	for i, id := range ids {
		if jobs[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, jobs[i].ID)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.SaveFunction(ctx, &store.Function{Title: fmt.Sprintf("fn-%d", n)})
		}(i)
		go func(n int) {
			defer wg.Done()
			r.SaveJob(ctx, &store.Job{ID: fmt.Sprintf("job-%d", n)})
		}(i)
	}
	wg.Wait()

	fns, _ := r.ListFunctions(ctx)
	if len(fns) != 50 {
		t.Errorf("expected 50 functions, got %d", len(fns))
	}
	jobs, _ := r.ListJobs(ctx)
	if len(jobs) != 50 {
		t.Errorf("expected 50 jobs, got %d", len(jobs))
	}
}
