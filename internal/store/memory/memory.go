// Package memory implements the store interfaces with in-process state.
// This is the default registry: state lives for the lifetime of the
// emulator instance and is lost on shutdown.
package memory

import (
	"context"
	"sync"

	"funcplane/internal/store"
)

// Registry is a mutex-guarded in-memory registry. The original access
// pattern is single-threaded, but the daemon serves concurrent requests,
// so every operation takes the lock.
type Registry struct {
	mu        sync.Mutex
	functions []*store.Function
	// byTitle points at the most recently registered function per title.
	byTitle map[string]*store.Function
	jobs    map[string]*store.Job
	// jobOrder preserves insertion order for listing.
	jobOrder []string
}

// New creates an empty in-memory registry.
func New() *Registry {
	return &Registry{
		byTitle: make(map[string]*store.Function),
		jobs:    make(map[string]*store.Job),
	}
}

// Ping reports readiness. In-process state is always reachable.
func (r *Registry) Ping(_ context.Context) error {
	return nil
}

// SaveFunction appends a function record. A duplicate title makes the new
// record the lookup target (last write wins) while the list keeps both.
func (r *Registry) SaveFunction(_ context.Context, fn *store.Function) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.functions = append(r.functions, fn)
	r.byTitle[fn.Title] = fn
	return nil
}

// ListFunctions returns all records in registration order.
func (r *Registry) ListFunctions(_ context.Context) ([]*store.Function, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*store.Function, len(r.functions))
	copy(out, r.functions)
	return out, nil
}

// GetFunctionByTitle returns the most recently registered record with the
// given title.
func (r *Registry) GetFunctionByTitle(_ context.Context, title string) (*store.Function, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn, ok := r.byTitle[title]
	if !ok {
		return nil, store.ErrFunctionNotFound
	}
	return fn, nil
}

// SaveJob writes a finished job record.
func (r *Registry) SaveJob(_ context.Context, job *store.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; !exists {
		r.jobOrder = append(r.jobOrder, job.ID)
	}
	r.jobs[job.ID] = job
	return nil
}

// GetJobByID returns a job by its ID.
func (r *Registry) GetJobByID(_ context.Context, id string) (*store.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

// ListJobs returns all job records in insertion order.
func (r *Registry) ListJobs(_ context.Context) ([]*store.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*store.Job, 0, len(r.jobOrder))
	for _, id := range r.jobOrder {
		out = append(out, r.jobs[id])
	}
	return out, nil
}
