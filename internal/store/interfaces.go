package store

import (
	"context"
	"errors"
)

// Sentinel errors shared by all store implementations.
var (
	ErrFunctionNotFound = errors.New("function not found")
	ErrJobNotFound      = errors.New("job not found")
)

// FunctionStore handles the persistence of function definitions.
type FunctionStore interface {
	// SaveFunction appends a new function record. Duplicate titles are
	// allowed; the registry is append-only.
	SaveFunction(ctx context.Context, fn *Function) error

	// ListFunctions returns all records in registration order.
	ListFunctions(ctx context.Context) ([]*Function, error)

	// GetFunctionByTitle returns the most recently registered record with
	// the given title, or ErrFunctionNotFound.
	GetFunctionByTitle(ctx context.Context, title string) (*Function, error)
}

// JobStore handles the persistence of finished job records.
type JobStore interface {
	// SaveJob writes a finished job record.
	SaveJob(ctx context.Context, job *Job) error

	// GetJobByID returns a job by its ID, or ErrJobNotFound.
	GetJobByID(ctx context.Context, id string) (*Job, error)

	// ListJobs returns all job records in insertion order.
	ListJobs(ctx context.Context) ([]*Job, error)
}

// Registry combines the two stores behind the emulator.
type Registry interface {
	FunctionStore
	JobStore
}
