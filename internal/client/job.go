package client

import "context"

// Job is a handle to one finished execution. Because execution is
// synchronous, a handle only ever exists for a job that already reached
// a terminal state.
type Job struct {
	id     string
	client *LocalEmulator
}

// ID returns the job's unique identifier.
func (j *Job) ID() string {
	return j.id
}

// Status returns SUCCEEDED or FAILED.
func (j *Job) Status(ctx context.Context) (string, error) {
	return j.client.Status(ctx, j.id)
}

// Result returns the text extracted from the result marker, or "" if
// the entrypoint never printed one.
func (j *Job) Result(ctx context.Context) (string, error) {
	return j.client.Result(ctx, j.id)
}

// Logs returns the captured output of the run.
func (j *Job) Logs(ctx context.Context) (string, error) {
	return j.client.Logs(ctx, j.id)
}

// Stop acknowledges a stop request. The process finished before this
// handle existed, so there is nothing to terminate.
func (j *Job) Stop() string {
	return j.client.Stop(j.id)
}
