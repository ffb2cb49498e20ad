// Package api contains shared JSON request/response structs.
// This package is shared between the CLI and the local daemon.
package api

// Job status values reported by the emulator. Execution is synchronous,
// so a job is never observable in an intermediate state.
const (
	JobStatusSucceeded = "SUCCEEDED"
	JobStatusFailed    = "FAILED"
)

// RegisterFunctionRequest is the request body for registering a function.
type RegisterFunctionRequest struct {
	Title        string            `json:"title"`
	Provider     string            `json:"provider,omitempty"`
	Entrypoint   string            `json:"entrypoint"`
	WorkingDir   string            `json:"working_dir"`
	EnvVars      map[string]string `json:"env_vars,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty"`
}

// RegisterFunctionResponse is the response body after registering a function.
type RegisterFunctionResponse struct {
	Title string `json:"title"`
}

// FunctionResponse represents a registered function in API responses.
type FunctionResponse struct {
	Title        string            `json:"title"`
	Provider     string            `json:"provider,omitempty"`
	Entrypoint   string            `json:"entrypoint"`
	WorkingDir   string            `json:"working_dir"`
	EnvVars      map[string]string `json:"env_vars,omitempty"`
	Dependencies []string          `json:"dependencies,omitempty"`
}

// ListFunctionsResponse is the response body for listing registered functions.
type ListFunctionsResponse struct {
	Functions []FunctionResponse `json:"functions"`
}

// RunFunctionRequest is the request body for running a registered function.
// Arguments are passed to the entrypoint as a JSON-encoded environment variable.
type RunFunctionRequest struct {
	Arguments map[string]interface{} `json:"arguments,omitempty"`
}

// RunFunctionResponse is the response body after a run completes.
// The daemon blocks for the whole subprocess lifetime, so the terminal
// status and result are already known when this is written.
type RunFunctionResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
}

// JobResponse represents a finished job in API responses.
type JobResponse struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Result string `json:"result,omitempty"`
}

// ListJobsResponse is the response body for listing jobs.
type ListJobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

// GetLogsResponse is the response body for fetching a job's captured output.
type GetLogsResponse struct {
	Logs string `json:"logs"`
}

// StopJobResponse is the acknowledgment returned by the stop endpoint.
type StopJobResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
