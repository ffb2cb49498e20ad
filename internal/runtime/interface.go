// Package runtime provides the Runtime interface for executing function
// entrypoints. It isolates process spawning, stream capture and exit code
// handling behind a narrow interface with exec, docker and kubernetes
// backends.
package runtime

import (
	"context"
)

// StartOptions contains the parameters for starting an entrypoint.
type StartOptions struct {
	// Interpreter invoked to run the script, e.g. "python".
	Interpreter string

	// Script is the path handed to the interpreter. Callers pass the
	// working directory and entrypoint concatenated verbatim; no
	// separator normalization happens here.
	Script string

	// Env is the complete environment for the process. The host
	// environment is NOT inherited; whatever the caller merged in is
	// all the process sees.
	Env map[string]string
}

// Result holds the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runtime starts entrypoint processes.
type Runtime interface {
	// Start begins execution and returns a handle. Output is captured,
	// not streamed; the process is still running when Start returns.
	Start(ctx context.Context, opts StartOptions) (Handle, error)
}

// Handle represents a started entrypoint process.
type Handle interface {
	// Wait blocks until the process exits and returns its captured
	// output and exit code. A nonzero exit code is not an error.
	Wait(ctx context.Context) (Result, error)

	// Stop forcefully terminates the process.
	Stop(ctx context.Context) error
}
