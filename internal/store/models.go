// Package store contains the registry layer for funcplane.
package store

import "time"

// Function is a registered function definition as kept in the registry.
// Records are immutable after registration; there is no delete operation.
type Function struct {
	Title      string
	Provider   string
	Entrypoint string
	WorkingDir string
	EnvVars    map[string]string
	// Arguments is the serialized default-arguments mapping. It is always
	// "{}" locally and exists for parity with remote registry records.
	Arguments string
	// Dependencies is a JSON array of package specifiers, installed in order
	// before each run.
	Dependencies string
	CreatedAt    time.Time
}

// Job is one finished execution of a registered function.
// A record is written exactly once, at the moment the run completes,
// and never mutated afterwards.
type Job struct {
	ID        string
	Title     string
	Status    string
	Logs      string
	Result    string
	CreatedAt time.Time
}
