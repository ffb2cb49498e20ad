package client

import (
	"context"
	"encoding/json"

	"funcplane/internal/store"
)

// Function is a handle to a registered function. It wraps the stored
// record and keeps a back-reference to the emulator that owns it, so a
// handle obtained from a listing can be run directly.
type Function struct {
	record *store.Function
	client *LocalEmulator
}

// Title returns the function's registered title.
func (f *Function) Title() string {
	return f.record.Title
}

// Provider returns the optional provider name.
func (f *Function) Provider() string {
	return f.record.Provider
}

// Entrypoint returns the entrypoint path relative to the working directory.
func (f *Function) Entrypoint() string {
	return f.record.Entrypoint
}

// WorkingDir returns the registered working directory.
func (f *Function) WorkingDir() string {
	return f.record.WorkingDir
}

// EnvVars returns the registered environment variables.
func (f *Function) EnvVars() map[string]string {
	return f.record.EnvVars
}

// Dependencies decodes the stored dependency list.
func (f *Function) Dependencies() []string {
	var deps []string
	if f.record.Dependencies != "" {
		json.Unmarshal([]byte(f.record.Dependencies), &deps)
	}
	return deps
}

// Run executes this function through the owning emulator.
func (f *Function) Run(ctx context.Context, args map[string]interface{}) (*Job, error) {
	return f.client.Run(ctx, f.record.Title, args)
}
