package client

import (
	"errors"
	"fmt"
)

// ErrUnsupported marks operations that exist only for interface parity
// with remote-capable clients and have no local behavior.
var ErrUnsupported = errors.New("not supported by the local emulator")

// ValidationError reports an invalid function definition at registration.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NotFoundError reports an unknown function title or job ID.
type NotFoundError struct {
	Kind string // "function" or "job"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// InstallError reports a failed dependency installation. The failure is
// fatal: the run is aborted before any subprocess is spawned and no job
// record is written.
type InstallError struct {
	Package string
	Err     error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("failed to install dependency %q: %v", e.Package, e.Err)
}

func (e *InstallError) Unwrap() error {
	return e.Err
}
