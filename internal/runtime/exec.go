package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
)

// ExecRuntime implements the Runtime interface using raw OS processes.
// This is the default backend and matches the synchronous local
// execution contract exactly.
type ExecRuntime struct{}

// NewExecRuntime creates a new process-based runtime.
func NewExecRuntime() *ExecRuntime {
	return &ExecRuntime{}
}

// ExecHandle represents a running OS process.
type ExecHandle struct {
	cmd    *exec.Cmd
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func envList(m map[string]string) []string {
	env := make([]string, 0, len(m))
	for k, v := range m {
		env = append(env, fmt.Sprintf("%s=%s", k, v))
	}
	return env
}

// Start implements Runtime.Start using os/exec.
func (e *ExecRuntime) Start(_ context.Context, opts StartOptions) (Handle, error) {
	if opts.Interpreter == "" {
		return nil, fmt.Errorf("interpreter is required")
	}
	if opts.Script == "" {
		return nil, fmt.Errorf("script is required")
	}

	cmd := exec.Command(opts.Interpreter, opts.Script)
	cmd.Env = envList(opts.Env)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s %s: %w", opts.Interpreter, opts.Script, err)
	}

	return &ExecHandle{cmd: cmd, stdout: &stdout, stderr: &stderr}, nil
}

// Wait blocks until the process exits. The captured streams are only
// read after Wait returns, so no locking is needed around the buffers.
func (h *ExecHandle) Wait(ctx context.Context) (Result, error) {
	done := make(chan error, 1)
	go func() {
		done <- h.cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		h.cmd.Process.Kill()
		<-done
		return Result{ExitCode: -1}, ctx.Err()
	case err := <-done:
		result := Result{
			ExitCode: 0,
			Stdout:   h.stdout.String(),
			Stderr:   h.stderr.String(),
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		if err != nil {
			result.ExitCode = -1
			return result, err
		}
		return result, nil
	}
}

// Stop terminates the process, SIGTERM first and SIGKILL if the process
// ignores it before the context expires.
func (h *ExecHandle) Stop(ctx context.Context) error {
	if h.cmd.Process == nil {
		return nil
	}
	if err := h.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return err
	}

	exited := make(chan struct{})
	go func() {
		h.cmd.Process.Wait()
		close(exited)
	}()

	select {
	case <-exited:
		return nil
	case <-ctx.Done():
		return h.cmd.Process.Kill()
	}
}
