package runtime

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeScript drops a shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestStart_Success(t *testing.T) {
	rt := NewExecRuntime()
	script := writeScript(t, t.TempDir(), "ok.sh", "echo hello\n")

	ctx := context.Background()
	handle, err := rt.Start(ctx, StartOptions{
		Interpreter: "sh",
		Script:      script,
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if handle == nil {
		t.Fatal("expected handle to be non-nil")
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Stdout, "hello") {
		t.Errorf("expected stdout to contain 'hello', got: %s", result.Stdout)
	}
}

func TestStart_MissingInterpreter(t *testing.T) {
	rt := NewExecRuntime()

	_, err := rt.Start(context.Background(), StartOptions{Script: "x.sh"})
	if err == nil {
		t.Fatal("expected error for missing interpreter")
	}
	if !strings.Contains(err.Error(), "interpreter is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStart_MissingScript(t *testing.T) {
	rt := NewExecRuntime()

	_, err := rt.Start(context.Background(), StartOptions{Interpreter: "sh"})
	if err == nil {
		t.Fatal("expected error for missing script")
	}
	if !strings.Contains(err.Error(), "script is required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStart_InterpreterNotFound(t *testing.T) {
	rt := NewExecRuntime()

	_, err := rt.Start(context.Background(), StartOptions{
		Interpreter: "nonexistent-interpreter-xyz",
		Script:      "whatever.py",
	})
	if err == nil {
		t.Fatal("expected error for non-existent interpreter")
	}
}

func TestWait_ExitCodeNonZero(t *testing.T) {
	rt := NewExecRuntime()
	script := writeScript(t, t.TempDir(), "fail.sh", "echo broken\nexit 3\n")

	ctx := context.Background()
	handle, err := rt.Start(ctx, StartOptions{Interpreter: "sh", Script: script})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("expected exit code 3, got %d", result.ExitCode)
	}
}

func TestWait_SeparatesStreams(t *testing.T) {
	rt := NewExecRuntime()
	script := writeScript(t, t.TempDir(), "streams.sh", "echo out-line\necho err-line >&2\n")

	ctx := context.Background()
	handle, err := rt.Start(ctx, StartOptions{Interpreter: "sh", Script: script})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "out-line") || strings.Contains(result.Stdout, "err-line") {
		t.Errorf("unexpected stdout: %q", result.Stdout)
	}
	if !strings.Contains(result.Stderr, "err-line") || strings.Contains(result.Stderr, "out-line") {
		t.Errorf("unexpected stderr: %q", result.Stderr)
	}
}

func TestStart_EnvironmentIsNotInherited(t *testing.T) {
	rt := NewExecRuntime()
	script := writeScript(t, t.TempDir(), "env.sh", `echo "var=$FUNCPLANE_TEST_VAR host=$HOME"`+"\n")

	t.Setenv("FUNCPLANE_TEST_VAR", "from-host")

	ctx := context.Background()
	handle, err := rt.Start(ctx, StartOptions{
		Interpreter: "sh",
		Script:      script,
		Env: map[string]string{
			"FUNCPLANE_TEST_VAR": "from-opts",
		},
	})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := handle.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if !strings.Contains(result.Stdout, "var=from-opts") {
		t.Errorf("expected env from options, got: %s", result.Stdout)
	}
	if !strings.HasSuffix(strings.TrimSpace(result.Stdout), "host=") {
		t.Errorf("expected HOME to be absent, got: %s", result.Stdout)
	}
}

func TestWait_ContextCancellation(t *testing.T) {
	rt := NewExecRuntime()
	script := writeScript(t, t.TempDir(), "sleep.sh", "sleep 10\n")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	handle, err := rt.Start(ctx, StartOptions{Interpreter: "sh", Script: script})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := handle.Wait(ctx)
	if err != context.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
	if result.ExitCode != -1 {
		t.Errorf("expected exit code -1 on timeout, got %d", result.ExitCode)
	}
}

func TestStop_TerminatesProcess(t *testing.T) {
	rt := NewExecRuntime()
	script := writeScript(t, t.TempDir(), "sleep.sh", "sleep 30\n")

	ctx := context.Background()
	handle, err := rt.Start(ctx, StartOptions{Interpreter: "sh", Script: script})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Give the process a moment to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := handle.Stop(stopCtx); err != nil {
		t.Errorf("Stop failed: %v", err)
	}
}
