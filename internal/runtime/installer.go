package runtime

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
)

// Installer installs one package specifier at a time. The emulator calls
// it once per listed dependency, in order, before spawning the entrypoint.
type Installer interface {
	Install(ctx context.Context, pkg string) error
}

// PipInstaller installs packages by shelling out to pip through the
// configured interpreter.
type PipInstaller struct {
	Interpreter string
	Logger      *slog.Logger
}

// NewPipInstaller creates a pip-based installer.
func NewPipInstaller(interpreter string, log *slog.Logger) *PipInstaller {
	return &PipInstaller{Interpreter: interpreter, Logger: log}
}

// Install runs `<interpreter> -m pip install <pkg>` and blocks until it
// finishes. Any failure is fatal to the caller's run.
func (p *PipInstaller) Install(ctx context.Context, pkg string) error {
	cmd := exec.CommandContext(ctx, p.Interpreter, "-m", "pip", "install", pkg)

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pip install %s failed: %w: %s", pkg, err, bytes.TrimSpace(out))
	}

	if p.Logger != nil {
		p.Logger.Debug("dependency installed", "package", pkg)
	}
	return nil
}
