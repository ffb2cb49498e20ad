// Package client implements the local execution emulator: a stand-in
// for the remote serverless clients that registers functions, runs them
// as blocking local subprocesses and keeps the outcomes in a registry.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"funcplane/internal/observability"
	"funcplane/internal/runtime"
	"funcplane/internal/store"
	"funcplane/internal/store/memory"
	"funcplane/pkg/api"
)

// Environment keys consumed by spawned entrypoints. These names are a
// wire contract with the runner scripts and must not change.
const (
	envProgramName  = "OT_PROGRAM_NAME"
	envJobArguments = "ENV_JOB_ARGUMENTS"
)

// resultPattern extracts the payload an entrypoint reports on stdout.
// Only the first occurrence counts; the payload may span newlines.
var resultPattern = regexp.MustCompile(`(?s)\nSaved Result:(.+?):End Saved Result\n`)

// Definition describes a function to register.
type Definition struct {
	Title        string
	Provider     string
	Entrypoint   string
	WorkingDir   string
	EnvVars      map[string]string
	Dependencies []string
}

// Config holds configuration for the emulator.
type Config struct {
	// Interpreter used to run entrypoints and install dependencies.
	// Defaults to "python".
	Interpreter string

	// InTest switches the file operations from "fail" to "warn and
	// return empty", matching the remote clients' test harness contract.
	InTest bool
}

// LocalEmulator registers function definitions, executes one
// synchronously per call, records the outcomes and answers
// status/result/log/listing queries.
type LocalEmulator struct {
	registry  store.Registry
	runtime   runtime.Runtime
	installer runtime.Installer
	config    Config
	logger    *slog.Logger
	tracer    trace.Tracer
	metrics   *observability.RunMetrics
}

// New creates an emulator. Nil collaborators get local defaults: an
// in-memory registry, the exec runtime and a pip installer.
func New(reg store.Registry, rt runtime.Runtime, inst runtime.Installer, cfg Config, log *slog.Logger) *LocalEmulator {
	if cfg.Interpreter == "" {
		cfg.Interpreter = "python"
	}
	if log == nil {
		log = slog.Default()
	}
	if reg == nil {
		reg = memory.New()
	}
	if rt == nil {
		rt = runtime.NewExecRuntime()
	}
	if inst == nil {
		inst = runtime.NewPipInstaller(cfg.Interpreter, log)
	}

	return &LocalEmulator{
		registry:  reg,
		runtime:   rt,
		installer: inst,
		config:    cfg,
		logger:    log,
		tracer:    otel.Tracer("funcplane-emulator"),
	}
}

// SetMetrics attaches run counters. Optional; the emulator works without.
func (e *LocalEmulator) SetMetrics(m *observability.RunMetrics) {
	e.metrics = m
}

// Register validates and stores a function definition, returning its title.
// Validation joins the working directory and entrypoint; execution later
// concatenates them verbatim, preserving the original path contract.
func (e *LocalEmulator) Register(ctx context.Context, def Definition) (string, error) {
	if _, err := os.Stat(filepath.Join(def.WorkingDir, def.Entrypoint)); err != nil {
		return "", &ValidationError{Message: fmt.Sprintf(
			"entrypoint file [%s] does not exist in [%s] working directory",
			def.Entrypoint, def.WorkingDir,
		)}
	}

	deps := def.Dependencies
	if deps == nil {
		deps = []string{}
	}
	depsJSON, err := json.Marshal(deps)
	if err != nil {
		return "", err
	}

	record := &store.Function{
		Title:        def.Title,
		Provider:     def.Provider,
		Entrypoint:   def.Entrypoint,
		WorkingDir:   def.WorkingDir,
		EnvVars:      def.EnvVars,
		Arguments:    "{}",
		Dependencies: string(depsJSON),
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.registry.SaveFunction(ctx, record); err != nil {
		return "", fmt.Errorf("failed to save function: %w", err)
	}

	e.logger.Info("function registered", "title", def.Title, "entrypoint", def.Entrypoint)
	return def.Title, nil
}

// Functions returns one handle per registered record, in registration order.
func (e *LocalEmulator) Functions(ctx context.Context) ([]*Function, error) {
	records, err := e.registry.ListFunctions(ctx)
	if err != nil {
		return nil, err
	}

	handles := make([]*Function, 0, len(records))
	for _, record := range records {
		handles = append(handles, &Function{record: record, client: e})
	}
	return handles, nil
}

// Function looks up a registered function by title. The provider argument
// is accepted for parity with remote clients; titles alone identify
// functions locally. With duplicate titles the most recent registration
// wins.
func (e *LocalEmulator) Function(ctx context.Context, title, provider string) (*Function, error) {
	handles, err := e.Functions(ctx)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]*Function, len(handles))
	for _, h := range handles {
		byTitle[h.Title()] = h
	}

	fn, ok := byTitle[title]
	if !ok {
		return nil, &NotFoundError{Kind: "function", Key: title}
	}
	return fn, nil
}

// Run executes the function registered under title and blocks until the
// subprocess exits. The returned handle always refers to a job in a
// terminal state.
func (e *LocalEmulator) Run(ctx context.Context, title string, args map[string]interface{}) (*Job, error) {
	ctx, span := e.tracer.Start(ctx, "run_function",
		trace.WithAttributes(attribute.String("function.title", title)),
	)
	defer span.End()

	fn, err := e.registry.GetFunctionByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, store.ErrFunctionNotFound) {
			return nil, &NotFoundError{Kind: "function", Key: title}
		}
		return nil, err
	}

	if e.metrics != nil {
		e.metrics.RunsTotal.Add(ctx, 1)
	}

	if err := e.installDependencies(ctx, fn); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if args == nil {
		args = map[string]interface{}{}
	}
	argsJSON, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("failed to encode arguments: %w", err)
	}

	// Later entries override earlier ones on key collision: the
	// program-name marker, PATH and the encoded arguments always win
	// over the function's own env vars.
	env := make(map[string]string, len(fn.EnvVars)+3)
	for k, v := range fn.EnvVars {
		env[k] = v
	}
	env[envProgramName] = fn.Title
	env["PATH"] = os.Getenv("PATH")
	env[envJobArguments] = string(argsJSON)

	// The working directory and entrypoint are concatenated verbatim;
	// the registered working directory must already end with a separator.
	script := fn.WorkingDir + fn.Entrypoint

	handle, err := e.runtime.Start(ctx, runtime.StartOptions{
		Interpreter: e.config.Interpreter,
		Script:      script,
		Env:         env,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to start entrypoint: %w", err)
	}

	res, err := handle.Wait(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed waiting for entrypoint: %w", err)
	}

	status := api.JobStatusSucceeded
	if res.ExitCode != 0 {
		status = api.JobStatusFailed
		if e.metrics != nil {
			e.metrics.RunsFailed.Add(ctx, 1)
		}
	}

	job := &store.Job{
		ID:        uuid.NewString(),
		Title:     fn.Title,
		Status:    status,
		Logs:      res.Stdout + res.Stderr,
		Result:    extractResult(res.Stdout),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.registry.SaveJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}

	span.SetAttributes(
		attribute.String("job.id", job.ID),
		attribute.Int("exit_code", res.ExitCode),
	)
	e.logger.Info("run finished", "title", fn.Title, "job_id", job.ID, "status", status)

	return &Job{id: job.ID, client: e}, nil
}

// installDependencies installs the function's listed dependencies one by
// one, in order. Any failure aborts the run before the subprocess spawns.
func (e *LocalEmulator) installDependencies(ctx context.Context, fn *store.Function) error {
	if fn.Dependencies == "" {
		return nil
	}

	var deps []string
	if err := json.Unmarshal([]byte(fn.Dependencies), &deps); err != nil {
		return fmt.Errorf("invalid dependency list for %q: %w", fn.Title, err)
	}

	for _, dep := range deps {
		if err := e.installer.Install(ctx, dep); err != nil {
			if e.metrics != nil {
				e.metrics.InstallFailures.Add(ctx, 1)
			}
			return &InstallError{Package: dep, Err: err}
		}
		if e.metrics != nil {
			e.metrics.DepsInstalled.Add(ctx, 1)
		}
	}
	return nil
}

// extractResult pulls the payload out of the first result marker in the
// captured stdout. No marker means an empty result, not an error.
func extractResult(stdout string) string {
	m := resultPattern.FindStringSubmatch(stdout)
	if m == nil {
		return ""
	}
	return m[1]
}

// Job returns the handle for a stored job.
func (e *LocalEmulator) Job(ctx context.Context, jobID string) (*Job, error) {
	if _, err := e.getJob(ctx, jobID); err != nil {
		return nil, err
	}
	return &Job{id: jobID, client: e}, nil
}

// JobListOption filters job listings. Options are accepted for parity
// with remote clients; the local emulator does not apply them.
type JobListOption func(*jobListOptions)

type jobListOptions struct {
	status string
}

// WithStatus requests jobs with the given status.
func WithStatus(status string) JobListOption {
	return func(o *jobListOptions) { o.status = status }
}

// Jobs returns handles for all stored jobs in insertion order, each
// exactly once.
func (e *LocalEmulator) Jobs(ctx context.Context, opts ...JobListOption) ([]*Job, error) {
	var o jobListOptions
	for _, opt := range opts {
		opt(&o)
	}

	records, err := e.registry.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	handles := make([]*Job, 0, len(records))
	for _, record := range records {
		handles = append(handles, &Job{id: record.ID, client: e})
	}
	return handles, nil
}

// JobRecord returns the stored row for one job. The HTTP layer uses this
// to render a job without a round of accessor calls.
func (e *LocalEmulator) JobRecord(ctx context.Context, jobID string) (*store.Job, error) {
	return e.getJob(ctx, jobID)
}

// JobRecords returns all stored job rows in insertion order.
func (e *LocalEmulator) JobRecords(ctx context.Context) ([]*store.Job, error) {
	return e.registry.ListJobs(ctx)
}

// Status returns the terminal status of a job.
func (e *LocalEmulator) Status(ctx context.Context, jobID string) (string, error) {
	job, err := e.getJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Status, nil
}

// Result returns the extracted result text of a job, possibly empty.
func (e *LocalEmulator) Result(ctx context.Context, jobID string) (string, error) {
	job, err := e.getJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Result, nil
}

// Logs returns the captured output of a job.
func (e *LocalEmulator) Logs(ctx context.Context, jobID string) (string, error) {
	job, err := e.getJob(ctx, jobID)
	if err != nil {
		return "", err
	}
	return job.Logs, nil
}

// FilteredLogs is not implemented locally.
func (e *LocalEmulator) FilteredLogs(ctx context.Context, jobID string, _ ...string) (string, error) {
	return "", fmt.Errorf("filtered logs: %w", ErrUnsupported)
}

// Stop acknowledges a stop request. Runs are synchronous, so whatever
// job the caller refers to has already finished.
func (e *LocalEmulator) Stop(jobID string) string {
	return fmt.Sprintf("job:%s has already stopped", jobID)
}

func (e *LocalEmulator) getJob(ctx context.Context, jobID string) (*store.Job, error) {
	job, err := e.registry.GetJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrJobNotFound) {
			return nil, &NotFoundError{Kind: "job", Key: jobID}
		}
		return nil, err
	}
	return job, nil
}

// Files lists remote storage files. There is no remote storage locally.
func (e *LocalEmulator) Files(ctx context.Context) ([]string, error) {
	if e.config.InTest {
		e.logger.Warn("files is not implemented by the local emulator")
		return []string{}, nil
	}
	return nil, fmt.Errorf("files: %w", ErrUnsupported)
}

// UploadFile uploads a file to remote storage. Not available locally.
func (e *LocalEmulator) UploadFile(ctx context.Context, file string) error {
	if e.config.InTest {
		e.logger.Warn("upload is not implemented by the local emulator", "file", file)
		return nil
	}
	return fmt.Errorf("upload: %w", ErrUnsupported)
}

// DownloadFile downloads a file from remote storage. Not available locally.
func (e *LocalEmulator) DownloadFile(ctx context.Context, file, targetName, downloadLocation string) (string, error) {
	if e.config.InTest {
		e.logger.Warn("download is not implemented by the local emulator", "file", file)
		return "", nil
	}
	return "", fmt.Errorf("download: %w", ErrUnsupported)
}

// DeleteFile deletes a file from remote storage. Not available locally.
func (e *LocalEmulator) DeleteFile(ctx context.Context, file string) error {
	if e.config.InTest {
		e.logger.Warn("delete is not implemented by the local emulator", "file", file)
		return nil
	}
	return fmt.Errorf("delete: %w", ErrUnsupported)
}
