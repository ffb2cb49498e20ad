package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// DockerRuntime implements the Runtime interface using the Docker SDK.
// The entrypoint's directory is bind-mounted read-only into an
// interpreter image, so the script path stays valid inside the container.
type DockerRuntime struct {
	client *client.Client
	image  string
}

// DockerHandle represents a running container.
type DockerHandle struct {
	client      *client.Client
	containerID string
}

// NewDockerRuntime creates a new Docker-based runtime using the given
// interpreter image.
func NewDockerRuntime(interpreterImage string) (*DockerRuntime, error) {
	// Initializes client from standard environment variables (DOCKER_HOST, etc.)
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &DockerRuntime{client: cli, image: interpreterImage}, nil
}

// Start implements Runtime.Start using Docker containers.
func (d *DockerRuntime) Start(ctx context.Context, opts StartOptions) (Handle, error) {
	if opts.Script == "" {
		return nil, fmt.Errorf("script is required")
	}

	// Check if the image exists locally first to save time.
	_, err := d.client.ImageInspect(ctx, d.image)
	if err != nil {
		reader, err := d.client.ImagePull(ctx, d.image, image.PullOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to pull image %s: %w", d.image, err)
		}
		defer reader.Close()
		io.Copy(io.Discard, reader)
	}

	scriptDir := filepath.Dir(opts.Script)
	containerConfig := &container.Config{
		Image: d.image,
		Cmd:   []string{opts.Interpreter, opts.Script},
		Env:   envList(opts.Env),
	}
	hostConfig := &container.HostConfig{
		Binds: []string{fmt.Sprintf("%s:%s:ro", scriptDir, scriptDir)},
	}

	containerResponse, err := d.client.ContainerCreate(ctx, containerConfig, hostConfig, nil, nil, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create container: %w", err)
	}

	if err := d.client.ContainerStart(ctx, containerResponse.ID, container.StartOptions{}); err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	return &DockerHandle{
		client:      d.client,
		containerID: containerResponse.ID,
	}, nil
}

// Wait blocks until the container stops, then collects its demultiplexed
// output streams.
func (h *DockerHandle) Wait(ctx context.Context) (Result, error) {
	statusCh, errCh := h.client.ContainerWait(ctx, h.containerID, container.WaitConditionNotRunning)

	var exitCode int
	select {
	case err := <-errCh:
		return Result{ExitCode: -1}, err
	case status := <-statusCh:
		exitCode = int(status.StatusCode)
	case <-ctx.Done():
		return Result{ExitCode: -1}, ctx.Err()
	}

	rc, err := h.client.ContainerLogs(ctx, h.containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return Result{ExitCode: exitCode}, fmt.Errorf("failed to read container logs: %w", err)
	}
	defer rc.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, rc); err != nil {
		return Result{ExitCode: exitCode}, fmt.Errorf("failed to demux container logs: %w", err)
	}

	return Result{
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}, nil
}

// Stop forcefully stops the container.
func (h *DockerHandle) Stop(ctx context.Context) error {
	timeOut := 5
	return h.client.ContainerStop(ctx, h.containerID, container.StopOptions{Timeout: &timeOut})
}
