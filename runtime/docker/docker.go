// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package docker

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/docker/docker/api/types/container"
	dockerC "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/srl-labs/bgplab/exec"
	"github.com/srl-labs/bgplab/runtime"
)

const runtimeName = "docker"

// DockerRuntime talks to the docker daemon configured via the standard
// DOCKER_HOST environment handling.
type DockerRuntime struct {
	Client  *dockerC.Client
	timeout time.Duration
}

// NewDockerRuntime initializes a docker API client.
func NewDockerRuntime(timeout time.Duration) (*DockerRuntime, error) {
	log.Debug("Runtime: Docker")

	c, err := dockerC.NewClientWithOpts(dockerC.FromEnv, dockerC.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to init docker client: %w", err)
	}

	if timeout <= 0 {
		timeout = runtime.DefaultTimeout
	}

	return &DockerRuntime{
		Client:  c,
		timeout: timeout,
	}, nil
}

func (*DockerRuntime) GetName() string { return runtimeName }

// GetContainer inspects the container referenced by name.
func (d *DockerRuntime) GetContainer(ctx context.Context, name string) (*runtime.Container, error) {
	nctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	cont, err := d.Client.ContainerInspect(nctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect container %s: %w", name, err)
	}

	return &runtime.Container{
		Name:  strings.TrimLeft(cont.Name, "/"),
		ID:    cont.ID,
		State: cont.State.Status,
	}, nil
}

// Exec executes cmd inside the container and waits for its completion,
// capturing stdout, stderr and the exit code.
func (d *DockerRuntime) Exec(ctx context.Context, name string, cmd *exec.ExecCmd) (*exec.ExecResult, error) {
	execID, err := d.Client.ContainerExecCreate(ctx, name, container.ExecOptions{
		User:         "root",
		AttachStderr: true,
		AttachStdout: true,
		Cmd:          cmd.GetCmd(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create exec in container %s: %w", name, err)
	}

	log.Debug("Created exec", "container", name, "command", cmd.GetCmdString())

	rsp, err := d.Client.ContainerExecAttach(ctx, execID.ID, container.ExecStartOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to attach exec in container %s: %w", name, err)
	}
	defer rsp.Close()

	var outBuf, errBuf bytes.Buffer

	outputDone := make(chan error)

	go func() {
		_, err := stdcopy.StdCopy(&outBuf, &errBuf, rsp.Reader)
		outputDone <- err
	}()

	select {
	case err := <-outputDone:
		if err != nil {
			return nil, err
		}
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	inspect, err := d.Client.ContainerExecInspect(ctx, execID.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect exec in container %s: %w", name, err)
	}

	res := exec.NewExecResult(cmd)
	res.SetReturnCode(inspect.ExitCode)
	res.SetStdOut(outBuf.Bytes())
	res.SetStdErr(errBuf.Bytes())

	return res, nil
}
