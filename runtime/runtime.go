// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package runtime

import (
	"context"
	"time"

	"github.com/srl-labs/bgplab/exec"
)

const DefaultTimeout = 120 * time.Second

// Container carries the runtime state of a lab container.
type Container struct {
	Name  string
	ID    string
	State string
}

// ContainerRuntime is the surface the sequencer needs from a container
// runtime: look up a container by its stable name and execute commands
// inside its namespaces.
type ContainerRuntime interface {
	// GetName returns the name of the container runtime.
	GetName() string
	// GetContainer returns the container referenced by name.
	GetContainer(ctx context.Context, name string) (*Container, error)
	// Exec executes cmd inside the container and waits for its completion.
	Exec(ctx context.Context, name string, cmd *exec.ExecCmd) (*exec.ExecResult, error)
}
