// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/srl-labs/bgplab/exec"
	"github.com/srl-labs/bgplab/runtime"
	"github.com/srl-labs/bgplab/types"
)

// Waits holds the fixed settle delays inserted between bring-up phases.
// All waiting is open-loop: the sequencer sleeps for a fixed duration
// instead of polling the collaborators for readiness.
type Waits struct {
	// LinkSettle runs after link activation, before any addressing.
	LinkSettle time.Duration
	// Stabilize runs after all interface configuration, before the routing
	// daemon is touched.
	Stabilize time.Duration
	// DaemonSettle runs after each per-switch routing stack restart.
	DaemonSettle time.Duration
	// Converge gives the peering session time to establish and routes time
	// to propagate before verification.
	Converge time.Duration
}

// DefaultWaits returns the stock delays of the lab.
func DefaultWaits() Waits {
	return Waits{
		LinkSettle:   5 * time.Second,
		Stabilize:    10 * time.Second,
		DaemonSettle: 5 * time.Second,
		Converge:     30 * time.Second,
	}
}

// Lab is the bring-up sequencer. It owns no lab state itself; all mutable
// state lives in the containers and their routing stacks, which is why a
// deploy can be re-run against a configured lab.
type Lab struct {
	Topo    *types.Topology
	Runtime runtime.ContainerRuntime

	waits Waits
	sleep func(time.Duration)
}

// LabOption configures a Lab.
type LabOption func(l *Lab) error

// WithTopology sets an explicit topology.
func WithTopology(t *types.Topology) LabOption {
	return func(l *Lab) error {
		if err := t.Verify(); err != nil {
			return err
		}
		l.Topo = t
		return nil
	}
}

// WithTopoFile loads the topology from a yaml file.
func WithTopoFile(path string) LabOption {
	return func(l *Lab) error {
		t, err := types.LoadTopology(path)
		if err != nil {
			return err
		}
		l.Topo = t
		return nil
	}
}

// WithRuntime sets the container runtime to drive the lab with.
func WithRuntime(rt runtime.ContainerRuntime) LabOption {
	return func(l *Lab) error {
		l.Runtime = rt
		return nil
	}
}

// WithWaits overrides the inter-phase settle delays.
func WithWaits(w Waits) LabOption {
	return func(l *Lab) error {
		l.waits = w
		return nil
	}
}

// NewLab creates a Lab with the built-in topology unless an option
// provides another one.
func NewLab(opts ...LabOption) (*Lab, error) {
	l := &Lab{
		Topo:  types.DefaultTopology(),
		waits: DefaultWaits(),
		sleep: time.Sleep,
	}

	for _, opt := range opts {
		if err := opt(l); err != nil {
			return nil, err
		}
	}

	if l.Runtime == nil {
		return nil, fmt.Errorf("lab requires a container runtime")
	}

	return l, nil
}

// CheckContainers verifies that every container of the topology exists and
// is running, so the sequence fails with a clear error before the first
// configuration command instead of midway through.
func (l *Lab) CheckContainers(ctx context.Context) error {
	names := make([]string, 0, len(l.Topo.Switches)+len(l.Topo.Hosts))
	for _, s := range l.Topo.Switches {
		names = append(names, s.Name)
	}
	for _, h := range l.Topo.Hosts {
		names = append(names, h.Name)
	}

	for _, name := range names {
		cont, err := l.Runtime.GetContainer(ctx, name)
		if err != nil {
			return err
		}
		if cont.State != "running" {
			return fmt.Errorf("container %s is %s, expected running", name, cont.State)
		}
		log.Debug("Found lab container", "name", cont.Name, "id", cont.ID)
	}

	return nil
}

// run executes cmd inside the named container and treats any failure,
// including a non-zero exit, as fatal for the whole sequence.
func (l *Lab) run(ctx context.Context, name, cmd string) (*exec.ExecResult, error) {
	execCmd, err := exec.NewExecCmdFromString(cmd)
	if err != nil {
		return nil, err
	}

	res, err := l.Runtime.Exec(ctx, name, execCmd)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute %q: %w", name, cmd, err)
	}

	if res.GetReturnCode() != 0 {
		return res, fmt.Errorf("%s: command %q exited with rc %d: %s",
			name, cmd, res.GetReturnCode(), res.GetStdErrString())
	}

	log.Debug("Executed command", "node", name, "command", cmd)

	return res, nil
}

// runTolerant executes cmd inside the named container and swallows a
// non-zero exit with a warning. Used for steps whose failure is expected on
// reapplication, e.g. adding an address that is already present or deleting
// a route that does not exist. Runtime transport errors still abort.
func (l *Lab) runTolerant(ctx context.Context, name, cmd string) (*exec.ExecResult, error) {
	execCmd, err := exec.NewExecCmdFromString(cmd)
	if err != nil {
		return nil, err
	}

	res, err := l.Runtime.Exec(ctx, name, execCmd)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to execute %q: %w", name, cmd, err)
	}

	if res.GetReturnCode() != 0 {
		log.Warn("Command failed, continuing",
			"node", name,
			"command", cmd,
			"rc", res.GetReturnCode(),
			"stderr", res.GetStdErrString(),
		)
	}

	return res, nil
}

// pause blocks for the given duration.
func (l *Lab) pause(d time.Duration, reason string) {
	if d <= 0 {
		return
	}
	log.Info("Waiting", "for", reason, "duration", d)
	l.sleep(d)
}
