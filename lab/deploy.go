// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"

	"github.com/charmbracelet/log"
)

// Deploy runs the full bring-up sequence. Phases run strictly in order;
// a phase does not start until the previous one, including its settle
// delay, has completed. An unexpected command failure aborts the sequence
// immediately and leaves the lab partially configured; there is no
// rollback. The final connectivity verdict is narrated only and never
// turns into an error.
func (l *Lab) Deploy(ctx context.Context) error {
	log.Info("Bringing up lab", "switches", len(l.Topo.Switches), "hosts", len(l.Topo.Hosts))

	if err := l.CheckContainers(ctx); err != nil {
		return err
	}

	if err := l.ActivateLinks(ctx); err != nil {
		return err
	}
	l.pause(l.waits.LinkSettle, "links to settle")

	if err := l.RepairHostRoutes(ctx); err != nil {
		return err
	}

	if err := l.ConfigureInterfaces(ctx); err != nil {
		return err
	}
	l.pause(l.waits.Stabilize, "interface state to converge")

	if err := l.EnableRoutingDaemon(ctx); err != nil {
		return err
	}

	if err := l.ConfigureBGP(ctx); err != nil {
		return err
	}
	l.pause(l.waits.Converge, "BGP peering to establish")

	return l.Verify(ctx)
}
