// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// RepairHostRoutes replaces the management-network default route of each
// host with a default route via its lab gateway. The management default is
// installed by the container runtime at start and would otherwise shadow
// the lab topology. Both the removal and the install tolerate failure:
// the stale route may be gone already and the lab route may be in place
// from a previous run.
func (l *Lab) RepairHostRoutes(ctx context.Context) error {
	for _, h := range l.Topo.Hosts {
		del := "ip route del default"
		if h.StaleGateway != "" {
			del = fmt.Sprintf("ip route del default via %s", h.StaleGateway)
		}

		log.Info("Repairing default route", "node", h.Name, "gateway", h.Gateway)

		if _, err := l.runTolerant(ctx, h.Name, del); err != nil {
			return err
		}

		add := fmt.Sprintf("ip route add default via %s dev %s", h.Gateway, h.Interface)
		if _, err := l.runTolerant(ctx, h.Name, add); err != nil {
			return err
		}
	}

	return nil
}
