// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"

	"github.com/charmbracelet/log"
)

const (
	// frr daemons file with the per-daemon start toggles.
	frrDaemonsFile = "/etc/frr/daemons"

	enableBgpdCmd = "sed -i s/bgpd=no/bgpd=yes/g " + frrDaemonsFile
	restartFrrCmd = "service frr restart"
)

// EnableRoutingDaemon flips the bgpd start toggle in the FRR daemons file of
// each switch and restarts the FRR service. The restart cannot be confirmed
// synchronously from outside, so each switch gets a fixed settle delay.
// The sed edit is idempotent: on a re-run the toggle is already set and the
// substitution matches nothing.
func (l *Lab) EnableRoutingDaemon(ctx context.Context) error {
	for _, s := range l.Topo.Switches {
		log.Info("Enabling bgpd", "node", s.Name, "file", frrDaemonsFile)

		if _, err := l.run(ctx, s.Name, enableBgpdCmd); err != nil {
			return err
		}

		log.Info("Restarting FRR", "node", s.Name)

		if _, err := l.run(ctx, s.Name, restartFrrCmd); err != nil {
			return err
		}

		l.pause(l.waits.DaemonSettle, "FRR to come up on "+s.Name)
	}

	return nil
}
