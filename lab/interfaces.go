// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/srl-labs/bgplab/types"
)

// ConfigureInterfaces applies addressing to every switch through its config
// CLI. Per switch the order is fixed: fabric link, host-facing link, then
// loopback. The order carries no semantics but is kept stable so that a
// re-run replays the identical command sequence. Address adds tolerate
// failure since the address may already be present from a previous run.
func (l *Lab) ConfigureInterfaces(ctx context.Context) error {
	for _, s := range l.Topo.Switches {
		for _, iface := range s.Interfaces() {
			if err := l.configureInterface(ctx, s, iface); err != nil {
				return err
			}
		}
	}

	return nil
}

func (l *Lab) configureInterface(ctx context.Context, s *types.Switch, iface types.Interface) error {
	log.Info("Configuring interface",
		"node", s.Name,
		"interface", iface.Name,
		"address", iface.CIDR,
	)

	if isLoopback(iface.Name) {
		if _, err := l.runTolerant(ctx, s.Name,
			fmt.Sprintf("config loopback add %s", iface.Name)); err != nil {
			return err
		}
	}

	if _, err := l.runTolerant(ctx, s.Name,
		fmt.Sprintf("config interface ip add %s %s", iface.Name, iface.CIDR)); err != nil {
		return err
	}

	if _, err := l.run(ctx, s.Name,
		fmt.Sprintf("config interface startup %s", iface.Name)); err != nil {
		return err
	}

	return nil
}

func isLoopback(name string) bool {
	return strings.HasPrefix(name, "Loopback")
}
