// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
)

// ActivateLinks brings up every emulated link interface of every lab
// container. Loopbacks are not touched here, they do not exist until
// interface configuration creates them.
func (l *Lab) ActivateLinks(ctx context.Context) error {
	for _, s := range l.Topo.Switches {
		for _, ifName := range []string{s.Fabric.Name, s.HostLink.Name} {
			log.Info("Activating link", "node", s.Name, "interface", ifName)

			if _, err := l.run(ctx, s.Name, fmt.Sprintf("ip link set dev %s up", ifName)); err != nil {
				return err
			}
		}
	}

	for _, h := range l.Topo.Hosts {
		log.Info("Activating link", "node", h.Name, "interface", h.Interface)

		if _, err := l.run(ctx, h.Name, fmt.Sprintf("ip link set dev %s up", h.Interface)); err != nil {
			return err
		}
	}

	return nil
}
