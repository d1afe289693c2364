// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/srl-labs/bgplab/exec"
	"github.com/srl-labs/bgplab/types"
)

// unknownCmdRe matches the complaint a CLI emits for a statement its
// dialect does not know. Such lines are suppressed without failing the
// phase; the remaining statements of the batch still apply.
var unknownCmdRe = regexp.MustCompile(`(?i)unknown command|% invalid input`)

// saveConfigCmds is the persistence command pair: the platform-native save
// first, the routing stack's own write as fallback.
var saveConfigCmds = []string{
	"config save -y",
	"vtysh -c \"write memory\"",
}

// ConfigureBGP applies the peering configuration to every switch as a
// single batched vtysh transaction and then persists the running
// configuration.
func (l *Lab) ConfigureBGP(ctx context.Context) error {
	for _, s := range l.Topo.Switches {
		log.Info("Configuring BGP",
			"node", s.Name,
			"asn", s.ASN,
			"router-id", s.RouterID,
			"neighbor", fmt.Sprintf("%s AS%d", s.PeerAddress, s.PeerASN),
		)

		res, err := l.Runtime.Exec(ctx, s.Name, bgpConfigCmd(s))
		if err != nil {
			return fmt.Errorf("%s: failed to apply BGP configuration: %w", s.Name, err)
		}

		if out := suppressUnknownCommands(res.GetStdOutString()); out != "" {
			log.Info("BGP configuration output", "node", s.Name, "stdout", out)
		}
		if res.GetReturnCode() != 0 {
			log.Warn("BGP configuration exited non-zero, continuing",
				"node", s.Name,
				"rc", res.GetReturnCode(),
				"stderr", res.GetStdErrString(),
			)
		}

		if err := l.saveConfig(ctx, s); err != nil {
			return err
		}
	}

	return nil
}

// bgpConfigCmd builds the batched vtysh transaction for a switch: AS and
// router-id, neighbor-change logging, relaxed eBGP policy enforcement, the
// single fabric neighbor, and the ipv4 unicast address family with the host
// subnet advertised and connected routes redistributed.
func bgpConfigCmd(s *types.Switch) *exec.ExecCmd {
	stmts := []string{
		"configure terminal",
		fmt.Sprintf("router bgp %d", s.ASN),
		fmt.Sprintf("bgp router-id %s", s.RouterID),
		"bgp log-neighbor-changes",
		"no bgp ebgp-requires-policy",
		fmt.Sprintf("neighbor %s remote-as %d", s.PeerAddress, s.PeerASN),
		"address-family ipv4 unicast",
		fmt.Sprintf("neighbor %s activate", s.PeerAddress),
		fmt.Sprintf("network %s", s.HostSubnet()),
		"redistribute connected",
		"exit-address-family",
		"end",
	}

	cmd := []string{"vtysh"}
	for _, stmt := range stmts {
		cmd = append(cmd, "-c", stmt)
	}

	return exec.NewExecCmdFromSlice(cmd)
}

// saveConfig persists the running configuration, probing the save command
// pair in order. A command that fails or answers with an unknown-command
// complaint is treated as unsupported on this platform and the next one is
// tried. Exhausting the pair is a warning, not an error: the lab is
// ephemeral and primarily exercises running state.
func (l *Lab) saveConfig(ctx context.Context, s *types.Switch) error {
	for _, cmd := range saveConfigCmds {
		execCmd, err := exec.NewExecCmdFromString(cmd)
		if err != nil {
			return err
		}

		res, err := l.Runtime.Exec(ctx, s.Name, execCmd)
		if err != nil {
			return fmt.Errorf("%s: failed to execute %q: %w", s.Name, cmd, err)
		}

		if res.GetReturnCode() == 0 && !unknownCmdRe.MatchString(res.GetStdOutString()) {
			log.Info("Saved configuration", "node", s.Name, "command", cmd)
			return nil
		}

		log.Debug("Save command unsupported, trying next",
			"node", s.Name,
			"command", cmd,
			"rc", res.GetReturnCode(),
		)
	}

	log.Warn("Could not persist configuration, lab will run from running state", "node", s.Name)

	return nil
}

// suppressUnknownCommands drops the unknown-command complaint lines from
// CLI output, keeping the rest verbatim.
func suppressUnknownCommands(out string) string {
	if out == "" {
		return ""
	}

	var kept []string
	for _, line := range strings.Split(out, "\n") {
		if unknownCmdRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}

	return strings.TrimSpace(strings.Join(kept, "\n"))
}
