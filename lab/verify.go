// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package lab

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/olekukonko/tablewriter"

	"github.com/srl-labs/bgplab/exec"
)

const bgpSummaryCmd = "vtysh -c \"show ip bgp summary\""

// ProbeResult is the outcome of one directional connectivity probe.
type ProbeResult struct {
	From   string
	Target string
	Passed bool
}

// Verify displays the BGP session summary of every switch and probes
// host-to-host connectivity in both directions. The summaries are
// informational only and are not parsed. Probe outcomes are rendered as a
// table; they never influence the error return, which reports only
// transport failures against the container runtime.
func (l *Lab) Verify(ctx context.Context) error {
	summaries := exec.NewExecCollection()

	for _, s := range l.Topo.Switches {
		res, err := l.runTolerant(ctx, s.Name, bgpSummaryCmd)
		if err != nil {
			return err
		}
		summaries.Add(s.Name, res)
	}

	summaries.Log()

	results := make([]ProbeResult, 0, len(l.Topo.Hosts))

	for _, h := range l.Topo.Hosts {
		if h.ProbeTarget == "" {
			continue
		}

		log.Info("Probing connectivity", "from", h.Name, "to", h.ProbeTarget)

		res, err := l.runTolerant(ctx, h.Name, fmt.Sprintf("ping -c 3 -W 2 %s", h.ProbeTarget))
		if err != nil {
			return err
		}

		results = append(results, ProbeResult{
			From:   h.Name,
			Target: h.ProbeTarget,
			Passed: res.GetReturnCode() == 0,
		})
	}

	printProbeResults(results)

	return nil
}

func printProbeResults(results []ProbeResult) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"From", "To", "Result"})
	table.SetAutoFormatHeaders(false)

	for _, r := range results {
		verdict := "PASS"
		if !r.Passed {
			verdict = "FAIL"
		}
		table.Append([]string{r.From, r.Target, verdict})
	}

	fmt.Println("\n=== Connectivity check ===")
	table.Render()

	for _, r := range results {
		if r.Passed {
			log.Info("Connectivity check passed", "from", r.From, "to", r.Target)
		} else {
			log.Error("Connectivity check failed", "from", r.From, "to", r.Target)
		}
	}
}
