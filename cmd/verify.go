// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"github.com/spf13/cobra"
)

// verifyCmd shows the BGP session summaries and runs the host-to-host
// connectivity probes against an already deployed lab.
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "show BGP session state and probe host-to-host connectivity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, err := newLab()
		if err != nil {
			return err
		}

		return l.Verify(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(verifyCmd)
}
