// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"github.com/spf13/cobra"
)

// deployCmd runs the full bring-up sequence against the lab containers.
var deployCmd = &cobra.Command{
	Use:     "deploy",
	Short:   "run the full lab bring-up sequence",
	Aliases: []string{"up"},
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, err := newLab()
		if err != nil {
			return err
		}

		return l.Deploy(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(deployCmd)
}
