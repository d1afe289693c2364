// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package version

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version variables set at build time (e.g., with -ldflags).
var (
	Version = "0.0.0"
	commit  = "none"
	date    = "unknown"
)

const repoURL = "https://github.com/srl-labs/bgplab"

// VersionCmd defines the version command.
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "show bgplab version",
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Printf("version: %s\n", Version)
		fmt.Printf(" commit: %s\n", commit)
		fmt.Printf("   date: %s\n", date)
		fmt.Printf(" source: %s\n", repoURL)
		return nil
	},
}
