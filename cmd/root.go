// Copyright 2020 Nokia
// Licensed under the BSD 3-Clause License.
// SPDX-License-Identifier: BSD-3-Clause

package cmd

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/srl-labs/bgplab/cmd/version"
	"github.com/srl-labs/bgplab/lab"
	"github.com/srl-labs/bgplab/runtime/docker"
)

var (
	debugCount int
	logLevel   string
	topoFile   string
	timeout    time.Duration
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:               "bgplab",
	Short:             "bring up and verify a containerized two-switch BGP lab",
	PersistentPreRunE: preRunFn,
}

func init() {
	RootCmd.SilenceUsage = true
	RootCmd.PersistentFlags().CountVarP(&debugCount, "debug", "d", "enable debug mode")
	RootCmd.PersistentFlags().StringVarP(&topoFile, "topo", "t", "",
		"path to a topology definition file; the built-in two-switch lab is used when omitted")
	_ = RootCmd.MarkPersistentFlagFilename("topo", "*.yaml", "*.yml")
	RootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "", 120*time.Second,
		"timeout for container runtime API requests, e.g: 30s, 1m, 2m30s")
	RootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "info",
		"logging level; one of [debug, info, warn, error, fatal]")

	RootCmd.AddCommand(version.VersionCmd)
}

func preRunFn(_ *cobra.Command, _ []string) error {
	// setting log level
	switch {
	case debugCount > 0:
		log.SetLevel(log.DebugLevel)
	default:
		l, err := log.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		log.SetLevel(l)
	}

	// logs go to stderr so that table output stays parseable
	log.SetOutput(os.Stderr)

	log.SetTimeFormat(time.TimeOnly)

	return nil
}

// newLab assembles a lab from the persistent flags: docker runtime, and the
// built-in topology unless a topology file was given.
func newLab() (*lab.Lab, error) {
	rt, err := docker.NewDockerRuntime(timeout)
	if err != nil {
		return nil, err
	}

	opts := []lab.LabOption{
		lab.WithRuntime(rt),
	}

	if topoFile != "" {
		opts = append(opts, lab.WithTopoFile(topoFile))
	}

	return lab.NewLab(opts...)
}
