// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/canonical/gym-membership-service/pkg/status"
)

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Get the application's version",
	Long:  `Get the application's version and the commit it was built from`,
	Run: func(cmd *cobra.Command, args []string) {
		info := status.ReadBuildInfo()

		cmd.Printf("App Version: %s\n", info.Version)
		if info.CommitHash != "" {
			cmd.Printf("Commit: %s\n", info.CommitHash)
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
