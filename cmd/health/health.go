// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/health"
)

func NewHealthCmd() *cobra.Command {
	var url string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check netgen server health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()

			var (
				checker *health.HealthChecker
				err     error
			)
			if url != "" {
				checker, err = health.NewHealthCheckerFor(cfg, url)
			} else {
				checker, err = health.NewHealthChecker(cfg)
			}
			if err != nil {
				return err
			}

			status, err := checker.CheckHealth(cmd.Context())
			if err != nil {
				return err
			}
			sweeper := "stopped"
			if status.Sweeper {
				sweeper = "running"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (version %s, %d open sessions, sweeper %s)\n",
				status.Status, status.Version, status.Sessions, sweeper)
			return nil
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "Server base URL (defaults to localhost and server.port)")
	return cmd
}
