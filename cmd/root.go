// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	netgenconfig "github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/cmd/config"
	"github.com/stratastor/netgen/cmd/diff"
	"github.com/stratastor/netgen/cmd/format"
	"github.com/stratastor/netgen/cmd/health"
	"github.com/stratastor/netgen/cmd/logs"
	"github.com/stratastor/netgen/cmd/profiles"
	"github.com/stratastor/netgen/cmd/render"
	"github.com/stratastor/netgen/cmd/serve"
	"github.com/stratastor/netgen/cmd/status"
	"github.com/stratastor/netgen/cmd/validate"
	"github.com/stratastor/netgen/cmd/version"
)

func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "netgen",
		Short: "netgen: network interface configuration generator",
		Long: `netgen models network interfaces and renders them as netplan YAML or
ifupdown /etc/network/interfaces files, either from interface documents on
the command line or through editing sessions over its HTTP API.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			netgenconfig.LoadConfig(configPath)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(render.NewRenderCmd())
	rootCmd.AddCommand(validate.NewValidateCmd())
	rootCmd.AddCommand(format.NewFormatCmd())
	rootCmd.AddCommand(profiles.NewProfilesCmd())
	rootCmd.AddCommand(diff.NewDiffCmd())
	rootCmd.AddCommand(serve.NewServeCmd())
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(health.NewHealthCmd())
	rootCmd.AddCommand(status.NewStatusCmd())
	rootCmd.AddCommand(logs.NewLogsCmd())
	rootCmd.AddCommand(config.NewConfigCmd())

	return rootCmd
}
