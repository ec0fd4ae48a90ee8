// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package profiles

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/pkg/netmage"
)

func NewProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the OS profiles netplan output can target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.NewWriter()
			t.AppendHeader(table.Row{"ID", "NAME", "DEFAULT ROUTE", "DEFAULT"})
			for _, p := range netmage.Profiles() {
				def := ""
				if p.ID == netmage.DefaultProfileID {
					def = "*"
				}
				t.AppendRow(table.Row{p.ID, p.DisplayName, p.Style, def})
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			return err
		},
	}
}
