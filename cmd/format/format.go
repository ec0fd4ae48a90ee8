// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package format

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

func NewFormatCmd() *cobra.Command {
	var family string

	cmd := &cobra.Command{
		Use:   "format <text>...",
		Short: "Complete partially typed addresses into CIDR notation",
		Long: `Complete partially typed addresses into CIDR notation, one result per
line. Inputs that cannot be completed are printed unchanged and marked.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := types.ParseFamily(family)
			if err != nil {
				return errors.Wrap(err, errors.CommandInvalidInput).
					WithMetadata("family", family)
			}

			for _, text := range args {
				formatted := netmage.AutoFormat(text, fam)
				line := formatted
				if !netmage.IsValidCIDR(formatted, fam) {
					line += "\t(invalid)"
				}
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&family, "family", "v4", "Address family: v4 or v6")
	return cmd
}
