// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/internal/common"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

var headerRow = table.Row{"#", "INTERFACE", "FIELD", "MESSAGE"}

func NewValidateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <document>",
		Short: "Report advisory findings for every interface in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := common.ReadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			findings := netmage.ValidateInterfaces(doc.Interfaces)
			if err := writeFindings(cmd.OutOrStdout(), findings); err != nil {
				return err
			}

			if strict && len(findings) > 0 {
				return errors.New(errors.NetworkValidationFailed,
					fmt.Sprintf("%d finding(s) reported", len(findings)))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any finding is reported")
	return cmd
}

func writeFindings(w io.Writer, findings []types.Finding) error {
	if len(findings) == 0 {
		_, err := fmt.Fprintln(w, "No issues found")
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(headerRow)
	for i, f := range findings {
		name := f.InterfaceName
		if name == "" {
			name = "(unnamed)"
		}
		t.AppendRow(table.Row{i + 1, name, f.Field, f.Message})
	}

	_, err := fmt.Fprintln(w, t.Render())
	return err
}
