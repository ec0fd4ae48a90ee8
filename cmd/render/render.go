// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/internal/common"
	"github.com/stratastor/netgen/pkg/netmage"
)

func NewRenderCmd() *cobra.Command {
	var (
		format  string
		profile string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render <document>",
		Short: "Render an interface document as netplan YAML or ifupdown",
		Long: `Render an interface document as a netplan YAML file or an ifupdown
/etc/network/interfaces file. Use "-" to read a YAML document from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			l, err := common.NewLogger("render")
			if err != nil {
				return err
			}

			doc, err := common.ReadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			generator, err := netmage.NewGenerator(l)
			if err != nil {
				return err
			}

			format = common.ResolveFormat(format, cfg)
			out, err := generator.Render(format, common.ResolveProfile(profile, doc, cfg), doc.Interfaces)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}

			if err := common.WriteOutput(output, format, out); err != nil {
				return err
			}
			l.Info("Rendered configuration written", "path", output, "format", format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: netplan or ifupdown")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "OS profile id used for netplan output")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}
