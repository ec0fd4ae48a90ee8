// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package diff

import (
	"fmt"
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/internal/common"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
)

// ErrDiffers is returned when the installed file does not match
var ErrDiffers = fmt.Errorf("configuration differs")

// Generated comment lines carrying this marker hold the render date
const dateMarker = "Date: "

func NewDiffCmd() *cobra.Command {
	var (
		format  string
		profile string
	)

	cmd := &cobra.Command{
		Use:   "diff <document> <installed-file>",
		Short: "Compare rendered output against an installed configuration file",
		Long: `Render the document and print a unified diff against an installed
configuration file. The generated date line is ignored. Exits non-zero when
the files differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			l, err := common.NewLogger("diff")
			if err != nil {
				return err
			}

			doc, err := common.ReadDocument(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			installedPath := args[1]
			installed, err := os.ReadFile(installedPath)
			if err != nil {
				return errors.Wrap(err, errors.RenderDiffFailed).
					WithMetadata("path", installedPath)
			}

			generator, err := netmage.NewGenerator(l)
			if err != nil {
				return err
			}

			format = common.ResolveFormat(format, cfg)
			rendered, err := generator.Render(format, common.ResolveProfile(profile, doc, cfg), doc.Interfaces)
			if err != nil {
				return err
			}

			text, err := unifiedDiff(rendered, string(installed), installedPath)
			if err != nil {
				return err
			}
			if text == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), "No differences")
				return err
			}

			if _, err := fmt.Fprint(cmd.OutOrStdout(), text); err != nil {
				return err
			}
			return ErrDiffers
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: netplan or ifupdown")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "OS profile id used for netplan output")
	return cmd
}

// unifiedDiff compares rendered against installed, ignoring generated date
// lines. An empty result means the files match.
func unifiedDiff(rendered, installed, installedPath string) (string, error) {
	ud := difflib.UnifiedDiff{
		A:        withoutDateLines(difflib.SplitLines(installed)),
		B:        withoutDateLines(difflib.SplitLines(rendered)),
		FromFile: installedPath,
		ToFile:   "rendered",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", errors.Wrap(err, errors.RenderDiffFailed)
	}
	return text, nil
}

func withoutDateLines(lines []string) []string {
	return lo.Filter(lines, func(line string, _ int) bool {
		return !(strings.HasPrefix(line, "#") && strings.Contains(line, dateMarker))
	})
}
