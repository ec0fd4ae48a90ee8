/*
 * Copyright 2024-2025 Raamsri Kumar <raam@tinkershack.in>
 * Copyright 2024-2025 The StrataSTOR Authors and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package logs

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/errors"
)

func NewLogsCmd() *cobra.Command {
	var (
		follow bool
		lines  int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "View the detached netgen server log",
		RunE: func(cmd *cobra.Command, args []string) error {
			logFile := config.GetLogFilePath()
			if _, err := os.Stat(logFile); os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "Log file does not exist:", logFile)
				fmt.Fprintln(cmd.OutOrStdout(), "Logs are only written to a file when serving with --detach.")
				return nil
			}

			tailArgs := tailArgs(logFile, lines, follow)
			execCmd := exec.Command("tail", tailArgs...)
			execCmd.Stdout = cmd.OutOrStdout()
			execCmd.Stderr = cmd.ErrOrStderr()
			if err := execCmd.Run(); err != nil {
				return errors.Wrap(err, errors.CommandExecution).
					WithMetadata("command", "tail "+shellquote.Join(tailArgs...))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Follow log output")
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "Number of lines to show")
	return cmd
}

func tailArgs(logFile string, lines int, follow bool) []string {
	args := []string{"-n", strconv.Itoa(lines)}
	if follow {
		args = append(args, "-f")
	}
	return append(args, logFile)
}
