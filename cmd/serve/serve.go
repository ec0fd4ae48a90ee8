// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package serve

import (
	"context"
	"os"

	"github.com/sevlyar/go-daemon"
	"github.com/spf13/cobra"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/internal/common"
	"github.com/stratastor/netgen/pkg/lifecycle"
	"github.com/stratastor/netgen/pkg/server"
)

func NewServeCmd() *cobra.Command {
	var (
		detached bool
		port     int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the netgen HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(detached || cfg.Server.Daemonize, port)
		},
	}

	cmd.Flags().BoolVarP(&detached, "detach", "d", false, "Run as a daemon")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Listen port (defaults to server.port)")
	return cmd
}

func runServe(detached bool, port int) error {
	log, err := common.NewLogger("serve")
	if err != nil {
		return err
	}

	if err := config.EnsureDirectories(); err != nil {
		return err
	}
	pidFile := config.GetPIDFilePath()

	if detached {
		ctx := &daemon.Context{
			PidFileName: pidFile,
			PidFilePerm: 0644,
			LogFileName: config.GetLogFilePath(),
			LogFilePerm: 0640,
			WorkDir:     "/",
			Umask:       027,
			Args:        os.Args,
		}

		d, err := ctx.Reborn()
		if err != nil {
			log.Error("Failed to start daemon", "error", err)
			return err
		}

		if d != nil {
			log.Info("netgen is running as a daemon", "pid", d.Pid)
			return nil
		}
		defer ctx.Release()
	} else if err := lifecycle.EnsureSingleInstance(pidFile); err != nil {
		log.Error("Failed to start", "error", err)
		return err
	}

	return startServer(port)
}

func startServer(port int) error {
	log, err := common.NewLogger("serve")
	if err != nil {
		return err
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lifecycle.RegisterContextCanceller(cancel)
	lifecycle.RegisterShutdownHook(func() {
		log.Info("Shutting down server...")
	})
	defer lifecycle.Shutdown()

	go lifecycle.HandleSignals(ctx)

	if err := server.Start(ctx, port); err != nil {
		log.Error("Server stopped with error", "error", err)
		return err
	}
	return nil
}
