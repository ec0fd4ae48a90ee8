// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

// Gin's Engine is mounted on an http.Server instead of gin.Run() so the
// server can be shut down gracefully when the lifecycle context is cancelled.

package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stratastor/netgen/pkg/netmage/api"
	"github.com/stratastor/netgen/pkg/netmage/session"
)

const shutdownTimeout = 10 * time.Second

var (
	mu  sync.Mutex
	srv *http.Server
)

// NewEngine builds the gin engine with the netgen routes mounted
func NewEngine(cfg *config.Config, l logger.Logger, sessions *session.Store) (*gin.Engine, error) {
	// Switch to debug mode for non-production environments
	switch cfg.Environment {
	case "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	generator, err := netmage.NewGenerator(l)
	if err != nil {
		return nil, err
	}

	engine := gin.New()
	engine.Use(LoggerMiddleware(l))
	engine.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		api.SendError(c, l, errors.New(errors.ServerInternalError, fmt.Sprint(recovered)).
			WithMetadata("route", c.FullPath()))
	}))
	engine.NoRoute(func(c *gin.Context) {
		api.SendError(c, l, errors.New(errors.ServerRouting, "no route for "+c.Request.Method+" "+c.Request.URL.Path))
	})

	engine.GET(constants.HealthPath, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"version":  constants.Version,
			"sessions": sessions.Len(),
			"sweeper":  sessions.Running(),
		})
	})

	handler := api.NewNetworkHandler(generator, sessions, l)
	handler.RegisterRoutes(engine.Group(constants.APIBase))

	return engine, nil
}

// NewSessionStore builds the session store from the sessions config block
func NewSessionStore(cfg *config.Config, l logger.Logger) (*session.Store, error) {
	return session.NewStore(l, session.Config{
		IdleTimeout:   cfg.IdleTimeout(),
		SweepInterval: cfg.SweepInterval(),
		MaxSessions:   cfg.Sessions.MaxSessions,
	})
}

// Start serves the API until ctx is cancelled or the listener fails
func Start(ctx context.Context, port int) error {
	cfg := config.GetConfig()
	l, err := logger.NewTag(config.NewLoggerConfig(cfg), "server")
	if err != nil {
		return err
	}

	sessions, err := NewSessionStore(cfg, l)
	if err != nil {
		return err
	}
	if err := sessions.StartSweeper(ctx); err != nil {
		return err
	}
	defer sessions.Stop()

	engine, err := NewEngine(cfg, l, sessions)
	if err != nil {
		return err
	}

	if port == 0 {
		port = cfg.Server.Port
	}

	addr := fmt.Sprintf(":%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(err, errors.ServerBind).WithMetadata("addr", addr)
	}

	s := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	mu.Lock()
	srv = s
	mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		if err := s.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	l.Info("Server listening", "addr", ln.Addr().String(), "base", constants.APIBase)

	select {
	case err := <-errChan:
		return errors.Wrap(err, errors.ServerStart).
			WithMetadata("addr", s.Addr)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return Shutdown(shutdownCtx)
	}
}

// Shutdown stops the running server, if any
func Shutdown(ctx context.Context) error {
	mu.Lock()
	s := srv
	srv = nil
	mu.Unlock()

	if s == nil {
		return nil
	}
	if err := s.Shutdown(ctx); err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return errors.Wrap(err, errors.ServerTimeout).
				WithMetadata("operation", "shutdown")
		}
		return errors.Wrap(err, errors.ServerShutdown)
	}
	return nil
}
