// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/httpclient"
)

// Status is the body served by the server health endpoint
type Status struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Sessions int    `json:"sessions"`
	Sweeper  bool   `json:"sweeper"`
}

type HealthChecker struct {
	Client   *httpclient.Client
	Logger   logger.Logger
	endpoint string
}

// NewHealthChecker builds a checker that probes the locally configured server
func NewHealthChecker(cfg *config.Config) (*HealthChecker, error) {
	return NewHealthCheckerFor(cfg, fmt.Sprintf("http://localhost:%d", cfg.Server.Port))
}

// NewHealthCheckerFor builds a checker that probes baseURL
func NewHealthCheckerFor(cfg *config.Config, baseURL string) (*HealthChecker, error) {
	l, err := logger.NewTag(config.NewLoggerConfig(cfg), "health")
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	clientConfig := httpclient.NewClientConfig()
	clientConfig.Timeout = cfg.HealthTimeout()
	clientConfig.BaseURL = baseURL

	return &HealthChecker{
		Client:   httpclient.NewClient(clientConfig),
		Logger:   l,
		endpoint: cfg.Health.Endpoint,
	}, nil
}

// CheckHealth probes the health endpoint and returns the decoded status
func (hc *HealthChecker) CheckHealth(ctx context.Context) (*Status, error) {
	var status Status
	resp, err := hc.Client.NewRequest(httpclient.RequestConfig{
		Path:    hc.endpoint,
		Result:  &status,
		Context: ctx,
	}).Get()
	if err != nil {
		hc.Logger.Debug("Health probe failed", "endpoint", hc.endpoint, "error", err)
		var code errors.ErrorCode = errors.HealthCheckFailed
		if stderrors.Is(err, context.DeadlineExceeded) {
			code = errors.HealthCheckTimeout
		}
		return nil, errors.Wrap(err, code).WithMetadata("endpoint", hc.endpoint)
	}

	if !resp.IsSuccess() {
		return nil, errors.New(errors.HealthCheckFailed,
			fmt.Sprintf("status %s, response %s", resp.Status(), resp.String())).
			WithMetadata("endpoint", hc.endpoint)
	}
	return &status, nil
}
