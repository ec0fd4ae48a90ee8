// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Health.Endpoint = "/health"
	cfg.Health.Timeout = "1s"
	cfg.Logger.LogLevel = "debug"
	return cfg
}

func TestCheckHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Status{Status: "healthy", Version: "v0.0.1", Sessions: 2, Sweeper: true})
	}))
	defer srv.Close()

	hc, err := NewHealthCheckerFor(testConfig(), srv.URL)
	require.NoError(t, err)

	status, err := hc.CheckHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, 2, status.Sessions)
	assert.True(t, status.Sweeper)
}

func TestCheckHealth_Unhealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	hc, err := NewHealthCheckerFor(testConfig(), srv.URL)
	require.NoError(t, err)

	_, err = hc.CheckHealth(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsRodentError(err, errors.HealthCheckFailed))
	assert.Contains(t, err.Error(), "404")
}

func TestCheckHealth_TransportErrors(t *testing.T) {
	t.Run("Unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		hc, err := NewHealthCheckerFor(testConfig(), url)
		require.NoError(t, err)

		_, err = hc.CheckHealth(context.Background())
		require.Error(t, err)
		assert.True(t, errors.IsRodentError(err, errors.HealthCheckFailed))
		assert.Equal(t, "/health", err.(*errors.RodentError).Metadata["endpoint"])
	})

	t.Run("Deadline", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(release)

		hc, err := NewHealthCheckerFor(testConfig(), srv.URL)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err = hc.CheckHealth(ctx)
		require.Error(t, err)
		assert.True(t, errors.IsRodentError(err, errors.HealthCheckTimeout))
	})
}
