// Copyright 2024 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/config"
	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupServerTest(t *testing.T) *gin.Engine {
	t.Helper()
	cfg := &config.Config{Environment: "test"}
	cfg.Sessions.IdleTimeout = "5m"

	l, err := logger.NewTag(logger.Config{LogLevel: "debug"}, "test.server")
	require.NoError(t, err)

	sessions, err := NewSessionStore(cfg, l)
	require.NoError(t, err)

	engine, err := NewEngine(cfg, l, sessions)
	require.NoError(t, err)
	return engine
}

func TestEngine_Health(t *testing.T) {
	engine := setupServerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.HealthPath, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, float64(0), body["sessions"])
	assert.Equal(t, false, body["sweeper"])
	assert.Empty(t, w.Header().Get("X-Request-Id"))
}

func TestEngine_APIRoutesCarryRequestID(t *testing.T) {
	engine := setupServerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.APIBase+"/profiles", nil)
	engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, constants.APIBase+"/sessions/missing", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestEngine_RenderRoundTrip(t *testing.T) {
	engine := setupServerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, constants.APIBase+"/render/netplan",
		strings.NewReader(`{"profile":"debian","interfaces":[{"name":"eth0","type":"ethernet","dhcp4":true}]}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# Debian (Standard) Netplan Configuration")
	assert.Contains(t, w.Body.String(), "eth0:")
}

func TestShutdown_WithoutServer(t *testing.T) {
	assert.NoError(t, Shutdown(context.Background()))
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	apiErr, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "missing error in %s", w.Body.String())
	return apiErr
}

func TestEngine_UnknownRoute(t *testing.T) {
	engine := setupServerTest(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.APIBase+"/nope", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, float64(errors.ServerRouting), apiErr["code"])
	assert.Contains(t, apiErr["details"], "/nope")
}

func TestEngine_RecoversPanics(t *testing.T) {
	engine := setupServerTest(t)
	engine.GET(constants.APIBase+"/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.APIBase+"/panic", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	apiErr := decodeEnvelope(t, w)
	assert.Equal(t, float64(errors.ServerInternalError), apiErr["code"])
	assert.Equal(t, "boom", apiErr["details"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestAccessAttrs_SessionRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var attrs []slog.Attr
	engine.GET(constants.APIBase+"/sessions/:session_id/render/netplan", func(c *gin.Context) {
		_ = c.Error(errors.New(errors.SessionNotFound, "gone"))
		c.Status(http.StatusNotFound)
		attrs = accessAttrs(c, "rid-1", 0)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, constants.APIBase+"/sessions/s-42/render/netplan?x=1", nil)
	engine.ServeHTTP(w, req)

	got := make(map[string]any)
	for _, a := range attrs {
		got[a.Key] = a.Value.Any()
	}
	assert.Equal(t, "rid-1", got["request_id"])
	assert.Equal(t, "/sessions/:session_id/render/netplan", got["route"])
	assert.Equal(t, "netplan", got["format"])
	assert.Equal(t, "s-42", got["session_id"])
	assert.Equal(t, "x=1", got["query"])
	assert.Equal(t, int64(http.StatusNotFound), got["status"])
	assert.Equal(t, int64(errors.SessionNotFound), got["error_code"])
	assert.Equal(t, "gone", got["error_details"])
	assert.NotContains(t, got, "iface_id")
}

func TestStart_PortInUse(t *testing.T) {
	t.Setenv("NETGEN_CONFIG", filepath.Join(t.TempDir(), "netgen.yml"))

	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = Start(ctx, port)
	require.Error(t, err)
	assert.True(t, errors.IsRodentError(err, errors.ServerBind))
}
