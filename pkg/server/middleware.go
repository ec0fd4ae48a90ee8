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

package server

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/internal/constants"
	"github.com/stratastor/netgen/pkg/errors"
)

const (
	requestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// routeParams are the path parameters copied into the access log
var routeParams = []string{"session_id", "iface_id"}

// LoggerMiddleware writes one access log line per request and tags every
// API response with an X-Request-Id. Health probes pass through unlogged.
func LoggerMiddleware(l logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == constants.HealthPath {
			c.Next()
			return
		}

		start := time.Now()
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		c.Next()

		args := logAttrs(accessAttrs(c, requestID, time.Since(start)))
		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("Server Error", args...)
		case status >= 400:
			l.Warn("Client Error", args...)
		default:
			l.Info("Request", args...)
		}
	}
}

// accessAttrs describes a finished request: the matched route and its
// session and interface ids, the render format for render routes, and the
// RodentError fields of every error the handler recorded.
func accessAttrs(c *gin.Context, requestID string, elapsed time.Duration) []slog.Attr {
	attrs := []slog.Attr{
		slog.String(requestIDKey, requestID),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", c.Writer.Status()),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
		slog.Int("bytes_out", c.Writer.Size()),
		slog.String("ip", c.ClientIP()),
	}

	if route := c.FullPath(); route != "" {
		attrs = append(attrs, slog.String("route", strings.TrimPrefix(route, constants.APIBase)))
		if i := strings.Index(route, "/render/"); i >= 0 {
			attrs = append(attrs, slog.String("format", route[i+len("/render/"):]))
		}
	}
	for _, name := range routeParams {
		if v := c.Param(name); v != "" {
			attrs = append(attrs, slog.String(name, v))
		}
	}
	if q := c.Request.URL.RawQuery; q != "" {
		attrs = append(attrs, slog.String("query", q))
	}

	for _, ginErr := range c.Errors {
		re, ok := ginErr.Err.(*errors.RodentError)
		if !ok {
			attrs = append(attrs, slog.String("error", ginErr.Error()))
			continue
		}
		attrs = append(attrs,
			slog.Int("error_code", int(re.Code)),
			slog.String("error_domain", string(re.Domain)),
			slog.String("error_message", re.Message),
		)
		if re.Details != "" {
			attrs = append(attrs, slog.String("error_details", re.Details))
		}
	}

	return attrs
}

func logAttrs(attrs []slog.Attr) []interface{} {
	args := make([]interface{}, 0, len(attrs)*2)
	for _, attr := range attrs {
		args = append(args, attr.Key, attr.Value.Any())
	}
	return args
}
