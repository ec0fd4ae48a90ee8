// Copyright 2025 Raamsri Kumar <raam@tinkershack.in>
// Copyright 2025 The StrataSTOR Authors and Contributors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stratastor/logger"
	"github.com/stratastor/netgen/pkg/errors"
	"github.com/stratastor/netgen/pkg/netmage"
	"github.com/stratastor/netgen/pkg/netmage/session"
	"github.com/stratastor/netgen/pkg/netmage/types"
)

const contentTypeText = "text/plain; charset=utf-8"

// NetworkHandler handles REST API requests for interface editing and rendering
type NetworkHandler struct {
	generator *netmage.Generator
	sessions  *session.Store
	logger    logger.Logger
}

// APIResponse represents a standardized API response format
type APIResponse struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError represents error information in API responses
type APIError struct {
	Code    int                    `json:"code"`
	Domain  string                 `json:"domain"`
	Message string                 `json:"message"`
	Details string                 `json:"details,omitempty"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// NewNetworkHandler creates a new network API handler
func NewNetworkHandler(
	generator *netmage.Generator,
	sessions *session.Store,
	logger logger.Logger,
) *NetworkHandler {
	return &NetworkHandler{
		generator: generator,
		sessions:  sessions,
		logger:    logger,
	}
}

// RegisterRoutes registers the netgen routes
func (h *NetworkHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/profiles", h.ListProfiles)

	// Editing sessions
	sessions := router.Group("/sessions")
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("/:session_id", h.GetSession)
		sessions.DELETE("/:session_id", h.DeleteSession)
		sessions.PUT("/:session_id/profile", h.SetSessionProfile)

		sessions.POST("/:session_id/interfaces", h.AddInterface)
		sessions.PUT("/:session_id/interfaces/:iface_id", h.ReplaceInterface)
		sessions.DELETE("/:session_id/interfaces/:iface_id", h.RemoveInterface)

		sessions.GET("/:session_id/render/netplan", h.RenderSessionNetplan)
		sessions.GET("/:session_id/render/ifupdown", h.RenderSessionIfupdown)
		sessions.GET("/:session_id/validate", h.ValidateSession)
	}

	// Stateless rendering
	render := router.Group("/render")
	{
		render.POST("/netplan", h.RenderNetplan)
		render.POST("/ifupdown", h.RenderIfupdown)
	}

	// Validation routes
	validation := router.Group("/validate")
	{
		validation.POST("/gateway", h.ValidateGateway)
		validation.POST("/cidr", h.ValidateCIDR)
		validation.POST("/interface", h.ValidateInterface)
	}

	router.POST("/format/cidr", h.FormatCIDR)
}

// sendSuccess sends a successful response with the standardized format
func (h *NetworkHandler) sendSuccess(c *gin.Context, statusCode int, result interface{}) {
	response := APIResponse{
		Success: true,
		Result:  result,
	}
	c.JSON(statusCode, response)
}

// sendText writes rendered configuration verbatim
func (h *NetworkHandler) sendText(c *gin.Context, body string) {
	c.Data(http.StatusOK, contentTypeText, []byte(body))
}

// sendError sends an error response with the standardized format
func (h *NetworkHandler) sendError(c *gin.Context, err error) {
	SendError(c, h.logger, err)
}

// SendError writes err in the standard envelope. Errors that are not
// RodentErrors are reported as ServerInternalError.
func SendError(c *gin.Context, l logger.Logger, err error) {
	_ = c.Error(err)

	rodentErr, ok := err.(*errors.RodentError)
	if !ok {
		rodentErr = errors.Wrap(err, errors.ServerInternalError)
	}

	l.Error("Network API error",
		"error", err,
		"code", rodentErr.Code,
		"domain", rodentErr.Domain,
		"path", c.Request.URL.Path)

	response := APIResponse{
		Success: false,
		Error: &APIError{
			Code:    int(rodentErr.Code),
			Domain:  string(rodentErr.Domain),
			Message: rodentErr.Message,
			Details: rodentErr.Details,
		},
	}

	// Add metadata if available
	if len(rodentErr.Metadata) > 0 {
		response.Error.Meta = make(map[string]interface{})
		for k, v := range rodentErr.Metadata {
			response.Error.Meta[k] = v
		}
	}

	c.AbortWithStatusJSON(rodentErr.HTTPStatus, response)
}

// ListProfiles handles GET /profiles
func (h *NetworkHandler) ListProfiles(c *gin.Context) {
	profiles := netmage.Profiles()
	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"profiles": profiles,
		"default":  netmage.DefaultProfileID,
		"count":    len(profiles),
	})
}

// CreateSession handles POST /sessions
func (h *NetworkHandler) CreateSession(c *gin.Context) {
	var req types.SessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
			return
		}
	}

	s, err := h.sessions.Create(req.Profile)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusCreated, s)
}

// GetSession handles GET /sessions/:session_id
func (h *NetworkHandler) GetSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusOK, s)
}

// DeleteSession handles DELETE /sessions/:session_id
func (h *NetworkHandler) DeleteSession(c *gin.Context) {
	id := c.Param("session_id")
	if err := h.sessions.Delete(id); err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"message":    "Session closed",
		"session_id": id,
	})
}

// SetSessionProfile handles PUT /sessions/:session_id/profile
func (h *NetworkHandler) SetSessionProfile(c *gin.Context) {
	var req types.ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	s, err := h.sessions.SetProfile(c.Param("session_id"), req.Profile)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusOK, s)
}

// AddInterface handles POST /sessions/:session_id/interfaces
func (h *NetworkHandler) AddInterface(c *gin.Context) {
	var req types.InterfaceCreateRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
			return
		}
	}

	s, created, err := h.sessions.AddInterface(c.Param("session_id"), req.Name, req.Type)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusCreated, map[string]interface{}{
		"interface": created,
		"session":   s,
	})
}

// ReplaceInterface handles PUT /sessions/:session_id/interfaces/:iface_id
func (h *NetworkHandler) ReplaceInterface(c *gin.Context) {
	var iface types.Interface
	if err := c.ShouldBindJSON(&iface); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	ifaceID := c.Param("iface_id")
	if iface.ID == "" {
		iface.ID = ifaceID
	}
	if iface.ID != ifaceID {
		h.sendError(c, errors.New(errors.ServerBadRequest, "interface id in body does not match path").
			WithMetadata("iface_id", ifaceID))
		return
	}

	s, err := h.sessions.ReplaceInterface(c.Param("session_id"), iface)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"session":  s,
		"findings": nonNilFindings(netmage.ValidateInterface(iface)),
	})
}

// RemoveInterface handles DELETE /sessions/:session_id/interfaces/:iface_id
func (h *NetworkHandler) RemoveInterface(c *gin.Context) {
	s, err := h.sessions.RemoveInterface(c.Param("session_id"), c.Param("iface_id"))
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendSuccess(c, http.StatusOK, s)
}

// RenderSessionNetplan handles GET /sessions/:session_id/render/netplan
func (h *NetworkHandler) RenderSessionNetplan(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		h.sendError(c, err)
		return
	}

	out, err := h.generator.RenderNetplan(s.Profile, s.Interfaces)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendText(c, out)
}

// RenderSessionIfupdown handles GET /sessions/:session_id/render/ifupdown
func (h *NetworkHandler) RenderSessionIfupdown(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendText(c, h.generator.RenderIfupdown(s.Interfaces))
}

// ValidateSession handles GET /sessions/:session_id/validate
func (h *NetworkHandler) ValidateSession(c *gin.Context) {
	s, err := h.sessions.Get(c.Param("session_id"))
	if err != nil {
		h.sendError(c, err)
		return
	}

	findings := nonNilFindings(netmage.ValidateInterfaces(s.Interfaces))
	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"valid":    len(findings) == 0,
		"findings": findings,
	})
}

// RenderNetplan handles POST /render/netplan
func (h *NetworkHandler) RenderNetplan(c *gin.Context) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	out, err := h.generator.RenderNetplan(req.Profile, req.Interfaces)
	if err != nil {
		h.sendError(c, err)
		return
	}

	h.sendText(c, out)
}

// RenderIfupdown handles POST /render/ifupdown
func (h *NetworkHandler) RenderIfupdown(c *gin.Context) {
	var req types.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	h.sendText(c, h.generator.RenderIfupdown(req.Interfaces))
}

// ValidateGateway handles POST /validate/gateway
func (h *NetworkHandler) ValidateGateway(c *gin.Context) {
	var req types.GatewayValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	msg := netmage.ValidateGateway(req.Gateway, req.CIDRs, req.Family)
	result := map[string]interface{}{
		"valid":   msg == "",
		"gateway": req.Gateway,
	}
	if msg != "" {
		result["error"] = msg
	}

	h.sendSuccess(c, http.StatusOK, result)
}

// ValidateCIDR handles POST /validate/cidr
func (h *NetworkHandler) ValidateCIDR(c *gin.Context) {
	var req types.CIDRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"valid":  netmage.IsValidCIDR(req.Text, req.Family),
		"text":   req.Text,
		"family": req.Family,
	})
}

// FormatCIDR handles POST /format/cidr
func (h *NetworkHandler) FormatCIDR(c *gin.Context) {
	var req types.CIDRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	formatted := netmage.AutoFormat(req.Text, req.Family)
	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"text":      formatted,
		"original":  req.Text,
		"family":    req.Family,
		"valid":     netmage.IsValidCIDR(formatted, req.Family),
		"formatted": formatted != req.Text,
	})
}

// ValidateInterface handles POST /validate/interface
func (h *NetworkHandler) ValidateInterface(c *gin.Context) {
	var iface types.Interface
	if err := c.ShouldBindJSON(&iface); err != nil {
		h.sendError(c, errors.Wrap(err, errors.ServerRequestValidation))
		return
	}

	findings := nonNilFindings(netmage.ValidateInterface(iface))
	h.sendSuccess(c, http.StatusOK, map[string]interface{}{
		"valid":    len(findings) == 0,
		"findings": findings,
	})
}

func nonNilFindings(findings []types.Finding) []types.Finding {
	if findings == nil {
		return []types.Finding{}
	}
	return findings
}
