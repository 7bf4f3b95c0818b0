package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/weiwangfds/collegenotes/internal/database"
	"github.com/weiwangfds/collegenotes/internal/logger"
	"github.com/weiwangfds/collegenotes/internal/service/oss"
	"gorm.io/gorm"
)

const statusCheckTimeout = 5 * time.Second

// SystemHandler welcome, liveness and dependency status
type SystemHandler struct {
	db       *gorm.DB
	provider oss.Provider
	version  string
}

// NewSystemHandler creates the handler
func NewSystemHandler(db *gorm.DB, provider oss.Provider, version string) *SystemHandler {
	return &SystemHandler{db: db, provider: provider, version: version}
}

// ComponentStatus state of one dependency
type ComponentStatus struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty"`
}

// StatusResponse body of /api/status
type StatusResponse struct {
	Status   string          `json:"status" example:"ok"`
	Version  string          `json:"version" example:"1.0.0"`
	Provider string          `json:"provider" example:"cloudinary"`
	Database ComponentStatus `json:"database"`
	Storage  ComponentStatus `json:"storage"`
}

// Welcome root greeting
// @Summary Welcome
// @Tags system
// @Produce json
// @Success 200 {object} response.MessageBody
// @Router / [get]
func (h *SystemHandler) Welcome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to Notes API"})
}

// Health liveness probe
// @Summary Liveness
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is running",
	})
}

// Status pings the database and the object store.
// A failing database makes the service unavailable; a failing store only degrades it.
// @Summary Dependency status
// @Tags system
// @Produce json
// @Success 200 {object} StatusResponse
// @Failure 503 {object} StatusResponse
// @Router /api/status [get]
func (h *SystemHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), statusCheckTimeout)
	defer cancel()

	resp := StatusResponse{
		Status:   "ok",
		Version:  h.version,
		Provider: h.provider.Name(),
		Database: ComponentStatus{Status: "ok"},
		Storage:  ComponentStatus{Status: "ok"},
	}
	code := http.StatusOK

	if err := database.Ping(h.db.WithContext(ctx)); err != nil {
		logger.Errorf("database ping failed: %v", err)
		resp.Database = ComponentStatus{Status: "error", Error: err.Error()}
		resp.Status = "error"
		code = http.StatusServiceUnavailable
	}
	if err := h.provider.Ping(ctx); err != nil {
		logger.Warnf("[%s] object store ping failed: %v", h.provider.Name(), err)
		resp.Storage = ComponentStatus{Status: "error", Error: err.Error()}
		if resp.Status == "ok" {
			resp.Status = "degraded"
		}
	}

	c.JSON(code, resp)
}
