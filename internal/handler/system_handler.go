package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/response"
	"github.com/blacksiege/stms-backend/internal/session"
)

// SystemHandler exposes operational endpoints.
type SystemHandler struct {
	cfg      *config.Config
	sessions *session.Manager
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(cfg *config.Config, sessions *session.Manager) *SystemHandler {
	return &SystemHandler{cfg: cfg, sessions: sessions}
}

// Health godoc
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"status":   "ok",
		"driver":   h.cfg.StorageDriver,
		"sessions": h.sessions.Count(),
	})
}
