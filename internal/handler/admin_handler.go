package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/response"
	"github.com/blacksiege/stms-backend/internal/service"
	"github.com/blacksiege/stms-backend/internal/validator"
)

// AdminHandler handles admin password changes and backup import/export.
type AdminHandler struct {
	adminService  *service.AdminService
	backupService *service.BackupService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService, backupService *service.BackupService) *AdminHandler {
	return &AdminHandler{adminService: adminService, backupService: backupService}
}

// ChangePassword godoc
// PUT /api/v1/admin/password
// Replaces the admin credential. Open sessions stay logged in.
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req model.ChangePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	err := h.adminService.ChangePassword(c.Request.Context(), req.NewPassword, req.ConfirmPassword)
	if err != nil {
		if errors.Is(err, service.ErrPasswordMismatch) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"confirm_password": "confirmation does not match the new password",
			})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "password updated"})
}

// ExportBackup godoc
// GET /api/v1/admin/backup/export
// Returns a portable snapshot of all stored collections.
func (h *AdminHandler) ExportBackup(c *gin.Context) {
	backup, err := h.backupService.Export(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
		return
	}

	response.Success(c, http.StatusOK, backup)
}

// ImportBackup godoc
// POST /api/v1/admin/backup/import
// Restores a snapshot, replacing every collection it carries. Requires
// confirm=true since live data is overwritten and all sessions drop.
func (h *AdminHandler) ImportBackup(c *gin.Context) {
	var req model.ImportBackupRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if !req.Confirm {
		response.Fail(c, http.StatusBadRequest, response.ErrConfirmationRequired)
		return
	}

	if err := h.backupService.Import(c.Request.Context(), &req.Backup); err != nil {
		if errors.Is(err, service.ErrInvalidBackup) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidFormat)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "backup imported"})
}
