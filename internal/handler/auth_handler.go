package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blacksiege/stms-backend/internal/middleware"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/response"
	"github.com/blacksiege/stms-backend/internal/service"
	"github.com/blacksiege/stms-backend/internal/session"
	"github.com/blacksiege/stms-backend/internal/validator"
)

// AuthHandler handles admin and student login, logout, and identity.
type AuthHandler struct {
	sessions    *session.Manager
	authService *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sessions *session.Manager, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{sessions: sessions, authService: authService}
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
// Verifies the admin password and opens an admin session. The very
// first login sets the submitted password as the credential.
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	machine := h.sessions.Create()
	if err := machine.AdminLogin(c.Request.Context(), req.Password); err != nil {
		h.sessions.Remove(machine.ID())
		if errors.Is(err, session.ErrInvalidCredential) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredential)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateAdminToken(machine.ID())
	if err != nil {
		h.sessions.Remove(machine.ID())
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"state": machine.State(),
	})
}

// StudentLogin godoc
// POST /api/v1/auth/student/login
// Verifies a student access code and opens a student session.
func (h *AuthHandler) StudentLogin(c *gin.Context) {
	var req model.StudentLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	machine := h.sessions.Create()
	student, err := machine.StudentLogin(c.Request.Context(), req.Code)
	if err != nil {
		h.sessions.Remove(machine.ID())
		if errors.Is(err, session.ErrInvalidCredential) {
			response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredential)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	token, err := h.authService.GenerateStudentToken(machine.ID(), student.Code)
	if err != nil {
		h.sessions.Remove(machine.ID())
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":   token,
		"student": student,
		"state":   machine.State(),
	})
}

// Logout godoc
// POST /api/v1/auth/logout
// Ends the session behind the presented token. An in-progress attempt
// is discarded without a result; use abandon to score and end it.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return
	}

	h.sessions.Remove(claims.SessionID)
	response.Success(c, http.StatusOK, gin.H{"message": "logged out"})
}

// StudentMe godoc
// GET /api/v1/auth/student/me
// Returns the logged-in student's identity and session state.
func (h *AuthHandler) StudentMe(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"student": machine.Student(),
		"state":   machine.State(),
	})
}

// machineFor resolves the session machine behind the request token,
// failing the request when the session no longer exists.
func (h *AuthHandler) machineFor(c *gin.Context) *session.Machine {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
		return nil
	}
	machine := h.sessions.Get(claims.SessionID)
	if machine == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrSessionExpired)
		return nil
	}
	return machine
}
