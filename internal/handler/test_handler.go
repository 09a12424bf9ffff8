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

// TestHandler handles admin-facing test authoring and result review.
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new TestHandler.
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// ListTests godoc
// GET /api/v1/admin/tests
func (h *TestHandler) ListTests(c *gin.Context) {
	tests, err := h.testService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"tests": tests})
}

// GetTest godoc
// GET /api/v1/admin/tests/:id
func (h *TestHandler) GetTest(c *gin.Context) {
	test, err := h.testService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failTest(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// CreateTest godoc
// POST /api/v1/admin/tests
func (h *TestHandler) CreateTest(c *gin.Context) {
	var req model.SaveTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionInvalid) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"questions": err.Error(),
			})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"test": test})
}

// UpdateTest godoc
// PUT /api/v1/admin/tests/:id
func (h *TestHandler) UpdateTest(c *gin.Context) {
	var req model.SaveTestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	test, err := h.testService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionInvalid) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
				"questions": err.Error(),
			})
			return
		}
		h.failTest(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"test": test})
}

// DeleteTest godoc
// DELETE /api/v1/admin/tests/:id
// Removes a test and every result recorded against it.
func (h *TestHandler) DeleteTest(c *gin.Context) {
	if err := h.testService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.failTest(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "test deleted"})
}

// TestResults godoc
// GET /api/v1/admin/tests/:id/results
func (h *TestHandler) TestResults(c *gin.Context) {
	results, err := h.testService.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failTest(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"results": results})
}

func (h *TestHandler) failTest(c *gin.Context, err error) {
	if errors.Is(err, service.ErrTestNotFound) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
}
