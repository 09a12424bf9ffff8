package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blacksiege/stms-backend/internal/middleware"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/repository"
	"github.com/blacksiege/stms-backend/internal/response"
	"github.com/blacksiege/stms-backend/internal/service"
	"github.com/blacksiege/stms-backend/internal/session"
	"github.com/blacksiege/stms-backend/internal/validator"
)

// StudentPortalHandler drives the student-facing flow: dashboard, test
// selection, the timed attempt, and result acknowledgement. Every
// route resolves the caller's session machine and forwards the event.
type StudentPortalHandler struct {
	sessions    *session.Manager
	testService *service.TestService
	resultRepo  *repository.ResultRepository
}

// NewStudentPortalHandler creates a new StudentPortalHandler.
func NewStudentPortalHandler(
	sessions *session.Manager,
	testService *service.TestService,
	resultRepo *repository.ResultRepository,
) *StudentPortalHandler {
	return &StudentPortalHandler{
		sessions:    sessions,
		testService: testService,
		resultRepo:  resultRepo,
	}
}

// completedTest pairs a finished test with the student's result.
type completedTest struct {
	Test   model.TestSummary `json:"test"`
	Result model.Result      `json:"result"`
}

// Dashboard godoc
// GET /api/v1/student/dashboard
// Splits all tests into ones the student can still take and ones they
// already completed, the latter with their recorded results.
func (h *StudentPortalHandler) Dashboard(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	student := machine.Student()
	if student == nil || machine.State() != session.StateStudentDashboard {
		h.failSession(c, machine, session.ErrInvalidState)
		return
	}

	tests, err := h.testService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
		return
	}

	available := make([]model.TestSummary, 0)
	completed := make([]completedTest, 0)
	for _, t := range tests {
		result, err := h.resultRepo.Get(c.Request.Context(), student.Code, t.ID)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrStorageUnavailable)
			return
		}
		if result != nil {
			completed = append(completed, completedTest{Test: t.Summary(), Result: *result})
		} else {
			available = append(available, t.Summary())
		}
	}

	response.Success(c, http.StatusOK, gin.H{
		"student":   student,
		"available": available,
		"completed": completed,
	})
}

// SelectTest godoc
// POST /api/v1/student/tests/:id/select
// Moves to the instructions view for a not-yet-attempted test.
func (h *StudentPortalHandler) SelectTest(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	test, err := machine.SelectTest(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.failSession(c, machine, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"test":         test.Summary(),
		"instructions": test.Instructions,
		"state":        machine.State(),
	})
}

// Back godoc
// POST /api/v1/student/back
// Returns from the instructions view to the dashboard.
func (h *StudentPortalHandler) Back(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	if err := machine.Back(); err != nil {
		h.failSession(c, machine, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": machine.State()})
}

// StartTest godoc
// POST /api/v1/student/tests/:id/start
// Starts the timed attempt and returns the question paper with correct
// answers stripped. The countdown runs server-side from this moment.
func (h *StudentPortalHandler) StartTest(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	if t := machine.Test(); t == nil || t.ID != c.Param("id") {
		h.failSession(c, machine, session.ErrInvalidState)
		return
	}

	test, deadline, err := machine.Start()
	if err != nil {
		h.failSession(c, machine, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"test":      test.Summary(),
		"questions": test.Paper(),
		"deadline":  deadline,
		"state":     machine.State(),
	})
}

// Answer godoc
// POST /api/v1/student/tests/:id/answers
// Records or replaces the answer to one question.
func (h *StudentPortalHandler) Answer(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := machine.Answer(req.QuestionIndex, req.OptionIndex); err != nil {
		h.failSession(c, machine, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"state": machine.State()})
}

// SubmitTest godoc
// POST /api/v1/student/tests/:id/submit
// Finishes the attempt, scores it, and records the result.
func (h *StudentPortalHandler) SubmitTest(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	result, err := machine.Submit(c.Request.Context())
	if err != nil {
		h.failSession(c, machine, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result": result,
		"state":  machine.State(),
	})
}

// State godoc
// GET /api/v1/student/state
// Returns a snapshot of the session: current view, captured answers,
// and remaining seconds. This is the reload path for lost clients.
func (h *StudentPortalHandler) State(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	response.Success(c, http.StatusOK, machine.Snapshot())
}

// Abandon godoc
// POST /api/v1/student/abandon
// Ends an in-progress attempt early, scoring the answers captured so
// far. The attempt still counts; there is no retake.
func (h *StudentPortalHandler) Abandon(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	result, err := machine.Abandon(c.Request.Context())
	if err != nil {
		h.failSession(c, machine, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"result": result,
		"state":  machine.State(),
	})
}

// AcknowledgeResult godoc
// POST /api/v1/student/result/acknowledge
// Dismisses the result view and ends the session; the next login
// starts fresh at the dashboard with the test under completed.
func (h *StudentPortalHandler) AcknowledgeResult(c *gin.Context) {
	machine := h.machineFor(c)
	if machine == nil {
		return
	}

	if err := machine.Acknowledge(); err != nil {
		h.failSession(c, machine, err)
		return
	}

	if claims := middleware.GetClaims(c); claims != nil {
		h.sessions.Remove(claims.SessionID)
	}
	response.Success(c, http.StatusOK, gin.H{"state": session.StateLoggedOut})
}

func (h *StudentPortalHandler) machineFor(c *gin.Context) *session.Machine {
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

// failSession maps session machine errors onto API errors. A rejected
// event during a running attempt additionally ships a live snapshot so
// the client can steer back into the test view.
func (h *StudentPortalHandler) failSession(c *gin.Context, machine *session.Machine, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidState):
		if machine.State() == session.StateTestInProgress {
			response.FailWithData(c, http.StatusConflict, response.ErrInvalidState, machine.Snapshot())
			return
		}
		response.Fail(c, http.StatusConflict, response.ErrInvalidState)
	case errors.Is(err, session.ErrAlreadyAttempted):
		response.Fail(c, http.StatusConflict, response.ErrAlreadyAttempted)
	case errors.Is(err, session.ErrTestNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, session.ErrInvalidAnswer):
		response.Fail(c, http.StatusBadRequest, response.ErrAnswerOutOfRange)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
