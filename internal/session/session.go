// Package session implements the portal's per-login state machine:
// login, dashboard, instructions, timed attempt, result, lock-out. One
// Machine exists per authenticated actor and owns the countdown for an
// in-progress attempt.
package session

import "errors"

// State identifies the current view of a session.
type State string

const (
	StateLoggedOut        State = "LOGGED_OUT"
	StateAdminDashboard   State = "ADMIN_DASHBOARD"
	StateStudentDashboard State = "STUDENT_DASHBOARD"
	StateTestInstructions State = "TEST_INSTRUCTIONS"
	StateTestInProgress   State = "TEST_IN_PROGRESS"
	StateTestResult       State = "TEST_RESULT"
)

// Transition errors surfaced to handlers.
var (
	// ErrInvalidCredential covers both a wrong admin password and an
	// unknown student code.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrAlreadyAttempted blocks re-entry into a test the student has a
	// recorded result for.
	ErrAlreadyAttempted = errors.New("test already attempted")

	// ErrInvalidState rejects an event the current state does not accept.
	ErrInvalidState = errors.New("event not allowed in current state")

	// ErrTestNotFound is returned when the selected test id is unknown.
	ErrTestNotFound = errors.New("test not found")

	// ErrInvalidAnswer rejects out-of-range question or option indexes.
	ErrInvalidAnswer = errors.New("answer index out of range")
)
