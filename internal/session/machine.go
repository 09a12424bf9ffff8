package session

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/repository"
	"github.com/blacksiege/stms-backend/internal/scoring"
)

// Deps carries everything a Machine needs to run transitions.
type Deps struct {
	Admin    *repository.AdminRepository
	Students *repository.StudentRepository
	Tests    *repository.TestRepository
	Results  *repository.ResultRepository

	Scoring scoring.Options
	Clock   Clock
	Sched   Scheduler
	Tick    time.Duration
	Log     zerolog.Logger
}

// Machine is the state machine for one actor session. All transitions
// run under the machine's mutex, which serializes racing events (a
// manual submit against the countdown firing, for example).
type Machine struct {
	mu   sync.Mutex
	id   string
	deps Deps

	state   State
	student *model.Student // nil while logged out or for admins

	// Attempt context; populated from TEST_INSTRUCTIONS onward.
	test      *model.Test
	startedAt time.Time
	deadline  time.Time
	answers   map[int]int
	stopTimer func()

	// Outcome of the finished attempt, kept for the TEST_RESULT view.
	outcome *scoring.Outcome
	result  *model.Result
}

// NewMachine creates a logged-out machine. Sessions are normally
// created through a Manager, which assigns the id.
func NewMachine(id string, deps Deps) *Machine {
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Sched == nil {
		deps.Sched = TickerScheduler{}
	}
	if deps.Tick <= 0 {
		deps.Tick = time.Second
	}
	return &Machine{
		id:    id,
		deps:  deps,
		state: StateLoggedOut,
	}
}

// ID returns the session identifier carried in the JWT.
func (m *Machine) ID() string { return m.id }

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Student returns the logged-in student, or nil for admin sessions.
func (m *Machine) Student() *model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.student
}

// AdminLogin authenticates an admin session. If no credential exists
// yet the supplied password becomes the credential (bootstrap on first
// use); otherwise it must match. On mismatch the machine stays logged
// out and ErrInvalidCredential is returned.
func (m *Machine) AdminLogin(ctx context.Context, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLoggedOut {
		return ErrInvalidState
	}

	stored, exists, err := m.deps.Admin.GetCredential(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if err := m.deps.Admin.SetCredential(ctx, password); err != nil {
			return err
		}
		m.deps.Log.Info().Msg("Admin credential bootstrapped on first login")
	} else if stored != password {
		return ErrInvalidCredential
	}

	m.state = StateAdminDashboard
	return nil
}

// StudentLogin authenticates a student session by code. Unknown codes
// leave the machine logged out and return ErrInvalidCredential.
func (m *Machine) StudentLogin(ctx context.Context, code string) (*model.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateLoggedOut {
		return nil, ErrInvalidState
	}

	student, err := m.deps.Students.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, ErrInvalidCredential
	}

	m.student = student
	m.state = StateStudentDashboard
	return student, nil
}

// SelectTest moves a student from the dashboard to the instructions
// view. A test the student already has a result for is rejected with
// ErrAlreadyAttempted; the dashboard lists it under completed instead.
func (m *Machine) SelectTest(ctx context.Context, testID string) (*model.Test, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateStudentDashboard {
		return nil, ErrInvalidState
	}

	test, err := m.deps.Tests.FindByID(ctx, testID)
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, ErrTestNotFound
	}

	attempted, err := m.deps.Results.HasAttempted(ctx, m.student.Code, testID)
	if err != nil {
		return nil, err
	}
	if attempted {
		return nil, ErrAlreadyAttempted
	}

	m.test = test
	m.state = StateTestInstructions
	return test, nil
}

// Back returns from the instructions view to the dashboard without
// consuming the attempt.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestInstructions {
		return ErrInvalidState
	}
	m.test = nil
	m.state = StateStudentDashboard
	return nil
}

// Start begins the timed attempt: the countdown runs from now for the
// test's time limit, checking elapsed time once per tick and firing an
// automatic submit when the deadline passes.
func (m *Machine) Start() (*model.Test, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestInstructions {
		return nil, time.Time{}, ErrInvalidState
	}

	m.startedAt = m.deps.Clock.Now()
	m.deadline = m.startedAt.Add(time.Duration(m.test.TimeLimit) * time.Minute)
	m.answers = make(map[int]int)
	m.state = StateTestInProgress
	m.stopTimer = m.deps.Sched.Every(m.deps.Tick, m.checkDeadline)

	return m.test, m.deadline, nil
}

// Answer records or replaces the selected option for a question. The
// attempt stays in progress (self-transition).
func (m *Machine) Answer(questionIndex, optionIndex int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestInProgress {
		return ErrInvalidState
	}
	if questionIndex < 0 || questionIndex >= len(m.test.Questions) {
		return ErrInvalidAnswer
	}
	if optionIndex < 0 || optionIndex >= len(m.test.Questions[questionIndex].Options) {
		return ErrInvalidAnswer
	}

	m.answers[questionIndex] = optionIndex
	return nil
}

// Submit finishes the attempt on the student's request.
func (m *Machine) Submit(ctx context.Context) (*model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestInProgress {
		return nil, ErrInvalidState
	}
	return m.finish(ctx)
}

// Abandon is the confirmed navigation-away path. The attempt is still
// consumed: whatever answers were captured are scored and recorded, the
// same as an implicit submit.
func (m *Machine) Abandon(ctx context.Context) (*model.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestInProgress {
		return nil, ErrInvalidState
	}
	return m.finish(ctx)
}

// Acknowledge leaves the result view. Equivalent to logout.
func (m *Machine) Acknowledge() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestResult {
		return ErrInvalidState
	}
	m.reset()
	return nil
}

// Logout clears the session from any state, cancelling a running
// countdown so no dangling callback can mutate the machine afterwards.
// A test in progress is discarded without recording a result; the
// attempt was never submitted.
func (m *Machine) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

// Snapshot is a consistent read of the session for state endpoints and
// the WebSocket countdown stream.
type Snapshot struct {
	State            State            `json:"state"`
	Student          *model.Student   `json:"student,omitempty"`
	TestID           string           `json:"test_id,omitempty"`
	Answers          map[int]int      `json:"answers,omitempty"`
	RemainingSeconds int              `json:"remaining_seconds"`
	Outcome          *scoring.Outcome `json:"outcome,omitempty"`
}

// Snapshot returns the current state, captured answers and remaining
// seconds. It is the reload path: a client that lost its view can
// reconstruct it from here.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		State:   m.state,
		Student: m.student,
		Outcome: m.outcome,
	}
	if m.test != nil {
		snap.TestID = m.test.ID
	}
	if m.state == StateTestInProgress {
		snap.Answers = make(map[int]int, len(m.answers))
		for k, v := range m.answers {
			snap.Answers[k] = v
		}
		snap.RemainingSeconds = m.remainingLocked()
	}
	return snap
}

// Test returns the test in play from instructions onward, or nil.
func (m *Machine) Test() *model.Test {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.test
}

// Result returns the recorded result while in TEST_RESULT, or nil.
func (m *Machine) Result() *model.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result
}

// checkDeadline is the countdown tick. It fires the automatic submit
// once elapsed time reaches the limit; every other tick is a no-op.
func (m *Machine) checkDeadline() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateTestInProgress {
		return
	}
	if m.deps.Clock.Now().Before(m.deadline) {
		return
	}

	// The tick goroutine has no request context.
	if _, err := m.finish(context.Background()); err != nil {
		m.deps.Log.Error().Err(err).
			Str("session_id", m.id).
			Str("test_id", m.test.ID).
			Msg("Auto-submit on time expiry failed to persist result")
	}
}

// finish scores the attempt, records the result and moves to
// TEST_RESULT. Callers must hold m.mu and have verified the state.
// Recording is idempotent: if a result for this (student, test) pair
// already exists, as with a racing double-submit, the stored one wins
// and no duplicate is added.
func (m *Machine) finish(ctx context.Context) (*model.Result, error) {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}

	outcome := scoring.Score(m.test, m.answers, m.deps.Scoring)

	result := &model.Result{
		StudentCode: m.student.Code,
		TestID:      m.test.ID,
		Correct:     outcome.Correct,
		Incorrect:   outcome.Incorrect,
		Unanswered:  outcome.Unanswered,
		Percentage:  outcome.Percentage,
		Passed:      outcome.Passed,
		Timestamp:   m.deps.Clock.Now(),
	}

	stored, err := m.deps.Results.Record(ctx, result)
	if err != nil {
		// Non-fatal: the attempt still ends and the outcome is shown;
		// only persistence failed.
		m.outcome = &outcome
		m.result = result
		m.state = StateTestResult
		return result, fmt.Errorf("record result: %w", err)
	}

	m.outcome = &outcome
	m.result = stored
	m.state = StateTestResult
	return stored, nil
}

func (m *Machine) remainingLocked() int {
	remaining := m.deadline.Sub(m.deps.Clock.Now())
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Seconds()))
}

// reset clears every per-login field, cancelling the countdown first.
func (m *Machine) reset() {
	if m.stopTimer != nil {
		m.stopTimer()
		m.stopTimer = nil
	}
	m.student = nil
	m.test = nil
	m.startedAt = time.Time{}
	m.deadline = time.Time{}
	m.answers = nil
	m.outcome = nil
	m.result = nil
	m.state = StateLoggedOut
}
