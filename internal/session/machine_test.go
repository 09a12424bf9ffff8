package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/repository"
	"github.com/blacksiege/stms-backend/internal/scoring"
	"github.com/blacksiege/stms-backend/internal/store"
)

// fakeClock is a settable clock for deterministic countdown tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// manualScheduler hands the tick callback to the test instead of
// running it on a ticker.
type manualScheduler struct {
	fn      func()
	stopped bool
}

func (s *manualScheduler) Every(interval time.Duration, fn func()) (stop func()) {
	s.fn = fn
	return func() { s.stopped = true }
}

func (s *manualScheduler) Fire() {
	if s.fn != nil && !s.stopped {
		s.fn()
	}
}

type fixture struct {
	machine  *Machine
	clock    *fakeClock
	sched    *manualScheduler
	students *repository.StudentRepository
	tests    *repository.TestRepository
	results  *repository.ResultRepository
	admin    *repository.AdminRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.NewMemoryStore()
	f := &fixture{
		clock:    &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)},
		sched:    &manualScheduler{},
		admin:    repository.NewAdminRepository(st),
		students: repository.NewStudentRepository(st),
		tests:    repository.NewTestRepository(st),
		results:  repository.NewResultRepository(st),
	}
	f.machine = NewMachine("test-session", Deps{
		Admin:    f.admin,
		Students: f.students,
		Tests:    f.tests,
		Results:  f.results,
		Clock:    f.clock,
		Sched:    f.sched,
		Tick:     time.Second,
		Log:      zerolog.Nop(),
	})
	return f
}

func (f *fixture) seedStudent(t *testing.T) *model.Student {
	t.Helper()
	student, err := f.students.Create(context.Background(), "Ada Lovelace")
	require.NoError(t, err)
	return student
}

func (f *fixture) seedTest(t *testing.T, timeLimit int) *model.Test {
	t.Helper()
	test := &model.Test{
		Title:             "Numbers",
		Instructions:      "Answer everything.",
		TimeLimit:         timeLimit,
		PassingPercentage: 60,
		Questions: []model.Question{
			{Text: "q1", Options: []string{"a", "b", "c"}, CorrectAnswer: 1},
			{Text: "q2", Options: []string{"a", "b"}, CorrectAnswer: 0},
			{Text: "q3", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: 2},
		},
	}
	id, err := f.tests.Create(context.Background(), test)
	require.NoError(t, err)
	test.ID = id
	return test
}

func TestAdminLoginBootstrapsCredential(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// No credential stored yet: first login sets it.
	require.NoError(t, f.machine.AdminLogin(ctx, "s3cret"))
	assert.Equal(t, StateAdminDashboard, f.machine.State())

	stored, exists, err := f.admin.GetCredential(ctx)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "s3cret", stored)

	// A second session must now match the credential.
	other := NewMachine("other", f.machine.deps)
	assert.ErrorIs(t, other.AdminLogin(ctx, "wrong"), ErrInvalidCredential)
	assert.Equal(t, StateLoggedOut, other.State())
	require.NoError(t, other.AdminLogin(ctx, "s3cret"))
}

func TestStudentLoginUnknownCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.machine.StudentLogin(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, ErrInvalidCredential)
	assert.Equal(t, StateLoggedOut, f.machine.State())
}

func TestFullAttemptFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	assert.Equal(t, StateStudentDashboard, f.machine.State())

	selected, err := f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	assert.Equal(t, test.ID, selected.ID)
	assert.Equal(t, StateTestInstructions, f.machine.State())

	_, deadline, err := f.machine.Start()
	require.NoError(t, err)
	assert.Equal(t, f.clock.now.Add(10*time.Minute), deadline)
	assert.Equal(t, StateTestInProgress, f.machine.State())

	require.NoError(t, f.machine.Answer(0, 1))
	require.NoError(t, f.machine.Answer(2, 2))
	// Changing an answer replaces the previous selection.
	require.NoError(t, f.machine.Answer(0, 0))
	require.NoError(t, f.machine.Answer(0, 1))

	result, err := f.machine.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateTestResult, f.machine.State())
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, 1, result.Incorrect)
	assert.Equal(t, 67, result.Percentage)
	assert.True(t, result.Passed)
	assert.Equal(t, student.Code, result.StudentCode)

	// The result is persisted and the timer cancelled.
	attempted, err := f.results.HasAttempted(ctx, student.Code, test.ID)
	require.NoError(t, err)
	assert.True(t, attempted)
	assert.True(t, f.sched.stopped)

	require.NoError(t, f.machine.Acknowledge())
	assert.Equal(t, StateLoggedOut, f.machine.State())
}

func TestSelectAlreadyAttemptedTest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.results.Record(ctx, &model.Result{
		StudentCode: student.Code,
		TestID:      test.ID,
		Percentage:  40,
		Timestamp:   f.clock.now,
	})
	require.NoError(t, err)

	_, err = f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)

	_, err = f.machine.SelectTest(ctx, test.ID)
	assert.ErrorIs(t, err, ErrAlreadyAttempted)
	assert.Equal(t, StateStudentDashboard, f.machine.State())
}

func TestBackFromInstructions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)

	require.NoError(t, f.machine.Back())
	assert.Equal(t, StateStudentDashboard, f.machine.State())
	assert.Nil(t, f.machine.Test())

	// Backing out does not consume the attempt.
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
}

func TestTimeExpiryAutoSubmits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	require.NoError(t, err)

	require.NoError(t, f.machine.Answer(0, 1))

	// Ticks before the deadline change nothing.
	f.clock.Advance(9 * time.Minute)
	f.sched.Fire()
	assert.Equal(t, StateTestInProgress, f.machine.State())

	f.clock.Advance(time.Minute)
	f.sched.Fire()
	assert.Equal(t, StateTestResult, f.machine.State())

	result, err := f.results.Get(ctx, student.Code, test.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 2, result.Incorrect)
	assert.Equal(t, 33, result.Percentage)
	assert.False(t, result.Passed)
}

func TestSubmitAfterExpiryKeepsStoredResult(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	require.NoError(t, err)

	f.clock.Advance(11 * time.Minute)
	f.sched.Fire()
	assert.Equal(t, StateTestResult, f.machine.State())

	// The attempt already ended; a late manual submit is rejected.
	_, err = f.machine.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)

	results, err := f.results.List(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestAnswerOutOfRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	require.NoError(t, err)

	assert.ErrorIs(t, f.machine.Answer(-1, 0), ErrInvalidAnswer)
	assert.ErrorIs(t, f.machine.Answer(3, 0), ErrInvalidAnswer)
	assert.ErrorIs(t, f.machine.Answer(1, 2), ErrInvalidAnswer)
	assert.Equal(t, StateTestInProgress, f.machine.State())
}

func TestAbandonScoresCapturedAnswers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	require.NoError(t, err)
	require.NoError(t, f.machine.Answer(1, 0))

	result, err := f.machine.Abandon(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, StateTestResult, f.machine.State())

	attempted, err := f.results.HasAttempted(ctx, student.Code, test.ID)
	require.NoError(t, err)
	assert.True(t, attempted)
}

func TestLogoutDiscardsAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	require.NoError(t, err)

	f.machine.Logout()
	assert.Equal(t, StateLoggedOut, f.machine.State())
	assert.True(t, f.sched.stopped)

	// Nothing was recorded; the test is still open for a fresh session.
	attempted, err := f.results.HasAttempted(ctx, student.Code, test.ID)
	require.NoError(t, err)
	assert.False(t, attempted)
}

func TestSnapshotDuringAttempt(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	_, err := f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = f.machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	require.NoError(t, err)
	require.NoError(t, f.machine.Answer(0, 1))

	f.clock.Advance(4 * time.Minute)

	snap := f.machine.Snapshot()
	assert.Equal(t, StateTestInProgress, snap.State)
	assert.Equal(t, test.ID, snap.TestID)
	assert.Equal(t, map[int]int{0: 1}, snap.Answers)
	assert.Equal(t, 360, snap.RemainingSeconds)
	assert.Nil(t, snap.Outcome)
}

func TestInvalidTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	f.seedTest(t, 10)

	// Logged out: nothing but login is allowed.
	assert.ErrorIs(t, f.machine.Back(), ErrInvalidState)
	_, _, err := f.machine.Start()
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = f.machine.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidState)

	// Dashboard: start without a selected test is rejected.
	_, err = f.machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, _, err = f.machine.Start()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.ErrorIs(t, f.machine.Acknowledge(), ErrInvalidState)

	// A second login on a live session is rejected too.
	_, err = f.machine.StudentLogin(ctx, student.Code)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestManagerLifecycle(t *testing.T) {
	f := newFixture(t)
	mgr := NewManager(f.machine.deps)

	m1 := mgr.Create()
	m2 := mgr.Create()
	assert.Equal(t, 2, mgr.Count())
	assert.Same(t, m1, mgr.Get(m1.ID()))

	mgr.Remove(m1.ID())
	assert.Nil(t, mgr.Get(m1.ID()))
	assert.Equal(t, 1, mgr.Count())

	mgr.Reset()
	assert.Equal(t, 0, mgr.Count())
	assert.Nil(t, mgr.Get(m2.ID()))
	assert.Equal(t, StateLoggedOut, m2.State())
}

func TestTrackUnansweredOption(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)
	test := f.seedTest(t, 10)

	deps := f.machine.deps
	deps.Scoring = scoring.Options{TrackUnanswered: true}
	machine := NewMachine("tracked", deps)

	_, err := machine.StudentLogin(ctx, student.Code)
	require.NoError(t, err)
	_, err = machine.SelectTest(ctx, test.ID)
	require.NoError(t, err)
	_, _, err = machine.Start()
	require.NoError(t, err)
	require.NoError(t, machine.Answer(0, 1))

	result, err := machine.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Correct)
	assert.Equal(t, 0, result.Incorrect)
	assert.Equal(t, 2, result.Unanswered)
}
