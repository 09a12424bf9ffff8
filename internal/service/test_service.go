package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/repository"
)

// Test management errors.
var (
	ErrTestNotFound    = errors.New("test not found")
	ErrQuestionInvalid = errors.New("question has an out-of-range correct answer")
)

// TestService manages test definitions and their recorded results.
type TestService struct {
	testRepo   *repository.TestRepository
	resultRepo *repository.ResultRepository
}

// NewTestService creates a new TestService.
func NewTestService(testRepo *repository.TestRepository, resultRepo *repository.ResultRepository) *TestService {
	return &TestService{testRepo: testRepo, resultRepo: resultRepo}
}

// List returns all test definitions.
func (s *TestService) List(ctx context.Context) ([]model.Test, error) {
	tests, err := s.testRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	return tests, nil
}

// Get returns a single test definition by id.
func (s *TestService) Get(ctx context.Context, id string) (*model.Test, error) {
	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find test: %w", err)
	}
	if test == nil {
		return nil, ErrTestNotFound
	}
	return test, nil
}

// Create validates and stores a new test definition, returning it with
// its assigned id.
func (s *TestService) Create(ctx context.Context, req *model.SaveTestRequest) (*model.Test, error) {
	test := req.Definition()
	if err := checkQuestions(test); err != nil {
		return nil, err
	}

	id, err := s.testRepo.Create(ctx, test)
	if err != nil {
		return nil, fmt.Errorf("create test: %w", err)
	}
	test.ID = id
	return test, nil
}

// Update replaces an existing test definition in place, keeping its id.
// Results already recorded against the test are untouched.
func (s *TestService) Update(ctx context.Context, id string, req *model.SaveTestRequest) (*model.Test, error) {
	test := req.Definition()
	if err := checkQuestions(test); err != nil {
		return nil, err
	}

	updated, err := s.testRepo.Update(ctx, id, test)
	if err != nil {
		return nil, fmt.Errorf("update test: %w", err)
	}
	if updated == nil {
		return nil, ErrTestNotFound
	}
	return updated, nil
}

// Delete removes a test and cascades to every result recorded against it.
func (s *TestService) Delete(ctx context.Context, id string) error {
	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find test: %w", err)
	}
	if test == nil {
		return ErrTestNotFound
	}

	if err := s.testRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete test: %w", err)
	}
	if _, err := s.resultRepo.RemoveByTest(ctx, id); err != nil {
		return fmt.Errorf("delete test results: %w", err)
	}
	return nil
}

// Results returns all recorded results for a test.
func (s *TestService) Results(ctx context.Context, id string) ([]model.Result, error) {
	test, err := s.testRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find test: %w", err)
	}
	if test == nil {
		return nil, ErrTestNotFound
	}

	all, err := s.resultRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}

	results := make([]model.Result, 0)
	for _, r := range all {
		if r.TestID == id {
			results = append(results, r)
		}
	}
	return results, nil
}

// checkQuestions rejects tests whose correct-answer index falls outside
// the question's option list. Struct tags cannot express this relation.
func checkQuestions(test *model.Test) error {
	for i, q := range test.Questions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			return fmt.Errorf("question %d: %w", i+1, ErrQuestionInvalid)
		}
	}
	return nil
}
