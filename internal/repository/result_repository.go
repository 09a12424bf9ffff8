package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

// ResultRepository handles the results collection. It enforces the
// attempt-uniqueness invariant: at most one result per
// (studentCode, testId) pair, regardless of how often Record is called.
type ResultRepository struct {
	store store.Store
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(s store.Store) *ResultRepository {
	return &ResultRepository{store: s}
}

// List returns all recorded results.
func (r *ResultRepository) List(ctx context.Context) ([]model.Result, error) {
	return r.load(ctx)
}

// Record appends the result unless one already exists for the same
// (studentCode, testId) pair. In that case the stored result wins and
// is returned; a racing double-submit therefore persists exactly once.
func (r *ResultRepository) Record(ctx context.Context, result *model.Result) (*model.Result, error) {
	results, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range results {
		if results[i].StudentCode == result.StudentCode && results[i].TestID == result.TestID {
			return &results[i], nil
		}
	}

	results = append(results, *result)
	if err := r.save(ctx, results); err != nil {
		return nil, err
	}
	return result, nil
}

// HasAttempted reports whether a result exists for the pair.
func (r *ResultRepository) HasAttempted(ctx context.Context, studentCode, testID string) (bool, error) {
	result, err := r.Get(ctx, studentCode, testID)
	if err != nil {
		return false, err
	}
	return result != nil, nil
}

// Get returns the result for the pair, or nil if the student has not
// attempted the test.
func (r *ResultRepository) Get(ctx context.Context, studentCode, testID string) (*model.Result, error) {
	results, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].StudentCode == studentCode && results[i].TestID == testID {
			return &results[i], nil
		}
	}
	return nil, nil
}

// RemoveByTest drops every result referencing the test id. Called when
// a test is deleted (cascade). Returns the number of removed results.
func (r *ResultRepository) RemoveByTest(ctx context.Context, testID string) (int, error) {
	results, err := r.load(ctx)
	if err != nil {
		return 0, err
	}

	filtered := results[:0]
	for _, res := range results {
		if res.TestID != testID {
			filtered = append(filtered, res)
		}
	}
	removed := len(results) - len(filtered)
	if removed == 0 {
		return 0, nil
	}
	return removed, r.save(ctx, filtered)
}

func (r *ResultRepository) load(ctx context.Context) ([]model.Result, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.TestResults)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []model.Result{}, nil
		}
		return nil, err
	}

	var results []model.Result
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *ResultRepository) save(ctx context.Context, results []model.Result) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, config.StorageKey.TestResults, raw)
}
