package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

// TestRepository handles the tests collection snapshot. Deleting a test
// does not touch results here; the cascade to the results collection is
// orchestrated by the test service.
type TestRepository struct {
	store store.Store
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(s store.Store) *TestRepository {
	return &TestRepository{store: s}
}

// List returns all test definitions.
func (r *TestRepository) List(ctx context.Context) ([]model.Test, error) {
	return r.load(ctx)
}

// FindByID returns the test with the given id, or nil if absent.
func (r *TestRepository) FindByID(ctx context.Context, id string) (*model.Test, error) {
	tests, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tests {
		if tests[i].ID == id {
			return &tests[i], nil
		}
	}
	return nil, nil
}

// Create stores a new test under a current-time-derived id (Unix
// milliseconds in decimal). The id is nudged forward if two creates
// land on the same millisecond.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) (string, error) {
	tests, err := r.load(ctx)
	if err != nil {
		return "", err
	}

	ms := time.Now().UnixMilli()
	for existsID(tests, strconv.FormatInt(ms, 10)) {
		ms++
	}
	t.ID = strconv.FormatInt(ms, 10)

	tests = append(tests, *t)
	if err := r.save(ctx, tests); err != nil {
		return "", err
	}
	return t.ID, nil
}

// Update replaces the definition of the test with the given id,
// preserving the id. Returns nil if no such test exists.
func (r *TestRepository) Update(ctx context.Context, id string, t *model.Test) (*model.Test, error) {
	tests, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range tests {
		if tests[i].ID == id {
			t.ID = id
			tests[i] = *t
			if err := r.save(ctx, tests); err != nil {
				return nil, err
			}
			return &tests[i], nil
		}
	}
	return nil, nil
}

// Delete removes the test with the given id.
func (r *TestRepository) Delete(ctx context.Context, id string) error {
	tests, err := r.load(ctx)
	if err != nil {
		return err
	}

	filtered := tests[:0]
	for _, t := range tests {
		if t.ID != id {
			filtered = append(filtered, t)
		}
	}
	return r.save(ctx, filtered)
}

func existsID(tests []model.Test, id string) bool {
	for i := range tests {
		if tests[i].ID == id {
			return true
		}
	}
	return false
}

func (r *TestRepository) load(ctx context.Context) ([]model.Test, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.Tests)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []model.Test{}, nil
		}
		return nil, err
	}

	var tests []model.Test
	if err := json.Unmarshal(raw, &tests); err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *TestRepository) save(ctx context.Context, tests []model.Test) error {
	raw, err := json.Marshal(tests)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, config.StorageKey.Tests, raw)
}
