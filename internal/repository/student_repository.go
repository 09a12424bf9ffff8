package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

// StudentRepository handles the students collection. Every operation
// loads the full collection snapshot, modifies it, and stores it back.
// Absent records are signaled as nil/empty, never as errors.
type StudentRepository struct {
	store store.Store
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(s store.Store) *StudentRepository {
	return &StudentRepository{store: s}
}

// List returns all students. An unset collection is an empty slice.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	return r.load(ctx)
}

// FindByCode returns the student with the given code, or nil if no such
// student exists. Codes are compared after uppercasing.
func (r *StudentRepository) FindByCode(ctx context.Context, code string) (*model.Student, error) {
	students, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	code = strings.ToUpper(code)
	for i := range students {
		if students[i].Code == code {
			return &students[i], nil
		}
	}
	return nil, nil
}

// Create registers a new student under a freshly generated unique code.
func (r *StudentRepository) Create(ctx context.Context, name string) (*model.Student, error) {
	students, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	student := model.Student{Code: generateCode(students), Name: name}
	students = append(students, student)

	if err := r.save(ctx, students); err != nil {
		return nil, err
	}
	return &student, nil
}

// Update renames the student with the given code. Returns nil if no
// such student exists.
func (r *StudentRepository) Update(ctx context.Context, code, name string) (*model.Student, error) {
	students, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	code = strings.ToUpper(code)
	for i := range students {
		if students[i].Code == code {
			students[i].Name = name
			if err := r.save(ctx, students); err != nil {
				return nil, err
			}
			return &students[i], nil
		}
	}
	return nil, nil
}

// Delete removes the student with the given code. Results referencing
// the student are left in place; historical scores outlive the account.
func (r *StudentRepository) Delete(ctx context.Context, code string) error {
	students, err := r.load(ctx)
	if err != nil {
		return err
	}

	code = strings.ToUpper(code)
	filtered := students[:0]
	for _, s := range students {
		if s.Code != code {
			filtered = append(filtered, s)
		}
	}
	return r.save(ctx, filtered)
}

// generateCode draws 6-character [A-Z0-9] codes until one does not
// collide with an existing student. The retry is unbounded but with
// 36^6 combinations a second draw is already rare.
func generateCode(existing []model.Student) string {
	used := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		used[s.Code] = struct{}{}
	}

	for {
		b := make([]byte, model.StudentCodeLength)
		for i := range b {
			b[i] = model.StudentCodeAlphabet[rand.IntN(len(model.StudentCodeAlphabet))]
		}
		code := string(b)
		if _, taken := used[code]; !taken {
			return code
		}
	}
}

func (r *StudentRepository) load(ctx context.Context) ([]model.Student, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.Students)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []model.Student{}, nil
		}
		return nil, err
	}

	var students []model.Student
	if err := json.Unmarshal(raw, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (r *StudentRepository) save(ctx context.Context, students []model.Student) error {
	raw, err := json.Marshal(students)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, config.StorageKey.Students, raw)
}
