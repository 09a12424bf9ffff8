package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/repository"
)

// ErrStudentNotFound is returned when no student matches the given code.
var ErrStudentNotFound = errors.New("student not found")

// StudentService manages the student roster.
type StudentService struct {
	studentRepo *repository.StudentRepository
}

// NewStudentService creates a new StudentService.
func NewStudentService(studentRepo *repository.StudentRepository) *StudentService {
	return &StudentService{studentRepo: studentRepo}
}

// List returns all registered students.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	students, err := s.studentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// Create registers a new student and assigns a unique access code.
func (s *StudentService) Create(ctx context.Context, name string) (*model.Student, error) {
	student, err := s.studentRepo.Create(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Update renames a student. The access code never changes.
func (s *StudentService) Update(ctx context.Context, code, name string) (*model.Student, error) {
	student, err := s.studentRepo.Update(ctx, code, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	return student, nil
}

// Delete removes a student from the roster. Past results are kept.
func (s *StudentService) Delete(ctx context.Context, code string) error {
	student, err := s.studentRepo.FindByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("find student: %w", err)
	}
	if student == nil {
		return ErrStudentNotFound
	}
	if err := s.studentRepo.Delete(ctx, code); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
