package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/blacksiege/stms-backend/internal/repository"
)

// ErrPasswordMismatch is returned when the confirmation does not match.
var ErrPasswordMismatch = errors.New("password confirmation does not match")

// AdminService manages the administrator credential.
type AdminService struct {
	adminRepo *repository.AdminRepository
}

// NewAdminService creates a new AdminService.
func NewAdminService(adminRepo *repository.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// ChangePassword replaces the stored admin credential. The new credential
// takes effect for subsequent logins; existing sessions stay valid.
func (s *AdminService) ChangePassword(ctx context.Context, newPassword, confirmPassword string) error {
	if newPassword != confirmPassword {
		return ErrPasswordMismatch
	}
	if err := s.adminRepo.SetCredential(ctx, newPassword); err != nil {
		return fmt.Errorf("set credential: %w", err)
	}
	return nil
}
