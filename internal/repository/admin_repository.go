package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/store"
)

// AdminRepository handles the single admin credential record.
type AdminRepository struct {
	store store.Store
}

// NewAdminRepository creates a new AdminRepository.
func NewAdminRepository(s store.Store) *AdminRepository {
	return &AdminRepository{store: s}
}

// GetCredential returns the stored admin secret. The second return is
// false when no credential has been set yet (bootstrap state).
func (r *AdminRepository) GetCredential(ctx context.Context) (string, bool, error) {
	raw, err := r.store.Get(ctx, config.StorageKey.AdminPassword)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}

	var secret string
	if err := json.Unmarshal(raw, &secret); err != nil {
		return "", false, err
	}
	return secret, true, nil
}

// SetCredential stores the admin secret, creating or replacing it.
func (r *AdminRepository) SetCredential(ctx context.Context, secret string) error {
	raw, err := json.Marshal(secret)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, config.StorageKey.AdminPassword, raw)
}
