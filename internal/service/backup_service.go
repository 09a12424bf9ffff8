package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

// ErrInvalidBackup rejects imports carrying none of the known
// collections or values that do not decode into their expected shape.
var ErrInvalidBackup = errors.New("invalid backup payload")

// SessionResetter drops every live session. Satisfied by session.Manager.
type SessionResetter interface {
	Reset()
}

// BackupService exports and imports whole-store snapshots. It reads and
// writes raw store values rather than decoded models so a backup taken
// on one deployment restores bit-for-bit on another.
type BackupService struct {
	store    store.Store
	sessions SessionResetter
	log      zerolog.Logger
}

// NewBackupService creates a new BackupService.
func NewBackupService(st store.Store, sessions SessionResetter, log zerolog.Logger) *BackupService {
	return &BackupService{store: st, sessions: sessions, log: log}
}

// Export snapshots every populated collection. Missing keys are omitted
// from the backup rather than exported as empty values.
func (s *BackupService) Export(ctx context.Context) (*model.Backup, error) {
	backup := &model.Backup{
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Version:    model.BackupVersion,
	}

	fields := []struct {
		key  string
		dest **string
	}{
		{config.StorageKey.AdminPassword, &backup.AdminPassword},
		{config.StorageKey.Students, &backup.Students},
		{config.StorageKey.Tests, &backup.Tests},
		{config.StorageKey.TestResults, &backup.TestResults},
	}

	for _, f := range fields {
		raw, err := s.store.Get(ctx, f.key)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("export %s: %w", f.key, err)
		}
		value := string(raw)
		*f.dest = &value
	}

	return backup, nil
}

// Import validates a backup and replaces every collection it carries.
// Collections absent from the backup keep their current contents. All
// live sessions are dropped afterwards so every client observes the
// restored data from a clean login.
func (s *BackupService) Import(ctx context.Context, backup *model.Backup) error {
	if backup.AdminPassword == nil && backup.Students == nil && backup.Tests == nil {
		return ErrInvalidBackup
	}
	if err := validateBackup(backup); err != nil {
		return err
	}

	writes := []struct {
		key   string
		value *string
	}{
		{config.StorageKey.AdminPassword, backup.AdminPassword},
		{config.StorageKey.Students, backup.Students},
		{config.StorageKey.Tests, backup.Tests},
		{config.StorageKey.TestResults, backup.TestResults},
	}

	for _, w := range writes {
		if w.value == nil {
			continue
		}
		if err := s.store.Set(ctx, w.key, []byte(*w.value)); err != nil {
			return fmt.Errorf("import %s: %w", w.key, err)
		}
	}

	s.sessions.Reset()
	s.log.Info().Str("version", backup.Version).Msg("backup imported, all sessions reset")
	return nil
}

// validateBackup checks that every collection present in the backup
// decodes into its expected shape before anything is written.
func validateBackup(backup *model.Backup) error {
	if backup.AdminPassword != nil {
		var cred string
		if err := json.Unmarshal([]byte(*backup.AdminPassword), &cred); err != nil {
			return fmt.Errorf("%w: bad adminPassword value", ErrInvalidBackup)
		}
	}
	if backup.Students != nil {
		var students []model.Student
		if err := json.Unmarshal([]byte(*backup.Students), &students); err != nil {
			return fmt.Errorf("%w: bad students value", ErrInvalidBackup)
		}
	}
	if backup.Tests != nil {
		var tests []model.Test
		if err := json.Unmarshal([]byte(*backup.Tests), &tests); err != nil {
			return fmt.Errorf("%w: bad tests value", ErrInvalidBackup)
		}
	}
	if backup.TestResults != nil {
		var results []model.Result
		if err := json.Unmarshal([]byte(*backup.TestResults), &results); err != nil {
			return fmt.Errorf("%w: bad testResults value", ErrInvalidBackup)
		}
	}
	return nil
}
