package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

// SeedService loads initial data files into collections that are still
// empty. Existing data always wins; seed files never overwrite.
type SeedService struct {
	store store.Store
	cfg   *config.Config
	log   zerolog.Logger
}

// NewSeedService creates a new SeedService.
func NewSeedService(st store.Store, cfg *config.Config, log zerolog.Logger) *SeedService {
	return &SeedService{store: st, cfg: cfg, log: log}
}

// Run seeds every collection that has no stored value yet from the
// corresponding file under the data directory. Missing or malformed
// files are logged and skipped; they never abort startup.
func (s *SeedService) Run(ctx context.Context) error {
	seeds := []struct {
		file  string
		key   string
		check func([]byte) error
	}{
		{"admin.json", config.StorageKey.AdminPassword, func(raw []byte) error {
			var cred string
			return json.Unmarshal(raw, &cred)
		}},
		{"students.json", config.StorageKey.Students, func(raw []byte) error {
			var students []model.Student
			return json.Unmarshal(raw, &students)
		}},
		{"tests.json", config.StorageKey.Tests, func(raw []byte) error {
			var tests []model.Test
			return json.Unmarshal(raw, &tests)
		}},
		{"results.json", config.StorageKey.TestResults, func(raw []byte) error {
			var results []model.Result
			return json.Unmarshal(raw, &results)
		}},
	}

	for _, seed := range seeds {
		if err := s.seedOne(ctx, seed.file, seed.key, seed.check); err != nil {
			return err
		}
	}
	return nil
}

func (s *SeedService) seedOne(ctx context.Context, file, key string, check func([]byte) error) error {
	_, err := s.store.Get(ctx, key)
	if err == nil {
		return nil // already populated
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("check %s: %w", key, err)
	}

	path := filepath.Join(s.cfg.DataDir, file)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		s.log.Warn().Err(err).Str("file", path).Msg("seed file unreadable, skipping")
		return nil
	}

	if err := check(raw); err != nil {
		s.log.Warn().Err(err).Str("file", path).Msg("seed file malformed, skipping")
		return nil
	}

	if err := s.store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("seed %s: %w", key, err)
	}
	s.log.Info().Str("key", key).Str("file", path).Msg("seeded collection")
	return nil
}
