package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/store"
)

func writeSeedFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSeedPopulatesEmptyCollections(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "admin.json", `"bootstrap"`)
	writeSeedFile(t, dir, "students.json", `[{"code":"SEED01","name":"Seeded"}]`)
	writeSeedFile(t, dir, "results.json", `[]`)

	st := store.NewMemoryStore()
	svc := NewSeedService(st, &config.Config{DataDir: dir}, zerolog.Nop())
	require.NoError(t, svc.Run(context.Background()))

	ctx := context.Background()
	raw, err := st.Get(ctx, config.StorageKey.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, `"bootstrap"`, string(raw))

	raw, err = st.Get(ctx, config.StorageKey.Students)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"code":"SEED01","name":"Seeded"}]`, string(raw))

	raw, err = st.Get(ctx, config.StorageKey.TestResults)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(raw))

	// No tests.json was provided; the key stays absent.
	_, err = st.Get(ctx, config.StorageKey.Tests)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSeedNeverOverwritesExistingData(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "students.json", `[{"code":"SEED01","name":"Seeded"}]`)

	st := store.NewMemoryStore()
	ctx := context.Background()
	existing := `[{"code":"LIVE01","name":"Live"}]`
	require.NoError(t, st.Set(ctx, config.StorageKey.Students, []byte(existing)))

	svc := NewSeedService(st, &config.Config{DataDir: dir}, zerolog.Nop())
	require.NoError(t, svc.Run(ctx))

	raw, err := st.Get(ctx, config.StorageKey.Students)
	require.NoError(t, err)
	assert.Equal(t, existing, string(raw))
}

func TestSeedSkipsMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	writeSeedFile(t, dir, "students.json", `{not valid json`)
	writeSeedFile(t, dir, "admin.json", `"ok"`)

	st := store.NewMemoryStore()
	svc := NewSeedService(st, &config.Config{DataDir: dir}, zerolog.Nop())
	require.NoError(t, svc.Run(context.Background()))

	ctx := context.Background()
	_, err := st.Get(ctx, config.StorageKey.Students)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The good file next to it still seeds.
	raw, err := st.Get(ctx, config.StorageKey.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, `"ok"`, string(raw))
}
