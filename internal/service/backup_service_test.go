package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacksiege/stms-backend/internal/config"
	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

type resetSpy struct {
	calls int
}

func (r *resetSpy) Reset() { r.calls++ }

func seedStore(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, st.Set(ctx, config.StorageKey.AdminPassword, []byte(`"s3cret"`)))
	require.NoError(t, st.Set(ctx, config.StorageKey.Students,
		[]byte(`[{"code":"ABC123","name":"Ada"}]`)))
	require.NoError(t, st.Set(ctx, config.StorageKey.Tests,
		[]byte(`[{"id":"1700000000000","title":"T","instructions":"i","timeLimit":10,"passingPercentage":60,"questions":[{"text":"q","options":["a","b"],"correctAnswer":0}]}]`)))
}

func TestBackupExportOmitsMissingCollections(t *testing.T) {
	st := store.NewMemoryStore()
	svc := NewBackupService(st, &resetSpy{}, zerolog.Nop())

	backup, err := svc.Export(context.Background())
	require.NoError(t, err)

	assert.Nil(t, backup.AdminPassword)
	assert.Nil(t, backup.Students)
	assert.Nil(t, backup.Tests)
	assert.Nil(t, backup.TestResults)
	assert.Equal(t, model.BackupVersion, backup.Version)
	assert.NotEmpty(t, backup.ExportDate)
}

func TestBackupExportImportRoundtrip(t *testing.T) {
	src := store.NewMemoryStore()
	seedStore(t, src)
	ctx := context.Background()

	exporter := NewBackupService(src, &resetSpy{}, zerolog.Nop())
	backup, err := exporter.Export(ctx)
	require.NoError(t, err)

	require.NotNil(t, backup.Students)
	var students []model.Student
	require.NoError(t, json.Unmarshal([]byte(*backup.Students), &students))
	require.Len(t, students, 1)
	assert.Equal(t, "ABC123", students[0].Code)

	// Restore into a fresh store; every carried collection lands raw.
	dst := store.NewMemoryStore()
	spy := &resetSpy{}
	importer := NewBackupService(dst, spy, zerolog.Nop())
	require.NoError(t, importer.Import(ctx, backup))
	assert.Equal(t, 1, spy.calls)

	for _, key := range []string{
		config.StorageKey.AdminPassword,
		config.StorageKey.Students,
		config.StorageKey.Tests,
	} {
		srcRaw, err := src.Get(ctx, key)
		require.NoError(t, err)
		dstRaw, err := dst.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, srcRaw, dstRaw, "key %s", key)
	}
}

func TestBackupImportKeepsAbsentCollections(t *testing.T) {
	st := store.NewMemoryStore()
	seedStore(t, st)
	ctx := context.Background()

	students := `[{"code":"NEW111","name":"Replacement"}]`
	backup := &model.Backup{Students: &students, Version: model.BackupVersion}

	svc := NewBackupService(st, &resetSpy{}, zerolog.Nop())
	require.NoError(t, svc.Import(ctx, backup))

	raw, err := st.Get(ctx, config.StorageKey.Students)
	require.NoError(t, err)
	assert.JSONEq(t, students, string(raw))

	// Collections the backup did not carry are untouched.
	raw, err = st.Get(ctx, config.StorageKey.AdminPassword)
	require.NoError(t, err)
	assert.Equal(t, `"s3cret"`, string(raw))
}

func TestBackupImportRejectsEmptyBackup(t *testing.T) {
	svc := NewBackupService(store.NewMemoryStore(), &resetSpy{}, zerolog.Nop())

	results := `[]`
	err := svc.Import(context.Background(), &model.Backup{TestResults: &results})
	assert.ErrorIs(t, err, ErrInvalidBackup)
}

func TestBackupImportRejectsMalformedValues(t *testing.T) {
	st := store.NewMemoryStore()
	spy := &resetSpy{}
	svc := NewBackupService(st, spy, zerolog.Nop())

	bad := `{not json`
	err := svc.Import(context.Background(), &model.Backup{Students: &bad})
	assert.ErrorIs(t, err, ErrInvalidBackup)

	// Nothing was written and no session was dropped.
	_, getErr := st.Get(context.Background(), config.StorageKey.Students)
	assert.ErrorIs(t, getErr, store.ErrNotFound)
	assert.Equal(t, 0, spy.calls)
}
