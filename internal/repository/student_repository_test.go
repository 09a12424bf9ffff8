package repository

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacksiege/stms-backend/internal/store"
)

var codePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestStudentCreateAssignsUniqueCodes(t *testing.T) {
	repo := NewStudentRepository(store.NewMemoryStore())
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		student, err := repo.Create(ctx, "Student")
		require.NoError(t, err)
		assert.Regexp(t, codePattern, student.Code)
		assert.False(t, seen[student.Code], "duplicate code %s", student.Code)
		seen[student.Code] = true
	}

	students, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 50)
}

func TestStudentFindByCodeIsCaseInsensitive(t *testing.T) {
	repo := NewStudentRepository(store.NewMemoryStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, "Grace Hopper")
	require.NoError(t, err)

	found, err := repo.FindByCode(ctx, created.Code)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Grace Hopper", found.Name)

	// Codes entered in lowercase still match.
	found, err = repo.FindByCode(ctx, strings.ToLower(created.Code))
	require.NoError(t, err)
	assert.NotNil(t, found)

	missing, err := repo.FindByCode(ctx, "AAAAA1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStudentUpdateAndDelete(t *testing.T) {
	repo := NewStudentRepository(store.NewMemoryStore())
	ctx := context.Background()

	created, err := repo.Create(ctx, "Old Name")
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.Code, "New Name")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, created.Code, updated.Code)

	missing, err := repo.Update(ctx, "AAAAA1", "Nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, created.Code))
	found, err := repo.FindByCode(ctx, created.Code)
	require.NoError(t, err)
	assert.Nil(t, found)
}
