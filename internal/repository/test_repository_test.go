package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blacksiege/stms-backend/internal/model"
	"github.com/blacksiege/stms-backend/internal/store"
)

func sampleTest(title string) *model.Test {
	return &model.Test{
		Title:             title,
		Instructions:      "Read carefully.",
		TimeLimit:         30,
		PassingPercentage: 70,
		Questions: []model.Question{
			{Text: "q", Options: []string{"a", "b"}, CorrectAnswer: 0},
		},
	}
}

func TestTestCreateAssignsMillisecondIDs(t *testing.T) {
	repo := NewTestRepository(store.NewMemoryStore())
	ctx := context.Background()

	idPattern := regexp.MustCompile(`^\d{13,}$`)
	seen := make(map[string]bool)

	// Back-to-back creates land on the same millisecond; ids must still
	// come out unique.
	for i := 0; i < 5; i++ {
		id, err := repo.Create(ctx, sampleTest("T"))
		require.NoError(t, err)
		assert.Regexp(t, idPattern, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestTestFindUpdateDelete(t *testing.T) {
	repo := NewTestRepository(store.NewMemoryStore())
	ctx := context.Background()

	id, err := repo.Create(ctx, sampleTest("Original"))
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Original", found.Title)

	replacement := sampleTest("Replaced")
	replacement.TimeLimit = 45
	updated, err := repo.Update(ctx, id, replacement)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, id, updated.ID)
	assert.Equal(t, "Replaced", updated.Title)
	assert.Equal(t, 45, updated.TimeLimit)

	missing, err := repo.Update(ctx, "0", sampleTest("Nope"))
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.Delete(ctx, id))
	found, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, found)
}
