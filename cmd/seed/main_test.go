package main

import (
	"alcyxob/fitness-backend/internal/domain"
	"alcyxob/fitness-backend/internal/repository/memory"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

func TestBundledSeedDataIsValid(t *testing.T) {
	exercises, err := loadSeedExercises(seedData)
	require.NoError(t, err)
	require.NotEmpty(t, exercises)

	names := map[string]bool{}
	for _, ex := range exercises {
		assert.False(t, names[ex.Name], "duplicate %q", ex.Name)
		names[ex.Name] = true
		assert.NotNil(t, ex.Instructions)
	}
}

func TestLoadSeedExercisesRejectsInvalidEntry(t *testing.T) {
	_, err := loadSeedExercises([]byte(`[{"name":"Ok"},{"name":"Bad","difficulty":"Elite"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `exercise 1 ("Bad")`)

	exercises, err := loadSeedExercises([]byte(`[{"name":"Plank"}]`))
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryStrength, exercises[0].Category)
	assert.Equal(t, domain.DifficultyBeginner, exercises[0].Difficulty)
}

func TestSeedClearsUnlessKeep(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewExerciseRepository()
	_, err := repo.Create(ctx, &domain.Exercise{Name: "Existing"})
	require.NoError(t, err)

	batch := []domain.Exercise{{Name: "A"}, {Name: "B"}}

	inserted, err := seed(ctx, repo, batch, true, quietLogger())
	require.NoError(t, err)
	assert.Len(t, inserted, 2)
	assert.False(t, inserted[0].ID.IsZero())
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = seed(ctx, repo, batch, false, quietLogger())
	require.NoError(t, err)
	all, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.True(t, batch[0].ID.IsZero(), "input slice is not mutated")
}
