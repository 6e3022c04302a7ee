package recipe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culina-go/internal/document"
	"culina-go/internal/profile"
)

func setup(t *testing.T) (*Service, *profile.Service, *profile.Profile) {
	t.Helper()
	store := document.NewMemoryStore()
	profiles := profile.NewService(store)
	p, err := profiles.Create(context.Background(), profile.CreateInput{
		UserID: "u1",
		Name:   "Alice",
		Handle: "alice",
	})
	require.NoError(t, err)
	return NewService(store, profiles, nil), profiles, p
}

func TestStepsRoundTrip(t *testing.T) {
	service, _, _ := setup(t)
	ctx := context.Background()

	steps := []Step{
		{Order: 1, Instruction: "Chop the onions"},
		{Order: 2, Instruction: "Sweat them over low heat"},
		{Order: 3, Instruction: "Deglaze with stock"},
	}

	created, err := service.Create(ctx, CreateInput{
		AuthorID:    "u1",
		Title:       "Onion soup",
		Description: "A classic",
		Ingredients: []string{"onions", "stock"},
		Steps:       steps,
		PrepTime:    15,
		CookTime:    45,
		Difficulty:  DifficultyMedium,
	})
	require.NoError(t, err)

	got, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, steps, got.Steps, "order and instruction survive storage")
	assert.Equal(t, DifficultyMedium, got.Difficulty)
}

func TestParseStepsFallback(t *testing.T) {
	steps := ParseSteps([]string{
		`{"order":1,"instruction":"Boil water"}`,
		"just a plain instruction",
	})

	require.Len(t, steps, 2)
	assert.Equal(t, Step{Order: 1, Instruction: "Boil water"}, steps[0])
	assert.Equal(t, Step{Order: 0, Instruction: "just a plain instruction"}, steps[1])
}

func TestCreateMaintainsAuthorCounter(t *testing.T) {
	service, profiles, p := setup(t)
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{
		AuthorID:   "u1",
		Title:      "Toast",
		Difficulty: DifficultyEasy,
	})
	require.NoError(t, err)
	assert.Zero(t, created.LikesCount)

	refreshed, err := profiles.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.RecipesCount)

	require.NoError(t, service.Delete(ctx, created.ID, "u1"))

	refreshed, err = profiles.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, refreshed.RecipesCount)

	// Deleting again reports the missing recipe and leaves the counter alone.
	assert.ErrorIs(t, service.Delete(ctx, created.ID, "u1"), ErrNotFound)
	refreshed, err = profiles.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Zero(t, refreshed.RecipesCount)
}

func TestListFilters(t *testing.T) {
	service, _, _ := setup(t)
	ctx := context.Background()

	for _, d := range []Difficulty{DifficultyEasy, DifficultyHard, DifficultyEasy} {
		_, err := service.Create(ctx, CreateInput{
			AuthorID:   "u1",
			Title:      "dish",
			Difficulty: d,
		})
		require.NoError(t, err)
	}

	easy, err := service.List(ctx, ListFilter{Difficulty: DifficultyEasy})
	require.NoError(t, err)
	assert.Len(t, easy, 2)

	mine, err := service.List(ctx, ListFilter{AuthorID: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	nobody, err := service.List(ctx, ListFilter{AuthorID: "u2"})
	require.NoError(t, err)
	assert.Empty(t, nobody)
}
