package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culina-go/internal/document"
)

func TestCreateAndLookup(t *testing.T) {
	service := NewService(document.NewMemoryStore())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{
		UserID: "u1",
		Name:   "Alice",
		Handle: "alice",
		Bio:    "home cook",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Zero(t, created.FollowersCount)
	assert.Zero(t, created.FollowingCount)
	assert.Zero(t, created.PostsCount)
	assert.Zero(t, created.RecipesCount)

	byUser, err := service.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byUser.ID)

	byHandle, err := service.GetByHandle(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byHandle.ID)

	_, err = service.GetByUserID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.GetByHandle(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialFields(t *testing.T) {
	service := NewService(document.NewMemoryStore())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{
		UserID: "u1",
		Name:   "Alice",
		Handle: "alice",
		Bio:    "home cook",
	})
	require.NoError(t, err)

	name := "Alice B"
	updated, err := service.Update(ctx, created.ID, UpdateInput{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Alice B", updated.Name)
	assert.Equal(t, "alice", updated.Handle)
	assert.Equal(t, "home cook", updated.Bio)

	_, err = service.Update(ctx, "missing", UpdateInput{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountersFloorAtZero(t *testing.T) {
	service := NewService(document.NewMemoryStore())
	ctx := context.Background()

	created, err := service.Create(ctx, CreateInput{UserID: "u1", Name: "Alice", Handle: "alice"})
	require.NoError(t, err)

	require.NoError(t, service.AddToCounter(ctx, created.ID, CounterFollowers, 2))
	require.NoError(t, service.AddToCounter(ctx, created.ID, CounterFollowers, -5))

	p, err := service.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, p.FollowersCount)
}
