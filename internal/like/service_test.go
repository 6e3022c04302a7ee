package like

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culina-go/internal/document"
)

func setup(t *testing.T) (*Service, document.Store, string) {
	t.Helper()
	store := document.NewMemoryStore()
	target, err := store.Create(context.Background(), document.CollectionPosts, "p1", map[string]any{
		"userId":     "u1",
		"likesCount": 0,
	})
	require.NoError(t, err)
	return NewService(store, nil), store, target.ID
}

func likesCount(t *testing.T, store document.Store, collection, id string) int {
	t.Helper()
	doc, err := store.Get(context.Background(), collection, id)
	require.NoError(t, err)
	return doc.Int("likesCount")
}

func TestLikeUnlike(t *testing.T) {
	service, store, postID := setup(t)
	ctx := context.Background()

	liked, err := service.HasLiked(ctx, "u2", TargetPost, postID)
	require.NoError(t, err)
	assert.False(t, liked)

	require.NoError(t, service.Like(ctx, "u2", TargetPost, postID))

	liked, err = service.HasLiked(ctx, "u2", TargetPost, postID)
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, likesCount(t, store, document.CollectionPosts, postID))

	require.NoError(t, service.Unlike(ctx, "u2", TargetPost, postID))
	assert.Zero(t, likesCount(t, store, document.CollectionPosts, postID))
}

func TestLikeIsIdempotent(t *testing.T) {
	service, store, postID := setup(t)
	ctx := context.Background()

	require.NoError(t, service.Like(ctx, "u2", TargetPost, postID))
	require.NoError(t, service.Like(ctx, "u2", TargetPost, postID))
	assert.Equal(t, 1, likesCount(t, store, document.CollectionPosts, postID))

	require.NoError(t, service.Unlike(ctx, "u2", TargetPost, postID))
	require.NoError(t, service.Unlike(ctx, "u2", TargetPost, postID))
	assert.Zero(t, likesCount(t, store, document.CollectionPosts, postID))
}

func TestToggle(t *testing.T) {
	service, _, postID := setup(t)
	ctx := context.Background()

	state, err := service.Toggle(ctx, "u2", TargetPost, postID)
	require.NoError(t, err)
	assert.True(t, state)

	state, err = service.Toggle(ctx, "u2", TargetPost, postID)
	require.NoError(t, err)
	assert.False(t, state)
}

func TestLikesArePerUser(t *testing.T) {
	service, store, postID := setup(t)
	ctx := context.Background()

	require.NoError(t, service.Like(ctx, "u2", TargetPost, postID))
	require.NoError(t, service.Like(ctx, "u3", TargetPost, postID))
	assert.Equal(t, 2, likesCount(t, store, document.CollectionPosts, postID))

	liked, err := service.HasLiked(ctx, "u4", TargetPost, postID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestLikeTargetsOtherCollections(t *testing.T) {
	service, store, _ := setup(t)
	ctx := context.Background()

	recipeDoc, err := store.Create(ctx, document.CollectionRecipes, "r1", map[string]any{"likesCount": 0})
	require.NoError(t, err)
	commentDoc, err := store.Create(ctx, document.CollectionComments, "c1", map[string]any{"likesCount": 0})
	require.NoError(t, err)

	require.NoError(t, service.Like(ctx, "u2", TargetRecipe, recipeDoc.ID))
	require.NoError(t, service.Like(ctx, "u2", TargetComment, commentDoc.ID))

	assert.Equal(t, 1, likesCount(t, store, document.CollectionRecipes, recipeDoc.ID))
	assert.Equal(t, 1, likesCount(t, store, document.CollectionComments, commentDoc.ID))

	// The same user liking a post and a recipe keeps distinct like rows.
	liked, err := service.HasLiked(ctx, "u2", TargetRecipe, recipeDoc.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}
