package query

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culina-go/internal/cache"
	"culina-go/internal/comment"
	"culina-go/internal/document"
	"culina-go/internal/follow"
	"culina-go/internal/like"
	"culina-go/internal/post"
	"culina-go/internal/profile"
	"culina-go/internal/recipe"
)

func newClient(store document.Store) *Client {
	profiles := profile.NewService(store)
	return NewClient(cache.New(), Services{
		Posts:    post.NewService(store, profiles, nil),
		Recipes:  recipe.NewService(store, profiles, nil),
		Profiles: profiles,
		Comments: comment.NewService(store, nil),
		Likes:    like.NewService(store, nil),
		Follows:  follow.NewService(store, profiles, nil),
	})
}

func mustProfile(t *testing.T, c *Client, userID, handle string) *profile.Profile {
	t.Helper()
	p, err := c.profiles.Create(context.Background(), profile.CreateInput{
		UserID: userID,
		Name:   handle,
		Handle: handle,
	})
	require.NoError(t, err)
	return p
}

func TestProfileCachedUntilUpdated(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	created := mustProfile(t, c, "u1", "alice")

	p, err := c.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, p.ID)

	// A direct write behind the cache is not observed...
	bio := "cook"
	_, err = c.profiles.Update(ctx, created.ID, profile.UpdateInput{Bio: &bio})
	require.NoError(t, err)

	p, err = c.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, p.Bio)

	// ...but updating through the client refreshes the detail.
	name := "Alice"
	updated, err := c.UpdateProfile(ctx, created.ID, profile.UpdateInput{Name: &name})
	require.NoError(t, err)

	p, err = c.Profile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, updated.Name, p.Name)
	assert.Equal(t, "cook", p.Bio)
}

func TestToggleFollowTwiceRestoresState(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	alice := mustProfile(t, c, "u1", "alice")
	bob := mustProfile(t, c, "u2", "bob")

	following, err := c.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.True(t, following)

	p, err := c.Profile(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, p.FollowersCount)

	following, err = c.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, following)

	// Both counters return to their initial values.
	p, err = c.profiles.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, p.FollowersCount)

	p, err = c.profiles.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Zero(t, p.FollowingCount)

	status, err := c.IsFollowing(ctx, "u1", "u2")
	require.NoError(t, err)
	assert.False(t, status)
}

func TestToggleFollowRejectsSelf(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")

	_, err := c.ToggleFollow(ctx, "u1", "u1")
	assert.ErrorIs(t, err, follow.ErrSelfFollow)

	// The failed toggle must not leave a flipped status behind.
	status, err := c.IsFollowing(ctx, "u1", "u1")
	require.NoError(t, err)
	assert.False(t, status)
}

func TestToggleFollowInvalidatesProfiles(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")
	mustProfile(t, c, "u2", "bob")

	// Prime the caches.
	_, err := c.Profile(ctx, "u2")
	require.NoError(t, err)
	_, err = c.Followers(ctx, "u2")
	require.NoError(t, err)

	_, err = c.ToggleFollow(ctx, "u1", "u2")
	require.NoError(t, err)

	p, err := c.Profile(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, 1, p.FollowersCount, "follower count re-fetched after toggle")

	ids, err := c.Followers(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, ids)
}

// failingStore wraps a store and fails document creation, simulating a
// remote write outage.
type failingStore struct {
	document.Store
	failCreate bool
}

var errRemote = errors.New("remote store unavailable")

func (f *failingStore) Create(ctx context.Context, collection, id string, attrs map[string]any) (*document.Document, error) {
	if f.failCreate {
		return nil, errRemote
	}
	return f.Store.Create(ctx, collection, id, attrs)
}

func TestToggleLikeOptimisticRollback(t *testing.T) {
	mem := document.NewMemoryStore()
	store := &failingStore{Store: mem}
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")
	created, err := c.posts.Create(ctx, post.CreateInput{UserID: "u1", Image: "img", Caption: "hi"})
	require.NoError(t, err)

	liked, err := c.HasLiked(ctx, "u1", like.TargetPost, created.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	store.failCreate = true
	_, err = c.ToggleLike(ctx, "u1", like.TargetPost, created.ID)
	assert.ErrorIs(t, err, errRemote)

	// The cached boolean reverted to its pre-flip value.
	v, ok := c.cache.Get(likeStatusKey("u1", like.TargetPost, created.ID))
	require.True(t, ok)
	assert.Equal(t, false, v)

	store.failCreate = false
	liked, err = c.ToggleLike(ctx, "u1", like.TargetPost, created.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	p, err := c.Post(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.LikesCount)
}

func TestCreatePostInvalidatesListings(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")

	posts, err := c.Posts(ctx, post.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, posts)

	created, err := c.CreatePost(ctx, post.CreateInput{UserID: "u1", Image: "img", Caption: "first"})
	require.NoError(t, err)
	assert.Zero(t, created.LikesCount)
	assert.Zero(t, created.CommentsCount)

	posts, err = c.Posts(ctx, post.ListFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, created.ID, posts[0].ID)
}

func TestDeletePostDropsDetail(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")
	created, err := c.CreatePost(ctx, post.CreateInput{UserID: "u1", Image: "img", Caption: "bye"})
	require.NoError(t, err)

	_, err = c.Post(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, c.DeletePost(ctx, created.ID, "u1"))

	_, ok := c.cache.Get(postDetailKey(created.ID))
	assert.False(t, ok)

	_, err = c.Post(ctx, created.ID)
	assert.ErrorIs(t, err, post.ErrNotFound)
}

func TestFeedPagination(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")
	for i := 0; i < 15; i++ {
		_, err := c.posts.Create(ctx, post.CreateInput{
			UserID:  "u1",
			Image:   "img",
			Caption: fmt.Sprintf("post %d", i),
		})
		require.NoError(t, err)
	}

	feed := c.Feed([]string{"u1"})

	page, err := feed.FetchNext(ctx)
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.True(t, feed.HasMore())

	page, err = feed.FetchNext(ctx)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.False(t, feed.HasMore(), "short page ends the feed")

	page, err = feed.FetchNext(ctx)
	require.NoError(t, err)
	assert.Empty(t, page)

	assert.Len(t, feed.Items(), 15)
}

func TestCommentsInvalidation(t *testing.T) {
	store := document.NewMemoryStore()
	c := newClient(store)
	ctx := context.Background()

	mustProfile(t, c, "u1", "alice")
	created, err := c.CreatePost(ctx, post.CreateInput{UserID: "u1", Image: "img", Caption: "hi"})
	require.NoError(t, err)

	comments, err := c.Comments(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	// Prime the post detail so the invalidation is observable.
	_, err = c.Post(ctx, created.ID)
	require.NoError(t, err)

	added, err := c.CreateComment(ctx, comment.CreateInput{
		PostID:  created.ID,
		UserID:  "u1",
		Content: "looks great",
	})
	require.NoError(t, err)

	comments, err = c.Comments(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	p, err := c.Post(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.CommentsCount)

	require.NoError(t, c.DeleteComment(ctx, added.ID, created.ID))
	assert.ErrorIs(t, c.DeleteComment(ctx, added.ID, created.ID), comment.ErrNotFound)

	p, err = c.Post(ctx, created.ID)
	require.NoError(t, err)
	assert.Zero(t, p.CommentsCount, "comment count never goes negative")
}
