package query

import (
	"context"

	"culina-go/internal/cache"
	"culina-go/internal/post"
)

// Post fetches a single post through the cache.
func (c *Client) Post(ctx context.Context, postID string) (*post.Post, error) {
	return cache.Fetch(ctx, c.cache, postDetailKey(postID), func(ctx context.Context) (*post.Post, error) {
		return c.posts.Get(ctx, postID)
	})
}

// Posts lists posts matching the filter.
func (c *Client) Posts(ctx context.Context, filter post.ListFilter) ([]*post.Post, error) {
	return cache.Fetch(ctx, c.cache, postListKey(filter), func(ctx context.Context) ([]*post.Post, error) {
		return c.posts.List(ctx, filter)
	})
}

// UserPosts lists a user's posts for their profile page.
func (c *Client) UserPosts(ctx context.Context, userID string) ([]*post.Post, error) {
	return c.Posts(ctx, post.ListFilter{UserID: userID, Limit: 50})
}

// Feed returns an infinite feed of posts from the followed users.
func (c *Client) Feed(followingIDs []string) *Feed {
	return &Feed{
		client: c,
		key:    postFeedKey(followingIDs),
		pages:  cache.NewInfinite[*post.Post](FeedPageSize),
		filter: post.ListFilter{UserIDs: followingIDs},
	}
}

// Explore returns an infinite feed over all posts.
func (c *Client) Explore() *Feed {
	return &Feed{
		client: c,
		key:    postExploreKey(),
		pages:  cache.NewInfinite[*post.Post](ExplorePageSize),
	}
}

// Feed is a paginated post sequence. Pages accumulate until a short page
// ends the feed; the collected items are cached under the feed's key.
type Feed struct {
	client *Client
	key    cache.Key
	pages  *cache.Infinite[*post.Post]
	filter post.ListFilter
}

func (f *Feed) HasMore() bool {
	return f.pages.HasMore()
}

func (f *Feed) FetchNext(ctx context.Context) ([]*post.Post, error) {
	page, err := f.pages.FetchNext(ctx, func(ctx context.Context, limit, offset int) ([]*post.Post, error) {
		filter := f.filter
		filter.Limit = limit
		filter.Offset = offset
		return f.client.posts.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	f.client.cache.Set(f.key, f.pages.Items())
	return page, nil
}

func (f *Feed) Items() []*post.Post {
	return f.pages.Items()
}

// CreatePost creates a post and refreshes every post listing.
func (c *Client) CreatePost(ctx context.Context, input post.CreateInput) (*post.Post, error) {
	created, err := c.posts.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(postListsKey())
	c.cache.Invalidate(postExploreKey())
	return created, nil
}

// UpdatePost updates a post and refreshes its detail plus the listings.
func (c *Client) UpdatePost(ctx context.Context, postID string, input post.UpdateInput) (*post.Post, error) {
	updated, err := c.posts.Update(ctx, postID, input)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(postDetailKey(postID))
	c.cache.Invalidate(postListsKey())
	return updated, nil
}

// DeletePost deletes a post, drops its cached detail and refreshes the
// listings.
func (c *Client) DeletePost(ctx context.Context, postID, userID string) error {
	if err := c.posts.Delete(ctx, postID, userID); err != nil {
		return err
	}
	c.cache.Remove(postDetailKey(postID))
	c.cache.Invalidate(postListsKey())
	c.cache.Invalidate(postExploreKey())
	return nil
}
