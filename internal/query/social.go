package query

import (
	"context"

	"culina-go/internal/cache"
	"culina-go/internal/comment"
	"culina-go/internal/like"
	"culina-go/internal/profile"
)

// Profile fetches a profile by its owner's user ID.
func (c *Client) Profile(ctx context.Context, userID string) (*profile.Profile, error) {
	return cache.Fetch(ctx, c.cache, profileDetailKey(userID), func(ctx context.Context) (*profile.Profile, error) {
		return c.profiles.GetByUserID(ctx, userID)
	})
}

// ProfileByHandle fetches a profile by handle.
func (c *Client) ProfileByHandle(ctx context.Context, handle string) (*profile.Profile, error) {
	return cache.Fetch(ctx, c.cache, profileHandleKey(handle), func(ctx context.Context) (*profile.Profile, error) {
		return c.profiles.GetByHandle(ctx, handle)
	})
}

// Followers lists the user IDs following userID.
func (c *Client) Followers(ctx context.Context, userID string) ([]string, error) {
	return cache.Fetch(ctx, c.cache, followersKey(userID), func(ctx context.Context) ([]string, error) {
		return c.follows.Followers(ctx, userID, 0, 0)
	})
}

// Following lists the user IDs userID follows.
func (c *Client) Following(ctx context.Context, userID string) ([]string, error) {
	return cache.Fetch(ctx, c.cache, followingKey(userID), func(ctx context.Context) ([]string, error) {
		return c.follows.Following(ctx, userID, 0, 0)
	})
}

// UpdateProfile updates a profile, stores the fresh value under its detail
// key and refreshes every other cached detail.
func (c *Client) UpdateProfile(ctx context.Context, profileID string, input profile.UpdateInput) (*profile.Profile, error) {
	updated, err := c.profiles.Update(ctx, profileID, input)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(profileDetailsKey())
	c.cache.Set(profileDetailKey(updated.UserID), updated)
	return updated, nil
}

// IsFollowing reports the cached follow status between two users.
func (c *Client) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return cache.Fetch(ctx, c.cache, followStatusKey(followerID, followingID), func(ctx context.Context) (bool, error) {
		return c.follows.IsFollowing(ctx, followerID, followingID)
	})
}

// ToggleFollow optimistically flips the follow status, then refreshes both
// profiles and their follower/following lists once the remote call
// succeeds.
func (c *Client) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	return c.cache.Toggle(ctx, followStatusKey(followerID, followingID),
		func(ctx context.Context) (bool, error) {
			return c.follows.Toggle(ctx, followerID, followingID)
		},
		profileDetailKey(followerID),
		profileDetailKey(followingID),
		followersKey(followingID),
		followingKey(followerID),
	)
}

// HasLiked reports the cached like status for a target.
func (c *Client) HasLiked(ctx context.Context, userID string, targetType like.TargetType, targetID string) (bool, error) {
	return cache.Fetch(ctx, c.cache, likeStatusKey(userID, targetType, targetID), func(ctx context.Context) (bool, error) {
		return c.likes.HasLiked(ctx, userID, targetType, targetID)
	})
}

// ToggleLike optimistically flips the like status and refreshes the target
// so its like count re-fetches.
func (c *Client) ToggleLike(ctx context.Context, userID string, targetType like.TargetType, targetID string) (bool, error) {
	var dep cache.Key
	switch targetType {
	case like.TargetRecipe:
		dep = recipeDetailKey(targetID)
	case like.TargetComment:
		dep = commentListsKey()
	default:
		dep = postDetailKey(targetID)
	}

	return c.cache.Toggle(ctx, likeStatusKey(userID, targetType, targetID),
		func(ctx context.Context) (bool, error) {
			return c.likes.Toggle(ctx, userID, targetType, targetID)
		},
		dep,
	)
}

// Comments lists a post's comments.
func (c *Client) Comments(ctx context.Context, postID string) ([]*comment.Comment, error) {
	return cache.Fetch(ctx, c.cache, commentListKey(postID), func(ctx context.Context) ([]*comment.Comment, error) {
		return c.comments.List(ctx, postID, 0, 0)
	})
}

// CreateComment adds a comment, then refreshes the post's comment list and
// its detail so the comment count updates.
func (c *Client) CreateComment(ctx context.Context, input comment.CreateInput) (*comment.Comment, error) {
	created, err := c.comments.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(commentListKey(input.PostID))
	c.cache.Invalidate(postDetailKey(input.PostID))
	return created, nil
}

// DeleteComment removes a comment with the same refreshes as creation.
func (c *Client) DeleteComment(ctx context.Context, commentID, postID string) error {
	if err := c.comments.Delete(ctx, commentID, postID); err != nil {
		return err
	}
	c.cache.Invalidate(commentListKey(postID))
	c.cache.Invalidate(postDetailKey(postID))
	return nil
}
