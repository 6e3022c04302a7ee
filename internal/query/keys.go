// Package query is the typed facade over the service layer and the keyed
// cache. Each read is addressed by a key constructed here; each mutation
// declares the key prefixes it makes stale. Views go through a Client
// rather than touching the services or the cache directly.
package query

import (
	"fmt"
	"strings"

	"culina-go/internal/cache"
	"culina-go/internal/like"
	"culina-go/internal/post"
	"culina-go/internal/recipe"
)

// Post keys.

func postListsKey() cache.Key { return cache.K("posts", "list") }
func postDetailKey(id string) cache.Key {
	return cache.K("posts", "detail", id)
}
func postListKey(f post.ListFilter) cache.Key {
	return append(postListsKey(), postFilterTag(f))
}
func postFeedKey(followingIDs []string) cache.Key {
	return cache.K("posts", "feed", strings.Join(followingIDs, ","))
}
func postExploreKey() cache.Key { return cache.K("posts", "explore") }

func postFilterTag(f post.ListFilter) string {
	isRecipe := ""
	if f.IsRecipe != nil {
		isRecipe = fmt.Sprintf("%t", *f.IsRecipe)
	}
	return fmt.Sprintf("userId=%s;userIds=%s;isRecipe=%s;limit=%d;offset=%d",
		f.UserID, strings.Join(f.UserIDs, ","), isRecipe, f.Limit, f.Offset)
}

// Recipe keys.

func recipeListsKey() cache.Key { return cache.K("recipes", "list") }
func recipeDetailKey(id string) cache.Key {
	return cache.K("recipes", "detail", id)
}
func recipeListKey(f recipe.ListFilter) cache.Key {
	return append(recipeListsKey(), recipeFilterTag(f))
}

func recipeFilterTag(f recipe.ListFilter) string {
	return fmt.Sprintf("authorId=%s;difficulty=%s;limit=%d;offset=%d",
		f.AuthorID, f.Difficulty, f.Limit, f.Offset)
}

// Profile keys. Follower and following lists live under the profiles tag so
// profile-wide invalidation covers them.

func profileDetailsKey() cache.Key { return cache.K("profiles", "detail") }
func profileDetailKey(userID string) cache.Key {
	return cache.K("profiles", "detail", userID)
}
func profileHandleKey(handle string) cache.Key {
	return cache.K("profiles", "handle", handle)
}
func followersKey(userID string) cache.Key {
	return cache.K("profiles", "followers", userID)
}
func followingKey(userID string) cache.Key {
	return cache.K("profiles", "following", userID)
}

// Status and comment keys.

func followStatusKey(followerID, followingID string) cache.Key {
	return cache.K("follows", "status", followerID, followingID)
}
func likeStatusKey(userID string, targetType like.TargetType, targetID string) cache.Key {
	return cache.K("likes", "status", userID, string(targetType), targetID)
}
func commentListsKey() cache.Key { return cache.K("comments", "list") }
func commentListKey(postID string) cache.Key {
	return cache.K("comments", "list", postID)
}
