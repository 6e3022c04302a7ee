package profile

import "time"

// CounterField names a denormalized counter on a profile.
type CounterField string

const (
	CounterFollowers CounterField = "followersCount"
	CounterFollowing CounterField = "followingCount"
	CounterPosts     CounterField = "postsCount"
	CounterRecipes   CounterField = "recipesCount"
)

// Profile represents a user's public profile. The counters are denormalized
// aggregates over the follow/post/recipe collections and are eventually
// consistent with them.
type Profile struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Handle         string    `json:"handle"`
	Avatar         string    `json:"avatar,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	FollowersCount int       `json:"followers_count"`
	FollowingCount int       `json:"following_count"`
	PostsCount     int       `json:"posts_count"`
	RecipesCount   int       `json:"recipes_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateInput holds the fields set when a profile is created during
// registration.
type CreateInput struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Handle string `json:"handle"`
	Avatar string `json:"avatar,omitempty"`
	Bio    string `json:"bio,omitempty"`
}

// UpdateInput holds the profile fields a user may edit. Nil fields are left
// untouched.
type UpdateInput struct {
	Name   *string `json:"name,omitempty"`
	Handle *string `json:"handle,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Bio    *string `json:"bio,omitempty"`
}
