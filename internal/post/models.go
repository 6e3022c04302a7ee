package post

import "time"

// Post represents a feed post, optionally linked to a recipe.
type Post struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Image         string    `json:"image"`
	Caption       string    `json:"caption"`
	Location      string    `json:"location,omitempty"`
	IsRecipe      bool      `json:"is_recipe"`
	RecipeID      string    `json:"recipe_id,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateInput holds the fields supplied when creating a post.
type CreateInput struct {
	UserID   string   `json:"user_id"`
	Image    string   `json:"image"`
	Caption  string   `json:"caption"`
	Location string   `json:"location,omitempty"`
	IsRecipe bool     `json:"is_recipe,omitempty"`
	RecipeID string   `json:"recipe_id,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// UpdateInput holds the post fields the author may edit. Nil fields are left
// untouched.
type UpdateInput struct {
	Caption  *string   `json:"caption,omitempty"`
	Location *string   `json:"location,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// ListFilter selects posts for a feed or profile listing.
type ListFilter struct {
	UserID   string
	UserIDs  []string // feed of followed users
	IsRecipe *bool
	Limit    int
	Offset   int
}
