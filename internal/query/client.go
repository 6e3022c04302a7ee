package query

import (
	"culina-go/internal/cache"
	"culina-go/internal/comment"
	"culina-go/internal/follow"
	"culina-go/internal/like"
	"culina-go/internal/post"
	"culina-go/internal/profile"
	"culina-go/internal/recipe"
)

// Feed pages are 10 posts; the explore feed pulls wider pages.
const (
	FeedPageSize    = 10
	ExplorePageSize = 20
)

// Client bundles the services behind the keyed cache.
type Client struct {
	cache    *cache.Cache
	posts    *post.Service
	recipes  *recipe.Service
	profiles *profile.Service
	comments *comment.Service
	likes    *like.Service
	follows  *follow.Service
}

type Services struct {
	Posts    *post.Service
	Recipes  *recipe.Service
	Profiles *profile.Service
	Comments *comment.Service
	Likes    *like.Service
	Follows  *follow.Service
}

func NewClient(c *cache.Cache, svc Services) *Client {
	return &Client{
		cache:    c,
		posts:    svc.Posts,
		recipes:  svc.Recipes,
		profiles: svc.Profiles,
		comments: svc.Comments,
		likes:    svc.Likes,
		follows:  svc.Follows,
	}
}

// Cache exposes the underlying cache for callers that manage their own keys.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}
