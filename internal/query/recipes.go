package query

import (
	"context"

	"culina-go/internal/cache"
	"culina-go/internal/recipe"
)

// Recipe fetches a single recipe through the cache.
func (c *Client) Recipe(ctx context.Context, recipeID string) (*recipe.Recipe, error) {
	return cache.Fetch(ctx, c.cache, recipeDetailKey(recipeID), func(ctx context.Context) (*recipe.Recipe, error) {
		return c.recipes.Get(ctx, recipeID)
	})
}

// Recipes lists recipes matching the filter.
func (c *Client) Recipes(ctx context.Context, filter recipe.ListFilter) ([]*recipe.Recipe, error) {
	return cache.Fetch(ctx, c.cache, recipeListKey(filter), func(ctx context.Context) ([]*recipe.Recipe, error) {
		return c.recipes.List(ctx, filter)
	})
}

// InfiniteRecipes pages through recipes matching the filter.
func (c *Client) InfiniteRecipes(filter recipe.ListFilter) *RecipeFeed {
	return &RecipeFeed{
		client: c,
		pages:  cache.NewInfinite[*recipe.Recipe](FeedPageSize),
		filter: filter,
	}
}

type RecipeFeed struct {
	client *Client
	pages  *cache.Infinite[*recipe.Recipe]
	filter recipe.ListFilter
}

func (f *RecipeFeed) HasMore() bool {
	return f.pages.HasMore()
}

func (f *RecipeFeed) FetchNext(ctx context.Context) ([]*recipe.Recipe, error) {
	return f.pages.FetchNext(ctx, func(ctx context.Context, limit, offset int) ([]*recipe.Recipe, error) {
		filter := f.filter
		filter.Limit = limit
		filter.Offset = offset
		return f.client.recipes.List(ctx, filter)
	})
}

func (f *RecipeFeed) Items() []*recipe.Recipe {
	return f.pages.Items()
}

// CreateRecipe creates a recipe and refreshes the recipe listings.
func (c *Client) CreateRecipe(ctx context.Context, input recipe.CreateInput) (*recipe.Recipe, error) {
	created, err := c.recipes.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(recipeListsKey())
	return created, nil
}

// UpdateRecipe updates a recipe and refreshes its detail plus the listings.
func (c *Client) UpdateRecipe(ctx context.Context, recipeID string, input recipe.UpdateInput) (*recipe.Recipe, error) {
	updated, err := c.recipes.Update(ctx, recipeID, input)
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(recipeDetailKey(recipeID))
	c.cache.Invalidate(recipeListsKey())
	return updated, nil
}

// DeleteRecipe deletes a recipe, drops its cached detail and refreshes
// the listings.
func (c *Client) DeleteRecipe(ctx context.Context, recipeID, authorID string) error {
	if err := c.recipes.Delete(ctx, recipeID, authorID); err != nil {
		return err
	}
	c.cache.Remove(recipeDetailKey(recipeID))
	c.cache.Invalidate(recipeListsKey())
	return nil
}
