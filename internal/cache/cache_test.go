package cache

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    Key
		prefix Key
		want   bool
	}{
		{"exact match", K("posts", "detail", "p1"), K("posts", "detail", "p1"), true},
		{"entity prefix", K("posts", "list", "u1"), K("posts"), true},
		{"op prefix", K("posts", "list", "u1"), K("posts", "list"), true},
		{"different op", K("posts", "explore"), K("posts", "list"), false},
		{"prefix longer than key", K("posts"), K("posts", "list"), false},
		{"different entity", K("recipes", "list"), K("posts"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestFetchCachesResult(t *testing.T) {
	c := New()
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return "value", nil
	}

	key := K("posts", "detail", "p1")

	v, err := c.Fetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)

	_, err = c.Fetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "second fetch should be served from cache")
}

func TestFetchErrorNotCached(t *testing.T) {
	c := New()
	boom := errors.New("remote down")
	calls := 0

	key := K("posts", "list")
	fetch := func(ctx context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "value", nil
	}

	_, err := c.Fetch(context.Background(), key, fetch)
	assert.ErrorIs(t, err, boom)

	v, err := c.Fetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "value", v)
	assert.Equal(t, 2, calls)
}

func TestPrefixInvalidation(t *testing.T) {
	c := New()
	c.Set(K("posts", "list", "u1"), 1)
	c.Set(K("posts", "explore"), 2)
	c.Set(K("posts", "detail", "p1"), 3)
	c.Set(K("recipes", "list"), 4)

	c.Invalidate(K("posts", "list"))

	_, ok := c.Get(K("posts", "list", "u1"))
	assert.False(t, ok, "covered key should be stale")
	_, ok = c.Get(K("posts", "explore"))
	assert.True(t, ok, "sibling op should stay fresh")
	_, ok = c.Get(K("recipes", "list"))
	assert.True(t, ok, "other entity should stay fresh")

	// Invalidating the entity tag covers every op under it.
	c.Invalidate(K("posts"))
	_, ok = c.Get(K("posts", "explore"))
	assert.False(t, ok)
	_, ok = c.Get(K("posts", "detail", "p1"))
	assert.False(t, ok)
}

func TestStaleKeyRefetches(t *testing.T) {
	c := New()
	key := K("profiles", "detail", "u1")
	calls := 0
	fetch := func(ctx context.Context) (any, error) {
		calls++
		return fmt.Sprintf("v%d", calls), nil
	}

	v, err := c.Fetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v1", v)

	c.Invalidate(K("profiles"))

	v, err = c.Fetch(context.Background(), key, fetch)
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestRemove(t *testing.T) {
	c := New()
	c.Set(K("posts", "detail", "p1"), 1)
	c.Set(K("posts", "detail", "p2"), 2)

	c.Remove(K("posts", "detail", "p1"))

	_, ok := c.Get(K("posts", "detail", "p1"))
	assert.False(t, ok)
	_, ok = c.Get(K("posts", "detail", "p2"))
	assert.True(t, ok)
}

func TestToggleOptimisticFlip(t *testing.T) {
	c := New()
	key := K("likes", "status", "u1", "post", "p1")
	c.Set(key, false)

	var observed any
	state, err := c.Toggle(context.Background(), key, func(ctx context.Context) (bool, error) {
		// The flip must be visible before the remote call resolves.
		observed, _ = c.Get(key)
		return true, nil
	}, K("posts", "detail", "p1"))

	require.NoError(t, err)
	assert.True(t, state)
	assert.Equal(t, true, observed)
}

func TestToggleRollbackOnFailure(t *testing.T) {
	c := New()
	key := K("likes", "status", "u1", "post", "p1")
	dep := K("posts", "detail", "p1")
	c.Set(key, true)
	c.Set(dep, "cached post")

	state, err := c.Toggle(context.Background(), key, func(ctx context.Context) (bool, error) {
		return false, errors.New("remote down")
	}, dep)

	assert.Error(t, err)
	assert.True(t, state, "toggle returns the pre-flip value on failure")

	v, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, true, v, "cached boolean reverts to its prior value")

	_, ok = c.Get(dep)
	assert.True(t, ok, "dependents are not invalidated on failure")
}

func TestToggleInvalidatesDependents(t *testing.T) {
	c := New()
	key := K("follows", "status", "u1", "u2")
	dep := K("profiles", "detail", "u2")
	c.Set(dep, "cached profile")

	state, err := c.Toggle(context.Background(), key, func(ctx context.Context) (bool, error) {
		return true, nil
	}, dep)

	require.NoError(t, err)
	assert.True(t, state)

	_, ok := c.Get(dep)
	assert.False(t, ok, "dependent detail should be stale after success")
}

func TestInfinitePagination(t *testing.T) {
	// 15 items with pages of 10: a full page, then a short page, then stop.
	items := make([]int, 15)
	for i := range items {
		items[i] = i
	}
	fetch := func(ctx context.Context, limit, offset int) ([]int, error) {
		if offset >= len(items) {
			return nil, nil
		}
		end := offset + limit
		if end > len(items) {
			end = len(items)
		}
		return items[offset:end], nil
	}

	p := NewInfinite[int](10)

	page, err := p.FetchNext(context.Background(), fetch)
	require.NoError(t, err)
	assert.Len(t, page, 10)
	assert.True(t, p.HasMore())

	page, err = p.FetchNext(context.Background(), fetch)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.False(t, p.HasMore(), "short page ends the feed")

	page, err = p.FetchNext(context.Background(), fetch)
	require.NoError(t, err)
	assert.Empty(t, page, "exhausted feed fetches nothing")

	assert.Len(t, p.Items(), 15)
}

func TestInfinitePaginationExactMultiple(t *testing.T) {
	// 20 items with pages of 10: the second page is full, so the feed only
	// ends after a third, empty fetch.
	fetch := func(ctx context.Context, limit, offset int) ([]int, error) {
		page := make([]int, 0, limit)
		for i := offset; i < offset+limit && i < 20; i++ {
			page = append(page, i)
		}
		return page, nil
	}

	p := NewInfinite[int](10)
	for i := 0; i < 2; i++ {
		page, err := p.FetchNext(context.Background(), fetch)
		require.NoError(t, err)
		assert.Len(t, page, 10)
	}
	assert.True(t, p.HasMore())

	page, err := p.FetchNext(context.Background(), fetch)
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.False(t, p.HasMore())
}

func TestInfinitePaginationErrorKeepsPages(t *testing.T) {
	boom := errors.New("remote down")
	calls := 0
	fetch := func(ctx context.Context, limit, offset int) ([]int, error) {
		calls++
		if calls == 2 {
			return nil, boom
		}
		return []int{offset}, nil
	}

	p := NewInfinite[int](1)

	_, err := p.FetchNext(context.Background(), fetch)
	require.NoError(t, err)

	_, err = p.FetchNext(context.Background(), fetch)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, p.Items(), 1)
	assert.Equal(t, 1, p.NextOffset(), "failed page is retried at the same offset")
}
