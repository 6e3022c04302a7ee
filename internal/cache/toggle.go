package cache

import "context"

// Toggle flips the cached boolean at key before the remote call resolves,
// so callers observe the new state immediately. On failure the pre-flip
// value is restored. On success the authoritative result is stored and the
// dependent key prefixes are invalidated so counters re-fetch.
func (c *Cache) Toggle(ctx context.Context, key Key, mutate func(context.Context) (bool, error), invalidates ...Key) (bool, error) {
	prior, hadPrior := c.Get(key)
	priorState, _ := prior.(bool)
	c.Set(key, !priorState)

	state, err := mutate(ctx)
	if err != nil {
		// Rollback
		if hadPrior {
			c.Set(key, priorState)
		} else {
			c.Remove(key)
		}
		return priorState, err
	}

	c.Set(key, state)
	for _, dep := range invalidates {
		c.Invalidate(dep)
	}
	return state, nil
}
