package cache

import "context"

// Infinite accumulates a feed in fixed-size pages. Each fetch requests
// limit items at offset = pageIndex x limit; a short page signals
// end-of-data and disables further fetching.
type Infinite[T any] struct {
	limit int
	pages [][]T
	done  bool
}

func NewInfinite[T any](limit int) *Infinite[T] {
	return &Infinite[T]{limit: limit}
}

// HasMore reports whether another page may be fetched. It is true until a
// fetch returns fewer than limit items.
func (p *Infinite[T]) HasMore() bool {
	return !p.done
}

// NextOffset is the offset the next page fetch will use.
func (p *Infinite[T]) NextOffset() int {
	return len(p.pages) * p.limit
}

// FetchNext retrieves the next page via fn. Once the feed is exhausted it
// returns an empty page without calling fn. A fetch error leaves the
// accumulated pages untouched.
func (p *Infinite[T]) FetchNext(ctx context.Context, fn func(ctx context.Context, limit, offset int) ([]T, error)) ([]T, error) {
	if p.done {
		return nil, nil
	}

	page, err := fn(ctx, p.limit, p.NextOffset())
	if err != nil {
		return nil, err
	}

	p.pages = append(p.pages, page)
	if len(page) < p.limit {
		p.done = true
	}
	return page, nil
}

// Items flattens the fetched pages in order.
func (p *Infinite[T]) Items() []T {
	var out []T
	for _, page := range p.pages {
		out = append(out, page...)
	}
	return out
}

// Reset discards the accumulated pages so the feed re-fetches from the top.
func (p *Infinite[T]) Reset() {
	p.pages = nil
	p.done = false
}
