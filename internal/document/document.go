package document

import (
	"context"
	"errors"
	"time"
)

// Collection names in the remote document store.
const (
	CollectionUsers    = "users"
	CollectionSessions = "sessions"
	CollectionProfiles = "profiles"
	CollectionPosts    = "posts"
	CollectionRecipes  = "recipes"
	CollectionComments = "comments"
	CollectionLikes    = "likes"
	CollectionFollows  = "follows"
)

var ErrNotFound = errors.New("document not found")

// Document is a schemaless record stored in a collection. The store assigns
// the creation and update timestamps.
type Document struct {
	ID         string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Attributes map[string]any
}

// Query selects documents within a collection. Results are always ordered
// newest first by creation time.
type Query struct {
	// Equals filters on attribute equality. A []string value matches any of
	// the listed values.
	Equals map[string]any

	Limit  int
	Offset int
}

// Store is the remote document store consumed by the entity services.
type Store interface {
	Create(ctx context.Context, collection, id string, attrs map[string]any) (*Document, error)
	Get(ctx context.Context, collection, id string) (*Document, error)
	// Update merges the supplied attributes into the document, leaving other
	// attributes untouched.
	Update(ctx context.Context, collection, id string, attrs map[string]any) (*Document, error)
	Delete(ctx context.Context, collection, id string) error
	List(ctx context.Context, collection string, q Query) ([]*Document, error)
	// Increment atomically adds delta to a numeric attribute. Decrements
	// floor at zero.
	Increment(ctx context.Context, collection, id, field string, delta int) error
}

// String returns a string attribute, or "" if absent.
func (d *Document) String(field string) string {
	s, _ := d.Attributes[field].(string)
	return s
}

// Int returns a numeric attribute, or 0 if absent.
func (d *Document) Int(field string) int {
	switch v := d.Attributes[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// Bool returns a boolean attribute, or false if absent.
func (d *Document) Bool(field string) bool {
	b, _ := d.Attributes[field].(bool)
	return b
}

// StringSlice returns a string list attribute, or nil if absent.
func (d *Document) StringSlice(field string) []string {
	switch v := d.Attributes[field].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
