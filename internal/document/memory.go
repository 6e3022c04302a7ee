package document

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used in tests and local development.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]*memDoc
	seq         int64
}

type memDoc struct {
	doc *Document
	seq int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memDoc),
	}
}

func (s *MemoryStore) Create(_ context.Context, collection, id string, attrs map[string]any) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	doc := &Document{
		ID:         id,
		CreatedAt:  now,
		UpdatedAt:  now,
		Attributes: cloneAttrs(attrs),
	}

	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]*memDoc)
		s.collections[collection] = coll
	}
	s.seq++
	coll[id] = &memDoc{doc: doc, seq: s.seq}

	return copyDoc(doc), nil
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	md := s.collections[collection][id]
	if md == nil {
		return nil, ErrNotFound
	}
	return copyDoc(md.doc), nil
}

func (s *MemoryStore) Update(_ context.Context, collection, id string, attrs map[string]any) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	md := s.collections[collection][id]
	if md == nil {
		return nil, ErrNotFound
	}
	for k, v := range attrs {
		md.doc.Attributes[k] = v
	}
	md.doc.UpdatedAt = time.Now()
	return copyDoc(md.doc), nil
}

func (s *MemoryStore) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if coll[id] == nil {
		return ErrNotFound
	}
	delete(coll, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, collection string, q Query) ([]*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*memDoc, 0)
	for _, md := range s.collections[collection] {
		if matches(md.doc, q.Equals) {
			matched = append(matched, md)
		}
	}

	// Newest first; insertion order breaks creation-time ties.
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].doc.CreatedAt.Equal(matched[j].doc.CreatedAt) {
			return matched[i].seq > matched[j].seq
		}
		return matched[i].doc.CreatedAt.After(matched[j].doc.CreatedAt)
	})

	if q.Offset > len(matched) {
		matched = nil
	} else {
		matched = matched[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}

	out := make([]*Document, len(matched))
	for i, md := range matched {
		out[i] = copyDoc(md.doc)
	}
	return out, nil
}

func (s *MemoryStore) Increment(_ context.Context, collection, id, field string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	md := s.collections[collection][id]
	if md == nil {
		return ErrNotFound
	}

	cur := 0
	switch v := md.doc.Attributes[field].(type) {
	case int:
		cur = v
	case float64:
		cur = int(v)
	}
	next := cur + delta
	if next < 0 {
		next = 0
	}
	md.doc.Attributes[field] = next
	md.doc.UpdatedAt = time.Now()
	return nil
}

func matches(doc *Document, equals map[string]any) bool {
	for field, want := range equals {
		got := doc.Attributes[field]
		switch w := want.(type) {
		case []string:
			s, _ := got.(string)
			found := false
			for _, candidate := range w {
				if s == candidate {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		default:
			if got != want {
				return false
			}
		}
	}
	return true
}

func cloneAttrs(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		out[k] = v
	}
	return out
}

func copyDoc(doc *Document) *Document {
	return &Document{
		ID:         doc.ID,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		Attributes: cloneAttrs(doc.Attributes),
	}
}
