package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"culina-go/internal/document"
)

var ErrNotFound = errors.New("profile not found")

type Service struct {
	store document.Store
}

func NewService(store document.Store) *Service {
	return &Service{store: store}
}

// GetByUserID returns the profile owned by the given auth principal.
func (s *Service) GetByUserID(ctx context.Context, userID string) (*Profile, error) {
	docs, err := s.store.List(ctx, document.CollectionProfiles, document.Query{
		Equals: map[string]any{"userId": userID},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return fromDoc(docs[0]), nil
}

// GetByHandle returns the profile with the given unique handle.
func (s *Service) GetByHandle(ctx context.Context, handle string) (*Profile, error) {
	docs, err := s.store.List(ctx, document.CollectionProfiles, document.Query{
		Equals: map[string]any{"handle": handle},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("get profile by handle: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return fromDoc(docs[0]), nil
}

// Get returns a profile by document ID.
func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	doc, err := s.store.Get(ctx, document.CollectionProfiles, id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return fromDoc(doc), nil
}

// Create creates a profile with all counters zeroed.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Profile, error) {
	doc, err := s.store.Create(ctx, document.CollectionProfiles, uuid.New().String(), map[string]any{
		"userId":         input.UserID,
		"name":           input.Name,
		"handle":         input.Handle,
		"avatar":         input.Avatar,
		"bio":            input.Bio,
		"followersCount": 0,
		"followingCount": 0,
		"postsCount":     0,
		"recipesCount":   0,
	})
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return fromDoc(doc), nil
}

// Update merges the supplied fields into the profile.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Profile, error) {
	attrs := make(map[string]any)
	if input.Name != nil {
		attrs["name"] = *input.Name
	}
	if input.Handle != nil {
		attrs["handle"] = *input.Handle
	}
	if input.Avatar != nil {
		attrs["avatar"] = *input.Avatar
	}
	if input.Bio != nil {
		attrs["bio"] = *input.Bio
	}

	doc, err := s.store.Update(ctx, document.CollectionProfiles, id, attrs)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return fromDoc(doc), nil
}

// AddToCounter adjusts a denormalized counter. Decrements floor at zero.
func (s *Service) AddToCounter(ctx context.Context, id string, field CounterField, delta int) error {
	if err := s.store.Increment(ctx, document.CollectionProfiles, id, string(field), delta); err != nil {
		return fmt.Errorf("adjust %s: %w", field, err)
	}
	return nil
}

func fromDoc(doc *document.Document) *Profile {
	return &Profile{
		ID:             doc.ID,
		UserID:         doc.String("userId"),
		Name:           doc.String("name"),
		Handle:         doc.String("handle"),
		Avatar:         doc.String("avatar"),
		Bio:            doc.String("bio"),
		FollowersCount: doc.Int("followersCount"),
		FollowingCount: doc.Int("followingCount"),
		PostsCount:     doc.Int("postsCount"),
		RecipesCount:   doc.Int("recipesCount"),
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}
