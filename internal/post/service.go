package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"culina-go/internal/activity"
	"culina-go/internal/document"
	"culina-go/internal/profile"
)

var ErrNotFound = errors.New("post not found")

type Service struct {
	store    document.Store
	profiles *profile.Service
	events   *activity.Broker
}

func NewService(store document.Store, profiles *profile.Service, events *activity.Broker) *Service {
	return &Service{store: store, profiles: profiles, events: events}
}

// Get returns a single post by ID.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	doc, err := s.store.Get(ctx, document.CollectionPosts, id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return fromDoc(doc), nil
}

// List returns posts matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Post, error) {
	equals := make(map[string]any)
	if filter.UserID != "" {
		equals["userId"] = filter.UserID
	}
	if len(filter.UserIDs) > 0 {
		equals["userId"] = filter.UserIDs
	}
	if filter.IsRecipe != nil {
		equals["isRecipe"] = *filter.IsRecipe
	}

	docs, err := s.store.List(ctx, document.CollectionPosts, document.Query{
		Equals: equals,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]*Post, len(docs))
	for i, doc := range docs {
		posts[i] = fromDoc(doc)
	}
	return posts, nil
}

// Create creates a post and bumps the author's post counter. The counter
// update is best effort and never fails the create.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Post, error) {
	doc, err := s.store.Create(ctx, document.CollectionPosts, uuid.New().String(), map[string]any{
		"userId":        input.UserID,
		"image":         input.Image,
		"caption":       input.Caption,
		"location":      input.Location,
		"isRecipe":      input.IsRecipe,
		"recipeId":      input.RecipeID,
		"tags":          input.Tags,
		"likesCount":    0,
		"commentsCount": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	s.bumpAuthorCounter(ctx, input.UserID, 1)

	s.events.Publish(activity.Event{
		Type:     activity.EventPostCreated,
		ActorID:  input.UserID,
		TargetID: doc.ID,
	})

	return fromDoc(doc), nil
}

// Update merges the supplied fields into the post.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Post, error) {
	attrs := make(map[string]any)
	if input.Caption != nil {
		attrs["caption"] = *input.Caption
	}
	if input.Location != nil {
		attrs["location"] = *input.Location
	}
	if input.Tags != nil {
		attrs["tags"] = *input.Tags
	}

	doc, err := s.store.Update(ctx, document.CollectionPosts, id, attrs)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
	return fromDoc(doc), nil
}

// Delete removes the post and decrements the author's post counter.
// Comments and likes on the post are not cascade-deleted.
func (s *Service) Delete(ctx context.Context, id, userID string) error {
	if err := s.store.Delete(ctx, document.CollectionPosts, id); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	s.bumpAuthorCounter(ctx, userID, -1)

	s.events.Publish(activity.Event{
		Type:     activity.EventPostDeleted,
		ActorID:  userID,
		TargetID: id,
	})

	return nil
}

func (s *Service) bumpAuthorCounter(ctx context.Context, userID string, delta int) {
	authorProfile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "post: resolve author profile", "user_id", userID, "error", err)
		return
	}
	if err := s.profiles.AddToCounter(ctx, authorProfile.ID, profile.CounterPosts, delta); err != nil {
		slog.ErrorContext(ctx, "post: adjust post counter", "profile_id", authorProfile.ID, "error", err)
	}
}

func fromDoc(doc *document.Document) *Post {
	return &Post{
		ID:            doc.ID,
		UserID:        doc.String("userId"),
		Image:         doc.String("image"),
		Caption:       doc.String("caption"),
		Location:      doc.String("location"),
		IsRecipe:      doc.Bool("isRecipe"),
		RecipeID:      doc.String("recipeId"),
		Tags:          doc.StringSlice("tags"),
		LikesCount:    doc.Int("likesCount"),
		CommentsCount: doc.Int("commentsCount"),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}
}
