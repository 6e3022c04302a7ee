package like

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"culina-go/internal/activity"
	"culina-go/internal/document"
)

// TargetType identifies what kind of document a like points at.
type TargetType string

const (
	TargetPost    TargetType = "post"
	TargetRecipe  TargetType = "recipe"
	TargetComment TargetType = "comment"
)

func (t TargetType) collection() string {
	switch t {
	case TargetRecipe:
		return document.CollectionRecipes
	case TargetComment:
		return document.CollectionComments
	default:
		return document.CollectionPosts
	}
}

type Service struct {
	store  document.Store
	events *activity.Broker
}

func NewService(store document.Store, events *activity.Broker) *Service {
	return &Service{store: store, events: events}
}

// HasLiked reports whether the user has liked the target.
func (s *Service) HasLiked(ctx context.Context, userID string, targetType TargetType, targetID string) (bool, error) {
	doc, err := s.find(ctx, userID, targetType, targetID)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// Like records a like. A no-op if the user already liked the target. The
// uniqueness of (user, targetType, targetId) is enforced by this
// check-then-create, so concurrent duplicate requests can race.
func (s *Service) Like(ctx context.Context, userID string, targetType TargetType, targetID string) error {
	existing, err := s.find(ctx, userID, targetType, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = s.store.Create(ctx, document.CollectionLikes, uuid.New().String(), map[string]any{
		"userId":     userID,
		"targetType": string(targetType),
		"targetId":   targetID,
	})
	if err != nil {
		return fmt.Errorf("create like: %w", err)
	}

	s.bumpLikeCounter(ctx, targetType, targetID, 1)

	s.events.Publish(activity.Event{
		Type:     activity.EventLiked,
		ActorID:  userID,
		TargetID: targetID,
		Payload:  map[string]any{"target_type": string(targetType)},
	})

	return nil
}

// Unlike removes a like. A no-op if the user has not liked the target.
func (s *Service) Unlike(ctx context.Context, userID string, targetType TargetType, targetID string) error {
	existing, err := s.find(ctx, userID, targetType, targetID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.store.Delete(ctx, document.CollectionLikes, existing.ID); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	s.bumpLikeCounter(ctx, targetType, targetID, -1)

	s.events.Publish(activity.Event{
		Type:     activity.EventUnliked,
		ActorID:  userID,
		TargetID: targetID,
		Payload:  map[string]any{"target_type": string(targetType)},
	})

	return nil
}

// Toggle flips the like state and returns the new state.
func (s *Service) Toggle(ctx context.Context, userID string, targetType TargetType, targetID string) (bool, error) {
	liked, err := s.HasLiked(ctx, userID, targetType, targetID)
	if err != nil {
		return false, err
	}
	if liked {
		if err := s.Unlike(ctx, userID, targetType, targetID); err != nil {
			return liked, err
		}
		return false, nil
	}
	if err := s.Like(ctx, userID, targetType, targetID); err != nil {
		return liked, err
	}
	return true, nil
}

func (s *Service) find(ctx context.Context, userID string, targetType TargetType, targetID string) (*document.Document, error) {
	docs, err := s.store.List(ctx, document.CollectionLikes, document.Query{
		Equals: map[string]any{
			"userId":     userID,
			"targetType": string(targetType),
			"targetId":   targetID,
		},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("find like: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// bumpLikeCounter adjusts the denormalized like counter on the target. Best
// effort; a failure leaves the counter stale but never fails the like.
func (s *Service) bumpLikeCounter(ctx context.Context, targetType TargetType, targetID string, delta int) {
	if err := s.store.Increment(ctx, targetType.collection(), targetID, "likesCount", delta); err != nil {
		slog.ErrorContext(ctx, "like: adjust like counter",
			"target_type", string(targetType), "target_id", targetID, "error", err)
	}
}
