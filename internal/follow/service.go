package follow

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

// ErrSelfFollow is returned before any remote call when a user tries to
// follow themselves.
var ErrSelfFollow = errors.New("cannot follow yourself")

type Service struct {
	store    document.Store
	profiles *profile.Service
	events   *activity.Broker
}

func NewService(store document.Store, profiles *profile.Service, events *activity.Broker) *Service {
	return &Service{store: store, profiles: profiles, events: events}
}

// IsFollowing reports whether follower follows following.
func (s *Service) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	doc, err := s.find(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	return doc != nil, nil
}

// Follow records a follow relationship and bumps both profiles' counters.
// A no-op if the relationship already exists.
func (s *Service) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return ErrSelfFollow
	}

	existing, err := s.find(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	_, err = s.store.Create(ctx, document.CollectionFollows, uuid.New().String(), map[string]any{
		"followerId":  followerID,
		"followingId": followingID,
	})
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}

	s.bumpCounters(ctx, followerID, followingID, 1)

	s.events.Publish(activity.Event{
		Type:     activity.EventFollowed,
		ActorID:  followerID,
		TargetID: followingID,
	})

	return nil
}

// Unfollow removes a follow relationship and decrements both profiles'
// counters. A no-op if the relationship does not exist.
func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	existing, err := s.find(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}

	if err := s.store.Delete(ctx, document.CollectionFollows, existing.ID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	s.bumpCounters(ctx, followerID, followingID, -1)

	s.events.Publish(activity.Event{
		Type:     activity.EventUnfollowed,
		ActorID:  followerID,
		TargetID: followingID,
	})

	return nil
}

// Toggle flips the follow state and returns the new state.
func (s *Service) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	if followerID == followingID {
		return false, ErrSelfFollow
	}

	following, err := s.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if following {
		if err := s.Unfollow(ctx, followerID, followingID); err != nil {
			return following, err
		}
		return false, nil
	}
	if err := s.Follow(ctx, followerID, followingID); err != nil {
		return following, err
	}
	return true, nil
}

// Following returns the IDs of users the given user follows.
func (s *Service) Following(ctx context.Context, userID string, limit, offset int) ([]string, error) {
	return s.listIDs(ctx, "followerId", userID, "followingId", limit, offset)
}

// Followers returns the IDs of users following the given user.
func (s *Service) Followers(ctx context.Context, userID string, limit, offset int) ([]string, error) {
	return s.listIDs(ctx, "followingId", userID, "followerId", limit, offset)
}

func (s *Service) listIDs(ctx context.Context, matchField, userID, pickField string, limit, offset int) ([]string, error) {
	if limit <= 0 {
		limit = 50
	}

	docs, err := s.store.List(ctx, document.CollectionFollows, document.Query{
		Equals: map[string]any{matchField: userID},
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.String(pickField)
	}
	return ids, nil
}

func (s *Service) find(ctx context.Context, followerID, followingID string) (*document.Document, error) {
	docs, err := s.store.List(ctx, document.CollectionFollows, document.Query{
		Equals: map[string]any{
			"followerId":  followerID,
			"followingId": followingID,
		},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("find follow: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

// bumpCounters adjusts followingCount on the follower and followersCount on
// the followed user. Best effort; failures leave counters stale but never
// fail the follow.
func (s *Service) bumpCounters(ctx context.Context, followerID, followingID string, delta int) {
	if p, err := s.profiles.GetByUserID(ctx, followerID); err != nil {
		slog.ErrorContext(ctx, "follow: resolve follower profile", "user_id", followerID, "error", err)
	} else if err := s.profiles.AddToCounter(ctx, p.ID, profile.CounterFollowing, delta); err != nil {
		slog.ErrorContext(ctx, "follow: adjust following counter", "profile_id", p.ID, "error", err)
	}

	if p, err := s.profiles.GetByUserID(ctx, followingID); err != nil {
		slog.ErrorContext(ctx, "follow: resolve followed profile", "user_id", followingID, "error", err)
	} else if err := s.profiles.AddToCounter(ctx, p.ID, profile.CounterFollowers, delta); err != nil {
		slog.ErrorContext(ctx, "follow: adjust followers counter", "profile_id", p.ID, "error", err)
	}
}
