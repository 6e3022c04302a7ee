package comment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"culina-go/internal/activity"
	"culina-go/internal/document"
)

var ErrNotFound = errors.New("comment not found")

// Comment represents a comment on a post.
type Comment struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	UserID     string    `json:"user_id"`
	Content    string    `json:"content"`
	LikesCount int       `json:"likes_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateInput holds the fields supplied when commenting on a post.
type CreateInput struct {
	PostID  string `json:"post_id"`
	UserID  string `json:"user_id"`
	Content string `json:"content"`
}

type Service struct {
	store  document.Store
	events *activity.Broker
}

func NewService(store document.Store, events *activity.Broker) *Service {
	return &Service{store: store, events: events}
}

// List returns a post's comments, newest first.
func (s *Service) List(ctx context.Context, postID string, limit, offset int) ([]*Comment, error) {
	if limit <= 0 {
		limit = 50
	}

	docs, err := s.store.List(ctx, document.CollectionComments, document.Query{
		Equals: map[string]any{"postId": postID},
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	comments := make([]*Comment, len(docs))
	for i, doc := range docs {
		comments[i] = fromDoc(doc)
	}
	return comments, nil
}

// Create creates a comment and bumps the parent post's comment counter. The
// counter update is best effort and never fails the create.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Comment, error) {
	doc, err := s.store.Create(ctx, document.CollectionComments, uuid.New().String(), map[string]any{
		"postId":     input.PostID,
		"userId":     input.UserID,
		"content":    input.Content,
		"likesCount": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	if err := s.store.Increment(ctx, document.CollectionPosts, input.PostID, "commentsCount", 1); err != nil {
		slog.ErrorContext(ctx, "comment: adjust comment counter", "post_id", input.PostID, "error", err)
	}

	s.events.Publish(activity.Event{
		Type:     activity.EventCommentCreated,
		ActorID:  input.UserID,
		TargetID: input.PostID,
	})

	return fromDoc(doc), nil
}

// Delete removes a comment and decrements the parent post's comment counter,
// floored at zero.
func (s *Service) Delete(ctx context.Context, commentID, postID string) error {
	if err := s.store.Delete(ctx, document.CollectionComments, commentID); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	if err := s.store.Increment(ctx, document.CollectionPosts, postID, "commentsCount", -1); err != nil {
		slog.ErrorContext(ctx, "comment: adjust comment counter", "post_id", postID, "error", err)
	}

	s.events.Publish(activity.Event{
		Type:     activity.EventCommentDeleted,
		TargetID: postID,
	})

	return nil
}

func fromDoc(doc *document.Document) *Comment {
	return &Comment{
		ID:         doc.ID,
		PostID:     doc.String("postId"),
		UserID:     doc.String("userId"),
		Content:    doc.String("content"),
		LikesCount: doc.Int("likesCount"),
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}
