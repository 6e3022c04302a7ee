package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"culina-go/internal/activity"
	"culina-go/internal/document"
	"culina-go/internal/profile"
)

var ErrNotFound = errors.New("recipe not found")

type Service struct {
	store    document.Store
	profiles *profile.Service
	events   *activity.Broker
}

func NewService(store document.Store, profiles *profile.Service, events *activity.Broker) *Service {
	return &Service{store: store, profiles: profiles, events: events}
}

// Get returns a single recipe by ID.
func (s *Service) Get(ctx context.Context, id string) (*Recipe, error) {
	doc, err := s.store.Get(ctx, document.CollectionRecipes, id)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get recipe: %w", err)
	}
	return fromDoc(doc), nil
}

// List returns recipes matching the filter, newest first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Recipe, error) {
	equals := make(map[string]any)
	if filter.AuthorID != "" {
		equals["authorId"] = filter.AuthorID
	}
	if filter.Difficulty != "" {
		equals["difficulty"] = string(filter.Difficulty)
	}

	docs, err := s.store.List(ctx, document.CollectionRecipes, document.Query{
		Equals: equals,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	recipes := make([]*Recipe, len(docs))
	for i, doc := range docs {
		recipes[i] = fromDoc(doc)
	}
	return recipes, nil
}

// Create creates a recipe and bumps the author's recipe counter. The counter
// update is best effort and never fails the create.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Recipe, error) {
	doc, err := s.store.Create(ctx, document.CollectionRecipes, uuid.New().String(), map[string]any{
		"authorId":    input.AuthorID,
		"title":       input.Title,
		"description": input.Description,
		"image":       input.Image,
		"ingredients": input.Ingredients,
		"steps":       encodeSteps(input.Steps),
		"prepTime":    input.PrepTime,
		"cookTime":    input.CookTime,
		"difficulty":  string(input.Difficulty),
		"calories":    input.Calories,
		"servings":    input.Servings,
		"tags":        input.Tags,
		"likesCount":  0,
	})
	if err != nil {
		return nil, fmt.Errorf("create recipe: %w", err)
	}

	s.bumpAuthorCounter(ctx, input.AuthorID, 1)

	s.events.Publish(activity.Event{
		Type:     activity.EventRecipeCreated,
		ActorID:  input.AuthorID,
		TargetID: doc.ID,
	})

	return fromDoc(doc), nil
}

// Update merges the supplied fields into the recipe, re-serializing steps
// when present.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*Recipe, error) {
	attrs := make(map[string]any)
	if input.Title != nil {
		attrs["title"] = *input.Title
	}
	if input.Description != nil {
		attrs["description"] = *input.Description
	}
	if input.Image != nil {
		attrs["image"] = *input.Image
	}
	if input.Ingredients != nil {
		attrs["ingredients"] = *input.Ingredients
	}
	if input.Steps != nil {
		attrs["steps"] = encodeSteps(*input.Steps)
	}
	if input.PrepTime != nil {
		attrs["prepTime"] = *input.PrepTime
	}
	if input.CookTime != nil {
		attrs["cookTime"] = *input.CookTime
	}
	if input.Difficulty != nil {
		attrs["difficulty"] = string(*input.Difficulty)
	}
	if input.Calories != nil {
		attrs["calories"] = *input.Calories
	}
	if input.Servings != nil {
		attrs["servings"] = *input.Servings
	}
	if input.Tags != nil {
		attrs["tags"] = *input.Tags
	}

	doc, err := s.store.Update(ctx, document.CollectionRecipes, id, attrs)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update recipe: %w", err)
	}
	return fromDoc(doc), nil
}

// Delete removes the recipe and decrements the author's recipe counter.
func (s *Service) Delete(ctx context.Context, id, authorID string) error {
	if err := s.store.Delete(ctx, document.CollectionRecipes, id); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete recipe: %w", err)
	}

	s.bumpAuthorCounter(ctx, authorID, -1)

	s.events.Publish(activity.Event{
		Type:     activity.EventRecipeDeleted,
		ActorID:  authorID,
		TargetID: id,
	})

	return nil
}

func (s *Service) bumpAuthorCounter(ctx context.Context, authorID string, delta int) {
	authorProfile, err := s.profiles.GetByUserID(ctx, authorID)
	if err != nil {
		slog.ErrorContext(ctx, "recipe: resolve author profile", "user_id", authorID, "error", err)
		return
	}
	if err := s.profiles.AddToCounter(ctx, authorProfile.ID, profile.CounterRecipes, delta); err != nil {
		slog.ErrorContext(ctx, "recipe: adjust recipe counter", "profile_id", authorProfile.ID, "error", err)
	}
}

func encodeSteps(steps []Step) []string {
	out := make([]string, len(steps))
	for i, step := range steps {
		raw, err := json.Marshal(step)
		if err != nil {
			// A step is two scalar fields; marshaling cannot fail.
			continue
		}
		out[i] = string(raw)
	}
	return out
}

// ParseSteps decodes individually serialized steps. Plain strings are kept
// as order-zero instructions.
func ParseSteps(raw []string) []Step {
	steps := make([]Step, 0, len(raw))
	for _, entry := range raw {
		var step Step
		if err := json.Unmarshal([]byte(entry), &step); err != nil {
			steps = append(steps, Step{Order: 0, Instruction: entry})
			continue
		}
		steps = append(steps, step)
	}
	return steps
}

func fromDoc(doc *document.Document) *Recipe {
	return &Recipe{
		ID:          doc.ID,
		AuthorID:    doc.String("authorId"),
		Title:       doc.String("title"),
		Description: doc.String("description"),
		Image:       doc.String("image"),
		Ingredients: doc.StringSlice("ingredients"),
		Steps:       ParseSteps(doc.StringSlice("steps")),
		PrepTime:    doc.Int("prepTime"),
		CookTime:    doc.Int("cookTime"),
		Difficulty:  Difficulty(doc.String("difficulty")),
		Calories:    doc.Int("calories"),
		Servings:    doc.Int("servings"),
		Tags:        doc.StringSlice("tags"),
		LikesCount:  doc.Int("likesCount"),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
}
