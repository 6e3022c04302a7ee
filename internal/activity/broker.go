package activity

import (
	"sync"
	"time"
)

// EventType represents different types of activity events
type EventType string

const (
	EventPostCreated    EventType = "post_created"
	EventPostDeleted    EventType = "post_deleted"
	EventRecipeCreated  EventType = "recipe_created"
	EventRecipeDeleted  EventType = "recipe_deleted"
	EventCommentCreated EventType = "comment_created"
	EventCommentDeleted EventType = "comment_deleted"
	EventLiked          EventType = "liked"
	EventUnliked        EventType = "unliked"
	EventFollowed       EventType = "followed"
	EventUnfollowed     EventType = "unfollowed"
)

// Event is a single activity item published by the entity services.
type Event struct {
	Type      EventType      `json:"type"`
	ActorID   string         `json:"actor_id"`
	TargetID  string         `json:"target_id,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// Broker fans activity events out to subscribers. A nil broker accepts
// publishes and drops them, so services can be wired without one.
type Broker struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[chan Event]struct{})}
}

func (b *Broker) Publish(event Event) {
	if b == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			// Slow subscriber; drop rather than block the publisher.
		}
	}
}

func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, 100)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}
