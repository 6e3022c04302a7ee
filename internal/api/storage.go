package api

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrUsernameTaken = errors.New("username already taken")

// User is the placeholder local-API user record. The real principals live
// in the auth service; this store only backs the /api/users endpoints.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"-"`
}

type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserStore is an in-memory user table.
type UserStore struct {
	mu     sync.RWMutex
	users  map[string]*User
	byName map[string]string
}

func NewUserStore() *UserStore {
	return &UserStore{
		users:  make(map[string]*User),
		byName: make(map[string]string),
	}
}

func (s *UserStore) Get(id string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *UserStore) GetByUsername(username string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[username]
	if !ok {
		return nil, false
	}
	return s.users[id], true
}

func (s *UserStore) Create(input CreateUserInput) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byName[input.Username]; ok {
		return nil, ErrUsernameTaken
	}

	u := &User{
		ID:       uuid.New().String(),
		Username: input.Username,
		Password: input.Password,
	}
	s.users[u.ID] = u
	s.byName[u.Username] = u.ID
	return u, nil
}
