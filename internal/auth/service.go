package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"culina-go/internal/document"
	"culina-go/internal/profile"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

type Service struct {
	store     document.Store
	profiles  *profile.Service
	jwtSecret []byte
	jwtExpiry time.Duration
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is an authenticated session backed by a session document. The
// token embeds the session ID, so logout can delete the document.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func NewService(store document.Store, profiles *profile.Service, jwtSecret []byte, jwtExpiry time.Duration) *Service {
	return &Service{
		store:     store,
		profiles:  profiles,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	// Check if user exists
	existing, err := s.store.List(ctx, document.CollectionUsers, document.Query{
		Equals: map[string]any{"email": input.Email},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("check user exists: %w", err)
	}
	if len(existing) > 0 {
		return nil, ErrUserExists
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doc, err := s.store.Create(ctx, document.CollectionUsers, uuid.New().String(), map[string]any{
		"email":        input.Email,
		"name":         input.Name,
		"passwordHash": string(hash),
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	user := userFromDoc(doc)

	if _, err := s.EnsureProfile(ctx, user.ID, user.Name, user.Email); err != nil {
		// A missing profile is re-created on next login.
		slog.ErrorContext(ctx, "auth: ensure profile", "user_id", user.ID, "error", err)
	}

	return user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	user, err := s.findByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if _, err := s.EnsureProfile(ctx, user.ID, user.Name, user.Email); err != nil {
		slog.ErrorContext(ctx, "auth: ensure profile", "user_id", user.ID, "error", err)
	}

	return s.createSession(ctx, user)
}

// Current returns the principal for a session token.
func (s *Service) Current(ctx context.Context, token string) (*User, error) {
	userID, sessionID, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}

	// The session document is the source of truth; a deleted session
	// invalidates an otherwise well-formed token.
	if _, err := s.store.Get(ctx, document.CollectionSessions, sessionID); err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	doc, err := s.store.Get(ctx, document.CollectionUsers, userID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return userFromDoc(doc), nil
}

// Logout deletes the session for the token. Tokens whose session is
// already gone log out cleanly.
func (s *Service) Logout(ctx context.Context, token string) error {
	_, sessionID, err := s.parseToken(token)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, document.CollectionSessions, sessionID); err != nil && !errors.Is(err, document.ErrNotFound) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// EnsureProfile returns the user's profile, creating one with a handle
// derived from the email local part if none exists yet.
func (s *Service) EnsureProfile(ctx context.Context, userID, name, email string) (*profile.Profile, error) {
	existing, err := s.profiles.GetByUserID(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, profile.ErrNotFound) {
		return nil, err
	}

	return s.profiles.Create(ctx, profile.CreateInput{
		UserID: userID,
		Name:   name,
		Handle: handleFromEmail(email),
	})
}

func (s *Service) createSession(ctx context.Context, user *User) (*Session, error) {
	sessionID := uuid.New().String()
	expiresAt := time.Now().Add(s.jwtExpiry)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    user.ID,
		"session_id": sessionID,
		"exp":        expiresAt.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	_, err = s.store.Create(ctx, document.CollectionSessions, sessionID, map[string]any{
		"userId":    user.ID,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Session{
		ID:        sessionID,
		UserID:    user.ID,
		Token:     signed,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) parseToken(tokenString string) (userID, sessionID string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", ErrInvalidToken
	}

	userID, ok = claims["user_id"].(string)
	if !ok {
		return "", "", ErrInvalidToken
	}
	sessionID, ok = claims["session_id"].(string)
	if !ok {
		return "", "", ErrInvalidToken
	}
	return userID, sessionID, nil
}

func (s *Service) findByEmail(ctx context.Context, email string) (*User, error) {
	docs, err := s.store.List(ctx, document.CollectionUsers, document.Query{
		Equals: map[string]any{"email": email},
		Limit:  1,
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(docs) == 0 {
		return nil, ErrUserNotFound
	}
	return userFromDoc(docs[0]), nil
}

func handleFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	var b strings.Builder
	for _, r := range strings.ToLower(local) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func userFromDoc(doc *document.Document) *User {
	return &User{
		ID:           doc.ID,
		Email:        doc.String("email"),
		Name:         doc.String("name"),
		PasswordHash: doc.String("passwordHash"),
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}
