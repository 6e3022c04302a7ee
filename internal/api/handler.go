package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"culina-go/internal/activity"
	"culina-go/internal/auth"
	"culina-go/internal/query"
	"culina-go/internal/storage"
)

// mockPosts keeps the posts endpoint immediately usable without a remote
// store connection.
var mockPosts = []map[string]any{
	{
		"id":        "post-health-1",
		"userId":    "user1",
		"image":     "/assets/sample-1.png",
		"caption":   "Welcome to the Culina API — mock post",
		"location":  "Internet",
		"likes":     10,
		"comments":  2,
		"isRecipe":  false,
		"createdAt": "just now",
		"tags":      []string{"mock", "hello"},
	},
}

type Handler struct {
	env      string
	users    *UserStore
	events   *activity.Broker
	auth     *auth.Handler
	authSvc  *auth.Service
	queries  *query.Client
	files    *storage.Service
	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewHandler(env string, users *UserStore, events *activity.Broker, authSvc *auth.Service, queries *query.Client, files *storage.Service) *Handler {
	return &Handler{
		env:      env,
		users:    users,
		events:   events,
		auth:     auth.NewHandler(authSvc),
		authSvc:  authSvc,
		queries:  queries,
		files:    files,
		validate: validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
		"env":    h.env,
	})
}

// GetUser resolves the path segment as an ID first, then as a username.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	key := ps.ByName("id")
	user, ok := h.users.Get(key)
	if !ok {
		user, ok = h.users.GetByUsername(key)
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input CreateUserInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid request body"})
		return
	}
	if err := h.validate.Struct(input); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
		return
	}

	user, err := h.users.Create(input)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Username already taken"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, mockPosts)
}

// StreamActivity pushes broker events over a websocket until the client
// disconnects.
func (h *Handler) StreamActivity(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	events := h.events.Subscribe()
	defer h.events.Unsubscribe(events)

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

func (h *Handler) Routes() *httprouter.Router {
	router := httprouter.New()

	router.GET("/api/health", h.Health)
	router.GET("/api/users/:id", h.GetUser)
	router.POST("/api/users", h.CreateUser)
	router.GET("/api/posts", h.ListPosts)
	router.GET("/api/activity", h.StreamActivity)

	router.GET("/api/profiles/:handle", h.GetProfile)
	router.GET("/api/content/posts/:id", h.GetPost)
	router.GET("/api/content/posts/:id/comments", h.GetComments)
	router.GET("/api/content/recipes/:id", h.GetRecipe)
	router.GET("/api/explore", h.Explore)
	router.Handler(http.MethodPost, "/api/uploads",
		h.authSvc.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.Upload(w, r, nil)
		})))

	router.HandlerFunc(http.MethodPost, "/api/auth/register", h.auth.Register)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", h.auth.Login)
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", h.auth.Logout)
	router.Handler(http.MethodGet, "/api/auth/me", h.authSvc.RequireAuth(http.HandlerFunc(h.auth.Me)))

	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
