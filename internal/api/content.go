package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"culina-go/internal/post"
	"culina-go/internal/profile"
	"culina-go/internal/query"
	"culina-go/internal/recipe"
	"culina-go/internal/storage"
)

// Content endpoints read through the query client so repeated requests hit
// the cache instead of the remote store.

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.queries.ProfileByHandle(r.Context(), ps.ByName("handle"))
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Profile not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.queries.Post(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Post not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) GetRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	rec, err := h.queries.Recipe(r.Context(), ps.ByName("id"))
	if err != nil {
		if errors.Is(err, recipe.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Recipe not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Explore serves one page of the explore feed at a time.
func (h *Handler) Explore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	posts, err := h.queries.Posts(r.Context(), post.ListFilter{
		Limit:  query.ExplorePageSize,
		Offset: offset,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":   posts,
		"hasMore": len(posts) == query.ExplorePageSize,
	})
}

func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	comments, err := h.queries.Comments(r.Context(), ps.ByName("id"))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// Upload accepts a multipart image and stores it in the media bucket.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "file is required"})
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if result := storage.ValidateImage(contentType, header.Size, 0); !result.Valid {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": result.Error})
		return
	}

	fileID, err := h.files.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"id":  fileID,
		"url": h.files.PreviewURL(fileID, 0, 0),
	})
}
