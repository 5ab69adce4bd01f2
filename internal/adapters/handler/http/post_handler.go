package http

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

// maxUploadSize bounds the in-memory part of a multipart parse (32 MiB).
const maxUploadSize = 32 << 20

type PostHandler struct {
	postService    ports.PostService
	commentService ports.CommentService
}

func NewPostHandler(postService ports.PostService, commentService ports.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
	}
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.ParseInt(r.URL.Query().Get("page"), 10, 64)

	posts, err := h.postService.List(r.Context(), ports.ListPostsInput{Page: page})
	if err != nil {
		respondError(w, err)
		return
	}
	if posts == nil {
		posts = []*domain.Post{}
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())

	input, err := postForm(r)
	if err != nil {
		respondError(w, err)
		return
	}
	defer input.close()

	post, err := h.postService.Create(r.Context(), user.ID.Hex(), ports.CreatePostInput{
		Title:      input.Title,
		Body:       input.Body,
		CoverImage: input.CoverImage,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, post)
}

type postResponse struct {
	Post     *domain.Post      `json:"post"`
	Comments []*domain.Comment `json:"comments"`
}

func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, comments, err := h.postService.GetBySlug(r.Context(), slug)
	if err != nil {
		respondError(w, err)
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	respondJSON(w, http.StatusOK, postResponse{Post: post, Comments: comments})
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	postID := chi.URLParam(r, "id")

	input, err := postForm(r)
	if err != nil {
		respondError(w, err)
		return
	}
	defer input.close()

	post, err := h.postService.Update(r.Context(), user.ID.Hex(), postID, ports.UpdatePostInput{
		Title:      input.Title,
		Body:       input.Body,
		CoverImage: input.CoverImage,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	postID := chi.URLParam(r, "id")

	if err := h.postService.Delete(r.Context(), user.ID.Hex(), postID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type createCommentRequest struct {
	Body string `json:"body"`
}

func (h *PostHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	user, _ := CurrentUser(r.Context())
	postID := chi.URLParam(r, "id")

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, domain.ErrValidation)
		return
	}

	comment, err := h.commentService.Create(r.Context(), user.ID.Hex(), postID, req.Body)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

type postFormInput struct {
	Title      string
	Body       string
	CoverImage *ports.Upload
	coverFile  multipart.File
}

func (in *postFormInput) close() {
	if in.coverFile != nil {
		in.coverFile.Close()
	}
}

// postForm reads the multipart create/edit form. The cover image field is
// optional; everything else about a failed upload surfaces later, from the
// media store.
func postForm(r *http.Request) (*postFormInput, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, domain.ErrValidation
	}

	input := &postFormInput{
		Title: r.FormValue("title"),
		Body:  r.FormValue("body"),
	}

	file, header, err := r.FormFile("coverImage")
	switch err {
	case nil:
		input.coverFile = file
		input.CoverImage = &ports.Upload{
			Filename: header.Filename,
			Content:  file,
		}
	case http.ErrMissingFile:
		// optional
	default:
		return nil, domain.ErrValidation
	}

	return input, nil
}
