package ports

import (
	"context"
	"io"

	"github.com/blogify/api/internal/core/domain"
)

type PostRepository interface {
	Save(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id string) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, limit, offset int64) ([]*domain.Post, error)
	ListByAuthor(ctx context.Context, authorID string, limit int64) ([]*domain.Post, error)
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

type CommentRepository interface {
	Save(ctx context.Context, comment *domain.Comment) error
	ListForPost(ctx context.Context, postID string) ([]*domain.Comment, error)
	DeleteForPost(ctx context.Context, postID string) (int64, error)
}

// Upload is a received cover image file, handed through to the media store.
type Upload struct {
	Filename string
	Content  io.Reader
}

type CreatePostInput struct {
	Title      string
	Body       string
	CoverImage *Upload
}

type UpdatePostInput struct {
	Title      string
	Body       string
	CoverImage *Upload
}

type ListPostsInput struct {
	Page int64
}

type PostService interface {
	Create(ctx context.Context, authorID string, input CreatePostInput) (*domain.Post, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Post, []*domain.Comment, error)
	List(ctx context.Context, input ListPostsInput) ([]*domain.Post, error)
	Update(ctx context.Context, callerID, postID string, input UpdatePostInput) (*domain.Post, error)
	Delete(ctx context.Context, callerID, postID string) error
}

type CommentService interface {
	Create(ctx context.Context, authorID, postID, body string) (*domain.Comment, error)
}

// MediaStore persists an uploaded file and returns a stable URL for it.
// Upload failures must surface to the caller; a post without its intended
// cover image is a data-integrity problem the user has to see.
type MediaStore interface {
	Put(ctx context.Context, filename string, content io.Reader) (url string, err error)
}
