package services

import (
	"context"
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

const postPageSize = 20

type postService struct {
	posts    ports.PostRepository
	comments ports.CommentRepository
	media    ports.MediaStore
	social   ports.SocialService
	logger   *zap.Logger
}

func NewPostService(posts ports.PostRepository, comments ports.CommentRepository, media ports.MediaStore, social ports.SocialService, logger *zap.Logger) ports.PostService {
	return &postService{
		posts:    posts,
		comments: comments,
		media:    media,
		social:   social,
		logger:   logger,
	}
}

func (s *postService) Create(ctx context.Context, authorID string, input ports.CreatePostInput) (*domain.Post, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.Body == "" {
		return nil, fmt.Errorf("%w: body is required", domain.ErrValidation)
	}

	authorOID, err := parseObjectID(authorID)
	if err != nil {
		return nil, err
	}

	postSlug, err := s.uniqueSlug(ctx, input.Title, "")
	if err != nil {
		return nil, err
	}

	var coverURL string
	if input.CoverImage != nil {
		// Upload failures fail the request: a post without its intended
		// cover image is something the author has to see.
		coverURL, err = s.media.Put(ctx, input.CoverImage.Filename, input.CoverImage.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store cover image: %w", err)
		}
	}

	now := time.Now()
	post := &domain.Post{
		Slug:          postSlug,
		Title:         input.Title,
		Body:          input.Body,
		CoverImageURL: coverURL,
		CreatedBy:     authorOID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.posts.Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	// Best-effort announcement; never fails the post that triggered it.
	s.social.PublishPost(ctx, authorID, post)

	return post, nil
}

func (s *postService) GetBySlug(ctx context.Context, postSlug string) (*domain.Post, []*domain.Comment, error) {
	post, err := s.posts.GetBySlug(ctx, postSlug)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, nil, domain.ErrNotFound
	}

	comments, err := s.comments.ListForPost(ctx, post.ID.Hex())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return post, comments, nil
}

func (s *postService) List(ctx context.Context, input ports.ListPostsInput) ([]*domain.Post, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	posts, err := s.posts.List(ctx, postPageSize, (page-1)*postPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

func (s *postService) Update(ctx context.Context, callerID, postID string, input ports.UpdatePostInput) (*domain.Post, error) {
	post, err := s.ownedPost(ctx, callerID, postID)
	if err != nil {
		return nil, err
	}

	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if input.Body == "" {
		return nil, fmt.Errorf("%w: body is required", domain.ErrValidation)
	}

	fields := map[string]any{
		"title":      input.Title,
		"body":       input.Body,
		"updated_at": time.Now(),
	}

	// The slug is recomputed only when the title actually changes, so
	// existing links keep working after body-only edits.
	if input.Title != post.Title {
		newSlug, err := s.uniqueSlug(ctx, input.Title, post.Slug)
		if err != nil {
			return nil, err
		}
		fields["slug"] = newSlug
	}

	if input.CoverImage != nil {
		coverURL, err := s.media.Put(ctx, input.CoverImage.Filename, input.CoverImage.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store cover image: %w", err)
		}
		fields["cover_image_url"] = coverURL
	}

	if err := s.posts.Update(ctx, postID, fields); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.posts.GetByID(ctx, postID)
}

func (s *postService) Delete(ctx context.Context, callerID, postID string) error {
	if _, err := s.ownedPost(ctx, callerID, postID); err != nil {
		return err
	}

	// Cascade: comments first, then the post itself.
	deleted, err := s.comments.DeleteForPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	s.logger.Info("post deleted",
		zap.String("post_id", postID),
		zap.Int64("comments_removed", deleted))
	return nil
}

// ownedPost loads the post and checks ownership against storage, never
// against anything the client supplied.
func (s *postService) ownedPost(ctx context.Context, callerID, postID string) (*domain.Post, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthorized
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}
	if post.CreatedBy.Hex() != callerID {
		return nil, domain.ErrForbidden
	}
	return post, nil
}

// uniqueSlug derives a URL slug from the title, probing -2, -3, ... until
// an unused one is found. On edits, current is the post's existing slug so
// the post never collides with itself.
func (s *postService) uniqueSlug(ctx context.Context, title, current string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", fmt.Errorf("%w: title yields an empty slug", domain.ErrValidation)
	}

	candidate := base
	for i := 2; ; i++ {
		if candidate == current {
			return candidate, nil
		}
		taken, err := s.posts.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
