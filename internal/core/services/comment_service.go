package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
)

type commentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository) ports.CommentService {
	return &commentService{
		comments: comments,
		posts:    posts,
	}
}

func (s *commentService) Create(ctx context.Context, authorID, postID, body string) (*domain.Comment, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthorized
	}
	if body == "" {
		return nil, fmt.Errorf("%w: comment body is required", domain.ErrValidation)
	}

	authorOID, err := parseObjectID(authorID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	if post == nil {
		return nil, domain.ErrNotFound
	}

	comment := &domain.Comment{
		PostID:    post.ID,
		Body:      body,
		CreatedBy: authorOID,
		CreatedAt: time.Now(),
	}
	if err := s.comments.Save(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to save comment: %w", err)
	}
	return comment, nil
}

func parseObjectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: invalid id %q", domain.ErrValidation, id)
	}
	return oid, nil
}
