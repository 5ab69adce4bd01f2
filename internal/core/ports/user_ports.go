package ports

import (
	"context"

	"github.com/blogify/api/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	// UpdateFields applies a partial update to the user document.
	// Recognized keys: full_name, password_hash.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	// UpdateSocial overwrites the embedded social link. A nil link clears
	// the tokens and flag but keeps the sub-document for history.
	UpdateSocial(ctx context.Context, id string, link *domain.SocialLink) error
}

type UpdateProfileInput struct {
	FullName string
}

type ChangePasswordInput struct {
	Current string
	New     string
}

type UserService interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, input UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, id string, input ChangePasswordInput) error
}
