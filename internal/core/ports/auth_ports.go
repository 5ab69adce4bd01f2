package ports

import (
	"context"

	"github.com/blogify/api/internal/core/domain"
)

// TokenCodec issues and verifies the signed session token carried in the
// session cookie. Verify fails closed: anything other than a well-formed
// token signed with the current secret yields domain.ErrInvalidToken.
type TokenCodec interface {
	Issue(userID string) (string, error)
	Verify(token string) (userID string, err error)
}

type RegisterInput struct {
	FullName string
	Email    string
	Password string
}

type AuthService interface {
	// Register creates an account and returns it with a session token.
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error)
	// Login checks credentials and returns the account with a session token.
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	// Resolve maps a session token to its account, if both still exist.
	Resolve(ctx context.Context, token string) (*domain.User, error)
}
