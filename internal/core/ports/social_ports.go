package ports

import (
	"context"
	"time"

	"github.com/blogify/api/internal/core/domain"
)

// ProviderToken is the plaintext token pair returned by the provider's
// token endpoint. It exists only in transit; the service seals it before
// anything is persisted.
type ProviderToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

type ProviderProfile struct {
	RemoteID string
	Handle   string
}

// OAuthProvider is the outbound side of the authorization-code + PKCE
// linking flow. Swappable for a fake in tests.
type OAuthProvider interface {
	AuthCodeURL(state, challenge string) string
	Exchange(ctx context.Context, code, verifier string) (*ProviderToken, error)
	Refresh(ctx context.Context, refreshToken string) (*ProviderToken, error)
	Profile(ctx context.Context, accessToken string) (*ProviderProfile, error)
	Publish(ctx context.Context, accessToken, text string) error
}

// BeginLinkResult carries everything the handler needs to stash in the
// transient cookies before redirecting to the provider.
type BeginLinkResult struct {
	RedirectURL string
	State       string
	Verifier    string
}

type CompleteLinkInput struct {
	Code        string
	State       string
	StoredState string
	Verifier    string
}

type SocialService interface {
	BeginLink(ctx context.Context) (*BeginLinkResult, error)
	CompleteLink(ctx context.Context, userID string, input CompleteLinkInput) (*domain.SocialLink, error)
	Disable(ctx context.Context, userID string) error
	TestConnection(ctx context.Context, userID string) (handle string, err error)
	// PublishPost announces a new post on the linked account. Errors are
	// logged and swallowed by the implementation; post creation must never
	// fail because of the announcement.
	PublishPost(ctx context.Context, userID string, post *domain.Post)
}
