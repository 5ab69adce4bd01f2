package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/blogify/api/internal/core/domain"
	"github.com/blogify/api/internal/core/ports"
	"github.com/blogify/api/internal/cryptox"
)

// refreshMargin is how close to expiry the access token may get before a
// refresh is attempted. Not derived from provider documentation; a tunable.
const refreshMargin = 60 * time.Second

type socialService struct {
	userRepo ports.UserRepository
	provider ports.OAuthProvider
	cipher   *cryptox.Cipher
	siteURL  string
	logger   *zap.Logger
	now      func() time.Time
}

func NewSocialService(userRepo ports.UserRepository, provider ports.OAuthProvider, cipher *cryptox.Cipher, siteURL string, logger *zap.Logger) ports.SocialService {
	return &socialService{
		userRepo: userRepo,
		provider: provider,
		cipher:   cipher,
		siteURL:  siteURL,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *socialService) BeginLink(_ context.Context) (*ports.BeginLinkResult, error) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	challenge := oauth2.S256ChallengeFromVerifier(verifier)

	return &ports.BeginLinkResult{
		RedirectURL: s.provider.AuthCodeURL(state, challenge),
		State:       state,
		Verifier:    verifier,
	}, nil
}

func (s *socialService) CompleteLink(ctx context.Context, userID string, input ports.CompleteLinkInput) (*domain.SocialLink, error) {
	// Anti-forgery check happens before any provider call. Missing
	// transient values fail the same way as a mismatch.
	if input.State == "" || input.StoredState == "" || input.Verifier == "" || input.State != input.StoredState {
		return nil, domain.ErrOAuthState
	}
	if input.Code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", domain.ErrValidation)
	}

	token, err := s.provider.Exchange(ctx, input.Code, input.Verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange failed: %v", domain.ErrUpstream, err)
	}

	profile, err := s.provider.Profile(ctx, token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: profile fetch failed: %v", domain.ErrUpstream, err)
	}

	link, err := s.sealedLink(token, profile.RemoteID, profile.Handle)
	if err != nil {
		return nil, err
	}
	link.AutoPublish = true

	if err := s.userRepo.UpdateSocial(ctx, userID, link); err != nil {
		return nil, fmt.Errorf("failed to persist social link: %w", err)
	}

	s.logger.Info("social account linked",
		zap.String("user_id", userID),
		zap.String("handle", profile.Handle))
	return link, nil
}

func (s *socialService) Disable(ctx context.Context, userID string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return domain.ErrNotFound
	}
	if user.Social == nil {
		// Nothing linked; disabling is a no-op success.
		return nil
	}

	// Tokens are nulled but the sub-document stays, keeping the last
	// known handle for history.
	cleared := &domain.SocialLink{
		RemoteID:    user.Social.RemoteID,
		Handle:      user.Social.Handle,
		AutoPublish: false,
		LastPublish: user.Social.LastPublish,
	}
	if err := s.userRepo.UpdateSocial(ctx, userID, cleared); err != nil {
		return fmt.Errorf("failed to clear social link: %w", err)
	}

	s.logger.Info("social auto-publish disabled", zap.String("user_id", userID))
	return nil
}

func (s *socialService) TestConnection(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", domain.ErrNotFound
	}

	accessToken, _, err := s.freshAccessToken(ctx, userID, user.Social)
	if err != nil {
		return "", err
	}

	profile, err := s.provider.Profile(ctx, accessToken)
	if err != nil {
		return "", fmt.Errorf("%w: profile fetch failed: %v", domain.ErrUpstream, err)
	}
	return profile.Handle, nil
}

func (s *socialService) PublishPost(ctx context.Context, userID string, post *domain.Post) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		s.logger.Warn("auto-publish skipped: user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return
	}
	if !user.Social.Connected() {
		return
	}

	accessToken, link, err := s.freshAccessToken(ctx, userID, user.Social)
	if err != nil {
		s.logger.Warn("auto-publish skipped",
			zap.String("user_id", userID),
			zap.Error(err))
		return
	}

	text := fmt.Sprintf("New post: %s\n%s/posts/%s", post.Title, s.siteURL, post.Slug)
	if err := s.provider.Publish(ctx, accessToken, text); err != nil {
		s.logger.Warn("auto-publish failed",
			zap.String("user_id", userID),
			zap.String("post_slug", post.Slug),
			zap.Error(err))
		return
	}

	// The timestamp is stamped on the link freshAccessToken left in
	// storage, so a rotation that just happened is not overwritten.
	now := s.now()
	published := *link
	published.LastPublish = &now
	if err := s.userRepo.UpdateSocial(ctx, userID, &published); err != nil {
		s.logger.Warn("failed to record publish time", zap.String("user_id", userID), zap.Error(err))
	}

	s.logger.Info("post announced",
		zap.String("user_id", userID),
		zap.String("post_slug", post.Slug))
}

// freshAccessToken returns a usable plaintext access token together with the
// link as it now stands in storage, refreshing first when expiry is within
// refreshMargin. Callers that write the link back must start from the
// returned one, never from the copy they loaded. An expired token with no
// refresh token means the link is broken until the user re-connects.
func (s *socialService) freshAccessToken(ctx context.Context, userID string, link *domain.SocialLink) (string, *domain.SocialLink, error) {
	if link == nil || link.AccessToken == "" {
		return "", nil, domain.ErrNotLinked
	}

	accessToken, err := s.cipher.Open(link.AccessToken)
	if err != nil {
		return "", nil, fmt.Errorf("failed to unseal access token: %w", err)
	}

	needsRefresh := link.ExpiresAt != nil && !s.now().Before(link.ExpiresAt.Add(-refreshMargin))
	if !needsRefresh {
		return accessToken, link, nil
	}

	if link.RefreshToken == "" {
		return "", nil, domain.ErrLinkBroken
	}
	refreshToken, err := s.cipher.Open(link.RefreshToken)
	if err != nil {
		return "", nil, fmt.Errorf("failed to unseal refresh token: %w", err)
	}

	rotated, err := s.provider.Refresh(ctx, refreshToken)
	if err != nil {
		return "", nil, fmt.Errorf("%w: token refresh failed: %v", domain.ErrUpstream, err)
	}

	// Concurrent refreshes may race; last write wins on the stored pair.
	updated, err := s.sealedLink(rotated, link.RemoteID, link.Handle)
	if err != nil {
		return "", nil, err
	}
	updated.AutoPublish = link.AutoPublish
	updated.LastPublish = link.LastPublish
	if updated.RefreshToken == "" {
		updated.RefreshToken = link.RefreshToken
	}
	if err := s.userRepo.UpdateSocial(ctx, userID, updated); err != nil {
		return "", nil, fmt.Errorf("failed to persist rotated tokens: %w", err)
	}

	return rotated.AccessToken, updated, nil
}

func (s *socialService) sealedLink(token *ports.ProviderToken, remoteID, handle string) (*domain.SocialLink, error) {
	sealedAccess, err := s.cipher.Seal(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to seal access token: %w", err)
	}

	var sealedRefresh string
	if token.RefreshToken != "" {
		sealedRefresh, err = s.cipher.Seal(token.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to seal refresh token: %w", err)
		}
	}

	link := &domain.SocialLink{
		AccessToken:  sealedAccess,
		RefreshToken: sealedRefresh,
		RemoteID:     remoteID,
		Handle:       handle,
	}
	if !token.ExpiresAt.IsZero() {
		expiry := token.ExpiresAt
		link.ExpiresAt = &expiry
	}
	return link, nil
}
