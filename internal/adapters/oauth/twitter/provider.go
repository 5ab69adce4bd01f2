// Package twitter adapts the X (Twitter) OAuth 2.0 user-context API to the
// ports.OAuthProvider interface.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/blogify/api/internal/core/ports"
)

const (
	authURL  = "https://twitter.com/i/oauth2/authorize"
	tokenURL = "https://api.twitter.com/2/oauth2/token"
	apiBase  = "https://api.twitter.com/2"
)

// Scopes requested on linking. offline.access is what yields a refresh
// token.
var scopes = []string{"tweet.read", "tweet.write", "users.read", "offline.access"}

type Provider struct {
	config *oauth2.Config
	client *http.Client
}

func NewProvider(clientID, clientSecret, callbackURL string) ports.OAuthProvider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *Provider) AuthCodeURL(state, challenge string) string {
	return p.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *Provider) Exchange(ctx context.Context, code, verifier string) (*ports.ProviderToken, error) {
	tok, err := p.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return providerToken(tok), nil
}

func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*ports.ProviderToken, error) {
	tok, err := p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, fmt.Errorf("refreshing token: %w", err)
	}
	return providerToken(tok), nil
}

func (p *Provider) Profile(ctx context.Context, accessToken string) (*ports.ProviderProfile, error) {
	var out struct {
		Data struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"data"`
	}
	if err := p.doJSON(ctx, http.MethodGet, apiBase+"/users/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &ports.ProviderProfile{
		RemoteID: out.Data.ID,
		Handle:   out.Data.Username,
	}, nil
}

func (p *Provider) Publish(ctx context.Context, accessToken, text string) error {
	payload := map[string]string{"text": text}
	return p.doJSON(ctx, http.MethodPost, apiBase+"/tweets", accessToken, payload, nil)
}

func (p *Provider) doJSON(ctx context.Context, method, url, accessToken string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func providerToken(tok *oauth2.Token) *ports.ProviderToken {
	return &ports.ProviderToken{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry,
	}
}
