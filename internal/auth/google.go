package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/mwielgos/kinoteka/internal/logger"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var ErrStateMismatch = errors.New("oauth state mismatch")

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleIdentity is the profile returned after a completed sign-in.
type GoogleIdentity struct {
	Email   string
	Name    *string
	Picture *string
}

// GoogleProvider runs the authorization-code flow against Google. The state
// parameter is a random nonce the caller stores in a cookie and hands back
// on callback.
type GoogleProvider struct {
	config      *oauth2.Config
	userinfoURL string
	logger      *logger.Logger
}

// NewGoogleProvider creates a provider from the client registration. Returns
// nil when the registration is incomplete, which disables the flow.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		},
		userinfoURL: googleUserinfoURL,
		logger:      logger.AppLogger(),
	}
}

// NewState returns a fresh nonce for one sign-in attempt.
func (p *GoogleProvider) NewState() string {
	return uuid.New().String()
}

// AuthURL returns the Google consent page URL bound to the given state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Exchange completes the flow: verifies the state echo, swaps the code for
// a token and fetches the user's profile.
func (p *GoogleProvider) Exchange(ctx context.Context, expectedState, gotState, code string) (GoogleIdentity, error) {
	if expectedState == "" || gotState != expectedState {
		return GoogleIdentity{}, ErrStateMismatch
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("failed to exchange authorization code: %w", err)
	}

	return p.fetchIdentity(ctx, token)
}

func (p *GoogleProvider) fetchIdentity(ctx context.Context, token *oauth2.Token) (GoogleIdentity, error) {
	client := p.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userinfoURL, nil)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("failed to fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		p.logger.WithFields(map[string]interface{}{
			"status": resp.StatusCode,
		}).Warn("google userinfo request failed")
		return GoogleIdentity{}, fmt.Errorf("userinfo returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GoogleIdentity{}, fmt.Errorf("failed to decode userinfo: %w", err)
	}
	if payload.Email == "" {
		return GoogleIdentity{}, errors.New("userinfo response missing email")
	}

	identity := GoogleIdentity{Email: payload.Email}
	if payload.Name != "" {
		identity.Name = &payload.Name
	}
	if payload.Picture != "" {
		identity.Picture = &payload.Picture
	}
	return identity, nil
}
