package adapter

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

	googleScopes  = "openid email profile"
	googleTimeout = 10 * time.Second
)

type googleEndpoints struct {
	authURL     string
	tokenURL    string
	userInfoURL string
}

type googleOAuthAdapter struct {
	client       *utils.HTTPClient
	clientID     string
	clientSecret string
	redirectURL  string
	endpoints    googleEndpoints
	logger       *logger.Logger
}

// NewGoogleOAuthAdapter constructs an [OAuthProvider] for Google sign-in.
func NewGoogleOAuthAdapter(cfg config.Google, log *logger.Logger) OAuthProvider {
	return &googleOAuthAdapter{
		client:       utils.NewHTTPClient("", googleTimeout),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		endpoints: googleEndpoints{
			authURL:     googleAuthURL,
			tokenURL:    googleTokenURL,
			userInfoURL: googleUserInfoURL,
		},
		logger: log,
	}
}

type googleTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	IDToken     string `json:"id_token"`
}

// AuthCodeURL implements [OAuthProvider].
func (g *googleOAuthAdapter) AuthCodeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", g.clientID)
	q.Set("redirect_uri", g.redirectURL)
	q.Set("response_type", "code")
	q.Set("scope", googleScopes)
	q.Set("state", state)
	q.Set("prompt", "select_account")

	return g.endpoints.authURL + "?" + q.Encode()
}

// Exchange implements [OAuthProvider].
func (g *googleOAuthAdapter) Exchange(ctx context.Context, code string) (models.GoogleProfile, error) {
	log := logger.FromContext(ctx)

	if g.clientID == "" || g.clientSecret == "" {
		return models.GoogleProfile{}, fmt.Errorf("google: %w", ErrNotConfigured)
	}

	var token googleTokenResponse
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"code":          code,
			"client_id":     g.clientID,
			"client_secret": g.clientSecret,
			"redirect_uri":  g.redirectURL,
			"grant_type":    "authorization_code",
		}).
		SetResult(&token).
		Post(g.endpoints.tokenURL)
	if err != nil {
		log.Err(err).Str("func", "*googleOAuthAdapter.Exchange").Msg("token request failed")
		return models.GoogleProfile{}, fmt.Errorf("google token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*googleOAuthAdapter.Exchange").Msg("code exchange rejected")
		return models.GoogleProfile{}, err
	}
	if token.AccessToken == "" {
		return models.GoogleProfile{}, fmt.Errorf("%w: no access token", ErrInvalidResponse)
	}

	var profile models.GoogleProfile
	resp, err = g.client.R().
		SetContext(ctx).
		SetAuthToken(token.AccessToken).
		SetResult(&profile).
		Get(g.endpoints.userInfoURL)
	if err != nil {
		return models.GoogleProfile{}, fmt.Errorf("google userinfo request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*googleOAuthAdapter.Exchange").Msg("userinfo rejected")
		return models.GoogleProfile{}, err
	}
	if profile.Subject == "" || profile.Email == "" {
		return models.GoogleProfile{}, fmt.Errorf("%w: profile without subject or email", ErrInvalidResponse)
	}

	return profile, nil
}
