package adapter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGoogle(t *testing.T, serverURL string) *googleOAuthAdapter {
	t.Helper()
	cfg := config.Google{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/api/auth/google/callback",
	}

	g := NewGoogleOAuthAdapter(cfg, logger.Nop()).(*googleOAuthAdapter)
	g.endpoints = googleEndpoints{
		authURL:     serverURL + "/auth",
		tokenURL:    serverURL + "/token",
		userInfoURL: serverURL + "/userinfo",
	}
	return g
}

func TestAuthCodeURL(t *testing.T) {
	g := NewGoogleOAuthAdapter(config.Google{ClientID: "client-1", RedirectURL: "http://cb"}, logger.Nop())

	raw := g.AuthCodeURL("state-xyz")
	u, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "client-1", q.Get("client_id"))
	assert.Equal(t, "http://cb", q.Get("redirect_uri"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid email profile", q.Get("scope"))
	assert.Equal(t, "state-xyz", q.Get("state"))
}

func TestExchange_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/token":
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "code-1", r.PostForm.Get("code"))
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "secret-1", r.PostForm.Get("client_secret"))
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer"}`))
		case "/userinfo":
			assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"sub":"g-42","email":"alice@example.com","email_verified":true,"name":"Alice"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	profile, err := newTestGoogle(t, srv.URL).Exchange(context.Background(), "code-1")

	require.NoError(t, err)
	assert.Equal(t, "g-42", profile.Subject)
	assert.Equal(t, "alice@example.com", profile.Email)
	assert.True(t, profile.EmailVerified)
	assert.Equal(t, "Alice", profile.Name)
}

func TestExchange_CodeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	_, err := newTestGoogle(t, srv.URL).Exchange(context.Background(), "stale")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestExchange_ProfileWithoutEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/token" {
			_, _ = w.Write([]byte(`{"access_token":"at-1"}`))
			return
		}
		_, _ = w.Write([]byte(`{"sub":"g-42"}`))
	}))
	defer srv.Close()

	_, err := newTestGoogle(t, srv.URL).Exchange(context.Background(), "code-1")

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestExchange_NotConfigured(t *testing.T) {
	g := NewGoogleOAuthAdapter(config.Google{}, logger.Nop())

	_, err := g.Exchange(context.Background(), "code")

	assert.ErrorIs(t, err, ErrNotConfigured)
}
