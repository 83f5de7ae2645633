// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var ann = models.User{UserID: 7, Email: "ann@example.com", Name: "Ann", Points: 10}

// ─────────────────────────────────────────────
// login
// ─────────────────────────────────────────────

func TestLogin_SetsCookieAndReturnsUser(t *testing.T) {
	h, m := newTestHandler(t)
	creds := models.Credentials{Email: "ann@example.com", Password: "correct horse"}
	m.auth.EXPECT().Login(gomock.Any(), creds).Return(ann, nil)
	m.auth.EXPECT().CreateToken(gomock.Any(), ann).Return(models.Token{SignedString: testToken}, nil)

	rec := serve(h, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"correct horse"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decodeBody[models.AuthResponse](t, rec)
	assert.True(t, got.Success)
	assert.Equal(t, testToken, got.Token)
	assert.Equal(t, ann.UserID, got.User.UserID)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Equal(t, testToken, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, 3600, cookie.MaxAge)
}

func TestLogin_CookieRoundTrip(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(ann, nil)
	m.auth.EXPECT().CreateToken(gomock.Any(), ann).Return(models.Token{SignedString: "issued.jwt.value"}, nil)
	m.session.EXPECT().Resolve(gomock.Any(), "issued.jwt.value").Return(ann, nil)

	rec := serve(h, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"correct horse"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)

	req := jsonRequest(http.MethodGet, "/api/user/profile", "")
	req.AddCookie(cookie)
	rec = serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ann.Email, decodeBody[models.ProfileResponse](t, rec).User.Email)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "malformed json", body: `{"email":`, wantStatus: http.StatusBadRequest, wantCode: CodeValidation},
		{name: "wrong credentials", body: `{"email":"a@b.c","password":"x"}`, err: service.ErrWrongCredentials, wantStatus: http.StatusUnauthorized, wantCode: CodeUnauthorized},
		{name: "invalid data", body: `{"email":"nope","password":""}`, err: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest, wantCode: CodeValidation},
		{name: "unexpected", body: `{"email":"a@b.c","password":"x"}`, err: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			if tt.err != nil {
				m.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(models.User{}, tt.err)
			}

			rec := serve(h, jsonRequest(http.MethodPost, "/api/auth/login", tt.body))

			requireErrorCode(t, rec, tt.wantStatus, tt.wantCode)
			assert.Nil(t, sessionCookie(rec))
		})
	}
}

func TestLogin_TokenCreationFails(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(ann, nil)
	m.auth.EXPECT().CreateToken(gomock.Any(), ann).Return(models.Token{}, service.ErrTokenCreationFailed)

	rec := serve(h, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ann@example.com","password":"x"}`))

	requireErrorCode(t, rec, http.StatusInternalServerError, CodeServerError)
	assert.Nil(t, sessionCookie(rec))
}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "created", wantStatus: http.StatusCreated},
		{name: "email taken", err: service.ErrEmailTaken, wantStatus: http.StatusConflict, wantCode: CodeConflict},
		{name: "weak password", err: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest, wantCode: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			request := models.RegisterRequest{Email: "ann@example.com", Password: "long enough pass", Name: "Ann"}
			if tt.err != nil {
				m.auth.EXPECT().RegisterUser(gomock.Any(), request).Return(models.User{}, tt.err)
			} else {
				m.auth.EXPECT().RegisterUser(gomock.Any(), request).Return(ann, nil)
				m.auth.EXPECT().CreateToken(gomock.Any(), ann).Return(models.Token{SignedString: testToken}, nil)
			}

			rec := serve(h, jsonRequest(http.MethodPost, "/api/auth/register",
				`{"email":"ann@example.com","password":"long enough pass","name":"Ann"}`))

			if tt.wantCode != "" {
				requireErrorCode(t, rec, tt.wantStatus, tt.wantCode)
				return
			}
			require.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, int64(10), decodeBody[models.AuthResponse](t, rec).User.Points)
			require.NotNil(t, sessionCookie(rec))
		})
	}
}

// ─────────────────────────────────────────────
// logout
// ─────────────────────────────────────────────

func TestLogout_ClearsCookieWithSameAttributes(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, jsonRequest(http.MethodPost, "/api/auth/logout", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[models.SuccessResponse](t, rec).Success)

	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

// ─────────────────────────────────────────────
// google oauth
// ─────────────────────────────────────────────

func TestGoogleLogin_RedirectsWithState(t *testing.T) {
	h, m := newTestHandler(t)
	var state string
	m.auth.EXPECT().GoogleAuthURL(gomock.Any()).DoAndReturn(func(s string) string {
		state = s
		return "https://accounts.example.com/auth?state=" + url.QueryEscape(s)
	})

	rec := serve(h, jsonRequest(http.MethodGet, "/api/auth/google", ""))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "https://accounts.example.com/auth")

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookie {
			stateCookie = c
		}
	}
	require.NotNil(t, stateCookie)
	assert.NotEmpty(t, state)
	assert.Equal(t, state, stateCookie.Value)
	assert.True(t, stateCookie.HttpOnly)
}

func googleCallbackRequest(state, cookieState string) *http.Request {
	req := jsonRequest(http.MethodGet, "/api/auth/google/callback?code=auth-code&state="+url.QueryEscape(state), "")
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: cookieState})
	}
	return req
}

func TestGoogleCallback_StateMismatch(t *testing.T) {
	tests := []struct {
		name        string
		state       string
		cookieState string
	}{
		{name: "no cookie", state: "abc"},
		{name: "different state", state: "abc", cookieState: "xyz"},
		{name: "empty query state", state: "", cookieState: "xyz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)

			rec := serve(h, googleCallbackRequest(tt.state, tt.cookieState))

			requireErrorCode(t, rec, http.StatusUnauthorized, CodeUnauthorized)
		})
	}
}

func TestGoogleCallback_IssuesSession(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().LoginWithGoogle(gomock.Any(), "auth-code").Return(ann, nil)
	m.auth.EXPECT().CreateToken(gomock.Any(), ann).Return(models.Token{SignedString: testToken}, nil)

	rec := serve(h, googleCallbackRequest("state-1", "state-1"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, testToken, decodeBody[models.AuthResponse](t, rec).Token)
	require.NotNil(t, sessionCookie(rec))
}

func TestGoogleCallback_RedirectsAfterLogin(t *testing.T) {
	h, m := newTestHandler(t)
	h.postLoginURL = "https://studio.example.com/app"
	m.auth.EXPECT().LoginWithGoogle(gomock.Any(), "auth-code").Return(ann, nil)
	m.auth.EXPECT().CreateToken(gomock.Any(), ann).Return(models.Token{SignedString: testToken}, nil)

	rec := serve(h, googleCallbackRequest("state-1", "state-1"))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://studio.example.com/app", rec.Header().Get("Location"))
	require.NotNil(t, sessionCookie(rec))
}

func TestGoogleCallback_ProviderFailure(t *testing.T) {
	h, m := newTestHandler(t)
	m.auth.EXPECT().LoginWithGoogle(gomock.Any(), "auth-code").Return(models.User{}, service.ErrProviderFailed)

	rec := serve(h, googleCallbackRequest("state-1", "state-1"))

	requireErrorCode(t, rec, http.StatusBadGateway, CodeBadGateway)
}
