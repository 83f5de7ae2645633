package http

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/mock"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ─────────────────────────────────────────────
// requireAuth
// ─────────────────────────────────────────────

func TestProfile_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, jsonRequest(http.MethodGet, "/api/user/profile", ""))

	requireErrorCode(t, rec, http.StatusUnauthorized, CodeUnauthorized)
	assert.NotContains(t, rec.Body.String(), `"user"`)
}

func TestProfile_CookieSession(t *testing.T) {
	h, m := newTestHandler(t)
	m.session.EXPECT().Resolve(gomock.Any(), testToken).
		Return(models.User{UserID: 7, Email: "ann@example.com", Points: 12}, nil)

	rec := serve(h, withSession(jsonRequest(http.MethodGet, "/api/user/profile", "")))

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[models.ProfileResponse](t, rec)
	assert.Equal(t, int64(7), got.User.UserID)
	assert.Equal(t, int64(12), got.User.Points)
}

func TestProfile_BearerFallback(t *testing.T) {
	h, m := newTestHandler(t)
	m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(models.User{UserID: 7}, nil)

	req := jsonRequest(http.MethodGet, "/api/user/profile", "")
	req.Header.Set("Authorization", "Bearer "+testToken)
	rec := serve(h, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_MalformedAuthorizationHeader(t *testing.T) {
	h, _ := newTestHandler(t)

	req := jsonRequest(http.MethodGet, "/api/user/profile", "")
	req.Header.Set("Authorization", "Token abc")
	rec := serve(h, req)

	requireErrorCode(t, rec, http.StatusUnauthorized, CodeUnauthorized)
}

func TestRequireAuth_SessionErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "expired", err: service.ErrTokenIsExpired, wantStatus: http.StatusUnauthorized, wantCode: CodeTokenExpired},
		{name: "invalid", err: service.ErrUnauthorized, wantStatus: http.StatusUnauthorized, wantCode: CodeUnauthorized},
		{name: "storage down", err: assert.AnError, wantStatus: http.StatusInternalServerError, wantCode: CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(models.User{}, tt.err)

			rec := serve(h, withSession(jsonRequest(http.MethodGet, "/api/user/profile", "")))

			requireErrorCode(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

// TestRequireAuth_RealSession runs the middleware against the real session
// service so expired and tampered tokens are told apart end to end.
func TestRequireAuth_RealSession(t *testing.T) {
	const (
		secret = "handler-test-secret"
		issuer = "pixel-studio-test"
	)

	sign := func(t *testing.T, expiresIn time.Duration, key string) string {
		t.Helper()
		claims := models.Claims{RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(7, 10),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		}}
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
		require.NoError(t, err)
		return signed
	}

	valid := sign(t, time.Hour, secret)
	parts := strings.Split(valid, ".")
	other := strings.Split(sign(t, 2*time.Hour, secret), ".")
	tampered := parts[0] + "." + other[1] + "." + parts[2]

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantCode   string
	}{
		{name: "valid", token: valid, wantStatus: http.StatusOK},
		{name: "expired", token: sign(t, -time.Minute, secret), wantStatus: http.StatusUnauthorized, wantCode: CodeTokenExpired},
		{name: "tampered payload", token: tampered, wantStatus: http.StatusUnauthorized, wantCode: CodeUnauthorized},
		{name: "foreign key", token: sign(t, time.Hour, "someone-else"), wantStatus: http.StatusUnauthorized, wantCode: CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t)
			users := mock.NewMockUserRepository(gomock.NewController(t))
			users.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(models.User{UserID: 7, Points: 3}, nil).AnyTimes()
			h.services.SessionService = service.NewSessionService(users,
				config.Auth{JWTSecret: secret, TokenIssuer: issuer, TokenDuration: time.Hour}, logger.Nop())

			req := jsonRequest(http.MethodGet, "/api/user/profile", "")
			req.AddCookie(&http.Cookie{Name: testCookieName, Value: tt.token})
			rec := serve(h, req)

			if tt.wantCode == "" {
				require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
				return
			}
			requireErrorCode(t, rec, tt.wantStatus, tt.wantCode)
		})
	}
}

// ─────────────────────────────────────────────
// requireAdmin
// ─────────────────────────────────────────────

func TestAdminRoute_NonAdminIsForbidden(t *testing.T) {
	h, m := newTestHandler(t)
	m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(models.User{UserID: 8}, nil)
	m.admin.EXPECT().IsAdmin(int64(8)).Return(false)

	rec := serve(h, withSession(jsonRequest(http.MethodGet, "/api/admin/users", "")))

	requireErrorCode(t, rec, http.StatusForbidden, CodeForbidden)
}

func TestAdminRoute_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := serve(h, jsonRequest(http.MethodGet, "/api/admin/users", ""))

	requireErrorCode(t, rec, http.StatusUnauthorized, CodeUnauthorized)
}

// ─────────────────────────────────────────────
// requirePoints
// ─────────────────────────────────────────────

var testTools = []models.Tool{
	{Type: "upscale", Title: "Upscale", Cost: 1},
	{Type: "text-to-image", Title: "Text to image", Cost: 2},
}

func TestRequirePoints_ShortBalanceIsPaymentRequired(t *testing.T) {
	h, m := newTestHandler(t)
	user := models.User{UserID: 7, Points: 1}
	m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(user, nil)
	m.tools.EXPECT().Tools().Return(testTools)
	m.points.EXPECT().RequirePoints(user, int64(2)).Return(service.ErrInsufficientPoints)

	rec := serve(h, withSession(jsonRequest(http.MethodPost, "/api/tools/text-to-image", `{"input":{"prompt":"cat"}}`)))

	requireErrorCode(t, rec, http.StatusPaymentRequired, CodeInsufficientPoints)
}

func TestRequirePoints_UnknownToolReachesService(t *testing.T) {
	h, m := newTestHandler(t)
	user := models.User{UserID: 7, Points: 9}
	m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(user, nil)
	m.tools.EXPECT().Tools().Return(testTools)
	m.tools.EXPECT().Generate(gomock.Any(), user, "nope", gomock.Any()).Return(models.GenerationResult{}, service.ErrUnknownTool)

	rec := serve(h, withSession(jsonRequest(http.MethodPost, "/api/tools/nope", `{"input":{}}`)))

	requireErrorCode(t, rec, http.StatusNotFound, CodeNotFound)
}

func TestSessionUser_MissingFromContext(t *testing.T) {
	h, _ := newTestHandler(t)
	req := injectNopLogger(jsonRequest(http.MethodGet, "/", ""))
	rec := httptest.NewRecorder()

	h.profile(rec, req)

	requireErrorCode(t, rec, http.StatusUnauthorized, CodeUnauthorized)
}
