package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/mock"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// signedToken builds the token by hand so that already expired ones can be
// produced too.
func signedToken(t *testing.T, userID int64, expiresIn time.Duration, secret string) string {
	t.Helper()
	now := time.Now()
	claims := models.Claims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestSessionService_Resolve_LoadsFreshBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	users := mock.NewMockUserRepository(ctrl)
	svc := NewSessionService(users, testConfig().Auth, logger.Nop())

	users.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(models.User{UserID: 7, Points: 42}, nil)

	got, err := svc.Resolve(context.Background(), signedToken(t, 7, time.Hour, testSecret))

	require.NoError(t, err)
	assert.Equal(t, int64(42), got.Points)
}

func TestSessionService_Resolve_Failures(t *testing.T) {
	tests := []struct {
		name    string
		token   func(t *testing.T) string
		setup   func(users *mock.MockUserRepository)
		wantErr []error
	}{
		{
			name:    "missing token",
			token:   func(t *testing.T) string { return "" },
			wantErr: []error{ErrUnauthorized},
		},
		{
			name:    "expired",
			token:   func(t *testing.T) string { return signedToken(t, 7, -time.Minute, testSecret) },
			wantErr: []error{ErrTokenIsExpired, utils.ErrTokenExpired},
		},
		{
			name:    "foreign signature",
			token:   func(t *testing.T) string { return signedToken(t, 7, time.Hour, "other-secret") },
			wantErr: []error{ErrUnauthorized, utils.ErrTokenBadSignature},
		},
		{
			name:    "garbage",
			token:   func(t *testing.T) string { return "not.a.jwt" },
			wantErr: []error{ErrUnauthorized, utils.ErrTokenMalformed},
		},
		{
			name:  "deleted user",
			token: func(t *testing.T) string { return signedToken(t, 7, time.Hour, testSecret) },
			setup: func(users *mock.MockUserRepository) {
				users.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(models.User{}, store.ErrNoUserWasFound)
			},
			wantErr: []error{ErrUnauthorized},
		},
		{
			name:  "storage failure is not unauthorized",
			token: func(t *testing.T) string { return signedToken(t, 7, time.Hour, testSecret) },
			setup: func(users *mock.MockUserRepository) {
				users.EXPECT().FindUserByID(gomock.Any(), int64(7)).Return(models.User{}, store.ErrExecutingQuery)
			},
			wantErr: []error{store.ErrExecutingQuery},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			users := mock.NewMockUserRepository(ctrl)
			if tt.setup != nil {
				tt.setup(users)
			}
			svc := NewSessionService(users, testConfig().Auth, logger.Nop())

			_, err := svc.Resolve(context.Background(), tt.token(t))

			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.ErrorIs(t, err, want)
			}
			if tt.name == "storage failure is not unauthorized" {
				assert.NotErrorIs(t, err, ErrUnauthorized)
			}
		})
	}
}
