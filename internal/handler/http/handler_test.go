package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/mock"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	testCookieName = "pixel_session"
	testToken      = "header.payload.signature"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type serviceMocks struct {
	auth     *mock.MockAuthService
	session  *mock.MockSessionService
	points   *mock.MockPointsService
	tools    *mock.MockToolService
	payments *mock.MockPaymentService
	admin    *mock.MockAdminService
	appInfo  *mock.MockAppInfoService
}

func testHandlerConfig() config.StructuredConfig {
	return config.StructuredConfig{
		Auth:   config.Auth{TokenDuration: time.Hour},
		Cookie: config.Cookie{Name: testCookieName, SameSite: config.SameSiteLax},
	}
}

// newTestHandler builds a Handler whose services are all gomock mocks.
func newTestHandler(t *testing.T) (*Handler, *serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		auth:     mock.NewMockAuthService(ctrl),
		session:  mock.NewMockSessionService(ctrl),
		points:   mock.NewMockPointsService(ctrl),
		tools:    mock.NewMockToolService(ctrl),
		payments: mock.NewMockPaymentService(ctrl),
		admin:    mock.NewMockAdminService(ctrl),
		appInfo:  mock.NewMockAppInfoService(ctrl),
	}
	services := &service.Services{
		AuthService:    m.auth,
		SessionService: m.session,
		PointsService:  m.points,
		ToolService:    m.tools,
		PaymentService: m.payments,
		AdminService:   m.admin,
		AppInfoService: m.appInfo,
	}
	return NewHandler(services, testHandlerConfig(), nil, logger.Nop()), m
}

// serve sends the request through the full router.
func serve(h *Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withSession attaches the session cookie to req.
func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: testToken})
	return req
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decodeBody[models.ErrorResponse](t, rec)
	require.False(t, body.Success)
	require.Equal(t, code, body.Error.Code)
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

// injectNopLogger puts a nop logger into the request context the same way
// withTraceID does.
func injectNopLogger(r *http.Request) *http.Request {
	return r.WithContext(logger.Nop().WithContext(r.Context()))
}
