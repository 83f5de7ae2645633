package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// makeRequest creates a test request whose context logger writes to buf.
func makeRequest(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	l := zerolog.New(buf).With().Timestamp().Logger()
	return req.WithContext(l.WithContext(req.Context()))
}

func TestWithLogging_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		body      string
		wantLevel string
	}{
		{name: "GET 200", method: http.MethodGet, path: "/api/tools", status: http.StatusOK, body: `{"tools":[]}`, wantLevel: "info"},
		{name: "POST 402", method: http.MethodPost, path: "/api/tools/upscale", status: http.StatusPaymentRequired, body: `{}`, wantLevel: "info"},
		{name: "GET 502", method: http.MethodGet, path: "/api/auth/google/callback?code=x", status: http.StatusBadGateway, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := &Handler{logger: logger.Nop()}
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			h.withLogging(next).ServeHTTP(httptest.NewRecorder(), makeRequest(tt.method, tt.path, &buf))

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.path, entry["uri"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.EqualValues(t, len(tt.body), entry["size"])
			assert.Contains(t, entry, "duration")
		})
	}
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	h := &Handler{logger: logger.Nop()}

	h.withLogging(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})).
		ServeHTTP(httptest.NewRecorder(), makeRequest(http.MethodGet, "/healthz", &buf))

	assert.Contains(t, buf.String(), `"status":200`)
}

func TestWithMetrics_UsesRoutePattern(t *testing.T) {
	h, m := newTestHandler(t)
	h.metrics = metrics.New()
	m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(models.User{UserID: 7}, nil).Times(2)
	m.admin.EXPECT().IsAdmin(int64(7)).Return(false).Times(2)

	router := h.Init()
	for _, id := range []string{"1", "2"} {
		req := withSession(jsonRequest(http.MethodPost, "/api/admin/users/"+id+"/points", `{"amount":1}`))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	exposition := rec.Body.String()
	assert.Contains(t, exposition, `route="/api/admin/users/{userID}/points"`)
	assert.NotContains(t, exposition, `route="/api/admin/users/1/points"`)

	assert.Contains(t, exposition,
		`pixel_studio_http_requests_total{method="POST",route="/api/admin/users/{userID}/points",status="403"} 2`)
}
