package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestListTools(t *testing.T) {
	h, m := newTestHandler(t)
	m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(models.User{UserID: 7}, nil)
	m.tools.EXPECT().Tools().Return([]models.Tool{{Type: "upscale", Title: "Upscale", Cost: 1, Model: "secret/model"}})

	rec := serve(h, withSession(jsonRequest(http.MethodGet, "/api/tools", "")))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tools":[{"type":"upscale","title":"Upscale","cost":1}]}`, rec.Body.String())
}

func TestGenerate(t *testing.T) {
	user := models.User{UserID: 7, Points: 5}

	tests := []struct {
		name       string
		result     models.GenerationResult
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			result: models.GenerationResult{
				Success: true, PredictionID: "p-1", Output: json.RawMessage(`["https://cdn.example.com/1.png"]`),
				PointsCost: 2, RemainingPoints: 3,
			},
			wantStatus: http.StatusOK,
		},
		{name: "provider failed", err: service.ErrProviderFailed, wantStatus: http.StatusBadGateway, wantCode: CodeBadGateway},
		{name: "lost the debit race", err: service.ErrInsufficientPoints, wantStatus: http.StatusPaymentRequired, wantCode: CodeInsufficientPoints},
		{name: "bad input", err: service.ErrInvalidDataProvided, wantStatus: http.StatusBadRequest, wantCode: CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler(t)
			m.session.EXPECT().Resolve(gomock.Any(), testToken).Return(user, nil)
			m.tools.EXPECT().Tools().Return(testTools)
			m.points.EXPECT().RequirePoints(user, int64(2)).Return(nil)
			m.tools.EXPECT().Generate(gomock.Any(), user, "text-to-image", map[string]any{"prompt": "a red fox"}).
				Return(tt.result, tt.err)

			rec := serve(h, withSession(jsonRequest(http.MethodPost, "/api/tools/text-to-image", `{"input":{"prompt":"a red fox"}}`)))

			if tt.wantCode != "" {
				requireErrorCode(t, rec, tt.wantStatus, tt.wantCode)
				return
			}
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			got := decodeBody[models.GenerationResult](t, rec)
			assert.Equal(t, "p-1", got.PredictionID)
			assert.Equal(t, int64(3), got.RemainingPoints)
		})
	}
}
