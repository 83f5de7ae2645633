package adapter

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

// Replicate prediction states.
const (
	predictionSucceeded = "succeeded"
	predictionFailed    = "failed"
	predictionCanceled  = "canceled"
)

const defaultPollInterval = time.Second

type replicateAdapter struct {
	client       *utils.HTTPClient
	apiToken     string
	timeout      time.Duration
	pollInterval time.Duration
	logger       *logger.Logger
}

// NewReplicateAdapter constructs an [ImageGenerator] for the Replicate HTTP
// API. Predictions are created with "Prefer: wait" and polled until they
// reach a terminal state or cfg.Timeout elapses.
func NewReplicateAdapter(cfg config.Replicate, log *logger.Logger) ImageGenerator {
	return &replicateAdapter{
		client:       utils.NewHTTPClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout),
		apiToken:     cfg.APIToken,
		timeout:      cfg.Timeout,
		pollInterval: defaultPollInterval,
		logger:       log,
	}
}

type predictionRequest struct {
	Version string         `json:"version,omitempty"`
	Input   map[string]any `json:"input"`
}

// Predict implements [ImageGenerator].
func (r *replicateAdapter) Predict(ctx context.Context, tool models.Tool, input map[string]any) (models.Prediction, error) {
	log := logger.FromContext(ctx)

	if r.apiToken == "" {
		return models.Prediction{}, fmt.Errorf("replicate: %w", ErrNotConfigured)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	// versioned community models go through /v1/predictions, official
	// models through their own endpoint
	path := "/v1/predictions"
	body := predictionRequest{Version: tool.Version, Input: input}
	if tool.Version == "" {
		path = "/v1/models/" + tool.Model + "/predictions"
	}

	var prediction models.Prediction
	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(r.apiToken).
		SetHeader("Content-Type", "application/json").
		SetHeader("Prefer", "wait").
		SetBody(body).
		SetResult(&prediction).
		Post(path)
	if err != nil {
		log.Err(err).Str("func", "*replicateAdapter.Predict").Str("tool_type", tool.Type).Msg("create prediction request failed")
		return models.Prediction{}, fmt.Errorf("create prediction request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*replicateAdapter.Predict").Str("tool_type", tool.Type).Msg("create prediction rejected")
		return models.Prediction{}, err
	}
	if prediction.ID == "" {
		return models.Prediction{}, fmt.Errorf("%w: prediction without id", ErrInvalidResponse)
	}

	return r.await(ctx, prediction)
}

func (r *replicateAdapter) await(ctx context.Context, prediction models.Prediction) (models.Prediction, error) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		switch prediction.Status {
		case predictionSucceeded:
			return prediction, nil
		case predictionFailed, predictionCanceled:
			return prediction, fmt.Errorf("%w: %s %v", ErrPredictionFailed, prediction.Status, prediction.Error)
		}

		select {
		case <-ctx.Done():
			return prediction, fmt.Errorf("waiting for prediction %s: %w", prediction.ID, ctx.Err())
		case <-ticker.C:
		}

		var err error
		prediction, err = r.get(ctx, prediction.ID)
		if err != nil {
			return prediction, err
		}
	}
}

func (r *replicateAdapter) get(ctx context.Context, id string) (models.Prediction, error) {
	var prediction models.Prediction
	resp, err := r.client.R().
		SetContext(ctx).
		SetAuthToken(r.apiToken).
		SetResult(&prediction).
		SetPathParam("id", id).
		Get("/v1/predictions/{id}")
	if err != nil {
		return models.Prediction{}, fmt.Errorf("get prediction request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Prediction{}, err
	}
	if prediction.ID == "" {
		prediction.ID = id
	}
	return prediction, nil
}
