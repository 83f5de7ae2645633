package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/MKhiriev/go-pixel-studio/internal/adapter"
	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/metrics"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/validators"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const maxRefLength = 512

// DefaultToolCatalog is the set of metered tools served by the studio.
var DefaultToolCatalog = []models.Tool{
	{Type: "text-to-image", Title: "Text to image", Cost: 2, Model: "black-forest-labs/flux-schnell"},
	{Type: "image-to-image", Title: "Image to image", Cost: 3, Model: "black-forest-labs/flux-dev"},
	{
		Type: "upscale", Title: "Upscale", Cost: 1, Model: "nightmareai/real-esrgan",
		Version: "f121d640bd286e1fdc67f9799164c1d5be36ff74576ee11c803ae5b665dd46aa",
	},
	{
		Type: "remove-background", Title: "Remove background", Cost: 1, Model: "cjwbw/rembg",
		Version: "fb8af171cfa1616ddcf1242c093f9c46bcada5ad4cf6f2fbe8b81b330ec5c003",
	},
	{
		Type: "restore-face", Title: "Restore faces", Cost: 1, Model: "tencentarc/gfpgan",
		Version: "0fbacf7afc6c144e5be9767cff80f25aff23e52b0708f17e20f9879b2f21516c",
	},
}

type toolService struct {
	catalog    []models.Tool
	generator  adapter.ImageGenerator
	points     PointsService
	toolUsages store.ToolUsageRepository
	validator  validators.Validator
	metrics    *metrics.Metrics

	logger *logger.Logger
}

func NewToolService(
	catalog []models.Tool,
	generator adapter.ImageGenerator,
	points PointsService,
	toolUsages store.ToolUsageRepository,
	validator validators.Validator,
	metrics *metrics.Metrics,
	logger *logger.Logger,
) ToolService {
	return &toolService{
		catalog:    catalog,
		generator:  generator,
		points:     points,
		toolUsages: toolUsages,
		validator:  validator,
		metrics:    metrics,
		logger:     logger,
	}
}

func (s *toolService) Tools() []models.Tool {
	return slices.Clone(s.catalog)
}

// Generate runs one metered generation for user.
//
// The balance is pre-checked, the model is called and only a successful
// prediction is paid for through the atomic debit. A provider failure
// debits nothing. If a concurrent request drained the balance meanwhile the
// result is withheld and ErrInsufficientPoints is returned.
func (s *toolService) Generate(ctx context.Context, user models.User, toolType string, input map[string]any) (models.GenerationResult, error) {
	log := logger.FromContext(ctx).With().Int64("user_id", user.UserID).Str("tool_type", toolType).Logger()

	idx := slices.IndexFunc(s.catalog, func(t models.Tool) bool { return t.Type == toolType })
	if idx < 0 {
		return models.GenerationResult{}, fmt.Errorf("%w: %q", ErrUnknownTool, toolType)
	}
	tool := s.catalog[idx]

	if err := s.validator.Validate(ctx, models.GenerateRequest{Input: input}); err != nil {
		return models.GenerationResult{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if err := s.points.RequirePoints(user, tool.Cost); err != nil {
		s.metrics.Generation(tool.Type, metrics.OutcomeInsufficient)
		return models.GenerationResult{}, err
	}

	prediction, err := s.generator.Predict(ctx, tool, input)
	if err != nil {
		s.metrics.Generation(tool.Type, metrics.OutcomeFailed)
		log.Err(err).Msg("prediction failed")
		return models.GenerationResult{}, fmt.Errorf("%w: %w", ErrProviderFailed, err)
	}

	balance, err := s.points.Debit(ctx, models.Debit{
		UserID:    user.UserID,
		Amount:    tool.Cost,
		Reason:    models.ReasonToolUsage,
		Reference: prediction.ID,
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientPoints) {
			s.metrics.Generation(tool.Type, metrics.OutcomeInsufficient)
			log.Warn().Str("prediction_id", prediction.ID).Msg("balance drained during generation, result withheld")
		}
		return models.GenerationResult{}, err
	}
	s.metrics.Generation(tool.Type, metrics.OutcomeApplied)

	// history is best effort, the user has already paid
	_, err = s.toolUsages.SaveToolUsage(ctx, models.ToolUsage{
		UserID:     user.UserID,
		ToolType:   tool.Type,
		InputRef:   inputRef(input),
		OutputRef:  outputRef(prediction.Output),
		PointsCost: tool.Cost,
	})
	if err != nil {
		log.Err(err).Str("prediction_id", prediction.ID).Msg("saving tool usage failed")
	}

	return models.GenerationResult{
		Success:         true,
		PredictionID:    prediction.ID,
		Output:          prediction.Output,
		PointsCost:      tool.Cost,
		RemainingPoints: balance,
	}, nil
}

func inputRef(input map[string]any) string {
	for _, key := range []string{"prompt", "image", "img"} {
		if v, ok := input[key].(string); ok && v != "" {
			return truncate(v)
		}
	}
	return ""
}

// outputRef picks the first URL of a model output, which is either a single
// string or a list of strings.
func outputRef(output json.RawMessage) string {
	var single string
	if err := json.Unmarshal(output, &single); err == nil {
		return truncate(single)
	}
	var list []string
	if err := json.Unmarshal(output, &list); err == nil && len(list) > 0 {
		return truncate(list[0])
	}
	return ""
}

func truncate(s string) string {
	if len(s) > maxRefLength {
		return s[:maxRefLength]
	}
	return s
}
