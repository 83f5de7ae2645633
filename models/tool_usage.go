package models

import (
	"encoding/json"
	"time"
)

// ToolUsage is appended after a metered generation completes. It feeds the
// history endpoint and analytics; ledger correctness never depends on it.
type ToolUsage struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	ToolType   string    `json:"tool_type"`
	InputRef   string    `json:"input_ref"`
	OutputRef  string    `json:"output_ref"`
	PointsCost int64     `json:"points_cost"`
	CreatedAt  time.Time `json:"created_at"`
}

// HistoryFilter narrows the tool-usage listing of one user.
type HistoryFilter struct {
	UserID   int64
	ToolType string
	Since    *time.Time
	Limit    uint64
	Offset   uint64
}

// Tool is a metered image tool backed by a Replicate model.
type Tool struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Cost    int64  `json:"cost"`
	Model   string `json:"-"`
	Version string `json:"-"`
}

// GenerateRequest is the body of POST /api/tools/{toolType}. Input is passed
// to the model as is.
type GenerateRequest struct {
	Input map[string]any `json:"input"`
}

// Prediction is the subset of a Replicate prediction the service uses.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
}

// GenerationResult is returned by a successful metered generation.
type GenerationResult struct {
	Success         bool            `json:"success"`
	PredictionID    string          `json:"predictionId"`
	Output          json.RawMessage `json:"output"`
	PointsCost      int64           `json:"pointsCost"`
	RemainingPoints int64           `json:"remainingPoints"`
}
