package models

import "time"

// PointsTransaction is one signed change of a user's balance. Rows are
// written in the same database transaction as the balance update and are
// kept for audit only.
type PointsTransaction struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Delta        int64     `json:"delta"`
	BalanceAfter int64     `json:"balance_after"`
	Reason       string    `json:"reason"`
	Reference    string    `json:"reference,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Reasons recorded on points transactions.
const (
	ReasonConsume    = "consume"
	ReasonToolUsage  = "tool_usage"
	ReasonPurchase   = "purchase"
	ReasonAdjustment = "admin_adjustment"
	ReasonSignup     = "signup_bonus"
)

// Debit describes a conditional balance decrease.
type Debit struct {
	UserID    int64
	Amount    int64
	Reason    string
	Reference string
}

// Credit describes an unconditional balance increase. When Reference is a
// payment-session id the credit is applied at most once per Reference.
type Credit struct {
	UserID    int64
	Amount    int64
	Reason    string
	Reference string
}

// CreditResult reports the outcome of a credit. Applied is false when the
// reference had already been processed and the balance was left untouched.
type CreditResult struct {
	Balance int64 `json:"balance"`
	Applied bool  `json:"applied"`
}

// ConsumeRequest is the body of POST /api/points/consume.
type ConsumeRequest struct {
	Points int64  `json:"points"`
	Type   string `json:"type"`
}

// ConsumeResponse is returned after a successful consume.
type ConsumeResponse struct {
	Success         bool  `json:"success"`
	RemainingPoints int64 `json:"remainingPoints"`
}

// AdjustPointsRequest is the body of POST /api/admin/users/{userID}/points.
// A negative Amount is a debit and cannot drive the balance below zero.
type AdjustPointsRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}
