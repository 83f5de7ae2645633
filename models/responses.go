package models

// AuthResponse is returned by login, register and the OAuth callback.
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// ProfileResponse is returned by GET /api/user/profile.
type ProfileResponse struct {
	User User `json:"user"`
}

// SuccessResponse is a bare acknowledgement.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ErrorResponse is the JSON error envelope of every failed request.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UserListResponse is returned by GET /api/admin/users.
type UserListResponse struct {
	Users  []User `json:"users"`
	Length int    `json:"length"`
}

// HistoryResponse is returned by GET /api/points/history.
type HistoryResponse struct {
	Usages []ToolUsage `json:"usages"`
	Length int         `json:"length"`
}

// TransactionsResponse is returned by GET /api/points/transactions.
type TransactionsResponse struct {
	Transactions []PointsTransaction `json:"transactions"`
	Length       int                 `json:"length"`
}
