package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEmail            = errors.New("invalid email")
	ErrPasswordTooShort        = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong         = errors.New("password must be at most 128 characters")
	ErrEmptyPassword           = errors.New("password is required")
	ErrInvalidName             = errors.New("name is required and must be at most 100 characters")
	ErrInvalidPoints           = errors.New("points must be a positive integer")
	ErrInvalidConsumeType      = errors.New("consume type is too long")
	ErrZeroAmount              = errors.New("amount must not be zero")
	ErrInvalidReason           = errors.New("reason is too long")
	ErrInvalidSubscriptionType = errors.New("unknown subscription type")
	ErrInvalidSubscriptionEnd  = errors.New("paid subscription needs an end after its start")
	ErrEmptyInput              = errors.New("input is required")
)
