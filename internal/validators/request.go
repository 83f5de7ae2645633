package validators

import (
	"context"
	"net/mail"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/go-pixel-studio/models"
)

// Field name constants used to scope validation to a subset of fields.
const (
	FieldEmail              = "email"
	FieldPassword           = "password"
	FieldPasswordStrength   = "password strength"
	FieldName               = "name"
	FieldPoints             = "points"
	FieldConsumeType        = "type"
	FieldAmount             = "amount"
	FieldReason             = "reason"
	FieldSubscriptionType   = "subscription_type"
	FieldSubscriptionPeriod = "subscription_period"
	FieldInput              = "input"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
	maxNameLength     = 100
	maxEmailLength    = 254
	maxConsumeType    = 64
	maxReasonLength   = 200
)

var allowedSubscriptionTypes = []string{
	models.SubscriptionFree,
	models.SubscriptionBasic,
	models.SubscriptionPro,
	models.SubscriptionPremium,
}

// RequestValidator implements [Validator] for the request bodies of the
// HTTP API. Value and pointer forms of every model are accepted.
type RequestValidator struct{}

func NewRequestValidator() Validator {
	return &RequestValidator{}
}

func (v *RequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.RegisterRequest:
		return v.validateRegister(value, fields...)
	case *models.RegisterRequest:
		return v.validateRegister(*value, fields...)

	case models.Credentials:
		return v.validateCredentials(value, fields...)
	case *models.Credentials:
		return v.validateCredentials(*value, fields...)

	case models.ConsumeRequest:
		return v.validateConsume(value, fields...)
	case *models.ConsumeRequest:
		return v.validateConsume(*value, fields...)

	case models.AdjustPointsRequest:
		return v.validateAdjust(value, fields...)
	case *models.AdjustPointsRequest:
		return v.validateAdjust(*value, fields...)

	case models.Subscription:
		return v.validateSubscription(value, fields...)
	case *models.Subscription:
		return v.validateSubscription(*value, fields...)

	case models.GenerateRequest:
		return v.validateGenerate(value, fields...)
	case *models.GenerateRequest:
		return v.validateGenerate(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RequestValidator) validateRegister(request models.RegisterRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPasswordStrength, FieldName}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !isValidEmail(request.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if request.Password == "" {
				return ErrEmptyPassword
			}
		case FieldPasswordStrength:
			n := utf8.RuneCountInString(request.Password)
			if n < minPasswordLength {
				return ErrPasswordTooShort
			}
			if n > maxPasswordLength {
				return ErrPasswordTooLong
			}
		case FieldName:
			name := strings.TrimSpace(request.Name)
			if name == "" || utf8.RuneCountInString(name) > maxNameLength {
				return ErrInvalidName
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateCredentials(credentials models.Credentials, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEmail, FieldPassword}
	}

	for _, f := range fields {
		switch f {
		case FieldEmail:
			if !isValidEmail(credentials.Email) {
				return ErrInvalidEmail
			}
		case FieldPassword:
			if credentials.Password == "" {
				return ErrEmptyPassword
			}
			if utf8.RuneCountInString(credentials.Password) > maxPasswordLength {
				return ErrPasswordTooLong
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateConsume(request models.ConsumeRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPoints, FieldConsumeType}
	}

	for _, f := range fields {
		switch f {
		case FieldPoints:
			if request.Points <= 0 {
				return ErrInvalidPoints
			}
		case FieldConsumeType:
			if len(request.Type) > maxConsumeType {
				return ErrInvalidConsumeType
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateAdjust(request models.AdjustPointsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAmount, FieldReason}
	}

	for _, f := range fields {
		switch f {
		case FieldAmount:
			if request.Amount == 0 {
				return ErrZeroAmount
			}
		case FieldReason:
			if utf8.RuneCountInString(request.Reason) > maxReasonLength {
				return ErrInvalidReason
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// free plans carry no period, paid ones need an end
func (v *RequestValidator) validateSubscription(subscription models.Subscription, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSubscriptionType, FieldSubscriptionPeriod}
	}

	for _, f := range fields {
		switch f {
		case FieldSubscriptionType:
			if !slices.Contains(allowedSubscriptionTypes, subscription.Type) {
				return ErrInvalidSubscriptionType
			}
		case FieldSubscriptionPeriod:
			if subscription.Type == models.SubscriptionFree {
				continue
			}
			if subscription.End == nil {
				return ErrInvalidSubscriptionEnd
			}
			if subscription.Start != nil && !subscription.End.After(*subscription.Start) {
				return ErrInvalidSubscriptionEnd
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RequestValidator) validateGenerate(request models.GenerateRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldInput}
	}

	for _, f := range fields {
		switch f {
		case FieldInput:
			if len(request.Input) == 0 {
				return ErrEmptyInput
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func isValidEmail(email string) bool {
	if email == "" || len(email) > maxEmailLength {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
