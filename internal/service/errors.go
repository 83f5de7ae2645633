package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongCredentials    = errors.New("wrong email or password")
	ErrEmailTaken          = errors.New("email is already registered")
	ErrUnverifiedEmail     = errors.New("google account email is not verified")

	ErrUnauthorized        = errors.New("unauthorized")
	ErrTokenIsExpired      = errors.New("token is expired")
	ErrTokenCreationFailed = errors.New("token creation failed")
	ErrForbidden           = errors.New("forbidden")
	ErrUserNotFound        = errors.New("user not found")

	ErrInsufficientPoints = errors.New("insufficient points")

	ErrUnknownTool    = errors.New("unknown tool")
	ErrUnknownPackage = errors.New("unknown points package")
	ErrProviderFailed = errors.New("upstream provider failed")

	ErrInvalidSignature    = errors.New("invalid webhook signature")
	ErrInvalidWebhookEvent = errors.New("invalid webhook event")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
