package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/service"
	"github.com/MKhiriev/go-pixel-studio/internal/store"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
)

// Error codes of the JSON error envelope.
const (
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeForbidden          = "FORBIDDEN"
	CodeInsufficientPoints = "INSUFFICIENT_POINTS"
	CodeValidation         = "VALIDATION_ERROR"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeBadGateway         = "BAD_GATEWAY"
	CodeServerError        = "SERVER_ERROR"
)

const serverErrorMessage = "internal server error"

type apiError struct {
	status int
	code   string
}

// errorTable is checked in order, so the more specific entries come first.
var errorTable = []struct {
	target error
	apiError
}{
	{service.ErrTokenIsExpired, apiError{http.StatusUnauthorized, CodeTokenExpired}},
	{service.ErrUnauthorized, apiError{http.StatusUnauthorized, CodeUnauthorized}},
	{service.ErrWrongCredentials, apiError{http.StatusUnauthorized, CodeUnauthorized}},
	{ErrNoSessionUser, apiError{http.StatusUnauthorized, CodeUnauthorized}},
	{ErrInvalidOAuthState, apiError{http.StatusUnauthorized, CodeUnauthorized}},
	{service.ErrUnverifiedEmail, apiError{http.StatusForbidden, CodeForbidden}},
	{service.ErrForbidden, apiError{http.StatusForbidden, CodeForbidden}},

	{service.ErrInsufficientPoints, apiError{http.StatusPaymentRequired, CodeInsufficientPoints}},
	{store.ErrInsufficientPoints, apiError{http.StatusPaymentRequired, CodeInsufficientPoints}},

	{ErrInvalidJSON, apiError{http.StatusBadRequest, CodeValidation}},
	{ErrInvalidPathParam, apiError{http.StatusBadRequest, CodeValidation}},
	{ErrInvalidQueryParam, apiError{http.StatusBadRequest, CodeValidation}},
	{service.ErrInvalidDataProvided, apiError{http.StatusBadRequest, CodeValidation}},
	{service.ErrInvalidSignature, apiError{http.StatusBadRequest, CodeValidation}},
	{service.ErrInvalidWebhookEvent, apiError{http.StatusBadRequest, CodeValidation}},

	{service.ErrUnknownTool, apiError{http.StatusNotFound, CodeNotFound}},
	{service.ErrUnknownPackage, apiError{http.StatusNotFound, CodeNotFound}},
	{service.ErrUserNotFound, apiError{http.StatusNotFound, CodeNotFound}},
	{store.ErrNoUserWasFound, apiError{http.StatusNotFound, CodeNotFound}},

	{service.ErrEmailTaken, apiError{http.StatusConflict, CodeConflict}},
	{store.ErrEmailAlreadyExists, apiError{http.StatusConflict, CodeConflict}},
	{store.ErrGoogleAccountLinked, apiError{http.StatusConflict, CodeConflict}},

	{service.ErrProviderFailed, apiError{http.StatusBadGateway, CodeBadGateway}},
}

func apiErrorFrom(err error) apiError {
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.apiError
		}
	}
	return apiError{http.StatusInternalServerError, CodeServerError}
}

// writeServiceError maps err to the JSON error envelope. Server errors carry
// a generic message; everything else the message of the matched sentinel.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	writeAPIError(w, r, err, apiErrorFrom(err))
}

func writeAPIError(w http.ResponseWriter, r *http.Request, err error, e apiError) {
	log := logger.FromRequest(r)

	message := publicMessage(err)
	if e.status >= http.StatusInternalServerError {
		log.Err(err).Int("status", e.status).Msg("request failed")
		if e.status == http.StatusInternalServerError {
			message = serverErrorMessage
		}
	} else {
		log.Debug().Err(err).Int("status", e.status).Msg("request rejected")
	}

	utils.WriteError(w, e.status, e.code, message)
}

// publicMessage returns the text of the outermost sentinel the table knows,
// so wrapped causes (SQL, upstream bodies) never reach the client.
func publicMessage(err error) string {
	for _, entry := range errorTable {
		if errors.Is(err, entry.target) {
			return entry.target.Error()
		}
	}
	return serverErrorMessage
}
