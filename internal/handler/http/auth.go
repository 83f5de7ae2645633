package http

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/logger"
	"github.com/MKhiriev/go-pixel-studio/internal/utils"
	"github.com/MKhiriev/go-pixel-studio/models"
)

const (
	oauthStateCookie = "oauth_state"
	oauthStateTTL    = 10 * time.Minute
	oauthCallback    = "/api/auth/google/callback"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var request models.RegisterRequest
	if err := decodeJSON(r, &request); err != nil {
		writeServiceError(w, r, err)
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, request)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info().Int64("user_id", registeredUser.UserID).Msg("user registered")
	h.startSession(w, r, registeredUser, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var credentials models.Credentials
	if err := decodeJSON(r, &credentials); err != nil {
		writeServiceError(w, r, err)
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, credentials)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Debug().Int64("user_id", foundUser.UserID).Msg("user successfully logged in")
	h.startSession(w, r, foundUser, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	utils.ClearTokenCookie(w, h.cookie)
	_, _ = utils.WriteJSON(w, models.SuccessResponse{Success: true}, http.StatusOK)
}

// googleLogin redirects the browser to the Google consent screen. The state
// value is echoed back by Google and compared with the state cookie.
func (h *Handler) googleLogin(w http.ResponseWriter, r *http.Request) {
	state := h.ids.Generate()

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     oauthCallback,
		MaxAge:   int(oauthStateTTL / time.Second),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.services.AuthService.GoogleAuthURL(state), http.StatusFound)
}

func (h *Handler) googleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	query := r.URL.Query()
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" ||
		subtle.ConstantTimeCompare([]byte(stateCookie.Value), []byte(query.Get("state"))) != 1 {
		writeServiceError(w, r, ErrInvalidOAuthState)
		return
	}

	// the state is single use
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Path:     oauthCallback,
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	if reason := query.Get("error"); reason != "" {
		log.Warn().Str("reason", reason).Msg("google consent was not granted")
		writeServiceError(w, r, fmt.Errorf("%w: %s", ErrInvalidOAuthState, reason))
		return
	}

	user, err := h.services.AuthService.LoginWithGoogle(ctx, query.Get("code"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	token, ok := h.issueToken(w, r, user)
	if !ok {
		return
	}

	log.Info().Int64("user_id", user.UserID).Msg("user logged in with google")

	if h.postLoginURL != "" {
		http.Redirect(w, r, h.postLoginURL, http.StatusFound)
		return
	}
	_, _ = utils.WriteJSON(w, models.AuthResponse{Success: true, Token: token.SignedString, User: user}, http.StatusOK)
}

// startSession issues a token for user, sets the session cookie and answers
// with {success, token, user}.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user models.User, status int) {
	token, ok := h.issueToken(w, r, user)
	if !ok {
		return
	}

	_, _ = utils.WriteJSON(w, models.AuthResponse{Success: true, Token: token.SignedString, User: user}, status)
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, user models.User) (models.Token, bool) {
	token, err := h.services.AuthService.CreateToken(r.Context(), user)
	if err != nil {
		writeServiceError(w, r, err)
		return models.Token{}, false
	}

	utils.WriteTokenCookie(w, h.cookie, token.SignedString)
	return token, true
}

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}
