package utils

import (
	"errors"
	"net/http"
	"time"

	"github.com/MKhiriev/go-pixel-studio/internal/config"
)

// ErrNoTokenCookie is returned by ReadTokenCookie when the request carries
// no session cookie or an empty one.
var ErrNoTokenCookie = errors.New("session cookie not present")

// CookieSettings holds the attributes of the session cookie. Set and clear
// use the same settings so browsers match and overwrite the cookie.
type CookieSettings struct {
	Name     string
	Domain   string
	Path     string
	MaxAge   time.Duration
	Secure   bool
	SameSite http.SameSite
}

// NewCookieSettings builds the session cookie attributes from configuration.
// The cookie lives exactly as long as the token it carries.
func NewCookieSettings(cfg config.Cookie, tokenDuration time.Duration) CookieSettings {
	sameSite := http.SameSiteLaxMode
	if cfg.SameSite == config.SameSiteStrict {
		sameSite = http.SameSiteStrictMode
	}

	return CookieSettings{
		Name:     cfg.Name,
		Domain:   cfg.Domain,
		Path:     "/",
		MaxAge:   tokenDuration,
		Secure:   cfg.Secure,
		SameSite: sameSite,
	}
}

// WriteTokenCookie sets the session cookie carrying token. The cookie is
// always HttpOnly.
func WriteTokenCookie(w http.ResponseWriter, s CookieSettings, token string) {
	http.SetCookie(w, s.cookie(token, int(s.MaxAge/time.Second)))
}

// ClearTokenCookie expires the session cookie in the browser.
func ClearTokenCookie(w http.ResponseWriter, s CookieSettings) {
	// net/http renders MaxAge < 0 as "Max-Age=0"
	http.SetCookie(w, s.cookie("", -1))
}

// ReadTokenCookie returns the raw token stored in the session cookie.
func ReadTokenCookie(r *http.Request, s CookieSettings) (string, error) {
	c, err := r.Cookie(s.Name)
	if err != nil || c.Value == "" {
		return "", ErrNoTokenCookie
	}
	return c.Value, nil
}

func (s CookieSettings) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     s.Path,
		Domain:   s.Domain,
		MaxAge:   maxAge,
		Secure:   s.Secure,
		HttpOnly: true,
		SameSite: s.SameSite,
	}
}
