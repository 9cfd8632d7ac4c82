package auth

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// SetSessionCookie writes the session cookie. The cookie is http-only and
// SameSite=Lax so page script can never read it; Secure is set outside
// development. Max-age matches the token expiry exactly.
func SetSessionCookie(w http.ResponseWriter, token string, isProduction bool, duration time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(duration.Seconds()),
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie expires the session cookie. Logout is purely
// client-side: the token itself stays valid until its expiry.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// GetSessionTokenFromCookie extracts the session token from the request cookie
func GetSessionTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", err
	}
	return cookie.Value, nil
}
