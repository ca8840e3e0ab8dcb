package session

import (
	"net/http"

	"github.com/abelyaev/accountd/internal/config"
	"github.com/abelyaev/accountd/models"
)

// WriteCookie hands the session id to the browser. The cookie carries no
// other state and is HttpOnly, so scripts cannot read it.
func WriteCookie(w http.ResponseWriter, cfg config.Session, session models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie tells the browser to drop the session cookie.
func ClearCookie(w http.ResponseWriter, cfg config.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadCookie extracts the session id from the request, reporting whether a
// non-empty cookie was present.
func ReadCookie(r *http.Request, cfg config.Session) (string, bool) {
	cookie, err := r.Cookie(cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
