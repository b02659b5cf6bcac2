package session

import (
	"net/http"
	"time"
)

const CookieName = "token"

// CookieTransport writes and clears the session cookie. Clearing mirrors
// every issuance attribute; browsers ignore a clear whose path or flags differ.
type CookieTransport struct {
	ttl    time.Duration
	secure bool
}

func NewCookieTransport(ttl time.Duration, secure bool) *CookieTransport {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CookieTransport{ttl: ttl, secure: secure}
}

// Set issues the session cookie. expiresAt is the token's own expiry, so
// the cookie and the token lapse together; a zero value falls back to the
// configured TTL.
func (c *CookieTransport) Set(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(c.ttl)
	}

	cookie := c.base(r)
	cookie.Value = token
	cookie.Expires = expiresAt.UTC()
	cookie.MaxAge = int(time.Until(expiresAt).Round(time.Second) / time.Second)
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}

func (c *CookieTransport) Clear(w http.ResponseWriter, r *http.Request) {
	cookie := c.base(r)
	cookie.Value = ""
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, cookie)
}

// Token returns the session token carried by the request, or "".
func (c *CookieTransport) Token(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func (c *CookieTransport) base(r *http.Request) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure || isEncrypted(r),
	}
}

func isEncrypted(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return r.Header.Get("X-Forwarded-Proto") == "https"
}
