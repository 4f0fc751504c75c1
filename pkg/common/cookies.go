package common

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	sessionCookie = "sid"
	cartCookie    = "cid"
	cookieMaxAge  = 2592000
)

func setCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		HttpOnly: true,
		MaxAge:   cookieMaxAge,
		Path:     "/",
	})
}

// HandleSessionCookie returns the request's session id, minting one
// from the clock when the cookie is absent or unreadable.
func HandleSessionCookie(w http.ResponseWriter, r *http.Request) int {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := strconv.Atoi(c.Value); err == nil {
			return id
		}
	}
	id := int(time.Now().UnixNano())
	setCookie(w, r, sessionCookie, strconv.Itoa(id))
	return id
}

// HandleCartCookie returns the request's cart id, creating one via
// newId when no cookie exists yet.
func HandleCartCookie(w http.ResponseWriter, r *http.Request, newId func() string) string {
	if c, err := r.Cookie(cartCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := newId()
	setCookie(w, r, cartCookie, id)
	return id
}
