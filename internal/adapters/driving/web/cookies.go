package web

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// Cookie names.
const (
	sessionCookie = "starsearch_session"
	stateCookie   = "starsearch_oauth_state"
	nextCookie    = "starsearch_next"
)

// sessionID returns the browser's session identifier, issuing a new one when
// the request carries none or an unparseable one.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}
	id := uuid.NewString()
	setCookie(w, sessionCookie, id)
	return id
}

// existingSessionID returns the session identifier only if the request has one.
func existingSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func setCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// nextURL returns the remembered post-load destination, defaulting to /search.
// Only same-site paths are accepted.
func nextURL(r *http.Request) string {
	c, err := r.Cookie(nextCookie)
	if err != nil || c.Value == "" {
		return searchPath
	}
	next, err := url.QueryUnescape(c.Value)
	if err != nil {
		return searchPath
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" || u.Path != searchPath {
		return searchPath
	}
	return next
}

func rememberNextURL(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Path
	if r.URL.RawQuery != "" {
		next += "?" + r.URL.RawQuery
	}
	setCookie(w, nextCookie, url.QueryEscape(next))
}
