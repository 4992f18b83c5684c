package web

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/starsearch/internal/core/domain"
	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
	"github.com/custodia-labs/starsearch/internal/logger"
)

// Route paths.
const (
	indexPath    = "/"
	callbackPath = "/oauth/github"
	loadPath     = "/load"
	statusPath   = "/load/status"
	searchPath   = "/search"
	adminPath    = "/admin"
)

// CallbackPath is the OAuth redirect path to register with GitHub.
const CallbackPath = callbackPath

// handlers holds the route handlers.
type handlers struct {
	stars         driving.StarService
	adminPassword string
}

type indexResponse struct {
	AuthorizeURL string `json:"authorizeUrl"`
}

type statusResponse struct {
	FetchedCount int    `json:"fetchedCount"`
	TotalCount   int    `json:"totalCount"`
	Status       string `json:"status"`
	NextURL      string `json:"nextUrl,omitempty"`
}

type searchResponse struct {
	TotalCount int                `json:"totalCount"`
	Query      string             `json:"query"`
	Order      string             `json:"order"`
	Repos      []domain.SearchHit `json:"repos"`
	Status     string             `json:"status"`
	State      string             `json:"state"`
}

type adminUser struct {
	Username  string      `json:"username"`
	TimeStamp time.Time   `json:"timeStamp"`
	Repos     []adminRepo `json:"repos"`
}

type adminRepo struct {
	Name string `json:"name"`
}

type adminResponse struct {
	Users []adminUser `json:"users"`
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	if session, ok := h.stars.Session(id); ok {
		switch session.FetchState() {
		case domain.FetchStateFetching:
			http.Redirect(w, r, loadPath, http.StatusFound)
			return
		case domain.FetchStateFetched:
			http.Redirect(w, r, searchPath, http.StatusFound)
			return
		}
	}

	state := uuid.NewString()
	setCookie(w, stateCookie, state)
	writeJSON(w, http.StatusOK, indexResponse{AuthorizeURL: h.stars.AuthURL(state)})
}

func (h *handlers) callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		logger.Warn("OAuth callback error: %s - %s", errParam, query.Get("error_description"))
		http.Redirect(w, r, indexPath, http.StatusFound)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Redirect(w, r, indexPath, http.StatusFound)
		return
	}

	// A state is only checked when one was issued to this browser
	if c, err := r.Cookie(stateCookie); err == nil && c.Value != "" {
		if subtle.ConstantTimeCompare([]byte(c.Value), []byte(query.Get("state"))) != 1 {
			logger.Warn("OAuth callback state mismatch")
			http.Redirect(w, r, indexPath, http.StatusFound)
			return
		}
		clearCookie(w, stateCookie)
	}

	id := sessionID(w, r)
	h.stars.LaunchFetch(id, code)
	http.Redirect(w, r, loadPath, http.StatusFound)
}

func (h *handlers) load(w http.ResponseWriter, r *http.Request) {
	id, ok := existingSessionID(r)
	if !ok {
		http.Redirect(w, r, indexPath, http.StatusFound)
		return
	}
	if _, ok := h.stars.Session(id); !ok {
		http.Redirect(w, r, indexPath, http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(loadPage))
}

func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	id, ok := existingSessionID(r)
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	st, err := h.stars.PollProgress(id)
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := statusResponse{
		FetchedCount: st.Progress.FetchedCount,
		TotalCount:   st.Progress.TotalCount,
		Status:       st.Message(),
	}
	if st.State == domain.FetchStateFetched {
		resp.NextURL = nextURL(r)
		clearCookie(w, nextCookie)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	id, ok := existingSessionID(r)
	if !ok {
		rememberNextURL(w, r)
		http.Redirect(w, r, indexPath, http.StatusFound)
		return
	}

	query := r.URL.Query()
	resp, err := h.stars.Search(id, query.Get("query"), domain.ParseSortOrder(query.Get("order")))
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			rememberNextURL(w, r)
			http.Redirect(w, r, indexPath, http.StatusFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		TotalCount: resp.TotalRepos,
		Query:      resp.Query,
		Order:      resp.Order.String(),
		Repos:      resp.Hits,
		Status:     resp.Message,
		State:      string(resp.Status),
	})
}

func (h *handlers) admin(w http.ResponseWriter, r *http.Request) {
	if err := h.authorise(r); err != nil {
		logger.Debug("Admin listing refused: %v", err)
		w.Header().Set("WWW-Authenticate", `Basic realm="starsearch"`)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	summaries := h.stars.ListUsers()
	users := make([]adminUser, len(summaries))
	for i, s := range summaries {
		repos := make([]adminRepo, len(s.RepoNames))
		for j, name := range s.RepoNames {
			repos[j] = adminRepo{Name: name}
		}
		users[i] = adminUser{Username: s.Username, TimeStamp: s.LastActivity, Repos: repos}
	}
	writeJSON(w, http.StatusOK, adminResponse{Users: users})
}

// authorise checks basic auth with an empty user name. An empty configured
// password disables the admin listing entirely.
func (h *handlers) authorise(r *http.Request) error {
	if h.adminPassword == "" {
		return fmt.Errorf("%w: admin listing disabled", domain.ErrUnauthorized)
	}
	user, password, ok := r.BasicAuth()
	if !ok {
		return fmt.Errorf("%w: no credentials", domain.ErrUnauthorized)
	}
	if user != "" || subtle.ConstantTimeCompare([]byte(password), []byte(h.adminPassword)) != 1 {
		return fmt.Errorf("%w: bad credentials", domain.ErrUnauthorized)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to write response: %v", err)
	}
}
