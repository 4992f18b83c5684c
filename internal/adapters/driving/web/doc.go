// Package web serves the starsearch HTTP routes.
//
// Routes:
//   - GET /               authorisation link, or redirect to /load or /search
//   - GET /oauth/github   OAuth callback; starts the fetch
//   - GET /load           loading page polling /load/status
//   - GET /load/status    fetch progress as JSON
//   - GET /search         search results as JSON
//   - GET /admin          cached users as JSON, behind basic auth
//
// Browsers are tied to sessions with a random cookie.
package web
