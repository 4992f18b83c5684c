// Package github talks to the GitHub OAuth endpoints and REST API on behalf of
// starsearch sessions.
//
// # Components
//
//   - Authenticator: builds the authorisation URL and exchanges OAuth codes
//     for access tokens using golang.org/x/oauth2
//   - Client: a go-github client bound to one access token, exposing the
//     profile, starred listing and readme calls the fetch pipeline needs
//   - ClientFactory: creates a Client per access token
//   - RateLimiter: paces the calls made with one token
//
// # Rate Limiting
//
// Every Client carries its own RateLimiter with a dual strategy:
//
//  1. Proactive throttling: a token bucket limits requests per second.
//
//  2. Reactive handling: X-RateLimit-Remaining and X-RateLimit-Reset headers
//     are tracked. When fewer than QuotaReserve requests remain, calls wait for
//     the reset time.
//
// # Starred Listing
//
// The listing is requested with the star media type so every entry carries
// its starred_at timestamp. Entries missing an id, name, owner, counter or
// timestamp are dropped; StarredPage.Size still counts them so the caller can
// tell a full page from the last one.
//
// # Error Handling
//
// Remote failures are returned as *APIError or *RateLimitError. Both unwrap
// to domain errors (domain.ErrNotFound, domain.ErrAuthInvalid,
// domain.ErrRateLimited) so callers outside this package can use errors.Is.
package github
