// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - RepoCache: process-wide repository cache keyed by repository id
//   - SessionCache: session-identifier to session map with debounced purge
//   - Clock: wall-clock source, injectable for tests
//   - Stripper: markdown to plain display lines
//   - GitHubAuthenticator: OAuth code exchange and authorisation URL
//   - GitHubClientFactory: builds a per-token GitHubClient
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
