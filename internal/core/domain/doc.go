// Package domain defines the core entities of starsearch.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Repo: A starred repository with its write-once readme
//   - Session: One logged-in user with per-field synchronisation
//   - SearchResult: The matches of one query in one repo
//   - AppSettings: Every tunable of the service
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
