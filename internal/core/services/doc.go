// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - StarService: sessions, fetch launch, progress and search for route layers
//   - FetchPipeline: token exchange, profile, starred listing and readme downloads
//   - SearchEngine: case-insensitive scan, highlighting and ranking
//   - Pool: bounded concurrency shared by every pipeline
//
// Services are pure Go and depend only on domain and port packages.
package services
