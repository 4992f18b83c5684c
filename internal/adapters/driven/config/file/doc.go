// Package file loads starsearch settings from a TOML file.
//
// Adapters:
//   - SettingsStore: TOML settings file with STARSEARCH_* environment overrides
//   - Watcher: fsnotify-based reload of the settings file
package file
