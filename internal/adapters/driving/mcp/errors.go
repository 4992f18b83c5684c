// Package mcp provides an MCP (Model Context Protocol) server adapter for starsearch.
// It lets assistants search a signed-in user's starred readmes and follow fetch progress.
package mcp

import "errors"

// ErrMissingStarService is returned when the star service is not provided.
var ErrMissingStarService = errors.New("mcp: star service is required")

// ErrUnknownSession is returned when a tool names a session that is not cached.
var ErrUnknownSession = errors.New("mcp: unknown session")
