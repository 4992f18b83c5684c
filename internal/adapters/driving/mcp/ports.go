package mcp

import (
	"github.com/custodia-labs/starsearch/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Stars provides search and progress over cached sessions.
	Stars driving.StarService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Stars == nil {
		return ErrMissingStarService
	}
	return nil
}
