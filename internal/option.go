package internal

import "github.com/abhijeet/cadence/internal/store"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	store   store.Store
	mcpMode bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStore injects a pre-built record store, bypassing the configured
// driver. Used by tests.
func WithStore(s store.Store) Option {
	return func(a *application) {
		a.store = s
	}
}

// WithMCPMode runs the MCP stdio server instead of the HTTP surface.
func WithMCPMode(enabled bool) Option {
	return func(a *application) {
		a.mcpMode = enabled
	}
}
