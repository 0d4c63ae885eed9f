package wordgen

import (
	"net/http"

	"github.com/HeatedDotCom/heated/pkg/logger"
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithModel selects the completion model.
func WithModel(m string) Option {
	return func(g *Generator) {
		if m != "" {
			g.model = m
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(g *Generator) {
		if h != nil {
			g.http = h
		}
	}
}

// WithLogger sets a custom logger for the generator.
func WithLogger(log logger.Logger) Option {
	return func(g *Generator) {
		if log != nil {
			g.log = log
		}
	}
}
