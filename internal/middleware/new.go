package middleware

import (
	"calendar-assistant/config"
	"calendar-assistant/pkg/log"
)

// Middleware bundles the service middlewares and their dependencies.
type Middleware struct {
	l   log.Logger
	cfg config.WebhookConfig
}

// New creates the middleware bundle.
func New(l log.Logger, cfg config.WebhookConfig) Middleware {
	return Middleware{
		l:   l,
		cfg: cfg,
	}
}
