package llmprovider

import (
	"context"
	"fmt"
	"time"

	"calendar-assistant/pkg/log"
)

// Manager orchestrates provider selection, fallback, and retry logic
type Manager struct {
	providers []Provider
	config    *Config
	logger    log.Logger
}

// Config defines configuration for the Provider Manager
type Config struct {
	FallbackEnabled bool
	RetryAttempts   int
	RetryDelay      time.Duration
	MaxTotalTimeout time.Duration // Global timeout for the entire fallback chain
}

// NewManager creates a new Provider Manager with the given providers, config, and logger
func NewManager(providers []Provider, config *Config, logger log.Logger) *Manager {
	return &Manager{
		providers: providers,
		config:    config,
		logger:    logger,
	}
}

// GenerateContent iterates through providers in priority order with fallback logic
func (m *Manager) GenerateContent(ctx context.Context, req *Request) (*Response, error) {
	if len(m.providers) == 0 {
		return nil, ErrNoProvidersConfigured
	}

	var cancel context.CancelFunc
	if m.config.MaxTotalTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.config.MaxTotalTimeout)
		defer cancel()
	}

	var lastErr error

	for _, provider := range m.providers {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("global timeout exceeded: %w", ctx.Err())
		default:
		}

		resp, err := m.generateWithRetry(ctx, provider, req)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		m.logger.Warnf(ctx, "llmprovider: provider %s failed: %v", provider.Name(), err)

		if !m.config.FallbackEnabled {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrAllProvidersFailed, lastErr)
}

// generateWithRetry calls a single provider with retry and delay between attempts
func (m *Manager) generateWithRetry(ctx context.Context, provider Provider, req *Request) (*Response, error) {
	attempts := m.config.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := provider.GenerateContent(ctx, req)
		if err == nil {
			if resp.Text == "" {
				err = ErrEmptyCompletion
			} else {
				return resp, nil
			}
		}

		lastErr = &ProviderError{Provider: provider.Name(), Err: err}

		if attempt < attempts {
			m.logger.Debugf(ctx, "llmprovider: %s attempt %d/%d failed, retrying: %v",
				provider.Name(), attempt, attempts, err)
			select {
			case <-ctx.Done():
				return nil, lastErr
			case <-time.After(m.config.RetryDelay):
			}
		}
	}

	return nil, lastErr
}
