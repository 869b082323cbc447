package storage

import (
	"context"
	"fmt"
	"sync"
)

// BackendConstructor is a function that creates a backend instance
type BackendConstructor func(ctx context.Context, cfg Config) (Backend, error)

var (
	registryMu      sync.RWMutex
	backendRegistry = make(map[string]BackendConstructor)
)

// RegisterBackend registers a backend constructor
func RegisterBackend(backendType string, constructor BackendConstructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backendRegistry[backendType] = constructor
}

// Factory creates storage backends from configuration
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create instantiates a backend from config
func (f *Factory) Create(ctx context.Context, cfg Config) (Backend, error) {
	if cfg.Disabled {
		return nil, fmt.Errorf("backend %s is disabled", cfg.Name)
	}

	registryMu.RLock()
	constructor, ok := backendRegistry[cfg.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown backend type %s: %w", cfg.Type, ErrInvalidConfig)
	}

	return constructor(ctx, cfg)
}

// CreateAll creates all enabled backends from slice of configs
func (f *Factory) CreateAll(ctx context.Context, configs []Config) ([]Backend, error) {
	backends := make([]Backend, 0, len(configs))

	for _, cfg := range configs {
		if cfg.Disabled {
			continue
		}

		backend, err := f.Create(ctx, cfg)
		if err != nil {
			// Close already created backends
			CloseAll(backends)
			return nil, fmt.Errorf("failed to create backend %s: %w", cfg.Name, err)
		}

		backends = append(backends, backend)
	}

	return backends, nil
}

// CloseAll closes every backend, ignoring errors
func CloseAll(backends []Backend) {
	for _, b := range backends {
		_ = b.Close()
	}
}
