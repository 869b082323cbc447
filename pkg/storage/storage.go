package storage

import (
	"context"
	"time"
)

// Backend is a destination the generated model files and cron entries are
// published to
type Backend interface {
	// Name returns a human-readable name for this backend (e.g., "local_etc", "s3_mirror")
	Name() string

	// Type returns the backend type (local, s3, ssh)
	Type() string

	// Write stores content at destPath, replacing any previous file
	// destPath: relative path in backend (e.g., "models/job1.rb")
	Write(ctx context.Context, destPath string, content []byte) error

	// Delete removes a file from the backend. A missing file yields ErrNotFound.
	Delete(ctx context.Context, path string) error

	// List returns the files matching a path.Match pattern (e.g., "models/*.rb"),
	// sorted by path
	List(ctx context.Context, pattern string) ([]FileInfo, error)

	// Exists checks if a file exists in the backend
	Exists(ctx context.Context, path string) (bool, error)

	// Close releases resources (connections, sessions)
	Close() error
}

// FileInfo represents metadata about a stored file
type FileInfo struct {
	Path    string    // Relative path in backend
	Size    int64     // Size in bytes
	ModTime time.Time // Last modification time
}

// Config represents storage backend configuration
type Config struct {
	Name     string                 `koanf:"name" validate:"required"`
	Type     string                 `koanf:"type" validate:"required,oneof=local s3 ssh"`
	Disabled bool                   `koanf:"disabled"`
	BaseDir  string                 `koanf:"base_dir"` // Base directory/prefix for published files
	Options  map[string]interface{} `koanf:"options"`  // Backend-specific options
}

// Result represents outcome of a storage operation
type Result struct {
	BackendName string
	BackendType string
	Path        string
	Success     bool
	Error       error
	Duration    time.Duration
}
