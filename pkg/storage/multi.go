package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MultiUploader publishes the same file to several backends in parallel
type MultiUploader struct {
	logger zerolog.Logger
}

// NewMultiUploader creates a new multi-uploader
func NewMultiUploader(logger zerolog.Logger) *MultiUploader {
	return &MultiUploader{logger: logger}
}

// Upload writes content to destPath on every backend. Results keep the order
// of backends.
func (m *MultiUploader) Upload(ctx context.Context, backends []Backend, destPath string, content []byte) []Result {
	return m.each(backends, destPath, func(b Backend) error {
		m.logger.Debug().
			Str("backend", b.Name()).
			Str("type", b.Type()).
			Str("file", destPath).
			Int("bytes", len(content)).
			Msg("publishing")
		return b.Write(ctx, destPath, content)
	})
}

// Delete removes path from every backend that has it
func (m *MultiUploader) Delete(ctx context.Context, backends []Backend, path string) []Result {
	return m.each(backends, path, func(b Backend) error {
		exists, err := b.Exists(ctx, path)
		if err != nil || !exists {
			return err
		}
		return b.Delete(ctx, path)
	})
}

func (m *MultiUploader) each(backends []Backend, path string, op func(b Backend) error) []Result {
	var wg sync.WaitGroup
	results := make([]Result, len(backends))

	for i, backend := range backends {
		wg.Add(1)

		go func(i int, b Backend) {
			defer wg.Done()

			start := time.Now()
			err := op(b)
			duration := time.Since(start)

			results[i] = Result{
				BackendName: b.Name(),
				BackendType: b.Type(),
				Path:        path,
				Success:     err == nil,
				Error:       err,
				Duration:    duration,
			}

			if err != nil {
				m.logger.Error().
					Err(err).
					Str("backend", b.Name()).
					Str("file", path).
					Dur("duration", duration).
					Msg("storage operation failed")
			}
		}(i, backend)
	}

	wg.Wait()
	return results
}
