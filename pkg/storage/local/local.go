package local

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/williamokano/backupgen/pkg/storage"
)

type Backend struct {
	name     string
	basePath string
	fileMode os.FileMode
}

func init() {
	storage.RegisterBackend("local", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(cfg)
	})
}

// New creates a local filesystem backend rooted at options.path, or base_dir
func New(cfg storage.Config) (*Backend, error) {
	opts := storage.Options(cfg.Options)

	path, err := opts.String("path", false)
	if err != nil {
		return nil, err
	}
	if path == "" {
		path = cfg.BaseDir
	}
	if path == "" {
		return nil, fmt.Errorf("local backend %s needs options.path or base_dir: %w", cfg.Name, storage.ErrInvalidConfig)
	}

	mode, err := opts.Int("file_mode", 0o644)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Backend{
		name:     cfg.Name,
		basePath: path,
		fileMode: os.FileMode(mode),
	}, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "local" }

// Write replaces destPath atomically through a temporary file in the same directory
func (b *Backend) Write(ctx context.Context, destPath string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	destFullPath := filepath.Join(b.basePath, destPath)
	destDir := filepath.Dir(destFullPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return storage.WrapError(b.name, "write", err)
	}

	tmp, err := os.CreateTemp(destDir, "."+filepath.Base(destFullPath)+".*")
	if err != nil {
		return storage.WrapError(b.name, "write", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return storage.WrapError(b.name, "write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return storage.WrapError(b.name, "write", err)
	}
	if err := os.Chmod(tmpName, b.fileMode); err != nil {
		os.Remove(tmpName)
		return storage.WrapError(b.name, "write", err)
	}
	if err := os.Rename(tmpName, destFullPath); err != nil {
		os.Remove(tmpName)
		return storage.WrapError(b.name, "write", err)
	}

	return nil
}

// Delete removes a file from the backend
func (b *Backend) Delete(ctx context.Context, path string) error {
	fullPath := filepath.Join(b.basePath, path)
	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return storage.WrapError(b.name, "delete", storage.ErrNotFound)
		}
		return storage.WrapError(b.name, "delete", err)
	}
	return nil
}

// List returns files matching the pattern
func (b *Backend) List(ctx context.Context, pattern string) ([]storage.FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(b.basePath, pattern))
	if err != nil {
		return nil, storage.WrapError(b.name, "list", err)
	}

	var files []storage.FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}

		relPath, err := filepath.Rel(b.basePath, match)
		if err != nil {
			continue
		}

		files = append(files, storage.FileInfo{
			Path:    filepath.ToSlash(relPath),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Exists checks if a file exists
func (b *Backend) Exists(ctx context.Context, path string) (bool, error) {
	fullPath := filepath.Join(b.basePath, path)
	_, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, storage.WrapError(b.name, "exists", err)
	}
	return true, nil
}

// Close is a no-op for local backend
func (b *Backend) Close() error {
	return nil
}
