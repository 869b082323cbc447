package ssh

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/williamokano/backupgen/pkg/storage"
)

type Backend struct {
	name       string
	sshClient  *ssh.Client
	sftpClient *sftp.Client
	remotePath string
}

func init() {
	storage.RegisterBackend("ssh", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		return New(ctx, cfg)
	})
}

// New creates a new SSH/SFTP backend. Warnings go to the logger carried by ctx.
func New(ctx context.Context, cfg storage.Config) (*Backend, error) {
	sshCfg, err := parseConfig(cfg)
	if err != nil {
		return nil, err
	}

	log := zerolog.Ctx(ctx).With().Str("backend", cfg.Name).Logger()
	clientConfig, err := clientConfig(sshCfg, &log)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "init", err)
	}

	addr := net.JoinHostPort(sshCfg.Host, strconv.Itoa(sshCfg.Port))
	sshClient, err := ssh.Dial("tcp", addr, clientConfig)
	if err != nil {
		return nil, storage.WrapError(cfg.Name, "connect", fmt.Errorf("%w: %w", storage.ErrConnFailed, err))
	}

	sftpClient, err := sftp.NewClient(sshClient)
	if err != nil {
		sshClient.Close()
		return nil, storage.WrapError(cfg.Name, "sftp init", err)
	}

	b := NewWithClient(cfg.Name, sftpClient, sshCfg.RemotePath)
	b.sshClient = sshClient

	if err := sftpClient.MkdirAll(sshCfg.RemotePath); err != nil {
		b.Close()
		return nil, storage.WrapError(cfg.Name, "mkdir", err)
	}

	return b, nil
}

// NewWithClient builds a backend on an established SFTP session
func NewWithClient(name string, client *sftp.Client, remotePath string) *Backend {
	return &Backend{
		name:       name,
		sftpClient: client,
		remotePath: remotePath,
	}
}

func clientConfig(c *Config, log *zerolog.Logger) (*ssh.ClientConfig, error) {
	hostKey := ssh.InsecureIgnoreHostKey()
	if c.KnownHosts == "" {
		log.Warn().Str("host", c.Host).Msg("known_hosts not set, host key is not verified")
	} else {
		cb, err := knownhosts.New(c.KnownHosts)
		if err != nil {
			return nil, fmt.Errorf("failed to read known_hosts: %w", err)
		}
		hostKey = cb
	}

	cc := &ssh.ClientConfig{
		User:            c.User,
		HostKeyCallback: hostKey,
		Timeout:         30 * time.Second,
	}

	if c.Password != "" {
		cc.Auth = append(cc.Auth, ssh.Password(c.Password))
	}

	if c.KeyPath != "" {
		key, err := os.ReadFile(c.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read SSH key: %w", err)
		}

		var signer ssh.Signer
		if c.KeyPassphrase != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(c.KeyPassphrase))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse SSH key: %w", err)
		}

		cc.Auth = append(cc.Auth, ssh.PublicKeys(signer))
	}

	return cc, nil
}

func (b *Backend) Name() string { return b.name }
func (b *Backend) Type() string { return "ssh" }

func (b *Backend) remote(p string) string {
	return path.Join(b.remotePath, p)
}

// Write uploads content via SFTP, writing a temporary file first and
// renaming it over destPath
func (b *Backend) Write(ctx context.Context, destPath string, content []byte) error {
	return storage.WithRetry(ctx, storage.DefaultRetryConfig(), func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		remotePath := b.remote(destPath)
		if err := b.sftpClient.MkdirAll(path.Dir(remotePath)); err != nil {
			return storage.WrapError(b.name, "mkdir", classify(err))
		}

		tmpPath := path.Join(path.Dir(remotePath), "."+path.Base(remotePath)+".tmp")
		f, err := b.sftpClient.Create(tmpPath)
		if err != nil {
			return storage.WrapError(b.name, "create", classify(err))
		}
		if _, err := f.Write(content); err != nil {
			f.Close()
			b.sftpClient.Remove(tmpPath)
			return storage.WrapError(b.name, "upload", classify(err))
		}
		if err := f.Close(); err != nil {
			b.sftpClient.Remove(tmpPath)
			return storage.WrapError(b.name, "upload", classify(err))
		}

		if err := b.sftpClient.PosixRename(tmpPath, remotePath); err != nil {
			b.sftpClient.Remove(tmpPath)
			return storage.WrapError(b.name, "rename", classify(err))
		}

		return nil
	})
}

// Delete removes a file via SFTP
func (b *Backend) Delete(ctx context.Context, filePath string) error {
	if err := b.sftpClient.Remove(b.remote(filePath)); err != nil {
		return storage.WrapError(b.name, "delete", classify(err))
	}
	return nil
}

// List returns the files in the pattern's directory whose path matches it
func (b *Backend) List(ctx context.Context, pattern string) ([]storage.FileInfo, error) {
	dir := path.Dir(pattern)

	entries, err := b.sftpClient.ReadDir(b.remote(dir))
	if err != nil {
		if errors.Is(classify(err), storage.ErrNotFound) {
			return nil, nil
		}
		return nil, storage.WrapError(b.name, "list", classify(err))
	}

	var files []storage.FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		rel := path.Join(dir, entry.Name())
		if ok, _ := path.Match(pattern, rel); !ok {
			continue
		}

		files = append(files, storage.FileInfo{
			Path:    rel,
			Size:    entry.Size(),
			ModTime: entry.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// Exists checks if file exists
func (b *Backend) Exists(ctx context.Context, filePath string) (bool, error) {
	_, err := b.sftpClient.Stat(b.remote(filePath))
	if err != nil {
		err = classify(err)
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}
		return false, storage.WrapError(b.name, "exists", err)
	}
	return true, nil
}

// Close releases resources
func (b *Backend) Close() error {
	if b.sftpClient != nil {
		b.sftpClient.Close()
	}
	if b.sshClient != nil {
		b.sshClient.Close()
	}
	return nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("%w: %w", storage.ErrNotFound, err)
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w: %w", storage.ErrPermissionDenied, err)
	case errors.Is(err, sftp.ErrSSHFxConnectionLost), errors.Is(err, sftp.ErrSSHFxNoConnection):
		return fmt.Errorf("%w: %w", storage.ErrConnFailed, err)
	}
	return err
}
