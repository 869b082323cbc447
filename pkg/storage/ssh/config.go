package ssh

import (
	"fmt"

	"github.com/williamokano/backupgen/pkg/storage"
)

type Config struct {
	Host          string
	Port          int // Default: 22
	User          string
	Password      string // Optional
	KeyPath       string // Optional: path to private key
	KeyPassphrase string // Optional
	KnownHosts    string // Optional: known_hosts file; host keys are not checked without it
	RemotePath    string // Base directory on remote server, defaults to base_dir
}

func parseConfig(cfg storage.Config) (*Config, error) {
	opts := storage.Options(cfg.Options)
	c := &Config{}
	var err error

	if c.Host, err = opts.String("host", true); err != nil {
		return nil, err
	}
	if c.User, err = opts.String("user", true); err != nil {
		return nil, err
	}
	if c.RemotePath, err = opts.String("remote_path", false); err != nil {
		return nil, err
	}
	if c.RemotePath == "" {
		c.RemotePath = cfg.BaseDir
	}
	if c.RemotePath == "" {
		return nil, fmt.Errorf("ssh backend %s needs options.remote_path or base_dir: %w", cfg.Name, storage.ErrInvalidConfig)
	}
	if c.Password, err = opts.String("password", false); err != nil {
		return nil, err
	}
	if c.KeyPath, err = opts.String("key_path", false); err != nil {
		return nil, err
	}
	if c.KeyPassphrase, err = opts.String("key_passphrase", false); err != nil {
		return nil, err
	}
	if c.KnownHosts, err = opts.String("known_hosts", false); err != nil {
		return nil, err
	}
	if c.Port, err = opts.Int("port", 22); err != nil {
		return nil, err
	}
	if c.Port < 1 || c.Port > 65535 {
		return nil, fmt.Errorf("ssh backend %s: port %d out of range: %w", cfg.Name, c.Port, storage.ErrInvalidConfig)
	}
	if c.Password == "" && c.KeyPath == "" {
		return nil, fmt.Errorf("ssh backend %s needs a password or key_path: %w", cfg.Name, storage.ErrInvalidConfig)
	}

	return c, nil
}
