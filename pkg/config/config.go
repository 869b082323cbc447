package config

import (
	"os"

	"github.com/williamokano/backupgen/pkg/job"
	"github.com/williamokano/backupgen/pkg/storage"
)

// Config is the tool configuration: the facts about the host the jobs run on
// and where the generated files are published
type Config struct {
	FQDN              string           `koanf:"fqdn" validate:"required,hostname_rfc1123"`
	Domain            string           `koanf:"domain" validate:"omitempty,hostname_rfc1123"`
	BinPath           string           `koanf:"bin_path" validate:"omitempty,startswith=/"`
	ConfigFile        string           `koanf:"config_file"`
	TmpPath           string           `koanf:"tmp_path"`
	CronUser          string           `koanf:"cron_user"`
	MaxConcurrentJobs int              `koanf:"max_concurrent_jobs" validate:"gte=0"` // default: 4
	LogLevel          string           `koanf:"log_level" validate:"omitempty,oneof=debug info warn error"`
	LogFormat         string           `koanf:"log_format" validate:"omitempty,oneof=json console"`
	Outputs           []storage.Config `koanf:"outputs" validate:"required,min=1,unique=Name,dive"`
}

// DefaultConfig publishes to /etc/backup on the local host
func DefaultConfig() Config {
	fqdn, _ := os.Hostname()
	return Config{
		FQDN:              fqdn,
		CronUser:          "root",
		MaxConcurrentJobs: 4,
		LogLevel:          "info",
		LogFormat:         "json",
		Outputs: []storage.Config{
			{Name: "local", Type: "local", BaseDir: "/etc/backup"},
		},
	}
}

// Site returns the host context jobs are validated against
func (c *Config) Site() job.Site {
	return job.Site{
		FQDN:       c.FQDN,
		Domain:     c.Domain,
		BinPath:    c.BinPath,
		ConfigFile: c.ConfigFile,
		TmpPath:    c.TmpPath,
	}
}

// GetMaxConcurrentJobs returns the max jobs rendered at once (defaults to 4)
func (c *Config) GetMaxConcurrentJobs() int {
	if c.MaxConcurrentJobs > 0 {
		return c.MaxConcurrentJobs
	}
	return 4
}

// GetCronUser returns the user scheduled entries run as (defaults to root)
func (c *Config) GetCronUser() string {
	if c.CronUser != "" {
		return c.CronUser
	}
	return "root"
}

// GetLogLevel returns the log level (defaults to info)
func (c *Config) GetLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	return "info"
}

// GetLogFormat returns the log format (defaults to json)
func (c *Config) GetLogFormat() string {
	if c.LogFormat != "" {
		return c.LogFormat
	}
	return "json"
}

// EnabledOutputs returns the outputs that are not disabled
func (c *Config) EnabledOutputs() []storage.Config {
	var out []storage.Config
	for _, o := range c.Outputs {
		if !o.Disabled {
			out = append(out, o)
		}
	}
	return out
}
