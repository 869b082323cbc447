package job

import "strings"

const (
	DefaultBinPath    = "/usr/local/bin"
	DefaultConfigFile = "/etc/backup/config.rb"
	DefaultTmpPath    = "~/Backup/.tmp"

	DefaultMinute   = "0"
	DefaultHour     = "23"
	DefaultMonthDay = "*"
	DefaultMonth    = "*"
	DefaultWeekday  = "*"
)

// Site carries the host facts and defaults the validator resolves into a Model
type Site struct {
	FQDN       string
	Domain     string
	BinPath    string
	ConfigFile string
	TmpPath    string
}

// GetDomain returns the domain, falling back to the part of the FQDN after the first dot
func (s Site) GetDomain() string {
	if s.Domain != "" {
		return s.Domain
	}
	if i := strings.Index(s.FQDN, "."); i >= 0 {
		return s.FQDN[i+1:]
	}
	return s.FQDN
}

func (s Site) GetBinPath() string {
	if s.BinPath != "" {
		return s.BinPath
	}
	return DefaultBinPath
}

func (s Site) GetConfigFile() string {
	if s.ConfigFile != "" {
		return s.ConfigFile
	}
	return DefaultConfigFile
}

func (s Site) GetTmpPath() string {
	if s.TmpPath != "" {
		return s.TmpPath
	}
	return DefaultTmpPath
}
