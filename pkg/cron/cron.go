// Package cron builds the scheduled command that triggers a generated model.
package cron

import (
	"fmt"
	"path"
	"strings"

	"github.com/williamokano/backupgen/pkg/job"
)

// DefaultUser runs the entry when none is configured
const DefaultUser = "root"

// Command returns the backup invocation for m
func Command(m *job.Model) string {
	s := m.Schedule
	return fmt.Sprintf("%s perform --trigger %s --config-file '%s' --tmp-path %s",
		path.Join(binPath(s), "backup"), m.Identifier, configFile(s), tmpPath(s))
}

func binPath(s job.Schedule) string {
	if s.BinPath != "" {
		return s.BinPath
	}
	return job.DefaultBinPath
}

func configFile(s job.Schedule) string {
	if s.ConfigFile != "" {
		return s.ConfigFile
	}
	return job.DefaultConfigFile
}

func tmpPath(s job.Schedule) string {
	if s.TmpPath != "" {
		return s.TmpPath
	}
	return job.DefaultTmpPath
}

// Entry is one scheduler entry. Ensure absent means the entry must be removed.
type Entry struct {
	Name     string
	Schedule string
	User     string
	Command  string
	Ensure   job.Ensure
}

// EntryName returns the scheduler entry name for a job identifier
func EntryName(identifier string) string {
	return identifier + "-backup"
}

// NewEntry builds the entry for m, run as user
func NewEntry(m *job.Model, user string) Entry {
	if user == "" {
		user = DefaultUser
	}
	expr := m.Schedule.Expression()
	if strings.TrimSpace(expr) == "" {
		expr = strings.Join([]string{job.DefaultMinute, job.DefaultHour, job.DefaultMonthDay, job.DefaultMonth, job.DefaultWeekday}, " ")
	}
	return Entry{
		Name:     EntryName(m.Identifier),
		Schedule: expr,
		User:     user,
		Command:  Command(m),
		Ensure:   m.Ensure,
	}
}

// Line renders the entry in /etc/cron.d format, preceded by a name comment
func (e Entry) Line() string {
	return fmt.Sprintf("# %s\n%s %s %s\n", e.Name, e.Schedule, e.User, e.Command)
}
