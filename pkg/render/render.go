// Package render turns job definitions into the files the backup gem and cron
// read, and publishes them to the configured outputs.
package render

import (
	"path"

	"github.com/williamokano/backupgen/pkg/config"
	"github.com/williamokano/backupgen/pkg/cron"
	"github.com/williamokano/backupgen/pkg/fragment"
	"github.com/williamokano/backupgen/pkg/job"
)

const (
	ModelsDir = "models"
	CronDir   = "cron.d"
)

// File is one generated file, relative to an output's base directory
type File struct {
	Path    string
	Content []byte
}

// ModelPath is where the model script for identifier is published
func ModelPath(identifier string) string {
	return path.Join(ModelsDir, identifier+".rb")
}

// CronPath is where the cron entry for identifier is published
func CronPath(identifier string) string {
	return path.Join(CronDir, cron.EntryName(identifier))
}

// Build validates def and renders its model script and cron entry. The files
// are returned in publish order: the script before the entry that runs it.
func Build(def config.JobDefinition, site job.Site, cronUser string) (*job.Model, []File, error) {
	m, err := job.Validate(def.Title, def.Definition, site)
	if err != nil {
		return nil, nil, err
	}

	script := fragment.Render(fragment.Assemble(m))
	entry := cron.NewEntry(m, cronUser)

	return m, []File{
		{Path: ModelPath(m.Identifier), Content: []byte(script)},
		{Path: CronPath(m.Identifier), Content: []byte(entry.Line())},
	}, nil
}
