// Package fragment turns a validated job model into the named blocks of a
// backup gem model file and assembles them in their fixed order.
package fragment

import (
	"strings"

	"github.com/williamokano/backupgen/pkg/ident"
	"github.com/williamokano/backupgen/pkg/job"
)

// Fragment is one named block of the generated model file
type Fragment struct {
	Name    string
	Section string
	Content string
}

// Generator emits at most one fragment for a model
type Generator func(m *job.Model) (Fragment, bool)

// typeGenerators holds the per-type blocks. Syncer has none here; its block
// is emitted next to the storage.
var typeGenerators = map[job.BackupType]Generator{
	job.TypeArchive:    Archive,
	job.TypeMongoDB:    MongoDB,
	job.TypeMySQL:      MySQL,
	job.TypePostgreSQL: PostgreSQL,
	job.TypeRedis:      Redis,
	job.TypeRiak:       Riak,
}

// trailing generators, in emission order
var trailing = []Generator{
	Compressor,
	Encryptor,
	Splitter,
	Storage,
	Syncer,
	Logging,
	Before,
	After,
	Email,
	HipChat,
	Footer,
}

// Assemble runs every generator against m and returns the emitted fragments
// in file order. It performs no validation.
func Assemble(m *job.Model) []Fragment {
	var out []Fragment
	emit := func(g Generator) {
		if f, ok := g(m); ok {
			out = append(out, f)
		}
	}

	emit(Header)
	emit(Utilities)
	for _, t := range m.Types {
		if g, ok := typeGenerators[t]; ok {
			emit(g)
		}
	}
	for _, g := range trailing {
		emit(g)
	}
	return out
}

// Render concatenates fragments into the model file body
func Render(fragments []Fragment) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Content)
	}
	return b.String()
}

// Names returns the fragment names in order
func Names(fragments []Fragment) []string {
	names := make([]string, 0, len(fragments))
	for _, f := range fragments {
		names = append(names, f.Name)
	}
	return names
}

func newFragment(m *job.Model, section string, w *writer) (Fragment, bool) {
	return Fragment{
		Name:    ident.Section(m.Identifier, section),
		Section: section,
		Content: w.String(),
	}, true
}
