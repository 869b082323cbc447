package fragment

import (
	"strconv"

	"github.com/williamokano/backupgen/pkg/job"
)

const managedNotice = "# Generated by backupgen. Local changes will be overwritten."

// Header opens the model block
func Header(m *job.Model) (Fragment, bool) {
	w := &writer{}
	w.line(0, "%s", managedNotice)
	w.line(0, "Backup::Model.new(%s, %s) do", symbol(m.Identifier), quote(m.Label))
	return newFragment(m, "header", w)
}

// Footer closes the model block
func Footer(m *job.Model) (Fragment, bool) {
	w := &writer{}
	w.line(0, "end")
	return newFragment(m, "footer", w)
}

// Utilities overrides the paths of the external tools the gem calls
func Utilities(m *job.Model) (Fragment, bool) {
	if len(m.Utilities.Names) == 0 {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "Utilities.configure do")
	for _, name := range m.Utilities.Names {
		w.line(2, "%s %s", name, single(m.Utilities.Paths[name]))
	}
	w.line(1, "end")
	return newFragment(m, "utilities", w)
}

func Archive(m *job.Model) (Fragment, bool) {
	if m.Archive == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "archive :archive do |archive|")
	for _, p := range m.Archive.Add {
		w.line(2, "archive.add %s", single(p))
	}
	for _, p := range m.Archive.Exclude {
		w.line(2, "archive.exclude %s", single(p))
	}
	w.line(1, "end")
	return newFragment(m, string(job.TypeArchive), w)
}

// connection writes the db.* fields shared by the SQL and document stores
func connection(w *writer, c job.Connection) {
	if c.Name != "" {
		w.assign(2, "db", "name", quote(c.Name))
	}
	if c.Username != "" {
		w.assign(2, "db", "username", quote(c.Username))
	}
	if c.Password != "" {
		w.assign(2, "db", "password", quote(c.Password))
	}
	if c.Host != "" {
		w.assign(2, "db", "host", quote(c.Host))
	}
	if c.Port != nil {
		w.assign(2, "db", "port", quote(strconv.Itoa(*c.Port)))
	}
}

func MongoDB(m *job.Model) (Fragment, bool) {
	db := m.MongoDB
	if db == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "database MongoDB do |db|")
	connection(w, db.Connection)
	if db.Lock != nil {
		w.assign(2, "db", "lock", boolean(*db.Lock))
	}
	if len(db.Collections) > 0 {
		w.assign(2, "db", "only_collections", list(db.Collections))
	}
	w.line(1, "end")
	return newFragment(m, string(job.TypeMongoDB), w)
}

func MySQL(m *job.Model) (Fragment, bool) {
	db := m.MySQL
	if db == nil {
		return Fragment{}, false
	}
	return sqlDatabase(m, "MySQL", string(job.TypeMySQL), db.Connection, db.SkipTables)
}

func PostgreSQL(m *job.Model) (Fragment, bool) {
	db := m.PostgreSQL
	if db == nil {
		return Fragment{}, false
	}
	return sqlDatabase(m, "PostgreSQL", string(job.TypePostgreSQL), db.Connection, db.SkipTables)
}

func sqlDatabase(m *job.Model, class, section string, conn job.Connection, skip []string) (Fragment, bool) {
	w := &writer{}
	w.blank()
	w.line(1, "database %s do |db|", class)
	connection(w, conn)
	if len(skip) > 0 {
		w.assign(2, "db", "skip_tables", list(skip))
	}
	w.line(1, "end")
	return newFragment(m, section, w)
}

func Redis(m *job.Model) (Fragment, bool) {
	db := m.Redis
	if db == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "database Redis do |db|")
	w.assign(2, "db", "mode", symbol("copy"))
	w.assign(2, "db", "rdb_path", quote(db.RDBPath))
	if db.Password != "" {
		w.assign(2, "db", "password", quote(db.Password))
	}
	if db.Host != "" {
		w.assign(2, "db", "host", quote(db.Host))
	}
	if db.Port != nil {
		w.assign(2, "db", "port", strconv.Itoa(*db.Port))
	}
	w.line(1, "end")
	return newFragment(m, string(job.TypeRedis), w)
}

func Riak(m *job.Model) (Fragment, bool) {
	db := m.Riak
	if db == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "database Riak do |db|")
	w.assign(2, "db", "node", quote(db.Node))
	w.assign(2, "db", "cookie", quote(db.Cookie))
	w.line(1, "end")
	return newFragment(m, string(job.TypeRiak), w)
}
