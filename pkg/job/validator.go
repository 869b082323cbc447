package job

import (
	"sort"
	"strings"

	"github.com/williamokano/backupgen/pkg/coerce"
	"github.com/williamokano/backupgen/pkg/ident"
	"github.com/williamokano/backupgen/pkg/params"
)

// rule is one validation group. It may read fields filled in by earlier
// rules and must not depend on later ones.
type rule func(v *validation) error

// rules run in this order; the first failure wins
var rules = []rule{
	validateEnsure,
	validateUtilities,
	validateTypes,
	validateArchive,
	validateDatabases,
	validateStorage,
	validateSyncer,
	validateEncryptor,
	validateCompressor,
	validateEmail,
	validateChat,
	validateLogging,
	validateHooks,
	validateSchedule,
	validateLabel,
}

type validation struct {
	def  params.Definition
	site Site
	m    *Model
}

// Validate checks a raw job definition and builds its Model. On failure the
// returned error is a *ValidationError and no model is returned.
func Validate(title string, def params.Definition, site Site) (*Model, error) {
	identifier, err := ident.Sanitize(title)
	if err != nil {
		return nil, fail(ErrMissingRequired, "title", "Job title must not be empty")
	}

	v := &validation{
		def:  def,
		site: site,
		m:    &Model{Title: title, Identifier: identifier},
	}

	for _, r := range rules {
		if err := r(v); err != nil {
			return nil, err
		}
	}

	return v.m, nil
}

func (v *validation) lookup(field string) (params.Value, bool) {
	return v.def.Lookup(field)
}

// text reads a free-form scalar option; non-string scalars are rendered as text
func (v *validation) text(field string) (string, bool, error) {
	val, ok := v.lookup(field)
	if !ok {
		return "", false, nil
	}
	if !val.IsScalar() {
		return "", false, fail(ErrTypeMismatch, field, "The %s parameter must be a string", field)
	}
	return val.Text(), true, nil
}

// textOr reads a free-form scalar option with a default
func (v *validation) textOr(field, fallback string) (string, error) {
	s, ok, err := v.text(field)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return fallback, nil
	}
	return s, nil
}

// strictString reads an option that must be a string scalar
func (v *validation) strictString(field string) (string, bool, error) {
	val, ok := v.lookup(field)
	if !ok {
		return "", false, nil
	}
	s, err := coerce.String(val)
	if err != nil {
		return "", false, fail(ErrTypeMismatch, field, "%s is not a string", val.Inspect())
	}
	return s, true, nil
}

// optBool reads an optional boolean option
func (v *validation) optBool(field string) (*bool, error) {
	val, ok := v.lookup(field)
	if !ok {
		return nil, nil
	}
	b, err := coerce.Bool(val)
	if err != nil {
		return nil, fail(ErrTypeMismatch, field, "%s is not a boolean", val.Inspect())
	}
	return &b, nil
}

// boolOr reads a boolean option with a default
func (v *validation) boolOr(field string, fallback bool) (bool, error) {
	b, err := v.optBool(field)
	if err != nil {
		return false, err
	}
	if b == nil {
		return fallback, nil
	}
	return *b, nil
}

// optInt reads an optional integer option; message is used on failure
func (v *validation) optInt(field, message string) (*int, error) {
	val, ok := v.lookup(field)
	if !ok {
		return nil, nil
	}
	i, err := coerce.Int(val)
	if err != nil {
		return nil, fail(ErrTypeMismatch, field, "%s", message)
	}
	return &i, nil
}

// optList reads an optional string-or-array option; message is used on failure
func (v *validation) optList(field, message string) ([]string, error) {
	val, ok := v.lookup(field)
	if !ok {
		return nil, nil
	}
	list, err := coerce.StringList(val)
	if err != nil {
		return nil, fail(ErrTypeMismatch, field, "%s", message)
	}
	return list, nil
}

// require reads a mandatory free-form option
func (v *validation) require(field, message string) (string, error) {
	s, ok, err := v.text(field)
	if err != nil {
		return "", err
	}
	if !ok || s == "" {
		return "", fail(ErrMissingRequired, field, "%s", message)
	}
	return s, nil
}

func validateEnsure(v *validation) error {
	v.m.Ensure = EnsurePresent
	val, ok := v.lookup("ensure")
	if !ok {
		return nil
	}
	s, isString := val.AsString()
	switch Ensure(s) {
	case EnsurePresent, EnsureAbsent:
		if isString {
			v.m.Ensure = Ensure(s)
			return nil
		}
	}
	return fail(ErrInvalidEnum, "ensure", "Invalid ensure %s", val.Text())
}

func validateUtilities(v *validation) error {
	val, ok := v.lookup("utilities")
	if !ok {
		return nil
	}
	if !val.IsMapping() {
		return fail(ErrTypeMismatch, "utilities", "Utility paths need to be a hash")
	}

	names := val.Keys()
	sort.Strings(names)
	paths := make(map[string]string, len(names))
	for _, name := range names {
		entry, _ := val.Get(name)
		p, err := coerce.String(entry)
		if err != nil || !strings.HasPrefix(p, "/") {
			return fail(ErrTypeMismatch, "utilities", "Utility path for %s must be an absolute path", name)
		}
		paths[name] = p
	}

	v.m.Utilities = Utilities{Names: names, Paths: paths}
	return nil
}

func validateTypes(v *validation) error {
	val, ok := v.lookup("types")
	if !ok {
		return fail(ErrMissingRequired, "types", "At least one backup type must be specified with the 'types' parameter")
	}
	given, err := coerce.StringList(val)
	if err != nil {
		return fail(ErrTypeMismatch, "types", "The types parameter takes either a backup type as a string or an array of backup types")
	}
	if len(given) == 0 {
		return fail(ErrMissingRequired, "types", "At least one backup type must be specified with the 'types' parameter")
	}

	seen := make(map[BackupType]bool, len(given))
	types := make([]BackupType, 0, len(given))
	valid := true
	for _, name := range given {
		t := BackupType(name)
		if !isSupportedType(t) {
			valid = false
			continue
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	if !valid {
		return fail(ErrInvalidEnum, "types", "Invalid types in '%s'. Supported types are %s",
			strings.Join(given, ", "), joinTypes(SupportedTypes))
	}

	v.m.Types = types
	return nil
}

func isSupportedType(t BackupType) bool {
	for _, s := range SupportedTypes {
		if s == t {
			return true
		}
	}
	return false
}

func joinTypes(types []BackupType) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}

// paths reads the add/exclude pair shared by the archive and the syncer
func (v *validation) paths(owner string) ([]string, []string, error) {
	missing := fail(ErrMissingRequired, "add",
		"%s: Files or directories to archive need to be specified with the 'add' parameter", owner)

	if !v.def.Has("add") {
		return nil, nil, missing
	}
	add, err := v.optList("add", "The add parameter takes either an individual path as a string or an array of paths")
	if err != nil {
		return nil, nil, err
	}
	if len(add) == 0 {
		return nil, nil, missing
	}

	exclude, err := v.optList("exclude", "The exclude parameter takes either an individual path as a string or an array of paths")
	if err != nil {
		return nil, nil, err
	}
	return add, exclude, nil
}

func validateArchive(v *validation) error {
	if !v.m.HasType(TypeArchive) {
		return nil
	}
	add, exclude, err := v.paths("archive")
	if err != nil {
		return err
	}
	v.m.Archive = &Archive{Add: add, Exclude: exclude}
	return nil
}

func usesDatabase(m *Model) bool {
	return m.HasType(TypeMongoDB) || m.HasType(TypeMySQL) || m.HasType(TypePostgreSQL) || m.HasType(TypeRedis)
}

// connection reads the options shared by every database dump
func (v *validation) connection() (Connection, error) {
	var conn Connection

	if val, ok := v.lookup("port"); ok {
		p, err := coerce.Port(val)
		if err != nil {
			kind := ErrTypeMismatch
			if _, intErr := coerce.Int(val); intErr == nil {
				kind = ErrInvalidRange
			}
			return conn, fail(kind, "port", "Invalid port (%s)", val.Text())
		}
		conn.Port = &p
	}

	var err error
	if conn.Name, _, err = v.text("dbname"); err != nil {
		return conn, err
	}
	if conn.Host, err = v.textOr("host", "localhost"); err != nil {
		return conn, err
	}
	if conn.Username, _, err = v.text("username"); err != nil {
		return conn, err
	}
	if conn.Password, _, err = v.text("password"); err != nil {
		return conn, err
	}
	if conn.Username != "" && conn.Password == "" {
		return conn, fail(ErrMissingRequired, "password", "Database password is required with username")
	}
	return conn, nil
}

func validateDatabases(v *validation) error {
	if usesDatabase(v.m) {
		conn, err := v.connection()
		if err != nil {
			return err
		}
		if err := v.databaseTypes(conn); err != nil {
			return err
		}
	}

	if v.m.HasType(TypeRiak) {
		node, err := v.textOr("node", "riak@"+v.site.FQDN)
		if err != nil {
			return err
		}
		cookie, err := v.textOr("cookie", "riak")
		if err != nil {
			return err
		}
		v.m.Riak = &Riak{Node: node, Cookie: cookie}
	}
	return nil
}

func (v *validation) databaseTypes(conn Connection) error {
	if v.m.HasType(TypeMongoDB) {
		if conn.Name == "" {
			return fail(ErrMissingRequired, "dbname", "dbname is required with this database type")
		}
		collections, err := v.optList("collections", "Collections to backup for MongoDB must be a string or array")
		if err != nil {
			return err
		}
		lock, err := v.optBool("lock")
		if err != nil {
			return err
		}
		v.m.MongoDB = &MongoDB{Connection: conn, Lock: lock, Collections: collections}
	}

	if v.m.HasType(TypeMySQL) {
		skip, err := v.optList("skip_tables", "Tables to skip in backup for MySQL must be a string or array if defined")
		if err != nil {
			return err
		}
		v.m.MySQL = &MySQL{Connection: conn, SkipTables: skip}
	}

	if v.m.HasType(TypePostgreSQL) {
		skip, err := v.optList("skip_tables", "Tables to skip in backup for PostgreSQL must be a string or array if defined")
		if err != nil {
			return err
		}
		v.m.PostgreSQL = &PostgreSQL{Connection: conn, SkipTables: skip}
	}

	if v.m.HasType(TypeRedis) {
		rdb, err := v.textOr("rdb_path", "/var/lib/redis/dump.rdb")
		if err != nil {
			return err
		}
		redis := &Redis{RDBPath: rdb, Password: conn.Password, Port: conn.Port}
		if host, ok, _ := v.text("host"); ok {
			redis.Host = host
		}
		v.m.Redis = redis
	}
	return nil
}

func validateLabel(v *validation) error {
	label, err := v.textOr("description", v.m.Title+" backup")
	if err != nil {
		return err
	}
	v.m.Label = label
	return nil
}
