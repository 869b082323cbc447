package fragment

import (
	"strconv"

	"github.com/williamokano/backupgen/pkg/job"
)

func Compressor(m *job.Model) (Fragment, bool) {
	c := m.Compressor
	if c == nil {
		return Fragment{}, false
	}
	class := "Gzip"
	if c.Kind == job.CompressorBzip2 {
		class = "Bzip2"
	}

	w := &writer{}
	w.blank()
	if c.Level == nil {
		w.line(1, "compress_with %s", class)
	} else {
		w.line(1, "compress_with %s do |compression|", class)
		w.assign(2, "compression", "level", strconv.Itoa(*c.Level))
		w.line(1, "end")
	}
	return newFragment(m, string(c.Kind), w)
}

func Encryptor(m *job.Model) (Fragment, bool) {
	e := m.Encryptor
	if e == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "encrypt_with OpenSSL do |encryption|")
	w.assign(2, "encryption", "password", quote(e.Password))
	w.assign(2, "encryption", "base64", boolean(e.Base64))
	w.assign(2, "encryption", "salt", boolean(e.Salt))
	w.line(1, "end")
	return newFragment(m, string(e.Kind), w)
}

// Splitter chunks the package before it is stored
func Splitter(m *job.Model) (Fragment, bool) {
	if m.Storage == nil || m.Storage.SplitInto == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "split_into_chunks_of %d", *m.Storage.SplitInto)
	return newFragment(m, "split", w)
}

// Storage emits the store_with block for the configured storage kind
func Storage(m *job.Model) (Fragment, bool) {
	s := m.Storage
	if s == nil {
		return Fragment{}, false
	}

	w := &writer{}
	w.blank()
	switch s.Kind {
	case job.StorageLocal:
		local(w, s)
	case job.StorageS3:
		s3(w, s)
	case job.StorageFTP:
		ftp(w, s)
	case job.StorageRSync:
		rsync(w, s)
	default:
		return Fragment{}, false
	}
	return newFragment(m, string(s.Kind), w)
}

func keep(w *writer, obj string, s *job.Storage) {
	if s.Keep != nil {
		w.assign(2, obj, "keep", strconv.Itoa(*s.Keep))
	}
}

func local(w *writer, s *job.Storage) {
	w.line(1, "store_with Local do |local|")
	w.assign(2, "local", "path", quote(s.Local.Path))
	keep(w, "local", s)
	w.line(1, "end")
}

func s3(w *writer, s *job.Storage) {
	c := s.S3
	w.line(1, "store_with S3 do |s3|")
	w.assign(2, "s3", "access_key_id", quote(c.AccessKey))
	w.assign(2, "s3", "secret_access_key", quote(c.SecretKey))
	if c.Region != "" {
		w.assign(2, "s3", "region", quote(c.Region))
	}
	w.assign(2, "s3", "bucket", quote(c.Bucket))
	w.assign(2, "s3", "path", quote(c.Path))
	keep(w, "s3", s)
	if c.ReducedRedundancy != nil && *c.ReducedRedundancy {
		w.assign(2, "s3", "storage_class", symbol("reduced_redundancy"))
	}
	w.line(1, "end")
}

func ftp(w *writer, s *job.Storage) {
	c := s.FTP
	w.line(1, "store_with FTP do |server|")
	w.assign(2, "server", "username", quote(c.Username))
	w.assign(2, "server", "password", quote(c.Password))
	w.assign(2, "server", "ip", quote(c.Host))
	w.assign(2, "server", "port", strconv.Itoa(c.Port))
	w.assign(2, "server", "path", quote(c.Path))
	keep(w, "server", s)
	w.assign(2, "server", "passive_mode", boolean(c.PassiveMode))
	w.line(1, "end")
}

// userAttr picks the login attribute for a transport: ssh_user over ssh,
// rsync_user for the daemon modes
func userAttr(mode job.RSyncMode) string {
	if mode == "" || mode == job.ModeSSH {
		return "ssh_user"
	}
	return "rsync_user"
}

func rsync(w *writer, s *job.Storage) {
	c := s.RSync
	w.line(1, "store_with RSync do |server|")
	if c.Mode != "" {
		w.assign(2, "server", "mode", symbol(string(c.Mode)))
	}
	w.assign(2, "server", "host", quote(c.Host))
	if c.Port != nil {
		w.assign(2, "server", "port", strconv.Itoa(*c.Port))
	}
	if c.Username != "" {
		w.assign(2, "server", userAttr(c.Mode), quote(c.Username))
	}
	if c.PasswordFile != "" {
		w.assign(2, "server", "rsync_password_file", quote(c.PasswordFile))
	}
	if c.Compress != nil {
		w.assign(2, "server", "compress", boolean(*c.Compress))
	}
	w.assign(2, "server", "path", quote(c.Path))
	w.line(1, "end")
}

// Syncer emits the rsync push block
func Syncer(m *job.Model) (Fragment, bool) {
	c := m.Syncer
	if c == nil {
		return Fragment{}, false
	}
	w := &writer{}
	w.blank()
	w.line(1, "sync_with RSync::Push do |rsync|")
	if c.Mode != "" {
		w.assign(2, "rsync", "mode", symbol(string(c.Mode)))
	}
	w.assign(2, "rsync", "host", quote(c.Host))
	if c.Port != nil {
		w.assign(2, "rsync", "port", strconv.Itoa(*c.Port))
	}
	w.assign(2, "rsync", userAttr(c.Mode), quote(c.Username))
	if c.PasswordFile != "" {
		w.assign(2, "rsync", "rsync_password_file", quote(c.PasswordFile))
	}
	if c.Path != "" {
		w.assign(2, "rsync", "path", quote(c.Path))
	}
	if c.Mirror != nil {
		w.assign(2, "rsync", "mirror", boolean(*c.Mirror))
	}
	if c.Compress != nil {
		w.assign(2, "rsync", "compress", boolean(*c.Compress))
	}
	w.blank()
	w.line(2, "rsync.directories do |directory|")
	for _, p := range c.Add {
		w.line(3, "directory.add %s", quote(p))
	}
	for _, p := range c.Exclude {
		w.line(3, "directory.exclude %s", quote(p))
	}
	w.line(2, "end")
	w.line(1, "end")
	return newFragment(m, "syncer", w)
}
