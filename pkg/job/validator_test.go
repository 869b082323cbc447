package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/backupgen/pkg/params"
)

var testSite = Site{FQDN: "testhost.foo.com", Domain: "foo.com"}

type opts map[string]interface{}

// archiveLocal is the smallest valid job
func archiveLocal(extra opts) opts {
	o := opts{
		"types":        "archive",
		"add":          "/here",
		"storage_type": "local",
		"path":         "/backups",
	}
	for k, v := range extra {
		o[k] = v
	}
	return o
}

func definition(t *testing.T, o opts) params.Definition {
	t.Helper()
	def, err := params.NewDefinition(o)
	require.NoError(t, err)
	return def
}

func validate(t *testing.T, o opts) (*Model, error) {
	t.Helper()
	return Validate("job1", definition(t, o), testSite)
}

func mustValidate(t *testing.T, o opts) *Model {
	t.Helper()
	m, err := validate(t, o)
	require.NoError(t, err)
	require.NotNil(t, m)
	return m
}

func TestValidate_Failures(t *testing.T) {
	ab := opts{"a": "b"}

	tests := []struct {
		name    string
		opts    opts
		message string
		kind    error
	}{
		{"bad_ensure", archiveLocal(opts{"ensure": "foo"}), "Invalid ensure foo", ErrInvalidEnum},
		{"bad_utilities", archiveLocal(opts{"utilities": "foo"}), "Utility paths need to be a hash", ErrTypeMismatch},
		{"relative_utility_path", archiveLocal(opts{"utilities": opts{"tar": "bin/tar"}}), "Utility path for tar must be an absolute path", ErrTypeMismatch},
		{"missing_types", opts{"storage_type": "local", "path": "/backups"}, "At least one backup type must be specified", ErrMissingRequired},
		{"bad_type_string", archiveLocal(opts{"types": "foo"}), "Invalid types in 'foo'", ErrInvalidEnum},
		{"bad_type_array", archiveLocal(opts{"types": []interface{}{"archive", "foo"}}), "Invalid types in 'archive, foo'", ErrInvalidEnum},

		{"archive_nothing_to_backup", opts{"types": "archive", "storage_type": "local", "path": "/backups"}, "archive: Files or directories to archive need to be specified with the 'add' parameter", ErrMissingRequired},
		{"archive_bad_add", archiveLocal(opts{"add": ab}), "add parameter takes either an individual path as a string or an array of paths", ErrTypeMismatch},
		{"archive_bad_exclude", archiveLocal(opts{"exclude": ab}), "exclude parameter takes either an individual path as a string or an array of paths", ErrTypeMismatch},

		{"bad_database_port", opts{"types": "mongodb", "dbname": "foo", "port": "foo", "storage_type": "local", "path": "/backups"}, "Invalid port (foo)", ErrTypeMismatch},
		{"database_port_out_of_range", opts{"types": "mysql", "port": 70000, "storage_type": "local", "path": "/backups"}, "Invalid port (70000)", ErrInvalidRange},
		{"mongodb_without_name", opts{"types": "mongodb", "storage_type": "local", "path": "/backups"}, "dbname is required with this database type", ErrMissingRequired},
		{"username_without_password", opts{"types": "mongodb", "dbname": "foo", "username": "foo", "storage_type": "local", "path": "/backups"}, "Database password is required with username", ErrMissingRequired},
		{"mongodb_bad_collections", opts{"types": "mongodb", "dbname": "foo", "collections": ab, "storage_type": "local", "path": "/backups"}, "Collections to backup for MongoDB must be a string or array", ErrTypeMismatch},
		{"mongodb_bad_lock", opts{"types": "mongodb", "dbname": "foo", "lock": "bob", "storage_type": "local", "path": "/backups"}, `"bob" is not a boolean`, ErrTypeMismatch},
		{"mysql_bad_skip_tables", opts{"types": "mysql", "skip_tables": ab, "storage_type": "local", "path": "/backups"}, "Tables to skip in backup for MySQL must be a string or array if defined", ErrTypeMismatch},
		{"postgresql_bad_skip_tables", opts{"types": "postgresql", "skip_tables": ab, "storage_type": "local", "path": "/backups"}, "Tables to skip in backup for PostgreSQL must be a string or array if defined", ErrTypeMismatch},

		{"missing_storage_type", opts{"types": "archive", "add": "/here"}, "A storage_type must be set", ErrMissingRequired},
		{"bad_storage_type", archiveLocal(opts{"storage_type": "foo"}), "Currently supported storage types are local, s3, ftp, rsync", ErrInvalidEnum},
		{"bad_keep", archiveLocal(opts{"keep": "foo"}), "keep must be an integer", ErrTypeMismatch},
		{"negative_keep", archiveLocal(opts{"keep": -1}), "keep must be zero or a positive integer", ErrInvalidRange},
		{"bad_split_into", archiveLocal(opts{"split_into": "foo"}), "If split_into is set it must be an integer", ErrTypeMismatch},
		{"zero_split_into", archiveLocal(opts{"split_into": 0}), "split_into must be a positive integer", ErrInvalidRange},
		{"local_missing_path", opts{"types": "archive", "add": "/here", "storage_type": "local"}, "Path parameter is required with local storage", ErrMissingRequired},

		{"s3_missing_access_key", opts{"types": "archive", "add": "/here", "storage_type": "s3", "aws_secret_key": "foo", "bucket": "bucket"}, "Parameter aws_access_key is required", ErrMissingRequired},
		{"s3_missing_secret_key", opts{"types": "archive", "add": "/here", "storage_type": "s3", "aws_access_key": "foo", "bucket": "bucket"}, "Parameter aws_secret_key is required", ErrMissingRequired},
		{"s3_missing_bucket", opts{"types": "archive", "add": "/here", "storage_type": "s3", "aws_access_key": "foo", "aws_secret_key": "foo"}, "S3 bucket must be specified", ErrMissingRequired},
		{"s3_invalid_region", opts{"types": "archive", "add": "/here", "storage_type": "s3", "aws_access_key": "foo", "aws_secret_key": "foo", "bucket": "bucket", "aws_region": "foo"}, "foo is an invalid region", ErrInvalidEnum},
		{"s3_bad_reduced_redundancy", opts{"types": "archive", "add": "/here", "storage_type": "s3", "aws_access_key": "foo", "aws_secret_key": "foo", "reduced_redundancy": "foo"}, `"foo" is not a boolean`, ErrTypeMismatch},

		{"ftp_missing_username", opts{"types": "archive", "add": "here", "storage_type": "ftp", "storage_password": "secret", "storage_host": "mysite.example.com", "path": "/there"}, "Parameter storage_username is required for ftp storage", ErrMissingRequired},
		{"ftp_missing_password", opts{"types": "archive", "add": "here", "storage_type": "ftp", "storage_username": "myuser", "storage_host": "mysite.example.com", "path": "/there"}, "Parameter storage_password is required for ftp storage", ErrMissingRequired},
		{"ftp_missing_host", opts{"types": "archive", "add": "here", "storage_type": "ftp", "storage_username": "myuser", "storage_password": "secret", "path": "/there"}, "Parameter storage_host is required for ftp storage", ErrMissingRequired},
		{"ftp_bad_port", opts{"types": "archive", "add": "here", "storage_type": "ftp", "storage_username": "myuser", "storage_password": "secret", "storage_host": "mysite.example.com", "ftp_port": "abcde", "path": "/there"}, "ftp_port must be an integer", ErrTypeMismatch},
		{"ftp_bad_passive_mode", opts{"types": "archive", "add": "here", "storage_type": "ftp", "storage_username": "myuser", "storage_password": "secret", "storage_host": "mysite.example.com", "ftp_passive_mode": "abcde", "path": "/there"}, "is not a boolean", ErrTypeMismatch},
		{"ftp_missing_path", opts{"types": "archive", "add": "here", "storage_type": "ftp", "storage_username": "myuser", "storage_password": "secret", "storage_host": "mysite.example.com"}, "Path parameter is required with ftp storage", ErrMissingRequired},

		{"rsync_bad_mode", opts{"types": "archive", "add": "here", "storage_type": "rsync", "storage_host": "mysite.example.com", "path": "/there", "rsync_mode": "abcde"}, "abcde is not a valid mode", ErrInvalidEnum},
		{"rsync_missing_host", opts{"types": "archive", "add": "here", "storage_type": "rsync", "path": "/there"}, "Parameter storage_host is required for rsync storage", ErrMissingRequired},
		{"rsync_missing_path", opts{"types": "archive", "add": "here", "storage_type": "rsync", "storage_host": "mysite.example.com"}, "Path parameter is required with rsync storage", ErrMissingRequired},
		{"rsync_bad_port", opts{"types": "archive", "add": "here", "storage_type": "rsync", "storage_host": "mysite.example.com", "path": "/there", "rsync_port": "abcde"}, "rsync_port must be an integer", ErrTypeMismatch},
		{"rsync_bad_compress", opts{"types": "archive", "add": "here", "storage_type": "rsync", "storage_host": "mysite.example.com", "path": "/there", "rsync_compress": "abcde"}, `"abcde" is not a boolean`, ErrTypeMismatch},
		{"rsync_password_file_not_string", opts{"types": "archive", "add": "here", "storage_type": "rsync", "storage_username": "myuser", "storage_host": "mysite.example.com", "path": "/there", "rsync_compress": true, "rsync_mode": "rsync_daemon", "rsync_password_file": true}, "true is not a string", ErrTypeMismatch},

		{"syncer_with_remote_storage", opts{"types": []interface{}{"syncer"}, "add": "here", "storage_type": "rsync", "storage_username": "myuser", "storage_host": "mysite.example.com", "path": "/there"}, "When using syncers with storage you should only use local storage", ErrMutuallyExclusive},
		{"syncer_with_bare_rsync_storage", opts{"types": []interface{}{"syncer"}, "storage_type": "rsync"}, "When using syncers with storage you should only use local storage", ErrMutuallyExclusive},
		{"syncer_with_s3_storage", opts{"types": "syncer", "add": "here", "storage_type": "s3"}, "When using syncers with storage you should only use local storage", ErrMutuallyExclusive},
		{"syncer_with_archive_no_storage", opts{"types": []interface{}{"archive", "syncer"}, "add": "here", "path": "/there"}, "When using syncers do not use archive when no storage_type is used", ErrMutuallyExclusive},
		{"syncer_bad_type", opts{"types": "syncer", "add": "here", "syncer_type": "unison", "storage_host": "mysite.example.com", "storage_username": "bob"}, "Supported syncers are rsync", ErrInvalidEnum},
		{"syncer_missing_host", opts{"types": []interface{}{"syncer"}, "add": "here", "syncer_type": "rsync", "storage_username": "bob", "path": "/there"}, "Parameter storage_host is required for rsync syncer", ErrMissingRequired},
		{"syncer_missing_username", opts{"types": []interface{}{"syncer"}, "add": "here", "syncer_type": "rsync", "storage_host": "mysite.example.com", "path": "/there"}, "Parameter storage_username is required for rsync syncer", ErrMissingRequired},
		{"syncer_bad_mode", opts{"types": []interface{}{"syncer"}, "add": "/here", "syncer_type": "rsync", "rsync_mode": ":rsync_daemon", "storage_host": "mysite.example.com", "storage_username": "bob", "path": "/there"}, ":rsync_daemon is not a valid mode", ErrInvalidEnum},
		{"syncer_missing_add", opts{"types": []interface{}{"syncer"}, "syncer_type": "rsync", "rsync_mode": "rsync_daemon", "storage_host": "mysite.example.com", "storage_username": "bob", "path": "/there"}, "syncer: Files or directories to archive need to be specified with the 'add' parameter", ErrMissingRequired},
		{"syncer_bad_add", opts{"types": "syncer", "add": ab, "syncer_type": "rsync", "rsync_mode": "rsync_daemon", "storage_host": "mysite.example.com", "storage_username": "bob", "path": "/backups"}, "add parameter takes either an individual path as a string or an array of paths", ErrTypeMismatch},

		{"bad_encryptor", archiveLocal(opts{"encryptor": "foo"}), "Supported encryptors are openssl", ErrInvalidEnum},
		{"openssl_missing_password", archiveLocal(opts{"encryptor": "openssl"}), "The 'openssl_password' must be set when using the openssl encryptor", ErrMissingRequired},
		{"bad_compressor", archiveLocal(opts{"compressor": "foo"}), "Supported compressors are gzip, bzip2", ErrInvalidEnum},
		{"bad_compressor_level", archiveLocal(opts{"compressor": "bzip2", "level": 33}), "The 'level' parameter takes integers from 1-9", ErrInvalidRange},
		{"non_integer_compressor_level", archiveLocal(opts{"compressor": "gzip", "level": "high"}), "The 'level' parameter takes integers from 1-9", ErrTypeMismatch},

		{"bad_email_success", archiveLocal(opts{"enable_email": true, "email_to": "foo@foosome.com", "email_success": "foo"}), "boolean", ErrTypeMismatch},
		{"bad_email_warning", archiveLocal(opts{"enable_email": true, "email_to": "foo@foosome.com", "email_warning": "foo"}), "boolean", ErrTypeMismatch},
		{"bad_email_failure", archiveLocal(opts{"enable_email": true, "email_to": "foo@foosome.com", "email_failure": "foo"}), "boolean", ErrTypeMismatch},
		{"bad_email_from", archiveLocal(opts{"enable_email": true, "email_to": "foo@foosome.com", "email_from": "bob"}), "bob is not a valid email address", ErrTypeMismatch},
		{"missing_email_to", archiveLocal(opts{"enable_email": true}), "A destination email address is required", ErrMissingRequired},
		{"bad_email_to", archiveLocal(opts{"enable_email": true, "email_to": "foo"}), "foo is not a valid email address", ErrTypeMismatch},
		{"bad_relay_port", archiveLocal(opts{"enable_email": true, "email_to": "foo@foosome.com", "relay_port": "foo"}), "relay_port must be a port number", ErrTypeMismatch},

		{"bad_hc_success", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": "Room", "hc_success": "foo"}), "boolean", ErrTypeMismatch},
		{"bad_hc_warning", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": "Room", "hc_warning": "foo"}), "boolean", ErrTypeMismatch},
		{"bad_hc_failure", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": "Room", "hc_failure": "foo"}), "boolean", ErrTypeMismatch},
		{"missing_hc_token", archiveLocal(opts{"enable_hc": true, "hc_notify": "Room"}), "hc_token is required", ErrMissingRequired},
		{"missing_hc_notify", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde"}), "hc_notify needs to be", ErrMissingRequired},
		{"mapping_hc_notify", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": ab}), "hc_notify needs to be", ErrTypeMismatch},
		{"empty_hc_notify", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": []interface{}{}}), "hc_notify needs to be", ErrMissingRequired},
		{"blank_hc_notify", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": ""}), "hc_notify needs to be", ErrMissingRequired},
		{"blank_hc_notify_list", archiveLocal(opts{"enable_hc": true, "hc_token": "abcde", "hc_notify": []interface{}{"", " "}}), "hc_notify needs to be", ErrMissingRequired},

		{"bad_console_quiet", archiveLocal(opts{"console_quiet": "loud"}), `"loud" is not a boolean`, ErrTypeMismatch},
		{"bad_before_job", archiveLocal(opts{"before_job": ab}), "The before_job parameter takes either a string or an array of strings", ErrTypeMismatch},
		{"bad_tmp_path", archiveLocal(opts{"tmp_path": 12}), "12 is not a string", ErrTypeMismatch},
		{"relative_gem_bin_path", archiveLocal(opts{"gem_bin_path": "bin"}), "The gem_bin_path parameter must be an absolute path", ErrTypeMismatch},
		{"bad_cron_hour", archiveLocal(opts{"hour": 25}), "Invalid cron schedule '0 25 * * *'", ErrInvalidRange},
		{"bad_description", archiveLocal(opts{"description": []interface{}{"a"}}), "The description parameter must be a string", ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := validate(t, tt.opts)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.Contains(t, err.Error(), tt.message)
			assert.ErrorIs(t, err, tt.kind)

			verr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.NotEmpty(t, verr.Field)
		})
	}
}

func TestValidate_FirstFailureWins(t *testing.T) {
	tests := []struct {
		name    string
		opts    opts
		message string
	}{
		{"ensure_before_types", archiveLocal(opts{"ensure": "foo", "types": "foo"}), "Invalid ensure foo"},
		{"types_before_storage", opts{"types": "foo"}, "Invalid types in 'foo'"},
		{"keep_before_path", opts{"types": "archive", "add": "/here", "storage_type": "local", "keep": -1}, "keep must be zero or a positive integer"},
		{"storage_before_compressor", opts{"types": "archive", "add": "/here", "storage_type": "ftp", "compressor": "foo"}, "Parameter storage_username is required for ftp storage"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := validate(t, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_EmptyTitle(t *testing.T) {
	_, err := Validate("", definition(t, archiveLocal(nil)), testSite)
	assert.ErrorIs(t, err, ErrMissingRequired)
}

func TestValidate_ArchiveLocal(t *testing.T) {
	m := mustValidate(t, archiveLocal(nil))

	assert.Equal(t, "job1", m.Identifier)
	assert.Equal(t, "job1 backup", m.Label)
	assert.Equal(t, EnsurePresent, m.Ensure)
	assert.Equal(t, []BackupType{TypeArchive}, m.Types)
	require.NotNil(t, m.Archive)
	assert.Equal(t, []string{"/here"}, m.Archive.Add)
	assert.Empty(t, m.Archive.Exclude)

	require.NotNil(t, m.Storage)
	assert.Equal(t, StorageLocal, m.Storage.Kind)
	assert.Equal(t, "/backups", m.Storage.Local.Path)
	assert.Nil(t, m.Storage.Keep)
	assert.Nil(t, m.Storage.SplitInto)

	assert.Nil(t, m.Compressor)
	assert.Nil(t, m.Encryptor)
	assert.Nil(t, m.Email)
	assert.Nil(t, m.Chat)
	assert.False(t, m.Logging.Configured())

	assert.Equal(t, DefaultBinPath, m.Schedule.BinPath)
	assert.Equal(t, DefaultConfigFile, m.Schedule.ConfigFile)
	assert.Equal(t, DefaultTmpPath, m.Schedule.TmpPath)
	assert.Equal(t, "0 23 * * *", m.Schedule.Expression())
}

func TestValidate_Label(t *testing.T) {
	t.Run("description_wins", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"description": "My backup"}))
		assert.Equal(t, "My backup", m.Label)
	})

	t.Run("raw_title_in_default", func(t *testing.T) {
		m, err := Validate("job.1/2", definition(t, archiveLocal(nil)), testSite)
		require.NoError(t, err)
		assert.Equal(t, "job_1_2", m.Identifier)
		assert.Equal(t, "job.1/2 backup", m.Label)
	})
}

func TestValidate_Types(t *testing.T) {
	t.Run("declaration_order_kept", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"types": []interface{}{"riak", "archive"}}))
		assert.Equal(t, []BackupType{TypeRiak, TypeArchive}, m.Types)
		require.NotNil(t, m.Riak)
		require.NotNil(t, m.Archive)
	})

	t.Run("duplicates_collapsed", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"types": []interface{}{"archive", "archive"}}))
		assert.Equal(t, []BackupType{TypeArchive}, m.Types)
	})
}

func TestValidate_Databases(t *testing.T) {
	t.Run("mongodb_full", func(t *testing.T) {
		m := mustValidate(t, opts{
			"types": "mongodb", "dbname": "mydb", "username": "foo", "password": "mypass",
			"port": 1234, "lock": true, "collections": "abcde",
			"storage_type": "local", "path": "/backups",
		})
		require.NotNil(t, m.MongoDB)
		assert.Equal(t, "mydb", m.MongoDB.Name)
		assert.Equal(t, "localhost", m.MongoDB.Host)
		assert.Equal(t, "foo", m.MongoDB.Username)
		assert.Equal(t, "mypass", m.MongoDB.Password)
		require.NotNil(t, m.MongoDB.Port)
		assert.Equal(t, 1234, *m.MongoDB.Port)
		require.NotNil(t, m.MongoDB.Lock)
		assert.True(t, *m.MongoDB.Lock)
		assert.Equal(t, []string{"abcde"}, m.MongoDB.Collections)
	})

	t.Run("string_port_accepted", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "mysql", "port": "3306", "storage_type": "local", "path": "/backups"})
		require.NotNil(t, m.MySQL.Port)
		assert.Equal(t, 3306, *m.MySQL.Port)
	})

	t.Run("mysql_minimal", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "mysql", "storage_type": "local", "path": "/backups"})
		require.NotNil(t, m.MySQL)
		assert.Empty(t, m.MySQL.Name)
		assert.Nil(t, m.MySQL.Port)
		assert.Empty(t, m.MySQL.SkipTables)
	})

	t.Run("postgresql_skip_tables", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "postgresql", "skip_tables": []interface{}{"log_table", "temp_table"}, "storage_type": "local", "path": "/backups"})
		require.NotNil(t, m.PostgreSQL)
		assert.Equal(t, []string{"log_table", "temp_table"}, m.PostgreSQL.SkipTables)
	})

	t.Run("riak_defaults", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "riak", "storage_type": "local", "path": "/backups"})
		require.NotNil(t, m.Riak)
		assert.Equal(t, "riak@testhost.foo.com", m.Riak.Node)
		assert.Equal(t, "riak", m.Riak.Cookie)
	})

	t.Run("redis_defaults", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "redis", "storage_type": "local", "path": "/backups"})
		require.NotNil(t, m.Redis)
		assert.Equal(t, "/var/lib/redis/dump.rdb", m.Redis.RDBPath)
		assert.Empty(t, m.Redis.Host)
	})
}

func TestValidate_Storage(t *testing.T) {
	t.Run("s3_minimal", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "archive", "add": "/here", "storage_type": "s3", "aws_access_key": "foo", "aws_secret_key": "bar", "bucket": "bucket"})
		s3 := m.Storage.S3
		require.NotNil(t, s3)
		assert.Equal(t, "testhost.foo.com", s3.Path)
		assert.Empty(t, s3.Region)
		assert.Nil(t, s3.ReducedRedundancy)
	})

	t.Run("ftp_defaults", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "archive", "add": "/here", "storage_type": "ftp", "storage_username": "myuser", "storage_password": "secret", "storage_host": "mysite.example.com", "path": "/there"})
		ftp := m.Storage.FTP
		require.NotNil(t, ftp)
		assert.Equal(t, 21, ftp.Port)
		assert.False(t, ftp.PassiveMode)
	})

	t.Run("rsync_full", func(t *testing.T) {
		m := mustValidate(t, opts{"types": "archive", "add": "/here", "storage_type": "rsync", "storage_username": "myuser", "storage_host": "mysite.example.com", "path": "/there", "rsync_port": 22, "rsync_mode": "ssh", "keep": 10})
		rsync := m.Storage.RSync
		require.NotNil(t, rsync)
		assert.Equal(t, ModeSSH, rsync.Mode)
		assert.Equal(t, "myuser", rsync.Username)
		require.NotNil(t, rsync.Port)
		assert.Equal(t, 22, *rsync.Port)
		require.NotNil(t, m.Storage.Keep)
		assert.Equal(t, 10, *m.Storage.Keep)
	})

	t.Run("zero_keep_allowed", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"keep": 0}))
		require.NotNil(t, m.Storage.Keep)
		assert.Equal(t, 0, *m.Storage.Keep)
	})
}

func TestValidate_Syncer(t *testing.T) {
	t.Run("without_storage", func(t *testing.T) {
		m := mustValidate(t, opts{
			"types": []interface{}{"syncer"}, "add": []interface{}{"/var/www", "/etc"}, "exclude": "/var/www/tmp",
			"syncer_type": "rsync", "storage_host": "mysite.example.com", "storage_username": "bob",
			"path": "/there", "rsync_mirror": true,
		})
		assert.Nil(t, m.Storage)
		require.NotNil(t, m.Syncer)
		assert.Equal(t, "/there", m.Syncer.Path)
		assert.Equal(t, []string{"/var/www", "/etc"}, m.Syncer.Add)
		assert.Equal(t, []string{"/var/www/tmp"}, m.Syncer.Exclude)
		require.NotNil(t, m.Syncer.Mirror)
		assert.True(t, *m.Syncer.Mirror)
	})

	t.Run("with_local_storage", func(t *testing.T) {
		m := mustValidate(t, opts{
			"types": []interface{}{"archive", "syncer"}, "add": "/here", "storage_type": "local", "path": "/backups",
			"syncer_type": "rsync", "storage_host": "mysite.example.com", "storage_username": "bob",
		})
		require.NotNil(t, m.Storage)
		require.NotNil(t, m.Syncer)
		assert.Empty(t, m.Syncer.Path)
	})
}

func TestValidate_Processing(t *testing.T) {
	t.Run("compressor_level", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"compressor": "gzip", "level": 3}))
		require.NotNil(t, m.Compressor)
		assert.Equal(t, CompressorGzip, m.Compressor.Kind)
		require.NotNil(t, m.Compressor.Level)
		assert.Equal(t, 3, *m.Compressor.Level)
	})

	t.Run("openssl_defaults", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"encryptor": "openssl", "openssl_password": "foopass"}))
		require.NotNil(t, m.Encryptor)
		assert.Equal(t, "foopass", m.Encryptor.Password)
		assert.True(t, m.Encryptor.Base64)
		assert.True(t, m.Encryptor.Salt)
	})
}

func TestValidate_Notifiers(t *testing.T) {
	t.Run("email_defaults", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"enable_email": true, "email_to": "foo@foobar.com"}))
		require.NotNil(t, m.Email)
		assert.Equal(t, "backup@foo.com", m.Email.From)
		assert.Equal(t, "foo@foobar.com", m.Email.To)
		assert.Equal(t, "localhost", m.Email.RelayHost)
		assert.Equal(t, 25, m.Email.RelayPort)
		assert.Equal(t, "foo.com", m.Email.Domain)
		assert.True(t, m.Email.OnSuccess)
		assert.True(t, m.Email.OnWarning)
		assert.True(t, m.Email.OnFailure)
	})

	t.Run("email_disabled_skips_checks", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"enable_email": false, "email_to": "nope"}))
		assert.Nil(t, m.Email)
	})

	t.Run("email_string_booleans", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"enable_email": "true", "email_to": "foo@foobar.com", "email_success": "false"}))
		require.NotNil(t, m.Email)
		assert.False(t, m.Email.OnSuccess)
	})

	t.Run("hipchat", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"enable_hc": true, "hc_token": "ABCDE", "hc_notify": "Room1"}))
		require.NotNil(t, m.Chat)
		assert.Equal(t, "ABCDE", m.Chat.Token)
		assert.Equal(t, []string{"Room1"}, m.Chat.Rooms)
	})
}

func TestValidate_Extras(t *testing.T) {
	t.Run("logging_flags", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"console_quiet": true, "syslog_enabled": false}))
		assert.True(t, m.Logging.Configured())
		require.NotNil(t, m.Logging.ConsoleQuiet)
		assert.True(t, *m.Logging.ConsoleQuiet)
		assert.Nil(t, m.Logging.LogfileEnabled)
		require.NotNil(t, m.Logging.SyslogEnabled)
		assert.False(t, *m.Logging.SyslogEnabled)
	})

	t.Run("hooks", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{
			"before_job": `system "systemctl stop bind"`,
			"after_job":  []interface{}{`system "touch /var/log/bind.log"`, `system "systemctl start bind"`},
		}))
		assert.Equal(t, []string{`system "systemctl stop bind"`}, m.Hooks.Before)
		assert.Len(t, m.Hooks.After, 2)
	})

	t.Run("utilities_sorted", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"utilities": opts{"tar": "/bin/tar", "riak-admin": "/usr/sbin/riak-admin"}}))
		assert.Equal(t, []string{"riak-admin", "tar"}, m.Utilities.Names)
		assert.Equal(t, "/bin/tar", m.Utilities.Paths["tar"])
	})

	t.Run("schedule_overrides", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{
			"tmp_path":     "/tmp",
			"gem_bin_path": "/usr/local/rvm/gems/ruby-2.2.1/bin",
			"minute":       []interface{}{0, 30},
			"hour":         "*/2",
			"weekday":      "1-5",
		}))
		assert.Equal(t, "/tmp", m.Schedule.TmpPath)
		assert.Equal(t, "/usr/local/rvm/gems/ruby-2.2.1/bin", m.Schedule.BinPath)
		assert.Equal(t, "0,30 */2 * * 1-5", m.Schedule.Expression())
	})

	t.Run("site_defaults_used", func(t *testing.T) {
		site := Site{FQDN: "db1.example.org", BinPath: "/opt/backup/bin", ConfigFile: "/opt/backup/config.rb"}
		m, err := Validate("job1", definition(t, archiveLocal(nil)), site)
		require.NoError(t, err)
		assert.Equal(t, "/opt/backup/bin", m.Schedule.BinPath)
		assert.Equal(t, "/opt/backup/config.rb", m.Schedule.ConfigFile)
	})

	t.Run("ensure_absent", func(t *testing.T) {
		m := mustValidate(t, archiveLocal(opts{"ensure": "absent"}))
		assert.Equal(t, EnsureAbsent, m.Ensure)
	})
}

func TestSite_GetDomain(t *testing.T) {
	assert.Equal(t, "foo.com", Site{FQDN: "testhost.foo.com", Domain: "foo.com"}.GetDomain())
	assert.Equal(t, "example.org", Site{FQDN: "db1.example.org"}.GetDomain())
	assert.Equal(t, "localhost", Site{FQDN: "localhost"}.GetDomain())
}
