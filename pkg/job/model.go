package job

// Ensure is the desired state of a job's generated artifacts
type Ensure string

const (
	EnsurePresent Ensure = "present"
	EnsureAbsent  Ensure = "absent"
)

// BackupType is one of the recognized backup kinds
type BackupType string

const (
	TypeArchive    BackupType = "archive"
	TypeMongoDB    BackupType = "mongodb"
	TypeMySQL      BackupType = "mysql"
	TypePostgreSQL BackupType = "postgresql"
	TypeRedis      BackupType = "redis"
	TypeRiak       BackupType = "riak"
	TypeSyncer     BackupType = "syncer"
)

// SupportedTypes lists the backup types in the order they are documented
var SupportedTypes = []BackupType{TypeArchive, TypeMongoDB, TypeMySQL, TypePostgreSQL, TypeRedis, TypeRiak, TypeSyncer}

// StorageKind is the backend a backup package is shipped to
type StorageKind string

const (
	StorageLocal StorageKind = "local"
	StorageS3    StorageKind = "s3"
	StorageFTP   StorageKind = "ftp"
	StorageRSync StorageKind = "rsync"
)

var SupportedStorage = []StorageKind{StorageLocal, StorageS3, StorageFTP, StorageRSync}

// RSyncMode is the transport used by rsync storage and syncers
type RSyncMode string

const (
	ModeSSH         RSyncMode = "ssh"
	ModeSSHDaemon   RSyncMode = "ssh_daemon"
	ModeRSyncDaemon RSyncMode = "rsync_daemon"
)

var SupportedRSyncModes = []RSyncMode{ModeSSH, ModeSSHDaemon, ModeRSyncDaemon}

type SyncerKind string

const SyncerRSync SyncerKind = "rsync"

type CompressorKind string

const (
	CompressorGzip  CompressorKind = "gzip"
	CompressorBzip2 CompressorKind = "bzip2"
)

type EncryptorKind string

const EncryptorOpenSSL EncryptorKind = "openssl"

const (
	MinCompressionLevel = 1
	MaxCompressionLevel = 9
)

// Model is the validated, immutable description of one backup job
type Model struct {
	Title      string
	Identifier string
	Label      string
	Ensure     Ensure
	Types      []BackupType

	Archive    *Archive
	MongoDB    *MongoDB
	MySQL      *MySQL
	PostgreSQL *PostgreSQL
	Redis      *Redis
	Riak       *Riak

	Storage    *Storage
	Syncer     *Syncer
	Compressor *Compressor
	Encryptor  *Encryptor

	Email *Email
	Chat  *Chat

	Logging   Logging
	Hooks     Hooks
	Utilities Utilities
	Schedule  Schedule
}

// HasType reports whether t was declared
func (m *Model) HasType(t BackupType) bool {
	for _, declared := range m.Types {
		if declared == t {
			return true
		}
	}
	return false
}

// Archive lists the paths packed into the tar archive
type Archive struct {
	Add     []string
	Exclude []string
}

// Connection holds the fields shared by database dumps
type Connection struct {
	Name     string
	Host     string
	Username string
	Password string
	Port     *int
}

type MongoDB struct {
	Connection
	Lock        *bool
	Collections []string
}

type MySQL struct {
	Connection
	SkipTables []string
}

type PostgreSQL struct {
	Connection
	SkipTables []string
}

type Redis struct {
	RDBPath  string
	Host     string
	Password string
	Port     *int
}

type Riak struct {
	Node   string
	Cookie string
}

// Storage is the target the packaged backup is stored with. Exactly one of
// the kind-specific fields is set, matching Kind.
type Storage struct {
	Kind      StorageKind
	Keep      *int
	SplitInto *int

	Local *LocalStorage
	S3    *S3Storage
	FTP   *FTPStorage
	RSync *RSyncStorage
}

type LocalStorage struct {
	Path string
}

type S3Storage struct {
	AccessKey         string
	SecretKey         string
	Bucket            string
	Region            string
	Path              string
	ReducedRedundancy *bool
}

type FTPStorage struct {
	Username    string
	Password    string
	Host        string
	Path        string
	Port        int
	PassiveMode bool
}

type RSyncStorage struct {
	Host         string
	Username     string
	Path         string
	Mode         RSyncMode
	Port         *int
	Compress     *bool
	PasswordFile string
}

// Syncer mirrors directories straight to a remote host
type Syncer struct {
	Kind         SyncerKind
	Mode         RSyncMode
	Host         string
	Username     string
	Path         string
	Port         *int
	Compress     *bool
	Mirror       *bool
	PasswordFile string
	Add          []string
	Exclude      []string
}

type Compressor struct {
	Kind  CompressorKind
	Level *int
}

type Encryptor struct {
	Kind     EncryptorKind
	Password string
	Base64   bool
	Salt     bool
}

// Email configures the mail notifier
type Email struct {
	To        string
	From      string
	RelayHost string
	RelayPort int
	Domain    string
	OnSuccess bool
	OnWarning bool
	OnFailure bool
}

// Chat configures the HipChat notifier
type Chat struct {
	Token     string
	Rooms     []string
	From      string
	OnSuccess bool
	OnWarning bool
	OnFailure bool
}

// Logging holds the logger flags; nil means not set
type Logging struct {
	ConsoleQuiet   *bool
	LogfileEnabled *bool
	SyslogEnabled  *bool
}

// Configured reports whether any flag was set explicitly
func (l Logging) Configured() bool {
	return l.ConsoleQuiet != nil || l.LogfileEnabled != nil || l.SyslogEnabled != nil
}

type Hooks struct {
	Before []string
	After  []string
}

// Utilities maps utility names to absolute path overrides
type Utilities struct {
	Names []string // sorted
	Paths map[string]string
}

// Schedule holds the paths and timing of the scheduled run
type Schedule struct {
	BinPath    string
	ConfigFile string
	TmpPath    string
	Minute     string
	Hour       string
	MonthDay   string
	Month      string
	Weekday    string
}

// Expression returns the five-field cron expression
func (s Schedule) Expression() string {
	return s.Minute + " " + s.Hour + " " + s.MonthDay + " " + s.Month + " " + s.Weekday
}
