package job

import (
	"strings"
)

// S3Regions are the region names accepted for aws_region
var S3Regions = []string{
	"us-east-1", "us-east-2", "us-west-1", "us-west-2",
	"ca-central-1",
	"eu-west-1", "eu-west-2", "eu-west-3", "eu-central-1", "eu-north-1", "eu-south-1",
	"ap-northeast-1", "ap-northeast-2", "ap-northeast-3",
	"ap-southeast-1", "ap-southeast-2", "ap-south-1", "ap-east-1",
	"sa-east-1",
	"me-south-1", "af-south-1",
}

const defaultFTPPort = 21

func joinStorage() string {
	names := make([]string, 0, len(SupportedStorage))
	for _, k := range SupportedStorage {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

func validateStorage(v *validation) error {
	val, ok := v.lookup("storage_type")
	if !ok {
		// syncer-only jobs may run without a storage
		if v.m.HasType(TypeSyncer) {
			return nil
		}
		return fail(ErrMissingRequired, "storage_type",
			"A storage_type must be set. Currently supported storage types are %s", joinStorage())
	}

	name, _ := val.AsString()
	kind := StorageKind(name)
	supported := false
	for _, k := range SupportedStorage {
		if k == kind {
			supported = true
		}
	}
	if !supported {
		return fail(ErrInvalidEnum, "storage_type", "Currently supported storage types are %s", joinStorage())
	}
	if v.m.HasType(TypeSyncer) && kind != StorageLocal {
		return errSyncerStorage()
	}

	storage := &Storage{Kind: kind}

	keep, err := v.optInt("keep", "keep must be an integer")
	if err != nil {
		return err
	}
	if keep != nil && *keep < 0 {
		return fail(ErrInvalidRange, "keep", "keep must be zero or a positive integer")
	}
	storage.Keep = keep

	split, err := v.optInt("split_into", "If split_into is set it must be an integer")
	if err != nil {
		return err
	}
	if split != nil && *split <= 0 {
		return fail(ErrInvalidRange, "split_into", "split_into must be a positive integer")
	}
	storage.SplitInto = split

	switch kind {
	case StorageLocal:
		storage.Local, err = v.localStorage()
	case StorageS3:
		storage.S3, err = v.s3Storage()
	case StorageFTP:
		storage.FTP, err = v.ftpStorage()
	case StorageRSync:
		storage.RSync, err = v.rsyncStorage()
	}
	if err != nil {
		return err
	}

	v.m.Storage = storage
	return nil
}

func (v *validation) storagePath(kind StorageKind) (string, error) {
	return v.require("path", "Path parameter is required with "+string(kind)+" storage")
}

func (v *validation) localStorage() (*LocalStorage, error) {
	path, err := v.storagePath(StorageLocal)
	if err != nil {
		return nil, err
	}
	return &LocalStorage{Path: path}, nil
}

func (v *validation) s3Storage() (*S3Storage, error) {
	reduced, err := v.optBool("reduced_redundancy")
	if err != nil {
		return nil, err
	}

	s3 := &S3Storage{ReducedRedundancy: reduced}
	if s3.AccessKey, err = v.require("aws_access_key", "Parameter aws_access_key is required for S3 storage"); err != nil {
		return nil, err
	}
	if s3.SecretKey, err = v.require("aws_secret_key", "Parameter aws_secret_key is required for S3 storage"); err != nil {
		return nil, err
	}
	if s3.Bucket, err = v.require("bucket", "S3 bucket must be specified"); err != nil {
		return nil, err
	}

	if region, ok, err := v.text("aws_region"); err != nil {
		return nil, err
	} else if ok {
		if !isS3Region(region) {
			return nil, fail(ErrInvalidEnum, "aws_region", "%s is an invalid region", region)
		}
		s3.Region = region
	}

	if s3.Path, err = v.textOr("path", v.site.FQDN); err != nil {
		return nil, err
	}
	return s3, nil
}

func isS3Region(region string) bool {
	for _, r := range S3Regions {
		if r == region {
			return true
		}
	}
	return false
}

func (v *validation) ftpStorage() (*FTPStorage, error) {
	ftp := &FTPStorage{Port: defaultFTPPort}
	var err error

	if ftp.Username, err = v.require("storage_username", "Parameter storage_username is required for ftp storage"); err != nil {
		return nil, err
	}
	if ftp.Password, err = v.require("storage_password", "Parameter storage_password is required for ftp storage"); err != nil {
		return nil, err
	}
	if ftp.Host, err = v.require("storage_host", "Parameter storage_host is required for ftp storage"); err != nil {
		return nil, err
	}

	port, err := v.optInt("ftp_port", "ftp_port must be an integer")
	if err != nil {
		return nil, err
	}
	if port != nil {
		ftp.Port = *port
	}

	if ftp.PassiveMode, err = v.boolOr("ftp_passive_mode", false); err != nil {
		return nil, err
	}
	if ftp.Path, err = v.storagePath(StorageFTP); err != nil {
		return nil, err
	}
	return ftp, nil
}

// rsyncMode reads rsync_mode, leaving it empty when not supplied
func (v *validation) rsyncMode() (RSyncMode, error) {
	val, ok := v.lookup("rsync_mode")
	if !ok {
		return "", nil
	}
	s, _ := val.AsString()
	for _, m := range SupportedRSyncModes {
		if RSyncMode(s) == m {
			return m, nil
		}
	}
	return "", fail(ErrInvalidEnum, "rsync_mode", "%s is not a valid mode", val.Text())
}

func (v *validation) rsyncStorage() (*RSyncStorage, error) {
	mode, err := v.rsyncMode()
	if err != nil {
		return nil, err
	}

	rsync := &RSyncStorage{Mode: mode}
	if rsync.Host, err = v.require("storage_host", "Parameter storage_host is required for rsync storage"); err != nil {
		return nil, err
	}
	if rsync.Username, _, err = v.text("storage_username"); err != nil {
		return nil, err
	}
	if rsync.Path, err = v.storagePath(StorageRSync); err != nil {
		return nil, err
	}
	if rsync.Port, err = v.optInt("rsync_port", "rsync_port must be an integer"); err != nil {
		return nil, err
	}
	if rsync.Compress, err = v.optBool("rsync_compress"); err != nil {
		return nil, err
	}
	if rsync.PasswordFile, _, err = v.strictString("rsync_password_file"); err != nil {
		return nil, err
	}
	return rsync, nil
}

func errSyncerStorage() error {
	return fail(ErrMutuallyExclusive, "storage_type", "When using syncers with storage you should only use local storage")
}

func validateSyncer(v *validation) error {
	if !v.m.HasType(TypeSyncer) {
		return nil
	}

	if v.m.Storage != nil && v.m.Storage.Kind != StorageLocal {
		return errSyncerStorage()
	}
	if v.m.Storage == nil && len(v.m.Types) > 1 {
		return fail(ErrMutuallyExclusive, "types", "When using syncers do not use archive when no storage_type is used")
	}

	val, ok := v.lookup("syncer_type")
	if !ok {
		return fail(ErrMissingRequired, "syncer_type", "Supported syncers are %s", SyncerRSync)
	}
	if s, _ := val.AsString(); SyncerKind(s) != SyncerRSync {
		return fail(ErrInvalidEnum, "syncer_type", "Supported syncers are %s", SyncerRSync)
	}

	syncer := &Syncer{Kind: SyncerRSync}
	var err error
	if syncer.Host, err = v.require("storage_host", "Parameter storage_host is required for rsync syncer"); err != nil {
		return err
	}
	if syncer.Username, err = v.require("storage_username", "Parameter storage_username is required for rsync syncer"); err != nil {
		return err
	}
	if syncer.Mode, err = v.rsyncMode(); err != nil {
		return err
	}
	if syncer.Add, syncer.Exclude, err = v.paths("syncer"); err != nil {
		return err
	}
	// with local storage configured, path belongs to the storage
	if v.m.Storage == nil {
		if syncer.Path, _, err = v.text("path"); err != nil {
			return err
		}
	}
	if syncer.Port, err = v.optInt("rsync_port", "rsync_port must be an integer"); err != nil {
		return err
	}
	if syncer.Compress, err = v.optBool("rsync_compress"); err != nil {
		return err
	}
	if syncer.Mirror, err = v.optBool("rsync_mirror"); err != nil {
		return err
	}
	if syncer.PasswordFile, _, err = v.strictString("rsync_password_file"); err != nil {
		return err
	}

	v.m.Syncer = syncer
	return nil
}
