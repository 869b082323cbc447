package s3

import "github.com/williamokano/backupgen/pkg/storage"

// Config holds S3 configuration
type Config struct {
	Endpoint        string // Optional: for MinIO / localstack
	Region          string
	Bucket          string
	Prefix          string // Object key prefix, joined with base_dir
	AccessKeyID     string // Optional: falls back to the default credential chain
	SecretAccessKey string
	ForcePathStyle  bool
}

func parseConfig(cfg storage.Config) (*Config, error) {
	opts := storage.Options(cfg.Options)
	c := &Config{}
	var err error

	if c.Endpoint, err = opts.String("endpoint", false); err != nil {
		return nil, err
	}
	if c.Region, err = opts.String("region", true); err != nil {
		return nil, err
	}
	if c.Bucket, err = opts.String("bucket", true); err != nil {
		return nil, err
	}
	if c.Prefix, err = opts.String("prefix", false); err != nil {
		return nil, err
	}
	if c.Prefix == "" {
		c.Prefix = cfg.BaseDir
	}
	if c.AccessKeyID, err = opts.String("access_key_id", false); err != nil {
		return nil, err
	}
	if c.SecretAccessKey, err = opts.String("secret_access_key", c.AccessKeyID != ""); err != nil {
		return nil, err
	}
	if c.ForcePathStyle, err = opts.Bool("force_path_style", false); err != nil {
		return nil, err
	}

	return c, nil
}
