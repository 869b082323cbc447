package s3

import (
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/backupgen/pkg/storage"
)

// fakeAPI keeps objects in memory. Methods the backend never calls for small
// bodies fall through to the nil embedded interface.
type fakeAPI struct {
	API

	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeAPI) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.contentTypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeAPI) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(f.objects[k]))),
			LastModified: aws.Time(time.Unix(0, 0)),
		})
	}
	return out, nil
}

func TestParseConfig(t *testing.T) {
	t.Run("prefix_defaults_to_base_dir", func(t *testing.T) {
		c, err := parseConfig(storage.Config{
			Name:    "mirror",
			BaseDir: "etc/backup",
			Options: map[string]interface{}{"region": "us-east-1", "bucket": "configs"},
		})
		require.NoError(t, err)
		assert.Equal(t, "etc/backup", c.Prefix)
		assert.Empty(t, c.AccessKeyID)
		assert.False(t, c.ForcePathStyle)
	})

	t.Run("static_credentials_need_secret", func(t *testing.T) {
		_, err := parseConfig(storage.Config{
			Name:    "mirror",
			Options: map[string]interface{}{"region": "us-east-1", "bucket": "configs", "access_key_id": "AKIA"},
		})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("missing_bucket", func(t *testing.T) {
		_, err := parseConfig(storage.Config{Name: "mirror", Options: map[string]interface{}{"region": "us-east-1"}})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})
}

func TestBackend(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	b := NewWithClient("mirror", api, "configs", "/etc/backup/")

	require.NoError(t, b.Write(ctx, "models/job1.rb", []byte("model")))
	require.NoError(t, b.Write(ctx, "models/alpha.rb", []byte("a")))
	require.NoError(t, b.Write(ctx, "cron.d/job1-backup", []byte("cron")))

	assert.Equal(t, []byte("model"), api.objects["etc/backup/models/job1.rb"])
	assert.Equal(t, "text/plain; charset=utf-8", api.contentTypes["etc/backup/models/job1.rb"])

	t.Run("list", func(t *testing.T) {
		files, err := b.List(ctx, "models/*.rb")
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "models/alpha.rb", files[0].Path)
		assert.Equal(t, "models/job1.rb", files[1].Path)
		assert.Equal(t, int64(5), files[1].Size)
	})

	t.Run("exists_and_delete", func(t *testing.T) {
		exists, err := b.Exists(ctx, "cron.d/job1-backup")
		require.NoError(t, err)
		assert.True(t, exists)

		require.NoError(t, b.Delete(ctx, "cron.d/job1-backup"))

		exists, err = b.Exists(ctx, "cron.d/job1-backup")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not_found", &types.NotFound{}, storage.ErrNotFound},
		{"no_such_key", &types.NoSuchKey{}, storage.ErrNotFound},
		{"no_such_bucket", &types.NoSuchBucket{}, storage.ErrInvalidConfig},
		{"deadline", context.DeadlineExceeded, storage.ErrTimeout},
		{"access_denied", &smithy.GenericAPIError{Code: "AccessDenied"}, storage.ErrPermissionDenied},
		{"bad_key", &smithy.GenericAPIError{Code: "InvalidAccessKeyId"}, storage.ErrAuthFailed},
		{"other", errors.New("reset by peer"), storage.ErrConnFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestExtractPrefix(t *testing.T) {
	assert.Equal(t, "models/", extractPrefix("models/*.rb"))
	assert.Equal(t, "cron.d/job", extractPrefix("cron.d/job?-backup"))
	assert.Equal(t, "models/job1.rb", extractPrefix("models/job1.rb"))
	assert.Equal(t, "", extractPrefix("*"))
}
