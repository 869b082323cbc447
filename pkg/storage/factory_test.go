package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williamokano/backupgen/pkg/storage"
	"github.com/williamokano/backupgen/pkg/storage/mocks"
)

func TestFactory(t *testing.T) {
	ctx := context.Background()

	var created []*mocks.MockBackend
	storage.RegisterBackend("factory_test", func(ctx context.Context, cfg storage.Config) (storage.Backend, error) {
		if cfg.Options["fail"] == true {
			return nil, errors.New("cannot connect")
		}
		m := newMock(t, cfg.Name, "factory_test")
		m.On("Close").Return(nil).Maybe()
		created = append(created, m)
		return m, nil
	})

	f := storage.NewFactory()

	t.Run("create", func(t *testing.T) {
		b, err := f.Create(ctx, storage.Config{Name: "one", Type: "factory_test"})
		require.NoError(t, err)
		assert.Equal(t, "one", b.Name())
	})

	t.Run("unknown_type", func(t *testing.T) {
		_, err := f.Create(ctx, storage.Config{Name: "x", Type: "ftp"})
		assert.ErrorIs(t, err, storage.ErrInvalidConfig)
	})

	t.Run("disabled", func(t *testing.T) {
		_, err := f.Create(ctx, storage.Config{Name: "x", Type: "factory_test", Disabled: true})
		assert.Error(t, err)
	})

	t.Run("create_all_skips_disabled", func(t *testing.T) {
		backends, err := f.CreateAll(ctx, []storage.Config{
			{Name: "a", Type: "factory_test"},
			{Name: "b", Type: "factory_test", Disabled: true},
			{Name: "c", Type: "factory_test"},
		})
		require.NoError(t, err)
		require.Len(t, backends, 2)
		assert.Equal(t, "a", backends[0].Name())
		assert.Equal(t, "c", backends[1].Name())
	})

	t.Run("create_all_closes_on_failure", func(t *testing.T) {
		created = nil
		_, err := f.CreateAll(ctx, []storage.Config{
			{Name: "a", Type: "factory_test"},
			{Name: "b", Type: "factory_test", Options: map[string]interface{}{"fail": true}},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create backend b")
		require.Len(t, created, 1)
		created[0].AssertCalled(t, "Close")
	})
}
