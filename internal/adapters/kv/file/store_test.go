package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"

	"github.com/bnema/poolify-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetRoundTripAndPermissions(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "store.toml")
	store, err := NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Put(context.Background(), "pools", `[{"id":"p-1"}]`))
	require.NoError(t, store.Put(context.Background(), "viewing_pool_id", "p-1"))
	require.NoError(t, store.Put(context.Background(), "pools", `[]`))

	got, err := store.Get(context.Background(), "pools")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	got, err = store.Get(context.Background(), "viewing_pool_id")
	require.NoError(t, err)
	assert.Equal(t, "p-1", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storeFileMode), info.Mode().Perm())
}

func TestStoreGetMissingKey(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "store.toml"))
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "session")
	assert.True(t, errors.Is(err, domain.ErrKeyNotFound))
}

func TestStoreRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "store.toml"))
	require.NoError(t, err)

	assert.ErrorContains(t, store.Put(context.Background(), "  ", "x"), "blob key is empty")
}

func TestStoreDeleteAndClear(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "store.toml"))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "a", "1"))
	require.NoError(t, store.Put(ctx, "b", "2"))

	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.True(t, errors.Is(err, domain.ErrKeyNotFound))

	require.NoError(t, store.Clear(ctx))
	_, err = store.Get(ctx, "b")
	assert.True(t, errors.Is(err, domain.ErrKeyNotFound))
}

func TestStoreCorruptFileIsReportedThenReplaced(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "pools")
	assert.True(t, errors.Is(err, domain.ErrStorageCorrupt))

	require.NoError(t, store.Put(context.Background(), "pools", "[]"))
	got, err := store.Get(context.Background(), "pools")
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestStoreRejectsNewerSchemaVersion(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = 99\n"), 0o600))

	store, err := NewStore(path)
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "pools")
	assert.ErrorContains(t, err, "unsupported store schema version 99")
}

func TestStoreConcurrentPutsKeepEveryKey(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "store.toml")
	first, err := NewStore(path)
	require.NoError(t, err)
	second, err := NewStore(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			store := first
			if i%2 == 1 {
				store = second
			}
			assert.NoError(t, store.Put(context.Background(), "key-"+strconv.Itoa(i), strconv.Itoa(i)))
		}(i)
	}
	wg.Wait()

	for i := 0; i < 20; i++ {
		got, err := first.Get(context.Background(), "key-"+strconv.Itoa(i))
		require.NoError(t, err)
		assert.Equal(t, strconv.Itoa(i), got)
	}
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	t.Parallel()

	store, err := NewStore(filepath.Join(t.TempDir(), "store.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Put(ctx, "a", "1"), context.Canceled)
}
