package platform_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/humus/internal/platform"
	"github.com/aretw0/humus/pkg/adapters/bolt"
	"github.com/aretw0/humus/pkg/adapters/fs"
	"github.com/aretw0/humus/pkg/adapters/memory"
)

func TestInit(t *testing.T) {
	t.Run("fs creates the directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data")
		store, err := platform.Init(path, platform.WithFormat("yaml"))
		require.NoError(t, err)

		repo, ok := store.(*fs.Repository)
		require.True(t, ok)
		assert.Equal(t, path, repo.Path)
		assert.DirExists(t, path)

		state := repo.State().(fs.RepositoryState)
		assert.Equal(t, ".yaml", state.Format)
		assert.Equal(t, platform.DefaultSystemDir, state.SystemDir)
	})

	t.Run("fs must exist", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "nope"), platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("fs read-only never creates", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "nope"), platform.WithReadOnly(true))
		assert.Error(t, err)
	})

	t.Run("bolt in a directory", func(t *testing.T) {
		dir := t.TempDir()
		store, err := platform.Init(dir, platform.WithAdapter(platform.AdapterBolt))
		require.NoError(t, err)
		b, ok := store.(*bolt.Store)
		require.True(t, ok)
		defer b.Close()
		assert.FileExists(t, filepath.Join(dir, platform.DefaultSystemDir, "humus.db"))
	})

	t.Run("bolt read-only needs a database", func(t *testing.T) {
		_, err := platform.Init(filepath.Join(t.TempDir(), "x.db"),
			platform.WithAdapter(platform.AdapterBolt), platform.WithReadOnly(true))
		assert.Error(t, err)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := platform.Init("", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, store)
	})

	t.Run("injected store wins", func(t *testing.T) {
		injected := memory.NewStore()
		store, err := platform.Init("ignored", platform.WithAdapter("nope"), platform.WithStore(injected))
		require.NoError(t, err)
		assert.Same(t, injected, store)
	})

	t.Run("unknown adapter", func(t *testing.T) {
		_, err := platform.Init("x", platform.WithAdapter("s3"))
		assert.Error(t, err)
	})
}

func TestClose(t *testing.T) {
	svc, err := platform.New(t.TempDir(), platform.WithAdapter(platform.AdapterBolt))
	require.NoError(t, err)
	require.NoError(t, platform.Close(svc))

	mem, err := platform.New("", platform.WithAdapter(platform.AdapterMemory))
	require.NoError(t, err)
	assert.NoError(t, platform.Close(mem))
}
