package bolt_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/aretw0/humus/pkg/adapters/bolt"
	"github.com/aretw0/humus/pkg/adapters/storetest"
	"github.com/aretw0/humus/pkg/core"
)

func open(t *testing.T, path string, opts bolt.Options) *bolt.Store {
	t.Helper()
	s, err := bolt.Open(path, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBoltStoreSuite(t *testing.T) {
	suite.Run(t, &storetest.StoreSuite{
		New: func() core.Store {
			return open(t, filepath.Join(t.TempDir(), "humus.db"), bolt.Options{})
		},
	})
}

func TestBoltStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "humus.db")

	s, err := bolt.Open(path, bolt.Options{})
	require.NoError(t, err)
	id, err := s.Create(ctx, core.Document{Kind: "user", Fields: core.Metadata{"email": "erickbret@gmail.com"}})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	ro := open(t, path, bolt.Options{ReadOnly: true})
	doc, found, err := ro.FindByID(ctx, "user", id)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "erickbret@gmail.com", doc.Fields["email"])

	_, err = ro.Create(ctx, core.Document{Kind: "user"})
	assert.ErrorIs(t, err, core.ErrReadOnly)
	assert.ErrorIs(t, ro.Delete(ctx, "user", id), core.ErrReadOnly)
	assert.Equal(t, "bolt", ro.ComponentType())
}
