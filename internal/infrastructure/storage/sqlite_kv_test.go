package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteKVStore(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteKVStore(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	defer store.Close()

	// Yo'q kalit xato emas
	value, err := store.Get(ctx, "yoq-kalit")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, "k", []byte("birinchi")))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("birinchi"), value)

	// Upsert
	require.NoError(t, store.Set(ctx, "k", []byte("ikkinchi")))
	value, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("ikkinchi"), value)
}

func TestNewSQLiteKVStore_EmptyPath(t *testing.T) {
	_, err := NewSQLiteKVStore("")
	assert.Error(t, err)
}
