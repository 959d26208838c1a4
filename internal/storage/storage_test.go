package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fakestore/storefront/internal/apperr"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}
	require.NoError(t, store.Put("k", payload{Name: "a", Count: 3}))

	var got payload
	ok, err := store.Get("k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, payload{Name: "a", Count: 3}, got)
}

func TestGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	var got string
	ok, err := store.Get("nope", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestPutOverwrites(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("k", "first"))
	require.NoError(t, store.Put("k", "second"))

	var got string
	ok, err := store.Get("k", &got)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "second", got)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Put("k", "v"))
	require.NoError(t, store.Delete("k"))
	require.NoError(t, store.Delete("k"))

	var got string
	ok, err := store.Get("k", &got)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCorruptRecordIsStorageError(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.DB.Create(&Record{Key: "k", Value: "{not json"}).Error)

	var got map[string]string
	_, err := store.Get("k", &got)
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.Storage))
}
