package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/YasinHossain/quran-app-sub003/internal/persist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdapter(t *testing.T) {
	a, err := NewInMemory()
	require.NoError(t, err)
	defer a.Close()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		_, err := a.ReadRaw("absent")
		assert.ErrorIs(t, err, persist.ErrNotFound)
	})

	t.Run("write then read", func(t *testing.T) {
		require.NoError(t, a.WriteRaw("k", `{"v":1}`))
		v, err := a.ReadRaw("k")
		require.NoError(t, err)
		assert.Equal(t, `{"v":1}`, v)
	})

	t.Run("write overwrites", func(t *testing.T) {
		require.NoError(t, a.WriteRaw("k", "first"))
		require.NoError(t, a.WriteRaw("k", "second"))
		v, err := a.ReadRaw("k")
		require.NoError(t, err)
		assert.Equal(t, "second", v)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, a.WriteRaw("gone", "x"))
		require.NoError(t, a.RemoveRaw("gone"))
		require.NoError(t, a.RemoveRaw("gone"))
		_, err := a.ReadRaw("gone")
		assert.ErrorIs(t, err, persist.ErrNotFound)
	})
}

func TestAdapter_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.db")

	a, err := New(path)
	require.NoError(t, err)
	require.NoError(t, a.WriteRaw("k", "survives"))
	require.NoError(t, a.Close())

	b, err := New(path)
	require.NoError(t, err)
	defer b.Close()

	v, err := b.ReadRaw("k")
	require.NoError(t, err)
	assert.Equal(t, "survives", v)
}

func TestAdapter_Closed(t *testing.T) {
	a, err := NewInMemory()
	require.NoError(t, err)
	require.NoError(t, a.Close())

	_, err = a.ReadRaw("k")
	assert.ErrorIs(t, err, persist.ErrAdapterClosed)
	assert.ErrorIs(t, a.WriteRaw("k", "v"), persist.ErrAdapterClosed)
	assert.ErrorIs(t, a.RemoveRaw("k"), persist.ErrAdapterClosed)
}
