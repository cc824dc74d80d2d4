package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlayStagesWithoutTouchingBase(t *testing.T) {
	base := NewMemDB()
	defer base.Close()
	require.NoError(t, base.Put([]byte("kept"), []byte("base")))

	overlay := NewOverlay(base)
	require.NoError(t, overlay.Put([]byte("staged"), []byte("value")))
	require.NoError(t, overlay.Delete([]byte("kept")))
	require.True(t, overlay.Dirty())

	// The overlay sees its own view.
	value, err := overlay.Get([]byte("staged"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)
	_, err = overlay.Get([]byte("kept"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	// The base is untouched until commit.
	_, err = base.Get([]byte("staged"))
	require.ErrorIs(t, err, ErrKeyNotFound)
	value, err = base.Get([]byte("kept"))
	require.NoError(t, err)
	require.Equal(t, []byte("base"), value)
}

func TestOverlayCommitAppliesChanges(t *testing.T) {
	base := NewMemDB()
	defer base.Close()
	require.NoError(t, base.Put([]byte("kept"), []byte("base")))

	overlay := NewOverlay(base)
	require.NoError(t, overlay.Put([]byte("staged"), []byte("value")))
	require.NoError(t, overlay.Delete([]byte("kept")))
	require.NoError(t, overlay.Commit())
	require.False(t, overlay.Dirty())

	value, err := base.Get([]byte("staged"))
	require.NoError(t, err)
	require.Equal(t, []byte("value"), value)
	_, err = base.Get([]byte("kept"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestOverlayCloseDiscards(t *testing.T) {
	base := NewMemDB()
	defer base.Close()

	overlay := NewOverlay(base)
	require.NoError(t, overlay.Put([]byte("staged"), []byte("value")))
	overlay.Close()
	require.False(t, overlay.Dirty())

	_, err := base.Get([]byte("staged"))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestOverlayReadsThroughToBase(t *testing.T) {
	base := NewMemDB()
	defer base.Close()
	require.NoError(t, base.Put([]byte("k"), []byte("base")))

	overlay := NewOverlay(base)
	value, err := overlay.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("base"), value)

	ok, err := overlay.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOverlayPutAfterDelete(t *testing.T) {
	base := NewMemDB()
	defer base.Close()
	require.NoError(t, base.Put([]byte("k"), []byte("base")))

	overlay := NewOverlay(base)
	require.NoError(t, overlay.Delete([]byte("k")))
	require.NoError(t, overlay.Put([]byte("k"), []byte("new")))
	require.NoError(t, overlay.Commit())

	value, err := base.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("new"), value)
}
