package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/pixel-editor/internal/imaging"
)

func TestSnapshotRoundTrip(t *testing.T) {
	orig := gradient(4, 4)
	s := loaded(t, orig, 4, 4)
	s.SnapshotSave()
	require.True(t, s.HasSnapshot())

	require.NoError(t, s.Crop(1, 1, 2, 2))
	require.NoError(t, s.Grayscale(imaging.Brightness))
	require.NoError(t, s.SnapshotRestore())

	assert.Equal(t, orig, s.Pixels())
	assert.Equal(t, uint32(4), s.Width())
	assert.False(t, s.IsGrayscale())

	// The snapshot survives a restore and is not aliased by the live image.
	require.NoError(t, s.Posterize(false, 2, 2, 2))
	require.NoError(t, s.SnapshotRestore())
	assert.Equal(t, orig, s.Pixels())
}

func TestSnapshotKeepsInfo(t *testing.T) {
	s := loaded(t, solid(2, 2, imaging.Pixel{9, 9, 9, 3}), 2, 2)
	require.NoError(t, s.Grayscale(imaging.Average))
	s.SnapshotSave()

	s.MakeOpaque()
	require.NoError(t, s.Scale(3, 3, imaging.Bilinear))
	require.NoError(t, s.SnapshotRestore())

	assert.True(t, s.IsGrayscale())
	assert.True(t, s.HasAlpha())
}

func TestSnapshotRestoreWithoutSave(t *testing.T) {
	orig := gradient(2, 2)
	s := loaded(t, orig, 2, 2)
	assert.ErrorIs(t, s.SnapshotRestore(), ErrNoSnapshot)
	assert.Equal(t, orig, s.Pixels())
}

func TestSnapshotClear(t *testing.T) {
	s := loaded(t, gradient(2, 2), 2, 2)
	s.SnapshotSave()
	s.SnapshotClear()
	assert.False(t, s.HasSnapshot())
	assert.ErrorIs(t, s.SnapshotRestore(), ErrNoSnapshot)
}

func TestSnapshotOfEmptyStore(t *testing.T) {
	s := New()
	s.SnapshotSave()
	require.True(t, s.HasSnapshot())

	require.NoError(t, s.LoadRaw(gradient(1, 1), 1, 1))
	assert.False(t, s.HasSnapshot(), "loading discards the snapshot")

	empty := New()
	empty.SnapshotSave()
	require.NoError(t, empty.SnapshotRestore())
	assert.Equal(t, uint32(0), empty.Width())
	assert.Empty(t, empty.Pixels())
}
