package editor

import (
	"slices"

	"github.com/ironsheep/pixel-editor/internal/imaging"
)

type snapshot struct {
	info imaging.ImageInfo
	pix  []byte
}

// SnapshotSave stores a deep copy of the live image, replacing any previous
// snapshot. Saving an empty store is allowed; restoring it empties the store.
func (s *Session) SnapshotSave() {
	s.snap = &snapshot{info: s.info, pix: slices.Clone(s.pix)}
}

// SnapshotRestore replaces the live image with a copy of the snapshot. The
// snapshot is kept, so it can be restored again.
func (s *Session) SnapshotRestore() error {
	if s.snap == nil {
		return ErrNoSnapshot
	}
	s.commit(s.snap.info, slices.Clone(s.snap.pix))
	return nil
}

// SnapshotClear discards the snapshot, if any.
func (s *Session) SnapshotClear() {
	s.snap = nil
}

// HasSnapshot reports whether SnapshotRestore would succeed.
func (s *Session) HasSnapshot() bool {
	return s.snap != nil
}
