// Package editor holds the single-image editing session.
//
// A Session owns one RGBA8 image plus an optional snapshot. Images enter
// through LoadRaw or Decode and leave through Encode or Pixels; everything in
// between (Crop, Scale, Grayscale, Posterize, MakeOpaque) rewrites the live
// image. Operations that fail leave the session exactly as it was.
//
//	s := editor.New(editor.WithLogger(logger))
//	if err := s.Decode(data); err != nil {
//		return err
//	}
//	s.SnapshotSave()
//	if err := s.Scale(64, 64, imaging.Bicubic); err != nil {
//		return err
//	}
//	png, err := s.Encode(codec.PNG)
//
// A Session must not be used from several goroutines at once.
package editor
