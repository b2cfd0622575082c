package osl

import (
	"fmt"
	"io"
	"math"
)

// Write serializes sc to w in section order: camera, textures, materials,
// lights, shapes.
//
// Materials and lights are prefixed with their record count, the shape
// section with its total byte length. Nothing is written when the scene has
// no camera.
func Write(sc *Scene, w io.Writer) error {
	_, err := sc.WriteTo(w)
	return err
}

// WriteTo implements io.WriterTo. See Write.
func (s *Scene) WriteTo(w io.Writer) (int64, error) {
	if s.camera == nil {
		return 0, ErrMissingCamera
	}
	if s.triangleBytes > math.MaxInt32 {
		return 0, fmt.Errorf("%w: shape section of %d bytes overflows int32", ErrRecordLayout, s.triangleBytes)
	}

	enc := NewEncoder(w)

	if err := s.camera.encode(enc); err != nil {
		return enc.Written(), ioError("camera", err)
	}

	// Textures are not exported; the section is always empty.
	if err := enc.WriteInt32(0); err != nil {
		return enc.Written(), ioError("texture section length", err)
	}

	if err := writeSection(enc, "material", int32(len(s.materials)), s.materials); err != nil {
		return enc.Written(), err
	}
	if err := writeSection(enc, "light", int32(len(s.lights)), s.lights); err != nil {
		return enc.Written(), err
	}
	if err := writeSection(enc, "shape", int32(s.triangleBytes), s.triangles); err != nil {
		return enc.Written(), err
	}

	return enc.Written(), nil
}

func writeSection(enc *Encoder, name string, prefix int32, records []*Record) error {
	if err := enc.WriteInt32(prefix); err != nil {
		return ioError(name+" section length", err)
	}
	for i, r := range records {
		if err := r.encode(enc); err != nil {
			return ioError(fmt.Sprintf("%s %d", name, i), err)
		}
	}
	return nil
}
