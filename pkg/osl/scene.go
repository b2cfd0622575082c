package osl

import "fmt"

// Scene accumulates the records of one export.
//
// Records are cloned on insertion and never modified afterwards. The
// material offset and triangle byte length are running totals updated on
// every insertion, so the order of calls matters.
type Scene struct {
	camera    *Record
	materials []*Record
	lights    []*Record
	triangles []*Record

	materialOffset int
	triangleBytes  int
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// AddMaterial appends a material record and advances the material offset.
func (s *Scene) AddMaterial(r *Record) error {
	if err := checkLayout("material", r, MaterialFloats); err != nil {
		return err
	}
	s.materials = append(s.materials, r.Clone())
	s.materialOffset++
	return nil
}

// AddTriangle appends a triangle record and adds its byte length to the
// shape section total.
func (s *Scene) AddTriangle(r *Record) error {
	if r == nil {
		return ErrNilRecord
	}
	if r.Len() == 0 {
		return fmt.Errorf("%w: empty triangle", ErrRecordLayout)
	}
	s.triangles = append(s.triangles, r.Clone())
	s.triangleBytes += r.ByteLength()
	return nil
}

// AddLight appends a light record.
func (s *Scene) AddLight(r *Record) error {
	if err := checkLayout("light", r, LightFloats); err != nil {
		return err
	}
	s.lights = append(s.lights, r.Clone())
	return nil
}

// SetCamera stores the camera block, replacing any previous one.
func (s *Scene) SetCamera(r *Record) error {
	if err := checkLayout("camera", r, CameraFloats); err != nil {
		return err
	}
	s.camera = r.Clone()
	return nil
}

// HasCamera reports whether a camera block was set.
func (s *Scene) HasCamera() bool {
	return s.camera != nil
}

// MaterialOffset returns the number of materials added so far.
func (s *Scene) MaterialOffset() int {
	return s.materialOffset
}

// TotalTriangleBytes returns the running byte length of the shape section.
func (s *Scene) TotalTriangleBytes() int {
	return s.triangleBytes
}

// MaterialCount returns the number of material records.
func (s *Scene) MaterialCount() int {
	return len(s.materials)
}

// LightCount returns the number of light records.
func (s *Scene) LightCount() int {
	return len(s.lights)
}

// TriangleCount returns the number of triangle records.
func (s *Scene) TriangleCount() int {
	return len(s.triangles)
}

// EncodedSize returns the number of bytes Write produces for this scene.
// It is zero when no camera was set.
func (s *Scene) EncodedSize() int64 {
	if s.camera == nil {
		return 0
	}
	n := s.camera.ByteLength()
	n += ScalarSize // texture section length
	n += ScalarSize + len(s.materials)*MaterialFloats*ScalarSize
	n += ScalarSize + len(s.lights)*LightFloats*ScalarSize
	n += ScalarSize + s.triangleBytes
	return int64(n)
}

func checkLayout(section string, r *Record, want int) error {
	if r == nil {
		return ErrNilRecord
	}
	if r.Len() != want {
		return fmt.Errorf("%w: %s has %d values, want %d", ErrRecordLayout, section, r.Len(), want)
	}
	return nil
}
