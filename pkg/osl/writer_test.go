package osl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	vmath "github.com/Faultbox/oslexport/pkg/math"
)

// reader decodes the scalars of a written scene. Decoding is only needed as
// a test oracle.
type reader struct {
	t    *testing.T
	data []byte
	pos  int
}

func (r *reader) u32() uint32 {
	r.t.Helper()
	if r.pos+4 > len(r.data) {
		r.t.Fatalf("truncated output at offset %d", r.pos)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) float() float32 {
	return math.Float32frombits(r.u32())
}

func (r *reader) int() int32 {
	return int32(r.u32())
}

func (r *reader) floats(n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = r.float()
	}
	return out
}

func (r *reader) done() bool {
	return r.pos == len(r.data)
}

func expectFloats(t *testing.T, name string, got, want []float32) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d floats, got %d", name, len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s[%d]: expected %v, got %v", name, i, want[i], got[i])
		}
	}
}

// buildScenario builds the single camera, light, triangle scene.
func buildScenario(t *testing.T) *Scene {
	t.Helper()
	sc := NewScene()
	if err := sc.SetCamera(NewCameraRecord(Camera{
		Eye:    vmath.Vec3{X: 0, Y: 0, Z: 5},
		Up:     vmath.Vec3{X: 0, Y: 1, Z: 0},
		LookAt: vmath.Vec3{X: 0, Y: 0, Z: 4},
	})); err != nil {
		t.Fatalf("SetCamera failed: %v", err)
	}
	if err := sc.AddMaterial(NewMaterialRecord(Material{
		DiffuseColor:     vmath.Vec3{X: 0.8, Y: 0.1, Z: 0.1},
		DiffuseIntensity: 1.0,
		SpecularColor:    vmath.Vec3{X: 1, Y: 1, Z: 1},
	})); err != nil {
		t.Fatalf("AddMaterial failed: %v", err)
	}
	if err := sc.AddLight(NewLightRecord(Light{Position: vmath.Vec3{X: 2, Y: 3, Z: 4}})); err != nil {
		t.Fatalf("AddLight failed: %v", err)
	}
	if err := sc.AddTriangle(NewTriangleRecord(Triangle{
		MaterialIndex: 0,
		A:             vmath.Vec3{X: 0, Y: 0, Z: 0},
		B:             vmath.Vec3{X: 1, Y: 0, Z: 0},
		C:             vmath.Vec3{X: 0, Y: 1, Z: 0},
		Normal:        vmath.Vec3{X: 0, Y: 0, Z: 1},
	})); err != nil {
		t.Fatalf("AddTriangle failed: %v", err)
	}
	return sc
}

func TestWriteScenario(t *testing.T) {
	sc := buildScenario(t)

	var buf bytes.Buffer
	if err := Write(sc, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if int64(buf.Len()) != sc.EncodedSize() {
		t.Errorf("expected %d bytes, got %d", sc.EncodedSize(), buf.Len())
	}

	r := &reader{t: t, data: buf.Bytes()}
	expectFloats(t, "camera", r.floats(CameraFloats), []float32{0, 0, 5, 0, 1, 0, 0, 0, 4, 800, 1})

	// Section prefixes are integers, checked at the byte level.
	if raw := r.u32(); raw != 0x00000000 {
		t.Errorf("texture length: expected 00000000, got %08X", raw)
	}
	if raw := r.u32(); raw != 0x00000001 {
		t.Errorf("material count: expected 00000001, got %08X", raw)
	}
	expectFloats(t, "material", r.floats(MaterialFloats),
		[]float32{0, 0, 0, 0, 0.8, 0.1, 0.1, 1, 1, 1, 1, 1, 0.5, 0.5, 0, 0})

	if raw := r.u32(); raw != 0x00000001 {
		t.Errorf("light count: expected 00000001, got %08X", raw)
	}
	expectFloats(t, "light", r.floats(LightFloats), []float32{1, 6, 2, 3, 4, 1})

	if raw := r.u32(); raw != 0x0000003C {
		t.Errorf("shape bytes: expected 0000003C, got %08X", raw)
	}
	expectFloats(t, "triangle", r.floats(TriangleFloats),
		[]float32{3, 15, 0, 0, 0, 0, 1, 0, 0, 0, 1, 0, 0, 0, 1})

	if !r.done() {
		t.Errorf("unexpected %d trailing bytes", len(r.data)-r.pos)
	}
}

func TestWriteCameraOnly(t *testing.T) {
	sc := NewScene()
	sc.SetCamera(NewCameraRecord(Camera{Up: vmath.Vec3{Y: 1}}))

	var buf bytes.Buffer
	if err := Write(sc, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r := &reader{t: t, data: buf.Bytes()}
	r.floats(CameraFloats)
	if v := r.int(); v != 0 {
		t.Errorf("texture length: expected 0, got %d", v)
	}
	if v := r.int(); v != 0 {
		t.Errorf("material count: expected 0, got %d", v)
	}
	if v := r.int(); v != 0 {
		t.Errorf("light count: expected 0, got %d", v)
	}
	if v := r.int(); v != 0 {
		t.Errorf("shape bytes: expected 0, got %d", v)
	}
	if !r.done() {
		t.Errorf("expected no trailing bytes, %d left", len(r.data)-r.pos)
	}
}

func TestWriteMissingCamera(t *testing.T) {
	sc := NewScene()
	sc.AddMaterial(NewMaterialRecord(Material{}))
	sc.AddTriangle(NewTriangleRecord(Triangle{}))

	var buf bytes.Buffer
	err := Write(sc, &buf)
	if !errors.Is(err, ErrMissingCamera) {
		t.Fatalf("expected ErrMissingCamera, got %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no bytes written, got %d", buf.Len())
	}
}

func TestWriteMaterialsInInsertionOrder(t *testing.T) {
	sc := NewScene()
	sc.SetCamera(NewCameraRecord(Camera{}))
	const n = 5
	for i := 0; i < n; i++ {
		sc.AddMaterial(NewMaterialRecord(Material{DiffuseIntensity: float32(i)}))
	}

	var buf bytes.Buffer
	if err := Write(sc, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r := &reader{t: t, data: buf.Bytes()}
	r.floats(CameraFloats)
	r.int()
	if count := r.int(); count != n {
		t.Fatalf("expected material count %d, got %d", n, count)
	}
	for i := 0; i < n; i++ {
		m := r.floats(MaterialFloats)
		if m[7] != float32(i) {
			t.Errorf("material %d: expected diffuse intensity %d, got %v", i, i, m[7])
		}
	}
}

func TestWriteShapeBytesWithInterleavedAdds(t *testing.T) {
	sc := NewScene()
	sc.SetCamera(NewCameraRecord(Camera{}))
	const n = 7
	for i := 0; i < n; i++ {
		sc.AddLight(NewLightRecord(Light{}))
		sc.AddTriangle(NewTriangleRecord(Triangle{MaterialIndex: i}))
		sc.AddMaterial(NewMaterialRecord(Material{}))
	}

	var buf bytes.Buffer
	if err := Write(sc, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r := &reader{t: t, data: buf.Bytes()}
	r.floats(CameraFloats)
	r.int()
	r.floats(int(r.int()) * MaterialFloats)
	r.floats(int(r.int()) * LightFloats)
	if shape := r.int(); shape != 60*n {
		t.Errorf("expected shape bytes %d, got %d", 60*n, shape)
	}
	for i := 0; i < n; i++ {
		tri := r.floats(TriangleFloats)
		if tri[2] != float32(i) {
			t.Errorf("triangle %d: expected material index %d, got %v", i, i, tri[2])
		}
	}
	if !r.done() {
		t.Error("unexpected trailing bytes")
	}
}

func TestWriteIdempotent(t *testing.T) {
	sc := buildScenario(t)

	var a, b bytes.Buffer
	if err := Write(sc, &a); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}
	if err := Write(sc, &b); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("writing the same scene twice produced different output")
	}
}

func TestWriteSinkFailure(t *testing.T) {
	sc := buildScenario(t)
	// Camera and texture length fit; the material count does not.
	w := &failWriter{limit: CameraFloats*4 + 4}

	n, err := sc.WriteTo(w)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T (%v)", err, err)
	}
	if ioErr.Op != "material section length" {
		t.Errorf("expected failing op %q, got %q", "material section length", ioErr.Op)
	}
	if !errors.Is(err, errSinkFull) {
		t.Errorf("expected wrapped sink error, got %v", err)
	}
	if n != int64(w.limit) {
		t.Errorf("expected %d bytes reported, got %d", w.limit, n)
	}
}
