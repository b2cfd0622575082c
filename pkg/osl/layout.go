package osl

import "github.com/Faultbox/oslexport/pkg/math"

// Record sizes in scalars.
const (
	MaterialFloats = 16
	TriangleFloats = 15
	LightFloats    = 6

	// CameraRevision identifies the camera block layout. Revision 3 dropped
	// the orthonormal basis from the block and appended view-plane distance
	// and zoom.
	CameraRevision = 3
	CameraFloats   = 11
)

// Shape record tags. The renderer uses type and size to skip records it
// does not understand.
const (
	LightType    = 1.0
	TriangleType = 3.0
)

// Placeholder material fields. Materials carry no ambient term, reflection,
// refraction or textures yet, so these are always written as constants.
const (
	materialAmbient           = 0.0
	materialAmbientIntensity  = 0.0
	materialSpecularIntensity = 1.0
	materialSpecularPower     = 0.5
	materialReflection        = 0.5
	materialRefraction        = 0.0
	materialTextureCount      = 0.0
)

// Camera trailing constants, matching the renderer's default camera.
const (
	CameraViewPlaneDistance = 800.0
	CameraZoom              = 1.0
)

// LightIntensity is the only intensity point lights are written with.
const LightIntensity = 1.0

// Material holds the authored fields of a material record.
type Material struct {
	DiffuseColor     math.Vec3
	DiffuseIntensity float32
	SpecularColor    math.Vec3
}

// Triangle holds the fields of a triangle shape record.
type Triangle struct {
	MaterialIndex int
	A, B, C       math.Vec3
	Normal        math.Vec3
}

// Light holds the fields of a point light record.
type Light struct {
	Position math.Vec3
}

// Camera holds the fields of the camera block.
type Camera struct {
	Eye    math.Vec3
	Up     math.Vec3
	LookAt math.Vec3
}

// NewMaterialRecord builds a 16-float material record.
func NewMaterialRecord(m Material) *Record {
	r := NewRecord(MaterialFloats)
	r.PushFloat(materialAmbient).PushFloat(materialAmbient).PushFloat(materialAmbient)
	r.PushFloat(materialAmbientIntensity)
	r.PushVec3(m.DiffuseColor)
	r.PushFloat(m.DiffuseIntensity)
	r.PushVec3(m.SpecularColor)
	r.PushFloat(materialSpecularIntensity)
	r.PushFloat(materialSpecularPower)
	r.PushFloat(materialReflection)
	r.PushFloat(materialRefraction)
	r.PushFloat(materialTextureCount)
	return r
}

// NewTriangleRecord builds a 15-float triangle shape record.
func NewTriangleRecord(t Triangle) *Record {
	r := NewRecord(TriangleFloats)
	r.PushFloat(TriangleType)
	r.PushFloat(TriangleFloats)
	r.PushFloat(float32(t.MaterialIndex))
	r.PushVec3(t.A).PushVec3(t.B).PushVec3(t.C)
	r.PushVec3(t.Normal)
	return r
}

// NewLightRecord builds a 6-float point light record.
func NewLightRecord(l Light) *Record {
	r := NewRecord(LightFloats)
	r.PushFloat(LightType)
	r.PushFloat(LightFloats)
	r.PushVec3(l.Position)
	r.PushFloat(LightIntensity)
	return r
}

// NewCameraRecord builds the camera block for CameraRevision.
func NewCameraRecord(c Camera) *Record {
	r := NewRecord(CameraFloats)
	r.PushVec3(c.Eye)
	r.PushVec3(c.Up)
	r.PushVec3(c.LookAt)
	r.PushFloat(CameraViewPlaneDistance)
	r.PushFloat(CameraZoom)
	return r
}
