// Package scenegraph describes the objects a host application hands to the
// exporter: meshes, point lights, cameras and anything else it enumerates.
package scenegraph

import (
	"fmt"

	"github.com/Faultbox/oslexport/pkg/math"
)

// Kind identifies the variant of an Object.
type Kind int

// Object kinds.
const (
	KindOther Kind = iota
	KindMesh
	KindPointLight
	KindCamera
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMesh:
		return "mesh"
	case KindPointLight:
		return "point_light"
	case KindCamera:
		return "camera"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Object is one entry of the scene graph. It is implemented only by
// *Mesh, *PointLight, *Camera and *Other.
type Object interface {
	Name() string
	Kind() Kind
	sealed()
}

// Transform is a local-to-world matrix.
type Transform struct {
	Matrix math.Mat4
}

// IdentityTransform returns a transform that leaves coordinates unchanged.
func IdentityTransform() Transform {
	return Transform{Matrix: math.Identity()}
}

// Position returns the world position of the object origin.
func (t Transform) Position() math.Vec3 {
	return t.Matrix.Translation()
}

// Basis returns local axis i (0=X, 1=Y, 2=Z) expressed in world space.
func (t Transform) Basis(i int) math.Vec3 {
	return t.Matrix.Column(i)
}

// Mirrored reports whether the transform flips handedness. Baked vertices
// of a mirrored object have reversed winding.
func (t Transform) Mirrored() bool {
	return t.Matrix.Determinant3x3() < 0
}

// Material is the subset of material properties the format carries.
type Material struct {
	Name             string
	DiffuseColor     math.Vec3
	DiffuseIntensity float32
	SpecularColor    math.Vec3
}

// Face is a triangle. Vertices are in world space and in the host's loop
// order. Faces with more vertices must be triangulated before they get here.
type Face struct {
	Vertices     [3]math.Vec3
	Normal       math.Vec3
	MaterialSlot int
}

// Mesh is a triangulated mesh with its material slots.
// A nil slot is an empty slot in the host.
type Mesh struct {
	ObjectName string
	Transform  Transform
	Slots      []*Material
	Faces      []Face
}

// PointLight is an omnidirectional light.
type PointLight struct {
	ObjectName string
	Transform  Transform
}

// Camera is a scene camera. It looks down its local -Z axis with +Y up.
type Camera struct {
	ObjectName string
	Transform  Transform
}

// Other is any object the exporter does not translate.
type Other struct {
	ObjectName string
	Type       string
}

func (m *Mesh) Name() string       { return m.ObjectName }
func (l *PointLight) Name() string { return l.ObjectName }
func (c *Camera) Name() string     { return c.ObjectName }
func (o *Other) Name() string      { return o.ObjectName }

func (*Mesh) Kind() Kind       { return KindMesh }
func (*PointLight) Kind() Kind { return KindPointLight }
func (*Camera) Kind() Kind     { return KindCamera }
func (*Other) Kind() Kind      { return KindOther }

func (*Mesh) sealed()       {}
func (*PointLight) sealed() {}
func (*Camera) sealed()     {}
func (*Other) sealed()      {}

// Graph is the ordered list of objects of one scene, in enumeration order.
type Graph struct {
	Name    string
	Objects []Object
}

// Add appends objects to the graph.
func (g *Graph) Add(objs ...Object) {
	g.Objects = append(g.Objects, objs...)
}

// Counts returns the number of objects per kind.
func (g *Graph) Counts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, obj := range g.Objects {
		counts[obj.Kind()]++
	}
	return counts
}

// FaceNormal returns the unit normal of the triangle a, b, c with
// counter-clockwise winding.
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Fan triangulates a convex polygon given as vertex indices, keeping the
// first vertex as the pivot. Polygons with fewer than 3 vertices yield nothing.
func Fan(indices []int) [][3]int {
	if len(indices) < 3 {
		return nil
	}
	tris := make([][3]int, 0, len(indices)-2)
	for i := 1; i+1 < len(indices); i++ {
		tris = append(tris, [3]int{indices[0], indices[i], indices[i+1]})
	}
	return tris
}
