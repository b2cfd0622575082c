// Package yamlscene reads scene graphs from a YAML description.
//
// A scene file lists objects in traversal order:
//
//	name: demo
//	objects:
//	  - name: Camera
//	    type: camera
//	    location: [0, 0, 5]
//	  - name: Lamp
//	    type: point_light
//	    location: [2, 3, 4]
//	  - name: Tri
//	    type: mesh
//	    materials:
//	      - name: Red
//	        diffuse_color: [0.8, 0.1, 0.1]
//	        diffuse_intensity: 1.0
//	        specular_color: [1, 1, 1]
//	    vertices: [[0, 0, 0], [1, 0, 0], [0, 1, 0]]
//	    faces:
//	      - indices: [0, 1, 2]
//	        material: 0
//
// Rotations are XYZ Euler angles in degrees. Polygons with more than three
// vertices are fan-triangulated; faces without a normal get one computed
// from their winding.
package yamlscene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/oslexport/internal/scenegraph"
	"github.com/Faultbox/oslexport/pkg/math"
)

// ErrInvalidScene is returned for structurally invalid scene files.
var ErrInvalidScene = errors.New("invalid scene description")

// Material defaults for fields a scene file leaves out.
var (
	defaultDiffuseColor     = math.Vec3{X: 0.8, Y: 0.8, Z: 0.8}
	defaultDiffuseIntensity = float32(0.8)
	defaultSpecularColor    = math.Vec3{X: 1, Y: 1, Z: 1}
)

type document struct {
	Name    string   `yaml:"name"`
	Objects []object `yaml:"objects"`
}

type object struct {
	Name      string      `yaml:"name"`
	Type      string      `yaml:"type"`
	Location  []float32   `yaml:"location"`
	Rotation  []float32   `yaml:"rotation"`
	Scale     []float32   `yaml:"scale"`
	Materials []*material `yaml:"materials"`
	Vertices  [][]float32 `yaml:"vertices"`
	Faces     []face      `yaml:"faces"`
}

type material struct {
	Name             string    `yaml:"name"`
	DiffuseColor     []float32 `yaml:"diffuse_color"`
	DiffuseIntensity *float32  `yaml:"diffuse_intensity"`
	SpecularColor    []float32 `yaml:"specular_color"`
}

type face struct {
	Indices  []int     `yaml:"indices"`
	Material int       `yaml:"material"`
	Normal   []float32 `yaml:"normal"`
}

// Parse decodes a YAML scene description.
func Parse(data []byte) (*scenegraph.Graph, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}

	g := &scenegraph.Graph{Name: doc.Name}
	for i, o := range doc.Objects {
		name := o.Name
		if name == "" {
			name = fmt.Sprintf("object.%03d", i)
		}
		obj, err := convert(name, o)
		if err != nil {
			return nil, fmt.Errorf("%w: object %q: %v", ErrInvalidScene, name, err)
		}
		g.Add(obj)
	}
	return g, nil
}

// ParseFile parses a YAML scene description from disk.
func ParseFile(path string) (*scenegraph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return Parse(data)
}

func convert(name string, o object) (scenegraph.Object, error) {
	switch strings.ToLower(o.Type) {
	case "mesh":
		tr, err := transform(o)
		if err != nil {
			return nil, err
		}
		return mesh(name, tr, o)
	case "point_light", "light", "lamp":
		tr, err := transform(o)
		if err != nil {
			return nil, err
		}
		return &scenegraph.PointLight{ObjectName: name, Transform: tr}, nil
	case "camera":
		tr, err := transform(o)
		if err != nil {
			return nil, err
		}
		return &scenegraph.Camera{ObjectName: name, Transform: tr}, nil
	case "":
		return nil, errors.New("missing type")
	default:
		return &scenegraph.Other{ObjectName: name, Type: o.Type}, nil
	}
}

// transform builds the local-to-world matrix as T * R * S.
func transform(o object) (scenegraph.Transform, error) {
	loc, err := vec3(o.Location, math.Vec3{})
	if err != nil {
		return scenegraph.Transform{}, fmt.Errorf("location: %w", err)
	}
	rot, err := vec3(o.Rotation, math.Vec3{})
	if err != nil {
		return scenegraph.Transform{}, fmt.Errorf("rotation: %w", err)
	}
	scale, err := vec3(o.Scale, math.Vec3{X: 1, Y: 1, Z: 1})
	if err != nil {
		return scenegraph.Transform{}, fmt.Errorf("scale: %w", err)
	}

	m := math.Translate(loc.X, loc.Y, loc.Z).
		Mul(math.EulerXYZ(math.Radians(rot.X), math.Radians(rot.Y), math.Radians(rot.Z))).
		Mul(math.Scale(scale.X, scale.Y, scale.Z))
	return scenegraph.Transform{Matrix: m}, nil
}

func mesh(name string, tr scenegraph.Transform, o object) (*scenegraph.Mesh, error) {
	m := &scenegraph.Mesh{ObjectName: name, Transform: tr}

	for i, mat := range o.Materials {
		if mat == nil {
			m.Slots = append(m.Slots, nil)
			continue
		}
		slot, err := convertMaterial(mat)
		if err != nil {
			return nil, fmt.Errorf("materials[%d]: %w", i, err)
		}
		m.Slots = append(m.Slots, slot)
	}

	verts := make([]math.Vec3, len(o.Vertices))
	for i, v := range o.Vertices {
		p, err := vec3(v, math.Vec3{})
		if err != nil || v == nil {
			return nil, fmt.Errorf("vertices[%d]: expected 3 components", i)
		}
		verts[i] = tr.Matrix.TransformVec3(p)
	}

	for i, f := range o.Faces {
		if len(f.Indices) < 3 {
			return nil, fmt.Errorf("faces[%d]: need at least 3 vertices, got %d", i, len(f.Indices))
		}
		for _, idx := range f.Indices {
			if idx < 0 || idx >= len(verts) {
				return nil, fmt.Errorf("faces[%d]: vertex index %d out of range", i, idx)
			}
		}

		var normal *math.Vec3
		if f.Normal != nil {
			n, err := vec3(f.Normal, math.Vec3{})
			if err != nil {
				return nil, fmt.Errorf("faces[%d].normal: %w", i, err)
			}
			if n = tr.Matrix.TransformNormal(n); n != (math.Vec3{}) {
				normal = &n
			}
		}

		for _, tri := range scenegraph.Fan(f.Indices) {
			a, b, c := verts[tri[0]], verts[tri[1]], verts[tri[2]]
			if tr.Mirrored() {
				b, c = c, b
			}
			n := scenegraph.FaceNormal(a, b, c)
			if normal != nil {
				n = *normal
			}
			m.Faces = append(m.Faces, scenegraph.Face{
				Vertices:     [3]math.Vec3{a, b, c},
				Normal:       n,
				MaterialSlot: f.Material,
			})
		}
	}
	return m, nil
}

func convertMaterial(mat *material) (*scenegraph.Material, error) {
	diffuse, err := vec3(mat.DiffuseColor, defaultDiffuseColor)
	if err != nil {
		return nil, fmt.Errorf("diffuse_color: %w", err)
	}
	specular, err := vec3(mat.SpecularColor, defaultSpecularColor)
	if err != nil {
		return nil, fmt.Errorf("specular_color: %w", err)
	}
	intensity := defaultDiffuseIntensity
	if mat.DiffuseIntensity != nil {
		intensity = *mat.DiffuseIntensity
	}
	return &scenegraph.Material{
		Name:             mat.Name,
		DiffuseColor:     diffuse,
		DiffuseIntensity: intensity,
		SpecularColor:    specular,
	}, nil
}

// vec3 converts a YAML sequence, using def when the field is absent.
func vec3(v []float32, def math.Vec3) (math.Vec3, error) {
	if v == nil {
		return def, nil
	}
	if len(v) != 3 {
		return math.Vec3{}, fmt.Errorf("expected 3 components, got %d", len(v))
	}
	return math.Vec3{X: v[0], Y: v[1], Z: v[2]}, nil
}
