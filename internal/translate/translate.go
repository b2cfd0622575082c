// Package translate converts scene graph objects into OSL records.
package translate

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/oslexport/internal/scenegraph"
	"github.com/Faultbox/oslexport/pkg/math"
	"github.com/Faultbox/oslexport/pkg/osl"
)

// DefaultMaterial is written for empty slots that no face references, so
// the indices of the following slots stay aligned.
var DefaultMaterial = osl.Material{
	DiffuseColor:     math.Vec3{X: 0.8, Y: 0.8, Z: 0.8},
	DiffuseIntensity: 0.8,
	SpecularColor:    math.Vec3{X: 1, Y: 1, Z: 1},
}

// Translator appends the records of scene objects to a scene, one object
// at a time. It is not safe for concurrent use: the material offset of the
// scene is order dependent.
type Translator struct {
	scene *osl.Scene
	log   *zap.Logger
}

// New returns a translator writing into sc. A nil logger disables logging.
func New(sc *osl.Scene, log *zap.Logger) *Translator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{scene: sc, log: log}
}

// Scene returns the scene being populated.
func (t *Translator) Scene() *osl.Scene {
	return t.scene
}

// Translate converts one object. On failure nothing from that object is
// added to the scene.
func (t *Translator) Translate(obj scenegraph.Object) error {
	switch o := obj.(type) {
	case *scenegraph.Mesh:
		return t.Mesh(o)
	case *scenegraph.PointLight:
		return t.PointLight(o)
	case *scenegraph.Camera:
		return t.Camera(o)
	case *scenegraph.Other:
		t.log.Debug("skipping unsupported object",
			zap.String("object", o.ObjectName),
			zap.String("type", o.Type))
		return nil
	default:
		return fmt.Errorf("translate: unknown object type %T", obj)
	}
}

// Build translates every object of g into a new scene, stopping at the
// first failure.
func Build(g *scenegraph.Graph, log *zap.Logger) (*osl.Scene, error) {
	t := New(osl.NewScene(), log)
	for _, obj := range g.Objects {
		if err := t.Translate(obj); err != nil {
			return nil, err
		}
	}
	return t.scene, nil
}

// Mesh adds one material per slot, in slot order, followed by one triangle
// per face. Triangle material indices are the face slot plus the material
// offset captured before this mesh's materials were added.
func (t *Translator) Mesh(m *scenegraph.Mesh) error {
	base := t.scene.MaterialOffset()

	triangles := make([]*osl.Record, 0, len(m.Faces))
	for i, f := range m.Faces {
		field := fmt.Sprintf("faces[%d]", i)
		if f.MaterialSlot < 0 || f.MaterialSlot >= len(m.Slots) {
			return &TranslationError{
				Object: m.ObjectName,
				Field:  field + ".material_slot",
				Err:    fmt.Errorf("%w: slot %d of %d", ErrSlotOutOfRange, f.MaterialSlot, len(m.Slots)),
			}
		}
		if m.Slots[f.MaterialSlot] == nil {
			return &TranslationError{
				Object: m.ObjectName,
				Field:  fmt.Sprintf("material_slots[%d]", f.MaterialSlot),
				Err:    ErrMissingMaterial,
			}
		}
		for v, p := range f.Vertices {
			if !p.IsFinite() {
				return &TranslationError{Object: m.ObjectName, Field: fmt.Sprintf("%s.vertices[%d]", field, v), Err: ErrNonFinite}
			}
		}
		if !f.Normal.IsFinite() {
			return &TranslationError{Object: m.ObjectName, Field: field + ".normal", Err: ErrNonFinite}
		}

		triangles = append(triangles, osl.NewTriangleRecord(osl.Triangle{
			MaterialIndex: base + f.MaterialSlot,
			A:             f.Vertices[0],
			B:             f.Vertices[1],
			C:             f.Vertices[2],
			Normal:        f.Normal,
		}))
	}

	materials := make([]*osl.Record, 0, len(m.Slots))
	for i, slot := range m.Slots {
		if slot == nil {
			t.log.Warn("empty material slot, writing default material",
				zap.String("object", m.ObjectName),
				zap.Int("slot", i))
			materials = append(materials, osl.NewMaterialRecord(DefaultMaterial))
			continue
		}
		mat, err := material(slot)
		if err != nil {
			return &TranslationError{Object: m.ObjectName, Field: fmt.Sprintf("material_slots[%d].%s", i, err.field), Err: err.err}
		}
		materials = append(materials, osl.NewMaterialRecord(mat))
	}

	for _, r := range materials {
		if err := t.scene.AddMaterial(r); err != nil {
			return err
		}
	}
	for _, r := range triangles {
		if err := t.scene.AddTriangle(r); err != nil {
			return err
		}
	}

	t.log.Debug("added mesh",
		zap.String("object", m.ObjectName),
		zap.Int("materials", len(materials)),
		zap.Int("triangles", len(triangles)),
		zap.Int("material_offset", base))
	return nil
}

// PointLight adds a light at the object's world position.
func (t *Translator) PointLight(l *scenegraph.PointLight) error {
	pos := l.Transform.Position()
	if !pos.IsFinite() {
		return &TranslationError{Object: l.ObjectName, Field: "location", Err: ErrNonFinite}
	}

	if err := t.scene.AddLight(osl.NewLightRecord(osl.Light{Position: pos})); err != nil {
		return err
	}
	t.log.Debug("added point light", zap.String("object", l.ObjectName))
	return nil
}

// Camera sets the scene camera from the object's world transform. The look
// at point is one unit along the camera's -Z axis. A later camera replaces
// an earlier one; which camera wins depends on the host's traversal order.
func (t *Translator) Camera(c *scenegraph.Camera) error {
	mat := c.Transform.Matrix
	if !mat.IsFinite() {
		return &TranslationError{Object: c.ObjectName, Field: "matrix_world", Err: ErrNonFinite}
	}
	if mat.Determinant3x3() == 0 {
		return &TranslationError{Object: c.ObjectName, Field: "matrix_world", Err: ErrDegenerateTransform}
	}

	eye := c.Transform.Position()
	up := c.Transform.Basis(1)
	forward := c.Transform.Basis(2)

	rec := osl.NewCameraRecord(osl.Camera{
		Eye:    eye,
		Up:     up,
		LookAt: eye.Sub(forward),
	})

	replaced := t.scene.HasCamera()
	if err := t.scene.SetCamera(rec); err != nil {
		return err
	}
	if replaced {
		t.log.Warn("multiple cameras in scene, last one wins", zap.String("object", c.ObjectName))
	} else {
		t.log.Debug("added camera", zap.String("object", c.ObjectName))
	}
	return nil
}

type fieldError struct {
	field string
	err   error
}

func material(m *scenegraph.Material) (osl.Material, *fieldError) {
	switch {
	case !m.DiffuseColor.IsFinite():
		return osl.Material{}, &fieldError{"diffuse_color", ErrNonFinite}
	case !m.SpecularColor.IsFinite():
		return osl.Material{}, &fieldError{"specular_color", ErrNonFinite}
	case !math.IsFinite(m.DiffuseIntensity):
		return osl.Material{}, &fieldError{"diffuse_intensity", ErrNonFinite}
	}
	return osl.Material{
		DiffuseColor:     m.DiffuseColor,
		DiffuseIntensity: m.DiffuseIntensity,
		SpecularColor:    m.SpecularColor,
	}, nil
}
