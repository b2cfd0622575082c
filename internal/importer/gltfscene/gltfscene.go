// Package gltfscene converts glTF 2.0 documents into scene graphs.
//
// Nodes are visited depth first from the roots of the active scene. Each
// node may contribute a mesh, a camera and a KHR_lights_punctual light;
// nodes carrying none of these become opaque objects. Mesh vertices are
// baked into world space and every primitive is triangulated.
package gltfscene

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/ext/lightspunctual"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/oslexport/internal/scenegraph"
	"github.com/Faultbox/oslexport/pkg/math"
)

// ErrInvalidScene is returned for documents that reference missing data.
var ErrInvalidScene = errors.New("invalid glTF scene")

// Importer converts glTF documents.
type Importer struct {
	log *zap.Logger
}

// New creates an importer. A nil logger discards output.
func New(log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{log: log}
}

// ParseFile opens a .gltf or .glb file and converts it.
func (im *Importer) ParseFile(path string) (*scenegraph.Graph, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF file: %w", err)
	}
	g, err := im.Convert(doc)
	if err != nil {
		return nil, err
	}
	if g.Name == "" {
		g.Name = path
	}
	return g, nil
}

// Convert walks the active scene of doc.
func (im *Importer) Convert(doc *gltf.Document) (*scenegraph.Graph, error) {
	g := &scenegraph.Graph{}

	roots, name, err := rootNodes(doc)
	if err != nil {
		return nil, err
	}
	g.Name = name

	w := walker{
		im:      im,
		doc:     doc,
		g:       g,
		lights:  documentLights(doc),
		visited: make(map[int]bool),
	}
	for _, idx := range roots {
		if err := w.visit(idx, mgl64.Ident4()); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// rootNodes returns the roots of the default scene, falling back to the
// first scene and then to every node that is no other node's child.
func rootNodes(doc *gltf.Document) ([]int, string, error) {
	if len(doc.Scenes) > 0 {
		idx := 0
		if doc.Scene != nil {
			idx = *doc.Scene
		}
		if idx < 0 || idx >= len(doc.Scenes) {
			return nil, "", fmt.Errorf("%w: scene %d out of range", ErrInvalidScene, idx)
		}
		return doc.Scenes[idx].Nodes, doc.Scenes[idx].Name, nil
	}

	child := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots, "", nil
}

func documentLights(doc *gltf.Document) lightspunctual.Lights {
	if doc.Extensions == nil {
		return nil
	}
	lights, _ := doc.Extensions[lightspunctual.ExtensionName].(lightspunctual.Lights)
	return lights
}

type walker struct {
	im      *Importer
	doc     *gltf.Document
	g       *scenegraph.Graph
	lights  lightspunctual.Lights
	visited map[int]bool
}

func (w *walker) visit(idx int, parent mgl64.Mat4) error {
	if idx < 0 || idx >= len(w.doc.Nodes) {
		return fmt.Errorf("%w: node %d out of range", ErrInvalidScene, idx)
	}
	if w.visited[idx] {
		return fmt.Errorf("%w: node %d visited twice", ErrInvalidScene, idx)
	}
	w.visited[idx] = true

	node := w.doc.Nodes[idx]
	world := parent.Mul4(localMatrix(node))
	tr := scenegraph.Transform{Matrix: toMat4(world)}

	name := node.Name
	if name == "" {
		name = fmt.Sprintf("node.%d", idx)
	}

	emitted := false
	if node.Mesh != nil {
		m, err := w.mesh(name, *node.Mesh, tr)
		if err != nil {
			return fmt.Errorf("node %q: %w", name, err)
		}
		w.g.Add(m)
		emitted = true
	}
	if node.Camera != nil {
		if *node.Camera < 0 || *node.Camera >= len(w.doc.Cameras) {
			return fmt.Errorf("%w: node %q: camera %d out of range", ErrInvalidScene, name, *node.Camera)
		}
		w.g.Add(&scenegraph.Camera{ObjectName: name, Transform: tr})
		emitted = true
	}
	if obj, ok, err := w.light(name, node, tr); err != nil {
		return err
	} else if ok {
		w.g.Add(obj)
		emitted = true
	}
	if !emitted {
		w.g.Add(&scenegraph.Other{ObjectName: name, Type: "empty"})
	}

	for _, c := range node.Children {
		if err := w.visit(c, world); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) light(name string, node *gltf.Node, tr scenegraph.Transform) (scenegraph.Object, bool, error) {
	if node.Extensions == nil {
		return nil, false, nil
	}
	ext, ok := node.Extensions[lightspunctual.ExtensionName]
	if !ok {
		return nil, false, nil
	}
	li, ok := ext.(lightspunctual.LightIndex)
	if !ok {
		return nil, false, fmt.Errorf("%w: node %q: malformed %s extension", ErrInvalidScene, name, lightspunctual.ExtensionName)
	}
	if int(li) < 0 || int(li) >= len(w.lights) {
		return nil, false, fmt.Errorf("%w: node %q: light %d out of range", ErrInvalidScene, name, li)
	}

	l := w.lights[li]
	if l.Type != lightspunctual.TypePoint {
		w.im.log.Debug("light type has no point light equivalent",
			zap.String("node", name), zap.String("type", l.Type))
		return &scenegraph.Other{ObjectName: name, Type: "light:" + l.Type}, true, nil
	}
	return &scenegraph.PointLight{ObjectName: name, Transform: tr}, true, nil
}

func (w *walker) mesh(name string, idx int, tr scenegraph.Transform) (*scenegraph.Mesh, error) {
	if idx < 0 || idx >= len(w.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d out of range", ErrInvalidScene, idx)
	}
	src := w.doc.Meshes[idx]
	out := &scenegraph.Mesh{ObjectName: name, Transform: tr}

	// One slot per distinct document material; -1 is the glTF default.
	slots := make(map[int]int)

	for pi, p := range src.Primitives {
		if !triangleMode(p.Mode) {
			w.im.log.Debug("skipping non-triangle primitive",
				zap.String("mesh", name), zap.Int("primitive", pi), zap.Any("mode", p.Mode))
			continue
		}

		posIdx, ok := p.Attributes[gltf.POSITION]
		if !ok || posIdx < 0 || posIdx >= len(w.doc.Accessors) {
			return nil, fmt.Errorf("%w: primitive %d has no POSITION accessor", ErrInvalidScene, pi)
		}
		positions, err := modeler.ReadPosition(w.doc, w.doc.Accessors[posIdx], nil)
		if err != nil {
			return nil, fmt.Errorf("reading positions of primitive %d: %w", pi, err)
		}

		matIdx := -1
		if p.Material != nil {
			matIdx = *p.Material
		}
		slot, ok := slots[matIdx]
		if !ok {
			m, err := w.material(matIdx)
			if err != nil {
				return nil, err
			}
			slot = len(out.Slots)
			slots[matIdx] = slot
			out.Slots = append(out.Slots, m)
		}

		var indices []uint32
		if p.Indices != nil {
			if *p.Indices < 0 || *p.Indices >= len(w.doc.Accessors) {
				return nil, fmt.Errorf("%w: primitive %d: index accessor out of range", ErrInvalidScene, pi)
			}
			indices, err = modeler.ReadIndices(w.doc, w.doc.Accessors[*p.Indices], nil)
			if err != nil {
				return nil, fmt.Errorf("reading indices of primitive %d: %w", pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}
		// A negative determinant reverses the winding of baked vertices.
		mirrored := tr.Mirrored()
		for _, t := range triangles(p.Mode, len(indices)) {
			var v [3]math.Vec3
			for k, at := range t {
				vi := int(indices[at])
				if vi >= len(positions) {
					return nil, fmt.Errorf("%w: primitive %d: vertex index %d out of range", ErrInvalidScene, pi, vi)
				}
				v[k] = tr.Matrix.TransformVec3(math.FromArray(positions[vi]))
			}
			if mirrored {
				v[1], v[2] = v[2], v[1]
			}
			out.Faces = append(out.Faces, scenegraph.Face{
				Vertices:     v,
				Normal:       scenegraph.FaceNormal(v[0], v[1], v[2]),
				MaterialSlot: slot,
			})
		}
	}
	return out, nil
}

func (w *walker) material(idx int) (*scenegraph.Material, error) {
	if idx == -1 {
		return &scenegraph.Material{
			Name:             "default",
			DiffuseColor:     math.Vec3{X: 1, Y: 1, Z: 1},
			DiffuseIntensity: 1,
			SpecularColor:    math.Vec3{X: 1, Y: 1, Z: 1},
		}, nil
	}
	if idx < 0 || idx >= len(w.doc.Materials) {
		return nil, fmt.Errorf("%w: material %d out of range", ErrInvalidScene, idx)
	}

	src := w.doc.Materials[idx]
	base := [4]float64{1, 1, 1, 1}
	if src.PBRMetallicRoughness != nil {
		base = src.PBRMetallicRoughness.BaseColorFactorOrDefault()
	}
	return &scenegraph.Material{
		Name:             src.Name,
		DiffuseColor:     math.Vec3{X: float32(base[0]), Y: float32(base[1]), Z: float32(base[2])},
		DiffuseIntensity: 1,
		SpecularColor:    math.Vec3{X: 1, Y: 1, Z: 1},
	}, nil
}

func triangleMode(mode gltf.PrimitiveMode) bool {
	switch mode {
	case gltf.PrimitiveTriangles, gltf.PrimitiveTriangleStrip, gltf.PrimitiveTriangleFan:
		return true
	}
	return false
}

// triangles expands a primitive of n vertices into index triples. Strip
// triangles alternate winding so every face keeps the same orientation.
func triangles(mode gltf.PrimitiveMode, n int) [][3]int {
	var tris [][3]int
	switch mode {
	case gltf.PrimitiveTriangles:
		for i := 0; i+2 < n; i += 3 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		}
	case gltf.PrimitiveTriangleStrip:
		for i := 0; i+2 < n; i++ {
			if i%2 == 0 {
				tris = append(tris, [3]int{i, i + 1, i + 2})
			} else {
				tris = append(tris, [3]int{i + 1, i, i + 2})
			}
		}
	case gltf.PrimitiveTriangleFan:
		for i := 1; i+1 < n; i++ {
			tris = append(tris, [3]int{0, i, i + 1})
		}
	}
	return tris
}

// localMatrix returns the node matrix, or T * R * S when none is set.
func localMatrix(n *gltf.Node) mgl64.Mat4 {
	if m := n.MatrixOrDefault(); m != gltf.DefaultMatrix {
		return mgl64.Mat4(m)
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()

	q := mgl64.Quat{W: r[3], V: mgl64.Vec3{r[0], r[1], r[2]}}
	return mgl64.Translate3D(t[0], t[1], t[2]).
		Mul4(q.Normalize().Mat4()).
		Mul4(mgl64.Scale3D(s[0], s[1], s[2]))
}

func toMat4(m mgl64.Mat4) math.Mat4 {
	var out math.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
