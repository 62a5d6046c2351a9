package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// verticesPerVoxel is the number of mesh vertices one exported voxel occupies.
var verticesPerVoxel = len(model.CubeVertices)

// ExportGLB writes m as a binary glTF file: a single mesh made of one colored cube per
// voxel, in grid coordinates. The file can be opened by other tools or loaded back.
//
// Parameters:
//   - m: the model to export
//   - path: destination file path
//
// Returns:
//   - error: ErrEmptyModel for a model without voxels, or the write error
func ExportGLB(m model.VoxelModel, path string) error {
	doc, err := buildGLTFDocument(m)
	if err != nil {
		return err
	}
	if err := gltf.SaveBinary(doc, path); err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	return nil
}

// buildGLTFDocument expands every instance into a full cube with per-vertex color.
func buildGLTFDocument(m model.VoxelModel) (*gltf.Document, error) {
	instances := m.Instances()
	if len(instances) == 0 {
		return nil, fmt.Errorf("cannot export %q: %w", m.Name(), ErrEmptyModel)
	}

	n := len(instances) * verticesPerVoxel
	positions := make([][3]float32, 0, n)
	normals := make([][3]float32, 0, n)
	colors := make([][4]uint8, 0, n)
	indices := make([]uint32, 0, len(instances)*len(model.CubeIndices))

	for i, inst := range instances {
		x, y, z := float32(inst.Position[0]), float32(inst.Position[1]), float32(inst.Position[2])
		for _, v := range model.CubeVertices {
			positions = append(positions, [3]float32{v.Position[0] + x, v.Position[1] + y, v.Position[2] + z})
			normals = append(normals, [3]float32{v.Normal[0], v.Normal[1], v.Normal[2]})
			colors = append(colors, inst.Color)
		}
		base := uint32(i * verticesPerVoxel)
		for _, idx := range model.CubeIndices {
			indices = append(indices, base+uint32(idx))
		}
	}

	doc := gltf.NewDocument()
	prim := &gltf.Primitive{
		Indices: gltf.Index(modeler.WriteIndices(doc, indices)),
	}
	prim.Attributes = map[string]int{
		gltf.POSITION: modeler.WritePosition(doc, positions),
		gltf.NORMAL:   modeler.WriteNormal(doc, normals),
		gltf.COLOR_0:  modeler.WriteColor(doc, colors),
	}

	doc.Meshes = append(doc.Meshes, &gltf.Mesh{
		Name:       m.Name(),
		Primitives: []*gltf.Primitive{prim},
	})
	doc.Nodes = append(doc.Nodes, &gltf.Node{Name: m.Name(), Mesh: gltf.Index(0)})
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc, nil
}
