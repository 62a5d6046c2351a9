package loader

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/Carmen-Shannon/oxy-vox/engine/model"
	"github.com/qmuntal/gltf"
)

// gltfLoaderBackendImpl is the implementation of gltfLoaderBackend.
type gltfLoaderBackendImpl struct{}

// gltfLoaderBackend is a loaderBackend implementation for GLB files produced by ExportGLB.
// Every primitive must be a list of unit cubes, 24 vertices each, with a POSITION and an
// unsigned byte COLOR_0 attribute.
type gltfLoaderBackend interface {
	loaderBackend
}

var _ gltfLoaderBackend = &gltfLoaderBackendImpl{}

// newGLTFLoaderBackend creates a new GLB loader backend.
//
// Returns:
//   - gltfLoaderBackend: the loader backend for GLB files
func newGLTFLoaderBackend() gltfLoaderBackend {
	return &gltfLoaderBackendImpl{}
}

func (b *gltfLoaderBackendImpl) Decode(r io.Reader) (*model.ImportedScene, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(r).Decode(doc); err != nil {
		return nil, err
	}

	scene := &model.ImportedScene{}
	colorIndex := make(map[color.RGBA]uint8)

	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			sub, err := decodeCubePrimitive(doc, prim, &scene.Palette, colorIndex)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: %w", mesh.Name, err)
			}
			scene.Models = append(scene.Models, sub)
		}
	}
	return scene, nil
}

// decodeCubePrimitive turns one exported cube list back into voxels. Colors are interned
// into palette as they appear.
func decodeCubePrimitive(doc *gltf.Document, prim *gltf.Primitive, palette *model.Palette, colorIndex map[color.RGBA]uint8) (model.ImportedModel, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return model.ImportedModel{}, fmt.Errorf("%w: primitive has no %s", ErrUnsupportedFormat, gltf.POSITION)
	}
	colIdx, ok := prim.Attributes[gltf.COLOR_0]
	if !ok {
		return model.ImportedModel{}, fmt.Errorf("%w: primitive has no %s", ErrUnsupportedFormat, gltf.COLOR_0)
	}
	if posIdx >= len(doc.Accessors) || colIdx >= len(doc.Accessors) {
		return model.ImportedModel{}, fmt.Errorf("%w: accessor index out of range", ErrUnsupportedFormat)
	}
	posAccessor := doc.Accessors[posIdx]
	colAccessor := doc.Accessors[colIdx]

	if posAccessor.ComponentType != gltf.ComponentFloat || posAccessor.Type != gltf.AccessorVec3 {
		return model.ImportedModel{}, fmt.Errorf("%w: %s must be float VEC3", ErrUnsupportedFormat, gltf.POSITION)
	}
	if colAccessor.ComponentType != gltf.ComponentUbyte || colAccessor.Type != gltf.AccessorVec4 {
		return model.ImportedModel{}, fmt.Errorf("%w: %s must be unsigned byte VEC4", ErrUnsupportedFormat, gltf.COLOR_0)
	}

	vertexCount := int(posAccessor.Count)
	if vertexCount%verticesPerVoxel != 0 || int(colAccessor.Count) != vertexCount {
		return model.ImportedModel{}, fmt.Errorf("%w: %d vertices is not a cube list", ErrUnsupportedFormat, vertexCount)
	}

	posData, posStride, err := accessorData(doc, posAccessor, 12)
	if err != nil {
		return model.ImportedModel{}, err
	}
	colData, colStride, err := accessorData(doc, colAccessor, 4)
	if err != nil {
		return model.ImportedModel{}, err
	}

	readPos := func(i int) [3]float32 {
		offset := i * posStride
		return [3]float32{
			math.Float32frombits(binary.LittleEndian.Uint32(posData[offset+0:])),
			math.Float32frombits(binary.LittleEndian.Uint32(posData[offset+4:])),
			math.Float32frombits(binary.LittleEndian.Uint32(posData[offset+8:])),
		}
	}

	sub := model.ImportedModel{Voxels: make([]model.Voxel, 0, vertexCount/verticesPerVoxel)}
	for first := 0; first < vertexCount; first += verticesPerVoxel {
		// Cube vertices span [cell, cell+1]; the minimum corner is the cell.
		corner := [3]float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
		for i := first; i < first+verticesPerVoxel; i++ {
			p := readPos(i)
			for axis := 0; axis < 3; axis++ {
				corner[axis] = min(corner[axis], p[axis])
			}
		}

		var cell [3]uint8
		for axis := 0; axis < 3; axis++ {
			if corner[axis] < 0 || corner[axis] > 255 {
				return model.ImportedModel{}, fmt.Errorf("%w: voxel at %v outside the 0-255 grid", ErrUnsupportedFormat, corner)
			}
			cell[axis] = uint8(corner[axis])
			sub.Size[axis] = max(sub.Size[axis], uint32(cell[axis])+1)
		}

		c := colData[first*colStride : first*colStride+4]
		rgba := color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
		idx, ok := colorIndex[rgba]
		if !ok {
			if len(colorIndex) == 255 {
				return model.ImportedModel{}, fmt.Errorf("%w: more than 255 distinct colors", ErrUnsupportedFormat)
			}
			idx = uint8(len(colorIndex) + 1)
			colorIndex[rgba] = idx
			palette[idx] = rgba
		}

		sub.Voxels = append(sub.Voxels, model.Voxel{X: cell[0], Y: cell[1], Z: cell[2], ColorIndex: idx})
	}
	return sub, nil
}

// accessorData returns the accessor's bytes starting at its first element, and the stride.
func accessorData(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil || *acc.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("%w: accessor without buffer view", ErrUnsupportedFormat)
	}
	view := doc.BufferViews[*acc.BufferView]
	if view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("%w: buffer index out of range", ErrUnsupportedFormat)
	}
	data := doc.Buffers[view.Buffer].Data

	stride := int(view.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	base := int(view.ByteOffset) + int(acc.ByteOffset)
	count := int(acc.Count)
	if count > 0 && base+(count-1)*stride+elemSize > len(data) {
		return nil, 0, fmt.Errorf("%w: accessor overruns its buffer", ErrUnsupportedFormat)
	}
	return data[base:], stride, nil
}
