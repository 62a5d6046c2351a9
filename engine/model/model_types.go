package model

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// Voxel is one filled grid cell as stored in a voxel file. ColorIndex 0 is never
// written by editors; 1..255 address the palette.
type Voxel struct {
	X, Y, Z    uint8
	ColorIndex uint8
}

// Palette maps a voxel color index to its color. Entry 0 is unused.
type Palette [256]color.RGBA

// paletteLevels are the six channel values of the default palette's color cube.
var paletteLevels = [6]uint8{0xff, 0xcc, 0x99, 0x66, 0x33, 0x00}

// paletteRamp is the ten-step shade ramp appended after the color cube.
var paletteRamp = [10]uint8{0xee, 0xdd, 0xbb, 0xaa, 0x88, 0x77, 0x55, 0x44, 0x22, 0x11}

// DefaultPalette returns the palette MagicaVoxel uses for files without an RGBA chunk:
// a 6x6x6 color cube without black, followed by red, green, blue and gray ramps.
//
// Returns:
//   - Palette: the default palette
func DefaultPalette() Palette {
	var p Palette
	i := 1
	for _, r := range paletteLevels {
		for _, g := range paletteLevels {
			for _, b := range paletteLevels {
				if r == 0 && g == 0 && b == 0 {
					continue
				}
				p[i] = color.RGBA{R: r, G: g, B: b, A: 0xff}
				i++
			}
		}
	}
	for channel := 0; channel < 4; channel++ {
		for _, v := range paletteRamp {
			c := color.RGBA{A: 0xff}
			switch channel {
			case 0:
				c.R = v
			case 1:
				c.G = v
			case 2:
				c.B = v
			default:
				c.R, c.G, c.B = v, v, v
			}
			p[i] = c
			i++
		}
	}
	return p
}

// Instance resolves v against the palette.
//
// Parameters:
//   - v: the voxel to convert
//
// Returns:
//   - GPUInstance: the instance ready for upload
func (p *Palette) Instance(v Voxel) GPUInstance {
	c := p[v.ColorIndex]
	return GPUInstance{
		Position: [4]uint8{v.X, v.Y, v.Z, 0},
		Color:    [4]uint8{c.R, c.G, c.B, c.A},
	}
}

// --- Import Types ---

// ImportedModel is one sub-model of a voxel file: its grid size and filled cells.
type ImportedModel struct {
	// Size is the grid size in voxels along x, y and z.
	Size [3]uint32

	// Voxels are the filled cells, in file order.
	Voxels []Voxel
}

// ImportedScene is the format-neutral result of decoding a voxel file.
// Loader backends produce it; the Loader turns it into a VoxelModel.
type ImportedScene struct {
	// Models are the sub-models in file order.
	Models []ImportedModel

	// Palette resolves every voxel's ColorIndex.
	Palette Palette
}

// Dimensions returns the component-wise maximum size over all sub-models.
//
// Returns:
//   - mgl32.Vec3: the combined grid size
func (s *ImportedScene) Dimensions() mgl32.Vec3 {
	var dims mgl32.Vec3
	for _, m := range s.Models {
		for axis := 0; axis < 3; axis++ {
			dims[axis] = max(dims[axis], float32(m.Size[axis]))
		}
	}
	return dims
}

// VoxelCount returns the total number of voxels over all sub-models.
//
// Returns:
//   - int: the voxel count
func (s *ImportedScene) VoxelCount() int {
	n := 0
	for _, m := range s.Models {
		n += len(m.Voxels)
	}
	return n
}
