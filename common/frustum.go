package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Plane represents a plane in 3D space using the equation: n·p + d = 0
// where n is the unit normal and d is the signed distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum represents the six planes of a view frustum for culling.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustum extracts frustum planes from a view-projection matrix (projection * view)
// using the Gribb/Hartmann method. The near plane assumes a [0, 1] clip depth range.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the combined view-projection matrix (column-major)
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes
func ExtractFrustum(viewProj mgl32.Mat4) Frustum {
	rows := [4]mgl32.Vec4{viewProj.Row(0), viewProj.Row(1), viewProj.Row(2), viewProj.Row(3)}

	var f Frustum
	f.Planes[FrustumLeft] = planeFromRow(rows[3].Add(rows[0]))
	f.Planes[FrustumRight] = planeFromRow(rows[3].Sub(rows[0]))
	f.Planes[FrustumBottom] = planeFromRow(rows[3].Add(rows[1]))
	f.Planes[FrustumTop] = planeFromRow(rows[3].Sub(rows[1]))
	// WebGPU clip space keeps 0 <= z, so the near plane is row2 alone.
	f.Planes[FrustumNear] = planeFromRow(rows[2])
	f.Planes[FrustumFar] = planeFromRow(rows[3].Sub(rows[2]))
	return f
}

// IntersectsAABB reports whether any part of the axis-aligned box lies inside the frustum.
// The test is conservative: boxes near a frustum corner may be reported visible.
//
// Parameters:
//   - lo: minimum corner
//   - hi: maximum corner
//
// Returns:
//   - bool: false only if the box is entirely outside one plane
func (f *Frustum) IntersectsAABB(lo, hi mgl32.Vec3) bool {
	for _, p := range f.Planes {
		// The box corner furthest along the plane normal.
		var v mgl32.Vec3
		for axis := 0; axis < 3; axis++ {
			if p.Normal[axis] >= 0 {
				v[axis] = hi[axis]
			} else {
				v[axis] = lo[axis]
			}
		}
		if p.Normal.Dot(v)+p.Distance < 0 {
			return false
		}
	}
	return true
}

// planeFromRow builds a plane from a combined matrix row and normalizes it so the normal has unit length.
func planeFromRow(row mgl32.Vec4) Plane {
	p := Plane{Normal: row.Vec3(), Distance: row[3]}
	if length := p.Normal.Len(); length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
	return p
}
