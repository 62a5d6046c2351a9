package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/mat"
)

const epsilon = 1e-4

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) <= epsilon
}

func approxVec3(a, b mgl32.Vec3) bool {
	return approx(a[0], b[0]) && approx(a[1], b[1]) && approx(a[2], b[2])
}

// toDense converts a column-major mgl32 matrix into a row-major gonum matrix.
func toDense(m mgl32.Mat4) *mat.Dense {
	data := make([]float64, 16)
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			data[row*4+col] = float64(m.At(row, col))
		}
	}
	return mat.NewDense(4, 4, data)
}

func TestCameraCalcMatrixIsRigidTransform(t *testing.T) {
	identity := mat.NewDiagDense(3, []float64{1, 1, 1})

	for yaw := float32(0); yaw < 2*math.Pi; yaw += 0.37 {
		for pitch := float32(-SafePitch); pitch <= SafePitch; pitch += 0.21 {
			cam := NewCamera(WithPosition(3, -2, 7.5), WithYaw(yaw), WithPitch(pitch))
			view := toDense(cam.CalcMatrix())

			var rrt mat.Dense
			rot := view.Slice(0, 3, 0, 3)
			rrt.Mul(rot, rot.T())
			if !mat.EqualApprox(&rrt, identity, 1e-5) {
				t.Fatalf("yaw=%v pitch=%v: rotation part is not orthonormal:\n%v", yaw, pitch, mat.Formatted(&rrt))
			}

			var eyeInView mat.VecDense
			eyeInView.MulVec(view, mat.NewVecDense(4, []float64{3, -2, 7.5, 1}))
			for i, want := range []float64{0, 0, 0, 1} {
				if math.Abs(eyeInView.AtVec(i)-want) > 1e-4 {
					t.Fatalf("yaw=%v pitch=%v: eye maps to %v in view space, want origin", yaw, pitch, mat.Formatted(&eyeInView))
				}
			}

			var inv mat.Dense
			if err := inv.Inverse(view); err != nil {
				t.Fatalf("yaw=%v pitch=%v: view matrix not invertible: %v", yaw, pitch, err)
			}
			var origin mat.VecDense
			origin.MulVec(&inv, mat.NewVecDense(4, []float64{0, 0, 0, 1}))
			for i, want := range []float64{3, -2, 7.5, 1} {
				if math.Abs(origin.AtVec(i)-want) > 1e-4 {
					t.Fatalf("yaw=%v pitch=%v: inverse maps view origin to %v, want camera position", yaw, pitch, mat.Formatted(&origin))
				}
			}
		}
	}
}

func TestCameraLooksDownNegativeZInViewSpace(t *testing.T) {
	cam := NewCamera(WithPosition(1, 2, 3), WithYaw(0.8), WithPitch(0.3))
	ahead := cam.Position.Add(cam.Direction()).Vec4(1)

	got := cam.CalcMatrix().Mul4x1(ahead)
	if !approxVec3(got.Vec3(), mgl32.Vec3{0, 0, -1}) {
		t.Errorf("point ahead of camera maps to %v, want (0, 0, -1)", got)
	}
}

func TestCameraDirectionYawZeroFacesPositiveX(t *testing.T) {
	cam := NewCamera()
	if !approxVec3(cam.Direction(), mgl32.Vec3{1, 0, 0}) {
		t.Errorf("expected +X direction, got %v", cam.Direction())
	}

	cam.Yaw = math.Pi / 2
	if !approxVec3(cam.Direction(), mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected +Z direction at yaw=π/2, got %v", cam.Direction())
	}
}

func TestCameraViewPosition(t *testing.T) {
	cam := NewCamera(WithPosition(4, 5, 6))
	if got := cam.ViewPosition(); got != (mgl32.Vec4{4, 5, 6, 1}) {
		t.Errorf("expected (4, 5, 6, 1), got %v", got)
	}
}
