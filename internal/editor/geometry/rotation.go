package geometry

import (
	"math"

	"interior-planner/internal/editor/models"
)

// ============================================================
// Rotation composition
// ============================================================

// Quat кватернион поворота.
type Quat struct {
	X, Y, Z, W float64
}

func QuatIdentity() Quat {
	return Quat{W: 1}
}

// QuatFromEuler углы Эйлера в порядке XYZ (как у рендерера сцены).
func QuatFromEuler(e models.Vec3) Quat {
	c1, s1 := math.Cos(e.X/2), math.Sin(e.X/2)
	c2, s2 := math.Cos(e.Y/2), math.Sin(e.Y/2)
	c3, s3 := math.Cos(e.Z/2), math.Sin(e.Z/2)

	return Quat{
		X: s1*c2*c3 + c1*s2*s3,
		Y: c1*s2*c3 - s1*c2*s3,
		Z: c1*c2*s3 + s1*s2*c3,
		W: c1*c2*c3 - s1*s2*s3,
	}
}

// Mul произведение Гамильтона q * o: сначала o, затем q.
func (q Quat) Mul(o Quat) Quat {
	return Quat{
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
	}
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{X: q.X / l, Y: q.Y / l, Z: q.Z / l, W: q.W / l}
}

// Euler обратное преобразование в углы XYZ.
func (q Quat) Euler() models.Vec3 {
	q = q.Normalize()

	m11 := 1 - 2*(q.Y*q.Y+q.Z*q.Z)
	m12 := 2 * (q.X*q.Y - q.W*q.Z)
	m13 := 2 * (q.X*q.Z + q.W*q.Y)
	m22 := 1 - 2*(q.X*q.X+q.Z*q.Z)
	m23 := 2 * (q.Y*q.Z - q.W*q.X)
	m32 := 2 * (q.Y*q.Z + q.W*q.X)
	m33 := 1 - 2*(q.X*q.X+q.Y*q.Y)

	var e models.Vec3
	e.Y = math.Asin(math.Max(-1, math.Min(1, m13)))
	if math.Abs(m13) < 0.9999999 {
		e.X = math.Atan2(-m23, m33)
		e.Z = math.Atan2(-m12, m11)
	} else {
		// gimbal lock
		e.X = math.Atan2(m32, m22)
		e.Z = 0
	}
	return e
}

// ComposeRotation применяет поворот delta поверх base.
func ComposeRotation(base, delta models.Vec3) models.Vec3 {
	return QuatFromEuler(delta).Mul(QuatFromEuler(base)).Euler()
}
