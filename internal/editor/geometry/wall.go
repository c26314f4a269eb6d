package geometry

import (
	"math"

	"interior-planner/internal/editor/models"
)

// MinWallLength стены короче считаются вырожденными.
const MinWallLength = 1e-6

// ============================================================
// Wall derivation
// ============================================================

func Length(a, b models.Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Orientation угол отрезка a→b в радианах, (-π, π].
func Orientation(a, b models.Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

func Midpoint(a, b models.Point) models.Point {
	return models.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Degenerate сообщает, что концы стены совпадают.
func Degenerate(a, b models.Point) bool {
	return Length(a, b) < MinWallLength
}

type WallGeometry struct {
	Length float64      `json:"length"`
	Angle  float64      `json:"angle"`
	Center models.Point `json:"center"`
}

func DeriveWall(w models.Wall) WallGeometry {
	return WallGeometry{
		Length: Length(w.Start, w.End),
		Angle:  Orientation(w.Start, w.End),
		Center: Midpoint(w.Start, w.End),
	}
}

// Box размещение стены в 3D: ось Y вверх, ось Y плана становится осью Z сцены.
type Box struct {
	Position  models.Vec3 `json:"position"`
	Size      models.Vec3 `json:"size"`
	RotationY float64     `json:"rotationY"`
}

// WallBox строит параллелепипед стены из той же геометрии, что и 2D штрих.
// Поворот вокруг +Y переводит +X в -Z, поэтому угол плана берется с минусом.
func WallBox(w models.Wall) Box {
	g := DeriveWall(w)
	return Box{
		Position:  models.Vec3{X: g.Center.X, Y: w.Height / 2, Z: g.Center.Y},
		Size:      models.Vec3{X: g.Length, Y: w.Height, Z: w.Thickness},
		RotationY: -g.Angle,
	}
}

// ============================================================
// Picking
// ============================================================

// DistanceToSegment возвращает расстояние от p до отрезка a-b и параметр
// проекции t ∈ [0, 1].
func DistanceToSegment(p, a, b models.Point) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy

	if lenSq == 0 {
		return Length(p, a), 0
	}

	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))

	proj := models.Point{X: a.X + t*dx, Y: a.Y + t*dy}
	return Length(p, proj), t
}

// NearestWall ищет ближайшую к точке стену в пределах maxDist.
func NearestWall(walls []models.Wall, p models.Point, maxDist float64) (string, float64, bool) {
	var nearestID string
	var nearestOffset float64
	minDist := math.MaxFloat64

	for _, w := range walls {
		// допуск расширяем на половину толщины стены
		dist, offset := DistanceToSegment(p, w.Start, w.End)
		dist -= w.Thickness / 2
		if dist < minDist {
			minDist = dist
			nearestID = w.ID
			nearestOffset = offset
		}
	}

	if nearestID == "" || minDist > maxDist {
		return "", 0, false
	}
	return nearestID, nearestOffset, true
}

// Bounds габариты набора стен в метрах.
func Bounds(walls []models.Wall) (min, max models.Point, ok bool) {
	if len(walls) == 0 {
		return models.Point{}, models.Point{}, false
	}
	min = models.Point{X: math.MaxFloat64, Y: math.MaxFloat64}
	max = models.Point{X: -math.MaxFloat64, Y: -math.MaxFloat64}
	for _, w := range walls {
		for _, p := range []models.Point{w.Start, w.End} {
			min.X = math.Min(min.X, p.X)
			min.Y = math.Min(min.Y, p.Y)
			max.X = math.Max(max.X, p.X)
			max.Y = math.Max(max.Y, p.Y)
		}
	}
	return min, max, true
}
