package importer

import (
	"math"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

// ============================================================
// Joints
// ============================================================

// weldJoints склеивает концы стен, лежащие ближе tolerance, и выравнивает
// почти горизонтальные и почти вертикальные стены по оси. Стены, ставшие
// точкой, отбрасываются; второе значение их число.
func weldJoints(walls []models.Wall, tolerance float64) ([]models.Wall, int) {
	var vertices []models.Point
	vertexOf := func(p models.Point) int {
		for i, v := range vertices {
			if geometry.Length(p, v) <= tolerance {
				return i
			}
		}
		vertices = append(vertices, p)
		return len(vertices) - 1
	}

	ends := make([][2]int, len(walls))
	for i, w := range walls {
		ends[i] = [2]int{vertexOf(w.Start), vertexOf(w.End)}
	}

	snapAxisAligned(vertices, ends, tolerance/2)

	out := make([]models.Wall, 0, len(walls))
	for i, w := range walls {
		w.Start, w.End = vertices[ends[i][0]], vertices[ends[i][1]]
		if ends[i][0] == ends[i][1] || geometry.Degenerate(w.Start, w.End) {
			continue
		}
		out = append(out, w)
	}
	return out, len(walls) - len(out)
}

// snapAxisAligned для каждой почти осевой стены сводит координату её вершин
// к среднему; вершина нескольких стен получает среднее по всем.
func snapAxisAligned(vertices []models.Point, ends [][2]int, tolerance float64) {
	type agg struct {
		sumX, sumY float64
		cntX, cntY int
	}
	acc := make(map[int]*agg)
	get := func(i int) *agg {
		if acc[i] == nil {
			acc[i] = &agg{}
		}
		return acc[i]
	}

	for _, e := range ends {
		v1, v2 := vertices[e[0]], vertices[e[1]]
		dx := v1.X - v2.X
		dy := v1.Y - v2.Y

		switch {
		case math.Abs(dy) <= tolerance && math.Abs(dx) > tolerance:
			target := (v1.Y + v2.Y) / 2
			for _, vid := range e {
				a := get(vid)
				a.sumY += target
				a.cntY++
			}
		case math.Abs(dx) <= tolerance && math.Abs(dy) > tolerance:
			target := (v1.X + v2.X) / 2
			for _, vid := range e {
				a := get(vid)
				a.sumX += target
				a.cntX++
			}
		}
	}

	for vid, a := range acc {
		if a.cntX > 0 {
			vertices[vid].X = a.sumX / float64(a.cntX)
		}
		if a.cntY > 0 {
			vertices[vid].Y = a.sumY / float64(a.cntY)
		}
	}
}
