// Package geometry converts floor-plan coordinates between world meters and
// canvas pixels and derives wall placement shared by the 2D and 3D views.
package geometry

import (
	"math"

	"interior-planner/internal/editor/models"
)

// ============================================================
// Viewport
// ============================================================

const (
	DefaultPixelsPerMeter = 50.0
	DefaultOrigin         = 400.0
)

// Viewport описывает масштаб и смещение начала координат холста.
type Viewport struct {
	PixelsPerMeter float64
	Origin         models.Point
}

func DefaultViewport() Viewport {
	return Viewport{
		PixelsPerMeter: DefaultPixelsPerMeter,
		Origin:         models.Point{X: DefaultOrigin, Y: DefaultOrigin},
	}
}

// WorldToScreen переводит метры в пиксели холста.
func (v Viewport) WorldToScreen(p models.Point) models.Point {
	return models.Point{
		X: p.X*v.PixelsPerMeter + v.Origin.X,
		Y: p.Y*v.PixelsPerMeter + v.Origin.Y,
	}
}

// ScreenToWorld переводит пиксели холста в метры.
func (v Viewport) ScreenToWorld(p models.Point) models.Point {
	return models.Point{
		X: (p.X - v.Origin.X) / v.PixelsPerMeter,
		Y: (p.Y - v.Origin.Y) / v.PixelsPerMeter,
	}
}

// ============================================================
// Grid snapping
// ============================================================

// Snap притягивает экранную точку к ближайшему узлу сетки, отсчитанной от начала
// координат. Шаг сетки в пикселях = cellSize * PixelsPerMeter.
// При выключенной привязке точка возвращается без изменений.
func (v Viewport) Snap(raw models.Point, grid models.GridSettings) models.Point {
	if !grid.SnapEnabled || grid.CellSize <= 0 {
		return raw
	}
	step := grid.CellSize * v.PixelsPerMeter
	return models.Point{
		X: snapAxis(raw.X, v.Origin.X, step),
		Y: snapAxis(raw.Y, v.Origin.Y, step),
	}
}

// SnapWorld то же самое для точки в метрах.
func SnapWorld(p models.Point, grid models.GridSettings) models.Point {
	if !grid.SnapEnabled || grid.CellSize <= 0 {
		return p
	}
	return models.Point{
		X: snapAxis(p.X, 0, grid.CellSize),
		Y: snapAxis(p.Y, 0, grid.CellSize),
	}
}

// snapAxis округляет половину вверх: floor(x + 0.5).
func snapAxis(raw, offset, step float64) float64 {
	return math.Floor((raw-offset)/step+0.5)*step + offset
}
