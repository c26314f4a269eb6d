package tool

import (
	"math"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

// PickTolerancePx допуск попадания по стене в пикселях холста.
const PickTolerancePx = 8.0

// Pick ищет объект под точкой плана (метры). Объекты проверяются раньше
// стен: они рисуются поверх.
func Pick(walls []models.Wall, assets []models.Asset, p models.Point, tolerance float64) (string, bool) {
	for i := len(assets) - 1; i >= 0; i-- {
		if footprintContains(assets[i], p) {
			return assets[i].ID, true
		}
	}
	id, _, ok := geometry.NearestWall(walls, p, tolerance)
	return id, ok
}

// footprintContains проверяет попадание в габарит scale.X × scale.Z,
// повёрнутый на rotation.Y.
func footprintContains(a models.Asset, p models.Point) bool {
	dx := p.X - a.Position.X
	dy := p.Y - a.Position.Z

	sin, cos := math.Sincos(a.Rotation.Y)
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos

	return math.Abs(lx) <= a.Scale.X/2 && math.Abs(ly) <= a.Scale.Z/2
}
