package tool

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"interior-planner/internal/editor/models"
)

func TestPick(t *testing.T) {
	walls := []models.Wall{
		{ID: "w1", Start: models.Point{}, End: models.Point{X: 4}, Thickness: 0.2},
	}
	assets := []models.Asset{
		{ID: "sofa", Position: models.Vec3{X: 2, Z: 2}, Scale: models.Vec3{X: 2, Y: 1, Z: 1}},
		{ID: "lamp", Position: models.Vec3{X: 2.8, Z: 2}, Scale: models.Vec3{X: 0.5, Y: 1, Z: 0.5}},
	}

	id, ok := Pick(walls, assets, models.Point{X: 1.5, Y: 2.2}, 0.1)
	assert.True(t, ok)
	assert.Equal(t, "sofa", id)

	id, ok = Pick(walls, assets, models.Point{X: 2.9, Y: 2}, 0.1)
	assert.True(t, ok)
	assert.Equal(t, "lamp", id)

	id, ok = Pick(walls, assets, models.Point{X: 1, Y: 0.15}, 0.1)
	assert.True(t, ok)
	assert.Equal(t, "w1", id)

	_, ok = Pick(walls, assets, models.Point{X: 1, Y: 1}, 0.1)
	assert.False(t, ok)
}

func TestPick_RotatedFootprint(t *testing.T) {
	assets := []models.Asset{
		{ID: "table", Position: models.Vec3{}, Rotation: models.Vec3{Y: math.Pi / 2}, Scale: models.Vec3{X: 2, Y: 1, Z: 0.5}},
	}

	_, ok := Pick(nil, assets, models.Point{X: 0, Y: 0.9}, 0)
	assert.True(t, ok)

	_, ok = Pick(nil, assets, models.Point{X: 0.9, Y: 0}, 0)
	assert.False(t, ok)
}
