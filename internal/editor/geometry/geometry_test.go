package geometry

import (
	"math"
	"testing"

	"interior-planner/internal/editor/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func pt(x, y float64) models.Point { return models.Point{X: x, Y: y} }

func TestWallLengthScenarios(t *testing.T) {
	assert.InDelta(t, 3.0, Length(pt(0, 0), pt(3, 0)), eps)
	assert.InDelta(t, 0.0, Orientation(pt(0, 0), pt(3, 0)), eps)
	assert.InDelta(t, 4.0, Length(pt(0, 0), pt(0, 4)), eps)
	assert.InDelta(t, math.Pi/2, Orientation(pt(0, 0), pt(0, 4)), eps)
}

func TestLengthAndOrientationSymmetry(t *testing.T) {
	cases := [][2]models.Point{
		{pt(0, 0), pt(3, 4)},
		{pt(-1.5, 2), pt(7, -3)},
		{pt(1, 1), pt(1, -5)},
		{pt(2, 0), pt(-2, 0)},
	}

	for _, c := range cases {
		a, b := c[0], c[1]
		assert.InDelta(t, Length(a, b), Length(b, a), eps)

		diff := Orientation(a, b) - Orientation(b, a) - math.Pi
		diff = math.Mod(diff, 2*math.Pi)
		if diff < 0 {
			diff += 2 * math.Pi
		}
		if diff > math.Pi {
			diff -= 2 * math.Pi
		}
		assert.InDelta(t, 0, diff, 1e-9, "orientation %v -> %v", a, b)
	}
}

func TestWorldScreenRoundTrip(t *testing.T) {
	vp := DefaultViewport()

	for _, p := range []models.Point{pt(0, 0), pt(1.24, -3.5), pt(-8, 8), pt(123.456, 0.001)} {
		back := vp.ScreenToWorld(vp.WorldToScreen(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}

	assert.Equal(t, pt(400, 400), vp.WorldToScreen(pt(0, 0)))
	assert.Equal(t, pt(550, 300), vp.WorldToScreen(pt(3, -2)))
}

func TestSnapNearestCell(t *testing.T) {
	vp := DefaultViewport()
	grid := models.GridSettings{CellSize: 0.5, SnapEnabled: true}

	snapped := vp.ScreenToWorld(vp.Snap(vp.WorldToScreen(pt(1.24, 1.24)), grid))
	assert.InDelta(t, 1.0, snapped.X, eps)
	assert.InDelta(t, 1.0, snapped.Y, eps)
}

func TestSnapRoundsHalfUp(t *testing.T) {
	vp := DefaultViewport()
	grid := models.GridSettings{CellSize: 0.5, SnapEnabled: true}

	up := vp.ScreenToWorld(vp.Snap(vp.WorldToScreen(pt(1.25, -1.25)), grid))
	assert.InDelta(t, 1.5, up.X, eps)
	assert.InDelta(t, -1.0, up.Y, eps)

	w := SnapWorld(pt(0.75, -0.75), grid)
	assert.InDelta(t, 1.0, w.X, eps)
	assert.InDelta(t, -0.5, w.Y, eps)
}

func TestSnapIdempotent(t *testing.T) {
	vp := DefaultViewport()
	grid := models.GridSettings{CellSize: 0.25, SnapEnabled: true}

	for _, p := range []models.Point{pt(0, 0), pt(13.7, 491.2), pt(-77.3, 12.5), pt(412.5, 399.99)} {
		once := vp.Snap(p, grid)
		twice := vp.Snap(once, grid)
		assert.InDelta(t, once.X, twice.X, 1e-9)
		assert.InDelta(t, once.Y, twice.Y, 1e-9)
	}
}

func TestSnapDisabledPassesThrough(t *testing.T) {
	vp := DefaultViewport()
	raw := pt(413.3, 377.1)

	assert.Equal(t, raw, vp.Snap(raw, models.GridSettings{CellSize: 0.5, SnapEnabled: false}))
	assert.Equal(t, raw, vp.Snap(raw, models.GridSettings{CellSize: 0, SnapEnabled: true}))
}

func TestWallBoxMatchesPlan(t *testing.T) {
	w := models.Wall{ID: "w", Start: pt(0, 0), End: pt(0, 4), Thickness: 0.2, Height: 2.8}

	box := WallBox(w)
	assert.InDelta(t, 0, box.Position.X, eps)
	assert.InDelta(t, 1.4, box.Position.Y, eps)
	assert.InDelta(t, 2, box.Position.Z, eps)
	assert.InDelta(t, 4, box.Size.X, eps)
	assert.InDelta(t, 2.8, box.Size.Y, eps)
	assert.InDelta(t, 0.2, box.Size.Z, eps)
	assert.InDelta(t, -math.Pi/2, box.RotationY, eps)

	g := DeriveWall(w)
	assert.Equal(t, g.Center, pt(box.Position.X, box.Position.Z))
}

func TestNearestWall(t *testing.T) {
	walls := []models.Wall{
		{ID: "a", Start: pt(0, 0), End: pt(4, 0), Thickness: 0.2},
		{ID: "b", Start: pt(0, 0), End: pt(0, 4), Thickness: 0.2},
	}

	id, offset, ok := NearestWall(walls, pt(3, 0.3), 0.5)
	require.True(t, ok)
	assert.Equal(t, "a", id)
	assert.InDelta(t, 0.75, offset, eps)

	_, _, ok = NearestWall(walls, pt(3, 3), 0.5)
	assert.False(t, ok)
}

func TestDistanceToDegenerateSegment(t *testing.T) {
	d, off := DistanceToSegment(pt(3, 4), pt(0, 0), pt(0, 0))
	assert.InDelta(t, 5, d, eps)
	assert.Equal(t, 0.0, off)
}

func TestComposeRotation(t *testing.T) {
	got := ComposeRotation(models.Vec3{Y: 0.3}, models.Vec3{Y: 0.4})
	assert.InDelta(t, 0, got.X, 1e-9)
	assert.InDelta(t, 0.7, got.Y, 1e-9)
	assert.InDelta(t, 0, got.Z, 1e-9)

	base := models.Vec3{X: 0.1, Y: 0.2, Z: 0.3}
	same := ComposeRotation(base, models.Vec3{})
	assert.InDelta(t, base.X, same.X, 1e-9)
	assert.InDelta(t, base.Y, same.Y, 1e-9)
	assert.InDelta(t, base.Z, same.Z, 1e-9)
}

func TestQuatEulerRoundTrip(t *testing.T) {
	e := models.Vec3{X: -0.4, Y: 0.9, Z: 1.2}
	back := QuatFromEuler(e).Euler()
	assert.InDelta(t, e.X, back.X, 1e-9)
	assert.InDelta(t, e.Y, back.Y, 1e-9)
	assert.InDelta(t, e.Z, back.Z, 1e-9)
}

func TestBounds(t *testing.T) {
	_, _, ok := Bounds(nil)
	assert.False(t, ok)

	min, max, ok := Bounds([]models.Wall{
		{Start: pt(-1, 2), End: pt(3, 2)},
		{Start: pt(3, 2), End: pt(3, -4)},
	})
	require.True(t, ok)
	assert.Equal(t, pt(-1, -4), min)
	assert.Equal(t, pt(3, 2), max)
}
