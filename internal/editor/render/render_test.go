package render

import (
	"context"
	"encoding/xml"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/store"
)

// ============================================================
// Progress job
// ============================================================

func TestJob_RunsToCompletion(t *testing.T) {
	j := NewJob(time.Millisecond, nil)
	j.Start(context.Background())
	assert.True(t, j.Status().Rendering)

	select {
	case <-j.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("render did not finish")
	}

	st := j.Status()
	assert.False(t, st.Rendering)
	assert.Equal(t, ProgressDone, st.Progress)
}

func TestJob_StopResets(t *testing.T) {
	j := NewJob(time.Hour, nil)
	j.Start(context.Background())
	done := j.Done()

	j.Stop()

	select {
	case <-done:
	default:
		t.Fatal("goroutine still running after Stop")
	}
	assert.Equal(t, Status{}, j.Status())
}

func TestJob_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	j := NewJob(time.Hour, nil)
	j.Start(ctx)
	done := j.Done()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("render did not stop on cancel")
	}
	assert.Equal(t, Status{}, j.Status())
}

func TestJob_RestartStartsFromZero(t *testing.T) {
	j := NewJob(time.Millisecond, nil)
	j.Start(context.Background())
	<-j.Done()

	j.Start(context.Background())
	st := j.Status()
	assert.True(t, st.Rendering)
	assert.Less(t, st.Progress, ProgressDone)
	j.Close()
	assert.False(t, j.Status().Rendering)
}

// ============================================================
// SVG
// ============================================================

func TestSVG_WallsAndAssets(t *testing.T) {
	plan := FloorPlan{
		Walls: []models.Wall{
			{ID: "w1", Start: models.Point{}, End: models.Point{X: 3}, Thickness: 0.2, Height: 2.8},
		},
		Assets: []models.Asset{
			{ID: "a1", Position: models.Vec3{X: 1, Z: 1}, Scale: models.Vec3{X: 2, Y: 1, Z: 1}},
		},
		Selection:      []string{"a1"},
		Grid:           models.GridSettings{CellSize: 0.5},
		ShowDimensions: true,
	}

	out := NewSVGRenderer(geometry.DefaultViewport()).Render(plan)

	var doc struct{}
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))

	// стена 3 м = 150 px, толщина 0.2 м = 10 px, центр (475, 400)
	assert.Contains(t, out, `id="w1" d="M 400 395 L 550 395 L 550 405 L 400 405 Z"`)
	assert.Contains(t, out, `id="a1" d="M 400 425 L 500 425 L 500 475 L 400 475 Z" fill="none" stroke="#3b82f6"`)
	assert.Contains(t, out, ">3.00 m</text>")
	assert.Contains(t, out, `<line x1="0"`)
}

func TestSVG_NoGridWhenTooDense(t *testing.T) {
	out := NewSVGRenderer(geometry.DefaultViewport()).Render(FloorPlan{
		Grid: models.GridSettings{CellSize: 0.01},
	})
	assert.NotContains(t, out, "<line")
}

func TestSVG_RotatedWall(t *testing.T) {
	out := NewSVGRenderer(geometry.DefaultViewport()).Render(FloorPlan{
		Walls: []models.Wall{{ID: "v", Start: models.Point{}, End: models.Point{Y: 2}, Thickness: 0.2}},
	})
	assert.Contains(t, out, `id="v" d="M 405 400 L 405 500 L 395 500 L 395 400 Z"`)
}

func TestSVG_EscapesIDs(t *testing.T) {
	out := NewSVGRenderer(geometry.DefaultViewport()).Render(FloorPlan{
		Walls:  []models.Wall{{ID: `w" onload="alert(1)`, End: models.Point{X: 2}, Thickness: 0.2}},
		Assets: []models.Asset{{ID: `<script>`, Scale: models.Vec3{X: 1, Y: 1, Z: 1}}},
	})

	dec := xml.NewDecoder(strings.NewReader(out))
	var ids []string
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		assert.NotEqual(t, "script", start.Name.Local)
		for _, attr := range start.Attr {
			assert.NotEqual(t, "onload", attr.Name.Local)
			if attr.Name.Local == "id" {
				ids = append(ids, attr.Value)
			}
		}
	}
	assert.Equal(t, []string{`w" onload="alert(1)`, `<script>`}, ids)
}

func TestSVG_FarWallKeepsDocumentSmall(t *testing.T) {
	out := NewSVGRenderer(geometry.DefaultViewport()).Render(FloorPlan{
		Walls: []models.Wall{{ID: "far", End: models.Point{X: 1e5}, Thickness: 0.2}},
		Grid:  models.GridSettings{CellSize: 0.5},
	})
	assert.Less(t, len(out), 4096)
	assert.NotContains(t, out, "<line")
	assert.Contains(t, out, `id="far"`)
}

func TestSVG_NegativeWallInsideViewBox(t *testing.T) {
	out := NewSVGRenderer(geometry.DefaultViewport()).Render(FloorPlan{
		Walls: []models.Wall{{ID: "neg", Start: models.Point{X: -20, Y: -20}, End: models.Point{X: -10, Y: -20}, Thickness: 0.2}},
		Grid:  models.GridSettings{CellSize: 0.5},
	})

	var doc struct {
		ViewBox string `xml:"viewBox,attr"`
	}
	require.NoError(t, xml.Unmarshal([]byte(out), &doc))
	fields := strings.Fields(doc.ViewBox)
	require.Len(t, fields, 4)

	// (-20, -20) м = (-600, -600) px, плюс отступ 40
	assert.Equal(t, []string{"-640", "-640", "1440", "1440"}, fields)
	assert.Contains(t, out, `<line x1="-625" y1="-640" x2="-625" y2="800"`)
}

func TestFormatLength(t *testing.T) {
	assert.Equal(t, "3.00 m", FormatLength(3, models.UnitsMetric))
	assert.Equal(t, "9.84 ft", FormatLength(3, models.UnitsImperial))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "450", formatFloat(449.99999999))
	assert.Equal(t, "0", formatFloat(-0.0000001))
	assert.Equal(t, "1.5", formatFloat(1.5))
}

// ============================================================
// Scene
// ============================================================

func TestBuildScene(t *testing.T) {
	s := store.New()
	w, err := s.AddWall(models.Wall{Start: models.Point{}, End: models.Point{X: 0, Y: 4}})
	require.NoError(t, err)
	a, err := s.AddAsset(models.Asset{Name: "Cube", ModelPath: "cube"})
	require.NoError(t, err)
	s.SetSelected([]string{w.ID})

	scene := BuildScene(s.Snapshot())
	require.Len(t, scene.Walls, 1)
	require.Len(t, scene.Assets, 1)

	node := scene.Walls[0]
	assert.True(t, node.Selected)
	assert.InDelta(t, 4.0, node.Length, 1e-9)
	assert.InDelta(t, 2.0, node.Box.Position.Z, 1e-9)
	assert.InDelta(t, w.Height/2, node.Box.Position.Y, 1e-9)
	assert.InDelta(t, -math.Pi/2, node.Box.RotationY, 1e-9)

	assert.Equal(t, a.ID, scene.Assets[0].ID)
	assert.False(t, scene.Assets[0].Selected)
	assert.Equal(t, models.DefaultRenderSettings(), scene.Settings)
}

func TestPlanFromState(t *testing.T) {
	s := store.New()
	_, err := s.AddWall(models.Wall{Start: models.Point{}, End: models.Point{X: 1}})
	require.NoError(t, err)

	out := NewSVGRenderer(geometry.DefaultViewport()).Render(PlanFromState(s.Snapshot()))
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "1.00 m")
}
