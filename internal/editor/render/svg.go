package render

import (
	"encoding/xml"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

// ============================================================
// Floor plan SVG
// ============================================================

const (
	feetPerMeter = 3.28084
	planPadding  = 40.0
	minGridStep  = 4.0
	// maxGridLines предел линий сетки по одной оси; дальше сетка не рисуется.
	maxGridLines = 500
)

// FloorPlan входные данные 2D-плана.
type FloorPlan struct {
	Walls          []models.Wall
	Assets         []models.Asset
	Selection      []string
	Grid           models.GridSettings
	Units          models.Units
	ShowDimensions bool
	Preview        *WallPreview
}

// WallPreview незавершённая стена инструмента рисования (метры).
type WallPreview struct {
	Start models.Point
	End   models.Point
}

type SVGRenderer struct {
	viewport geometry.Viewport
}

func NewSVGRenderer(vp geometry.Viewport) *SVGRenderer {
	return &SVGRenderer{viewport: vp}
}

// Render собирает SVG плана в пикселях холста.
func (r *SVGRenderer) Render(plan FloorPlan) string {
	view := r.canvasBounds(plan.Walls)

	var elements []string
	elements = append(elements, r.renderGrid(plan.Grid, view)...)
	elements = append(elements, r.renderWalls(plan)...)
	elements = append(elements, r.renderAssets(plan)...)
	if plan.ShowDimensions {
		elements = append(elements, r.renderDimensions(plan)...)
	}
	if plan.Preview != nil {
		elements = append(elements, r.renderPreview(*plan.Preview))
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	width, height := view.Max.X-view.Min.X, view.Max.Y-view.Min.Y
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(width), formatFloat(height),
		formatFloat(view.Min.X), formatFloat(view.Min.Y), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String()
}

// viewRect прямоугольник холста в пикселях.
type viewRect struct {
	Min, Max models.Point
}

// canvasBounds покрывает начало координат с обеих сторон и все стены,
// в том числе лежащие в отрицательных координатах.
func (r *SVGRenderer) canvasBounds(walls []models.Wall) viewRect {
	view := viewRect{Max: models.Point{X: 2 * r.viewport.Origin.X, Y: 2 * r.viewport.Origin.Y}}
	if view.Max.X <= 0 {
		view.Max.X = 800
	}
	if view.Max.Y <= 0 {
		view.Max.Y = 800
	}

	if min, max, ok := geometry.Bounds(walls); ok {
		lo := r.viewport.WorldToScreen(min)
		hi := r.viewport.WorldToScreen(max)
		view.Min.X = math.Min(view.Min.X, lo.X-planPadding)
		view.Min.Y = math.Min(view.Min.Y, lo.Y-planPadding)
		view.Max.X = math.Max(view.Max.X, hi.X+planPadding)
		view.Max.Y = math.Max(view.Max.Y, hi.Y+planPadding)
	}
	return view
}

// ============================================================
// Element renderers
// ============================================================

// renderGrid линии сетки, выровненные по началу координат. Слишком частая
// сетка или сетка больше maxGridLines по любой оси пропускается.
func (r *SVGRenderer) renderGrid(grid models.GridSettings, view viewRect) []string {
	step := grid.CellSize * r.viewport.PixelsPerMeter
	if step < minGridStep {
		return nil
	}
	if (view.Max.X-view.Min.X)/step > maxGridLines || (view.Max.Y-view.Min.Y)/step > maxGridLines {
		return nil
	}

	var out []string
	for x := gridStart(view.Min.X, r.viewport.Origin.X, step); x <= view.Max.X; x += step {
		out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#e5e7eb" stroke-width="1" />`,
			formatFloat(x), formatFloat(view.Min.Y), formatFloat(x), formatFloat(view.Max.Y)))
	}
	for y := gridStart(view.Min.Y, r.viewport.Origin.Y, step); y <= view.Max.Y; y += step {
		out = append(out, fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#e5e7eb" stroke-width="1" />`,
			formatFloat(view.Min.X), formatFloat(y), formatFloat(view.Max.X), formatFloat(y)))
	}
	return out
}

// gridStart первый узел сетки с шагом step от origin, не меньший from.
func gridStart(from, origin, step float64) float64 {
	return origin + math.Ceil((from-origin)/step)*step
}

func (r *SVGRenderer) renderWalls(plan FloorPlan) []string {
	var out []string

	for _, w := range plan.Walls {
		g := geometry.DeriveWall(w)
		center := r.viewport.WorldToScreen(g.Center)
		points := rectanglePoints(center.X, center.Y,
			g.Length*r.viewport.PixelsPerMeter, w.Thickness*r.viewport.PixelsPerMeter,
			g.Angle*180/math.Pi)

		fill := "#374151"
		if slices.Contains(plan.Selection, w.ID) {
			fill = "#3b82f6"
		}
		out = append(out, polygon(w.ID, points, fill, "#111827"))
	}

	return out
}

// renderAssets рисует габарит объекта в плане: масштаб X по ширине,
// масштаб Z по глубине, поворот вокруг вертикальной оси.
func (r *SVGRenderer) renderAssets(plan FloorPlan) []string {
	var out []string

	for _, a := range plan.Assets {
		center := r.viewport.WorldToScreen(models.Point{X: a.Position.X, Y: a.Position.Z})
		points := rectanglePoints(center.X, center.Y,
			a.Scale.X*r.viewport.PixelsPerMeter, a.Scale.Z*r.viewport.PixelsPerMeter,
			-a.Rotation.Y*180/math.Pi)

		stroke := "#10b981"
		if slices.Contains(plan.Selection, a.ID) {
			stroke = "#3b82f6"
		}
		out = append(out, polygon(a.ID, points, "none", stroke))
	}

	return out
}

func (r *SVGRenderer) renderDimensions(plan FloorPlan) []string {
	var out []string

	for _, w := range plan.Walls {
		g := geometry.DeriveWall(w)
		p := r.viewport.WorldToScreen(g.Center)
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="12" text-anchor="middle" fill="#6b7280">%s</text>`,
			formatFloat(p.X), formatFloat(p.Y-8), FormatLength(g.Length, plan.Units)))
	}

	return out
}

func (r *SVGRenderer) renderPreview(p WallPreview) string {
	a := r.viewport.WorldToScreen(p.Start)
	b := r.viewport.WorldToScreen(p.End)
	return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#3b82f6" stroke-dasharray="6 4" stroke-width="2" />`,
		formatFloat(a.X), formatFloat(a.Y), formatFloat(b.X), formatFloat(b.Y))
}

// ============================================================
// Geometry helpers
// ============================================================

func rectanglePoints(cx, cy, width, height, rotationDeg float64) []models.Point {
	halfW := width / 2
	halfH := height / 2

	points := []models.Point{
		{X: cx - halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy - halfH},
		{X: cx + halfW, Y: cy + halfH},
		{X: cx - halfW, Y: cy + halfH},
	}

	if rotationDeg == 0 {
		return points
	}

	rad := rotationDeg * math.Pi / 180
	sin := math.Sin(rad)
	cos := math.Cos(rad)

	for i, p := range points {
		dx := p.X - cx
		dy := p.Y - cy
		points[i] = models.Point{
			X: cx + dx*cos - dy*sin,
			Y: cy + dx*sin + dy*cos,
		}
	}

	return points
}

// ============================================================
// Formatting helpers
// ============================================================

func polygon(id string, points []models.Point, fill, stroke string) string {
	var path strings.Builder
	path.WriteString(`<path id="`)
	_ = xml.EscapeText(&path, []byte(id))
	path.WriteString(`" d="M `)
	path.WriteString(formatPoint(points[0]))
	for _, p := range points[1:] {
		path.WriteString(" L ")
		path.WriteString(formatPoint(p))
	}
	path.WriteString(` Z" fill="`)
	path.WriteString(fill)
	path.WriteString(`" stroke="`)
	path.WriteString(stroke)
	path.WriteString(`" />`)
	return path.String()
}

// FormatLength подпись длины стены в единицах проекта.
func FormatLength(meters float64, units models.Units) string {
	if units == models.UnitsImperial {
		return strconv.FormatFloat(meters*feetPerMeter, 'f', 2, 64) + " ft"
	}
	return strconv.FormatFloat(meters, 'f', 2, 64) + " m"
}

// formatFloat округляет до тысячных, чтобы убрать шум плавающей точки.
func formatFloat(val float64) string {
	val = math.Round(val*1000) / 1000
	if val == 0 { // -0
		val = 0
	}
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
