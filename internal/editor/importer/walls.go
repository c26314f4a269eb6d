package importer

import (
	"fmt"
	"io"
	"math"

	"go.uber.org/zap"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

// DefaultUnitScale метров в одной единице чертежа (чертежи в сантиметрах).
const DefaultUnitScale = 0.01

// DefaultMergeTolerance радиус склейки концов стен, метры.
const DefaultMergeTolerance = 0.08

type Options struct {
	// UnitScale метров в единице SVG.
	UnitScale float64
	// Thickness толщина стен из path-элементов, метры.
	Thickness float64
	Height    float64
	// MergeTolerance радиус склейки концов стен, метры. Отрицательный отключает склейку.
	MergeTolerance float64
}

// Result стены и число пропущенных элементов чертежа.
type Result struct {
	Walls   []models.Wall `json:"walls"`
	Skipped int           `json:"skipped"`
}

type Importer struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options, log *zap.Logger) *Importer {
	if opts.UnitScale <= 0 {
		opts.UnitScale = DefaultUnitScale
	}
	if opts.MergeTolerance == 0 {
		opts.MergeTolerance = DefaultMergeTolerance
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{opts: opts, log: log}
}

// Import читает SVG и возвращает стены в метрах. Id стен не заполняются:
// их назначит хранилище.
func (im *Importer) Import(r io.Reader) (Result, error) {
	elements, err := parseSVG(r)
	if err != nil {
		return Result{}, err
	}

	res := Result{Walls: []models.Wall{}}
	for _, elem := range elements {
		if elem.Kind != KindWall {
			res.Skipped++
			continue
		}

		walls, err := im.wallsFromElement(elem)
		if err != nil {
			im.log.Warn("skip svg element", zap.String("id", elem.ID), zap.Error(err))
			res.Skipped++
			continue
		}
		res.Walls = append(res.Walls, walls...)
	}

	if im.opts.MergeTolerance > 0 {
		var dropped int
		res.Walls, dropped = weldJoints(res.Walls, im.opts.MergeTolerance)
		res.Skipped += dropped
	}

	if len(res.Walls) == 0 {
		return res, fmt.Errorf("%w: no Wall_ elements", ErrInvalidSVG)
	}
	return res, nil
}

func (im *Importer) wallsFromElement(elem element) ([]models.Wall, error) {
	if elem.Rect != nil {
		w, err := im.wallFromRect(*elem.Rect)
		if err != nil {
			return nil, err
		}
		return []models.Wall{w}, nil
	}

	points, err := parsePath(elem.Path)
	if err != nil {
		return nil, err
	}
	if rect, ok := closedQuad(points); ok {
		return []models.Wall{im.wallFromQuad(rect)}, nil
	}
	return im.wallsFromPolyline(points)
}

// wallFromRect осевая линия вдоль длинной стороны, толщина по короткой.
func (im *Importer) wallFromRect(r svgRect) (models.Wall, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return models.Wall{}, fmt.Errorf("rect %s has empty size", r.ID)
	}

	var start, end models.Point
	var thickness float64
	if r.Width >= r.Height {
		cy := r.Y + r.Height/2
		start, end = models.Point{X: r.X, Y: cy}, models.Point{X: r.X + r.Width, Y: cy}
		thickness = r.Height
	} else {
		cx := r.X + r.Width/2
		start, end = models.Point{X: cx, Y: r.Y}, models.Point{X: cx, Y: r.Y + r.Height}
		thickness = r.Width
	}

	return im.wall(start, end, thickness*im.opts.UnitScale), nil
}

// wallFromQuad то же для повёрнутого прямоугольника из path: p0..p3 по обходу.
func (im *Importer) wallFromQuad(q [4]models.Point) models.Wall {
	a := geometry.Length(q[0], q[1])
	b := geometry.Length(q[1], q[2])

	if a >= b {
		start := geometry.Midpoint(q[0], q[3])
		end := geometry.Midpoint(q[1], q[2])
		return im.wall(start, end, b*im.opts.UnitScale)
	}
	start := geometry.Midpoint(q[0], q[1])
	end := geometry.Midpoint(q[3], q[2])
	return im.wall(start, end, a*im.opts.UnitScale)
}

func (im *Importer) wallsFromPolyline(points []models.Point) ([]models.Wall, error) {
	var walls []models.Wall
	for i := 1; i < len(points); i++ {
		if geometry.Degenerate(points[i-1], points[i]) {
			continue
		}
		walls = append(walls, im.wall(points[i-1], points[i], im.opts.Thickness))
	}
	if len(walls) == 0 {
		return nil, fmt.Errorf("path has no segments")
	}
	return walls, nil
}

func (im *Importer) wall(start, end models.Point, thickness float64) models.Wall {
	return models.Wall{
		Start:     scale(start, im.opts.UnitScale),
		End:       scale(end, im.opts.UnitScale),
		Thickness: thickness,
		Height:    im.opts.Height,
	}
}

// closedQuad распознаёт замкнутый путь из четырёх вершин с прямыми углами.
func closedQuad(points []models.Point) ([4]models.Point, bool) {
	var q [4]models.Point
	if len(points) != 5 || !geometry.Degenerate(points[0], points[4]) {
		return q, false
	}
	copy(q[:], points[:4])

	for i := 0; i < 4; i++ {
		a, b, c := q[i], q[(i+1)%4], q[(i+2)%4]
		ab := b.Sub(a)
		bc := c.Sub(b)
		lab := math.Hypot(ab.X, ab.Y)
		lbc := math.Hypot(bc.X, bc.Y)
		if lab == 0 || lbc == 0 {
			return q, false
		}
		if math.Abs(ab.X*bc.X+ab.Y*bc.Y)/(lab*lbc) > 1e-6 {
			return q, false
		}
	}
	return q, true
}

func scale(p models.Point, k float64) models.Point {
	return models.Point{X: p.X * k, Y: p.Y * k}
}
