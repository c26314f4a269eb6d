package models

// ============================================================
// Geometry primitives
// ============================================================

// Point точка на плане этажа (метры, либо пиксели холста).
// В JSON кодируется массивом [x, y], как в файле проекта.
type Point struct {
	X float64
	Y float64
}

// Vec3 вектор в пространстве сцены: позиция, углы Эйлера или масштаб.
// В JSON кодируется массивом [x, y, z].
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (p Point) Add(o Point) Point { return Point{X: p.X + o.X, Y: p.Y + o.Y} }

func (p Point) Sub(o Point) Point { return Point{X: p.X - o.X, Y: p.Y - o.Y} }

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }

// Mul покомпонентное произведение.
func (v Vec3) Mul(o Vec3) Vec3 { return Vec3{X: v.X * o.X, Y: v.Y * o.Y, Z: v.Z * o.Z} }

// Positive сообщает, что все компоненты строго больше нуля.
func (v Vec3) Positive() bool { return v.X > 0 && v.Y > 0 && v.Z > 0 }

// ============================================================
// Scene entities
// ============================================================

type Wall struct {
	ID        string  `json:"id"`
	Start     Point   `json:"start"`
	End       Point   `json:"end"`
	Thickness float64 `json:"thickness"`
	Height    float64 `json:"height"`
	Material  string  `json:"material"`
}

type AssetCategory string

const (
	CategoryFurniture  AssetCategory = "furniture"
	CategoryLighting   AssetCategory = "lighting"
	CategoryDecoration AssetCategory = "decoration"
	CategoryKitchen    AssetCategory = "kitchen"
	CategoryBathroom   AssetCategory = "bathroom"
	CategoryPlant      AssetCategory = "plant"
	CategoryPrimitive  AssetCategory = "primitive"
)

type Asset struct {
	ID        string        `json:"id"`
	Category  AssetCategory `json:"type"`
	Name      string        `json:"name"`
	Position  Vec3          `json:"position"`
	Rotation  Vec3          `json:"rotation"`
	Scale     Vec3          `json:"scale"`
	ModelPath string        `json:"modelPath"`
	Material  string        `json:"material,omitempty"`
}

type Room struct {
	ID      string   `json:"id"`
	Walls   []string `json:"walls"`
	Floor   string   `json:"floor"`
	Ceiling string   `json:"ceiling"`
	Area    float64  `json:"area"`
}

// ============================================================
// Editor modes
// ============================================================

type ViewMode string

const (
	View2D     ViewMode = "2D"
	View3D     ViewMode = "3D"
	ViewRender ViewMode = "RENDER"
)

func (m ViewMode) Valid() bool {
	switch m {
	case View2D, View3D, ViewRender:
		return true
	}
	return false
}

type Tool string

const (
	ToolSelect  Tool = "select"
	ToolWall    Tool = "wall"
	ToolDoor    Tool = "door"
	ToolWindow  Tool = "window"
	ToolMeasure Tool = "measure"
	ToolMove    Tool = "move"
	ToolRotate  Tool = "rotate"
	ToolScale   Tool = "scale"
	ToolDelete  Tool = "delete"
)

func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolWall, ToolDoor, ToolWindow, ToolMeasure, ToolMove, ToolRotate, ToolScale, ToolDelete:
		return true
	}
	return false
}

type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

func (u Units) Valid() bool {
	return u == UnitsMetric || u == UnitsImperial
}

// ============================================================
// Settings
// ============================================================

type GridSettings struct {
	CellSize    float64 `json:"cellSize"`
	SnapEnabled bool    `json:"snapEnabled"`
}

type Camera struct {
	Position Vec3 `json:"position"`
	Target   Vec3 `json:"target"`
}

type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityUltra  Quality = "ultra"
)

func (q Quality) Valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh, QualityUltra:
		return true
	}
	return false
}

type ToneMapping string

const (
	ToneMappingNone      ToneMapping = "none"
	ToneMappingLinear    ToneMapping = "linear"
	ToneMappingReinhard  ToneMapping = "reinhard"
	ToneMappingCinematic ToneMapping = "cinematic"
	ToneMappingACES      ToneMapping = "aces"
)

func (t ToneMapping) Valid() bool {
	switch t {
	case ToneMappingNone, ToneMappingLinear, ToneMappingReinhard, ToneMappingCinematic, ToneMappingACES:
		return true
	}
	return false
}

type RenderSettings struct {
	Quality            Quality     `json:"quality"`
	Shadows            bool        `json:"shadows"`
	GlobalIllumination bool        `json:"globalIllumination"`
	AmbientOcclusion   bool        `json:"ambientOcclusion"`
	Antialiasing       bool        `json:"antialiasing"`
	Raytracing         bool        `json:"raytracing"`
	HDRI               string      `json:"hdri"`
	SunIntensity       float64     `json:"sunIntensity"`
	TimeOfDay          float64     `json:"timeOfDay"`
	Exposure           float64     `json:"exposure"`
	ToneMapping        ToneMapping `json:"toneMapping"`
}

// DefaultRenderSettings настройки рендера нового проекта.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Quality:            QualityHigh,
		Shadows:            true,
		GlobalIllumination: true,
		AmbientOcclusion:   true,
		Antialiasing:       true,
		Raytracing:         false,
		HDRI:               "studio",
		SunIntensity:       1.0,
		TimeOfDay:          12,
		Exposure:           1.0,
		ToneMapping:        ToneMappingACES,
	}
}
