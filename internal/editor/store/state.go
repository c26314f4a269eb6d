package store

import (
	"slices"

	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/project"
)

// ============================================================
// State
// ============================================================

const (
	DefaultWallThickness = project.DefaultWallThickness
	DefaultMaterial      = project.DefaultMaterial
	DefaultHistoryLimit  = 100
)

// DuplicateOffset смещение копии объекта относительно оригинала.
var DuplicateOffset = models.Vec3{X: 1, Y: 0, Z: 0}

// Scene содержимое документа, которое откатывается историей.
type Scene struct {
	Walls  []models.Wall  `json:"walls"`
	Rooms  []models.Room  `json:"rooms"`
	Assets []models.Asset `json:"assets"`
}

func (s Scene) clone() Scene {
	rooms := make([]models.Room, len(s.Rooms))
	for i, r := range s.Rooms {
		r.Walls = slices.Clone(r.Walls)
		rooms[i] = r
	}
	return Scene{
		Walls:  append([]models.Wall{}, s.Walls...),
		Rooms:  rooms,
		Assets: append([]models.Asset{}, s.Assets...),
	}
}

func (s Scene) has(id string) bool {
	return s.wallIndex(id) >= 0 || s.assetIndex(id) >= 0
}

func (s Scene) wallIndex(id string) int {
	return slices.IndexFunc(s.Walls, func(w models.Wall) bool { return w.ID == id })
}

func (s Scene) assetIndex(id string) int {
	return slices.IndexFunc(s.Assets, func(a models.Asset) bool { return a.ID == id })
}

// Entry запись журнала истории в том виде, в каком ее видит клиент.
type Entry struct {
	Action   string `json:"action"`
	TargetID string `json:"targetId,omitempty"`
}

// State снимок всего документа и состояния редактора.
type State struct {
	ProjectName    string                `json:"projectName"`
	Units          models.Units          `json:"units"`
	WallHeight     float64               `json:"wallHeight"`
	ViewMode       models.ViewMode       `json:"viewMode"`
	ActiveTool     models.Tool           `json:"activeTool"`
	Grid           models.GridSettings   `json:"grid"`
	ShowDimensions bool                  `json:"showDimensions"`
	DarkMode       bool                  `json:"darkMode"`
	Camera         models.Camera         `json:"camera"`
	Render         models.RenderSettings `json:"render"`

	Walls     []models.Wall  `json:"walls"`
	Rooms     []models.Room  `json:"rooms"`
	Assets    []models.Asset `json:"assets"`
	Selection []string       `json:"selectedIds"`

	History      []Entry `json:"history"`
	HistoryIndex int     `json:"historyIndex"`
}

// editorState всё, кроме сцены и истории.
type editorState struct {
	projectName    string
	units          models.Units
	wallHeight     float64
	viewMode       models.ViewMode
	activeTool     models.Tool
	grid           models.GridSettings
	showDimensions bool
	darkMode       bool
	camera         models.Camera
	render         models.RenderSettings
}

func initialEditorState() editorState {
	return editorState{
		projectName:    project.DefaultProjectName,
		units:          models.UnitsMetric,
		wallHeight:     project.DefaultWallHeight,
		viewMode:       models.View2D,
		activeTool:     models.ToolSelect,
		grid:           models.GridSettings{CellSize: project.DefaultGridSize, SnapEnabled: true},
		showDimensions: true,
		darkMode:       true,
		camera: models.Camera{
			Position: models.Vec3{X: 10, Y: 10, Z: 10},
			Target:   models.Vec3{},
		},
		render: models.DefaultRenderSettings(),
	}
}

func emptyScene() Scene {
	return Scene{Walls: []models.Wall{}, Rooms: []models.Room{}, Assets: []models.Asset{}}
}
