package render

import (
	"slices"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/store"
)

// ============================================================
// 3D scene description
// ============================================================

type WallNode struct {
	ID       string       `json:"id"`
	Box      geometry.Box `json:"box"`
	Material string       `json:"material"`
	Length   float64      `json:"length"`
	Selected bool         `json:"selected"`
}

type AssetNode struct {
	ID        string               `json:"id"`
	Category  models.AssetCategory `json:"type"`
	Name      string               `json:"name"`
	ModelPath string               `json:"modelPath"`
	Material  string               `json:"material,omitempty"`
	Position  models.Vec3          `json:"position"`
	Rotation  models.Vec3          `json:"rotation"`
	Scale     models.Vec3          `json:"scale"`
	Selected  bool                 `json:"selected"`
}

// Scene то, что нужно движку рендеринга для построения графа сцены.
type Scene struct {
	ViewMode models.ViewMode       `json:"viewMode"`
	Camera   models.Camera         `json:"camera"`
	Settings models.RenderSettings `json:"settings"`
	Grid     models.GridSettings   `json:"grid"`
	Walls    []WallNode            `json:"walls"`
	Assets   []AssetNode           `json:"assets"`
}

// BuildScene описывает стены коробками, а объекты узлами с их трансформом.
func BuildScene(st store.State) Scene {
	scene := Scene{
		ViewMode: st.ViewMode,
		Camera:   st.Camera,
		Settings: st.Render,
		Grid:     st.Grid,
		Walls:    make([]WallNode, 0, len(st.Walls)),
		Assets:   make([]AssetNode, 0, len(st.Assets)),
	}

	for _, w := range st.Walls {
		scene.Walls = append(scene.Walls, WallNode{
			ID:       w.ID,
			Box:      geometry.WallBox(w),
			Material: w.Material,
			Length:   geometry.Length(w.Start, w.End),
			Selected: slices.Contains(st.Selection, w.ID),
		})
	}
	for _, a := range st.Assets {
		scene.Assets = append(scene.Assets, AssetNode{
			ID:        a.ID,
			Category:  a.Category,
			Name:      a.Name,
			ModelPath: a.ModelPath,
			Material:  a.Material,
			Position:  a.Position,
			Rotation:  a.Rotation,
			Scale:     a.Scale,
			Selected:  slices.Contains(st.Selection, a.ID),
		})
	}
	return scene
}

// PlanFromState собирает входные данные SVG-плана из снимка.
func PlanFromState(st store.State) FloorPlan {
	return FloorPlan{
		Walls:          st.Walls,
		Assets:         st.Assets,
		Selection:      st.Selection,
		Grid:           st.Grid,
		Units:          st.Units,
		ShowDimensions: st.ShowDimensions,
	}
}
