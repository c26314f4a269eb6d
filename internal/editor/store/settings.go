package store

import (
	"fmt"
	"strings"

	"interior-planner/internal/editor/models"
)

// ============================================================
// Editor settings
// ============================================================

func (s *Store) SetProjectName(name string) error {
	return s.apply("setProjectName", func() (bool, error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return false, fmt.Errorf("%w: project name is empty", ErrInvalidSetting)
		}
		s.editor.projectName = name
		return true, nil
	})
}

func (s *Store) SetViewMode(mode models.ViewMode) error {
	return s.apply("setViewMode", func() (bool, error) {
		if !mode.Valid() {
			return false, fmt.Errorf("%w: view mode %q", ErrInvalidSetting, mode)
		}
		s.editor.viewMode = mode
		return true, nil
	})
}

func (s *Store) SetActiveTool(tool models.Tool) error {
	return s.apply("setActiveTool", func() (bool, error) {
		if !tool.Valid() {
			return false, fmt.Errorf("%w: tool %q", ErrInvalidSetting, tool)
		}
		s.editor.activeTool = tool
		return true, nil
	})
}

// ToggleSnapToGrid возвращает новое значение флага.
func (s *Store) ToggleSnapToGrid() bool {
	var enabled bool
	_ = s.apply("toggleSnapToGrid", func() (bool, error) {
		s.editor.grid.SnapEnabled = !s.editor.grid.SnapEnabled
		enabled = s.editor.grid.SnapEnabled
		return true, nil
	})
	return enabled
}

func (s *Store) SetSnapToGrid(enabled bool) {
	_ = s.apply("setSnapToGrid", func() (bool, error) {
		s.editor.grid.SnapEnabled = enabled
		return true, nil
	})
}

func (s *Store) SetGridSize(size float64) error {
	return s.apply("setGridSize", func() (bool, error) {
		if size <= 0 {
			return false, fmt.Errorf("%w: grid size must be positive", ErrInvalidSetting)
		}
		s.editor.grid.CellSize = size
		return true, nil
	})
}

func (s *Store) SetUnits(units models.Units) error {
	return s.apply("setUnits", func() (bool, error) {
		if !units.Valid() {
			return false, fmt.Errorf("%w: units %q", ErrInvalidSetting, units)
		}
		s.editor.units = units
		return true, nil
	})
}

// SetWallHeight высота по умолчанию для новых стен.
func (s *Store) SetWallHeight(height float64) error {
	return s.apply("setWallHeight", func() (bool, error) {
		if height <= 0 {
			return false, fmt.Errorf("%w: wall height must be positive", ErrInvalidSetting)
		}
		s.editor.wallHeight = height
		return true, nil
	})
}

func (s *Store) ToggleDarkMode() bool {
	var dark bool
	_ = s.apply("toggleDarkMode", func() (bool, error) {
		s.editor.darkMode = !s.editor.darkMode
		dark = s.editor.darkMode
		return true, nil
	})
	return dark
}

func (s *Store) SetShowDimensions(show bool) {
	_ = s.apply("setShowDimensions", func() (bool, error) {
		s.editor.showDimensions = show
		return true, nil
	})
}

func (s *Store) SetCamera(cam models.Camera) {
	_ = s.apply("setCamera", func() (bool, error) {
		s.editor.camera = cam
		return true, nil
	})
}

// ============================================================
// Render settings
// ============================================================

type RenderPatch struct {
	Quality            *models.Quality     `json:"quality,omitempty"`
	Shadows            *bool               `json:"shadows,omitempty"`
	GlobalIllumination *bool               `json:"globalIllumination,omitempty"`
	AmbientOcclusion   *bool               `json:"ambientOcclusion,omitempty"`
	Antialiasing       *bool               `json:"antialiasing,omitempty"`
	Raytracing         *bool               `json:"raytracing,omitempty"`
	HDRI               *string             `json:"hdri,omitempty"`
	SunIntensity       *float64            `json:"sunIntensity,omitempty"`
	TimeOfDay          *float64            `json:"timeOfDay,omitempty"`
	Exposure           *float64            `json:"exposure,omitempty"`
	ToneMapping        *models.ToneMapping `json:"toneMapping,omitempty"`
}

// UpdateRenderSettings применяет патч целиком или не применяет вовсе.
func (s *Store) UpdateRenderSettings(patch RenderPatch) (models.RenderSettings, error) {
	var out models.RenderSettings
	err := s.apply("updateRenderSettings", func() (bool, error) {
		r := s.editor.render
		if patch.Quality != nil {
			if !patch.Quality.Valid() {
				return false, fmt.Errorf("%w: quality %q", ErrInvalidSetting, *patch.Quality)
			}
			r.Quality = *patch.Quality
		}
		if patch.ToneMapping != nil {
			if !patch.ToneMapping.Valid() {
				return false, fmt.Errorf("%w: tone mapping %q", ErrInvalidSetting, *patch.ToneMapping)
			}
			r.ToneMapping = *patch.ToneMapping
		}
		if patch.SunIntensity != nil {
			if *patch.SunIntensity < 0 {
				return false, fmt.Errorf("%w: sun intensity must not be negative", ErrInvalidSetting)
			}
			r.SunIntensity = *patch.SunIntensity
		}
		if patch.TimeOfDay != nil {
			if *patch.TimeOfDay < 0 || *patch.TimeOfDay > 24 {
				return false, fmt.Errorf("%w: time of day must be within [0, 24]", ErrInvalidSetting)
			}
			r.TimeOfDay = *patch.TimeOfDay
		}
		if patch.Exposure != nil {
			if *patch.Exposure <= 0 {
				return false, fmt.Errorf("%w: exposure must be positive", ErrInvalidSetting)
			}
			r.Exposure = *patch.Exposure
		}
		if patch.Shadows != nil {
			r.Shadows = *patch.Shadows
		}
		if patch.GlobalIllumination != nil {
			r.GlobalIllumination = *patch.GlobalIllumination
		}
		if patch.AmbientOcclusion != nil {
			r.AmbientOcclusion = *patch.AmbientOcclusion
		}
		if patch.Antialiasing != nil {
			r.Antialiasing = *patch.Antialiasing
		}
		if patch.Raytracing != nil {
			r.Raytracing = *patch.Raytracing
		}
		if patch.HDRI != nil {
			r.HDRI = *patch.HDRI
		}

		s.editor.render = r
		out = r
		return true, nil
	})
	return out, err
}

// ============================================================
// Batch update
// ============================================================

type EditorPatch struct {
	ProjectName    *string          `json:"projectName,omitempty"`
	ViewMode       *models.ViewMode `json:"viewMode,omitempty"`
	ActiveTool     *models.Tool     `json:"activeTool,omitempty"`
	SnapToGrid     *bool            `json:"snapToGrid,omitempty"`
	GridSize       *float64         `json:"gridSize,omitempty"`
	Units          *models.Units    `json:"units,omitempty"`
	WallHeight     *float64         `json:"wallHeight,omitempty"`
	DarkMode       *bool            `json:"darkMode,omitempty"`
	ShowDimensions *bool            `json:"showDimensions,omitempty"`
	Camera         *models.Camera   `json:"camera,omitempty"`
}

// UpdateEditor применяет несколько настроек разом; при ошибке ни одна не меняется.
func (s *Store) UpdateEditor(patch EditorPatch) error {
	return s.apply("updateEditor", func() (bool, error) {
		e := s.editor
		if patch.ProjectName != nil {
			name := strings.TrimSpace(*patch.ProjectName)
			if name == "" {
				return false, fmt.Errorf("%w: project name is empty", ErrInvalidSetting)
			}
			e.projectName = name
		}
		if patch.ViewMode != nil {
			if !patch.ViewMode.Valid() {
				return false, fmt.Errorf("%w: view mode %q", ErrInvalidSetting, *patch.ViewMode)
			}
			e.viewMode = *patch.ViewMode
		}
		if patch.ActiveTool != nil {
			if !patch.ActiveTool.Valid() {
				return false, fmt.Errorf("%w: tool %q", ErrInvalidSetting, *patch.ActiveTool)
			}
			e.activeTool = *patch.ActiveTool
		}
		if patch.SnapToGrid != nil {
			e.grid.SnapEnabled = *patch.SnapToGrid
		}
		if patch.GridSize != nil {
			if *patch.GridSize <= 0 {
				return false, fmt.Errorf("%w: grid size must be positive", ErrInvalidSetting)
			}
			e.grid.CellSize = *patch.GridSize
		}
		if patch.Units != nil {
			if !patch.Units.Valid() {
				return false, fmt.Errorf("%w: units %q", ErrInvalidSetting, *patch.Units)
			}
			e.units = *patch.Units
		}
		if patch.WallHeight != nil {
			if *patch.WallHeight <= 0 {
				return false, fmt.Errorf("%w: wall height must be positive", ErrInvalidSetting)
			}
			e.wallHeight = *patch.WallHeight
		}
		if patch.DarkMode != nil {
			e.darkMode = *patch.DarkMode
		}
		if patch.ShowDimensions != nil {
			e.showDimensions = *patch.ShowDimensions
		}
		if patch.Camera != nil {
			e.camera = *patch.Camera
		}

		s.editor = e
		return true, nil
	})
}
