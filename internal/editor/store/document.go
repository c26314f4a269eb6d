package store

import (
	"fmt"

	"interior-planner/internal/editor/project"
)

// ============================================================
// Project lifecycle
// ============================================================

// NewProject возвращает документ в исходное пустое состояние, включая историю.
func (s *Store) NewProject() {
	_ = s.apply("newProject", func() (bool, error) {
		s.reset()
		return true, nil
	})
}

// Save собирает документ проекта из текущего состояния.
func (s *Store) Save() project.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	scene := s.scene.clone()
	return project.Document{
		Version:     project.CurrentVersion,
		ProjectName: s.editor.projectName,
		Walls:       scene.Walls,
		Rooms:       scene.Rooms,
		Assets:      scene.Assets,
		Settings: project.Settings{
			Units:      s.editor.units,
			WallHeight: s.editor.wallHeight,
			GridSize:   s.editor.grid.CellSize,
		},
	}
}

// Load целиком заменяет документ. Невалидный документ не применяется совсем.
// Загруженная сцена становится базой новой истории.
func (s *Store) Load(doc project.Document) error {
	doc = project.Normalize(doc)
	return s.apply("loadProject", func() (bool, error) {
		if err := project.Validate(doc); err != nil {
			return false, err
		}

		scene := Scene{Walls: doc.Walls, Rooms: doc.Rooms, Assets: doc.Assets}.clone()

		name := doc.ProjectName
		if name == "" {
			name = project.DefaultProjectName
		}

		s.editor.projectName = name
		s.editor.units = doc.Settings.Units
		s.editor.wallHeight = doc.Settings.WallHeight
		s.editor.grid.CellSize = doc.Settings.GridSize
		s.scene = scene
		s.selection = []string{}
		s.base = scene.clone()
		s.history = nil
		s.cursor = -1
		return true, nil
	})
}

// LoadBytes разбирает файл проекта и загружает его.
func (s *Store) LoadBytes(data []byte) error {
	doc, err := project.Decode(data)
	if err != nil {
		return fmt.Errorf("load project: %w", err)
	}
	return s.Load(doc)
}
