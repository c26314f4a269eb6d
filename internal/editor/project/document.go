// Package project describes the persisted project file and its codec.
package project

import (
	"encoding/json"
	"errors"
	"fmt"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

// ============================================================
// Project file
// ============================================================

const (
	CurrentVersion = 1
	FileExtension  = ".interior3d"

	DefaultProjectName = "Untitled Project"
	DefaultWallHeight  = 2.8
	DefaultGridSize    = 0.5

	DefaultWallThickness = 0.2
	DefaultMaterial      = "default"
)

var ErrInvalidDocument = errors.New("invalid project document")

type Settings struct {
	Units      models.Units `json:"units"`
	WallHeight float64      `json:"wallHeight"`
	GridSize   float64      `json:"gridSize"`
}

func DefaultSettings() Settings {
	return Settings{
		Units:      models.UnitsMetric,
		WallHeight: DefaultWallHeight,
		GridSize:   DefaultGridSize,
	}
}

type Document struct {
	Version     int            `json:"version"`
	ProjectName string         `json:"projectName"`
	Walls       []models.Wall  `json:"walls"`
	Rooms       []models.Room  `json:"rooms"`
	Assets      []models.Asset `json:"assets"`
	Settings    Settings       `json:"settings"`
}

// rawDocument различает отсутствующие поля и нулевые значения.
type rawDocument struct {
	Version     *int            `json:"version"`
	ProjectName string          `json:"projectName"`
	Walls       *[]models.Wall  `json:"walls"`
	Rooms       []models.Room   `json:"rooms"`
	Assets      *[]models.Asset `json:"assets"`
	Settings    *rawSettings    `json:"settings"`
}

type rawSettings struct {
	Units      models.Units `json:"units"`
	WallHeight float64      `json:"wallHeight"`
	GridSize   float64      `json:"gridSize"`
}

// ============================================================
// Codec
// ============================================================

// Encode сериализует документ с отступами, как при скачивании файла.
func Encode(doc Document) ([]byte, error) {
	doc.Version = CurrentVersion
	if doc.Walls == nil {
		doc.Walls = []models.Wall{}
	}
	if doc.Rooms == nil {
		doc.Rooms = []models.Room{}
	}
	if doc.Assets == nil {
		doc.Assets = []models.Asset{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Decode разбирает файл проекта. Отсутствие коллекций walls/assets считается ошибкой,
// отсутствующие настройки заполняются значениями по умолчанию.
func Decode(data []byte) (Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	if raw.Walls == nil {
		return Document{}, fmt.Errorf("%w: walls collection missing", ErrInvalidDocument)
	}
	if raw.Assets == nil {
		return Document{}, fmt.Errorf("%w: assets collection missing", ErrInvalidDocument)
	}

	doc := Document{
		ProjectName: raw.ProjectName,
		Walls:       *raw.Walls,
		Rooms:       raw.Rooms,
		Assets:      *raw.Assets,
		Settings:    DefaultSettings(),
	}
	// файлы без версии записаны до появления поля
	if raw.Version != nil {
		doc.Version = *raw.Version
	}
	if doc.ProjectName == "" {
		doc.ProjectName = DefaultProjectName
	}
	if doc.Rooms == nil {
		doc.Rooms = []models.Room{}
	}
	if raw.Settings != nil {
		if raw.Settings.Units != "" {
			doc.Settings.Units = raw.Settings.Units
		}
		if raw.Settings.WallHeight > 0 {
			doc.Settings.WallHeight = raw.Settings.WallHeight
		}
		if raw.Settings.GridSize > 0 {
			doc.Settings.GridSize = raw.Settings.GridSize
		}
	}

	doc = Normalize(doc)
	if err := Validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Normalize заполняет пропущенные толщину, высоту и материал стен так же,
// как при добавлении стены: высота берётся из настроек проекта.
// Отрицательные значения не трогает, их отклонит Validate.
func Normalize(doc Document) Document {
	walls := make([]models.Wall, len(doc.Walls))
	for i, w := range doc.Walls {
		if w.Thickness == 0 {
			w.Thickness = DefaultWallThickness
		}
		if w.Height == 0 {
			w.Height = doc.Settings.WallHeight
		}
		if w.Material == "" {
			w.Material = DefaultMaterial
		}
		walls[i] = w
	}
	doc.Walls = walls
	return doc
}

// Validate проверяет инварианты сущностей документа целиком.
func Validate(doc Document) error {
	if doc.Version < 0 || doc.Version > CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidDocument, doc.Version)
	}
	if !doc.Settings.Units.Valid() {
		return fmt.Errorf("%w: unknown units %q", ErrInvalidDocument, doc.Settings.Units)
	}
	if doc.Settings.GridSize <= 0 || doc.Settings.WallHeight <= 0 {
		return fmt.Errorf("%w: grid size and wall height must be positive", ErrInvalidDocument)
	}

	seen := make(map[string]struct{}, len(doc.Walls)+len(doc.Assets))
	for _, w := range doc.Walls {
		if w.ID == "" {
			return fmt.Errorf("%w: wall without id", ErrInvalidDocument)
		}
		if _, dup := seen[w.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDocument, w.ID)
		}
		seen[w.ID] = struct{}{}
		if geometry.Degenerate(w.Start, w.End) {
			return fmt.Errorf("%w: wall %q has zero length", ErrInvalidDocument, w.ID)
		}
		if w.Thickness <= 0 || w.Height <= 0 {
			return fmt.Errorf("%w: wall %q thickness and height must be positive", ErrInvalidDocument, w.ID)
		}
	}
	for _, a := range doc.Assets {
		if a.ID == "" {
			return fmt.Errorf("%w: asset without id", ErrInvalidDocument)
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidDocument, a.ID)
		}
		seen[a.ID] = struct{}{}
		if !a.Scale.Positive() {
			return fmt.Errorf("%w: asset %q has non-positive scale", ErrInvalidDocument, a.ID)
		}
	}
	return nil
}
