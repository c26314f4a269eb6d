// Package store holds the authoritative in-memory project document and the
// command API that mutates it, records history and notifies subscribers.
package store

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================
// Store
// ============================================================

type Store struct {
	mu sync.Mutex

	editor    editorState
	scene     Scene
	selection []string

	base    Scene
	history []entry
	cursor  int
	limit   int

	subs    map[int]func(State)
	nextSub int

	log *zap.Logger
}

type Option func(*Store)

// WithHistoryLimit ограничивает длину журнала истории.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.limit = n
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		limit: DefaultHistoryLimit,
		subs:  make(map[int]func(State)),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.editor = initialEditorState()
	s.scene = emptyScene()
	s.selection = []string{}
	s.base = emptyScene()
	s.history = nil
	s.cursor = -1
}

// apply выполняет команду под блокировкой и рассылает снимок подписчикам,
// если команда что-то изменила.
func (s *Store) apply(op string, fn func() (bool, error)) error {
	s.mu.Lock()
	changed, err := fn()
	var snap State
	var subs []func(State)
	if err == nil && changed {
		snap = s.snapshotLocked()
		subs = s.subscribersLocked()
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Warn("command rejected", zap.String("op", op), zap.Error(err))
		return err
	}
	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// ============================================================
// Subscription
// ============================================================

// Subscribe регистрирует наблюдателя; возвращает функцию отписки.
// Наблюдатель вызывается вне блокировки и получает копию состояния.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) subscribersLocked() []func(State) {
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]func(State), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}

// ============================================================
// Read access
// ============================================================

func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	scene := s.scene.clone()
	entries := make([]Entry, len(s.history))
	for i, e := range s.history {
		entries[i] = e.Entry
	}
	return State{
		ProjectName:    s.editor.projectName,
		Units:          s.editor.units,
		WallHeight:     s.editor.wallHeight,
		ViewMode:       s.editor.viewMode,
		ActiveTool:     s.editor.activeTool,
		Grid:           s.editor.grid,
		ShowDimensions: s.editor.showDimensions,
		DarkMode:       s.editor.darkMode,
		Camera:         s.editor.camera,
		Render:         s.editor.render,
		Walls:          scene.Walls,
		Rooms:          scene.Rooms,
		Assets:         scene.Assets,
		Selection:      slices.Clone(s.selection),
		History:        entries,
		HistoryIndex:   s.cursor,
	}
}

func (s *Store) Wall(id string) (models.Wall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.scene.wallIndex(id); i >= 0 {
		return s.scene.Walls[i], true
	}
	return models.Wall{}, false
}

func (s *Store) Asset(id string) (models.Asset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.scene.assetIndex(id); i >= 0 {
		return s.scene.Assets[i], true
	}
	return models.Asset{}, false
}

func (s *Store) Walls() []models.Wall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.scene.Walls)
}

func (s *Store) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.selection)
}

func (s *Store) ActiveTool() models.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.activeTool
}

func (s *Store) Grid() models.GridSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.grid
}

func (s *Store) WallHeight() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.wallHeight
}

func (s *Store) RenderSettings() models.RenderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editor.render
}

// ============================================================
// Walls
// ============================================================

type WallPatch struct {
	Start     *models.Point `json:"start,omitempty"`
	End       *models.Point `json:"end,omitempty"`
	Thickness *float64      `json:"thickness,omitempty"`
	Height    *float64      `json:"height,omitempty"`
	Material  *string       `json:"material,omitempty"`
}

// AddWall добавляет стену и записывает команду в историю.
// Пустые id, толщина, высота и материал заполняются значениями по умолчанию.
func (s *Store) AddWall(w models.Wall) (models.Wall, error) {
	err := s.apply("addWall", func() (bool, error) {
		if geometry.Degenerate(w.Start, w.End) {
			return false, fmt.Errorf("%w: wall start equals end", ErrInvalidGeometry)
		}
		if w.ID == "" {
			w.ID = "wall-" + uuid.NewString()
		}
		if s.scene.has(w.ID) {
			return false, fmt.Errorf("%w: %q", ErrDuplicateID, w.ID)
		}
		if w.Thickness <= 0 {
			w.Thickness = DefaultWallThickness
		}
		if w.Height <= 0 {
			w.Height = s.editor.wallHeight
		}
		if w.Material == "" {
			w.Material = DefaultMaterial
		}

		s.scene.Walls = append(s.scene.Walls, w)
		s.pushLocked("addWall", w.ID)
		return true, nil
	})
	return w, err
}

// UpdateWall сливает поля без записи в историю; фиксирует правку Commit.
func (s *Store) UpdateWall(id string, patch WallPatch) (models.Wall, error) {
	var updated models.Wall
	err := s.apply("updateWall", func() (bool, error) {
		i := s.scene.wallIndex(id)
		if i < 0 {
			return false, fmt.Errorf("%w: wall %q", ErrNotFound, id)
		}

		w := s.scene.Walls[i]
		if patch.Start != nil {
			w.Start = *patch.Start
		}
		if patch.End != nil {
			w.End = *patch.End
		}
		if patch.Thickness != nil {
			w.Thickness = *patch.Thickness
		}
		if patch.Height != nil {
			w.Height = *patch.Height
		}
		if patch.Material != nil {
			w.Material = *patch.Material
		}

		if geometry.Degenerate(w.Start, w.End) {
			return false, fmt.Errorf("%w: wall start equals end", ErrInvalidGeometry)
		}
		if w.Thickness <= 0 || w.Height <= 0 {
			return false, fmt.Errorf("%w: wall thickness and height must be positive", ErrInvalidGeometry)
		}

		s.scene.Walls[i] = w
		updated = w
		return true, nil
	})
	return updated, err
}

func (s *Store) DeleteWall(id string) error {
	return s.apply("deleteWall", func() (bool, error) {
		i := s.scene.wallIndex(id)
		if i < 0 {
			return false, fmt.Errorf("%w: wall %q", ErrNotFound, id)
		}
		s.scene.Walls = slices.Delete(s.scene.Walls, i, i+1)
		s.pruneSelectionLocked()
		s.pushLocked("deleteWall", id)
		return true, nil
	})
}

// ImportWalls добавляет набор стен одной записью истории.
func (s *Store) ImportWalls(walls []models.Wall) ([]models.Wall, error) {
	added := make([]models.Wall, 0, len(walls))
	err := s.apply("importWalls", func() (bool, error) {
		if len(walls) == 0 {
			return false, nil
		}
		seen := make(map[string]struct{}, len(walls))
		for _, w := range walls {
			if geometry.Degenerate(w.Start, w.End) {
				return false, fmt.Errorf("%w: wall %q start equals end", ErrInvalidGeometry, w.ID)
			}
			if w.ID == "" {
				w.ID = "wall-" + uuid.NewString()
			}
			if _, dup := seen[w.ID]; dup || s.scene.has(w.ID) {
				return false, fmt.Errorf("%w: %q", ErrDuplicateID, w.ID)
			}
			seen[w.ID] = struct{}{}
			if w.Thickness <= 0 {
				w.Thickness = DefaultWallThickness
			}
			if w.Height <= 0 {
				w.Height = s.editor.wallHeight
			}
			if w.Material == "" {
				w.Material = DefaultMaterial
			}
			added = append(added, w)
		}

		s.scene.Walls = append(s.scene.Walls, added...)
		s.pushLocked("importWalls", "")
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// ============================================================
// Assets
// ============================================================

type AssetPatch struct {
	Name      *string               `json:"name,omitempty"`
	Category  *models.AssetCategory `json:"type,omitempty"`
	Position  *models.Vec3          `json:"position,omitempty"`
	Rotation  *models.Vec3          `json:"rotation,omitempty"`
	Scale     *models.Vec3          `json:"scale,omitempty"`
	ModelPath *string               `json:"modelPath,omitempty"`
	Material  *string               `json:"material,omitempty"`
}

// AddAsset размещает объект. Нулевой масштаб трактуется как единичный.
func (s *Store) AddAsset(a models.Asset) (models.Asset, error) {
	err := s.apply("addAsset", func() (bool, error) {
		if a.Scale == (models.Vec3{}) {
			a.Scale = models.Vec3{X: 1, Y: 1, Z: 1}
		}
		if !a.Scale.Positive() {
			return false, fmt.Errorf("%w: asset scale must be positive", ErrInvalidGeometry)
		}
		if a.ID == "" {
			a.ID = "asset-" + uuid.NewString()
		}
		if s.scene.has(a.ID) {
			return false, fmt.Errorf("%w: %q", ErrDuplicateID, a.ID)
		}
		if a.Category == "" {
			a.Category = models.CategoryFurniture
		}

		s.scene.Assets = append(s.scene.Assets, a)
		s.pushLocked("addAsset", a.ID)
		return true, nil
	})
	return a, err
}

// UpdateAsset сливает поля без записи в историю.
func (s *Store) UpdateAsset(id string, patch AssetPatch) (models.Asset, error) {
	var updated models.Asset
	err := s.apply("updateAsset", func() (bool, error) {
		i := s.scene.assetIndex(id)
		if i < 0 {
			return false, fmt.Errorf("%w: asset %q", ErrNotFound, id)
		}

		a := s.scene.Assets[i]
		if patch.Name != nil {
			a.Name = *patch.Name
		}
		if patch.Category != nil {
			a.Category = *patch.Category
		}
		if patch.Position != nil {
			a.Position = *patch.Position
		}
		if patch.Rotation != nil {
			a.Rotation = *patch.Rotation
		}
		if patch.Scale != nil {
			a.Scale = *patch.Scale
		}
		if patch.ModelPath != nil {
			a.ModelPath = *patch.ModelPath
		}
		if patch.Material != nil {
			a.Material = *patch.Material
		}

		if !a.Scale.Positive() {
			return false, fmt.Errorf("%w: asset scale must be positive", ErrInvalidGeometry)
		}

		s.scene.Assets[i] = a
		updated = a
		return true, nil
	})
	return updated, err
}

func (s *Store) DeleteAsset(id string) error {
	return s.apply("deleteAsset", func() (bool, error) {
		i := s.scene.assetIndex(id)
		if i < 0 {
			return false, fmt.Errorf("%w: asset %q", ErrNotFound, id)
		}
		s.scene.Assets = slices.Delete(s.scene.Assets, i, i+1)
		s.pruneSelectionLocked()
		s.pushLocked("deleteAsset", id)
		return true, nil
	})
}

// DuplicateAsset копирует объект со сдвигом DuplicateOffset и новым id.
// Копия не выделяется.
func (s *Store) DuplicateAsset(id string) (models.Asset, error) {
	var dup models.Asset
	err := s.apply("duplicateAsset", func() (bool, error) {
		i := s.scene.assetIndex(id)
		if i < 0 {
			return false, fmt.Errorf("%w: asset %q", ErrNotFound, id)
		}

		dup = s.scene.Assets[i]
		dup.ID = fmt.Sprintf("%s-copy-%d-%s", id, time.Now().UnixMilli(), uuid.NewString()[:8])
		dup.Position = dup.Position.Add(DuplicateOffset)

		s.scene.Assets = append(s.scene.Assets, dup)
		s.pushLocked("duplicateAsset", dup.ID)
		return true, nil
	})
	return dup, err
}

// ============================================================
// Selection
// ============================================================

// SetSelected заменяет выделение; несуществующие и повторные id отбрасываются.
func (s *Store) SetSelected(ids []string) []string {
	var selected []string
	_ = s.apply("setSelected", func() (bool, error) {
		next := make([]string, 0, len(ids))
		for _, id := range ids {
			if s.scene.has(id) && !slices.Contains(next, id) {
				next = append(next, id)
			}
		}
		s.selection = next
		selected = slices.Clone(next)
		return true, nil
	})
	return selected
}

func (s *Store) ClearSelection() {
	_ = s.apply("clearSelection", func() (bool, error) {
		if len(s.selection) == 0 {
			return false, nil
		}
		s.selection = []string{}
		return true, nil
	})
}

// DeleteSelected удаляет все выделенные стены и объекты одной записью истории.
func (s *Store) DeleteSelected() int {
	removed := 0
	_ = s.apply("deleteSelection", func() (bool, error) {
		if len(s.selection) == 0 {
			return false, nil
		}
		before := len(s.scene.Walls) + len(s.scene.Assets)
		s.scene.Walls = slices.DeleteFunc(s.scene.Walls, func(w models.Wall) bool {
			return slices.Contains(s.selection, w.ID)
		})
		s.scene.Assets = slices.DeleteFunc(s.scene.Assets, func(a models.Asset) bool {
			return slices.Contains(s.selection, a.ID)
		})
		removed = before - len(s.scene.Walls) - len(s.scene.Assets)
		s.selection = []string{}
		if removed > 0 {
			s.pushLocked("deleteSelection", "")
		}
		return true, nil
	})
	return removed
}

func (s *Store) pruneSelectionLocked() {
	s.selection = slices.DeleteFunc(s.selection, func(id string) bool {
		return !s.scene.has(id)
	})
}
