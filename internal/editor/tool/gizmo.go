package tool

import (
	"errors"
	"fmt"
	"sync"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/store"
)

var (
	ErrNoActiveDrag = errors.New("no active transform")
	ErrDragActive   = errors.New("transform already in progress")
)

// ============================================================
// Transform gizmo
// ============================================================

// AssetStore часть хранилища, нужная гизмо.
type AssetStore interface {
	Asset(id string) (models.Asset, bool)
	UpdateAsset(id string, patch store.AssetPatch) (models.Asset, error)
	Commit(action, targetID string) bool
}

// Transform локальное преобразование рукоятки: сдвиг, поворот (Эйлер XYZ)
// и множитель масштаба.
type Transform struct {
	Translation models.Vec3 `json:"translation"`
	Rotation    models.Vec3 `json:"rotation"`
	Scale       models.Vec3 `json:"scale"`
}

func IdentityTransform() Transform {
	return Transform{Scale: models.Vec3{X: 1, Y: 1, Z: 1}}
}

// Apply накладывает преобразование на трансформ ассета.
func (t Transform) Apply(a models.Asset) models.Asset {
	a.Position = a.Position.Add(t.Translation)
	a.Rotation = geometry.ComposeRotation(a.Rotation, t.Rotation)
	a.Scale = a.Scale.Mul(t.Scale)
	return a
}

// GizmoStatus текущая сессия перетаскивания.
type GizmoStatus struct {
	Active  bool          `json:"active"`
	AssetID string        `json:"assetId,omitempty"`
	Delta   Transform     `json:"delta"`
	Preview *models.Asset `json:"preview,omitempty"`
}

// Gizmo держит промежуточное преобразование на время перетаскивания и
// переносит его в хранилище ровно один раз, в End.
type Gizmo struct {
	mu    sync.Mutex
	store AssetStore

	active  bool
	assetID string
	base    models.Asset
	delta   Transform
}

func NewGizmo(s AssetStore) *Gizmo {
	return &Gizmo{store: s, delta: IdentityTransform()}
}

func (g *Gizmo) Begin(assetID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		return fmt.Errorf("%w: %s", ErrDragActive, g.assetID)
	}
	a, ok := g.store.Asset(assetID)
	if !ok {
		return fmt.Errorf("%w: asset %q", store.ErrNotFound, assetID)
	}
	g.active = true
	g.assetID = assetID
	g.base = a
	g.delta = IdentityTransform()
	return nil
}

// Update заменяет накопленное преобразование целиком. Хранилище не трогается.
func (g *Gizmo) Update(delta Transform) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return ErrNoActiveDrag
	}
	if delta.Scale == (models.Vec3{}) {
		delta.Scale = models.Vec3{X: 1, Y: 1, Z: 1}
	}
	if !delta.Scale.Positive() {
		return fmt.Errorf("%w: scale factor must be positive", store.ErrInvalidGeometry)
	}
	g.delta = delta
	return nil
}

// End применяет преобразование к актуальному состоянию ассета и
// записывает одну запись истории.
func (g *Gizmo) End() (models.Asset, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.active {
		return models.Asset{}, ErrNoActiveDrag
	}
	id, delta := g.assetID, g.delta
	g.resetLocked()

	current, ok := g.store.Asset(id)
	if !ok {
		return models.Asset{}, fmt.Errorf("%w: asset %q", store.ErrNotFound, id)
	}
	next := delta.Apply(current)
	updated, err := g.store.UpdateAsset(id, store.AssetPatch{
		Position: &next.Position,
		Rotation: &next.Rotation,
		Scale:    &next.Scale,
	})
	if err != nil {
		return models.Asset{}, err
	}
	g.store.Commit("transformAsset", id)
	return updated, nil
}

func (g *Gizmo) Cancel() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.resetLocked()
}

func (g *Gizmo) Status() GizmoStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	st := GizmoStatus{Active: g.active, AssetID: g.assetID, Delta: g.delta}
	if g.active {
		preview := g.delta.Apply(g.base)
		st.Preview = &preview
	}
	return st
}

func (g *Gizmo) resetLocked() {
	g.active = false
	g.assetID = ""
	g.base = models.Asset{}
	g.delta = IdentityTransform()
}
