// Package tool implements pointer and keyboard interaction on top of the
// editor store: two-click wall drawing, the transform gizmo and shortcuts.
package tool

import (
	"errors"
	"sync"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

// ============================================================
// Wall tool
// ============================================================

type WallState string

const (
	WallIdle                WallState = "idle"
	WallAwaitingSecondPoint WallState = "awaitingSecondPoint"
)

// WallStore часть хранилища, нужная инструменту стен.
type WallStore interface {
	ActiveTool() models.Tool
	Grid() models.GridSettings
	WallHeight() float64
	AddWall(w models.Wall) (models.Wall, error)
}

// WallStatus состояние инструмента для отрисовки превью. Точки в метрах.
type WallStatus struct {
	State   WallState     `json:"state"`
	First   *models.Point `json:"first,omitempty"`
	Preview *models.Point `json:"preview,omitempty"`
}

// WallTool двухкликовый инструмент: первый клик запоминает начало,
// второй создаёт стену и возвращает инструмент в Idle.
type WallTool struct {
	mu       sync.Mutex
	store    WallStore
	viewport geometry.Viewport

	state   WallState
	first   models.Point
	preview models.Point
}

func NewWallTool(store WallStore, vp geometry.Viewport) *WallTool {
	return &WallTool{store: store, viewport: vp, state: WallIdle}
}

// PointerDown принимает точку холста в пикселях. Возвращает созданную стену,
// если клик завершил её. Клик в ту же точку, что и первый, игнорируется.
func (t *WallTool) PointerDown(screen models.Point) (*models.Wall, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.store.ActiveTool() != models.ToolWall {
		t.resetLocked()
		return nil, nil
	}

	p := t.toWorld(screen)
	switch t.state {
	case WallIdle:
		t.first = p
		t.preview = p
		t.state = WallAwaitingSecondPoint
		return nil, nil

	case WallAwaitingSecondPoint:
		if geometry.Degenerate(t.first, p) {
			return nil, nil
		}
		w, err := t.store.AddWall(models.Wall{
			Start:  t.first,
			End:    p,
			Height: t.store.WallHeight(),
		})
		if err != nil {
			return nil, err
		}
		t.resetLocked()
		return &w, nil
	}
	return nil, errors.New("wall tool in unknown state")
}

// PointerMove обновляет превью; в хранилище ничего не пишется.
func (t *WallTool) PointerMove(screen models.Point) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == WallAwaitingSecondPoint {
		t.preview = t.toWorld(screen)
	}
}

// Cancel сбрасывает запомненную точку без создания стены.
func (t *WallTool) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.resetLocked()
}

func (t *WallTool) Status() WallStatus {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := WallStatus{State: t.state}
	if t.state == WallAwaitingSecondPoint {
		first, preview := t.first, t.preview
		st.First = &first
		st.Preview = &preview
	}
	return st
}

func (t *WallTool) toWorld(screen models.Point) models.Point {
	snapped := t.viewport.Snap(screen, t.store.Grid())
	return t.viewport.ScreenToWorld(snapped)
}

func (t *WallTool) resetLocked() {
	t.state = WallIdle
	t.first = models.Point{}
	t.preview = models.Point{}
}
