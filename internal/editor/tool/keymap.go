package tool

import (
	"strings"

	"interior-planner/internal/editor/models"
)

// ============================================================
// Keyboard shortcuts
// ============================================================

// KeyEvent нажатие клавиши в формате KeyboardEvent.key браузера.
type KeyEvent struct {
	Key         string `json:"key"`
	Ctrl        bool   `json:"ctrl"`
	Meta        bool   `json:"meta"`
	Shift       bool   `json:"shift"`
	TextFocused bool   `json:"textFocused"`
}

type Action string

const (
	ActionNone       Action = ""
	ActionSave       Action = "save"
	ActionUndo       Action = "undo"
	ActionRedo       Action = "redo"
	ActionViewMode   Action = "viewMode"
	ActionTool       Action = "tool"
	ActionDelete     Action = "deleteSelection"
	ActionToggleSnap Action = "toggleSnap"
	ActionCancel     Action = "cancel"
)

// KeyTarget команды хранилища, доступные с клавиатуры.
type KeyTarget interface {
	Undo() bool
	Redo() bool
	SetViewMode(mode models.ViewMode) error
	SetActiveTool(tool models.Tool) error
	DeleteSelected() int
	ToggleSnapToGrid() bool
}

var viewKeys = map[string]models.ViewMode{
	"1": models.View2D,
	"2": models.View3D,
	"3": models.ViewRender,
}

var toolKeys = map[string]models.Tool{
	"v": models.ToolSelect,
	"w": models.ToolWall,
	"d": models.ToolDoor,
	"m": models.ToolMeasure,
	"r": models.ToolRotate,
	"s": models.ToolScale,
	"g": models.ToolMove,
}

// Keymap переводит нажатия в команды. Сохранение делегируется в Save,
// потому что оно выходит за пределы хранилища.
type Keymap struct {
	Target KeyTarget
	Walls  *WallTool
	Gizmo  *Gizmo
	Save   func() error
}

// Dispatch выполняет команду для нажатия. Сочетания с Ctrl/Meta не
// переключают инструменты.
func (k *Keymap) Dispatch(ev KeyEvent) (Action, error) {
	if ev.TextFocused {
		return ActionNone, nil
	}

	key := ev.Key
	if len(key) == 1 {
		key = strings.ToLower(key)
	}

	if ev.Ctrl || ev.Meta {
		switch key {
		case "s":
			if k.Save != nil {
				if err := k.Save(); err != nil {
					return ActionSave, err
				}
			}
			return ActionSave, nil
		case "z":
			if ev.Shift {
				k.Target.Redo()
				return ActionRedo, nil
			}
			k.Target.Undo()
			return ActionUndo, nil
		}
		return ActionNone, nil
	}

	switch key {
	case "Delete", "Backspace":
		k.Target.DeleteSelected()
		return ActionDelete, nil
	case "Tab":
		if ev.Shift {
			k.Target.ToggleSnapToGrid()
			return ActionToggleSnap, nil
		}
		return ActionNone, nil
	case "Escape":
		if k.Walls != nil {
			k.Walls.Cancel()
		}
		if k.Gizmo != nil {
			k.Gizmo.Cancel()
		}
		return ActionCancel, nil
	}

	if mode, ok := viewKeys[key]; ok {
		return ActionViewMode, k.Target.SetViewMode(mode)
	}
	if t, ok := toolKeys[key]; ok {
		if t != models.ToolWall && k.Walls != nil {
			k.Walls.Cancel()
		}
		return ActionTool, k.Target.SetActiveTool(t)
	}
	return ActionNone, nil
}
