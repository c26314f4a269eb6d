package handlers

import (
	"github.com/gofiber/fiber/v3"

	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/tool"
)

// ============================================================
// Pointer & keyboard
// ============================================================

type pointerRequest struct {
	Type     string  `json:"type"` // down | move
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Additive bool    `json:"additive"`
}

// Pointer направляет событие холста активному инструменту.
func (h *EditorHandler) Pointer(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req pointerRequest
	if err := decode(c, &req, false); err != nil {
		return h.fail(c, err)
	}
	if req.Type != "down" && req.Type != "move" {
		return h.fail(c, errBadRequest("pointer type must be down or move"))
	}

	screen := models.Point{X: req.X, Y: req.Y}
	resp := fiber.Map{}

	switch sess.Store.ActiveTool() {
	case models.ToolWall:
		if req.Type == "move" {
			sess.Walls.PointerMove(screen)
			break
		}
		w, err := sess.Walls.PointerDown(screen)
		if err != nil {
			return h.fail(c, err)
		}
		if w != nil {
			resp["wall"] = w
		}
	case models.ToolSelect:
		if req.Type == "down" {
			id, _ := sess.Pick(screen, req.Additive)
			resp["picked"] = id
		}
	}

	resp["wallTool"] = sess.Walls.Status()
	resp["selectedIds"] = sess.Store.Selection()
	return c.JSON(resp)
}

func (h *EditorHandler) Keys(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var ev tool.KeyEvent
	if err := decode(c, &ev, false); err != nil {
		return h.fail(c, err)
	}
	action, err := sess.Keys.Dispatch(ev)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{
		"action": action,
		"state":  sess.Store.Snapshot(),
	})
}

func (h *EditorHandler) Pick(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req pointerRequest
	if err := decode(c, &req, false); err != nil {
		return h.fail(c, err)
	}
	id, selected := sess.Pick(models.Point{X: req.X, Y: req.Y}, req.Additive)
	return c.JSON(fiber.Map{"picked": id, "selectedIds": selected})
}

// ============================================================
// Transform gizmo
// ============================================================

type gizmoBeginRequest struct {
	AssetID string `json:"assetId"`
}

func (h *EditorHandler) GizmoBegin(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req gizmoBeginRequest
	if err := decode(c, &req, false); err != nil {
		return h.fail(c, err)
	}
	if err := sess.Gizmo.Begin(req.AssetID); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.Gizmo.Status())
}

func (h *EditorHandler) GizmoUpdate(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	delta := tool.IdentityTransform()
	if err := decode(c, &delta, false); err != nil {
		return h.fail(c, err)
	}
	if err := sess.Gizmo.Update(delta); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.Gizmo.Status())
}

func (h *EditorHandler) GizmoEnd(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	asset, err := sess.Gizmo.End()
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(asset)
}

func (h *EditorHandler) GizmoCancel(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess.Gizmo.Cancel()
	return c.SendStatus(fiber.StatusNoContent)
}
