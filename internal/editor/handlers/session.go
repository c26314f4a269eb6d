package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"interior-planner/internal/editor/library"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/project"
	"interior-planner/internal/editor/render"
	"interior-planner/internal/editor/service"
	"interior-planner/internal/editor/store"
	"interior-planner/internal/editor/tool"
)

// ============================================================
// Sessions
// ============================================================

type sessionResponse struct {
	ID        string           `json:"id"`
	ProjectID string           `json:"projectId,omitempty"`
	State     store.State      `json:"state"`
	WallTool  tool.WallStatus  `json:"wallTool"`
	Gizmo     tool.GizmoStatus `json:"gizmo"`
	Render    render.Status    `json:"render"`
	CanUndo   bool             `json:"canUndo"`
	CanRedo   bool             `json:"canRedo"`
}

func describe(sess *service.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		ProjectID: sess.ProjectID(),
		State:     sess.Store.Snapshot(),
		WallTool:  sess.Walls.Status(),
		Gizmo:     sess.Gizmo.Status(),
		Render:    sess.Render.Status(),
		CanUndo:   sess.Store.CanUndo(),
		CanRedo:   sess.Store.CanRedo(),
	}
}

type createSessionRequest struct {
	ProjectID string `json:"projectId"`
}

// CreateSession открывает сессию; с projectId загружает сохранённый проект.
func (h *EditorHandler) CreateSession(c fiber.Ctx) error {
	var req createSessionRequest
	if err := decode(c, &req, true); err != nil {
		return h.fail(c, err)
	}

	var doc *project.Document
	if req.ProjectID != "" {
		if h.projects == nil {
			return h.fail(c, errPersistenceDisabled)
		}
		stored, err := h.projects.Get(c.Context(), req.ProjectID)
		if err != nil {
			return h.fail(c, err)
		}
		doc = &stored
	}

	sess := h.sessions.Create()
	if doc != nil {
		if err := sess.Load(*doc); err != nil {
			_ = h.sessions.Close(sess.ID)
			return h.fail(c, err)
		}
		sess.SetProjectID(req.ProjectID)
	}

	return c.Status(http.StatusCreated).JSON(describe(sess))
}

func (h *EditorHandler) ListSessions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"sessions": h.sessions.IDs()})
}

func (h *EditorHandler) GetSession(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(describe(sess))
}

func (h *EditorHandler) DeleteSession(c fiber.Ctx) error {
	if err := h.sessions.Close(c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) PatchSettings(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch store.EditorPatch
	if err := decode(c, &patch, false); err != nil {
		return h.fail(c, err)
	}
	if err := sess.Store.UpdateEditor(patch); err != nil {
		return h.fail(c, err)
	}
	if patch.ActiveTool != nil && *patch.ActiveTool != models.ToolWall {
		sess.Walls.Cancel()
	}
	return c.JSON(sess.Store.Snapshot())
}

// ============================================================
// Walls
// ============================================================

func (h *EditorHandler) AddWall(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var w models.Wall
	if err := decode(c, &w, false); err != nil {
		return h.fail(c, err)
	}
	added, err := sess.Store.AddWall(w)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(added)
}

// PatchWall по умолчанию фиксирует правку в истории; ?transient=true для
// промежуточных шагов перетаскивания.
func (h *EditorHandler) PatchWall(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch store.WallPatch
	if err := decode(c, &patch, false); err != nil {
		return h.fail(c, err)
	}
	id := c.Params("wallId")
	updated, err := sess.Store.UpdateWall(id, patch)
	if err != nil {
		return h.fail(c, err)
	}
	if !transient(c) {
		sess.Store.Commit("updateWall", id)
	}
	return c.JSON(updated)
}

func (h *EditorHandler) DeleteWall(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := sess.Store.DeleteWall(c.Params("wallId")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Assets
// ============================================================

func (h *EditorHandler) AddAsset(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var a models.Asset
	if err := decode(c, &a, false); err != nil {
		return h.fail(c, err)
	}
	added, err := sess.Store.AddAsset(a)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(added)
}

type dropRequest struct {
	Payload json.RawMessage `json:"payload"`
	Screen  *models.Point   `json:"screen,omitempty"`
}

// DropAsset создаёт объект из перетащенного шаблона библиотеки. Без screen
// объект ставится в точку по умолчанию (клик по карточке).
func (h *EditorHandler) DropAsset(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req dropRequest
	if err := decode(c, &req, false); err != nil {
		return h.fail(c, err)
	}
	tpl, err := library.ParseDropPayload(req.Payload)
	if err != nil {
		return h.fail(c, err)
	}
	if known, ok := h.catalog.Get(tpl.ID); ok && tpl.Name == tpl.ID {
		tpl.Name = known.Name
	}

	added, err := sess.Store.AddAsset(library.Instantiate(tpl, req.Screen, sess.Viewport))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(added)
}

func (h *EditorHandler) PatchAsset(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch store.AssetPatch
	if err := decode(c, &patch, false); err != nil {
		return h.fail(c, err)
	}
	id := c.Params("assetId")
	updated, err := sess.Store.UpdateAsset(id, patch)
	if err != nil {
		return h.fail(c, err)
	}
	if !transient(c) {
		sess.Store.Commit("updateAsset", id)
	}
	return c.JSON(updated)
}

func (h *EditorHandler) DeleteAsset(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if err := sess.Store.DeleteAsset(c.Params("assetId")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) DuplicateAsset(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	dup, err := sess.Store.DuplicateAsset(c.Params("assetId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(dup)
}

// ============================================================
// Selection & history
// ============================================================

type selectionRequest struct {
	IDs []string `json:"ids"`
}

func (h *EditorHandler) SetSelection(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var req selectionRequest
	if err := decode(c, &req, false); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"selectedIds": sess.Store.SetSelected(req.IDs)})
}

func (h *EditorHandler) ClearSelection(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess.Store.ClearSelection()
	return c.SendStatus(http.StatusNoContent)
}

func (h *EditorHandler) DeleteSelection(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"removed": sess.Store.DeleteSelected()})
}

func (h *EditorHandler) Undo(c fiber.Ctx) error {
	return h.moveHistory(c, (*store.Store).Undo)
}

func (h *EditorHandler) Redo(c fiber.Ctx) error {
	return h.moveHistory(c, (*store.Store).Redo)
}

func (h *EditorHandler) moveHistory(c fiber.Ctx, move func(*store.Store) bool) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess.Gizmo.Cancel()
	applied := move(sess.Store)
	return c.JSON(fiber.Map{
		"applied":      applied,
		"historyIndex": sess.Store.HistoryIndex(),
		"state":        sess.Store.Snapshot(),
	})
}

func (h *EditorHandler) NewProject(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess.NewProject()
	return c.JSON(describe(sess))
}

// ============================================================
// Project file & persistence
// ============================================================

// SaveProject отдаёт файл проекта и сохраняет копию на диск.
func (h *EditorHandler) SaveProject(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	doc, _, err := sess.Export()
	if err != nil {
		return h.fail(c, err)
	}
	data, err := project.Encode(doc)
	if err != nil {
		return h.fail(c, err)
	}

	c.Set("Content-Type", "application/json")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s%s"`,
		service.FileName(doc.ProjectName), project.FileExtension))
	return c.Send(data)
}

// LoadProject принимает файл проекта телом запроса; всё или ничего.
func (h *EditorHandler) LoadProject(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if len(c.Body()) == 0 {
		return h.fail(c, errBadRequest("empty body"))
	}
	doc, err := project.Decode(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	if err := sess.Load(doc); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(describe(sess))
}

func (h *EditorHandler) PersistProject(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	if h.projects == nil {
		return h.fail(c, errPersistenceDisabled)
	}
	id := sess.EnsureProjectID()
	if err := h.projects.Save(c.Context(), id, sess.Store.Save()); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"projectId": id})
}

func (h *EditorHandler) ListProjects(c fiber.Ctx) error {
	if h.projects == nil {
		return h.fail(c, errPersistenceDisabled)
	}
	list, err := h.projects.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"projects": list})
}

func (h *EditorHandler) GetStoredProject(c fiber.Ctx) error {
	if h.projects == nil {
		return h.fail(c, errPersistenceDisabled)
	}
	doc, err := h.projects.Get(c.Context(), c.Params("projectId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(doc)
}

func (h *EditorHandler) DeleteStoredProject(c fiber.Ctx) error {
	if h.projects == nil {
		return h.fail(c, errPersistenceDisabled)
	}
	if err := h.projects.Delete(c.Context(), c.Params("projectId")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
