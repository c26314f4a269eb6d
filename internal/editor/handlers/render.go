package handlers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"interior-planner/internal/editor/importer"
	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/render"
	"interior-planner/internal/editor/store"
)

// ============================================================
// Render
// ============================================================

func (h *EditorHandler) RenderStatus(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.Render.Status())
}

func (h *EditorHandler) GetRenderSettings(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(sess.Store.RenderSettings())
}

func (h *EditorHandler) PatchRenderSettings(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	var patch store.RenderPatch
	if err := decode(c, &patch, false); err != nil {
		return h.fail(c, err)
	}
	settings, err := sess.Store.UpdateRenderSettings(patch)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(settings)
}

func (h *EditorHandler) StartRender(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess.StartRender()
	return c.Status(http.StatusAccepted).JSON(sess.Render.Status())
}

func (h *EditorHandler) StopRender(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	sess.Render.Stop()
	return c.JSON(sess.Render.Status())
}

// FloorPlanSVG план в том виде, как его видит 2D-холст, включая превью стены.
func (h *EditorHandler) FloorPlanSVG(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}

	plan := render.PlanFromState(sess.Store.Snapshot())
	if st := sess.Walls.Status(); st.First != nil && st.Preview != nil {
		plan.Preview = &render.WallPreview{Start: *st.First, End: *st.Preview}
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(render.NewSVGRenderer(sess.Viewport).Render(plan))
}

func (h *EditorHandler) Scene(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(render.BuildScene(sess.Store.Snapshot()))
}

// ============================================================
// Import & library
// ============================================================

// ImportSVG добавляет стены из загруженного чертежа одной записью истории.
func (h *EditorHandler) ImportSVG(c fiber.Ctx) error {
	sess, err := h.session(c)
	if err != nil {
		return h.fail(c, err)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return h.fail(c, errBadRequest("file required"))
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".svg" {
		return h.fail(c, errBadRequest("only svg allowed"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return h.fail(c, err)
	}
	defer file.Close()

	opts := h.imports
	opts.Height = sess.Store.WallHeight()
	res, err := importer.New(opts, h.log.Named("importer")).Import(file)
	if err != nil {
		return h.fail(c, err)
	}

	added, err := sess.Store.ImportWalls(res.Walls)
	if err != nil {
		return h.fail(c, err)
	}
	h.log.Info("svg imported",
		zap.String("session", sess.ID),
		zap.String("file", fileHeader.Filename),
		zap.Int("walls", len(added)),
		zap.Int("skipped", res.Skipped))

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"walls":   added,
		"skipped": res.Skipped,
	})
}

func (h *EditorHandler) Library(c fiber.Ctx) error {
	category := models.AssetCategory(c.Query("category"))
	return c.JSON(fiber.Map{
		"categories": h.catalog.Categories(),
		"items":      h.catalog.Search(category, c.Query("q")),
	})
}
