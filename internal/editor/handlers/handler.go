// Package handlers exposes editing sessions over HTTP/JSON.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"interior-planner/internal/editor/importer"
	"interior-planner/internal/editor/library"
	"interior-planner/internal/editor/project"
	"interior-planner/internal/editor/repository"
	"interior-planner/internal/editor/service"
	"interior-planner/internal/editor/store"
	"interior-planner/internal/editor/tool"
)

// ProjectRepository хранилище сохранённых проектов.
type ProjectRepository interface {
	Save(ctx context.Context, id string, doc project.Document) error
	Get(ctx context.Context, id string) (project.Document, error)
	List(ctx context.Context) ([]repository.ProjectInfo, error)
	Delete(ctx context.Context, id string) error
}

// ============================================================
// Editor Handler
// ============================================================

type EditorHandler struct {
	sessions *service.SessionManager
	projects ProjectRepository
	catalog  *library.Catalog
	imports  importer.Options
	log      *zap.Logger
}

// NewEditorHandler projects может быть nil: тогда сохранение в базу отключено.
func NewEditorHandler(sessions *service.SessionManager, projects ProjectRepository, catalog *library.Catalog, imports importer.Options, log *zap.Logger) *EditorHandler {
	if catalog == nil {
		catalog = library.Builtin()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &EditorHandler{
		sessions: sessions,
		projects: projects,
		catalog:  catalog,
		imports:  imports,
		log:      log,
	}
}

// Register вешает маршруты API на router.
func (h *EditorHandler) Register(router fiber.Router) {
	api := router.Group("/api/v1")

	api.Get("/library", h.Library)

	api.Get("/projects", h.ListProjects)
	api.Get("/projects/:projectId", h.GetStoredProject)
	api.Delete("/projects/:projectId", h.DeleteStoredProject)

	api.Get("/sessions", h.ListSessions)
	api.Post("/sessions", h.CreateSession)
	api.Get("/sessions/:id", h.GetSession)
	api.Delete("/sessions/:id", h.DeleteSession)
	api.Patch("/sessions/:id/settings", h.PatchSettings)

	api.Post("/sessions/:id/walls", h.AddWall)
	api.Patch("/sessions/:id/walls/:wallId", h.PatchWall)
	api.Delete("/sessions/:id/walls/:wallId", h.DeleteWall)

	api.Post("/sessions/:id/assets", h.AddAsset)
	api.Post("/sessions/:id/assets/drop", h.DropAsset)
	api.Patch("/sessions/:id/assets/:assetId", h.PatchAsset)
	api.Delete("/sessions/:id/assets/:assetId", h.DeleteAsset)
	api.Post("/sessions/:id/assets/:assetId/duplicate", h.DuplicateAsset)

	api.Put("/sessions/:id/selection", h.SetSelection)
	api.Delete("/sessions/:id/selection", h.ClearSelection)
	api.Post("/sessions/:id/selection/delete", h.DeleteSelection)

	api.Post("/sessions/:id/undo", h.Undo)
	api.Post("/sessions/:id/redo", h.Redo)
	api.Post("/sessions/:id/new", h.NewProject)

	api.Get("/sessions/:id/project", h.SaveProject)
	api.Post("/sessions/:id/project", h.LoadProject)
	api.Post("/sessions/:id/persist", h.PersistProject)

	api.Post("/sessions/:id/pointer", h.Pointer)
	api.Post("/sessions/:id/keys", h.Keys)
	api.Post("/sessions/:id/pick", h.Pick)

	api.Post("/sessions/:id/gizmo/begin", h.GizmoBegin)
	api.Post("/sessions/:id/gizmo/update", h.GizmoUpdate)
	api.Post("/sessions/:id/gizmo/end", h.GizmoEnd)
	api.Post("/sessions/:id/gizmo/cancel", h.GizmoCancel)

	api.Get("/sessions/:id/render", h.RenderStatus)
	api.Get("/sessions/:id/render/settings", h.GetRenderSettings)
	api.Patch("/sessions/:id/render/settings", h.PatchRenderSettings)
	api.Post("/sessions/:id/render/start", h.StartRender)
	api.Post("/sessions/:id/render/stop", h.StopRender)

	api.Get("/sessions/:id/floorplan.svg", h.FloorPlanSVG)
	api.Get("/sessions/:id/scene", h.Scene)
	api.Post("/sessions/:id/import/svg", h.ImportSVG)
}

// ============================================================
// Helpers
// ============================================================

func (h *EditorHandler) session(c fiber.Ctx) (*service.Session, error) {
	return h.sessions.Get(c.Params("id"))
}

// decode разбирает JSON тело; пустое тело допустимо, если allowEmpty.
func decode(c fiber.Ctx, dst any, allowEmpty bool) error {
	body := c.Body()
	if len(body) == 0 {
		if allowEmpty {
			return nil
		}
		return errBadRequest("empty body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return errBadRequest("invalid json: " + err.Error())
	}
	return nil
}

type requestError struct {
	msg string
}

func (e requestError) Error() string { return e.msg }

func errBadRequest(msg string) error { return requestError{msg: msg} }

var errPersistenceDisabled = errors.New("project persistence is disabled")

// statusFor сопоставляет ошибки домена HTTP-статусам.
func statusFor(err error) int {
	var reqErr requestError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalidDocument):
		return http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrInvalidGeometry),
		errors.Is(err, store.ErrInvalidSetting),
		errors.Is(err, library.ErrInvalidPayload),
		errors.Is(err, importer.ErrInvalidSVG):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicateID),
		errors.Is(err, tool.ErrDragActive),
		errors.Is(err, tool.ErrNoActiveDrag):
		return http.StatusConflict
	case errors.Is(err, errPersistenceDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *EditorHandler) fail(c fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// transient сообщает, что правка промежуточная и не пишется в историю.
func transient(c fiber.Ctx) bool {
	return c.Query("transient") == "true"
}
