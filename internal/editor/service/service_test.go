package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/project"
	"interior-planner/internal/editor/tool"
)

func newManager(t *testing.T) (*SessionManager, string) {
	t.Helper()
	root := t.TempDir()
	m := NewSessionManager(Options{
		HistoryLimit: 10,
		RenderTick:   time.Hour,
		Files:        NewFileStorage(root),
	})
	t.Cleanup(m.CloseAll)
	return m, root
}

func TestSessionManager_Lifecycle(t *testing.T) {
	m, _ := newManager(t)

	a := m.Create()
	b := m.Create()
	assert.NotEqual(t, a.ID, b.ID)

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, m.IDs())

	require.NoError(t, m.Close(a.ID))
	_, err = m.Get(a.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, m.Close(a.ID), ErrSessionNotFound)
}

func TestSession_CloseStopsRender(t *testing.T) {
	m, _ := newManager(t)
	sess := m.Create()

	sess.StartRender()
	done := sess.Render.Done()
	assert.True(t, sess.Render.Status().Rendering)

	require.NoError(t, m.Close(sess.ID))
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("render goroutine leaked")
	}
}

func TestSession_NewProjectResetsEverything(t *testing.T) {
	m, _ := newManager(t)
	sess := m.Create()

	_, err := sess.Store.AddWall(models.Wall{End: models.Point{X: 2}})
	require.NoError(t, err)
	require.NoError(t, sess.Store.SetActiveTool(models.ToolWall))
	_, err = sess.Walls.PointerDown(sess.Viewport.WorldToScreen(models.Point{X: 1, Y: 1}))
	require.NoError(t, err)
	sess.StartRender()
	sess.SetProjectID("p1")

	sess.NewProject()

	assert.Empty(t, sess.Store.Walls())
	assert.Equal(t, tool.WallIdle, sess.Walls.Status().State)
	assert.False(t, sess.Render.Status().Rendering)
	assert.Empty(t, sess.ProjectID())
}

func TestSession_ExportWritesProjectFile(t *testing.T) {
	m, root := newManager(t)
	sess := m.Create()

	require.NoError(t, sess.Store.SetProjectName("Flat 12/B"))
	_, err := sess.Store.AddWall(models.Wall{End: models.Point{X: 3}})
	require.NoError(t, err)

	doc, path, err := sess.Export()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, sess.ID, "Flat_12_B.interior3d"), path)

	loaded, err := ReadProject(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Walls, loaded.Walls)
	assert.Equal(t, project.CurrentVersion, loaded.Version)
}

func TestSession_SaveShortcutExports(t *testing.T) {
	m, root := newManager(t)
	sess := m.Create()

	act, err := sess.Keys.Dispatch(tool.KeyEvent{Key: "s", Ctrl: true})
	require.NoError(t, err)
	assert.Equal(t, tool.ActionSave, act)

	_, err = os.Stat(filepath.Join(root, sess.ID, "Untitled_Project.interior3d"))
	assert.NoError(t, err)
}

func TestSession_LoadKeepsStateOnError(t *testing.T) {
	m, _ := newManager(t)
	sess := m.Create()

	_, err := sess.Store.AddWall(models.Wall{End: models.Point{X: 3}})
	require.NoError(t, err)

	bad := project.Document{Walls: []models.Wall{{ID: "z"}}, Assets: []models.Asset{}}
	assert.Error(t, sess.Load(bad))
	assert.Len(t, sess.Store.Walls(), 1)
}

func TestEnsureProjectID(t *testing.T) {
	m, _ := newManager(t)
	sess := m.Create()

	id := sess.EnsureProjectID()
	assert.NotEmpty(t, id)
	assert.Equal(t, id, sess.EnsureProjectID())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Untitled_Project", FileName("  "))
	assert.Equal(t, "Квартира_2", FileName("Квартира 2"))
	assert.Equal(t, "a_b_c", FileName("a/b.c"))
}

func TestReadProject_Missing(t *testing.T) {
	_, err := ReadProject(filepath.Join(t.TempDir(), "missing.interior3d"))
	assert.Error(t, err)
}

func TestSession_Pick(t *testing.T) {
	m, _ := newManager(t)
	sess := m.Create()

	w, err := sess.Store.AddWall(models.Wall{End: models.Point{X: 4}})
	require.NoError(t, err)
	a, err := sess.Store.AddAsset(models.Asset{Position: models.Vec3{X: 2, Z: 2}})
	require.NoError(t, err)

	screen := sess.Viewport.WorldToScreen

	id, sel := sess.Pick(screen(models.Point{X: 1, Y: 0.05}), false)
	assert.Equal(t, w.ID, id)
	assert.Equal(t, []string{w.ID}, sel)

	id, sel = sess.Pick(screen(models.Point{X: 2.2, Y: 2.1}), true)
	assert.Equal(t, a.ID, id)
	assert.Equal(t, []string{w.ID, a.ID}, sel)

	_, sel = sess.Pick(screen(models.Point{X: 3, Y: 3}), true)
	assert.Len(t, sel, 2)

	id, sel = sess.Pick(screen(models.Point{X: 3, Y: 3}), false)
	assert.Empty(t, id)
	assert.Empty(t, sel)
}
