package store

import (
	"math/rand"
	"testing"

	"interior-planner/internal/editor/models"
	"interior-planner/internal/editor/project"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wall(id string, x1, y1, x2, y2 float64) models.Wall {
	return models.Wall{ID: id, Start: models.Point{X: x1, Y: y1}, End: models.Point{X: x2, Y: y2}}
}

func sofa(id string) models.Asset {
	return models.Asset{
		ID:        id,
		Category:  models.CategoryFurniture,
		Name:      "Modern Sofa",
		Scale:     models.Vec3{X: 1, Y: 1, Z: 1},
		ModelPath: "sofa_01",
	}
}

func TestAddWallAppliesDefaultsAndHistory(t *testing.T) {
	s := New()

	w, err := s.AddWall(models.Wall{Start: models.Point{}, End: models.Point{X: 3}})
	require.NoError(t, err)
	assert.NotEmpty(t, w.ID)
	assert.Equal(t, DefaultWallThickness, w.Thickness)
	assert.Equal(t, project.DefaultWallHeight, w.Height)
	assert.Equal(t, DefaultMaterial, w.Material)

	assert.Equal(t, 0, s.HistoryIndex())
	assert.Equal(t, []Entry{{Action: "addWall", TargetID: w.ID}}, s.Snapshot().History)
}

func TestAddWallRejectsZeroLength(t *testing.T) {
	s := New()

	_, err := s.AddWall(wall("w", 1, 1, 1, 1))
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Empty(t, s.Walls())
	assert.Equal(t, -1, s.HistoryIndex())
}

func TestAddRejectsDuplicateIDs(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("x", 0, 0, 1, 0))
	require.NoError(t, err)

	_, err = s.AddAsset(sofa("x"))
	assert.ErrorIs(t, err, ErrDuplicateID)
	_, err = s.AddWall(wall("x", 0, 0, 0, 1))
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestUpdateWallIsTransient(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)

	end := models.Point{X: 5, Y: 0}
	updated, err := s.UpdateWall("w", WallPatch{End: &end})
	require.NoError(t, err)
	assert.Equal(t, end, updated.End)
	assert.Equal(t, 1, s.HistoryLen())

	start := end
	_, err = s.UpdateWall("w", WallPatch{Start: &start})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	got, _ := s.Wall("w")
	assert.Equal(t, models.Point{}, got.Start)

	_, err = s.UpdateWall("missing", WallPatch{End: &end})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteWallMissingLeavesStateUnchanged(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)

	err = s.DeleteWall("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, s.Walls(), 1)
	assert.Equal(t, 0, s.HistoryIndex())
}

func TestDeleteAssetPrunesSelection(t *testing.T) {
	s := New()
	_, err := s.AddAsset(sofa("a"))
	require.NoError(t, err)
	_, err = s.AddAsset(sofa("b"))
	require.NoError(t, err)
	s.SetSelected([]string{"a", "b"})

	require.NoError(t, s.DeleteAsset("a"))
	assert.Equal(t, []string{"b"}, s.Selection())
	assert.Equal(t, "deleteAsset", s.Snapshot().History[2].Action)
}

func TestDeleteWallPrunesSelection(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)
	s.SetSelected([]string{"w"})

	require.NoError(t, s.DeleteWall("w"))
	assert.Empty(t, s.Selection())
}

func TestDuplicateAsset(t *testing.T) {
	s := New()
	src, err := s.AddAsset(models.Asset{
		ID:       "sofa",
		Name:     "Modern Sofa",
		Rotation: models.Vec3{Y: 0.5},
		Scale:    models.Vec3{X: 2, Y: 1, Z: 1},
	})
	require.NoError(t, err)
	s.SetSelected([]string{"sofa"})

	dup, err := s.DuplicateAsset("sofa")
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, dup.ID)
	assert.Equal(t, models.Vec3{X: 1, Y: 0, Z: 0}, dup.Position)
	assert.Equal(t, src.Rotation, dup.Rotation)
	assert.Equal(t, src.Scale, dup.Scale)
	assert.Equal(t, []string{"sofa"}, s.Selection())

	_, ok := s.Asset(dup.ID)
	assert.True(t, ok)

	_, err = s.DuplicateAsset("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssetScaleValidation(t *testing.T) {
	s := New()
	a, err := s.AddAsset(models.Asset{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, models.Vec3{X: 1, Y: 1, Z: 1}, a.Scale)

	_, err = s.AddAsset(models.Asset{ID: "b", Scale: models.Vec3{X: 1, Y: -1, Z: 1}})
	assert.ErrorIs(t, err, ErrInvalidGeometry)

	bad := models.Vec3{X: 1, Y: 0, Z: 1}
	_, err = s.UpdateAsset("a", AssetPatch{Scale: &bad})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	got, _ := s.Asset("a")
	assert.Equal(t, models.Vec3{X: 1, Y: 1, Z: 1}, got.Scale)
}

func TestSetSelectedFiltersUnknownIDs(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 1, 0))
	require.NoError(t, err)

	got := s.SetSelected([]string{"w", "ghost", "w"})
	assert.Equal(t, []string{"w"}, got)

	s.ClearSelection()
	assert.Empty(t, s.Selection())
}

func TestUndoRedoRestoresScene(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w1", 0, 0, 3, 0))
	require.NoError(t, err)
	_, err = s.AddWall(wall("w2", 0, 0, 0, 4))
	require.NoError(t, err)
	require.NoError(t, s.DeleteWall("w1"))
	assert.Len(t, s.Walls(), 1)

	require.True(t, s.Undo())
	assert.Len(t, s.Walls(), 2)

	require.True(t, s.Undo())
	assert.Len(t, s.Walls(), 1)
	assert.Equal(t, "w1", s.Walls()[0].ID)

	require.True(t, s.Undo())
	assert.Empty(t, s.Walls())
	assert.False(t, s.Undo())
	assert.Equal(t, -1, s.HistoryIndex())

	require.True(t, s.Redo())
	require.True(t, s.Redo())
	assert.Len(t, s.Walls(), 2)
	require.True(t, s.Redo())
	assert.False(t, s.Redo())
	assert.Len(t, s.Walls(), 1)
	assert.Equal(t, "w2", s.Walls()[0].ID)
}

func TestNewCommandDiscardsRedoSuffix(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w1", 0, 0, 3, 0))
	require.NoError(t, err)
	_, err = s.AddWall(wall("w2", 0, 0, 0, 4))
	require.NoError(t, err)

	s.Undo()
	_, err = s.AddWall(wall("w3", 1, 1, 2, 2))
	require.NoError(t, err)

	assert.Equal(t, 2, s.HistoryLen())
	assert.Equal(t, 1, s.HistoryIndex())
	assert.False(t, s.Redo())

	ids := []string{}
	for _, w := range s.Walls() {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"w1", "w3"}, ids)
}

func TestUndoPrunesSelection(t *testing.T) {
	s := New()
	_, err := s.AddAsset(sofa("a"))
	require.NoError(t, err)
	s.SetSelected([]string{"a"})

	s.Undo()
	assert.Empty(t, s.Selection())
}

func TestHistoryCursorStaysInBounds(t *testing.T) {
	s := New(WithHistoryLimit(5))
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		switch r.Intn(4) {
		case 0:
			s.Undo()
		case 1:
			s.Redo()
		case 2:
			_, _ = s.AddWall(models.Wall{Start: models.Point{}, End: models.Point{X: float64(i + 1)}})
		case 3:
			walls := s.Walls()
			if len(walls) > 0 {
				_ = s.DeleteWall(walls[r.Intn(len(walls))].ID)
			}
		}

		idx, n := s.HistoryIndex(), s.HistoryLen()
		require.GreaterOrEqual(t, idx, -1)
		require.LessOrEqual(t, idx, n-1)
		require.LessOrEqual(t, n, 5)
	}
}

func TestHistoryLimitFoldsIntoBase(t *testing.T) {
	s := New(WithHistoryLimit(2))
	for _, id := range []string{"a", "b", "c"} {
		_, err := s.AddWall(wall(id, 0, 0, 1, 0))
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.HistoryLen())

	s.Undo()
	s.Undo()
	assert.False(t, s.Undo())
	require.Len(t, s.Walls(), 1)
	assert.Equal(t, "a", s.Walls()[0].ID)
}

func TestCommitRecordsTransientEdits(t *testing.T) {
	s := New()
	_, err := s.AddAsset(sofa("a"))
	require.NoError(t, err)

	assert.False(t, s.Commit("transform", "a"))

	pos := models.Vec3{X: 2, Y: 0, Z: 1}
	_, err = s.UpdateAsset("a", AssetPatch{Position: &pos})
	require.NoError(t, err)
	assert.True(t, s.Commit("transform", "a"))
	assert.Equal(t, 1, s.HistoryIndex())

	s.Undo()
	got, _ := s.Asset("a")
	assert.Equal(t, models.Vec3{}, got.Position)
	s.Redo()
	got, _ = s.Asset("a")
	assert.Equal(t, pos, got.Position)
}

func TestDeleteSelected(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 1, 0))
	require.NoError(t, err)
	_, err = s.AddAsset(sofa("a"))
	require.NoError(t, err)
	_, err = s.AddAsset(sofa("b"))
	require.NoError(t, err)

	assert.Equal(t, 0, s.DeleteSelected())

	s.SetSelected([]string{"w", "a"})
	assert.Equal(t, 2, s.DeleteSelected())
	assert.Empty(t, s.Walls())
	assert.Empty(t, s.Selection())
	assert.Equal(t, 4, s.HistoryLen())

	s.Undo()
	assert.Len(t, s.Walls(), 1)
	assert.Len(t, s.Snapshot().Assets, 2)
}

func TestImportWallsSingleEntry(t *testing.T) {
	s := New()
	added, err := s.ImportWalls([]models.Wall{wall("", 0, 0, 1, 0), wall("", 1, 0, 1, 1)})
	require.NoError(t, err)
	assert.Len(t, added, 2)
	assert.Equal(t, 1, s.HistoryLen())

	_, err = s.ImportWalls([]models.Wall{wall("ok", 0, 0, 1, 0), wall("bad", 2, 2, 2, 2)})
	assert.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Len(t, s.Walls(), 2)
}

func TestSaveLoad(t *testing.T) {
	s := New()
	require.NoError(t, s.SetProjectName("Loft"))
	require.NoError(t, s.SetGridSize(0.25))
	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)
	_, err = s.AddAsset(sofa("a"))
	require.NoError(t, err)

	doc := s.Save()
	assert.Equal(t, project.CurrentVersion, doc.Version)
	assert.Equal(t, 0.25, doc.Settings.GridSize)

	other := New()
	require.NoError(t, other.Load(doc))
	snap := other.Snapshot()
	assert.Equal(t, "Loft", snap.ProjectName)
	assert.Equal(t, 0.25, snap.Grid.CellSize)
	assert.Len(t, snap.Walls, 1)
	assert.Len(t, snap.Assets, 1)
	assert.Equal(t, -1, snap.HistoryIndex)
	assert.False(t, other.Undo())
}

func TestLoadInvalidKeepsState(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)
	before := s.Snapshot()

	err = s.LoadBytes([]byte(`{"projectName":"x","assets":[]}`))
	assert.ErrorIs(t, err, ErrInvalidDocument)

	bad := project.Document{Settings: project.DefaultSettings(), Walls: []models.Wall{wall("z", 1, 1, 1, 1)}}
	assert.ErrorIs(t, s.Load(bad), ErrInvalidDocument)
	assert.Equal(t, before, s.Snapshot())
}

func TestNewProjectResets(t *testing.T) {
	s := New()
	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)
	require.NoError(t, s.SetActiveTool(models.ToolWall))

	s.NewProject()
	snap := s.Snapshot()
	assert.Empty(t, snap.Walls)
	assert.Equal(t, models.ToolSelect, snap.ActiveTool)
	assert.Equal(t, -1, snap.HistoryIndex)
	assert.Empty(t, snap.History)
}

func TestSettingsValidation(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.SetGridSize(0), ErrInvalidSetting)
	assert.ErrorIs(t, s.SetActiveTool("lasso"), ErrInvalidSetting)
	assert.ErrorIs(t, s.SetViewMode("VR"), ErrInvalidSetting)
	assert.ErrorIs(t, s.SetUnits("cubits"), ErrInvalidSetting)
	assert.ErrorIs(t, s.SetProjectName("  "), ErrInvalidSetting)
	assert.ErrorIs(t, s.SetWallHeight(-1), ErrInvalidSetting)

	assert.False(t, s.ToggleSnapToGrid())
	assert.True(t, s.ToggleSnapToGrid())
	assert.False(t, s.ToggleDarkMode())

	q := models.QualityUltra
	tm := models.ToneMapping("filmic")
	_, err := s.UpdateRenderSettings(RenderPatch{Quality: &q, ToneMapping: &tm})
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.Equal(t, models.QualityHigh, s.RenderSettings().Quality)

	rs, err := s.UpdateRenderSettings(RenderPatch{Quality: &q})
	require.NoError(t, err)
	assert.Equal(t, models.QualityUltra, rs.Quality)
}

func TestSubscribersReceiveSnapshots(t *testing.T) {
	s := New()
	var got []State
	unsubscribe := s.Subscribe(func(st State) { got = append(got, st) })

	_, err := s.AddWall(wall("w", 0, 0, 3, 0))
	require.NoError(t, err)
	_ = s.DeleteWall("ghost")
	s.Undo()

	require.Len(t, got, 2)
	assert.Len(t, got[0].Walls, 1)
	assert.Empty(t, got[1].Walls)

	got[0].Walls[0].ID = "mutated"
	unsubscribe()
	require.True(t, s.Redo())
	assert.Len(t, got, 2)
	_, ok := s.Wall("w")
	assert.True(t, ok)
}

func TestUpdateEditorIsAtomic(t *testing.T) {
	s := New()

	name := "Loft"
	units := models.UnitsImperial
	bad := -1.0
	err := s.UpdateEditor(EditorPatch{ProjectName: &name, Units: &units, GridSize: &bad})
	assert.ErrorIs(t, err, ErrInvalidSetting)
	assert.Equal(t, project.DefaultProjectName, s.Snapshot().ProjectName)
	assert.Equal(t, models.UnitsMetric, s.Snapshot().Units)

	size := 0.25
	snap := false
	require.NoError(t, s.UpdateEditor(EditorPatch{ProjectName: &name, Units: &units, GridSize: &size, SnapToGrid: &snap}))
	st := s.Snapshot()
	assert.Equal(t, "Loft", st.ProjectName)
	assert.Equal(t, models.UnitsImperial, st.Units)
	assert.Equal(t, models.GridSettings{CellSize: 0.25, SnapEnabled: false}, st.Grid)
	assert.Equal(t, 0, s.HistoryLen())
}

func TestLoadedWallWithoutSizeStaysEditable(t *testing.T) {
	s := New()
	require.NoError(t, s.LoadBytes([]byte(`{"walls":[{"id":"w1","start":[0,0],"end":[3,0]}],"assets":[]}`)))

	w, ok := s.Wall("w1")
	require.True(t, ok)
	assert.Equal(t, DefaultWallThickness, w.Thickness)
	assert.Equal(t, project.DefaultWallHeight, w.Height)

	material := "brick"
	updated, err := s.UpdateWall("w1", WallPatch{Material: &material})
	require.NoError(t, err)
	assert.Equal(t, "brick", updated.Material)

	doc := project.Document{
		Settings: project.DefaultSettings(),
		Walls:    []models.Wall{{ID: "w2", End: models.Point{X: 1}}},
		Assets:   []models.Asset{},
	}
	require.NoError(t, s.Load(doc))
	w, ok = s.Wall("w2")
	require.True(t, ok)
	assert.Equal(t, DefaultWallThickness, w.Thickness)
}

func TestUndoDiscardsPendingTransientEdits(t *testing.T) {
	s := New()
	_, err := s.AddAsset(sofa("a"))
	require.NoError(t, err)
	require.NoError(t, s.Load(s.Save()))
	require.Equal(t, -1, s.HistoryIndex())

	pos := models.Vec3{X: 5}
	_, err = s.UpdateAsset("a", AssetPatch{Position: &pos})
	require.NoError(t, err)

	require.True(t, s.Undo())
	got, _ := s.Asset("a")
	assert.Equal(t, models.Vec3{}, got.Position)
	assert.Equal(t, -1, s.HistoryIndex())
	assert.False(t, s.Undo())

	_, err = s.AddWall(wall("w", 0, 0, 2, 0))
	require.NoError(t, err)
	end := models.Point{X: 4}
	_, err = s.UpdateWall("w", WallPatch{End: &end})
	require.NoError(t, err)

	require.True(t, s.Undo())
	w, _ := s.Wall("w")
	assert.Equal(t, models.Point{X: 2}, w.End)
	assert.Equal(t, 0, s.HistoryIndex())

	require.True(t, s.Undo())
	assert.Empty(t, s.Walls())
}
