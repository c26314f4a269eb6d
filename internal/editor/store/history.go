package store

import (
	"reflect"
)

// ============================================================
// History
// ============================================================

// entry хранит сцену после выполнения команды; откат к курсору i
// восстанавливает history[i].scene, к -1 базовую сцену.
type entry struct {
	Entry
	scene Scene
}

func (s *Store) pushLocked(action, targetID string) {
	s.history = append(s.history[:s.cursor+1], entry{
		Entry: Entry{Action: action, TargetID: targetID},
		scene: s.scene.clone(),
	})
	s.cursor++

	if over := len(s.history) - s.limit; over > 0 {
		s.base = s.history[over-1].scene
		s.history = append([]entry(nil), s.history[over:]...)
		s.cursor -= over
	}
}

func (s *Store) restoreLocked() {
	if s.cursor < 0 {
		s.scene = s.base.clone()
	} else {
		s.scene = s.history[s.cursor].scene.clone()
	}
	s.pruneSelectionLocked()
}

func (s *Store) cursorSceneLocked() Scene {
	if s.cursor < 0 {
		return s.base
	}
	return s.history[s.cursor].scene
}

// Undo сдвигает курсор назад и восстанавливает сцену. Незафиксированные
// промежуточные правки отменяются первым шагом без сдвига курсора.
// false, если откатывать нечего.
func (s *Store) Undo() bool {
	moved := false
	_ = s.apply("undo", func() (bool, error) {
		if !reflect.DeepEqual(s.scene, s.cursorSceneLocked()) {
			s.restoreLocked()
			moved = true
			return true, nil
		}
		if s.cursor < 0 {
			return false, nil
		}
		s.cursor--
		s.restoreLocked()
		moved = true
		return true, nil
	})
	return moved
}

// Redo повторяет отмененную команду. false, если повторять нечего.
func (s *Store) Redo() bool {
	moved := false
	_ = s.apply("redo", func() (bool, error) {
		if s.cursor >= len(s.history)-1 {
			return false, nil
		}
		s.cursor++
		s.restoreLocked()
		moved = true
		return true, nil
	})
	return moved
}

// Commit фиксирует накопленные промежуточные изменения (например, по окончании
// перетаскивания) одной записью. Если сцена не изменилась, запись не создается.
func (s *Store) Commit(action, targetID string) bool {
	committed := false
	_ = s.apply("commit", func() (bool, error) {
		if reflect.DeepEqual(s.scene, s.cursorSceneLocked()) {
			return false, nil
		}
		s.pushLocked(action, targetID)
		committed = true
		return true, nil
	})
	return committed
}

func (s *Store) HistoryIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

func (s *Store) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

func (s *Store) CanUndo() bool {
	return s.HistoryIndex() >= 0
}

func (s *Store) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor < len(s.history)-1
}
