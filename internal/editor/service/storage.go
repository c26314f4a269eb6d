package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"interior-planner/internal/editor/project"
)

// ============================================================
// File Storage
// ============================================================

type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) SessionDir(sessionID string) string {
	return filepath.Join(s.root, sessionID)
}

// ProjectPath путь файла проекта: имя проекта, очищенное для файловой системы.
func (s *FileStorage) ProjectPath(sessionID, projectName string) string {
	return filepath.Join(s.SessionDir(sessionID), FileName(projectName)+project.FileExtension)
}

func (s *FileStorage) FloorPlanPath(sessionID string) string {
	return filepath.Join(s.SessionDir(sessionID), "floorplan.svg")
}

func (s *FileStorage) EnsureDir(sessionID string) error {
	path := s.SessionDir(sessionID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir session dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(sessionID, target string, data []byte) error {
	if err := s.EnsureDir(sessionID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

func (s *FileStorage) SaveProject(sessionID string, doc project.Document) (string, error) {
	data, err := project.Encode(doc)
	if err != nil {
		return "", fmt.Errorf("encode project: %w", err)
	}
	path := s.ProjectPath(sessionID, doc.ProjectName)
	if err := s.SaveFile(sessionID, path, data); err != nil {
		return "", fmt.Errorf("write project: %w", err)
	}
	return path, nil
}

// ReadProject читает и проверяет файл проекта.
func ReadProject(path string) (project.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return project.Document{}, fmt.Errorf("read project: %w", err)
	}
	return project.Decode(data)
}

// FileName оставляет буквы, цифры, '-' и '_'; остальное заменяет на '_'.
func FileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = project.DefaultProjectName
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
}
