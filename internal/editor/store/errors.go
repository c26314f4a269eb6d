package store

import (
	"errors"

	"interior-planner/internal/editor/project"
)

var (
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidGeometry = errors.New("invalid geometry")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrInvalidSetting  = errors.New("invalid setting")
	ErrInvalidDocument = project.ErrInvalidDocument
)
