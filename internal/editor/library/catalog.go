package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"interior-planner/internal/editor/geometry"
	"interior-planner/internal/editor/models"
)

var ErrInvalidPayload = errors.New("invalid drag payload")

// DefaultPosition точка появления ассета, добавленного из библиотеки без перетаскивания.
var DefaultPosition = models.Vec3{X: 0, Y: 0.5, Z: 0}

// ============================================================
// Catalog
// ============================================================

// Template шаблон ассета из библиотеки.
type Template struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Category models.AssetCategory `json:"category"`
	Image    string               `json:"image,omitempty"`
}

type Catalog struct {
	templates []Template
}

// Builtin встроенный каталог редактора.
func Builtin() *Catalog {
	return NewCatalog([]Template{
		{ID: "sofa_01", Name: "Modern Sofa", Category: models.CategoryFurniture},
		{ID: "chair_01", Name: "Eames Chair", Category: models.CategoryFurniture},
		{ID: "table_01", Name: "Coffee Table", Category: models.CategoryFurniture},
		{ID: "lamp_floor", Name: "Floor Lamp", Category: models.CategoryLighting},
		{ID: "lamp_desk", Name: "Desk Lamp", Category: models.CategoryLighting},
		{ID: "kitchen_island", Name: "Kitchen Island", Category: models.CategoryKitchen},
		{ID: "cube", Name: "Cube", Category: models.CategoryPrimitive},
		{ID: "sphere", Name: "Sphere", Category: models.CategoryPrimitive},
	})
}

func NewCatalog(templates []Template) *Catalog {
	out := make([]Template, len(templates))
	copy(out, templates)
	return &Catalog{templates: out}
}

func (c *Catalog) Get(id string) (Template, bool) {
	for _, t := range c.templates {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}

// Search фильтрует по категории (пустая - любая) и подстроке имени без учёта регистра.
func (c *Catalog) Search(category models.AssetCategory, query string) []Template {
	query = strings.ToLower(strings.TrimSpace(query))

	out := []Template{}
	for _, t := range c.templates {
		if category != "" && t.Category != category {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(t.Name), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Categories возвращает категории, в которых есть хотя бы один шаблон.
func (c *Catalog) Categories() []models.AssetCategory {
	seen := make(map[models.AssetCategory]bool)
	var out []models.AssetCategory
	for _, t := range c.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ============================================================
// Drag & drop
// ============================================================

type dropPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

// ParseDropPayload разбирает {id, name, category|type}.
func ParseDropPayload(data []byte) (Template, error) {
	var p dropPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return Template{}, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if p.ID == "" {
		return Template{}, fmt.Errorf("%w: missing id", ErrInvalidPayload)
	}

	category := p.Category
	if category == "" {
		category = p.Type
	}
	t := Template{ID: p.ID, Name: p.Name, Category: models.AssetCategory(category)}
	if t.Name == "" {
		t.Name = p.ID
	}
	if t.Category == "" {
		t.Category = models.CategoryFurniture
	}
	return t, nil
}

// Instantiate создаёт ассет из шаблона. Если drop задан, это точка
// курсора на холсте плана: x уходит в X сцены, y в Z.
func Instantiate(t Template, drop *models.Point, vp geometry.Viewport) models.Asset {
	pos := DefaultPosition
	if drop != nil {
		world := vp.ScreenToWorld(*drop)
		pos = models.Vec3{X: world.X, Y: DefaultPosition.Y, Z: world.Y}
	}

	return models.Asset{
		Category:  t.Category,
		Name:      t.Name,
		Position:  pos,
		Scale:     models.Vec3{X: 1, Y: 1, Z: 1},
		ModelPath: t.ID,
	}
}
