package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"interior-planner/internal/editor/models"
)

// ============================================================
// Path Parser
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// parsePath разбирает команды M, L, H, V, Z (и относительные варианты) в
// ломаную. Повторные пары координат после M/L трактуются как LineTo.
// Z добавляет первую точку подпути.
func parsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur, subpathStart models.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		coords := parseCoords(match[2])
		relative := strings.ToLower(cmd) == cmd

		switch strings.ToUpper(cmd) {
		case "M", "L":
			if len(coords) < 2 {
				return nil, fmt.Errorf("command %s needs coordinate pairs", cmd)
			}
			for i := 0; i+1 < len(coords); i += 2 {
				next := models.Point{X: coords[i], Y: coords[i+1]}
				if relative {
					next = cur.Add(next)
				}
				cur = next
				if i == 0 && strings.ToUpper(cmd) == "M" {
					subpathStart = cur
				}
				points = append(points, cur)
			}

		case "H":
			for _, x := range coords {
				if relative {
					cur.X += x
				} else {
					cur.X = x
				}
				points = append(points, cur)
			}

		case "V":
			for _, y := range coords {
				if relative {
					cur.Y += y
				} else {
					cur.Y = y
				}
				points = append(points, cur)
			}

		case "Z":
			if len(points) > 0 {
				cur = subpathStart
				points = append(points, cur)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path %q has no points", d)
	}
	return points, nil
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// Разделитель: запятая или пробел
	parts := strings.Fields(strings.ReplaceAll(s, ",", " "))

	coords := make([]float64, 0, len(parts))
	for _, part := range parts {
		if val, err := strconv.ParseFloat(part, 64); err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
