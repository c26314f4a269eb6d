// Package importer turns an architectural SVG drawing into editor walls.
// Elements whose id starts with Wall_ are treated as walls; rects give a
// centerline along their long side, paths give one wall per segment.
package importer

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrInvalidSVG = errors.New("invalid svg")

// ============================================================
// XML Structures
// ============================================================

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	svgGroup
}

type svgGroup struct {
	Rects  []svgRect  `xml:"rect"`
	Paths  []svgPath  `xml:"path"`
	Groups []svgGroup `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type ElementKind string

const (
	KindWall   ElementKind = "wall"
	KindDoor   ElementKind = "door"
	KindWindow ElementKind = "window"
	KindRoom   ElementKind = "room"
)

// element элемент чертежа, распознанный по id.
type element struct {
	ID   string
	Kind ElementKind
	Rect *svgRect
	Path string
}

// ============================================================
// Parser
// ============================================================

func parseSVG(r io.Reader) ([]element, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}

	var elements []element
	collect(doc.svgGroup, &elements)
	return elements, nil
}

// collect обходит вложенные <g>, сохраняя порядок документа по уровням.
func collect(doc svgGroup, out *[]element) {
	for i := range doc.Rects {
		rect := doc.Rects[i]
		if kind := classifyElementByID(rect.ID); kind != "" {
			*out = append(*out, element{ID: rect.ID, Kind: kind, Rect: &rect})
		}
	}
	for _, path := range doc.Paths {
		if kind := classifyElementByID(path.ID); kind != "" {
			*out = append(*out, element{ID: path.ID, Kind: kind, Path: path.D})
		}
	}
	for _, g := range doc.Groups {
		collect(g, out)
	}
}

func classifyElementByID(id string) ElementKind {
	switch {
	case strings.HasPrefix(id, "Wall_"), strings.HasPrefix(id, "Hui_Wall_"):
		return KindWall
	case strings.HasPrefix(id, "Door_"):
		return KindDoor
	case strings.HasPrefix(id, "Window_"):
		return KindWindow
	case strings.HasPrefix(id, "Room_"), strings.HasSuffix(id, "_room"), strings.HasSuffix(id, "_Room"):
		return KindRoom
	}
	return ""
}
