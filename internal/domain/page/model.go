package page

import "strings"

type Kind string

const (
	KindCurve Kind = "curve"
	KindRect  Kind = "rect"
)

// Primitive is one drawn object reported by the page renderer. Coordinates are
// in renderer pixels; PointCount is only meaningful for curves.
type Primitive struct {
	Kind       Kind         `json:"kind"`
	X0         float64      `json:"x0"`
	X1         float64      `json:"x1"`
	Y0         float64      `json:"y0"`
	Y1         float64      `json:"y1"`
	PointCount int          `json:"point_count,omitempty"`
	Pts        [][2]float64 `json:"pts,omitempty"`
}

// Points returns the explicit point count when the renderer reported one and
// falls back to the length of the raw point list otherwise.
func (p Primitive) Points() int {
	if p.PointCount > 0 {
		return p.PointCount
	}
	return len(p.Pts)
}

type Page struct {
	Number     int         `json:"number"`
	Primitives []Primitive `json:"primitives"`
	TextCells  []string    `json:"text_cells"`
}

func (p Page) Curves() []Primitive {
	return p.filter(KindCurve)
}

func (p Page) Rects() []Primitive {
	return p.filter(KindRect)
}

func (p Page) filter(kind Kind) []Primitive {
	out := make([]Primitive, 0, len(p.Primitives))
	for _, item := range p.Primitives {
		if Kind(strings.ToLower(string(item.Kind))) == kind {
			out = append(out, item)
		}
	}
	return out
}

// Cell returns the text cell at idx, or "" when the page has fewer cells.
func (p Page) Cell(idx int) string {
	if idx < 0 || idx >= len(p.TextCells) {
		return ""
	}
	return p.TextCells[idx]
}
