package layout

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

//go:embed form2290.json
var defaultDescriptor []byte

// Position is a single anchor on a template page. Coordinates are
// pointers so a declared anchor at the origin stays distinguishable from
// an absent one.
type Position struct {
	X          *float64  `json:"x,omitempty"`
	Y          *float64  `json:"y,omitempty"`
	XPositions []float64 `json:"x_positions,omitempty"`
}

func (p Position) hasAnchor() bool {
	return p.X != nil || p.Y != nil || len(p.XPositions) > 0
}

// Point returns the concrete coordinates, zero where a member is absent.
func (p Position) Point() (x, y float64) {
	if p.X != nil {
		x = *p.X
	}
	if p.Y != nil {
		y = *p.Y
	}
	return x, y
}

// Field describes where and how one named form value is drawn. Entries
// without any position data are metadata and are skipped by renderers.
type Field struct {
	Pages         []int               `json:"pages,omitempty"`
	X             *float64            `json:"x,omitempty"`
	Y             *float64            `json:"y,omitempty"`
	Font          string              `json:"font,omitempty"`
	Size          float64             `json:"size,omitempty"`
	XPositions    []float64           `json:"x_positions,omitempty"`
	PagePositions map[string]Position `json:"page_positions,omitempty"`
	XOffset       float64             `json:"pdf_x_offset,omitempty"`
	YOffset       float64             `json:"pdf_y_offset,omitempty"`
	Parts         map[string]Position `json:"parts,omitempty"`
}

// Positional reports whether the field carries any drawable anchor.
func (f Field) Positional() bool {
	return f.hasDefaultAnchor() || len(f.Parts) > 0
}

func (f Field) hasDefaultAnchor() bool {
	if (Position{X: f.X, Y: f.Y, XPositions: f.XPositions}).hasAnchor() {
		return true
	}
	for _, override := range f.PagePositions {
		if override.hasAnchor() {
			return true
		}
	}
	return false
}

// OnPage reports whether the field is declared for the given page.
func (f Field) OnPage(page int) bool {
	for _, p := range f.Pages {
		if p == page {
			return true
		}
	}
	return false
}

// PositionFor resolves the effective anchor for one page: a per-page
// override wins over the field defaults, missing override members fall
// back to them.
func (f Field) PositionFor(page int) Position {
	resolved := Position{X: f.X, Y: f.Y, XPositions: f.XPositions}
	override, ok := f.PagePositions[strconv.Itoa(page)]
	if !ok {
		return resolved
	}
	if override.X != nil {
		resolved.X = override.X
	}
	if override.Y != nil {
		resolved.Y = override.Y
	}
	if len(override.XPositions) > 0 {
		resolved.XPositions = override.XPositions
	}
	return resolved
}

// Layout maps field names to their placement on the form template.
type Layout map[string]Field

// MaxPage returns the highest page any field is declared on.
func (l Layout) MaxPage() int {
	max := 0
	for _, field := range l {
		for _, page := range field.Pages {
			if page > max {
				max = page
			}
		}
	}
	return max
}

// Parse decodes and validates a descriptor.
func Parse(raw []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := Validate(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate rejects descriptors that a renderer could not act on.
func Validate(l Layout) error {
	if len(l) == 0 {
		return fmt.Errorf("layout is empty")
	}
	for name, field := range l {
		if !field.Positional() {
			continue
		}
		if len(field.Pages) == 0 {
			return fmt.Errorf("layout field %q: positional entry without pages", name)
		}
		for page := range field.PagePositions {
			if _, err := strconv.Atoi(page); err != nil {
				return fmt.Errorf("layout field %q: bad page key %q", name, page)
			}
		}
	}
	return nil
}

// Default returns the embedded descriptor.
func Default() (Layout, error) {
	return Parse(defaultDescriptor)
}

// LoadFile reads a descriptor from disk, falling back to the embedded one
// when path is empty.
func LoadFile(path string) (Layout, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(raw)
}
