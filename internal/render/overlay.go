package render

import (
	"bytes"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/hvut-filing/internal/layout"
)

const (
	defaultFont = "Helvetica"
	defaultSize = 9.0
)

// metadataDate pins the document info dates so identical input yields
// identical bytes.
var metadataDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Overlay draws computed values at the positions the field layout declares,
// one output page per template page. The result is the text layer stamped
// over the fixed form template downstream.
type Overlay struct {
	layouts  *layout.Store
	bindings map[string]binding
}

func NewOverlay(layouts *layout.Store) *Overlay {
	return &Overlay{
		layouts:  layouts,
		bindings: newBindings(),
	}
}

func (o *Overlay) Render(req *Request) ([]byte, error) {
	descriptor := o.layouts.Current()
	pages := descriptor.MaxPage()
	if pages == 0 {
		pages = 1
	}

	// stable field order keeps output byte-identical across runs
	names := make([]string, 0, len(descriptor))
	for name := range descriptor {
		names = append(names, name)
	}
	sort.Strings(names)

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetCreationDate(metadataDate)
	pdf.SetModificationDate(metadataDate)
	pdf.SetAutoPageBreak(false, 0)

	for page := 1; page <= pages; page++ {
		pdf.AddPage()
		for _, name := range names {
			field := descriptor[name]
			if !field.Positional() || !field.OnPage(page) {
				continue
			}
			bound, ok := o.bindings[name]
			if !ok {
				continue
			}
			o.drawField(pdf, req, field, page, bound)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (o *Overlay) drawField(pdf *gofpdf.Fpdf, req *Request, field layout.Field, page int, bound binding) {
	if bound.section != nil && !bound.section(req) {
		return
	}

	font := field.Font
	if font == "" {
		font = defaultFont
	}
	size := field.Size
	if size == 0 {
		size = defaultSize
	}
	pdf.SetFont(font, "", size)

	pos := field.PositionFor(page)
	x, y := pos.Point()

	switch bound.kind {
	case kindScalar:
		text := bound.value(req)
		if text == "" {
			return
		}
		pdf.Text(x+field.XOffset, y+field.YOffset, text)

	case kindCharArray:
		text := bound.value(req)
		for i, r := range []rune(text) {
			if i >= len(pos.XPositions) {
				break
			}
			pdf.Text(pos.XPositions[i]+field.XOffset, y+field.YOffset, string(r))
		}

	case kindCheckbox:
		if !bound.cond(req) {
			return
		}
		pdf.Text(x+field.XOffset, y+field.YOffset, "X")

	case kindComposite:
		parts := bound.parts(req)
		ids := make([]string, 0, len(parts))
		for id := range parts {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			text := parts[id]
			if text == "" {
				continue
			}
			part, ok := field.Parts[id]
			if !ok {
				continue
			}
			px, py := part.Point()
			pdf.Text(px+field.XOffset, py+field.YOffset, text)
		}
	}
}
