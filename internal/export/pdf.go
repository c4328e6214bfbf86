// Package export writes label strips to printable files.
package export

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/jackfield-labeler/internal/engine"
	"github.com/piwi3910/jackfield-labeler/internal/fonts"
	"github.com/piwi3910/jackfield-labeler/internal/model"
)

// Segment border width in points.
const borderPt = 0.5

// dimTolerance is how far (mm) a placement may drift from the strip it
// claims to describe before rendering refuses it.
const dimTolerance = 1e-6

// FontFamily resolves a font name to the embedded family it is drawn with.
func FontFamily(name string) (string, error) {
	if !fonts.Supported(name) {
		return "", fmt.Errorf("unsupported font %q", name)
	}
	return fonts.StyleFor(name, model.FormatNormal).Family(), nil
}

func styleString(f model.TextFormat) string {
	switch f {
	case model.FormatBold:
		return "B"
	case model.FormatItalic:
		return "I"
	case model.FormatBoldItalic:
		return "BI"
	default:
		return ""
	}
}

// Document is a rendered single-page PDF. It can be written once.
type Document struct {
	pdf       *fpdf.Fpdf
	placement engine.Placement
}

// Placement returns the layout the document was drawn with.
func (d *Document) Placement() engine.Placement { return d.placement }

// Output writes the PDF to w.
func (d *Document) Output(w io.Writer) error {
	if err := d.pdf.Output(w); err != nil {
		return &model.IOError{Path: "pdf output", Err: err}
	}
	return nil
}

// WriteFile writes the PDF to path, creating parent directories.
func (d *Document) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	if err := d.pdf.Output(f); err != nil {
		f.Close()
		return &model.IOError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	return nil
}

// RenderDocument draws strip onto one page using placement. The strip is
// drawn at its true size: translated to the placement origin, rotated, and
// offset by the pivot so its center sits on the origin. A placement that
// does not fit is still rendered.
func RenderDocument(strip *model.LabelStrip, placement engine.Placement) (*Document, error) {
	snap := strip.Snapshot()
	if err := snap.Check(); err != nil {
		return nil, &model.RenderingError{Op: "pdf", Err: err}
	}
	settings := snap.Settings()

	if math.Abs(placement.StripWidth-snap.TotalWidth()) > dimTolerance ||
		math.Abs(placement.StripHeight-snap.Height()) > dimTolerance {
		return nil, &model.RenderingError{Op: "pdf", Err: fmt.Errorf(
			"placement is for a %gx%g mm strip, strip is %gx%g mm",
			placement.StripWidth, placement.StripHeight, snap.TotalWidth(), snap.Height())}
	}
	pageW, pageH, err := settings.PaperSize.Dimensions()
	if err != nil {
		return nil, &model.RenderingError{Op: "pdf", Err: err}
	}
	if math.Abs(placement.PageWidth-pageW) > dimTolerance || math.Abs(placement.PageHeight-pageH) > dimTolerance {
		return nil, &model.RenderingError{Op: "pdf", Err: fmt.Errorf(
			"placement page %gx%g mm does not match %s", placement.PageWidth, placement.PageHeight, settings.PaperSize)}
	}
	if _, err := FontFamily(settings.FontName); err != nil {
		return nil, &model.RenderingError{Op: "pdf", Err: err}
	}
	if err := fonts.CheckSegments(settings.FontName, snap.AllSegments()); err != nil {
		return nil, &model.RenderingError{Op: "pdf", Err: err}
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetCreator("Jackfield Labeler", true)
	pdf.SetTitle("Label strip", true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0)
	pdf.AddPage()

	registerFonts(pdf, snap)
	drawStrip(pdf, snap, placement)

	if err := pdf.Error(); err != nil {
		return nil, &model.RenderingError{Op: "pdf", Err: err}
	}
	return &Document{pdf: pdf, placement: placement}, nil
}

// registerFonts embeds the faces the strip's labels use, once each.
func registerFonts(pdf *fpdf.Fpdf, strip *model.LabelStrip) {
	fontName := strip.Settings().FontName
	added := make(map[fonts.Style]bool)
	for _, seg := range strip.AllSegments() {
		st := fonts.StyleFor(fontName, seg.Format)
		if seg.Text == "" || added[st] {
			continue
		}
		added[st] = true
		pdf.AddUTF8FontFromBytes(st.Family(), styleString(seg.Format), st.TTF())
	}
}

// drawStrip emits every segment in canonical order inside a single
// translate+rotate block.
func drawStrip(pdf *fpdf.Fpdf, strip *model.LabelStrip, p engine.Placement) {
	settings := strip.Settings()

	pdf.TransformBegin()
	pdf.TransformTranslate(p.Origin.X, p.Origin.Y)
	pdf.TransformRotate(p.RotationDegrees, 0, 0)

	pdf.SetLineWidth(borderPt / pdf.GetConversionRatio())
	pdf.SetDrawColor(0, 0, 0)

	x := p.PivotOffset.X
	y := p.PivotOffset.Y
	h := strip.Height()
	for _, seg := range strip.AllSegments() {
		bg := seg.BackgroundColor
		pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
		pdf.Rect(x, y, seg.Width, h, "FD")

		if seg.Text != "" {
			fg := seg.TextColor
			pdf.SetTextColor(int(fg.R), int(fg.G), int(fg.B))
			st := fonts.StyleFor(settings.FontName, seg.Format)
			pdf.SetFont(st.Family(), styleString(seg.Format), settings.FontSize)
			pdf.SetXY(x, y)
			pdf.CellFormat(seg.Width, h, seg.Text, "", 0, "CM", false, 0, "")
		}
		x += seg.Width
	}

	pdf.TransformEnd()
}

// ExportPDF renders strip with the placement from its own settings and
// writes it to path. The returned placement lets the caller warn when the
// strip does not fit; the file is written either way.
func ExportPDF(path string, strip *model.LabelStrip) (engine.Placement, error) {
	snap := strip.Snapshot()
	if err := snap.Check(); err != nil {
		return engine.Placement{}, &model.RenderingError{Op: "pdf", Err: err}
	}
	placement, err := engine.PlaceStrip(snap)
	if err != nil {
		return engine.Placement{}, &model.RenderingError{Op: "pdf", Err: err}
	}
	doc, err := RenderDocument(snap, placement)
	if err != nil {
		return placement, err
	}
	return placement, doc.WriteFile(path)
}
