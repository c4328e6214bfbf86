package widgets

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jackfield-labeler/internal/engine"
	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/piwi3910/jackfield-labeler/internal/raster"
)

var (
	pageColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	pageEdgeColor  = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	printableColor = color.NRGBA{R: 33, G: 150, B: 243, A: 160}
	fitColor       = color.NRGBA{R: 76, G: 175, B: 80, A: 255}
	overflowColor  = color.NRGBA{R: 244, G: 67, B: 54, A: 255}
)

// PagePreview draws the page, its printable area and the rotated strip
// outline for a placement, scaled to fit maxWidth x maxHeight.
type PagePreview struct {
	widget.BaseWidget
	placement engine.Placement
	maxWidth  float32
	maxHeight float32
}

func NewPagePreview(p engine.Placement, maxW, maxH float32) *PagePreview {
	pp := &PagePreview{
		placement: p,
		maxWidth:  maxW,
		maxHeight: maxH,
	}
	pp.ExtendBaseWidget(pp)
	return pp
}

// SetPlacement swaps the drawn placement and redraws.
func (pp *PagePreview) SetPlacement(p engine.Placement) {
	pp.placement = p
	pp.Refresh()
}

func (pp *PagePreview) CreateRenderer() fyne.WidgetRenderer {
	return newPagePreviewRenderer(pp)
}

func (pp *PagePreview) scale() float32 {
	pw := float32(pp.placement.PageWidth)
	ph := float32(pp.placement.PageHeight)
	if pw <= 0 || ph <= 0 {
		return 0
	}
	scale := pp.maxWidth / pw
	if s := pp.maxHeight / ph; s < scale {
		scale = s
	}
	return scale
}

type pagePreviewRenderer struct {
	pp      *PagePreview
	objects []fyne.CanvasObject
}

func newPagePreviewRenderer(pp *PagePreview) *pagePreviewRenderer {
	r := &pagePreviewRenderer{pp: pp}
	r.rebuild()
	return r
}

func (r *pagePreviewRenderer) rebuild() {
	r.objects = nil

	p := r.pp.placement
	scale := r.pp.scale()
	if scale == 0 {
		return
	}

	page := canvas.NewRectangle(pageColor)
	page.StrokeColor = pageEdgeColor
	page.StrokeWidth = 1
	page.Resize(fyne.NewSize(float32(p.PageWidth)*scale, float32(p.PageHeight)*scale))
	r.objects = append(r.objects, page)

	printable := canvas.NewRectangle(color.Transparent)
	printable.StrokeColor = printableColor
	printable.StrokeWidth = 1
	printable.Resize(fyne.NewSize(float32(p.Printable.W)*scale, float32(p.Printable.H)*scale))
	printable.Move(fyne.NewPos(float32(p.Printable.X)*scale, float32(p.Printable.Y)*scale))
	r.objects = append(r.objects, printable)

	// Strip outline, drawn edge by edge since it may be rotated.
	outline := fitColor
	if !p.Fits {
		outline = overflowColor
	}
	corners := p.Corners()
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		edge := canvas.NewLine(outline)
		edge.StrokeWidth = 2
		edge.Position1 = fyne.NewPos(float32(a.X)*scale, float32(a.Y)*scale)
		edge.Position2 = fyne.NewPos(float32(b.X)*scale, float32(b.Y)*scale)
		r.objects = append(r.objects, edge)
	}
}

func (r *pagePreviewRenderer) Layout(size fyne.Size)        {}
func (r *pagePreviewRenderer) Refresh()                     { r.rebuild(); canvas.Refresh(r.pp) }
func (r *pagePreviewRenderer) Destroy()                     {}
func (r *pagePreviewRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pagePreviewRenderer) MinSize() fyne.Size {
	p := r.pp.placement
	scale := r.pp.scale()
	return fyne.NewSize(float32(p.PageWidth)*scale, float32(p.PageHeight)*scale)
}

// RenderStripPreview builds the preview tab body: the rasterized strip,
// its page placement and a summary line.
func RenderStripPreview(strip *model.LabelStrip, dpi, scale float64) fyne.CanvasObject {
	if strip.TotalWidth() <= 0 {
		return widget.NewLabel("Nothing to preview. Add content cells or end segments in the Designer tab.")
	}

	var items []fyne.CanvasObject

	img, err := raster.RenderToBuffer(strip, dpi, scale)
	if err != nil {
		failed := widget.NewLabel(fmt.Sprintf("Preview failed: %v", err))
		failed.Importance = widget.DangerImportance
		items = append(items, failed)
	} else {
		stripImage := canvas.NewImageFromImage(img)
		stripImage.FillMode = canvas.ImageFillOriginal
		stripImage.ScaleMode = canvas.ImageScaleFastest
		items = append(items, container.NewHScroll(stripImage))
	}

	summary := widget.NewLabel(fmt.Sprintf(
		"Strip: %.1f x %.1f mm, %d segment(s)",
		strip.TotalWidth(), strip.Height(), len(strip.AllSegments()),
	))
	summary.TextStyle = fyne.TextStyle{Bold: true}
	items = append(items, summary, widget.NewSeparator())

	placement, err := engine.PlaceStrip(strip)
	if err != nil {
		items = append(items, widget.NewLabel(fmt.Sprintf("Cannot place strip: %v", err)))
		return container.NewVScroll(container.NewVBox(items...))
	}

	st := strip.Settings()
	status := widget.NewLabel(fmt.Sprintf(
		"%s page, rotated %.1f°: bounding box %.1f x %.1f mm, printable area %.1f x %.1f mm",
		st.PaperSize, placement.RotationDegrees,
		placement.BoundsWidth, placement.BoundsHeight,
		placement.Printable.W, placement.Printable.H,
	))
	items = append(items, status)
	if !placement.Fits {
		warning := widget.NewLabel("WARNING: the strip does not fit inside the margins. Try another rotation or a larger paper size.")
		warning.Importance = widget.DangerImportance
		items = append(items, warning)
	}
	items = append(items, NewPagePreview(placement, 420, 420))

	if problems := strip.Validate(); len(problems) > 0 {
		items = append(items, widget.NewSeparator())
		header := widget.NewLabel("Problems:")
		header.TextStyle = fyne.TextStyle{Bold: true}
		items = append(items, header)
		for _, msg := range problems {
			items = append(items, widget.NewLabel("  "+msg))
		}
	}

	return container.NewVScroll(container.NewVBox(items...))
}
