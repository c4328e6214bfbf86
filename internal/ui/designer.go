package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jackfield-labeler/internal/model"
)

// ─── Entry Helpers ─────────────────────────────────────────

// floatEntry shows val and hands every parseable edit to set. Rejected
// values are logged and left in the entry for the user to fix.
func (a *App) floatEntry(val float64, set func(float64) error) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.FormatFloat(val, 'f', -1, 64))
	e.OnChanged = func(text string) {
		v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return
		}
		if err := set(v); err != nil {
			a.logger.Debug("rejected value", "value", text, "error", err)
		}
	}
	return e
}

func (a *App) intEntry(val int, set func(int) error) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(strconv.Itoa(val))
	e.OnChanged = func(text string) {
		v, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return
		}
		if err := set(v); err != nil {
			a.logger.Debug("rejected value", "value", text, "error", err)
		}
	}
	return e
}

// colorSelect offers the standard palette. A color outside the palette
// is listed by its hex value so it survives a round trip.
func colorSelect(current model.Color, pick func(model.Color)) *widget.Select {
	palette := model.StandardColors()
	options := make([]string, 0, len(palette)+1)
	byName := make(map[string]model.Color, len(palette)+1)
	selected := current.Hex()
	for _, nc := range palette {
		options = append(options, nc.Name)
		byName[nc.Name] = nc.Color
		if nc.Color == current {
			selected = nc.Name
		}
	}
	if _, ok := byName[selected]; !ok {
		options = append(options, selected)
		byName[selected] = current
	}

	sel := widget.NewSelect(options, nil)
	sel.SetSelected(selected)
	sel.OnChanged = func(name string) {
		if c, ok := byName[name]; ok {
			pick(c)
		}
	}
	return sel
}

func formatSelect(current model.TextFormat, pick func(model.TextFormat)) *widget.Select {
	var options []string
	for _, f := range model.TextFormats() {
		options = append(options, f.String())
	}
	sel := widget.NewSelect(options, nil)
	sel.SetSelected(current.String())
	sel.OnChanged = func(name string) {
		if f, err := model.ParseTextFormat(name); err == nil {
			pick(f)
		}
	}
	return sel
}

// ─── Designer Panel ────────────────────────────────────────

func (a *App) buildDesignerPanel() fyne.CanvasObject {
	strip := a.project.Strip

	startWidth, endWidth := 0.0, 0.0
	if seg, ok := strip.StartSegment(); ok {
		startWidth = seg.Width
	}
	if seg, ok := strip.EndSegment(); ok {
		endWidth = seg.Width
	}

	dimensions := widget.NewCard("Strip", "", container.NewGridWithColumns(4,
		widget.NewLabel("Height (mm)"), a.floatEntry(strip.Height(), strip.SetHeight),
		widget.NewLabel("Content Cells"), a.intEntry(strip.ContentCount(), strip.SetContentSegmentCount),
		widget.NewLabel("Cell Width (mm)"), a.floatEntry(strip.ContentCellWidth(), strip.SetContentCellWidth),
		widget.NewLabel(""), widget.NewLabel(""),
		widget.NewLabel("Start Width (mm)"), a.floatEntry(startWidth, func(w float64) error {
			seg, _ := strip.StartSegment()
			_, err := strip.SetStartSegment(w, seg.Text)
			return err
		}),
		widget.NewLabel("End Width (mm)"), a.floatEntry(endWidth, func(w float64) error {
			seg, _ := strip.EndSegment()
			_, err := strip.SetEndSegment(w, seg.Text)
			return err
		}),
	))

	header := container.NewGridWithColumns(5,
		widget.NewLabelWithStyle("Segment", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Text", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Format", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Text Color", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Background", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)

	a.refreshSegmentList()

	return container.NewBorder(
		container.NewVBox(dimensions, header),
		nil, nil, nil,
		container.NewVScroll(a.segmentsContainer),
	)
}

func (a *App) refreshSegmentList() {
	a.segmentsContainer.RemoveAll()

	segments := a.project.Strip.AllSegments()
	if len(segments) == 0 {
		a.segmentsContainer.Add(widget.NewLabel("No segments yet. Set a content cell count or a start/end width above."))
	}
	for _, seg := range segments {
		a.segmentsContainer.Add(a.segmentRow(seg))
	}
	a.segmentsContainer.Refresh()
}

func segmentTitle(seg model.Segment) string {
	switch seg.Kind {
	case model.KindStart:
		return fmt.Sprintf("Start (%g mm)", seg.Width)
	case model.KindEnd:
		return fmt.Sprintf("End (%g mm)", seg.Width)
	default:
		return fmt.Sprintf("Cell %s (%g mm)", seg.ID, seg.Width)
	}
}

func (a *App) segmentRow(seg model.Segment) fyne.CanvasObject {
	id := seg.ID
	update := func(fn func(*model.SegmentStyle)) {
		if err := a.project.Strip.UpdateSegment(id, fn); err != nil {
			a.logger.Warn("update segment failed", "segment", id, "error", err)
		}
	}

	text := widget.NewEntry()
	text.SetText(seg.Text)
	text.SetPlaceHolder("label")
	text.OnChanged = func(s string) {
		update(func(st *model.SegmentStyle) { st.Text = s })
	}

	return container.NewGridWithColumns(5,
		widget.NewLabel(segmentTitle(seg)),
		text,
		formatSelect(seg.Format, func(f model.TextFormat) {
			update(func(st *model.SegmentStyle) { st.Format = f })
		}),
		colorSelect(seg.TextColor, func(c model.Color) {
			update(func(st *model.SegmentStyle) { st.TextColor = c })
		}),
		colorSelect(seg.BackgroundColor, func(c model.Color) {
			update(func(st *model.SegmentStyle) { st.BackgroundColor = c })
		}),
	)
}
