// Package engine decides where a label strip sits on the printed page.
//
// A strip of W x H mm is always drawn at its true size. It is centered on
// the printable area (page minus margins) and rotated about its own center
// by the requested angle. The engine never scales a strip to make it fit;
// it reports the fit outcome and leaves the decision to the caller.
package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/jackfield-labeler/internal/model"
	"gonum.org/v1/gonum/mat"
)

// fitTolerance absorbs float noise in the bounding-box comparison (mm).
const fitTolerance = 1e-9

// Point is a position in mm.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in page mm, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Placement describes how a strip maps onto a page.
type Placement struct {
	StripWidth  float64 // mm, exactly the strip's total width
	StripHeight float64 // mm, exactly the strip's height
	PageWidth   float64
	PageHeight  float64
	Printable   Rect

	// Origin is where the strip's center lands: the printable-area center.
	Origin Point
	// PivotOffset moves the strip's top-left corner so its center sits on
	// the rotated origin: (-W/2, -H/2).
	PivotOffset Point

	RotationDegrees float64
	BoundsWidth     float64 // rotated bounding box
	BoundsHeight    float64
	Fits            bool
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// ComputePlacement centers a stripW x stripH strip on the printable area of
// paper, rotated by rotationDeg degrees. Any real angle is accepted.
func ComputePlacement(stripW, stripH float64, paper model.PaperSize, margins model.PageMargins, rotationDeg float64) (Placement, error) {
	if !finite(stripW) || !finite(stripH) || stripW < 0 || stripH < 0 {
		return Placement{}, fmt.Errorf("strip size %gx%g mm: %w", stripW, stripH, model.ErrInvalidArgument)
	}
	if !finite(rotationDeg) {
		return Placement{}, fmt.Errorf("rotation %g: %w", rotationDeg, model.ErrInvalidArgument)
	}
	pageW, pageH, err := paper.Dimensions()
	if err != nil {
		return Placement{}, err
	}

	pw := pageW - margins.Left - margins.Right
	ph := pageH - margins.Top - margins.Bottom
	if pw <= 0 || ph <= 0 {
		return Placement{}, fmt.Errorf("printable area %gx%g mm on %s: %w", pw, ph, paper, model.ErrInvalidArgument)
	}

	printable := Rect{X: margins.Left, Y: margins.Top, W: pw, H: ph}
	bw, bh := RotatedBounds(stripW, stripH, rotationDeg)

	return Placement{
		StripWidth:      stripW,
		StripHeight:     stripH,
		PageWidth:       pageW,
		PageHeight:      pageH,
		Printable:       printable,
		Origin:          printable.Center(),
		PivotOffset:     Point{X: -stripW / 2, Y: -stripH / 2},
		RotationDegrees: rotationDeg,
		BoundsWidth:     bw,
		BoundsHeight:    bh,
		Fits:            bw <= pw+fitTolerance && bh <= ph+fitTolerance,
	}, nil
}

// PlaceStrip computes the placement for a strip using its own settings.
func PlaceStrip(strip *model.LabelStrip) (Placement, error) {
	st := strip.Settings()
	return ComputePlacement(strip.TotalWidth(), strip.Height(), st.PaperSize, st.Margins, st.RotationDegrees)
}

// RotatedBounds returns the axis-aligned bounding box of a w x h rectangle
// rotated by deg degrees.
func RotatedBounds(w, h, deg float64) (bw, bh float64) {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	sin, cos = math.Abs(sin), math.Abs(cos)
	return w*cos + h*sin, w*sin + h*cos
}

// Matrix returns the 3x3 homogeneous transform from strip-local mm (origin
// at the strip's top-left corner) to page mm:
//
//	T(origin) * R(theta) * T(pivot)
//
// Page y grows downward; positive angles turn the strip counter-clockwise
// as seen on the page, matching the PDF renderer.
func (p Placement) Matrix() *mat.Dense {
	sin, cos := math.Sincos(p.RotationDegrees * math.Pi / 180)
	translate := mat.NewDense(3, 3, []float64{
		1, 0, p.Origin.X,
		0, 1, p.Origin.Y,
		0, 0, 1,
	})
	rotate := mat.NewDense(3, 3, []float64{
		cos, sin, 0,
		-sin, cos, 0,
		0, 0, 1,
	})
	pivot := mat.NewDense(3, 3, []float64{
		1, 0, p.PivotOffset.X,
		0, 1, p.PivotOffset.Y,
		0, 0, 1,
	})

	var tr, m mat.Dense
	tr.Mul(translate, rotate)
	m.Mul(&tr, pivot)
	return &m
}

// Apply maps a strip-local point to page coordinates.
func (p Placement) Apply(pt Point) Point {
	var out mat.VecDense
	out.MulVec(p.Matrix(), mat.NewVecDense(3, []float64{pt.X, pt.Y, 1}))
	return Point{X: out.AtVec(0), Y: out.AtVec(1)}
}

// Corners returns the placed strip corners: top-left, top-right,
// bottom-right, bottom-left in strip-local terms.
func (p Placement) Corners() [4]Point {
	m := p.Matrix()
	local := mat.NewDense(3, 4, []float64{
		0, p.StripWidth, p.StripWidth, 0,
		0, 0, p.StripHeight, p.StripHeight,
		1, 1, 1, 1,
	})
	var placed mat.Dense
	placed.Mul(m, local)

	var out [4]Point
	for i := range out {
		out[i] = Point{X: placed.At(0, i), Y: placed.At(1, i)}
	}
	return out
}

// Bounds returns the axis-aligned box around the placed corners.
func (p Placement) Bounds() Rect {
	c := p.Corners()
	minX, maxX := c[0].X, c[0].X
	minY, maxY := c[0].Y, c[0].Y
	for _, pt := range c[1:] {
		minX, maxX = math.Min(minX, pt.X), math.Max(maxX, pt.X)
		minY, maxY = math.Min(minY, pt.Y), math.Max(maxY, pt.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// SuggestRotation proposes a right-angle orientation for a strip on paper:
// 0 when it fits as drawn, otherwise 90 when it fits turned. ok reports
// whether the suggestion fits. When neither fits, a strip wider than the
// printable width still gets 90, since the page is longer that way.
func SuggestRotation(stripW, stripH float64, paper model.PaperSize, margins model.PageMargins) (angle float64, ok bool, err error) {
	flat, err := ComputePlacement(stripW, stripH, paper, margins, 0)
	if err != nil {
		return 0, false, err
	}
	if flat.Fits {
		return 0, true, nil
	}
	turned, err := ComputePlacement(stripW, stripH, paper, margins, 90)
	if err != nil {
		return 0, false, err
	}
	if turned.Fits {
		return 90, true, nil
	}
	if stripW > stripH && stripW > flat.Printable.W {
		return 90, false, nil
	}
	return 0, false, nil
}
