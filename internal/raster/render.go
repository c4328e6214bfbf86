// Package raster draws label strips into pixel buffers for on-screen
// preview and PNG export.
//
// Output is always unrotated: the strip's own frame, left to right. The
// same strip and parameters always produce identical pixels.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/piwi3910/jackfield-labeler/internal/fonts"
	"github.com/piwi3910/jackfield-labeler/internal/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	DefaultDPI   = 300.0
	DefaultScale = 1.0

	mmPerInch = 25.4

	// pixelNoise is subtracted before rounding canvas sizes up so that
	// 48.0000000001 px does not become 49.
	pixelNoise = 1e-6
)

// PixelsPerMM returns the raster resolution for dpi and scale.
func PixelsPerMM(dpi, scale float64) float64 {
	return dpi / mmPerInch * scale
}

// CanvasSize returns the pixel dimensions of a w x h mm strip.
func CanvasSize(w, h, dpi, scale float64) (int, int) {
	ppmm := PixelsPerMM(dpi, scale)
	return int(math.Ceil(w*ppmm - pixelNoise)), int(math.Ceil(h*ppmm - pixelNoise))
}

// RenderToBuffer draws strip at dpi, multiplied by scale, onto a white
// canvas. Segments are filled edge to edge at their exact millimetre
// offsets, outlined with a 1 px black border, and labelled with centered
// text. An empty strip returns model.ErrEmptyStrip.
func RenderToBuffer(strip *model.LabelStrip, dpi, scale float64) (*image.RGBA, error) {
	if !(dpi > 0) || math.IsInf(dpi, 0) || !(scale > 0) || math.IsInf(scale, 0) {
		return nil, fmt.Errorf("dpi %g, scale %g: %w", dpi, scale, model.ErrInvalidArgument)
	}
	snap := strip.Snapshot()
	w, h := CanvasSize(snap.TotalWidth(), snap.Height(), dpi, scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("canvas %dx%d px: %w", w, h, model.ErrEmptyStrip)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	settings := snap.Settings()
	segments := snap.AllSegments()
	if err := fonts.CheckSegments(settings.FontName, segments); err != nil {
		return nil, &model.RenderingError{Op: "raster", Err: err}
	}
	faces := newFaceCache(settings.FontName, settings.FontSize, dpi*scale)
	defer faces.Close()

	var p painter
	ppmm := PixelsPerMM(dpi, scale)
	hPx := snap.Height() * ppmm
	offset := 0.0
	for _, seg := range segments {
		x0 := offset * ppmm
		offset += seg.Width
		x1 := offset * ppmm

		p.fillRect(img, x0, 0, x1, hPx, seg.BackgroundColor.NRGBA())
		p.strokeRect(img, x0, 0, x1, hPx, color.Black)

		if seg.Text != "" && settings.FontSize > 0 {
			face, err := faces.face(seg.Format)
			if err != nil {
				return nil, &model.RenderingError{Op: "raster", Err: err}
			}
			drawCenteredText(img, face, seg.Text, seg.TextColor.NRGBA(), x0, 0, x1, hPx)
		}
	}
	return img, nil
}

// faceCache holds the faces used during one render. Faces are not safe for
// concurrent use so each render owns its cache.
type faceCache struct {
	fontName string
	size     float64 // pt
	dpi      float64
	faces    map[model.TextFormat]font.Face
}

func newFaceCache(fontName string, sizePt, dpi float64) *faceCache {
	return &faceCache{
		fontName: fontName,
		size:     sizePt,
		dpi:      dpi,
		faces:    make(map[model.TextFormat]font.Face),
	}
}

func (c *faceCache) face(format model.TextFormat) (font.Face, error) {
	if f, ok := c.faces[format]; ok {
		return f, nil
	}
	otf, err := fonts.StyleFor(c.fontName, format).Font()
	if err != nil {
		return nil, err
	}
	f, err := opentype.NewFace(otf, &opentype.FaceOptions{
		Size:    c.size,
		DPI:     c.dpi,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, err
	}
	c.faces[format] = f
	return f, nil
}

func (c *faceCache) Close() {
	for _, f := range c.faces {
		f.Close()
	}
}

// painter fills paths with one rasterizer, resized to the pixel span of
// each shape so a draw touches only the segment it paints.
type painter struct {
	r vector.Rasterizer
}

// begin prepares the rasterizer for the box and returns the box's pixel
// bounds clipped to dst. Path coordinates are relative to the bounds.
func (p *painter) begin(dst draw.Image, x0, y0, x1, y1 float64) (image.Rectangle, bool) {
	span := image.Rect(
		int(math.Floor(x0)), int(math.Floor(y0)),
		int(math.Ceil(x1)), int(math.Ceil(y1)),
	).Intersect(dst.Bounds())
	if span.Empty() {
		return span, false
	}
	p.r.Reset(span.Dx(), span.Dy())
	p.r.DrawOp = draw.Over
	return span, true
}

func (p *painter) rect(ox, oy, x0, y0, x1, y1 float64) {
	p.r.MoveTo(float32(x0-ox), float32(y0-oy))
	p.r.LineTo(float32(x1-ox), float32(y0-oy))
	p.r.LineTo(float32(x1-ox), float32(y1-oy))
	p.r.LineTo(float32(x0-ox), float32(y1-oy))
	p.r.ClosePath()
}

// fillRect paints an anti-aliased rectangle with corners at fractional
// pixel positions.
func (p *painter) fillRect(dst draw.Image, x0, y0, x1, y1 float64, c color.Color) {
	span, ok := p.begin(dst, x0, y0, x1, y1)
	if !ok {
		return
	}
	ox, oy := float64(span.Min.X), float64(span.Min.Y)
	p.rect(ox, oy, x0, y0, x1, y1)
	p.r.Draw(dst, span, image.NewUniform(c), image.Point{})
}

// strokeRect draws a 1 px outline just inside the rectangle. The inner
// contour winds the other way so only the ring is filled.
func (p *painter) strokeRect(dst draw.Image, x0, y0, x1, y1 float64, c color.Color) {
	span, ok := p.begin(dst, x0, y0, x1, y1)
	if !ok {
		return
	}
	ox, oy := float64(span.Min.X), float64(span.Min.Y)
	p.rect(ox, oy, x0, y0, x1, y1)
	if x1-x0 > 2 && y1-y0 > 2 {
		p.r.MoveTo(float32(x0+1-ox), float32(y0+1-oy))
		p.r.LineTo(float32(x0+1-ox), float32(y1-1-oy))
		p.r.LineTo(float32(x1-1-ox), float32(y1-1-oy))
		p.r.LineTo(float32(x1-1-ox), float32(y0+1-oy))
		p.r.ClosePath()
	}
	p.r.Draw(dst, span, image.NewUniform(c), image.Point{})
}

// drawCenteredText centers s in the box horizontally and vertically and
// clips it to the box.
func drawCenteredText(dst *image.RGBA, face font.Face, s string, c color.Color, x0, y0, x1, y1 float64) {
	clip := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	sub, ok := dst.SubImage(clip).(*image.RGBA)
	if !ok {
		return
	}

	d := &font.Drawer{Dst: sub, Src: image.NewUniform(c), Face: face}
	textW := fixedToFloat(d.MeasureString(s))
	m := face.Metrics()
	ascent, descent := fixedToFloat(m.Ascent), fixedToFloat(m.Descent)

	x := (x0+x1)/2 - textW/2
	baseline := (y0+y1)/2 + (ascent-descent)/2
	d.Dot = fixed.Point26_6{X: floatToFixed(x), Y: floatToFixed(baseline)}
	d.DrawString(s)
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func floatToFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
