package engine

import (
	"math"
	"testing"

	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eps = 1e-9

func TestComputePlacement_A3RotatedSixtyFits(t *testing.T) {
	p, err := ComputePlacement(350, 6, model.PaperA3, model.DefaultMargins(), 60)
	require.NoError(t, err)

	assert.InDelta(t, 277.0, p.Printable.W, eps)
	assert.InDelta(t, 400.0, p.Printable.H, eps)
	assert.InDelta(t, 350*0.5+6*math.Sqrt(3)/2, p.BoundsWidth, 1e-6)
	assert.InDelta(t, 180.196, p.BoundsWidth, 1e-3)
	assert.True(t, p.Fits)
}

func TestComputePlacement_A3FlatDoesNotFit(t *testing.T) {
	p, err := ComputePlacement(350, 6, model.PaperA3, model.DefaultMargins(), 0)
	require.NoError(t, err)

	assert.InDelta(t, 350.0, p.BoundsWidth, eps)
	assert.False(t, p.Fits)
	// No scaling, even when it does not fit.
	assert.Equal(t, 350.0, p.StripWidth)
	assert.Equal(t, 6.0, p.StripHeight)
}

func TestComputePlacement_FitsWhenSmallerThanPrintable(t *testing.T) {
	p, err := ComputePlacement(190, 12, model.PaperA4, model.DefaultMargins(), 0)
	require.NoError(t, err)
	assert.True(t, p.Fits, "exact printable width must fit")

	p, err = ComputePlacement(190.01, 12, model.PaperA4, model.DefaultMargins(), 0)
	require.NoError(t, err)
	assert.False(t, p.Fits)
}

func TestComputePlacement_OriginAndPivot(t *testing.T) {
	margins := model.PageMargins{Top: 5, Right: 20, Bottom: 15, Left: 10}
	p, err := ComputePlacement(100, 8, model.PaperA4, margins, 0)
	require.NoError(t, err)

	assert.InDelta(t, 10+(210-30)/2.0, p.Origin.X, eps)
	assert.InDelta(t, 5+(297-20)/2.0, p.Origin.Y, eps)
	assert.Equal(t, Point{X: -50, Y: -4}, p.PivotOffset)

	tl := p.Apply(Point{})
	assert.InDelta(t, p.Origin.X-50, tl.X, eps)
	assert.InDelta(t, p.Origin.Y-4, tl.Y, eps)
}

func TestComputePlacement_CenteringInvariant(t *testing.T) {
	papers := model.PaperSizes()
	margins := []model.PageMargins{
		model.DefaultMargins(),
		{Top: 0, Right: 0, Bottom: 0, Left: 0},
		{Top: 3, Right: 27, Bottom: 41, Left: 12.5},
	}
	angles := []float64{0, 17, 45, 90, 133.3, 180, 270, 359.9, -60, 725}
	sizes := [][2]float64{{48, 6}, {350, 6}, {500, 12}, {12, 5}}

	for _, paper := range papers {
		for _, m := range margins {
			for _, a := range angles {
				for _, sz := range sizes {
					p, err := ComputePlacement(sz[0], sz[1], paper, m, a)
					require.NoError(t, err)

					center := p.Bounds().Center()
					want := p.Printable.Center()
					assert.InDelta(t, want.X, center.X, 1e-6)
					assert.InDelta(t, want.Y, center.Y, 1e-6)

					b := p.Bounds()
					assert.InDelta(t, p.BoundsWidth, b.W, 1e-6)
					assert.InDelta(t, p.BoundsHeight, b.H, 1e-6)
				}
			}
		}
	}
}

func TestComputePlacement_CornersKeepStripSize(t *testing.T) {
	p, err := ComputePlacement(120, 9, model.PaperLetter, model.DefaultMargins(), 33)
	require.NoError(t, err)

	c := p.Corners()
	assert.InDelta(t, 120.0, math.Hypot(c[1].X-c[0].X, c[1].Y-c[0].Y), 1e-9)
	assert.InDelta(t, 9.0, math.Hypot(c[3].X-c[0].X, c[3].Y-c[0].Y), 1e-9)
}

func TestComputePlacement_PositiveAngleTurnsCounterClockwise(t *testing.T) {
	p, err := ComputePlacement(100, 10, model.PaperA4, model.DefaultMargins(), 90)
	require.NoError(t, err)

	// The right end of the strip moves to the top of the page.
	right := p.Apply(Point{X: 100, Y: 5})
	assert.InDelta(t, p.Origin.X, right.X, 1e-9)
	assert.InDelta(t, p.Origin.Y-50, right.Y, 1e-9)
}

func TestComputePlacement_NegativeAngleAccepted(t *testing.T) {
	neg, err := ComputePlacement(200, 6, model.PaperA4, model.DefaultMargins(), -90)
	require.NoError(t, err)
	pos, err := ComputePlacement(200, 6, model.PaperA4, model.DefaultMargins(), 270)
	require.NoError(t, err)

	assert.Equal(t, -90.0, neg.RotationDegrees)
	assert.InDelta(t, pos.BoundsWidth, neg.BoundsWidth, eps)
	assert.True(t, neg.Fits)
}

func TestComputePlacement_InvalidPrintableArea(t *testing.T) {
	margins := model.PageMargins{Top: 10, Right: 110, Bottom: 10, Left: 110}
	_, err := ComputePlacement(50, 6, model.PaperA4, margins, 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestComputePlacement_InvalidInputs(t *testing.T) {
	m := model.DefaultMargins()
	tests := []struct {
		name string
		w, h float64
		deg  float64
	}{
		{"negative width", -1, 6, 0},
		{"negative height", 10, -6, 0},
		{"NaN width", math.NaN(), 6, 0},
		{"infinite rotation", 10, 6, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputePlacement(tt.w, tt.h, model.PaperA4, m, tt.deg)
			assert.ErrorIs(t, err, model.ErrInvalidArgument)
		})
	}

	_, err := ComputePlacement(10, 6, model.PaperSize("B5"), m, 0)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestPlaceStrip(t *testing.T) {
	s := model.NewLabelStrip()
	require.NoError(t, s.SetHeight(6))
	require.NoError(t, s.SetContentCellWidth(12))
	require.NoError(t, s.SetContentSegmentCount(4))
	s.UpdateSettings(func(st *model.StripSettings) { st.RotationDegrees = 45 })

	p, err := PlaceStrip(s)
	require.NoError(t, err)
	assert.InDelta(t, 48.0, p.StripWidth, eps)
	assert.Equal(t, 6.0, p.StripHeight)
	assert.Equal(t, 45.0, p.RotationDegrees)
}

func TestSuggestRotation(t *testing.T) {
	m := model.DefaultMargins()

	angle, ok, err := SuggestRotation(100, 6, model.PaperA4, m)
	require.NoError(t, err)
	assert.Equal(t, 0.0, angle)
	assert.True(t, ok)

	angle, ok, err = SuggestRotation(250, 6, model.PaperA4, m)
	require.NoError(t, err)
	assert.Equal(t, 90.0, angle)
	assert.True(t, ok)

	angle, ok, err = SuggestRotation(450, 6, model.PaperA4, m)
	require.NoError(t, err)
	assert.Equal(t, 90.0, angle)
	assert.False(t, ok)
}
