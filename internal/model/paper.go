package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaperSize identifies a standard sheet size. Dimensions are portrait.
type PaperSize string

const (
	PaperA0      PaperSize = "A0"
	PaperA1      PaperSize = "A1"
	PaperA2      PaperSize = "A2"
	PaperA3      PaperSize = "A3"
	PaperA4      PaperSize = "A4"
	PaperLetter  PaperSize = "Letter"
	PaperLegal   PaperSize = "Legal"
	PaperTabloid PaperSize = "Tabloid"
)

var paperDimensions = map[PaperSize][2]float64{
	PaperA0:      {841, 1189},
	PaperA1:      {594, 841},
	PaperA2:      {420, 594},
	PaperA3:      {297, 420},
	PaperA4:      {210, 297},
	PaperLetter:  {215.9, 279.4},
	PaperLegal:   {215.9, 355.6},
	PaperTabloid: {279.4, 431.8},
}

// PaperSizes returns every supported size in display order.
func PaperSizes() []PaperSize {
	return []PaperSize{PaperA4, PaperA3, PaperA2, PaperA1, PaperA0, PaperLetter, PaperLegal, PaperTabloid}
}

// Dimensions returns the portrait width and height in mm.
func (p PaperSize) Dimensions() (w, h float64, err error) {
	d, ok := paperDimensions[p]
	if !ok {
		return 0, 0, fmt.Errorf("paper size %q: %w", string(p), ErrInvalidArgument)
	}
	return d[0], d[1], nil
}

// ParsePaperSize matches a paper name case-insensitively.
func ParsePaperSize(s string) (PaperSize, error) {
	for _, p := range PaperSizes() {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("paper size %q: %w", s, ErrInvalidArgument)
}

func (p *PaperSize) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePaperSize(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MaxMargin is the largest accepted page margin in mm.
const MaxMargin = 50.0

// PageMargins are the unprintable borders of the page, in mm.
type PageMargins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// DefaultMargins returns 10 mm on every side.
func DefaultMargins() PageMargins {
	return PageMargins{Top: 10, Right: 10, Bottom: 10, Left: 10}
}

// Validate returns one message per margin outside [0, MaxMargin].
func (m PageMargins) Validate() []string {
	var problems []string
	for _, side := range []struct {
		name string
		v    float64
	}{{"Top", m.Top}, {"Right", m.Right}, {"Bottom", m.Bottom}, {"Left", m.Left}} {
		if side.v < 0 || side.v > MaxMargin {
			problems = append(problems, fmt.Sprintf("%s margin (%g mm) must be between 0 and %g mm", side.name, side.v, MaxMargin))
		}
	}
	return problems
}
