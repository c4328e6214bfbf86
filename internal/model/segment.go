package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// SegmentKind distinguishes the three regions of a strip.
type SegmentKind int

const (
	KindStart SegmentKind = iota
	KindContent
	KindEnd
)

const (
	StartSegmentID = "L_START"
	EndSegmentID   = "L_END"
)

func (k SegmentKind) String() string {
	switch k {
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	default:
		return "content"
	}
}

// ParseSegmentKind accepts "start", "content" or "end" in any case.
func ParseSegmentKind(s string) (SegmentKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "start":
		return KindStart, nil
	case "content":
		return KindContent, nil
	case "end":
		return KindEnd, nil
	}
	return KindContent, fmt.Errorf("segment type %q: %w", s, ErrInvalidArgument)
}

func (k SegmentKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

func (k *SegmentKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSegmentKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// SegmentStyle is the user-editable appearance of a segment.
type SegmentStyle struct {
	Text            string     `json:"text"`
	Format          TextFormat `json:"text_format"`
	TextColor       Color      `json:"text_color"`
	BackgroundColor Color      `json:"background_color"`
}

// Segment is one rectangular region of a strip.
type Segment struct {
	ID    string      `json:"id"`
	Kind  SegmentKind `json:"type"`
	Width float64     `json:"width"` // mm
	SegmentStyle
}

// NewSegment builds a segment from a complete parameter set.
// Width is rounded to 3 decimals and must not be negative.
func NewSegment(kind SegmentKind, id string, width float64, style SegmentStyle) (Segment, error) {
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return Segment{}, fmt.Errorf("segment %s width %g: %w", id, width, ErrInvalidArgument)
	}
	return Segment{
		ID:           id,
		Kind:         kind,
		Width:        roundMM(width),
		SegmentStyle: style,
	}, nil
}

// UnmarshalJSON fills colors missing from the input with black text on white.
func (s *Segment) UnmarshalJSON(data []byte) error {
	type plain Segment
	p := plain{SegmentStyle: SegmentStyle{TextColor: Black, BackgroundColor: White}}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Segment(p)
	return nil
}

// Present reports whether the segment occupies space on the strip.
func (s Segment) Present() bool { return s.Width > 0 }

func (s Segment) String() string {
	return fmt.Sprintf("%s[%s] %.3fmm %q", s.Kind, s.ID, s.Width, s.Text)
}

// roundMM rounds a length to micrometre precision.
func roundMM(v float64) float64 {
	return math.Round(v*1000) / 1000
}
