package model

import (
	"encoding/json"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque RGB color with 8-bit channels.
type Color struct {
	R, G, B uint8
}

var (
	Black  = Color{0, 0, 0}
	White  = Color{255, 255, 255}
	Red    = Color{255, 0, 0}
	Green  = Color{0, 255, 0}
	Blue   = Color{0, 0, 255}
	Yellow = Color{255, 255, 0}
	Orange = Color{255, 165, 0}
	Purple = Color{128, 0, 128}
)

// NamedColor pairs a palette entry with its display name.
type NamedColor struct {
	Name  string
	Color Color
}

// StandardColors returns the built-in palette in display order.
func StandardColors() []NamedColor {
	return []NamedColor{
		{"Black", Black},
		{"White", White},
		{"Red", Red},
		{"Green", Green},
		{"Blue", Blue},
		{"Yellow", Yellow},
		{"Orange", Orange},
		{"Purple", Purple},
	}
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB" (either case).
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, fmt.Errorf("color %q: want 6 hex digits: %w", s, ErrInvalidArgument)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, ErrInvalidArgument)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the lowercase "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func (c Color) String() string { return c.Hex() }

// NRGBA returns the color as a fully opaque image color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
}

func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

func (c *Color) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHexColor(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TextFormat selects the font style of a segment's text.
type TextFormat int

const (
	FormatNormal TextFormat = iota
	FormatBold
	FormatItalic
	FormatBoldItalic
)

// TextFormats lists every format in display order.
func TextFormats() []TextFormat {
	return []TextFormat{FormatNormal, FormatBold, FormatItalic, FormatBoldItalic}
}

func (f TextFormat) String() string {
	switch f {
	case FormatBold:
		return "Bold"
	case FormatItalic:
		return "Italic"
	case FormatBoldItalic:
		return "Bold Italic"
	default:
		return "Normal"
	}
}

// key is the persisted name of the format.
func (f TextFormat) key() string {
	switch f {
	case FormatBold:
		return "BOLD"
	case FormatItalic:
		return "ITALIC"
	case FormatBoldItalic:
		return "BOLD_ITALIC"
	default:
		return "NORMAL"
	}
}

// IsBold reports whether the format includes a bold weight.
func (f TextFormat) IsBold() bool { return f == FormatBold || f == FormatBoldItalic }

// IsItalic reports whether the format includes an italic slant.
func (f TextFormat) IsItalic() bool { return f == FormatItalic || f == FormatBoldItalic }

// ParseTextFormat accepts both display names ("Bold Italic") and persisted
// names ("BOLD_ITALIC"), case-insensitively.
func ParseTextFormat(s string) (TextFormat, error) {
	norm := strings.ToUpper(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	switch norm {
	case "NORMAL", "":
		return FormatNormal, nil
	case "BOLD":
		return FormatBold, nil
	case "ITALIC":
		return FormatItalic, nil
	case "BOLD_ITALIC", "BOLDITALIC":
		return FormatBoldItalic, nil
	}
	return FormatNormal, fmt.Errorf("text format %q: %w", s, ErrInvalidArgument)
}

func (f TextFormat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.key())
}

func (f *TextFormat) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTextFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
