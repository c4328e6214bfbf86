package model

import "fmt"

// StripSettings holds page and default-style preferences for a strip.
type StripSettings struct {
	PaperSize       PaperSize   `json:"paper_size"`
	Margins         PageMargins `json:"page_margins"`
	RotationDegrees float64     `json:"rotation_angle"` // not clamped, any real is accepted
	FontName        string      `json:"default_font_name"`
	FontSize        float64     `json:"default_font_size"` // pt
	TextColor       Color       `json:"default_text_color"`
	BackgroundColor Color       `json:"default_background_color"`
}

func DefaultStripSettings() StripSettings {
	return StripSettings{
		PaperSize:       PaperA4,
		Margins:         DefaultMargins(),
		RotationDegrees: 0,
		FontName:        "Arial",
		FontSize:        8,
		TextColor:       Black,
		BackgroundColor: White,
	}
}

// DefaultStyle returns the style a newly created segment receives.
func (s StripSettings) DefaultStyle(text string) SegmentStyle {
	return SegmentStyle{
		Text:            text,
		Format:          FormatNormal,
		TextColor:       s.TextColor,
		BackgroundColor: s.BackgroundColor,
	}
}

// Validate returns one message per out-of-range setting.
func (s StripSettings) Validate() []string {
	problems := s.Margins.Validate()
	if _, _, err := s.PaperSize.Dimensions(); err != nil {
		problems = append(problems, fmt.Sprintf("Unknown paper size %q", string(s.PaperSize)))
	}
	if s.FontSize <= 0 {
		problems = append(problems, fmt.Sprintf("Font size (%g pt) must be positive", s.FontSize))
	}
	return problems
}
