// Package ui provides the Jackfield Labeler application UI components.
//
// This file defines a compact Fyne theme for the dense designer layout.

package ui

import (
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// JackfieldTheme wraps the default Fyne theme with compact sizing
// overrides and an optional forced light/dark variant.
type JackfieldTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewJackfieldTheme builds the theme for a config value of "light",
// "dark" or "system". Anything else follows the system.
func NewJackfieldTheme(name string) *JackfieldTheme {
	t := &JackfieldTheme{base: theme.DefaultTheme()}
	switch strings.ToLower(name) {
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	}
	return t
}

func (t *JackfieldTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *JackfieldTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *JackfieldTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *JackfieldTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 18
	case theme.SizeNameSubHeadingText:
		return 14
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	default:
		return t.base.Size(name)
	}
}
