package model

// MaxRecentProjects bounds AppConfig.RecentProjects.
const MaxRecentProjects = 10

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new strips
	DefaultPaperSize       PaperSize   `json:"default_paper_size"`
	DefaultMargins         PageMargins `json:"default_margins"`
	DefaultFontName        string      `json:"default_font_name"`
	DefaultFontSize        float64     `json:"default_font_size"` // pt
	DefaultTextColor       Color       `json:"default_text_color"`
	DefaultBackgroundColor Color       `json:"default_background_color"`
	DefaultHeight          float64     `json:"default_height"`     // mm
	DefaultCellWidth       float64     `json:"default_cell_width"` // mm

	// Rendering
	PreviewDPI   float64 `json:"preview_dpi"`
	PreviewScale float64 `json:"preview_scale"`
	ExportDPI    float64 `json:"export_dpi"`

	// Application preferences
	RecentProjects []string `json:"recent_projects"`
	Theme          string   `json:"theme"`     // "light", "dark", "system"
	LogLevel       string   `json:"log_level"` // "debug", "info", "warn", "error"
}

// DefaultAppConfig returns an AppConfig whose strip defaults match
// DefaultStripSettings and NewLabelStrip.
func DefaultAppConfig() AppConfig {
	defaults := DefaultStripSettings()
	return AppConfig{
		DefaultPaperSize:       defaults.PaperSize,
		DefaultMargins:         defaults.Margins,
		DefaultFontName:        defaults.FontName,
		DefaultFontSize:        defaults.FontSize,
		DefaultTextColor:       defaults.TextColor,
		DefaultBackgroundColor: defaults.BackgroundColor,
		DefaultHeight:          DefaultHeight,
		DefaultCellWidth:       DefaultCellWidth,
		PreviewDPI:             150,
		PreviewScale:           2,
		ExportDPI:              300,
		RecentProjects:         []string{},
		Theme:                  "system",
		LogLevel:               "info",
	}
}

// ApplyToStrip seeds a strip with the user's saved defaults. It is used
// when creating a new design.
func (c AppConfig) ApplyToStrip(s *LabelStrip) error {
	if err := s.SetHeight(c.DefaultHeight); err != nil {
		return err
	}
	if err := s.SetContentCellWidth(c.DefaultCellWidth); err != nil {
		return err
	}
	s.UpdateSettings(func(st *StripSettings) {
		st.PaperSize = c.DefaultPaperSize
		st.Margins = c.DefaultMargins
		st.FontName = c.DefaultFontName
		st.FontSize = c.DefaultFontSize
		st.TextColor = c.DefaultTextColor
		st.BackgroundColor = c.DefaultBackgroundColor
	})
	return nil
}

// AddRecentProject moves path to the front of the recent list, dropping
// duplicates and anything past MaxRecentProjects.
func (c *AppConfig) AddRecentProject(path string) {
	list := []string{path}
	for _, p := range c.RecentProjects {
		if p != path && len(list) < MaxRecentProjects {
			list = append(list, p)
		}
	}
	c.RecentProjects = list
}
