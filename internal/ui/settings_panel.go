package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jackfield-labeler/internal/engine"
	"github.com/piwi3910/jackfield-labeler/internal/fonts"
	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/piwi3910/jackfield-labeler/internal/project"
)

// quickRotations are offered as one-click buttons next to the angle entry.
var quickRotations = []float64{0, 90, 180, 270}

func (a *App) buildSettingsPanel() fyne.CanvasObject {
	strip := a.project.Strip
	s := strip.Settings()

	settingFloat := func(apply func(*model.StripSettings, float64)) func(float64) error {
		return func(v float64) error {
			strip.UpdateSettings(func(st *model.StripSettings) { apply(st, v) })
			return nil
		}
	}

	// Page
	var papers []string
	for _, p := range model.PaperSizes() {
		papers = append(papers, string(p))
	}
	paperSelect := widget.NewSelect(papers, nil)
	paperSelect.SetSelected(string(s.PaperSize))
	paperSelect.OnChanged = func(name string) {
		if p, err := model.ParsePaperSize(name); err == nil {
			strip.UpdateSettings(func(st *model.StripSettings) { st.PaperSize = p })
		}
	}

	pageSection := widget.NewCard("Page", "", container.NewGridWithColumns(2,
		widget.NewLabel("Paper Size"), paperSelect,
		widget.NewLabel("Top Margin (mm)"), a.floatEntry(s.Margins.Top, settingFloat(func(st *model.StripSettings, v float64) { st.Margins.Top = v })),
		widget.NewLabel("Right Margin (mm)"), a.floatEntry(s.Margins.Right, settingFloat(func(st *model.StripSettings, v float64) { st.Margins.Right = v })),
		widget.NewLabel("Bottom Margin (mm)"), a.floatEntry(s.Margins.Bottom, settingFloat(func(st *model.StripSettings, v float64) { st.Margins.Bottom = v })),
		widget.NewLabel("Left Margin (mm)"), a.floatEntry(s.Margins.Left, settingFloat(func(st *model.StripSettings, v float64) { st.Margins.Left = v })),
	))

	// Rotation
	rotationEntry := a.floatEntry(s.RotationDegrees, settingFloat(func(st *model.StripSettings, v float64) { st.RotationDegrees = v }))
	quick := container.NewHBox()
	for _, deg := range quickRotations {
		quick.Add(widget.NewButton(fmt.Sprintf("%g°", deg), func() {
			rotationEntry.SetText(strconv.FormatFloat(deg, 'f', -1, 64))
		}))
	}
	quick.Add(widget.NewButton("Suggest", func() {
		a.suggestRotation(rotationEntry)
	}))

	rotationSection := widget.NewCard("Rotation", "Counter-clockwise, in degrees", container.NewVBox(
		container.NewGridWithColumns(2, widget.NewLabel("Angle (°)"), rotationEntry),
		quick,
	))

	// Default style
	fontSelect := widget.NewSelect(fonts.Names, nil)
	fontSelect.SetSelected(s.FontName)
	fontSelect.OnChanged = func(name string) {
		strip.UpdateSettings(func(st *model.StripSettings) { st.FontName = name })
	}

	styleSection := widget.NewCard("Text", "Colors apply to newly created segments", container.NewGridWithColumns(2,
		widget.NewLabel("Font"), fontSelect,
		widget.NewLabel("Font Size (pt)"), a.floatEntry(s.FontSize, settingFloat(func(st *model.StripSettings, v float64) { st.FontSize = v })),
		widget.NewLabel("Default Text Color"), colorSelect(s.TextColor, func(c model.Color) {
			strip.UpdateSettings(func(st *model.StripSettings) { st.TextColor = c })
		}),
		widget.NewLabel("Default Background"), colorSelect(s.BackgroundColor, func(c model.Color) {
			strip.UpdateSettings(func(st *model.StripSettings) { st.BackgroundColor = c })
		}),
	))

	return container.NewVScroll(container.NewVBox(
		pageSection,
		rotationSection,
		styleSection,
		a.buildPreferencesSection(),
	))
}

// suggestRotation fills the angle entry with an orientation that fits the
// page, if there is one.
func (a *App) suggestRotation(rotationEntry *widget.Entry) {
	strip := a.project.Strip
	s := strip.Settings()
	angle, ok, err := engine.SuggestRotation(strip.TotalWidth(), strip.Height(), s.PaperSize, s.Margins)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	rotationEntry.SetText(strconv.FormatFloat(angle, 'f', -1, 64))
	if !ok {
		dialog.ShowInformation("No Fitting Rotation",
			fmt.Sprintf("A %.1f mm strip does not fit on %s at any right angle. "+
				"Try a diagonal angle, smaller margins or a larger paper size.", strip.TotalWidth(), s.PaperSize),
			a.window)
	}
}

// ─── Application Preferences ───────────────────────────────

func (a *App) buildPreferencesSection() fyne.CanvasObject {
	cfg := &a.config

	themeSelect := widget.NewSelect([]string{"system", "light", "dark"}, nil)
	themeSelect.SetSelected(cfg.Theme)
	themeSelect.OnChanged = func(name string) {
		cfg.Theme = name
		a.app.Settings().SetTheme(NewJackfieldTheme(name))
	}

	positive := func(dst *float64) func(float64) error {
		return func(v float64) error {
			if v <= 0 {
				return fmt.Errorf("%g: %w", v, model.ErrInvalidArgument)
			}
			*dst = v
			a.markPreviewDirty()
			return nil
		}
	}

	save := widget.NewButton("Save Current Strip as Defaults", func() {
		strip := a.project.Strip
		s := strip.Settings()
		cfg.DefaultPaperSize = s.PaperSize
		cfg.DefaultMargins = s.Margins
		cfg.DefaultFontName = s.FontName
		cfg.DefaultFontSize = s.FontSize
		cfg.DefaultTextColor = s.TextColor
		cfg.DefaultBackgroundColor = s.BackgroundColor
		cfg.DefaultHeight = strip.Height()
		cfg.DefaultCellWidth = strip.ContentCellWidth()
		if err := project.SaveAppConfig(a.configPath, *cfg); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("saved defaults", "path", a.configPath)
		dialog.ShowInformation("Settings Saved", "New strips will start from these settings.", a.window)
	})

	return widget.NewCard("Application", "", container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Theme"), themeSelect,
			widget.NewLabel("Preview DPI"), a.floatEntry(cfg.PreviewDPI, positive(&cfg.PreviewDPI)),
			widget.NewLabel("Preview Scale"), a.floatEntry(cfg.PreviewScale, positive(&cfg.PreviewScale)),
			widget.NewLabel("PNG Export DPI"), a.floatEntry(cfg.ExportDPI, positive(&cfg.ExportDPI)),
		),
		container.NewHBox(save,
			widget.NewButton("Export Preferences...", a.exportPreferences),
			widget.NewButton("Import Preferences...", a.importPreferences),
		),
	))
}

func (a *App) exportPreferences() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		if err := project.ExportPreferences(path, a.config); err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("exported preferences", "path", path)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("Preferences saved to %s", path), a.window)
	}, a.window)
	d.SetFileName("jackfield-labeler-preferences.json")
	d.Show()
}

func (a *App) importPreferences() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		path := reader.URI().Path()

		imported, err := project.ImportPreferences(path)
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		imported.RecentProjects = a.config.RecentProjects
		a.config = imported
		a.app.Settings().SetTheme(NewJackfieldTheme(imported.Theme))
		if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
			a.logger.Warn("could not save config", "path", a.configPath, "error", err)
		}
		a.logger.Info("imported preferences", "path", path)
		a.rebuildAll()
		dialog.ShowInformation("Import Complete", "Preferences imported. New strips will use the imported defaults.", a.window)
	}, a.window)
}
