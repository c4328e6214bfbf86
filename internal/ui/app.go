package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/jackfield-labeler/internal/engine"
	"github.com/piwi3910/jackfield-labeler/internal/export"
	labelimporter "github.com/piwi3910/jackfield-labeler/internal/importer"
	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/piwi3910/jackfield-labeler/internal/project"
	"github.com/piwi3910/jackfield-labeler/internal/raster"
	"github.com/piwi3910/jackfield-labeler/internal/ui/widgets"
)

// App holds all application state and UI references.
type App struct {
	app        fyne.App
	window     fyne.Window
	project    *project.Project
	path       string // where the project was last saved or opened from
	config     model.AppConfig
	configPath string
	logger     *slog.Logger

	unsubscribe  func()
	previewDirty bool

	tabs *container.AppTabs

	// UI references for dynamic updates
	designerContainer *fyne.Container
	segmentsContainer *fyne.Container
	settingsContainer *fyne.Container
	previewContainer  *fyne.Container
	statusLabel       *widget.Label
}

func NewApp(application fyne.App, window fyne.Window, config model.AppConfig, configPath string, logger *slog.Logger) *App {
	a := &App{
		app:               application,
		window:            window,
		config:            config,
		configPath:        configPath,
		logger:            logger,
		designerContainer: container.NewStack(),
		segmentsContainer: container.NewVBox(),
		settingsContainer: container.NewStack(),
		previewContainer:  container.NewStack(),
		statusLabel:       widget.NewLabel(""),
	}
	application.Settings().SetTheme(NewJackfieldTheme(config.Theme))
	a.setProject(a.blankProject(), "")
	return a
}

// blankProject returns a new project seeded with the configured defaults.
func (a *App) blankProject() *project.Project {
	p := project.New()
	if err := a.config.ApplyToStrip(p.Strip); err != nil {
		a.logger.Warn("ignoring invalid strip defaults", "error", err)
	}
	return p
}

// setProject makes p the open project and moves the change subscription
// over to its strip.
func (a *App) setProject(p *project.Project, path string) {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.project = p
	a.path = path
	a.unsubscribe = p.Strip.Subscribe(a.onStripChanged)
	a.rebuildAll()
	a.updateTitle()
}

func (a *App) onStripChanged(c model.Change) {
	a.logger.Debug("strip changed", "change", c.String())
	switch c {
	case model.ChangeSegments, model.ChangeDimensions:
		a.refreshSegmentList()
	case model.ChangeReplaced:
		a.rebuildAll()
	}
	a.markPreviewDirty()
	a.refreshStatus()
}

func (a *App) rebuildAll() {
	a.designerContainer.Objects = []fyne.CanvasObject{a.buildDesignerPanel()}
	a.designerContainer.Refresh()
	a.settingsContainer.Objects = []fyne.CanvasObject{a.buildSettingsPanel()}
	a.settingsContainer.Refresh()
	a.markPreviewDirty()
	a.refreshStatus()
}

// markPreviewDirty re-renders now if the preview is showing, otherwise
// on the next visit to the tab.
func (a *App) markPreviewDirty() {
	a.previewDirty = true
	if a.tabs != nil && a.tabs.SelectedIndex() == previewTabIndex {
		a.refreshPreview()
	}
}

func (a *App) refreshPreview() {
	if !a.previewDirty {
		return
	}
	a.previewDirty = false
	a.previewContainer.Objects = []fyne.CanvasObject{
		widgets.RenderStripPreview(a.project.Strip, a.config.PreviewDPI, a.config.PreviewScale),
	}
	a.previewContainer.Refresh()
}

func (a *App) refreshStatus() {
	strip := a.project.Strip
	text := fmt.Sprintf("%.1f x %.1f mm, %d segment(s)", strip.TotalWidth(), strip.Height(), len(strip.AllSegments()))
	if placement, err := engine.PlaceStrip(strip); err == nil {
		if placement.Fits {
			text += fmt.Sprintf(" | fits on %s", strip.Settings().PaperSize)
		} else {
			text += fmt.Sprintf(" | does NOT fit on %s", strip.Settings().PaperSize)
		}
	}
	if problems := strip.Validate(); len(problems) > 0 {
		text += fmt.Sprintf(" | %d problem(s)", len(problems))
	}
	a.statusLabel.SetText(text)
}

func (a *App) updateTitle() {
	a.window.SetTitle(fmt.Sprintf("%s - %s", a.project.Name, project.ApplicationName))
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	recent := fyne.NewMenuItem("Open Recent", nil)
	recent.ChildMenu = a.recentMenu()

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New", a.newProject),
		fyne.NewMenuItem("Open...", a.openProject),
		recent,
		fyne.NewMenuItem("Save", a.saveProject),
		fyne.NewMenuItem("Save As...", a.saveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Import Labels from CSV...", a.importCSV),
		fyne.NewMenuItem("Import Labels from Excel...", a.importExcel),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PDF...", a.exportPDF),
		fyne.NewMenuItem("Export PNG...", a.exportPNG),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", a.showAboutDialog),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *App) recentMenu() *fyne.Menu {
	var items []*fyne.MenuItem
	for _, path := range a.config.RecentProjects {
		items = append(items, fyne.NewMenuItem(filepath.Base(path), func() {
			a.openPath(path)
		}))
	}
	if len(items) == 0 {
		none := fyne.NewMenuItem("(none)", nil)
		none.Disabled = true
		items = append(items, none)
	}
	return fyne.NewMenu("", items...)
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About "+project.ApplicationName,
		project.ApplicationName+"\n\n"+
			"Designs printable label strips for jackfield patch panels\n"+
			"and exports them as PDF or PNG.",
		a.window,
	)
}

const (
	designerTabIndex = iota
	settingsTabIndex
	previewTabIndex
)

// Build constructs the main window content.
func (a *App) Build() fyne.CanvasObject {
	a.tabs = container.NewAppTabs(
		container.NewTabItem("Designer", a.designerContainer),
		container.NewTabItem("Settings", a.settingsContainer),
		container.NewTabItem("Preview", a.previewContainer),
	)
	a.tabs.SetTabLocation(container.TabLocationTop)
	a.tabs.OnSelected = func(*container.TabItem) {
		if a.tabs.SelectedIndex() == previewTabIndex {
			a.refreshPreview()
		}
	}

	return container.NewBorder(a.buildToolbar(), a.statusLabel, nil, nil, a.tabs)
}

// ─── Actions ───────────────────────────────────────────────

func (a *App) newProject() {
	a.logger.Info("new strip")
	a.setProject(a.blankProject(), "")
}

func (a *App) openProject() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.openPath(reader.URI().Path())
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	d.Show()
}

func (a *App) openPath(path string) {
	p, err := project.Load(path)
	if err != nil {
		a.logger.Error("open project failed", "path", path, "error", err)
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.Info("opened project", "path", path, "segments", len(p.Strip.AllSegments()))
	a.setProject(p, path)
	a.rememberPath(path)
}

func (a *App) saveProject() {
	if a.path == "" {
		a.saveProjectAs()
		return
	}
	a.savePath(a.path)
}

func (a *App) saveProjectAs() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()
		a.savePath(path)
	}, a.window)
	d.SetFileName(a.project.Name + project.Extension)
	d.Show()
}

func (a *App) savePath(path string) {
	saved, err := project.Save(path, a.project)
	if err != nil {
		a.logger.Error("save project failed", "path", path, "error", err)
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.Info("saved project", "path", saved)
	a.path = saved
	a.project.Name = strings.TrimSuffix(filepath.Base(saved), project.Extension)
	a.updateTitle()
	a.rememberPath(saved)

	if problems := a.project.Strip.Validate(); len(problems) > 0 {
		a.logger.Warn("saved project has problems", "path", saved, "problems", len(problems))
		dialog.ShowInformation("Saved With Problems", saveWarning(problems), a.window)
	}
}

// saveWarning tells the user what still blocks export after a save.
func saveWarning(problems []string) string {
	var b strings.Builder
	b.WriteString("The project was saved, but it cannot be exported until these are fixed:\n")
	for _, p := range problems {
		b.WriteString("\n- ")
		b.WriteString(p)
	}
	return b.String()
}

// rememberPath records path in the recent list and persists the config.
func (a *App) rememberPath(path string) {
	a.config.AddRecentProject(path)
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.logger.Warn("could not save config", "path", a.configPath, "error", err)
	}
	a.SetupMenus()
}

func (a *App) exportPDF() {
	if err := a.project.Strip.Check(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		placement, err := export.ExportPDF(path, a.project.Strip)
		if err != nil {
			a.logger.Error("pdf export failed", "path", path, "error", err)
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("exported pdf", "path", path, "fits", placement.Fits, "rotation", placement.RotationDegrees)
		if !placement.Fits {
			dialog.ShowInformation("Strip Does Not Fit",
				fmt.Sprintf("PDF saved to %s, but the rotated strip (%.1f x %.1f mm) extends past the "+
					"printable area (%.1f x %.1f mm).\n\nTry a different rotation or a larger paper size.",
					path, placement.BoundsWidth, placement.BoundsHeight, placement.Printable.W, placement.Printable.H),
				a.window)
			return
		}
		dialog.ShowInformation("Export Complete", fmt.Sprintf("PDF saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(a.project.Name + ".pdf")
	d.Show()
}

func (a *App) exportPNG() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := raster.ExportPNG(path, a.project.Strip, a.config.ExportDPI); err != nil {
			a.logger.Error("png export failed", "path", path, "error", err)
			if errors.Is(err, model.ErrEmptyStrip) {
				dialog.ShowInformation("Nothing to export", "The strip has no segments.", a.window)
				return
			}
			dialog.ShowError(err, a.window)
			return
		}
		a.logger.Info("exported png", "path", path, "dpi", a.config.ExportDPI)
		dialog.ShowInformation("Export Complete", fmt.Sprintf("PNG saved to %s", path), a.window)
	}, a.window)
	d.SetFileName(a.project.Name + ".png")
	d.Show()
}

// ─── Import Functions ───────────────────────────────────────

func (a *App) importCSV() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(labelimporter.ImportCSV(reader.URI().Path()))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".csv", ".txt"}))
	d.Show()
}

func (a *App) importExcel() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		a.handleImportResult(labelimporter.ImportExcel(reader.URI().Path()))
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".xlsx", ".xlsm"}))
	d.Show()
}

func (a *App) handleImportResult(result labelimporter.ImportResult) {
	for _, w := range result.Warnings {
		a.logger.Warn("import", "warning", w)
	}

	if len(result.Rows) == 0 {
		msg := "No labels were imported."
		if len(result.Errors) > 0 {
			msg = "Errors encountered during import:\n\n" + strings.Join(result.Errors, "\n")
		}
		dialog.ShowError(errors.New(msg), a.window)
		return
	}

	if err := labelimporter.ApplyToStrip(a.project.Strip, result.Rows); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.logger.Info("imported labels", "rows", len(result.Rows), "warnings", len(result.Warnings))

	msg := fmt.Sprintf("Imported %d label(s) into the content cells.", len(result.Rows))
	if len(result.Warnings) > 0 {
		msg += fmt.Sprintf("\n\n%d warning(s); see the log for details.", len(result.Warnings))
	}
	dialog.ShowInformation("Import Complete", msg, a.window)
}
