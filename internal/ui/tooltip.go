package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a hover tooltip.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// buildToolbar is the row of quick actions above the tabs.
func (a *App) buildToolbar() fyne.CanvasObject {
	return container.NewHBox(
		newIconButtonWithTooltip(theme.DocumentCreateIcon(), "New strip", a.newProject),
		newIconButtonWithTooltip(theme.FolderOpenIcon(), "Open project", a.openProject),
		newIconButtonWithTooltip(theme.DocumentSaveIcon(), "Save project", a.saveProject),
		widget.NewSeparator(),
		newIconButtonWithTooltip(theme.UploadIcon(), "Import labels from CSV", a.importCSV),
		newIconButtonWithTooltip(theme.DocumentPrintIcon(), "Export PDF", a.exportPDF),
		newIconButtonWithTooltip(theme.FileImageIcon(), "Export PNG", a.exportPNG),
	)
}
