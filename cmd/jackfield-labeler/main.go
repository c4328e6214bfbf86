// Jackfield Labeler: label strip designer for jackfield patch panels
//
// A cross-platform desktop application for laying out the label strip
// that sits above or below a row of jack sockets, placing it on a page
// and exporting it as PDF or PNG.
//
// Build:
//   go build -o jackfield-labeler ./cmd/jackfield-labeler
//
// Cross-compile:
//   GOOS=windows GOARCH=amd64 go build -o jackfield-labeler.exe ./cmd/jackfield-labeler
//   GOOS=darwin  GOARCH=amd64 go build -o jackfield-labeler-darwin ./cmd/jackfield-labeler
//
// Environment:
//   JACKFIELD_CONFIG_DIR   directory holding config.json
//   JACKFIELD_LOG_LEVEL    debug, info, warn or error
//   JACKFIELD_LOG_FILE     also write logs to this file
//   JACKFIELD_EXPORT_DPI   PNG export resolution

package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	fynetooltip "github.com/dweymouth/fyne-tooltip"

	"github.com/piwi3910/jackfield-labeler/internal/logging"
	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/piwi3910/jackfield-labeler/internal/project"
	"github.com/piwi3910/jackfield-labeler/internal/ui"
)

func main() {
	env, err := project.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "jackfield-labeler: %v\n", err)
		os.Exit(2)
	}

	configPath := env.ConfigPath()
	config, configErr := project.LoadAppConfig(configPath)
	if configErr != nil {
		config = model.DefaultAppConfig()
	}
	env.Apply(&config)

	logger, closeLog, err := logging.Setup(config.LogLevel, env.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jackfield-labeler: %v\n", err)
		os.Exit(2)
	}
	defer closeLog()

	if configErr != nil {
		logger.Warn("using default settings", "path", configPath, "error", configErr)
	}
	logger.Info("starting", "config", configPath, "log_level", config.LogLevel)

	application := app.NewWithID("com.piwi3910.jackfield-labeler")
	window := application.NewWindow(project.ApplicationName)

	appUI := ui.NewApp(application, window, config, configPath, logger)
	appUI.SetupMenus()
	window.SetContent(fynetooltip.AddWindowToolTipLayer(appUI.Build(), window.Canvas()))
	window.Resize(fyne.NewSize(1200, 760))
	window.CenterOnScreen()
	window.ShowAndRun()

	logger.Info("exiting")
}
