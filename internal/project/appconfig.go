package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/jackfield-labeler/internal/model"
)

const (
	configDirName  = ".jackfield-labeler"
	configFileName = "config.json"
)

// DefaultConfigDir returns ~/.jackfield-labeler, or a directory of that
// name under the working directory when there is no home.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, configDirName)
}

// ConfigPathIn returns the config file inside dir. A blank dir means the
// default directory.
func ConfigPathIn(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return filepath.Join(filepath.Clean(dir), configFileName)
}

// DefaultConfigPath returns the config file in the default directory.
func DefaultConfigPath() string {
	return ConfigPathIn("")
}

// SaveAppConfig writes config to path as indented JSON, creating the
// directory if needed.
func SaveAppConfig(path string, config model.AppConfig) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	return nil
}

// LoadAppConfig reads the config at path. A missing file yields the
// defaults. Keys absent from the file, and render settings that are not
// positive, keep their default values.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, &model.IOError{Path: path, Err: err}
	}
	defaults := model.DefaultAppConfig()
	config := defaults
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, &model.IOError{Path: path, Err: fmt.Errorf("invalid config: %w", err)}
	}

	for _, f := range []struct{ v, def *float64 }{
		{&config.PreviewDPI, &defaults.PreviewDPI},
		{&config.PreviewScale, &defaults.PreviewScale},
		{&config.ExportDPI, &defaults.ExportDPI},
		{&config.DefaultHeight, &defaults.DefaultHeight},
		{&config.DefaultCellWidth, &defaults.DefaultCellWidth},
	} {
		if *f.v <= 0 {
			*f.v = *f.def
		}
	}
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}
