package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/jackfield-labeler/internal/model"
)

const preferencesKind = "jackfield-labeler-preferences"

// PreferencesFile is a portable copy of the user's defaults, for moving
// them between machines.
type PreferencesFile struct {
	Kind       string          `json:"kind"`
	ExportedAt string          `json:"exported_at"`
	Config     model.AppConfig `json:"config"`
}

// ExportPreferences writes config to path. The recent-project list is
// machine specific and left out.
func ExportPreferences(path string, config model.AppConfig) error {
	config.RecentProjects = []string{}
	doc := PreferencesFile{
		Kind:       preferencesKind,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Config:     config,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	return nil
}

// ImportPreferences reads a file written by ExportPreferences. Keys the
// file lacks keep their default values.
func ImportPreferences(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.AppConfig{}, &model.IOError{Path: path, Err: err}
	}
	doc := PreferencesFile{Config: model.DefaultAppConfig()}
	if err := json.Unmarshal(data, &doc); err != nil {
		return model.AppConfig{}, fmt.Errorf("parse preferences: %w", err)
	}
	if doc.Kind != preferencesKind {
		return model.AppConfig{}, fmt.Errorf("%s: not a preferences file", path)
	}
	if doc.Config.RecentProjects == nil {
		doc.Config.RecentProjects = []string{}
	}
	return doc.Config, nil
}
