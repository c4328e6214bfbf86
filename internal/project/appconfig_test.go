package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/jackfield-labeler/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultCellWidth = 14.5
	cfg.Theme = "dark"
	cfg.DefaultPaperSize = model.PaperLetter
	cfg.DefaultBackgroundColor = model.Orange
	cfg.RecentProjects = []string{"/tmp/console.jlp", "/tmp/rack.jlp"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultCellWidth != 14.5 {
		t.Errorf("expected DefaultCellWidth=14.5, got %f", loaded.DefaultCellWidth)
	}
	if loaded.Theme != "dark" {
		t.Errorf("expected Theme=dark, got %s", loaded.Theme)
	}
	if loaded.DefaultPaperSize != model.PaperLetter {
		t.Errorf("expected DefaultPaperSize=Letter, got %s", loaded.DefaultPaperSize)
	}
	if loaded.DefaultBackgroundColor != model.Orange {
		t.Errorf("expected orange background, got %s", loaded.DefaultBackgroundColor)
	}
	if len(loaded.RecentProjects) != 2 {
		t.Errorf("expected 2 recent projects, got %d", len(loaded.RecentProjects))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultCellWidth != defaults.DefaultCellWidth {
		t.Errorf("expected default cell width %f, got %f", defaults.DefaultCellWidth, cfg.DefaultCellWidth)
	}
	if cfg.Theme != "system" {
		t.Errorf("expected theme=system, got %s", cfg.Theme)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	// Write config with null recent_projects
	data := []byte(`{"default_cell_width":3.2,"theme":"light","recent_projects":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentProjects == nil {
		t.Error("RecentProjects should not be nil after loading")
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"theme":"dark"}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("expected theme=dark, got %s", cfg.Theme)
	}
	if cfg.ExportDPI != model.DefaultAppConfig().ExportDPI {
		t.Errorf("expected default export DPI, got %f", cfg.ExportDPI)
	}
	if cfg.DefaultBackgroundColor != model.White {
		t.Errorf("expected white default background, got %s", cfg.DefaultBackgroundColor)
	}
}

func TestConfigPathIn(t *testing.T) {
	dir := t.TempDir()
	if got, want := ConfigPathIn(dir), filepath.Join(dir, "config.json"); got != want {
		t.Errorf("ConfigPathIn(%q) = %q, want %q", dir, got, want)
	}
	if got, want := ConfigPathIn(dir+"/sub/.."), filepath.Join(dir, "config.json"); got != want {
		t.Errorf("expected a cleaned path, got %q", got)
	}
	for _, blank := range []string{"", "   "} {
		if got := ConfigPathIn(blank); got != DefaultConfigPath() {
			t.Errorf("ConfigPathIn(%q) = %q, want the default %q", blank, got, DefaultConfigPath())
		}
	}
	if filepath.Base(filepath.Dir(DefaultConfigPath())) != ".jackfield-labeler" {
		t.Errorf("unexpected default config dir: %s", DefaultConfigPath())
	}
}

func TestLoadAppConfigFromConfigDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "profile")
	t.Setenv("JACKFIELD_CONFIG_DIR", dir)
	env, err := LoadEnv()
	if err != nil {
		t.Fatal(err)
	}

	cfg := model.DefaultAppConfig()
	cfg.Theme = "light"
	if err := SaveAppConfig(env.ConfigPath(), cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("config not written inside the config dir: %v", err)
	}

	loaded, err := LoadAppConfig(ConfigPathIn(dir))
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.Theme != "light" {
		t.Errorf("expected theme=light, got %s", loaded.Theme)
	}
}

func TestLoadAppConfigNonPositiveRenderSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"preview_dpi":0,"preview_scale":-1,"export_dpi":600,"default_cell_width":0}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	defaults := model.DefaultAppConfig()
	if cfg.PreviewDPI != defaults.PreviewDPI || cfg.PreviewScale != defaults.PreviewScale {
		t.Errorf("expected default preview settings, got dpi=%g scale=%g", cfg.PreviewDPI, cfg.PreviewScale)
	}
	if cfg.DefaultCellWidth != defaults.DefaultCellWidth {
		t.Errorf("expected default cell width, got %g", cfg.DefaultCellWidth)
	}
	if cfg.ExportDPI != 600 {
		t.Errorf("expected export DPI 600, got %g", cfg.ExportDPI)
	}
}

func TestLoadAppConfigUnreadable(t *testing.T) {
	// A directory where the file should be cannot be read as one.
	path := t.TempDir()
	_, err := LoadAppConfig(path)
	var ioErr *model.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected an IOError, got %v", err)
	}
}
