package project

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/piwi3910/jackfield-labeler/internal/model"
)

// EnvPrefix namespaces the environment overrides, e.g. JACKFIELD_LOG_LEVEL.
const EnvPrefix = "JACKFIELD"

// Env holds overrides read from the environment. Zero values mean unset.
type Env struct {
	ConfigDir string  `envconfig:"CONFIG_DIR"`
	LogLevel  string  `envconfig:"LOG_LEVEL"`
	LogFile   string  `envconfig:"LOG_FILE"`
	ExportDPI float64 `envconfig:"EXPORT_DPI"`
}

// LoadEnv reads the JACKFIELD_* variables.
func LoadEnv() (Env, error) {
	var env Env
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return Env{}, err
	}
	return env, nil
}

// ConfigPath returns the config file location, honouring ConfigDir.
func (e Env) ConfigPath() string {
	return ConfigPathIn(e.ConfigDir)
}

// Apply overlays the set overrides onto cfg.
func (e Env) Apply(cfg *model.AppConfig) {
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
	if e.ExportDPI > 0 {
		cfg.ExportDPI = e.ExportDPI
	}
}
