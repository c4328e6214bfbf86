// Package project persists label strip designs and application settings.
package project

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/piwi3910/jackfield-labeler/internal/model"
)

const (
	Extension       = ".jlp"
	ApplicationName = "Jackfield Labeler"
	FormatVersion   = "1.0"
)

// ErrNotProject is returned when a file is JSON but not a project document.
var ErrNotProject = errors.New("not a Jackfield Labeler project")

// Project is an open design.
type Project struct {
	ID    string
	Name  string
	Strip *model.LabelStrip
}

// New returns an untitled project with a fresh strip.
func New() *Project {
	return &Project{
		ID:    uuid.New().String()[:8],
		Name:  "Untitled",
		Strip: model.NewLabelStrip(),
	}
}

type metadata struct {
	CreatedBy         string `json:"created_by"`
	FileFormatVersion string `json:"file_format_version"`
	SavedAt           string `json:"saved_at,omitempty"`
}

// fileDocument is the on-disk layout of a .jlp file.
type fileDocument struct {
	Version     string            `json:"version"`
	Application string            `json:"application"`
	ID          string            `json:"id,omitempty"`
	Strip       *model.LabelStrip `json:"label_strip"`
	Metadata    metadata          `json:"metadata"`
}

// WithExtension appends .jlp unless path already ends with it.
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), Extension) {
		return path
	}
	return path + Extension
}

// Save writes the project to path (with .jlp appended if missing) and
// returns the path actually written. The strip is stored as is, even when
// Validate reports problems with it.
func Save(path string, p *Project) (string, error) {
	path = WithExtension(path)

	doc := fileDocument{
		Version:     FormatVersion,
		Application: ApplicationName,
		ID:          p.ID,
		Strip:       p.Strip,
		Metadata: metadata{
			CreatedBy:         ApplicationName,
			FileFormatVersion: FormatVersion,
			SavedAt:           time.Now().UTC().Format(time.RFC3339),
		},
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", &model.IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", &model.IOError{Path: path, Err: err}
	}
	return path, nil
}

// Load reads a project file. The name is taken from the file name.
func Load(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &model.IOError{Path: path, Err: err}
	}

	var header struct {
		Version     string          `json:"version"`
		Application string          `json:"application"`
		ID          string          `json:"id"`
		Strip       json.RawMessage `json:"label_strip"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to parse project file: %w", err)
	}
	if err := checkHeader(header.Application, header.Version, header.Strip != nil); err != nil {
		return nil, err
	}

	strip := model.NewLabelStrip()
	if err := json.Unmarshal(header.Strip, strip); err != nil {
		return nil, fmt.Errorf("failed to read label strip: %w", err)
	}
	id := header.ID
	if id == "" {
		id = uuid.New().String()[:8]
	}
	return &Project{
		ID:    id,
		Name:  strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Strip: strip,
	}, nil
}

func checkHeader(application, version string, hasStrip bool) error {
	switch {
	case application != ApplicationName:
		return fmt.Errorf("%w: application is %q", ErrNotProject, application)
	case version == "":
		return fmt.Errorf("%w: missing version field", ErrNotProject)
	case !strings.HasPrefix(version, "1."):
		return fmt.Errorf("unsupported project version %q", version)
	case !hasStrip:
		return fmt.Errorf("%w: missing label_strip", ErrNotProject)
	}
	return nil
}

// Info summarises a project file without building the strip.
type Info struct {
	Version          string
	Application      string
	FileSize         int64
	ModTime          time.Time
	StripHeight      float64
	ContentCellWidth float64
	SegmentCount     int
}

// ReadInfo returns the summary of a project file.
func ReadInfo(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, &model.IOError{Path: path, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, &model.IOError{Path: path, Err: err}
	}

	var raw struct {
		Version     string `json:"version"`
		Application string `json:"application"`
		Strip       *struct {
			Height           float64           `json:"height"`
			ContentCellWidth float64           `json:"content_cell_width"`
			Segments         []json.RawMessage `json:"segments"`
		} `json:"label_strip"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Info{}, fmt.Errorf("failed to parse project file: %w", err)
	}

	info := Info{
		Version:     orUnknown(raw.Version),
		Application: orUnknown(raw.Application),
		FileSize:    st.Size(),
		ModTime:     st.ModTime(),
	}
	if raw.Strip != nil {
		info.StripHeight = raw.Strip.Height
		info.ContentCellWidth = raw.Strip.ContentCellWidth
		info.SegmentCount = len(raw.Strip.Segments)
	}
	return info, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// IsProjectFile reports whether path has the project extension and
// declares itself a Jackfield Labeler document.
func IsProjectFile(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), Extension) {
		return false
	}
	info, err := ReadInfo(path)
	return err == nil && info.Application == ApplicationName
}
