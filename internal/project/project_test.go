package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/jackfield-labeler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestProject(t *testing.T) *Project {
	t.Helper()
	p := New()
	s := p.Strip
	require.NoError(t, s.SetHeight(7))
	require.NoError(t, s.SetContentCellWidth(12))
	require.NoError(t, s.SetContentSegmentCount(3))
	_, err := s.SetStartSegment(18, "MIC")
	require.NoError(t, err)
	require.NoError(t, s.UpdateSegment("2", func(st *model.SegmentStyle) {
		st.Text = "Ünterschrift"
		st.Format = model.FormatBold
		st.TextColor = model.White
		st.BackgroundColor = model.Purple
	}))
	s.UpdateSettings(func(st *model.StripSettings) {
		st.PaperSize = model.PaperA3
		st.RotationDegrees = 60
	})
	return p
}

func TestSaveAndLoadProject(t *testing.T) {
	p := buildTestProject(t)
	path := filepath.Join(t.TempDir(), "patchbay")

	written, err := Save(path, p)
	require.NoError(t, err)
	assert.Equal(t, path+".jlp", written)

	loaded, err := Load(written)
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, "patchbay", loaded.Name)
	assert.Equal(t, p.Strip.Document(), loaded.Strip.Document())
}

func TestSaveKeepsExistingExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rack.JLP")
	written, err := Save(path, buildTestProject(t))
	require.NoError(t, err)
	assert.Equal(t, path, written)
}

func TestSaveFileLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "layout.jlp")
	_, err := Save(path, buildTestProject(t))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "1.0", raw["version"])
	assert.Equal(t, "Jackfield Labeler", raw["application"])

	strip := raw["label_strip"].(map[string]any)
	assert.Equal(t, 7.0, strip["height"])
	segs := strip["segments"].([]any)
	require.Len(t, segs, 4)
	first := segs[0].(map[string]any)
	assert.Equal(t, "start", first["type"])
	assert.Equal(t, "L_START", first["id"])

	second := segs[2].(map[string]any)
	assert.Equal(t, "BOLD", second["text_format"])
	assert.Equal(t, "#800080", second["background_color"])

	settings := strip["settings"].(map[string]any)
	assert.Equal(t, "A3", settings["paper_size"])
	assert.Equal(t, 60.0, settings["rotation_angle"])

	meta := raw["metadata"].(map[string]any)
	assert.Equal(t, "1.0", meta["file_format_version"])
}

func TestSaveKeepsInvalidStrip(t *testing.T) {
	dir := t.TempDir()

	// An empty strip has zero width.
	saved, err := Save(filepath.Join(dir, "empty.jlp"), New())
	require.NoError(t, err)
	loaded, err := Load(saved)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Strip.ContentCount())

	p := New()
	require.NoError(t, p.Strip.SetContentSegmentCount(3))
	require.NoError(t, p.Strip.SetHeight(4))
	require.NoError(t, p.Strip.UpdateSegment("1", func(st *model.SegmentStyle) { st.Text = "KICK" }))
	var ve *model.ValidationError
	require.ErrorAs(t, p.Strip.Check(), &ve)

	saved, err = Save(filepath.Join(dir, "short"), p)
	require.NoError(t, err)
	loaded, err = Load(saved)
	require.NoError(t, err)
	assert.Equal(t, p.ID, loaded.ID)
	assert.Equal(t, 4.0, loaded.Strip.Height())
	assert.Equal(t, p.Strip.Document(), loaded.Strip.Document())
	assert.NotEmpty(t, loaded.Strip.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.jlp"))
	var ioErr *model.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoadRejectsForeignDocuments(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"other app":   `{"version":"1.0","application":"PatchBay Pro","label_strip":{}}`,
		"no version":  `{"application":"Jackfield Labeler","label_strip":{}}`,
		"version 2":   `{"version":"2.0","application":"Jackfield Labeler","label_strip":{}}`,
		"no strip":    `{"version":"1.0","application":"Jackfield Labeler"}`,
		"not json":    `{{{`,
		"bad segment": `{"version":"1.0","application":"Jackfield Labeler","label_strip":{"segments":[{"type":"side"}]}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".jlp")
			require.NoError(t, os.WriteFile(path, []byte(body), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	path := filepath.Join(dir, "other.jlp")
	require.NoError(t, os.WriteFile(path, []byte(tests["other app"]), 0644))
	_, err := Load(path)
	assert.True(t, errors.Is(err, ErrNotProject))
}

func TestLoadOlderMinorVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.jlp")
	body := `{"version":"1.3","application":"Jackfield Labeler","label_strip":{"height":8,"content_cell_width":9,
		"segments":[{"id":"1","type":"content","text":"A","width":9},{"id":"L_END","type":"end","width":5,"text":"Z"}]}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 8.0, p.Strip.Height())
	assert.InDelta(t, 14.0, p.Strip.TotalWidth(), 1e-9)
	end, ok := p.Strip.EndSegment()
	require.True(t, ok)
	assert.Equal(t, "Z", end.Text)
}

func TestReadInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "info.jlp")
	_, err := Save(path, buildTestProject(t))
	require.NoError(t, err)

	info, err := ReadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", info.Version)
	assert.Equal(t, ApplicationName, info.Application)
	assert.Equal(t, 7.0, info.StripHeight)
	assert.Equal(t, 12.0, info.ContentCellWidth)
	assert.Equal(t, 4, info.SegmentCount)
	assert.Greater(t, info.FileSize, int64(0))
	assert.False(t, info.ModTime.IsZero())
}

func TestReadInfoUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.jlp")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0644))

	info, err := ReadInfo(path)
	require.NoError(t, err)
	assert.Equal(t, "Unknown", info.Version)
	assert.Zero(t, info.SegmentCount)
}

func TestIsProjectFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.jlp")
	_, err := Save(good, buildTestProject(t))
	require.NoError(t, err)
	assert.True(t, IsProjectFile(good))

	wrongExt := filepath.Join(dir, "good.json")
	data, err := os.ReadFile(good)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(wrongExt, data, 0644))
	assert.False(t, IsProjectFile(wrongExt))

	assert.False(t, IsProjectFile(filepath.Join(dir, "missing.jlp")))
}
