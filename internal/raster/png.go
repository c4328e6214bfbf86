package raster

import (
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/piwi3910/jackfield-labeler/internal/model"
)

// EncodePNG writes img to w as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// ExportPNG renders strip at dpi (scale 1) and saves it to path.
func ExportPNG(path string, strip *model.LabelStrip, dpi float64) error {
	img, err := RenderToBuffer(strip, dpi, DefaultScale)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	f, err := os.Create(path)
	if err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	if err := EncodePNG(f, img); err != nil {
		f.Close()
		return &model.IOError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &model.IOError{Path: path, Err: err}
	}
	return nil
}
