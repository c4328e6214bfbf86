// Package fonts is the set of typefaces both renderers draw with. The PDF
// embeds the same Go fonts the raster preview rasterizes, so a label
// prints with exactly the glyphs it previews with.
package fonts

import (
	"fmt"
	"strings"
	"sync"

	"github.com/piwi3910/jackfield-labeler/internal/model"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Names are the font names a strip may ask for.
var Names = []string{"Arial", "Helvetica", "Times New Roman", "Courier New"}

// known maps lower-cased names to whether they want a fixed-pitch face.
var known = map[string]bool{
	"arial":           false,
	"helvetica":       false,
	"times":           false,
	"times new roman": false,
	"courier":         true,
	"courier new":     true,
}

// Style picks one of the eight embedded faces.
type Style struct {
	Mono   bool
	Format model.TextFormat
}

var sources = map[Style][]byte{
	{false, model.FormatNormal}:     goregular.TTF,
	{false, model.FormatBold}:       gobold.TTF,
	{false, model.FormatItalic}:     goitalic.TTF,
	{false, model.FormatBoldItalic}: gobolditalic.TTF,
	{true, model.FormatNormal}:      gomono.TTF,
	{true, model.FormatBold}:        gomonobold.TTF,
	{true, model.FormatItalic}:      gomonoitalic.TTF,
	{true, model.FormatBoldItalic}:  gomonobolditalic.TTF,
}

var (
	parseOnce sync.Once
	parsed    map[Style]*opentype.Font
	parseErr  error
)

// Supported reports whether name is one of the known font names.
func Supported(name string) bool {
	_, ok := known[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// IsMono reports whether a font name asks for a fixed-pitch face. Unknown
// names containing "mono" count as fixed pitch too.
func IsMono(name string) bool {
	n := strings.ToLower(strings.TrimSpace(name))
	if mono, ok := known[n]; ok {
		return mono
	}
	return strings.Contains(n, "courier") || strings.Contains(n, "mono")
}

// StyleFor returns the face for a font name and text format.
func StyleFor(name string, format model.TextFormat) Style {
	return Style{Mono: IsMono(name), Format: format}
}

// Family is the name the face is registered under in a PDF.
func (s Style) Family() string {
	if s.Mono {
		return "gomono"
	}
	return "gosans"
}

// TTF returns the raw TrueType data.
func (s Style) TTF() []byte { return sources[s] }

// Font returns the parsed face. Parsing happens once per process.
func (s Style) Font() (*opentype.Font, error) {
	parseOnce.Do(func() {
		parsed = make(map[Style]*opentype.Font, len(sources))
		for k, src := range sources {
			f, err := opentype.Parse(src)
			if err != nil {
				parseErr = fmt.Errorf("parse built-in font: %w", err)
				return
			}
			parsed[k] = f
		}
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return parsed[s], nil
}

// MissingRune returns the first rune of text the face has no glyph for.
func (s Style) MissingRune(text string) (rune, bool, error) {
	f, err := s.Font()
	if err != nil {
		return 0, false, err
	}
	var buf sfnt.Buffer
	for _, r := range text {
		idx, err := f.GlyphIndex(&buf, r)
		if err != nil {
			return 0, false, err
		}
		if idx == 0 {
			return r, true, nil
		}
	}
	return 0, false, nil
}

// CheckSegments returns an error naming the first segment whose text
// cannot be drawn with fontName.
func CheckSegments(fontName string, segments []model.Segment) error {
	for _, seg := range segments {
		r, missing, err := StyleFor(fontName, seg.Format).MissingRune(seg.Text)
		if err != nil {
			return err
		}
		if missing {
			return fmt.Errorf("segment %s: character %q (U+%04X) is not available in the label font", seg.ID, r, r)
		}
	}
	return nil
}
