package model

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Strip size limits in mm.
const (
	MinHeight = 5.0
	MaxHeight = 12.0
	MaxWidth  = 500.0

	DefaultHeight    = 5.0
	DefaultCellWidth = 10.0
)

// Change names the part of a strip a mutation touched.
type Change int

const (
	ChangeSegments   Change = iota // segments added, removed or resized
	ChangeStyle                    // text, colors or format of one segment
	ChangeSettings                 // page or default-style settings
	ChangeDimensions               // strip height
	ChangeReplaced                 // whole strip reloaded
)

func (c Change) String() string {
	switch c {
	case ChangeSegments:
		return "segments"
	case ChangeStyle:
		return "style"
	case ChangeSettings:
		return "settings"
	case ChangeDimensions:
		return "dimensions"
	default:
		return "replaced"
	}
}

type observer struct {
	id int
	fn func(Change)
}

// LabelStrip is a complete label design: optional start and end segments
// around a run of equally wide content cells.
//
// A LabelStrip is not safe for concurrent use. Renderers take a Snapshot.
type LabelStrip struct {
	height    float64
	cellWidth float64
	start     *Segment
	content   []Segment
	end       *Segment
	settings  StripSettings

	observers []observer
	nextObsID int
}

// NewLabelStrip returns an empty 5 mm strip with 10 mm cells and default settings.
func NewLabelStrip() *LabelStrip {
	return &LabelStrip{
		height:    DefaultHeight,
		cellWidth: DefaultCellWidth,
		settings:  DefaultStripSettings(),
	}
}

// Subscribe registers fn to run synchronously after every mutation.
// The returned function removes the subscription.
func (s *LabelStrip) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.nextObsID++
	id := s.nextObsID
	s.observers = append(s.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range s.observers {
			if o.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

func (s *LabelStrip) notify(c Change) {
	obs := append([]observer(nil), s.observers...)
	for _, o := range obs {
		o.fn(c)
	}
}

func (s *LabelStrip) Height() float64           { return s.height }
func (s *LabelStrip) ContentCellWidth() float64 { return s.cellWidth }
func (s *LabelStrip) ContentCount() int         { return len(s.content) }
func (s *LabelStrip) Settings() StripSettings   { return s.settings }

// SetHeight stores h unchanged. Range violations are reported by Validate.
func (s *LabelStrip) SetHeight(h float64) error {
	if math.IsNaN(h) || math.IsInf(h, 0) {
		return fmt.Errorf("strip height %g: %w", h, ErrInvalidArgument)
	}
	s.height = h
	s.notify(ChangeDimensions)
	return nil
}

// SetContentCellWidth applies w (rounded to 3 decimals) to every content cell.
func (s *LabelStrip) SetContentCellWidth(w float64) error {
	if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("content cell width %g must be positive: %w", w, ErrInvalidArgument)
	}
	s.cellWidth = roundMM(w)
	for i := range s.content {
		s.content[i].Width = s.cellWidth
	}
	s.notify(ChangeSegments)
	return nil
}

// SetContentSegmentCount grows or truncates the content run to n cells.
// New cells take their style from settings. Every cell is renumbered so
// IDs read "1".."n".
func (s *LabelStrip) SetContentSegmentCount(n int) error {
	return s.ReplaceContent(n, nil)
}

// ReplaceContent resizes the content run to n cells like
// SetContentSegmentCount, then passes each cell's style to fn. Observers
// hear about it once.
func (s *LabelStrip) ReplaceContent(n int, fn func(i int, st *SegmentStyle)) error {
	if n < 0 {
		return fmt.Errorf("content segment count %d: %w", n, ErrInvalidArgument)
	}
	s.content = resizeContent(s.content, n, s.cellWidth, s.settings)
	if fn != nil {
		for i := range s.content {
			fn(i, &s.content[i].SegmentStyle)
		}
	}
	s.notify(ChangeSegments)
	return nil
}

func resizeContent(cells []Segment, n int, width float64, settings StripSettings) []Segment {
	if n < len(cells) {
		cells = cells[:n:n]
	}
	for len(cells) < n {
		cells = append(cells, Segment{
			Kind:         KindContent,
			Width:        width,
			SegmentStyle: settings.DefaultStyle(""),
		})
	}
	for i := range cells {
		cells[i].ID = strconv.Itoa(i + 1)
	}
	return cells
}

// SetStartSegment creates, updates or (width 0) removes the start segment.
// An existing segment keeps its colors and format. The result is nil when
// the segment is absent.
func (s *LabelStrip) SetStartSegment(width float64, text string) (*Segment, error) {
	seg, err := s.setEdge(&s.start, KindStart, StartSegmentID, width, text)
	if err != nil {
		return nil, err
	}
	s.notify(ChangeSegments)
	return seg, nil
}

// SetEndSegment mirrors SetStartSegment for the trailing segment.
func (s *LabelStrip) SetEndSegment(width float64, text string) (*Segment, error) {
	seg, err := s.setEdge(&s.end, KindEnd, EndSegmentID, width, text)
	if err != nil {
		return nil, err
	}
	s.notify(ChangeSegments)
	return seg, nil
}

func (s *LabelStrip) setEdge(slot **Segment, kind SegmentKind, id string, width float64, text string) (*Segment, error) {
	if width == 0 {
		*slot = nil
		return nil, nil
	}
	style := s.settings.DefaultStyle(text)
	if *slot != nil {
		style = (*slot).SegmentStyle
		style.Text = text
	}
	seg, err := NewSegment(kind, id, width, style)
	if err != nil {
		return nil, err
	}
	*slot = &seg
	out := seg
	return &out, nil
}

// StartSegment returns a copy of the start segment and whether it is present.
func (s *LabelStrip) StartSegment() (Segment, bool) {
	if s.start == nil {
		return Segment{}, false
	}
	return *s.start, true
}

// EndSegment returns a copy of the end segment and whether it is present.
func (s *LabelStrip) EndSegment() (Segment, bool) {
	if s.end == nil {
		return Segment{}, false
	}
	return *s.end, true
}

// ContentSegments returns a copy of the content cells in order.
func (s *LabelStrip) ContentSegments() []Segment {
	return append([]Segment(nil), s.content...)
}

// AllSegments returns the present segments in canonical order: start,
// content cells, end. Renderers must draw them in exactly this order.
func (s *LabelStrip) AllSegments() []Segment {
	out := make([]Segment, 0, len(s.content)+2)
	if s.start != nil && s.start.Present() {
		out = append(out, *s.start)
	}
	out = append(out, s.content...)
	if s.end != nil && s.end.Present() {
		out = append(out, *s.end)
	}
	return out
}

// TotalWidth sums the widths of all present segments.
func (s *LabelStrip) TotalWidth() float64 {
	total := 0.0
	for _, seg := range s.AllSegments() {
		total += seg.Width
	}
	return total
}

// SegmentByID finds a segment by its identifier.
func (s *LabelStrip) SegmentByID(id string) (Segment, bool) {
	if p := s.segmentPtr(id); p != nil {
		return *p, true
	}
	return Segment{}, false
}

func (s *LabelStrip) segmentPtr(id string) *Segment {
	switch {
	case s.start != nil && s.start.ID == id:
		return s.start
	case s.end != nil && s.end.ID == id:
		return s.end
	}
	for i := range s.content {
		if s.content[i].ID == id {
			return &s.content[i]
		}
	}
	return nil
}

// UpdateSegment edits the style of one segment. Width, kind and ID are not
// reachable through fn.
func (s *LabelStrip) UpdateSegment(id string, fn func(*SegmentStyle)) error {
	p := s.segmentPtr(id)
	if p == nil {
		return fmt.Errorf("segment %q not found: %w", id, ErrInvalidArgument)
	}
	fn(&p.SegmentStyle)
	s.notify(ChangeStyle)
	return nil
}

// UpdateSettings writes the settings through fn, then notifies observers.
// Existing segments keep their styles; new ones pick up the new defaults.
func (s *LabelStrip) UpdateSettings(fn func(*StripSettings)) {
	fn(&s.settings)
	s.notify(ChangeSettings)
}

// Validate returns every rule the strip currently breaks. It never stops at
// the first problem and never modifies the strip.
func (s *LabelStrip) Validate() []string {
	var problems []string
	if s.height < MinHeight {
		problems = append(problems, fmt.Sprintf("Strip height (%g mm) is below minimum (%g mm)", s.height, MinHeight))
	}
	if s.height > MaxHeight {
		problems = append(problems, fmt.Sprintf("Strip height (%g mm) exceeds maximum (%g mm)", s.height, MaxHeight))
	}
	if s.cellWidth <= 0 {
		problems = append(problems, "Content cell width must be positive")
	}
	for _, seg := range s.content {
		if seg.Width <= 0 {
			problems = append(problems, fmt.Sprintf("Content segment %s has non-positive width (%g mm)", seg.ID, seg.Width))
		}
	}
	if s.start != nil && s.start.Width < 0 {
		problems = append(problems, "Start segment width cannot be negative")
	}
	if s.end != nil && s.end.Width < 0 {
		problems = append(problems, "End segment width cannot be negative")
	}
	total := s.TotalWidth()
	if total > MaxWidth {
		problems = append(problems, fmt.Sprintf("Total strip width (%g mm) exceeds maximum (%g mm)", total, MaxWidth))
	}
	if total <= 0 {
		problems = append(problems, "Strip has zero or negative width")
	}
	problems = append(problems, s.settings.Validate()...)
	return problems
}

// Check wraps the Validate result in a *ValidationError, or returns nil.
func (s *LabelStrip) Check() error {
	if problems := s.Validate(); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Snapshot returns an independent deep copy with no subscribers. Callers
// mutating the strip from another goroutine must synchronise the call.
func (s *LabelStrip) Snapshot() *LabelStrip {
	c := &LabelStrip{
		height:    s.height,
		cellWidth: s.cellWidth,
		content:   append([]Segment(nil), s.content...),
		settings:  s.settings,
	}
	if s.start != nil {
		st := *s.start
		c.start = &st
	}
	if s.end != nil {
		e := *s.end
		c.end = &e
	}
	return c
}

// StripDocument is the persisted field-for-field form of a LabelStrip.
type StripDocument struct {
	Height           float64       `json:"height"`             // mm
	ContentCellWidth float64       `json:"content_cell_width"` // mm
	Segments         []Segment     `json:"segments"`
	Settings         StripSettings `json:"settings"`
}

// Document returns the persisted form of the strip.
func (s *LabelStrip) Document() StripDocument {
	segs := s.AllSegments()
	if segs == nil {
		segs = []Segment{}
	}
	return StripDocument{
		Height:           s.height,
		ContentCellWidth: s.cellWidth,
		Segments:         segs,
		Settings:         s.settings,
	}
}

// FromDocument rebuilds a strip. Content cells take the document's cell
// width and are renumbered in order.
func FromDocument(doc StripDocument) (*LabelStrip, error) {
	s := NewLabelStrip()
	if err := s.load(doc); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LabelStrip) load(doc StripDocument) error {
	if doc.ContentCellWidth <= 0 {
		return fmt.Errorf("content cell width %g must be positive: %w", doc.ContentCellWidth, ErrInvalidArgument)
	}
	var start, end *Segment
	var content []Segment
	for _, seg := range doc.Segments {
		switch seg.Kind {
		case KindStart:
			st, err := NewSegment(KindStart, StartSegmentID, seg.Width, seg.SegmentStyle)
			if err != nil {
				return err
			}
			start = nil
			if st.Width > 0 {
				start = &st
			}
		case KindEnd:
			e, err := NewSegment(KindEnd, EndSegmentID, seg.Width, seg.SegmentStyle)
			if err != nil {
				return err
			}
			end = nil
			if e.Width > 0 {
				end = &e
			}
		default:
			seg.Width = roundMM(doc.ContentCellWidth)
			content = append(content, seg)
		}
	}
	s.height = doc.Height
	s.cellWidth = roundMM(doc.ContentCellWidth)
	s.settings = doc.Settings
	s.start, s.end = start, end
	s.content = resizeContent(content, len(content), s.cellWidth, s.settings)
	return nil
}

func (s *LabelStrip) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Document())
}

// UnmarshalJSON replaces the strip contents. Missing fields take the same
// defaults as NewLabelStrip. Subscribers are kept and notified.
func (s *LabelStrip) UnmarshalJSON(data []byte) error {
	doc := StripDocument{
		Height:           DefaultHeight,
		ContentCellWidth: DefaultCellWidth,
		Settings:         DefaultStripSettings(),
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if err := s.load(doc); err != nil {
		return err
	}
	s.notify(ChangeReplaced)
	return nil
}
