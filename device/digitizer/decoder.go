package digitizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chartmeasure/event"
	"chartmeasure/geom"

	"github.com/bytedance/sonic"
)

// ErrSkip is returned by ParseLine for blank and comment lines.
var ErrSkip = errors.New("no event on line")

// LineError is a line that could not be decoded. Reading can continue.
type LineError struct {
	Line string
	Err  error
}

func (e *LineError) Error() string { return fmt.Sprintf("bad line %q: %v", e.Line, e.Err) }

func (e *LineError) Unwrap() error { return e.Err }

// Decoder reads newline-delimited events from an io.Reader.
//
// A line is either a JSON object with a "type" field:
//
//	{"type":"point","x":120.5,"y":88}
//	{"type":"mode","mode":"measure"}
//	{"type":"scale","nm":10}
//	{"type":"variance","deg":-4.5}
//	{"type":"delete","id":3}
//	{"type":"cancel-scale"} {"type":"clear-variance"} {"type":"reset"}
//	{"type":"clear"} {"type":"escape"}
//
// or a bare point "x,y" / "x y" as sent by simple digitizer tablets.
// Blank lines and lines starting with # are ignored.
type Decoder struct {
	r *bufio.Reader
}

// NewDecoder creates a new event decoder
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// ReadEvent returns the next event. A line that fails to parse returns a
// *LineError and the caller may keep reading. I/O errors (including io.EOF)
// are returned as is.
func (d *Decoder) ReadEvent() (*event.Event, error) {
	for {
		line, err := d.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return nil, err
		}

		ev, perr := ParseLine(line)
		if perr == ErrSkip {
			if err == io.EOF {
				return nil, io.EOF
			}
			continue
		}
		if perr != nil {
			return nil, &LineError{Line: strings.TrimSpace(line), Err: perr}
		}
		return ev, nil
	}
}

// frame is the JSON shape of a line
type frame struct {
	Type string   `json:"type"`
	X    *float64 `json:"x"`
	Y    *float64 `json:"y"`
	Mode string   `json:"mode"`
	NM   *float64 `json:"nm"`
	Deg  *float64 `json:"deg"`
	ID   *int     `json:"id"`
}

// ParseLine decodes a single line.
func ParseLine(line string) (*event.Event, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, ErrSkip
	}
	if strings.HasPrefix(line, "{") {
		return parseFrame(line)
	}
	return parsePoint(line)
}

func parseFrame(line string) (*event.Event, error) {
	var f frame
	if err := sonic.UnmarshalString(line, &f); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	switch f.Type {
	case "point":
		if f.X == nil || f.Y == nil {
			return nil, fmt.Errorf("point needs x and y")
		}
		return &event.Event{Type: event.TypePoint, Point: geom.Point{X: *f.X, Y: *f.Y}}, nil
	case "mode":
		return &event.Event{Type: event.TypeMode, Mode: f.Mode}, nil
	case "scale":
		if f.NM == nil {
			return nil, fmt.Errorf("scale needs nm")
		}
		return &event.Event{Type: event.TypeScaleDistance, NM: *f.NM}, nil
	case "variance":
		if f.Deg == nil {
			return nil, fmt.Errorf("variance needs deg")
		}
		return &event.Event{Type: event.TypeVariance, Degrees: *f.Deg}, nil
	case "delete":
		if f.ID == nil {
			return nil, fmt.Errorf("delete needs id")
		}
		return &event.Event{Type: event.TypeDelete, ID: *f.ID}, nil
	case "cancel-scale":
		return &event.Event{Type: event.TypeCancelScale}, nil
	case "clear-variance":
		return &event.Event{Type: event.TypeClearVariance}, nil
	case "reset":
		return &event.Event{Type: event.TypeReset}, nil
	case "clear":
		return &event.Event{Type: event.TypeClear}, nil
	case "escape":
		return &event.Event{Type: event.TypeEscape}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", f.Type)
}

func parsePoint(line string) (*event.Event, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == ';'
	})
	if len(fields) != 2 {
		return nil, fmt.Errorf("expected \"x,y\", got %d fields", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return nil, fmt.Errorf("x: %w", err)
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, fmt.Errorf("y: %w", err)
	}
	return &event.Event{Type: event.TypePoint, Point: geom.Point{X: x, Y: y}}, nil
}
