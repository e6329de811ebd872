package results

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// DefaultHeaderMarker is the first byte of a group header line as written by
// the pmaxcut experiment driver ("Folder ..." and "FQty ...").
const DefaultHeaderMarker = 'F'

// Record is one parsed group of trials.
type Record struct {
	Name string    `json:"name"`
	P    string    `json:"p"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
	Z    []float64 `json:"z"`
}

// Len returns the number of trials in the record.
func (r Record) Len() int { return len(r.X) }

// ParseOptions controls how result files are read.
type ParseOptions struct {
	// HeaderMarker starts a new group when it is the first byte of a line.
	// If 0, DefaultHeaderMarker is used.
	HeaderMarker byte
}

// DefaultParseOptions returns the options matching the experiment driver output.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{HeaderMarker: DefaultHeaderMarker}
}

// ParseError reports a malformed line.
type ParseError struct {
	Line   int
	Text   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %q: %v", e.Line, e.Reason, e.Text, e.Err)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrFieldCount is wrapped by ParseError when a line has the wrong number of fields.
var ErrFieldCount = errors.New("unexpected field count")

// ParseFile opens path and parses it. The file is closed before returning.
func ParseFile(path string, opt ParseOptions) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results: %w", err)
	}
	defer f.Close()
	recs, err := Parse(f, opt)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return recs, nil
}

// Parse reads header and trial lines from r and returns one Record per header,
// in input order. Trial lines that appear before the first header are parsed
// but not returned.
func Parse(r io.Reader, opt ParseOptions) ([]Record, error) {
	marker := opt.HeaderMarker
	if marker == 0 {
		marker = DefaultHeaderMarker
	}
	var (
		out []Record
		cur Record
		// preamble is true until the first real header is seen
		preamble = true
	)
	flush := func() {
		if !preamble {
			out = append(out, cur)
		}
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if len(line) > 0 && line[0] == marker {
			flush()
			name, p, err := parseHeader(line)
			if err != nil {
				return nil, &ParseError{Line: n, Text: line, Reason: "bad header", Err: err}
			}
			cur = Record{Name: name, P: p, X: []float64{}, Y: []float64{}, Z: []float64{}}
			preamble = false
			continue
		}
		x, y, z, err := parseTrial(line)
		if err != nil {
			return nil, &ParseError{Line: n, Text: line, Reason: "bad trial line", Err: err}
		}
		cur.X = append(cur.X, x)
		cur.Y = append(cur.Y, y)
		cur.Z = append(cur.Z, z)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read line %d: %w", n+1, err)
	}
	// end of input acts as the closing header for the last group
	flush()
	return out, nil
}

func parseHeader(line string) (name, p string, err error) {
	// the name is taken from a single-space split, the parameter from a
	// whitespace split, matching the driver's "Folder <path> <p> ..." layout
	sp := strings.Split(line, " ")
	fields := strings.Fields(line)
	if len(sp) < 2 || len(fields) < 3 {
		return "", "", fmt.Errorf("%w: want at least 3, got %d", ErrFieldCount, len(fields))
	}
	path := sp[1]
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path, fields[2], nil
}

func parseTrial(line string) (x, y, z float64, err error) {
	fields := strings.Fields(line)
	if len(fields) != 4 {
		return 0, 0, 0, fmt.Errorf("%w: want 4, got %d", ErrFieldCount, len(fields))
	}
	var vals [3]float64
	for i, s := range fields[1:] {
		v, perr := strconv.ParseFloat(s, 64)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("field %d: %w", i+2, perr)
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}
