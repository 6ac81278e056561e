package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FieldCount is the number of fields in a TDV observation record.
const FieldCount = 9

var (
	// ErrMalformedLine reports a line that does not split into the expected fields.
	ErrMalformedLine = errors.New("malformed line")

	// ErrMalformedNumericField reports non-numeric text in a numeric field (strict mode only).
	ErrMalformedNumericField = errors.New("malformed numeric field")
)

// NumericMode selects how non-numeric text in numeric fields is handled.
type NumericMode int

const (
	// Lenient substitutes zero for fields that fail to parse.
	Lenient NumericMode = iota
	// Strict rejects the whole line.
	Strict
)

// Observation is one parsed TDV record.
type Observation struct {
	State       string
	Timestamp   time.Time
	Humidity    float64
	Snow        float64
	CloudCover  float64
	Lightning   float64
	Pressure    float64
	Temperature float64 // Fahrenheit
}

// field names, indexed by position, for error messages.
var fieldNames = [FieldCount]string{
	"state", "timestamp", "geohash", "humidity", "snow",
	"cloud_cover", "lightning", "pressure", "temperature",
}

// ParseLine parses a single TDV record. The trailing newline may be present.
func ParseLine(line string, mode NumericMode) (Observation, error) {
	fields := splitFields(line)
	if len(fields) < FieldCount {
		return Observation{}, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedLine, FieldCount, len(fields))
	}
	if len(fields[0]) < 2 {
		return Observation{}, fmt.Errorf("%w: state code %q too short", ErrMalformedLine, fields[0])
	}

	p := numberParser{mode: mode}
	ms := p.millis(fields[1])
	obs := Observation{
		State:       fields[0][:2],
		Timestamp:   time.Unix(ms/1000, 0),
		Humidity:    p.float(fields, 3),
		Snow:        p.float(fields, 4),
		CloudCover:  p.float(fields, 5),
		Lightning:   p.float(fields, 6),
		Pressure:    p.float(fields, 7),
		Temperature: KelvinToFahrenheit(p.float(fields, 8)),
	}
	if p.err != nil {
		return Observation{}, p.err
	}
	return obs, nil
}

// KelvinToFahrenheit converts a Kelvin reading to degrees Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return k*9/5 - 459.67
}

// splitFields tokenizes on tab, newline and carriage return. Runs of
// delimiters collapse and at most FieldCount tokens are returned.
func splitFields(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) > FieldCount {
		fields = fields[:FieldCount]
	}
	return fields
}

// numberParser parses numeric fields, remembering the first failure in strict mode.
type numberParser struct {
	mode NumericMode
	err  error
}

func (p *numberParser) float(fields []string, i int) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
	if err != nil || !finite(v) {
		p.fail(i, fields[i])
		return 0
	}
	return v
}

// millis parses an epoch-millisecond timestamp. Integer text is preferred;
// float text (e.g. "1.4227704e+12") is truncated.
func (p *numberParser) millis(s string) int64 {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(v) {
		p.fail(1, s)
		return 0
	}
	return int64(v)
}

// finite rejects the NaN and Inf spellings strconv accepts.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (p *numberParser) fail(i int, raw string) {
	if p.mode != Strict || p.err != nil {
		return
	}
	p.err = fmt.Errorf("%w: %s=%q", ErrMalformedNumericField, fieldNames[i], raw)
}
