// Package report renders state summaries for the console.
package report

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/couchcryptid/climate-report/internal/domain"
)

// Format selects the report layout.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Writer renders summaries in a fixed format and time zone.
type Writer struct {
	format Format
	loc    *time.Location
}

// NewWriter creates a report Writer. A nil location means time.Local.
func NewWriter(format Format, loc *time.Location) *Writer {
	if loc == nil {
		loc = time.Local
	}
	return &Writer{format: format, loc: loc}
}

// Write renders summaries to w.
func (r *Writer) Write(w io.Writer, summaries []domain.StateSummary) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, summaries)
	case FormatText, "":
		return r.writeText(w, summaries)
	default:
		return fmt.Errorf("unknown report format %q", r.format)
	}
}

// writeText prints the states-found line followed by one block per state.
// Timestamps use the ctime layout.
func (r *Writer) writeText(w io.Writer, summaries []domain.StateSummary) error {
	bw := bufio.NewWriter(w)

	codes := make([]string, len(summaries))
	for i, s := range summaries {
		codes[i] = s.State
	}
	fmt.Fprintf(bw, "States found: %s\n", strings.Join(codes, " "))

	for _, s := range summaries {
		fmt.Fprintf(bw, "-- State: %s --\n", s.State)
		fmt.Fprintf(bw, "Number of Records: %d\n", s.Records)
		fmt.Fprintf(bw, "Average Humidity: %.1f%%\n", s.AverageHumidity)
		fmt.Fprintf(bw, "Average Temperature: %.1fF\n", s.AverageTemperature)
		fmt.Fprintf(bw, "Max Temperature: %.1fF\n", s.MaxTemperature)
		fmt.Fprintf(bw, "Max Temperature on: %s\n", r.ctime(s.MaxTemperatureAt))
		fmt.Fprintf(bw, "Min Temperature: %.1fF\n", s.MinTemperature)
		fmt.Fprintf(bw, "Min Temperature on: %s\n", r.ctime(s.MinTemperatureAt))
		fmt.Fprintf(bw, "Lightning Strikes: %d\n", s.LightningStrikes)
		fmt.Fprintf(bw, "Records with Snow Cover: %d\n", s.SnowRecords)
		fmt.Fprintf(bw, "Average Cloud Cover: %.1f%%\n", s.AverageCloudCover)
	}

	return bw.Flush()
}

func (r *Writer) ctime(t time.Time) string {
	return t.In(r.loc).Format(time.ANSIC)
}

func writeJSON(w io.Writer, summaries []domain.StateSummary) error {
	if summaries == nil {
		summaries = []domain.StateSummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summaries); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
