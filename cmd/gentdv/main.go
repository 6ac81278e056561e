// Command gentdv writes synthetic NOAA-style TDV observation files, one per
// state, and prints the aggregate statistics the climate command should
// report for them. It runs the generated lines through the real domain
// parser and aggregator so the printed numbers match pipeline behavior.
//
// Usage:
//
//	go run ./cmd/gentdv -states TN,WA -records 500 -seed 7 -out-dir data/mock
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/climate-report/internal/domain"
)

const geohashAlphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

// stateProfile holds the climate parameters used to draw readings for one state.
type stateProfile struct {
	geohashPrefix string
	meanKelvin    float64
	spreadKelvin  float64
	snowChance    float64
}

var profiles = map[string]stateProfile{
	"CA": {geohashPrefix: "9q", meanKelvin: 290, spreadKelvin: 10, snowChance: 0.01},
	"TN": {geohashPrefix: "dn", meanKelvin: 288, spreadKelvin: 14, snowChance: 0.02},
	"WA": {geohashPrefix: "c2", meanKelvin: 284, spreadKelvin: 16, snowChance: 0.05},
}

var defaultProfile = stateProfile{geohashPrefix: "9z", meanKelvin: 286, spreadKelvin: 15, snowChance: 0.03}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	states := flag.String("states", "TN,WA", "comma-separated state codes to generate")
	records := flag.Int("records", 100, "records per state")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	start := flag.String("start", "2015-01-01", "first observation date (YYYY-MM-DD, UTC)")
	outDir := flag.String("out-dir", "", "directory for the generated data_<state>.tdv files")
	flag.Parse()

	if *outDir == "" || *records <= 0 {
		flag.Usage()
		return fmt.Errorf("missing required flags: -out-dir and a positive -records")
	}

	startTime, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return fmt.Errorf("parse -start: %w", err)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	r := rand.New(rand.NewPCG(*seed, *seed^0x9e3779b97f4a7c15))
	agg := domain.NewAggregator(0)

	for _, code := range parseStates(*states) {
		lines := generateLines(r, code, startTime, *records)
		path := filepath.Join(*outDir, "data_"+strings.ToLower(code)+".tdv")
		if err := writeLines(path, lines); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Printf("%s: %d records -> %s", code, len(lines), path)

		for _, line := range lines {
			obs, err := domain.ParseLine(line, domain.Strict)
			if err != nil {
				return fmt.Errorf("generated line does not parse: %w", err)
			}
			if err := agg.Fold(obs); err != nil {
				return err
			}
		}
	}

	printStats(agg.All())
	return nil
}

func parseStates(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToUpper(strings.TrimSpace(part))
		if len(part) == 2 {
			out = append(out, part)
		}
	}
	return out
}

// generateLines draws n hourly observations for one state starting at start.
func generateLines(r *rand.Rand, state string, start time.Time, n int) []string {
	p, ok := profiles[state]
	if !ok {
		p = defaultProfile
	}

	lines := make([]string, 0, n)
	for i := range n {
		ts := start.Add(time.Duration(i) * time.Hour)
		lines = append(lines, formatLine(state, ts, observation(r, p)))
	}
	return lines
}

type reading struct {
	geohash   string
	humidity  float64
	snow      float64
	cloud     float64
	lightning float64
	pressure  float64
	kelvin    float64
}

func observation(r *rand.Rand, p stateProfile) reading {
	rd := reading{
		geohash:  p.geohashPrefix + randomGeohash(r, 10),
		humidity: float64(r.IntN(101)),
		cloud:    float64(r.IntN(101)),
		pressure: float64(95000 + r.IntN(8000)),
		kelvin:   p.meanKelvin + (r.Float64()*2-1)*p.spreadKelvin,
	}
	if r.Float64() < p.snowChance {
		rd.snow = 1
	}
	if r.Float64() < 0.04 {
		rd.lightning = 1
	}
	return rd
}

func randomGeohash(r *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(geohashAlphabet[r.IntN(len(geohashAlphabet))])
	}
	return b.String()
}

func formatLine(state string, ts time.Time, rd reading) string {
	return fmt.Sprintf("%s\t%d\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.5f",
		state, ts.UnixMilli(), rd.geohash, rd.humidity, rd.snow, rd.cloud, rd.lightning, rd.pressure, rd.kelvin)
}

func writeLines(path string, lines []string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func printStats(aggs []domain.Aggregate) {
	fmt.Println("\n=== Stats for updating test assertions ===")
	for _, a := range aggs {
		fmt.Printf("%s: records=%d avg_humidity=%.1f avg_temp=%.1f max=%.1f@%d min=%.1f@%d lightning=%d snow=%d avg_cloud=%.1f\n",
			a.Code, a.Records, a.AverageHumidity(), a.AverageTemperature(),
			a.MaxTemperature, a.MaxTemperatureAt.Unix(),
			a.MinTemperature, a.MinTemperatureAt.Unix(),
			a.LightningCount, a.SnowCount, a.AverageCloudCover())
	}
}
