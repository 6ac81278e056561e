package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrTooManyDistinctKeys reports a new state code arriving after the
// aggregator's capacity has been reached.
var ErrTooManyDistinctKeys = errors.New("too many distinct state codes")

// Aggregate is the running accumulator for one state code.
type Aggregate struct {
	Code           string
	Records        int
	HumiditySum    float64
	CloudCoverSum  float64
	PressureSum    float64
	TemperatureSum float64
	LightningCount int
	SnowCount      int

	MaxTemperature   float64
	MaxTemperatureAt time.Time
	MinTemperature   float64
	MinTemperatureAt time.Time
}

// newAggregate seeds an aggregate from its first observation.
func newAggregate(obs Observation) *Aggregate {
	return &Aggregate{
		Code:             obs.State,
		Records:          1,
		HumiditySum:      obs.Humidity,
		CloudCoverSum:    obs.CloudCover,
		PressureSum:      obs.Pressure,
		TemperatureSum:   obs.Temperature,
		LightningCount:   int(obs.Lightning),
		SnowCount:        int(obs.Snow),
		MaxTemperature:   obs.Temperature,
		MaxTemperatureAt: obs.Timestamp,
		MinTemperature:   obs.Temperature,
		MinTemperatureAt: obs.Timestamp,
	}
}

// fold merges one observation into the aggregate. Equal extremes replace the
// stored value so the latest timestamp wins.
func (a *Aggregate) fold(obs Observation) {
	a.Records++
	a.HumiditySum += obs.Humidity
	a.CloudCoverSum += obs.CloudCover
	a.PressureSum += obs.Pressure
	a.TemperatureSum += obs.Temperature
	a.LightningCount += int(obs.Lightning)
	a.SnowCount += int(obs.Snow)

	if obs.Temperature >= a.MaxTemperature {
		a.MaxTemperature = obs.Temperature
		a.MaxTemperatureAt = obs.Timestamp
	}
	if obs.Temperature <= a.MinTemperature {
		a.MinTemperature = obs.Temperature
		a.MinTemperatureAt = obs.Timestamp
	}
}

// AverageHumidity returns the mean humidity percentage.
func (a Aggregate) AverageHumidity() float64 { return a.HumiditySum / float64(a.Records) }

// AverageTemperature returns the mean temperature in Fahrenheit.
func (a Aggregate) AverageTemperature() float64 { return a.TemperatureSum / float64(a.Records) }

// AverageCloudCover returns the mean cloud cover percentage.
func (a Aggregate) AverageCloudCover() float64 { return a.CloudCoverSum / float64(a.Records) }

// AveragePressure returns the mean pressure in pascals.
func (a Aggregate) AveragePressure() float64 { return a.PressureSum / float64(a.Records) }

// Aggregator owns the per-state aggregates for one run. It is not safe for
// concurrent use.
type Aggregator struct {
	capacity int
	byCode   map[string]*Aggregate
	order    []string
}

// NewAggregator creates an empty aggregator. A capacity of zero or less means
// no limit on distinct state codes.
func NewAggregator(capacity int) *Aggregator {
	return &Aggregator{
		capacity: capacity,
		byCode:   make(map[string]*Aggregate),
	}
}

// Fold merges obs into the aggregate for its state code, creating it on first
// sighting. It fails only when a new code would exceed the capacity.
func (g *Aggregator) Fold(obs Observation) error {
	if a, ok := g.byCode[obs.State]; ok {
		a.fold(obs)
		return nil
	}
	if g.capacity > 0 && len(g.order) >= g.capacity {
		return fmt.Errorf("%w: %q exceeds limit of %d", ErrTooManyDistinctKeys, obs.State, g.capacity)
	}
	g.byCode[obs.State] = newAggregate(obs)
	g.order = append(g.order, obs.State)
	return nil
}

// All returns copies of every aggregate in first-sighting order.
func (g *Aggregator) All() []Aggregate {
	out := make([]Aggregate, 0, len(g.order))
	for _, code := range g.order {
		out = append(out, *g.byCode[code])
	}
	return out
}

// Get returns a copy of the aggregate for code.
func (g *Aggregator) Get(code string) (Aggregate, bool) {
	a, ok := g.byCode[code]
	if !ok {
		return Aggregate{}, false
	}
	return *a, true
}

// Len returns the number of distinct state codes seen.
func (g *Aggregator) Len() int {
	return len(g.order)
}
