package domain

import "time"

// StateSummary is the reporting form of an Aggregate, with averages resolved.
type StateSummary struct {
	State              string    `json:"state"`
	Records            int       `json:"records"`
	AverageHumidity    float64   `json:"average_humidity"`
	AverageTemperature float64   `json:"average_temperature"`
	AverageCloudCover  float64   `json:"average_cloud_cover"`
	AveragePressure    float64   `json:"average_pressure"`
	MaxTemperature     float64   `json:"max_temperature"`
	MaxTemperatureAt   time.Time `json:"max_temperature_at"`
	MinTemperature     float64   `json:"min_temperature"`
	MinTemperatureAt   time.Time `json:"min_temperature_at"`
	LightningStrikes   int       `json:"lightning_strikes"`
	SnowRecords        int       `json:"snow_records"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// Summarize resolves an aggregate into a StateSummary stamped with the current clock time.
func Summarize(a Aggregate) StateSummary {
	return summarizeAt(a, clock.Now())
}

// SummarizeAll summarizes each aggregate, preserving order. All summaries
// share one GeneratedAt timestamp.
func SummarizeAll(aggs []Aggregate) []StateSummary {
	now := clock.Now()
	out := make([]StateSummary, len(aggs))
	for i, a := range aggs {
		out[i] = summarizeAt(a, now)
	}
	return out
}

func summarizeAt(a Aggregate, now time.Time) StateSummary {
	return StateSummary{
		State:              a.Code,
		Records:            a.Records,
		AverageHumidity:    a.AverageHumidity(),
		AverageTemperature: a.AverageTemperature(),
		AverageCloudCover:  a.AverageCloudCover(),
		AveragePressure:    a.AveragePressure(),
		MaxTemperature:     a.MaxTemperature,
		MaxTemperatureAt:   a.MaxTemperatureAt.UTC(),
		MinTemperature:     a.MinTemperature,
		MinTemperatureAt:   a.MinTemperatureAt.UTC(),
		LightningStrikes:   a.LightningCount,
		SnowRecords:        a.SnowCount,
		GeneratedAt:        now.UTC(),
	}
}
