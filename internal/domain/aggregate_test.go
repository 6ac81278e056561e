package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsAt(state string, unix int64, temp float64) Observation {
	return Observation{
		State:       state,
		Timestamp:   time.Unix(unix, 0),
		Humidity:    50,
		CloudCover:  25,
		Pressure:    101000,
		Temperature: temp,
	}
}

func TestAggregator_FoldCreatesOnFirstSighting(t *testing.T) {
	g := NewAggregator(0)
	obs := Observation{
		State:       "WA",
		Timestamp:   time.Unix(100, 0),
		Humidity:    61,
		Snow:        1,
		CloudCover:  40,
		Lightning:   1,
		Pressure:    99000,
		Temperature: 52.5,
	}

	require.NoError(t, g.Fold(obs))

	a, ok := g.Get("WA")
	require.True(t, ok)
	assert.Equal(t, Aggregate{
		Code:             "WA",
		Records:          1,
		HumiditySum:      61,
		CloudCoverSum:    40,
		PressureSum:      99000,
		TemperatureSum:   52.5,
		LightningCount:   1,
		SnowCount:        1,
		MaxTemperature:   52.5,
		MaxTemperatureAt: time.Unix(100, 0),
		MinTemperature:   52.5,
		MinTemperatureAt: time.Unix(100, 0),
	}, a)
}

func TestAggregator_RecordCountAndAverage(t *testing.T) {
	g := NewAggregator(0)
	temps := []float64{10.5, 20.25, -3.0, 44.0, 18.75}

	var sum float64
	for i, temp := range temps {
		require.NoError(t, g.Fold(obsAt("TN", int64(i), temp)))
		sum += temp
	}

	a, ok := g.Get("TN")
	require.True(t, ok)
	assert.Equal(t, len(temps), a.Records)
	assert.InDelta(t, sum/float64(len(temps)), a.AverageTemperature(), 1e-9)
	assert.InDelta(t, 50.0, a.AverageHumidity(), 1e-9)
	assert.InDelta(t, 25.0, a.AverageCloudCover(), 1e-9)
	assert.InDelta(t, 101000.0, a.AveragePressure(), 1e-9)
	assert.Equal(t, 44.0, a.MaxTemperature)
	assert.Equal(t, time.Unix(3, 0), a.MaxTemperatureAt)
	assert.Equal(t, -3.0, a.MinTemperature)
	assert.Equal(t, time.Unix(2, 0), a.MinTemperatureAt)
}

func TestAggregator_TiesGoToLastObservation(t *testing.T) {
	g := NewAggregator(0)

	require.NoError(t, g.Fold(obsAt("TN", 1, 50)))
	require.NoError(t, g.Fold(obsAt("TN", 2, 90)))
	require.NoError(t, g.Fold(obsAt("TN", 3, 10)))
	require.NoError(t, g.Fold(obsAt("TN", 4, 90)))
	require.NoError(t, g.Fold(obsAt("TN", 5, 10)))
	require.NoError(t, g.Fold(obsAt("TN", 6, 50)))

	a, _ := g.Get("TN")
	assert.Equal(t, 90.0, a.MaxTemperature)
	assert.Equal(t, time.Unix(4, 0), a.MaxTemperatureAt)
	assert.Equal(t, 10.0, a.MinTemperature)
	assert.Equal(t, time.Unix(5, 0), a.MinTemperatureAt)
}

func TestAggregator_SingleValueTiesOnBothExtremes(t *testing.T) {
	g := NewAggregator(0)

	require.NoError(t, g.Fold(obsAt("TN", 1, 32)))
	require.NoError(t, g.Fold(obsAt("TN", 2, 32)))

	a, _ := g.Get("TN")
	assert.Equal(t, time.Unix(2, 0), a.MaxTemperatureAt)
	assert.Equal(t, time.Unix(2, 0), a.MinTemperatureAt)
}

func TestAggregator_IndependentStates(t *testing.T) {
	g := NewAggregator(0)

	require.NoError(t, g.Fold(obsAt("TN", 1, 40)))
	before, _ := g.Get("TN")

	require.NoError(t, g.Fold(obsAt("WA", 2, 70)))
	require.NoError(t, g.Fold(obsAt("WA", 3, 10)))

	after, _ := g.Get("TN")
	assert.Equal(t, before, after)

	wa, _ := g.Get("WA")
	assert.Equal(t, 2, wa.Records)
	assert.Equal(t, 2, g.Len())
}

func TestAggregator_FoldIsNotIdempotent(t *testing.T) {
	g := NewAggregator(0)
	obs := Observation{State: "TN", Humidity: 20, Snow: 1, Lightning: 1, Temperature: 30}

	require.NoError(t, g.Fold(obs))
	require.NoError(t, g.Fold(obs))

	a, _ := g.Get("TN")
	assert.Equal(t, 2, a.Records)
	assert.Equal(t, 40.0, a.HumiditySum)
	assert.Equal(t, 2, a.SnowCount)
	assert.Equal(t, 2, a.LightningCount)
	assert.Equal(t, 60.0, a.TemperatureSum)
}

func TestAggregator_FirstSightingOrder(t *testing.T) {
	g := NewAggregator(0)

	for _, code := range []string{"WA", "TN", "WA", "CA", "TN", "AK"} {
		require.NoError(t, g.Fold(obsAt(code, 0, 0)))
	}

	all := g.All()
	require.Len(t, all, 4)
	codes := make([]string, len(all))
	for i, a := range all {
		codes[i] = a.Code
	}
	assert.Equal(t, []string{"WA", "TN", "CA", "AK"}, codes)
	assert.Equal(t, "WA", all[0].Code)
	assert.Equal(t, 2, all[0].Records)
	assert.Equal(t, "AK", all[3].Code)
}

func TestAggregator_AllReturnsCopies(t *testing.T) {
	g := NewAggregator(0)
	require.NoError(t, g.Fold(obsAt("TN", 0, 1)))

	all := g.All()
	all[0].Records = 99

	a, _ := g.Get("TN")
	assert.Equal(t, 1, a.Records)
}

func TestAggregator_Capacity(t *testing.T) {
	g := NewAggregator(2)

	require.NoError(t, g.Fold(obsAt("TN", 0, 1)))
	require.NoError(t, g.Fold(obsAt("WA", 0, 1)))
	require.NoError(t, g.Fold(obsAt("TN", 0, 1)), "existing codes still fold at capacity")

	err := g.Fold(obsAt("CA", 0, 1))
	require.ErrorIs(t, err, ErrTooManyDistinctKeys)
	assert.Contains(t, err.Error(), "CA")
	assert.Equal(t, 2, g.Len())

	_, ok := g.Get("CA")
	assert.False(t, ok)
}

func TestAggregator_GetMissing(t *testing.T) {
	g := NewAggregator(0)
	_, ok := g.Get("ZZ")
	assert.False(t, ok)
}

func TestAggregator_TwoLineScenario(t *testing.T) {
	g := NewAggregator(0)

	for _, line := range []string{testLineTN1, testLineTN2} {
		obs, err := ParseLine(line, Lenient)
		require.NoError(t, err)
		require.NoError(t, g.Fold(obs))
	}

	all := g.All()
	require.Len(t, all, 1)
	tn := all[0]

	t1 := KelvinToFahrenheit(277.8087)
	t2 := KelvinToFahrenheit(262.5665)

	assert.Equal(t, "TN", tn.Code)
	assert.Equal(t, 2, tn.Records)
	assert.InDelta(t, 45.0, tn.AverageHumidity(), 1e-9)
	assert.InDelta(t, (t1+t2)/2, tn.AverageTemperature(), 1e-9)
	assert.InDelta(t, 50.0, tn.AverageCloudCover(), 1e-9)
	assert.InDelta(t, t1, tn.MaxTemperature, 1e-9)
	assert.Equal(t, int64(1422770400), tn.MaxTemperatureAt.Unix())
	assert.InDelta(t, t2, tn.MinTemperature, 1e-9)
	assert.Equal(t, int64(1424325600), tn.MinTemperatureAt.Unix())
}
