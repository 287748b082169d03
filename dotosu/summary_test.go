package dotosu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	b, err := DecodeString(sampleMap)
	require.NoError(t, err)

	s := b.Summary()
	assert.Equal(t, Summary{
		Circles:     1,
		Sliders:     1,
		Spinners:    1,
		Holds:       1,
		FirstObject: 10500,
		LastObject:  15000,
		MinBPM:      120,
		MaxBPM:      240,
		KiaiPoints:  1,
	}, s)
	assert.Equal(t, 4, s.Objects())
}

func TestSummaryEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, NewBeatmap().Summary())
}

func TestTimingAt(t *testing.T) {
	b, err := DecodeString(sampleMap)
	require.NoError(t, err)

	red, green := b.TimingAt(500)
	require.NotNil(t, red)
	assert.Equal(t, 1000, red.Time)
	assert.Nil(t, green)

	red, green = b.TimingAt(6000)
	require.NotNil(t, red)
	require.NotNil(t, green)
	assert.Equal(t, 1000, red.Time)
	assert.Equal(t, 2.0, green.SliderVelocity())

	red, green = b.TimingAt(9000)
	assert.Equal(t, 9000, red.Time)
	assert.Nil(t, green)

	red, green = NewBeatmap().TimingAt(0)
	assert.Nil(t, red)
	assert.Nil(t, green)
}

func TestSliderEndTime(t *testing.T) {
	b, err := DecodeString(sampleMap)
	require.NoError(t, err)

	slider := b.HitObjects[1].(Slider)
	// red line at 9000 (250ms beats) resets the earlier 2x green line
	assert.InDelta(t, 310.123/140*250, b.SlideDuration(slider), 1e-9)
	assert.Equal(t, uint32(12600+1108), b.EndTime(slider))

	assert.Equal(t, uint32(11000), b.EndTime(b.HitObjects[0]))
	assert.Equal(t, uint32(15000), b.EndTime(b.HitObjects[2]))
	assert.Equal(t, uint32(12000), b.EndTime(b.HitObjects[3]))
}

func TestSlideDurationUsesGreenLine(t *testing.T) {
	b := NewBeatmap()
	b.TimingPoints = []TimingPoint{
		{Time: 0, BeatLength: 500, Uninherited: true},
		{Time: 100, BeatLength: -50},
	}
	s := Slider{BaseHO: BaseHO{Time: 200}, Slides: 1, Length: 140}
	// 2x velocity halves the 500ms it would take at 1x
	assert.InDelta(t, 250.0, b.SlideDuration(s), 1e-9)

	b.Difficulty.SliderMultiplier = 0
	assert.Equal(t, 0.0, b.SlideDuration(s))
}

func TestSliderEndTimeNeverBeforeStart(t *testing.T) {
	b := NewBeatmap()
	b.TimingPoints = []TimingPoint{{Time: 0, BeatLength: -500, Uninherited: true}}
	s := Slider{BaseHO: BaseHO{Time: 200}, Slides: 2, Length: 140}
	assert.Less(t, b.SlideDuration(s), 0.0)
	assert.Equal(t, uint32(200), b.EndTime(s))
}
