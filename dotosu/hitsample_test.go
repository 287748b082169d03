package dotosu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHitSampleEmptyFilename(t *testing.T) {
	hs, err := ParseHitSample("0:0:0:0:")
	require.NoError(t, err)
	assert.Equal(t, HitSample{}, hs)
	assert.Equal(t, "", hs.Filename)
}

func TestParseHitSampleFull(t *testing.T) {
	hs, err := ParseHitSample("2:3:12:70:drum-hit:clap.wav")
	require.NoError(t, err)
	assert.Equal(t, HitSample{
		NormalSet:   SampleSetSoft,
		AdditionSet: SampleSetDrum,
		Index:       12,
		Volume:      70,
		Filename:    "drum-hit:clap.wav",
	}, hs)
}

func TestParseHitSampleErrors(t *testing.T) {
	for _, spec := range []string{"", "0", "0:0:0:0", "1:2:3"} {
		_, err := ParseHitSample(spec)
		requireKind(t, err, MalformedLine)
	}
	for _, spec := range []string{"a:0:0:0:", "0:0:-1:0:", "0::0:0:", "300:0:0:0:"} {
		_, err := ParseHitSample(spec)
		requireKind(t, err, NumericFormat)
	}
}

func TestParseEdgeSet(t *testing.T) {
	es, err := parseEdgeSet("1:2")
	require.NoError(t, err)
	assert.Equal(t, EdgeSet{NormalSet: SampleSetNormal, AdditionSet: SampleSetSoft}, es)

	_, err = parseEdgeSet("1")
	requireKind(t, err, MalformedLine)
}
