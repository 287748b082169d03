package dotosu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurveBezier(t *testing.T) {
	typ, points, err := ParseCurve("B|200:200|250:200|250:200|300:150")
	require.NoError(t, err)
	assert.Equal(t, CurveBezier, typ)
	assert.Equal(t, []Vec2{{200, 200}, {250, 200}, {250, 200}, {300, 150}}, points)
}

func TestParseCurveTags(t *testing.T) {
	tags := map[string]CurveType{"L": CurveLinear, "B": CurveBezier, "P": CurvePerfect, "C": CurveCatmull}
	for tag, want := range tags {
		typ, points, err := ParseCurve(tag + "|-5:10")
		require.NoError(t, err, tag)
		assert.Equal(t, want, typ)
		assert.Equal(t, []Vec2{{-5, 10}}, points)
	}
}

func TestParseCurveNoPoints(t *testing.T) {
	typ, points, err := ParseCurve("P")
	require.NoError(t, err)
	assert.Equal(t, CurvePerfect, typ)
	assert.Empty(t, points)
}

func TestParseCurveErrors(t *testing.T) {
	for _, spec := range []string{"X|1:1", "BB|1:1", "b|1:1", "|1:1"} {
		_, _, err := ParseCurve(spec)
		requireKind(t, err, UnknownCurveTag)
	}

	_, _, err := ParseCurve("")
	requireKind(t, err, MissingMandatoryField)

	_, _, err = ParseCurve("B|100")
	requireKind(t, err, MalformedLine)

	_, _, err = ParseCurve("B|100:")
	requireKind(t, err, NumericFormat)

	_, _, err = ParseCurve("B|1:2:3")
	requireKind(t, err, NumericFormat)

	_, _, err = ParseCurve("L|1.5:2")
	requireKind(t, err, NumericFormat)
}
