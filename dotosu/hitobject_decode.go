package dotosu

import (
	"strconv"
	"strings"
)

// x,y,time,type,hitSound[,objectParams][,hitSample]
const headFields = 5

type fieldRule uint8

const (
	mandatory fieldRule = iota
	defaultableTail
)

type tailField struct {
	name string
	rule fieldRule
}

// tailLayouts lists the columns after hitSound for each kind. Only a trailing
// hit sample may be absent; every other column fails the line when missing.
var tailLayouts = [...][]tailField{
	KindCircle: {
		{"hitSample", defaultableTail},
	},
	KindSlider: {
		{"curve", mandatory},
		{"slides", mandatory},
		{"length", mandatory},
		{"edgeSounds", mandatory},
		{"edgeSets", mandatory},
		{"hitSample", defaultableTail},
	},
	KindSpinner: {
		{"endTime", mandatory},
		{"hitSample", defaultableTail},
	},
	KindHold: {
		{"endTime:hitSample", mandatory},
	},
}

// objectTail hands out the kind-specific columns after checking them against
// the layout, so decoders only see present mandatory fields.
type objectTail struct {
	tokens []string
}

func newObjectTail(kind ObjectKind, tokens []string) (objectTail, error) {
	layout := tailLayouts[kind]
	// a trailing empty column is the same as an absent one
	for len(tokens) > 0 && tokens[len(tokens)-1] == "" {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) > len(layout) {
		return objectTail{}, fieldErr(MalformedLine, "",
			kind.String()+" takes at most "+strconv.Itoa(headFields+len(layout))+" fields, got "+strconv.Itoa(headFields+len(tokens)))
	}
	for i, f := range layout {
		if f.rule != mandatory {
			continue
		}
		if i >= len(tokens) || tokens[i] == "" {
			return objectTail{}, fieldErr(MissingMandatoryField, f.name, kind.String()+" requires it")
		}
	}
	return objectTail{tokens: tokens}, nil
}

func (t objectTail) field(i int) string { return t.tokens[i] }

// optional reports the column at i and whether it is present.
func (t objectTail) optional(i int) (string, bool) {
	if i >= len(t.tokens) || t.tokens[i] == "" {
		return "", false
	}
	return t.tokens[i], true
}

// DecodeHitObject decodes a single [HitObjects] line.
func DecodeHitObject(line string) (HitObject, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < headFields {
		return nil, fieldErr(MalformedLine, "", "expected at least "+strconv.Itoa(headFields)+" fields, got "+strconv.Itoa(len(parts)))
	}

	x, err := parseSigned[int](parts[0], "x")
	if err != nil {
		return nil, err
	}
	y, err := parseSigned[int](parts[1], "y")
	if err != nil {
		return nil, err
	}
	t, err := parseUint[uint32](parts[2], "time")
	if err != nil {
		return nil, err
	}
	flags, err := parseUint[uint8](parts[3], "type")
	if err != nil {
		return nil, err
	}
	hs, err := parseUint[uint8](parts[4], "hitSound")
	if err != nil {
		return nil, err
	}

	typ := TypeFlags(flags)
	kind, err := typ.Kind()
	if err != nil {
		return nil, err
	}
	tail, err := newObjectTail(kind, parts[headFields:])
	if err != nil {
		return nil, err
	}

	base := BaseHO{
		Position:   Vec2{X: x, Y: y},
		Time:       t,
		IsNewCombo: typ.NewCombo(),
		ColorSkip:  typ.ComboSkip(),
		Sound:      HitSoundFlags(hs),
	}

	switch kind {
	case KindSlider:
		return decodeSlider(base, tail)
	case KindSpinner:
		return decodeSpinner(base, tail)
	case KindHold:
		return decodeHold(base, tail)
	default:
		if base.HitSample, err = trailingSample(tail, 0); err != nil {
			return nil, err
		}
		return Circle{BaseHO: base}, nil
	}
}

func trailingSample(tail objectTail, i int) (HitSample, error) {
	spec, ok := tail.optional(i)
	if !ok {
		return HitSample{}, nil
	}
	return ParseHitSample(spec)
}

func decodeSlider(base BaseHO, tail objectTail) (HitObject, error) {
	curve, points, err := ParseCurve(tail.field(0))
	if err != nil {
		return nil, err
	}
	slides, err := parseUint[uint32](tail.field(1), "slides")
	if err != nil {
		return nil, err
	}
	if slides < 1 {
		return nil, fieldErr(NumericFormat, "slides", "must be at least 1")
	}
	length, err := parseFloat64(tail.field(2), "length")
	if err != nil {
		return nil, err
	}
	if length < 0 {
		return nil, fieldErr(NumericFormat, "length", "must not be negative")
	}

	edges := int(slides) + 1
	soundTokens := strings.Split(tail.field(3), "|")
	setTokens := strings.Split(tail.field(4), "|")
	if len(soundTokens) != edges {
		return nil, fieldErr(MalformedLine, "edgeSounds",
			"expected "+strconv.Itoa(edges)+" entries, got "+strconv.Itoa(len(soundTokens)))
	}
	if len(setTokens) != edges {
		return nil, fieldErr(MalformedLine, "edgeSets",
			"expected "+strconv.Itoa(edges)+" entries, got "+strconv.Itoa(len(setTokens)))
	}

	sounds := make([]HitSoundFlags, edges)
	for i, tok := range soundTokens {
		v, err := parseUint[uint8](tok, "edgeSounds")
		if err != nil {
			return nil, err
		}
		sounds[i] = HitSoundFlags(v)
	}
	sets := make([]EdgeSet, edges)
	for i, tok := range setTokens {
		if sets[i], err = parseEdgeSet(tok); err != nil {
			return nil, err
		}
	}

	if base.HitSample, err = trailingSample(tail, 5); err != nil {
		return nil, err
	}
	return Slider{
		BaseHO:      base,
		Curve:       curve,
		CurvePoints: points,
		Slides:      slides,
		Length:      length,
		EdgeSounds:  sounds,
		EdgeSets:    sets,
	}, nil
}

func decodeSpinner(base BaseHO, tail objectTail) (HitObject, error) {
	end, err := parseUint[uint32](tail.field(0), "endTime")
	if err != nil {
		return nil, err
	}
	if end < base.Time {
		return nil, fieldErr(MalformedLine, "endTime", "ends before it starts")
	}
	if base.HitSample, err = trailingSample(tail, 1); err != nil {
		return nil, err
	}
	return Spinner{BaseHO: base, EndTime: end}, nil
}

// decodeHold reads the mania "endTime:hitSample" column.
func decodeHold(base BaseHO, tail objectTail) (HitObject, error) {
	endStr, sampleStr, ok := strings.Cut(tail.field(0), ":")
	if !ok {
		return nil, fieldErr(MalformedLine, "endTime:hitSample", "missing ':' after end time")
	}
	end, err := parseUint[uint32](endStr, "endTime")
	if err != nil {
		return nil, err
	}
	if end < base.Time {
		return nil, fieldErr(MalformedLine, "endTime", "ends before it starts")
	}
	if base.HitSample, err = ParseHitSample(sampleStr); err != nil {
		return nil, err
	}
	return Hold{BaseHO: base, EndTime: end}, nil
}
