package dotosu

import (
	"strconv"
	"strings"
)

// Effects is the timing point effect bit-field. Kiai and OmitFirstBarline may
// combine; any other value means no recognised effect.
type Effects uint8

const (
	EffectKiai             Effects = 1 << 0
	EffectOmitFirstBarline Effects = 1 << 3
)

func (e Effects) Kiai() bool             { return e&EffectKiai != 0 }
func (e Effects) OmitFirstBarline() bool { return e&EffectOmitFirstBarline != 0 }

type TimingPoint struct {
	Time        int
	BeatLength  float64 // negative on inherited points: -100/multiplier
	Meter       int
	SampleSet   SampleSet
	SampleIndex int
	Volume      int
	Uninherited bool
	Effects     Effects
}

// DefaultTimingPoint holds the values used for columns older maps omit.
func DefaultTimingPoint() TimingPoint {
	return TimingPoint{
		BeatLength:  500,
		Meter:       4,
		SampleSet:   SampleSetDefault,
		Volume:      100,
		Uninherited: true,
	}
}

// BPM is only meaningful on uninherited points; inherited points return 0.
func (tp TimingPoint) BPM() float64 {
	if !tp.Uninherited || tp.BeatLength <= 0 {
		return 0
	}
	return 60000 / tp.BeatLength
}

// SliderVelocity is the multiplier an inherited point applies; 1 otherwise.
func (tp TimingPoint) SliderVelocity() float64 {
	if tp.Uninherited || tp.BeatLength >= 0 {
		return 1
	}
	return 100.0 / -tp.BeatLength
}

// DecodeTimingPoint decodes time,beatLength,meter,sampleSet,sampleIndex,volume,uninherited,effects.
// Only the first two columns are required.
func DecodeTimingPoint(line string) (TimingPoint, error) {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return TimingPoint{}, fieldErr(MalformedLine, "", "expected at least 2 fields, got "+strconv.Itoa(len(parts)))
	}
	if len(parts) > 8 {
		return TimingPoint{}, fieldErr(MalformedLine, "", "expected at most 8 fields, got "+strconv.Itoa(len(parts)))
	}

	tp := DefaultTimingPoint()
	var err error
	if tp.Time, err = parseSigned[int](parts[0], "time"); err != nil {
		return TimingPoint{}, err
	}
	if tp.BeatLength, err = parseFloat64(parts[1], "beatLength"); err != nil {
		return TimingPoint{}, err
	}
	if len(parts) > 2 {
		if tp.Meter, err = parseSigned[int](parts[2], "meter"); err != nil {
			return TimingPoint{}, err
		}
	}
	if len(parts) > 3 {
		set, err := parseUint[uint8](parts[3], "sampleSet")
		if err != nil {
			return TimingPoint{}, err
		}
		if SampleSet(set) > SampleSetDrum {
			return TimingPoint{}, fieldErr(NumericFormat, "sampleSet", "expected 0 to 3, got "+quote(parts[3]))
		}
		tp.SampleSet = SampleSet(set)
	}
	if len(parts) > 4 {
		if tp.SampleIndex, err = parseSigned[int](parts[4], "sampleIndex"); err != nil {
			return TimingPoint{}, err
		}
	}
	if len(parts) > 5 {
		if tp.Volume, err = parseSigned[int](parts[5], "volume"); err != nil {
			return TimingPoint{}, err
		}
	}
	if len(parts) > 6 {
		switch parts[6] {
		case "0":
			tp.Uninherited = false
		case "1":
			tp.Uninherited = true
		default:
			return TimingPoint{}, fieldErr(NumericFormat, "uninherited", "expected 0 or 1, got "+quote(parts[6]))
		}
	}
	if len(parts) > 7 {
		bits, err := parseSigned[int](parts[7], "effects")
		if err != nil {
			return TimingPoint{}, err
		}
		tp.Effects = effectsFromBits(bits)
	}
	return tp, nil
}

func effectsFromBits(bits int) Effects {
	switch Effects(bits) {
	case 0, EffectKiai, EffectOmitFirstBarline, EffectKiai | EffectOmitFirstBarline:
		if bits >= 0 && bits <= 0xff {
			return Effects(bits)
		}
	}
	return 0
}
