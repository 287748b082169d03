package dotosu

import "math"

// SlideDuration is how long one pass along s takes in milliseconds, using the
// timing in effect at its start. Inherited velocities are clamped to 0.1x.
func (b *Beatmap) SlideDuration(s Slider) float64 {
	if b.Difficulty.SliderMultiplier <= 0 {
		return 0
	}
	beatLength := DefaultTimingPoint().BeatLength
	sv := 1.0
	red, green := b.TimingAt(int(s.Time))
	if red != nil {
		beatLength = red.BeatLength
	}
	if green != nil {
		sv = max(0.1, green.SliderVelocity())
	}
	return s.Length / (b.Difficulty.SliderMultiplier * 100 * sv) * beatLength
}

// EndTime is when an object stops needing input: the start time for circles,
// the last slide for sliders, EndTime for spinners and holds.
func (b *Beatmap) EndTime(ho HitObject) uint32 {
	switch ho := ho.(type) {
	case Slider:
		d := max(0, math.Round(float64(ho.Slides)*b.SlideDuration(ho)))
		return ho.Time + uint32(d)
	case Spinner:
		return ho.EndTime
	case Hold:
		return ho.EndTime
	}
	return ho.StartTime()
}

// TimingAt returns the uninherited (red) and inherited (green) points in effect
// at t. A green line only counts if it comes after the red line it modifies.
// Either result may be nil. Points are walked in file order.
func (b *Beatmap) TimingAt(t int) (red, green *TimingPoint) {
	for i := range b.TimingPoints {
		tp := &b.TimingPoints[i]
		if red != nil && tp.Time > t {
			break
		}
		if tp.Uninherited {
			red = tp
			green = nil
		} else if tp.Time <= t {
			green = tp
		}
	}
	return red, green
}

type Summary struct {
	Circles     int     `json:"circles"`
	Sliders     int     `json:"sliders"`
	Spinners    int     `json:"spinners"`
	Holds       int     `json:"holds"`
	FirstObject uint32  `json:"first_object"`
	LastObject  uint32  `json:"last_object"` // latest EndTime of any object
	MinBPM      float64 `json:"min_bpm"`
	MaxBPM      float64 `json:"max_bpm"`
	KiaiPoints  int     `json:"kiai_points"`
}

func (s Summary) Objects() int { return s.Circles + s.Sliders + s.Spinners + s.Holds }

func (b *Beatmap) Summary() Summary {
	var s Summary
	first := uint32(math.MaxUint32)
	for _, object := range b.HitObjects {
		switch object.(type) {
		case Circle:
			s.Circles++
		case Slider:
			s.Sliders++
		case Spinner:
			s.Spinners++
		case Hold:
			s.Holds++
		}
		first = min(first, object.StartTime())
		s.LastObject = max(s.LastObject, b.EndTime(object))
	}
	if len(b.HitObjects) > 0 {
		s.FirstObject = first
	}

	for _, tp := range b.TimingPoints {
		if tp.Effects.Kiai() {
			s.KiaiPoints++
		}
		bpm := tp.BPM()
		if bpm == 0 {
			continue
		}
		if s.MinBPM == 0 || bpm < s.MinBPM {
			s.MinBPM = bpm
		}
		s.MaxBPM = max(s.MaxBPM, bpm)
	}
	return s
}
