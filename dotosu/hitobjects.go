package dotosu

// ---------- HitObject kinds & flags ----------

type ObjectKind uint8

const (
	KindCircle ObjectKind = iota
	KindSlider
	KindSpinner
	KindHold
)

func (k ObjectKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindSlider:
		return "slider"
	case KindSpinner:
		return "spinner"
	case KindHold:
		return "hold"
	default:
		return "unknown"
	}
}

type HitSoundFlags uint8

const (
	HitSoundNormal  HitSoundFlags = 1 << iota // 1
	HitSoundWhistle                           // 2
	HitSoundFinish                            // 4
	HitSoundClap                              // 8
)

// SampleSet is shared by hit samples, slider edges and timing points.
type SampleSet uint8

const (
	SampleSetDefault SampleSet = iota
	SampleSetNormal
	SampleSetSoft
	SampleSetDrum
)

func (s SampleSet) String() string {
	switch s {
	case SampleSetDefault:
		return "default"
	case SampleSetNormal:
		return "normal"
	case SampleSetSoft:
		return "soft"
	case SampleSetDrum:
		return "drum"
	default:
		return "unknown"
	}
}

// TypeFlags is the packed type column of a hit object line.
type TypeFlags uint8

const (
	TypeCircle    TypeFlags = 1 << 0
	TypeSlider    TypeFlags = 1 << 1
	TypeNewCombo  TypeFlags = 1 << 2
	TypeSpinner   TypeFlags = 1 << 3
	TypeComboSkip TypeFlags = 0b111 << 4
	TypeHold      TypeFlags = 1 << 7

	kindMask = TypeCircle | TypeSlider | TypeSpinner | TypeHold
)

// Kind returns the object kind selected by exactly one of the kind bits.
func (f TypeFlags) Kind() (ObjectKind, error) {
	switch f & kindMask {
	case TypeCircle:
		return KindCircle, nil
	case TypeSlider:
		return KindSlider, nil
	case TypeSpinner:
		return KindSpinner, nil
	case TypeHold:
		return KindHold, nil
	case 0:
		return 0, fieldErr(UnknownObjectKind, "type", "no kind bit set")
	default:
		return 0, fieldErr(UnknownObjectKind, "type", "more than one kind bit set")
	}
}

func (f TypeFlags) NewCombo() bool  { return f&TypeNewCombo != 0 }
func (f TypeFlags) ComboSkip() uint8 { return uint8(f&TypeComboSkip) >> 4 }

// ---------- typed variants ----------

type Vec2 struct{ X, Y int }

type HitSample struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       uint32 // custom sample bank, 0 = skin default
	Volume      uint32 // 0 = timing point volume
	Filename    string // empty = default sample
}

// EdgeSet is the normal:addition pair applied on one slider edge.
type EdgeSet struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
}

type CurveType uint8

const (
	CurveBezier CurveType = iota
	CurveLinear
	CurvePerfect
	CurveCatmull
)

func (c CurveType) String() string {
	switch c {
	case CurveBezier:
		return "bezier"
	case CurveLinear:
		return "linear"
	case CurvePerfect:
		return "perfect"
	case CurveCatmull:
		return "catmull"
	default:
		return "unknown"
	}
}

type HitObject interface {
	Kind() ObjectKind
	StartTime() uint32
	Pos() Vec2
	NewCombo() bool
	ComboSkip() uint8
	HitSound() HitSoundFlags
	Sample() HitSample
}

type BaseHO struct {
	Position   Vec2
	Time       uint32
	IsNewCombo bool
	ColorSkip  uint8
	Sound      HitSoundFlags
	HitSample  HitSample
}

func (b BaseHO) StartTime() uint32       { return b.Time }
func (b BaseHO) Pos() Vec2               { return b.Position }
func (b BaseHO) NewCombo() bool          { return b.IsNewCombo }
func (b BaseHO) ComboSkip() uint8        { return b.ColorSkip }
func (b BaseHO) HitSound() HitSoundFlags { return b.Sound }
func (b BaseHO) Sample() HitSample       { return b.HitSample }

type Circle struct{ BaseHO }

func (Circle) Kind() ObjectKind { return KindCircle }

type Slider struct {
	BaseHO
	Curve       CurveType
	CurvePoints []Vec2 // control points after the head, may be empty
	Slides      uint32
	Length      float64
	EdgeSounds  []HitSoundFlags // len == Slides+1 (head, repeats..., tail)
	EdgeSets    []EdgeSet       // len == Slides+1
}

func (Slider) Kind() ObjectKind { return KindSlider }

// Segments splits the path, head included, at repeated control points
// (red anchors). Non-Bézier curves are a single segment.
func (s Slider) Segments() [][]Vec2 {
	pts := append([]Vec2{s.Position}, s.CurvePoints...)
	if s.Curve != CurveBezier {
		return [][]Vec2{pts}
	}
	var segs [][]Vec2
	cur := []Vec2{pts[0]}
	for _, p := range pts[1:] {
		if p == cur[len(cur)-1] {
			if len(cur) >= 2 {
				segs = append(segs, cur)
			}
			cur = []Vec2{p}
			continue
		}
		cur = append(cur, p)
	}
	if len(cur) >= 2 {
		segs = append(segs, cur)
	}
	if len(segs) == 0 {
		// degenerate; keep a 2-point segment so callers can still walk it
		segs = [][]Vec2{{s.Position, s.Position}}
	}
	return segs
}

type Spinner struct {
	BaseHO
	EndTime uint32
}

func (Spinner) Kind() ObjectKind { return KindSpinner }

// Hold is a mania hold note.
type Hold struct {
	BaseHO
	EndTime uint32
}

func (Hold) Kind() ObjectKind { return KindHold }
