package dotosu

import (
	"strings"
)

// ParseCurve converts "B|x:y|x:y|..." into a curve type and the control points
// that follow the slider head. A bare tag yields no points.
func ParseCurve(spec string) (CurveType, []Vec2, error) {
	tag, rest, hasPoints := strings.Cut(strings.TrimSpace(spec), "|")
	if tag == "" && !hasPoints {
		return 0, nil, fieldErr(MissingMandatoryField, "curve", "empty curve spec")
	}
	typ, err := curveTypeFromTag(strings.TrimSpace(tag))
	if err != nil {
		return 0, nil, err
	}
	if !hasPoints {
		return typ, []Vec2{}, nil
	}

	segs := strings.Split(rest, "|")
	points := make([]Vec2, 0, len(segs))
	for _, seg := range segs {
		xs, ys, ok := strings.Cut(seg, ":")
		if !ok {
			return 0, nil, fieldErr(MalformedLine, "curve", "control point "+quote(seg)+" has no ':'")
		}
		x, err := parseSigned[int](xs, "curve point x")
		if err != nil {
			return 0, nil, err
		}
		y, err := parseSigned[int](ys, "curve point y")
		if err != nil {
			return 0, nil, err
		}
		points = append(points, Vec2{X: x, Y: y})
	}
	return typ, points, nil
}

func curveTypeFromTag(tag string) (CurveType, error) {
	switch tag {
	case "L":
		return CurveLinear, nil
	case "B":
		return CurveBezier, nil
	case "P":
		return CurvePerfect, nil
	case "C":
		return CurveCatmull, nil
	default:
		return 0, fieldErr(UnknownCurveTag, "curve", "tag "+quote(tag))
	}
}
