package dotosu

import (
	"strconv"
	"strings"
)

// ParseHitSample parses normalSet:additionSet:index:volume:filename. The filename
// may be empty ("0:0:0:0:") and keeps any further colons.
func ParseHitSample(spec string) (HitSample, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), ":", 5)
	if len(parts) < 5 {
		return HitSample{}, fieldErr(MalformedLine, "hitSample",
			"expected 5 ':'-separated parts, got "+strconv.Itoa(len(parts)))
	}
	normal, err := parseUint[uint8](parts[0], "hitSample normalSet")
	if err != nil {
		return HitSample{}, err
	}
	addition, err := parseUint[uint8](parts[1], "hitSample additionSet")
	if err != nil {
		return HitSample{}, err
	}
	index, err := parseUint[uint32](parts[2], "hitSample index")
	if err != nil {
		return HitSample{}, err
	}
	volume, err := parseUint[uint32](parts[3], "hitSample volume")
	if err != nil {
		return HitSample{}, err
	}
	return HitSample{
		NormalSet:   SampleSet(normal),
		AdditionSet: SampleSet(addition),
		Index:       index,
		Volume:      volume,
		Filename:    strings.Trim(strings.TrimSpace(parts[4]), "\""),
	}, nil
}

// parseEdgeSet parses one "normalSet:additionSet" slider edge pair.
func parseEdgeSet(s string) (EdgeSet, error) {
	ns, as, ok := strings.Cut(s, ":")
	if !ok {
		return EdgeSet{}, fieldErr(MalformedLine, "edgeSets", "pair "+quote(s)+" has no ':'")
	}
	normal, err := parseUint[uint8](ns, "edgeSets normalSet")
	if err != nil {
		return EdgeSet{}, err
	}
	addition, err := parseUint[uint8](as, "edgeSets additionSet")
	if err != nil {
		return EdgeSet{}, err
	}
	return EdgeSet{NormalSet: SampleSet(normal), AdditionSet: SampleSet(addition)}, nil
}

func quote(s string) string { return strconv.Quote(s) }
