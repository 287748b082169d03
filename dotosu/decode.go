package dotosu

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const headerPrefix = "osu file format v"

// Decode reads a whole .osu document. The first line that fails to decode in
// [TimingPoints] or [HitObjects] aborts with a *DecodeError; no partial beatmap
// is returned.
func Decode(r io.Reader) (*Beatmap, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 1024 * 1024
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	b := NewBeatmap()
	sec := secNone
	lineNo := 0

	for sc.Scan() {
		lineNo++
		raw := sc.Text()
		if lineNo == 1 {
			raw = strings.TrimPrefix(raw, "\uFEFF")
		}
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if next, ok := sectionHeader(line); ok {
			sec = next
			continue
		}

		switch sec {
		case secNone:
			if v, ok := strings.CutPrefix(line, headerPrefix); ok {
				if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
					b.FormatVersion = n
				}
			}
		case secGeneral:
			b.applyGeneral(line)
		case secEditor:
			b.applyEditor(line)
		case secMetadata:
			b.applyMetadata(line)
		case secDifficulty:
			b.applyDifficulty(line)
		case secTimingPoints:
			tp, err := DecodeTimingPoint(line)
			if err != nil {
				return nil, located(err, lineNo, "TimingPoints", line)
			}
			b.TimingPoints = append(b.TimingPoints, tp)
		case secHitObjects:
			ho, err := DecodeHitObject(line)
			if err != nil {
				return nil, located(err, lineNo, "HitObjects", line)
			}
			b.HitObjects = append(b.HitObjects, ho)
		case secEvents, secColours:
			// recognised so their lines are not misread; not decoded
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrapf(err, "read line %d", lineNo+1)
	}
	return b, nil
}

func DecodeString(text string) (*Beatmap, error) {
	return Decode(strings.NewReader(text))
}
