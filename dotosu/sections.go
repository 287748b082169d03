package dotosu

import (
	"strings"
)

type section int

const (
	secNone section = iota
	secGeneral
	secEditor
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secColours
	secHitObjects
)

var sectionNames = map[string]section{
	"general":      secGeneral,
	"editor":       secEditor,
	"metadata":     secMetadata,
	"difficulty":   secDifficulty,
	"events":       secEvents,
	"timingpoints": secTimingPoints,
	"colours":      secColours,
	"hitobjects":   secHitObjects,
}

// sectionHeader reports whether line is a [Name] header and which section it opens.
// Unknown names open secNone.
func sectionHeader(line string) (section, bool) {
	if !strings.HasPrefix(line, "[") || !strings.HasSuffix(line, "]") {
		return secNone, false
	}
	name := strings.TrimSpace(line[1 : len(line)-1])
	return sectionNames[strings.ToLower(name)], true
}

// ---------- flat Key: Value sections ----------
// A value that does not parse keeps the default; unknown keys are ignored.

func (b *Beatmap) applyGeneral(line string) {
	k, v := splitKeyVal(line)
	g := &b.General
	switch strings.ToLower(k) {
	case "audiofilename":
		g.AudioFilename = standardisePath(v)
	case "audioleadin":
		g.AudioLeadIn = parseInt(v, g.AudioLeadIn)
	case "audiohash":
		g.AudioHash = v
	case "previewtime":
		g.PreviewTime = parseInt(v, g.PreviewTime)
	case "countdown":
		g.Countdown = parseInt(v, g.Countdown)
	case "sampleset":
		g.SampleSet = v
	case "stackleniency":
		g.StackLeniency = parseFloat(v, g.StackLeniency)
	case "mode":
		g.Mode = parseInt(v, g.Mode)
	case "letterboxinbreaks":
		g.LetterboxInBreaks = parseBoolInt(v, g.LetterboxInBreaks)
	case "storyfireinfront":
		g.StoryFireInFront = parseBoolInt(v, g.StoryFireInFront)
	case "useskinsprites":
		g.UseSkinSprites = parseBoolInt(v, g.UseSkinSprites)
	case "alwaysshowplayfield":
		g.AlwaysShowPlayfield = parseBoolInt(v, g.AlwaysShowPlayfield)
	case "overlayposition":
		g.OverlayPosition = v
	case "skinpreference":
		g.SkinPreference = v
	case "epilepsywarning":
		g.EpilepsyWarning = parseBoolInt(v, g.EpilepsyWarning)
	case "countdownoffset":
		g.CountdownOffset = parseInt(v, g.CountdownOffset)
	case "specialstyle":
		g.SpecialStyle = parseBoolInt(v, g.SpecialStyle)
	case "widescreenstoryboard":
		g.WidescreenStoryboard = parseBoolInt(v, g.WidescreenStoryboard)
	case "samplesmatchplaybackrate":
		g.SamplesMatchPlaybackRate = parseBoolInt(v, g.SamplesMatchPlaybackRate)
	}
}

func (b *Beatmap) applyEditor(line string) {
	k, v := splitKeyVal(line)
	e := &b.Editor
	switch strings.ToLower(k) {
	case "bookmarks":
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				e.Bookmarks = append(e.Bookmarks, parseInt(p, 0))
			}
		}
	case "distancespacing":
		e.DistanceSpacing = parseFloat(v, e.DistanceSpacing)
	case "beatdivisor":
		e.BeatDivisor = parseInt(v, e.BeatDivisor)
	case "gridsize":
		e.GridSize = parseInt(v, e.GridSize)
	case "timelinezoom":
		e.TimelineZoom = parseFloat(v, e.TimelineZoom)
	}
}

func (b *Beatmap) applyMetadata(line string) {
	k, v := splitKeyVal(line)
	m := &b.Metadata
	switch strings.ToLower(k) {
	case "title":
		m.Title = v
	case "titleunicode":
		m.TitleUnicode = v
	case "artist":
		m.Artist = v
	case "artistunicode":
		m.ArtistUnicode = v
	case "creator":
		m.Creator = v
	case "version":
		m.Version = v
	case "source":
		m.Source = v
	case "tags":
		m.Tags = strings.Fields(v)
	case "beatmapid":
		m.BeatmapID = parseInt(v, m.BeatmapID)
	case "beatmapsetid":
		m.BeatmapSetID = parseInt(v, m.BeatmapSetID)
	}
}

func (b *Beatmap) applyDifficulty(line string) {
	k, v := splitKeyVal(line)
	d := &b.Difficulty
	switch strings.ToLower(k) {
	case "hpdrainrate":
		d.HPDrainRate = parseFloat(v, d.HPDrainRate)
	case "circlesize":
		d.CircleSize = parseFloat(v, d.CircleSize)
	case "overalldifficulty":
		d.OverallDifficulty = parseFloat(v, d.OverallDifficulty)
	case "approachrate":
		d.ApproachRate = parseFloat(v, d.ApproachRate)
	case "slidermultiplier":
		d.SliderMultiplier = parseFloat(v, d.SliderMultiplier)
	case "slidertickrate":
		d.SliderTickRate = parseFloat(v, d.SliderTickRate)
	}
}

func standardisePath(p string) string {
	p = strings.Trim(p, "\"")
	return strings.ReplaceAll(p, "\\", "/")
}
