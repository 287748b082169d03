package server

import "osuparse/dotosu"

type DecodeResponse struct {
	FormatVersion int            `json:"format_version"`
	Metadata      Metadata       `json:"metadata"`
	Summary       dotosu.Summary `json:"summary"`
}

type Metadata struct {
	Title        string   `json:"title"`
	Artist       string   `json:"artist"`
	Creator      string   `json:"creator"`
	Version      string   `json:"version"`
	Source       string   `json:"source,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	BeatmapID    int      `json:"beatmap_id"`
	BeatmapSetID int      `json:"beatmapset_id"`
	Mode         int      `json:"mode"`
}

type ErrorResponse struct {
	Line    int    `json:"line,omitempty"`
	Section string `json:"section,omitempty"`
	Field   string `json:"field,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Text    string `json:"text,omitempty"`
	Message string `json:"message"`
}

// Describe is the JSON view of a decoded beatmap.
func Describe(b *dotosu.Beatmap) DecodeResponse {
	return DecodeResponse{
		FormatVersion: b.FormatVersion,
		Metadata: Metadata{
			Title:        b.Metadata.Title,
			Artist:       b.Metadata.Artist,
			Creator:      b.Metadata.Creator,
			Version:      b.Metadata.Version,
			Source:       b.Metadata.Source,
			Tags:         b.Metadata.Tags,
			BeatmapID:    b.Metadata.BeatmapID,
			BeatmapSetID: b.Metadata.BeatmapSetID,
			Mode:         b.General.Mode,
		},
		Summary: b.Summary(),
	}
}

func decodeErrorResponse(de *dotosu.DecodeError) ErrorResponse {
	return ErrorResponse{
		Line:    de.Line,
		Section: de.Section,
		Field:   de.Field,
		Kind:    de.Kind.String(),
		Text:    de.Text,
		Message: de.Error(),
	}
}
